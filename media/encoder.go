// Package media converts uploaded files into displayable image references.
package media

import (
	"encoding/base64"
	"io"
	"strings"

	"chat-real/errors"

	"github.com/gabriel-vasile/mimetype"
)

//go:generate go run go.uber.org/mock/mockgen -source=encoder.go -destination=../mocks/mock_encoder.go -package=mocks

// Encoder turns a file handle into an image reference the timeline can
// carry. A failure leaves whatever the reference was attached to unchanged.
type Encoder interface {
	Encode(file io.Reader) (string, error)
}

// DataURIEncoder inlines the file as a base64 data URI, the same shape a
// browser FileReader produces. Content type is sniffed, not trusted.
type DataURIEncoder struct{}

func (DataURIEncoder) Encode(file io.Reader) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", errors.ErrNotAnImage
	}

	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(mime.String())
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}
