package media

import (
	"bytes"
	"strings"
	"testing"

	"chat-real/errors"

	"github.com/stretchr/testify/require"
)

// Minimal PNG: magic bytes are all the sniffer needs.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func TestDataURIEncoder_Encode_Image(t *testing.T) {
	req := require.New(t)

	ref, err := DataURIEncoder{}.Encode(bytes.NewReader(pngBytes))
	req.NoError(err)
	req.True(strings.HasPrefix(ref, "data:image/png;base64,"), "got %q", ref)
}

func TestDataURIEncoder_Encode_RejectsNonImage(t *testing.T) {
	req := require.New(t)

	_, err := DataURIEncoder{}.Encode(strings.NewReader("just some text"))
	req.ErrorIs(err, errors.ErrNotAnImage)
	req.ErrorIs(err, errors.ErrInvalidArgument)
}
