//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_message_index.go -package=mocks
package repositories

import (
	"context"
	"log/slog"

	"chat-real/domain"
	"chat-real/domain/search"

	"github.com/blugelabs/bluge"
)

// IMessageIndex is the optional full-text index over timeline messages.
// Entries follow the timeline: indexed on append, dropped on moderation
// delete and on a full reset.
type IMessageIndex interface {
	Index(roomID string, msg domain.Message) error
	Delete(messageID string) error
	Search(ctx context.Context, query search.Query) ([]MessageHit, error)
	Close() error
}

type MessageHit struct {
	MessageID string
	RoomID    string
	SenderID  string
	Text      string
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(path string, log *slog.Logger) (*MessageIndex, error) {
	if log == nil {
		log = slog.Default()
	}
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &MessageIndex{writer: writer, log: log}, nil
}

func (x *MessageIndex) Index(roomID string, msg domain.Message) error {
	doc := bluge.NewDocument(msg.ID).
		AddField(bluge.NewTextField("text", msg.Text).StoreValue()).
		AddField(bluge.NewKeywordField("room", roomID).StoreValue()).
		AddField(bluge.NewKeywordField("sender", msg.SenderID).StoreValue())
	return x.writer.Update(doc.ID(), doc)
}

func (x *MessageIndex) Delete(messageID string) error {
	return x.writer.Delete(bluge.Identifier(messageID))
}

// Search matches the query terms against message bodies, narrowed by the
// optional room and sender filters.
func (x *MessageIndex) Search(ctx context.Context, query search.Query) ([]MessageHit, error) {
	reader, err := x.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			x.log.Warn("closing index reader", "error", err)
		}
	}()

	boolean := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("text"))
	if query.RoomID != "" {
		boolean.AddMust(bluge.NewTermQuery(query.RoomID).SetField("room"))
	}
	if query.SenderID != "" {
		boolean.AddMust(bluge.NewTermQuery(query.SenderID).SetField("sender"))
	}

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(query.Limit, boolean))
	if err != nil {
		return nil, err
	}

	var hits []MessageHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var hit MessageHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "room":
				hit.RoomID = string(value)
			case "sender":
				hit.SenderID = string(value)
			case "text":
				hit.Text = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (x *MessageIndex) Close() error {
	return x.writer.Close()
}
