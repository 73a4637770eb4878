//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"io"

	"chat-real/domain"
	"chat-real/media"
	"chat-real/repositories"
	"chat-real/runtime"
)

// IChatService is the surface a session handler talks to. Everything
// delegates to the coordinator; the image path additionally runs the
// upload through the encoder first.
type IChatService interface {
	SendMessage(sender domain.User, roomID, text string) (domain.Message, bool)
	SendImageMessage(sender domain.User, roomID, caption string, file io.Reader) (domain.Message, bool, error)
	Timeline(roomID string) []domain.Message
	Rooms() []domain.Room
	VoiceSlots() []domain.VoiceSlot
	Settings() domain.AppSettings
	CheckBanned(userID string) bool
	JoinVoiceSlot(ctx context.Context, user domain.User, slotID string) error
	LeaveVoiceSlot(userID string)
	SearchMessages(ctx context.Context, raw string) ([]repositories.MessageHit, error)
}

type ChatService struct {
	coordinator *runtime.Coordinator
	encoder     media.Encoder
}

func NewChatService(c *runtime.Coordinator, encoder media.Encoder) *ChatService {
	return &ChatService{coordinator: c, encoder: encoder}
}

func (s *ChatService) SendMessage(sender domain.User, roomID, text string) (domain.Message, bool) {
	return s.coordinator.SendMessage(sender, roomID, text, "")
}

// SendImageMessage encodes the upload into an inline data URI and posts
// it with the optional caption. Encoding failures surface as errors;
// coordinator rejections stay silent like the text path.
func (s *ChatService) SendImageMessage(sender domain.User, roomID, caption string, file io.Reader) (domain.Message, bool, error) {
	uri, err := s.encoder.Encode(file)
	if err != nil {
		return domain.Message{}, false, err
	}
	msg, ok := s.coordinator.SendMessage(sender, roomID, caption, uri)
	return msg, ok, nil
}

func (s *ChatService) Timeline(roomID string) []domain.Message {
	return s.coordinator.Timeline(roomID)
}

func (s *ChatService) Rooms() []domain.Room {
	return s.coordinator.Rooms()
}

func (s *ChatService) VoiceSlots() []domain.VoiceSlot {
	return s.coordinator.VoiceSlots()
}

func (s *ChatService) Settings() domain.AppSettings {
	return s.coordinator.Settings()
}

func (s *ChatService) CheckBanned(userID string) bool {
	return s.coordinator.CheckBanned(userID)
}

func (s *ChatService) JoinVoiceSlot(ctx context.Context, user domain.User, slotID string) error {
	return s.coordinator.JoinVoiceSlot(ctx, user, slotID)
}

func (s *ChatService) LeaveVoiceSlot(userID string) {
	s.coordinator.LeaveVoiceSlot(userID)
}

func (s *ChatService) SearchMessages(ctx context.Context, raw string) ([]repositories.MessageHit, error) {
	return s.coordinator.SearchMessages(ctx, raw)
}
