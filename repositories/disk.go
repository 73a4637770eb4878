package repositories

import (
	"chat-real/domain"

	"github.com/samber/lo"
)

// Disk shapes keep the JSON field names of the original client payloads,
// so an inherited snapshot stays readable.

type diskRoom struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	CreatedBy   string `json:"createdBy"`
	OnlineCount int    `json:"onlineCount"`
}

type diskMessage struct {
	ID               string `json:"id"`
	SenderID         string `json:"senderId"`
	SenderName       string `json:"senderName"`
	SenderAvatar     string `json:"senderAvatar"`
	Text             string `json:"text"`
	ImageURL         string `json:"imageUrl,omitempty"`
	Timestamp        int64  `json:"timestamp"`
	IsAI             bool   `json:"isAi,omitempty"`
	IsVerifiedSender bool   `json:"isVerifiedSender,omitempty"`
}

type diskSlot struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	UserName       string `json:"userName"`
	UserAvatar     string `json:"userAvatar"`
	IsSpeaking     bool   `json:"isSpeaking"`
	IsMutedByAdmin bool   `json:"isMutedByAdmin"`
	IsLocalMuted   bool   `json:"isLocalMuted"`
}

type diskSettings struct {
	AppName       string `json:"appName"`
	AppSlogan     string `json:"appSlogan"`
	AppLogo       string `json:"appLogo"`
	HeaderColor   string `json:"headerColor"`
	BackgroundURL string `json:"backgroundUrl,omitempty"`
}

func fromRoom(r domain.Room) diskRoom {
	return diskRoom{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		CreatedBy:   r.CreatedBy,
		OnlineCount: r.OnlineCount,
	}
}

func toRoom(r diskRoom) domain.Room {
	return domain.Room{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		CreatedBy:   r.CreatedBy,
		OnlineCount: r.OnlineCount,
	}
}

func fromMessage(m domain.Message) diskMessage {
	return diskMessage{
		ID:               m.ID,
		SenderID:         m.SenderID,
		SenderName:       m.SenderName,
		SenderAvatar:     m.SenderAvatar,
		Text:             m.Text,
		ImageURL:         m.ImageURL,
		Timestamp:        m.Timestamp,
		IsAI:             m.IsAI,
		IsVerifiedSender: m.IsVerifiedSender,
	}
}

func toMessage(m diskMessage) domain.Message {
	return domain.Message{
		ID:               m.ID,
		SenderID:         m.SenderID,
		SenderName:       m.SenderName,
		SenderAvatar:     m.SenderAvatar,
		Text:             m.Text,
		ImageURL:         m.ImageURL,
		Timestamp:        m.Timestamp,
		IsAI:             m.IsAI,
		IsVerifiedSender: m.IsVerifiedSender,
	}
}

func fromSlot(s domain.VoiceSlot) diskSlot {
	return diskSlot{
		ID:             s.ID,
		UserID:         s.UserID,
		UserName:       s.UserName,
		UserAvatar:     s.UserAvatar,
		IsSpeaking:     s.IsSpeaking,
		IsMutedByAdmin: s.IsMutedByAdmin,
		IsLocalMuted:   s.IsLocalMuted,
	}
}

func toSlot(s diskSlot) domain.VoiceSlot {
	return domain.VoiceSlot{
		ID:             s.ID,
		UserID:         s.UserID,
		UserName:       s.UserName,
		UserAvatar:     s.UserAvatar,
		IsSpeaking:     s.IsSpeaking,
		IsMutedByAdmin: s.IsMutedByAdmin,
		IsLocalMuted:   s.IsLocalMuted,
	}
}

func fromSettings(s domain.AppSettings) diskSettings {
	return diskSettings{
		AppName:       s.AppName,
		AppSlogan:     s.AppSlogan,
		AppLogo:       s.AppLogo,
		HeaderColor:   s.HeaderColor,
		BackgroundURL: s.BackgroundURL,
	}
}

func toSettings(s diskSettings) domain.AppSettings {
	return domain.AppSettings{
		AppName:       s.AppName,
		AppSlogan:     s.AppSlogan,
		AppLogo:       s.AppLogo,
		HeaderColor:   s.HeaderColor,
		BackgroundURL: s.BackgroundURL,
	}
}

func fromTimelines(timelines map[string][]domain.Message) map[string][]diskMessage {
	out := make(map[string][]diskMessage, len(timelines))
	for roomID, msgs := range timelines {
		out[roomID] = lo.Map(msgs, func(m domain.Message, _ int) diskMessage { return fromMessage(m) })
	}
	return out
}

func toTimelines(timelines map[string][]diskMessage) map[string][]domain.Message {
	out := make(map[string][]domain.Message, len(timelines))
	for roomID, msgs := range timelines {
		out[roomID] = lo.Map(msgs, func(m diskMessage, _ int) domain.Message { return toMessage(m) })
	}
	return out
}
