package domain

// Synthetic identity attributed to AI replies.
const (
	AISenderID   = "ai"
	AISenderName = "المشرف الذكي"
	AIAvatarURL  = "https://api.dicebear.com/7.x/bottts/svg?seed=iraq"
)

// DefaultTrigger is the substring that summons the AI responder.
const DefaultTrigger = "بوت"

// Message is immutable once stored; the only mutation the engine performs
// is a hard removal from its timeline. Sender fields are denormalized
// display snapshots, so a vanished user record never dangles a pointer.
type Message struct {
	ID           string
	SenderID     string
	SenderName   string
	SenderAvatar string
	Text         string
	ImageURL     string
	Timestamp    int64
	IsAI         bool

	// IsVerifiedSender is captured from the verified set at send time and
	// does not change when verification is toggled later.
	IsVerifiedSender bool
}
