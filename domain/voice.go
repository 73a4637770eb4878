package domain

// VoiceSlot is a seat in the live-speaking roster. A slot is empty or
// holds exactly one occupant; a user occupies at most one slot pool-wide.
type VoiceSlot struct {
	ID             string
	UserID         string
	UserName       string
	UserAvatar     string
	IsSpeaking     bool
	IsMutedByAdmin bool
	IsLocalMuted   bool
}

func (s VoiceSlot) Occupied() bool {
	return s.UserID != ""
}

// DefaultVoiceSlots is the seeded pool: three empty seats.
func DefaultVoiceSlots() []VoiceSlot {
	return []VoiceSlot{{ID: "1"}, {ID: "2"}, {ID: "3"}}
}
