package domain

// Snapshot is the full persisted state blob. The muted set is absent on
// purpose: mutes are session-scoped and die with the process.
type Snapshot struct {
	Rooms         []Room
	Messages      map[string][]Message
	VoiceSlots    []VoiceSlot
	VerifiedUsers []string
	BannedUsers   []string
	Settings      AppSettings
}

// DefaultSnapshot is the bootstrap state used when no snapshot exists or
// the stored one cannot be read.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Rooms:      []Room{MainRoom()},
		Messages:   map[string][]Message{MainRoomID: {}},
		VoiceSlots: DefaultVoiceSlots(),
		Settings:   DefaultSettings(),
	}
}
