package voice

import (
	"context"

	"chat-real/errors"
)

// AudioGate abstracts the microphone-acquisition check consulted before a
// join. On denial the join must not be attempted.
type AudioGate interface {
	RequestAudioAccess(ctx context.Context) error
}

// StaticGate answers the same way every time. The zero value denies.
type StaticGate struct {
	Granted bool
}

func (g StaticGate) RequestAudioAccess(_ context.Context) error {
	if g.Granted {
		return nil
	}
	return errors.ErrMicrophoneDenied
}
