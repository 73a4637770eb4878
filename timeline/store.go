// Package timeline owns the ordered message sequences, keyed by room.
// Append-only except for moderation removals.
package timeline

import (
	"fmt"
	"time"

	"chat-real/domain"
	"chat-real/errors"
)

// Store assigns ids and timestamps at append time. Ids are
// "<unix-millis>-<counter>": the padded counter keeps two messages from
// the same instant distinct and order-preserving. Timestamps never go
// backwards within the store, even if the clock does.
type Store struct {
	timelines map[string][]domain.Message
	now       func() time.Time
	lastStamp int64
	seq       uint64
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		timelines: make(map[string][]domain.Message),
		now:       now,
	}
}

// Append inserts at the tail of the room's sequence, creating it on first
// use, and returns the stored message with its generated id and timestamp.
func (s *Store) Append(roomID string, draft domain.Message) domain.Message {
	stamp := s.now().UnixMilli()
	if stamp < s.lastStamp {
		stamp = s.lastStamp
	}
	s.lastStamp = stamp
	s.seq++

	draft.ID = fmt.Sprintf("%d-%06d", stamp, s.seq)
	draft.Timestamp = stamp
	s.timelines[roomID] = append(s.timelines[roomID], draft)
	return draft
}

// Remove deletes exactly one message, preserving the order of the rest.
func (s *Store) Remove(roomID, messageID string) error {
	msgs, ok := s.timelines[roomID]
	if !ok {
		return errors.ErrRoomNotFound
	}
	for i := range msgs {
		if msgs[i].ID == messageID {
			s.timelines[roomID] = append(msgs[:i], msgs[i+1:]...)
			return nil
		}
	}
	return errors.ErrMessageNotFound
}

// Timeline returns a copy of the room's sequence. An empty room is valid
// state, never an error.
func (s *Store) Timeline(roomID string) []domain.Message {
	return append([]domain.Message(nil), s.timelines[roomID]...)
}

// ResetAll clears every timeline back to empty.
func (s *Store) ResetAll() {
	s.timelines = make(map[string][]domain.Message)
}

// Export returns a deep-enough copy for snapshotting.
func (s *Store) Export() map[string][]domain.Message {
	out := make(map[string][]domain.Message, len(s.timelines))
	for roomID, msgs := range s.timelines {
		out[roomID] = append([]domain.Message(nil), msgs...)
	}
	return out
}

// Restore replaces the store content. The stamp watermark is advanced past
// the newest restored message so ids minted by this process cannot collide
// with restored ones.
func (s *Store) Restore(timelines map[string][]domain.Message) {
	s.timelines = make(map[string][]domain.Message, len(timelines))
	var max int64
	for roomID, msgs := range timelines {
		s.timelines[roomID] = append([]domain.Message(nil), msgs...)
		for i := range msgs {
			if msgs[i].Timestamp > max {
				max = msgs[i].Timestamp
			}
		}
	}
	if max > 0 {
		s.lastStamp = max + 1
	}
}
