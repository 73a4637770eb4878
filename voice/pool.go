// Package voice owns the speaking-seat roster and its occupancy rules.
package voice

import (
	"chat-real/domain"
	"chat-real/errors"

	"github.com/google/uuid"
)

// Pool keeps slots in display order across every operation. Invariant: a
// user occupies at most one slot at any time.
type Pool struct {
	slots []domain.VoiceSlot
}

func NewPool() *Pool {
	return &Pool{}
}

// Add appends an empty slot with a fresh id.
func (p *Pool) Add() domain.VoiceSlot {
	slot := domain.VoiceSlot{ID: uuid.NewString()}
	p.slots = append(p.slots, slot)
	return slot
}

// Remove deletes a slot regardless of occupancy; an occupant is implicitly
// vacated with the seat.
func (p *Pool) Remove(slotID string) error {
	i := p.find(slotID)
	if i < 0 {
		return errors.ErrSlotNotFound
	}
	p.slots = append(p.slots[:i], p.slots[i+1:]...)
	return nil
}

// Join seats the user and marks them speaking.
func (p *Pool) Join(slotID, userID, displayName, avatar string) error {
	if p.seatOf(userID) >= 0 {
		return errors.ErrAlreadySeated
	}
	i := p.find(slotID)
	if i < 0 {
		return errors.ErrSlotNotFound
	}
	if p.slots[i].Occupied() {
		return errors.ErrSlotOccupied
	}
	p.slots[i].UserID = userID
	p.slots[i].UserName = displayName
	p.slots[i].UserAvatar = avatar
	p.slots[i].IsSpeaking = true
	return nil
}

// Leave vacates the user's slot if they hold one. Leaving without a seat
// is a no-op, not an error.
func (p *Pool) Leave(userID string) {
	i := p.seatOf(userID)
	if i < 0 {
		return
	}
	p.slots[i].UserID = ""
	p.slots[i].UserName = ""
	p.slots[i].UserAvatar = ""
	p.slots[i].IsSpeaking = false
}

// Slots returns a copy in display order.
func (p *Pool) Slots() []domain.VoiceSlot {
	return append([]domain.VoiceSlot(nil), p.slots...)
}

// Restore replaces the pool content.
func (p *Pool) Restore(slots []domain.VoiceSlot) {
	p.slots = append([]domain.VoiceSlot(nil), slots...)
}

func (p *Pool) find(slotID string) int {
	for i := range p.slots {
		if p.slots[i].ID == slotID {
			return i
		}
	}
	return -1
}

func (p *Pool) seatOf(userID string) int {
	if userID == "" {
		return -1
	}
	for i := range p.slots {
		if p.slots[i].UserID == userID {
			return i
		}
	}
	return -1
}
