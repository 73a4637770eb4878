// Package registry owns the set of rooms, independent of message content.
package registry

import (
	"chat-real/domain"
	"chat-real/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Registry keeps rooms in insertion order; List returns them the way they
// were created. Not safe for concurrent use, the coordinator serializes.
type Registry struct {
	rooms []domain.Room
}

func New() *Registry {
	return &Registry{}
}

// Create always succeeds and assigns a fresh id. OnlineCount starts at 0.
func (r *Registry) Create(name, description, icon, creatorID string) domain.Room {
	room := domain.Room{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Icon:        icon,
		CreatedBy:   creatorID,
	}
	r.rooms = append(r.rooms, room)
	return room
}

func (r *Registry) Rename(id, name string) error {
	i := r.find(id)
	if i < 0 {
		return errors.ErrRoomNotFound
	}
	r.rooms[i].Name = name
	return nil
}

func (r *Registry) SetIcon(id, icon string) error {
	i := r.find(id)
	if i < 0 {
		return errors.ErrRoomNotFound
	}
	r.rooms[i].Icon = icon
	return nil
}

// Delete removes the room only. Its timeline is left behind in the
// message store (orphaned, never cascade-deleted).
func (r *Registry) Delete(id string) error {
	i := r.find(id)
	if i < 0 {
		return errors.ErrRoomNotFound
	}
	r.rooms = append(r.rooms[:i], r.rooms[i+1:]...)
	return nil
}

func (r *Registry) Get(id string) (domain.Room, bool) {
	i := r.find(id)
	if i < 0 {
		return domain.Room{}, false
	}
	return r.rooms[i], true
}

func (r *Registry) Exists(id string) bool {
	return r.find(id) >= 0
}

// List returns a copy in insertion order.
func (r *Registry) List() []domain.Room {
	return lo.Map(r.rooms, func(room domain.Room, _ int) domain.Room {
		return room
	})
}

// Restore replaces the registry content. An empty set reseeds the main
// room so the registry is never empty after bootstrap.
func (r *Registry) Restore(rooms []domain.Room) {
	if len(rooms) == 0 {
		rooms = []domain.Room{domain.MainRoom()}
	}
	r.rooms = append([]domain.Room(nil), rooms...)
}

func (r *Registry) find(id string) int {
	for i := range r.rooms {
		if r.rooms[i].ID == id {
			return i
		}
	}
	return -1
}
