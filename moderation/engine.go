// Package moderation applies authorization-checked admin actions across
// the message store and the verified/muted/banned id sets.
package moderation

import (
	"log/slog"
	"sort"

	"chat-real/domain"
	"chat-real/errors"
	"chat-real/timeline"
)

// Engine tracks moderation state as id sets, decoupled from the User
// record. The muted set is deliberately session-only: it is never part of
// the snapshot and dies with the process.
type Engine struct {
	store    *timeline.Store
	log      *slog.Logger
	muted    map[string]struct{}
	verified map[string]struct{}
	banned   map[string]struct{}
}

func NewEngine(store *timeline.Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:    store,
		log:      log,
		muted:    make(map[string]struct{}),
		verified: make(map[string]struct{}),
		banned:   make(map[string]struct{}),
	}
}

// DeleteMessage hard-removes one message from a timeline.
func (e *Engine) DeleteMessage(actor domain.User, roomID, messageID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return e.store.Remove(roomID, messageID)
}

// ToggleMute flips the target's membership in the muted set. Already-sent
// messages are untouched; only future sends are suppressed.
func (e *Engine) ToggleMute(actor domain.User, targetID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	muted := toggle(e.muted, targetID)
	e.log.Info("mute toggled", "target", targetID, "muted", muted)
	return nil
}

// ToggleVerify flips the target's membership in the verified set. The
// verified flag already stamped on past messages does not change.
func (e *Engine) ToggleVerify(actor domain.User, targetID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	verified := toggle(e.verified, targetID)
	e.log.Info("verify toggled", "target", targetID, "verified", verified)
	return nil
}

// Ban adds the target to the banned set. Re-banning is a no-op success;
// self-ban is refused. There is no unban: the transition is terminal.
func (e *Engine) Ban(actor domain.User, targetID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == targetID {
		return errors.ErrSelfBan
	}
	e.banned[targetID] = struct{}{}
	e.log.Warn("user banned", "target", targetID, "by", actor.ID)
	return nil
}

func (e *Engine) IsMuted(userID string) bool {
	_, ok := e.muted[userID]
	return ok
}

func (e *Engine) IsVerified(userID string) bool {
	_, ok := e.verified[userID]
	return ok
}

func (e *Engine) IsBanned(userID string) bool {
	_, ok := e.banned[userID]
	return ok
}

// VerifiedIDs returns the verified set sorted, for stable snapshots.
func (e *Engine) VerifiedIDs() []string {
	return sortedIDs(e.verified)
}

// BannedIDs returns the banned set sorted, for stable snapshots.
func (e *Engine) BannedIDs() []string {
	return sortedIDs(e.banned)
}

// Restore replaces the persisted sets. The muted set is left alone.
func (e *Engine) Restore(verified, banned []string) {
	e.verified = make(map[string]struct{}, len(verified))
	for _, id := range verified {
		e.verified[id] = struct{}{}
	}
	e.banned = make(map[string]struct{}, len(banned))
	for _, id := range banned {
		e.banned[id] = struct{}{}
	}
}

func requireAdmin(actor domain.User) error {
	if !actor.IsAdmin() {
		return errors.ErrAdminOnly
	}
	return nil
}

// toggle flips membership and reports the resulting state.
func toggle(set map[string]struct{}, id string) bool {
	if _, ok := set[id]; ok {
		delete(set, id)
		return false
	}
	set[id] = struct{}{}
	return true
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
