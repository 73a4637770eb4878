// Package runtime wires the stores together and enforces the cross-store
// rules: send preconditions, moderation consequences, snapshot
// persistence after every mutation.
package runtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"chat-real/ai"
	"chat-real/domain"
	"chat-real/domain/search"
	"chat-real/errors"
	"chat-real/moderation"
	"chat-real/registry"
	"chat-real/repositories"
	"chat-real/timeline"
	"chat-real/voice"

	"github.com/abadojack/whatlanggo"
	"github.com/go-playground/validator/v10"
)

const defaultAITimeout = 10 * time.Second

var validate = validator.New()

// ChatState aggregates every collection the coordinator owns. It is built
// once at session start from the loaded snapshot and dropped at session
// end; nothing here is a package-level singleton.
type ChatState struct {
	Rooms      *registry.Registry
	Timelines  *timeline.Store
	Voice      *voice.Pool
	Moderation *moderation.Engine
	Settings   domain.AppSettings
}

// Params collects the coordinator collaborators. Zero values are usable:
// no snapshots means no persistence, no responder disables the AI reply,
// no censor passes text through, a nil gate always grants.
type Params struct {
	Log       *slog.Logger
	Snapshots repositories.ISnapshotRepository
	Index     repositories.IMessageIndex
	Responder ai.Responder
	Gate      voice.AudioGate
	Censor    *moderation.Censor
	Trigger   string
	AITimeout time.Duration
	Clock     func() time.Time
}

// Coordinator is the single writer over ChatState. One coarse mutex
// serializes every mutation and read; the AI completion is the only
// suspending call and runs outside the lock on its own goroutine.
type Coordinator struct {
	mu        sync.Mutex
	persistMu sync.Mutex
	log       *slog.Logger
	state     ChatState
	snapshots repositories.ISnapshotRepository
	index     repositories.IMessageIndex
	responder ai.Responder
	gate      voice.AudioGate
	censor    *moderation.Censor
	trigger   string
	aiTimeout time.Duration
}

func NewCoordinator(p Params) *Coordinator {
	if p.Log == nil {
		p.Log = slog.Default()
	}
	if p.Trigger == "" {
		p.Trigger = domain.DefaultTrigger
	}
	if p.AITimeout <= 0 {
		p.AITimeout = defaultAITimeout
	}
	if p.Gate == nil {
		p.Gate = voice.StaticGate{Granted: true}
	}

	store := timeline.NewStore(p.Clock)
	return &Coordinator{
		log:       p.Log,
		snapshots: p.Snapshots,
		index:     p.Index,
		responder: p.Responder,
		gate:      p.Gate,
		censor:    p.Censor,
		trigger:   p.Trigger,
		aiTimeout: p.AITimeout,
		state: ChatState{
			Rooms:      registry.New(),
			Timelines:  store,
			Voice:      voice.NewPool(),
			Moderation: moderation.NewEngine(store, p.Log),
			Settings:   domain.DefaultSettings(),
		},
	}
}

// Load rehydrates every store from the persisted snapshot, falling back
// to the seeded defaults when nothing loads.
func (c *Coordinator) Load() {
	snapshot := domain.DefaultSnapshot()
	if c.snapshots != nil {
		loaded, err := c.snapshots.Load()
		if err != nil {
			c.log.Warn("snapshot load failed, using seeded defaults", "error", err)
		} else {
			snapshot = loaded
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Rooms.Restore(snapshot.Rooms)
	c.state.Timelines.Restore(snapshot.Messages)
	c.state.Voice.Restore(snapshot.VoiceSlots)
	c.state.Moderation.Restore(snapshot.VerifiedUsers, snapshot.BannedUsers)
	c.state.Settings = snapshot.Settings
	c.log.Info("state rehydrated",
		"rooms", len(snapshot.Rooms),
		"voice_slots", len(snapshot.VoiceSlots),
		"banned", len(snapshot.BannedUsers))
}

// SendMessage appends a message after the precondition gauntlet: the room
// must exist, text or image must be present, and the sender must not be
// muted. Rejections are silent (ok=false), never errors. The verified
// flag is snapshotted from the current set membership. A trigger token in
// the text dispatches the AI responder fire-and-forget.
func (c *Coordinator) SendMessage(sender domain.User, roomID, text, imageURL string) (domain.Message, bool) {
	c.mu.Lock()

	switch {
	case !c.state.Rooms.Exists(roomID):
		c.mu.Unlock()
		c.log.Debug("send rejected, unknown room", "room", roomID)
		return domain.Message{}, false
	case strings.TrimSpace(text) == "" && imageURL == "":
		c.mu.Unlock()
		c.log.Debug("send rejected, empty message", "sender", sender.ID)
		return domain.Message{}, false
	case c.state.Moderation.IsMuted(sender.ID):
		c.mu.Unlock()
		c.log.Debug("send suppressed, sender muted", "sender", sender.ID)
		return domain.Message{}, false
	}

	body := text
	if c.censor != nil {
		censored, words := c.censor.Apply(text)
		if len(words) > 0 {
			c.log.Info("message censored", "sender", sender.ID, "words", len(words))
		}
		body = censored
	}

	msg := c.state.Timelines.Append(roomID, domain.Message{
		SenderID:         sender.ID,
		SenderName:       sender.Nickname,
		SenderAvatar:     sender.Avatar,
		Text:             body,
		ImageURL:         imageURL,
		IsVerifiedSender: c.state.Moderation.IsVerified(sender.ID),
	})
	c.indexMessage(roomID, msg)
	c.unlockAndPersist()

	info := whatlanggo.Detect(text)
	c.log.Debug("message appended",
		"room", roomID, "sender", sender.ID, "lang", info.Lang.Iso6391())

	if c.responder != nil && strings.Contains(text, c.trigger) {
		go c.respondWithAI(roomID, text)
	}
	return msg, true
}

// respondWithAI joins the external completion back into the timeline. The
// reply lands even if the prompting user's session is long gone; failure
// and timeout degrade to the fixed fallback text.
func (c *Coordinator) respondWithAI(roomID, prompt string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.aiTimeout)
	defer cancel()

	reply, err := c.responder.Complete(ctx, prompt)
	if err != nil {
		c.log.Warn("ai responder failed", "error", err)
		reply = ai.FallbackReply
	}

	c.mu.Lock()
	msg := c.state.Timelines.Append(roomID, domain.Message{
		SenderID:         domain.AISenderID,
		SenderName:       domain.AISenderName,
		SenderAvatar:     domain.AIAvatarURL,
		Text:             reply,
		IsAI:             true,
		IsVerifiedSender: true,
	})
	c.indexMessage(roomID, msg)
	c.unlockAndPersist()
}

// Timeline returns the room's messages in order; empty for unknown rooms.
func (c *Coordinator) Timeline(roomID string) []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Timelines.Timeline(roomID)
}

func (c *Coordinator) Rooms() []domain.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Rooms.List()
}

func (c *Coordinator) VoiceSlots() []domain.VoiceSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Voice.Slots()
}

func (c *Coordinator) Settings() domain.AppSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Settings
}

// CheckBanned is the predicate the session layer consults on every
// relevant state change; true means terminate the session immediately.
func (c *Coordinator) CheckBanned(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Moderation.IsBanned(userID)
}

func (c *Coordinator) CreateRoom(actor domain.User, name, description, icon string) (domain.Room, error) {
	if !actor.IsAdmin() {
		return domain.Room{}, errors.ErrAdminOnly
	}
	c.mu.Lock()
	room := c.state.Rooms.Create(name, description, icon, actor.ID)
	c.unlockAndPersist()
	return room, nil
}

func (c *Coordinator) RenameRoom(actor domain.User, roomID, name string) error {
	if !actor.IsAdmin() {
		return errors.ErrAdminOnly
	}
	c.mu.Lock()
	if err := c.state.Rooms.Rename(roomID, name); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndPersist()
	return nil
}

func (c *Coordinator) SetRoomIcon(actor domain.User, roomID, icon string) error {
	if !actor.IsAdmin() {
		return errors.ErrAdminOnly
	}
	c.mu.Lock()
	if err := c.state.Rooms.SetIcon(roomID, icon); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndPersist()
	return nil
}

// DeleteRoom removes the room and orphans its timeline: the messages stay
// in the store, unreachable through the registry.
func (c *Coordinator) DeleteRoom(actor domain.User, roomID string) error {
	if !actor.IsAdmin() {
		return errors.ErrAdminOnly
	}
	c.mu.Lock()
	if err := c.state.Rooms.Delete(roomID); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndPersist()
	return nil
}

func (c *Coordinator) AddVoiceSlot(actor domain.User) (domain.VoiceSlot, error) {
	if !actor.IsAdmin() {
		return domain.VoiceSlot{}, errors.ErrAdminOnly
	}
	c.mu.Lock()
	slot := c.state.Voice.Add()
	c.unlockAndPersist()
	return slot, nil
}

func (c *Coordinator) RemoveVoiceSlot(actor domain.User, slotID string) error {
	if !actor.IsAdmin() {
		return errors.ErrAdminOnly
	}
	c.mu.Lock()
	if err := c.state.Voice.Remove(slotID); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndPersist()
	return nil
}

// JoinVoiceSlot consults the microphone gate first; on denial the join is
// never attempted.
func (c *Coordinator) JoinVoiceSlot(ctx context.Context, user domain.User, slotID string) error {
	if err := c.gate.RequestAudioAccess(ctx); err != nil {
		c.log.Info("voice join aborted, microphone denied", "user", user.ID)
		return err
	}
	c.mu.Lock()
	if err := c.state.Voice.Join(slotID, user.ID, user.Nickname, user.Avatar); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndPersist()
	return nil
}

// LeaveVoiceSlot vacates the user's seat; leaving without one is a no-op.
func (c *Coordinator) LeaveVoiceSlot(userID string) {
	c.mu.Lock()
	c.state.Voice.Leave(userID)
	c.unlockAndPersist()
}

func (c *Coordinator) DeleteMessage(actor domain.User, roomID, messageID string) error {
	c.mu.Lock()
	if err := c.state.Moderation.DeleteMessage(actor, roomID, messageID); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.index != nil {
		if err := c.index.Delete(messageID); err != nil {
			c.log.Warn("index delete failed", "message", messageID, "error", err)
		}
	}
	c.unlockAndPersist()
	return nil
}

// ToggleMute flips the session-only muted set. No snapshot write: mutes
// are not part of the persisted state.
func (c *Coordinator) ToggleMute(actor domain.User, targetID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Moderation.ToggleMute(actor, targetID)
}

func (c *Coordinator) ToggleVerify(actor domain.User, targetID string) error {
	c.mu.Lock()
	if err := c.state.Moderation.ToggleVerify(actor, targetID); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndPersist()
	return nil
}

// BanUser adds the target to the banned set. The session layer observes
// the change through CheckBanned and terminates; prior messages stay.
func (c *Coordinator) BanUser(actor domain.User, targetID string) error {
	c.mu.Lock()
	if err := c.state.Moderation.Ban(actor, targetID); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndPersist()
	return nil
}

// ResetAllMessages clears every timeline, leaving rooms, voice slots and
// moderation sets untouched.
func (c *Coordinator) ResetAllMessages(actor domain.User) error {
	if !actor.IsAdmin() {
		return errors.ErrAdminOnly
	}
	c.mu.Lock()
	if c.index != nil {
		for _, msgs := range c.state.Timelines.Export() {
			for _, msg := range msgs {
				if err := c.index.Delete(msg.ID); err != nil {
					c.log.Warn("index delete failed during reset", "message", msg.ID, "error", err)
				}
			}
		}
	}
	c.state.Timelines.ResetAll()
	c.unlockAndPersist()
	return nil
}

// UpdateSettings replaces the app settings after the non-empty identity
// check.
func (c *Coordinator) UpdateSettings(actor domain.User, settings domain.AppSettings) error {
	if !actor.IsAdmin() {
		return errors.ErrAdminOnly
	}
	if err := validate.Struct(settings); err != nil {
		return errors.ErrBadSettings
	}
	c.mu.Lock()
	c.state.Settings = settings
	c.unlockAndPersist()
	return nil
}

// SearchMessages runs a /find-style query against the message index.
// Returns nothing when no index is configured.
func (c *Coordinator) SearchMessages(ctx context.Context, raw string) ([]repositories.MessageHit, error) {
	if c.index == nil {
		c.log.Debug("search skipped, no index configured")
		return nil, nil
	}
	return c.index.Search(ctx, search.NewQuery(raw))
}

// indexMessage mirrors a freshly appended message into the search index.
// Caller holds the lock.
func (c *Coordinator) indexMessage(roomID string, msg domain.Message) {
	if c.index == nil {
		return
	}
	if err := c.index.Index(roomID, msg); err != nil {
		c.log.Warn("index write failed", "message", msg.ID, "error", err)
	}
}

// snapshotLocked builds the persisted view of the state. Caller holds mu.
func (c *Coordinator) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Rooms:         c.state.Rooms.List(),
		Messages:      c.state.Timelines.Export(),
		VoiceSlots:    c.state.Voice.Slots(),
		VerifiedUsers: c.state.Moderation.VerifiedIDs(),
		BannedUsers:   c.state.Moderation.BannedIDs(),
		Settings:      c.state.Settings,
	}
}

// unlockAndPersist saves the snapshot built under mu synchronously, but
// releases mu before the disk write so readers are not held up by it.
// Claiming persistMu before the handover keeps saves in mutation order;
// lock order is always mu then persistMu and the save path never takes
// mu again. A failed save is logged, never allowed to undo the in-memory
// mutation that triggered it.
func (c *Coordinator) unlockAndPersist() {
	if c.snapshots == nil {
		c.mu.Unlock()
		return
	}
	snapshot := c.snapshotLocked()
	c.persistMu.Lock()
	c.mu.Unlock()
	defer c.persistMu.Unlock()
	if err := c.snapshots.Save(snapshot); err != nil {
		c.log.Error("snapshot save failed", "error", err)
	}
}
