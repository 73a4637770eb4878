package runtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chat-real/domain"
	cerrors "chat-real/errors"
	"chat-real/moderation"
	"chat-real/voice"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var (
	admin  = domain.User{ID: "admin-1", Username: "admin", Nickname: "Admin", Role: domain.RoleAdmin}
	member = domain.User{ID: "user-1", Username: "ali", Nickname: "Ali", Role: domain.RoleUser}
)

// recordingSnapshots counts saves and keeps the last snapshot, so tests
// can assert which operations persist.
type recordingSnapshots struct {
	mu    sync.Mutex
	saves int
	last  domain.Snapshot
}

func (r *recordingSnapshots) Save(snapshot domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.last = snapshot
	return nil
}

func (r *recordingSnapshots) Load() (domain.Snapshot, error) {
	return domain.DefaultSnapshot(), nil
}

func (r *recordingSnapshots) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *recordingSnapshots) lastSaved() domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// blockingSnapshots parks every Save until the test releases it, to
// observe what the coordinator allows while a write is in flight.
type blockingSnapshots struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingSnapshots() *blockingSnapshots {
	return &blockingSnapshots{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingSnapshots) Save(domain.Snapshot) error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func (b *blockingSnapshots) Load() (domain.Snapshot, error) {
	return domain.DefaultSnapshot(), nil
}

type stubResponder struct {
	reply string
	err   error
}

func (s stubResponder) Complete(context.Context, string) (string, error) {
	return s.reply, s.err
}

func newTestCoordinator(t *testing.T, p Params) *Coordinator {
	t.Helper()
	c := NewCoordinator(p)
	c.Load()
	return c
}

func TestCoordinator_SendMessage_AppendsWithVerifiedFlag(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})
	req.NoError(c.ToggleVerify(admin, member.ID))

	// When a verified member posts to the main room
	msg, ok := c.SendMessage(member, domain.MainRoomID, "مرحبا بالجميع", "")

	// Then the message lands with the flag snapshotted at send time
	req.True(ok)
	req.NotEmpty(msg.ID)
	req.Equal(member.ID, msg.SenderID)
	req.Equal("Ali", msg.SenderName)
	req.True(msg.IsVerifiedSender)
	req.False(msg.IsAI)

	timeline := c.Timeline(domain.MainRoomID)
	req.Len(timeline, 1)
	req.Equal(msg, timeline[0])
}

func TestCoordinator_SendMessage_RejectsSilently(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})

	// Unknown room
	_, ok := c.SendMessage(member, "no-such-room", "hello", "")
	req.False(ok)

	// Blank text and no image
	_, ok = c.SendMessage(member, domain.MainRoomID, "   ", "")
	req.False(ok)

	// Image alone is enough
	_, ok = c.SendMessage(member, domain.MainRoomID, "", "data:image/png;base64,AAAA")
	req.True(ok)
	req.Len(c.Timeline(domain.MainRoomID), 1)
}

func TestCoordinator_SendMessage_MutedSenderIsSuppressed(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})
	req.NoError(c.ToggleMute(admin, member.ID))

	_, ok := c.SendMessage(member, domain.MainRoomID, "you cannot hear me", "")
	req.False(ok)
	req.Empty(c.Timeline(domain.MainRoomID))

	// Unmuting restores delivery
	req.NoError(c.ToggleMute(admin, member.ID))
	_, ok = c.SendMessage(member, domain.MainRoomID, "back again", "")
	req.True(ok)
}

func TestCoordinator_SendMessage_TriggerDispatchesAIReply(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{Responder: stubResponder{reply: "أهلاً! كيف أساعدك؟"}})

	_, ok := c.SendMessage(member, domain.MainRoomID, "بوت شلونك اليوم", "")
	req.True(ok)

	req.Eventually(func() bool {
		return len(c.Timeline(domain.MainRoomID)) == 2
	}, time.Second, 10*time.Millisecond)

	reply := c.Timeline(domain.MainRoomID)[1]
	req.True(reply.IsAI)
	req.True(reply.IsVerifiedSender)
	req.Equal(domain.AISenderID, reply.SenderID)
	req.Equal(domain.AISenderName, reply.SenderName)
	req.Equal("أهلاً! كيف أساعدك؟", reply.Text)
}

func TestCoordinator_SendMessage_AIFailureFallsBack(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{Responder: stubResponder{err: errors.New("quota exhausted")}})

	_, ok := c.SendMessage(member, domain.MainRoomID, "بوت ساعدني", "")
	req.True(ok)

	req.Eventually(func() bool {
		return len(c.Timeline(domain.MainRoomID)) == 2
	}, time.Second, 10*time.Millisecond)

	reply := c.Timeline(domain.MainRoomID)[1]
	req.True(reply.IsAI)
	req.Equal("عذراً، واجهت مشكلة تقنية بسيطة. جرب مرة أخرى لاحقاً.", reply.Text)
}

func TestCoordinator_SendMessage_NoTriggerNoReply(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{Responder: stubResponder{reply: "never"}})

	_, ok := c.SendMessage(member, domain.MainRoomID, "just chatting", "")
	req.True(ok)

	time.Sleep(50 * time.Millisecond)
	req.Len(c.Timeline(domain.MainRoomID), 1)
}

func TestCoordinator_BanUser_KeepsHistoryAndFlagsSession(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})
	_, ok := c.SendMessage(member, domain.MainRoomID, "before the ban", "")
	req.True(ok)

	req.NoError(c.BanUser(admin, member.ID))

	// The banned flag is up, history stays, sends are not blocked here;
	// the session layer is the one that acts on CheckBanned.
	req.True(c.CheckBanned(member.ID))
	req.False(c.CheckBanned(admin.ID))
	req.Len(c.Timeline(domain.MainRoomID), 1)
	_, ok = c.SendMessage(member, domain.MainRoomID, "still here", "")
	req.True(ok)

	req.ErrorIs(c.BanUser(admin, admin.ID), cerrors.ErrSelfBan)
	req.ErrorIs(c.BanUser(member, admin.ID), cerrors.ErrAdminOnly)
}

func TestCoordinator_ResetAllMessages_AdminOnly(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})
	room, err := c.CreateRoom(admin, "ردهة بغداد", "حديث المدينة", "🌴")
	req.NoError(err)
	c.SendMessage(member, domain.MainRoomID, "one", "")
	c.SendMessage(member, room.ID, "two", "")

	req.ErrorIs(c.ResetAllMessages(member), cerrors.ErrAdminOnly)
	req.Len(c.Timeline(domain.MainRoomID), 1)

	req.NoError(c.ResetAllMessages(admin))
	req.Empty(c.Timeline(domain.MainRoomID))
	req.Empty(c.Timeline(room.ID))

	// Rooms and slots survive the wipe
	req.Len(c.Rooms(), 2)
	req.Len(c.VoiceSlots(), 3)
}

func TestCoordinator_DeleteRoom_OrphansTimeline(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})
	room, err := c.CreateRoom(admin, "مؤقتة", "", "🕓")
	req.NoError(err)
	c.SendMessage(member, room.ID, "left behind", "")

	req.NoError(c.DeleteRoom(admin, room.ID))

	// The room is gone from the registry; its timeline is still readable
	// by id but no longer reachable through the room list.
	ids := lo.Map(c.Rooms(), func(r domain.Room, _ int) string { return r.ID })
	req.NotContains(ids, room.ID)
	req.Len(c.Timeline(room.ID), 1)

	// And nobody can post into it anymore
	_, ok := c.SendMessage(member, room.ID, "anyone home", "")
	req.False(ok)
}

func TestCoordinator_JoinVoiceSlot_MicrophoneDenied(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{Gate: voice.StaticGate{Granted: false}})

	err := c.JoinVoiceSlot(t.Context(), member, "1")
	req.ErrorIs(err, cerrors.ErrMicrophoneDenied)

	// Denial happens before the seat is touched
	for _, slot := range c.VoiceSlots() {
		req.False(slot.Occupied())
	}
}

func TestCoordinator_VoiceSlot_JoinAndLeave(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})

	req.NoError(c.JoinVoiceSlot(t.Context(), member, "2"))
	slots := c.VoiceSlots()
	seat, found := lo.Find(slots, func(s domain.VoiceSlot) bool { return s.ID == "2" })
	req.True(found)
	req.Equal(member.ID, seat.UserID)
	req.Equal("Ali", seat.UserName)

	// One seat per user
	req.ErrorIs(c.JoinVoiceSlot(t.Context(), member, "3"), cerrors.ErrAlreadySeated)

	// Leaving twice is harmless
	c.LeaveVoiceSlot(member.ID)
	c.LeaveVoiceSlot(member.ID)
	for _, slot := range c.VoiceSlots() {
		req.False(slot.Occupied())
	}
}

func TestCoordinator_Persistence_SkipsMuteToggle(t *testing.T) {
	req := require.New(t)
	snapshots := &recordingSnapshots{}
	c := newTestCoordinator(t, Params{Snapshots: snapshots})

	_, ok := c.SendMessage(member, domain.MainRoomID, "persist me", "")
	req.True(ok)
	afterSend := snapshots.saveCount()
	req.Positive(afterSend)

	// Mutes are session-only and never hit the disk
	req.NoError(c.ToggleMute(admin, member.ID))
	req.Equal(afterSend, snapshots.saveCount())

	// Verification does
	req.NoError(c.ToggleVerify(admin, member.ID))
	req.Greater(snapshots.saveCount(), afterSend)
	req.Equal([]string{member.ID}, snapshots.lastSaved().VerifiedUsers)
}

func TestCoordinator_Reads_ProceedDuringSnapshotWrite(t *testing.T) {
	req := require.New(t)
	snapshots := newBlockingSnapshots()
	c := newTestCoordinator(t, Params{Snapshots: snapshots})

	// Given a send whose snapshot write is stuck on slow disk
	sent := make(chan struct{})
	var ok bool
	go func() {
		defer close(sent)
		_, ok = c.SendMessage(member, domain.MainRoomID, "slow disk", "")
	}()
	<-snapshots.entered

	// Then reads complete while the save is still in flight
	req.Len(c.Timeline(domain.MainRoomID), 1)
	req.Len(c.Rooms(), 1)
	req.False(c.CheckBanned(member.ID))

	close(snapshots.release)
	<-sent
	req.True(ok)
}

func TestCoordinator_UpdateSettings_RejectsEmptyIdentity(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})

	bad := domain.AppSettings{AppName: "", AppSlogan: "s", AppLogo: "l"}
	req.ErrorIs(c.UpdateSettings(admin, bad), cerrors.ErrBadSettings)
	req.Equal(domain.DefaultSettings(), c.Settings())

	good := domain.DefaultSettings()
	good.AppName = "شات جديد"
	req.ErrorIs(c.UpdateSettings(member, good), cerrors.ErrAdminOnly)
	req.NoError(c.UpdateSettings(admin, good))
	req.Equal("شات جديد", c.Settings().AppName)
}

func TestCoordinator_SendMessage_CensorsBeforeAppend(t *testing.T) {
	req := require.New(t)
	censor, err := moderation.NewCensor([]string{"viper"}, '*', nil)
	req.NoError(err)
	c := newTestCoordinator(t, Params{Censor: censor})

	msg, ok := c.SendMessage(member, domain.MainRoomID, "watch the viper here", "")
	req.True(ok)
	req.Equal("watch the ***** here", msg.Text)
	req.Equal("watch the ***** here", c.Timeline(domain.MainRoomID)[0].Text)
}

func TestCoordinator_DeleteMessage_AdminOnly(t *testing.T) {
	req := require.New(t)
	c := newTestCoordinator(t, Params{})
	msg, ok := c.SendMessage(member, domain.MainRoomID, "regret this", "")
	req.True(ok)

	req.ErrorIs(c.DeleteMessage(member, domain.MainRoomID, msg.ID), cerrors.ErrAdminOnly)
	req.NoError(c.DeleteMessage(admin, domain.MainRoomID, msg.ID))
	req.Empty(c.Timeline(domain.MainRoomID))
	req.ErrorIs(c.DeleteMessage(admin, domain.MainRoomID, msg.ID), cerrors.ErrMessageNotFound)
}
