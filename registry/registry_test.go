package registry

import (
	stderrors "errors"
	"testing"

	"chat-real/domain"
	"chat-real/errors"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Create_AppearsInList(t *testing.T) {
	req := require.New(t)
	reg := New()

	// When an admin creates a room on an empty registry
	room := reg.Create("Test", "d", "🧪", "admin")

	// Then it is listed with a fresh id and zero online count
	req.NotEmpty(room.ID)
	req.Equal(0, room.OnlineCount)

	listed := reg.List()
	req.Len(listed, 1)
	req.Equal(room, listed[0])
}

func TestRegistry_List_PreservesInsertionOrder(t *testing.T) {
	req := require.New(t)
	reg := New()

	first := reg.Create("first", "", "1️⃣", "admin")
	second := reg.Create("second", "", "2️⃣", "admin")
	third := reg.Create("third", "", "3️⃣", "admin")

	req.Equal([]string{first.ID, second.ID, third.ID},
		[]string{reg.List()[0].ID, reg.List()[1].ID, reg.List()[2].ID})

	// Deleting the middle room keeps the remaining order
	req.NoError(reg.Delete(second.ID))
	listed := reg.List()
	req.Len(listed, 2)
	req.Equal(first.ID, listed[0].ID)
	req.Equal(third.ID, listed[1].ID)
}

func TestRegistry_Rename_And_SetIcon(t *testing.T) {
	req := require.New(t)
	reg := New()
	room := reg.Create("old", "", "🏰", "admin")

	req.NoError(reg.Rename(room.ID, "new"))
	req.NoError(reg.SetIcon(room.ID, "🌴"))

	got, ok := reg.Get(room.ID)
	req.True(ok)
	req.Equal("new", got.Name)
	req.Equal("🌴", got.Icon)
}

func TestRegistry_AbsentRoom_NotFound(t *testing.T) {
	req := require.New(t)
	reg := New()

	req.ErrorIs(reg.Rename("nope", "x"), errors.ErrRoomNotFound)
	req.ErrorIs(reg.SetIcon("nope", "x"), errors.ErrRoomNotFound)
	req.ErrorIs(reg.Delete("nope"), errors.ErrRoomNotFound)

	// All four taxonomy checks resolve to NotFound
	req.True(stderrors.Is(reg.Delete("nope"), errors.ErrNotFound))
}

func TestRegistry_DeleteMain_ReseededOnNextRestore(t *testing.T) {
	req := require.New(t)
	reg := New()
	reg.Restore(nil)

	// Deleting the seeded main room is allowed and leaves the registry
	// empty until the next session restores from the snapshot
	req.NoError(reg.Delete(domain.MainRoomID))
	req.Empty(reg.List())

	// A restore over that empty snapshot brings main back
	fresh := New()
	fresh.Restore(reg.List())
	listed := fresh.List()
	req.Len(listed, 1)
	req.Equal(domain.MainRoomID, listed[0].ID)
}

func TestRegistry_Restore_EmptyReseedsMain(t *testing.T) {
	req := require.New(t)
	reg := New()

	// Given a snapshot with no rooms at all
	reg.Restore(nil)

	// Then the main room invariant holds
	listed := reg.List()
	req.Len(listed, 1)
	req.Equal(domain.MainRoomID, listed[0].ID)
}
