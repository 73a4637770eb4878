//go:generate go run go.uber.org/mock/mockgen -source=snapshot.go -destination=../mocks/mock_snapshot_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"chat-real/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// ISnapshotRepository persists the full state blob. Save runs after every
// mutation of a snapshot field; Load tolerates missing or corrupt data by
// substituting the seeded defaults, field by field.
type ISnapshotRepository interface {
	Save(snapshot domain.Snapshot) error
	Load() (domain.Snapshot, error)
}

// Each snapshot field lives under its own key, so one corrupt entry only
// costs its own field on load. The key set mirrors the original client's
// storage layout.
const (
	keyRooms    = "state:rooms"
	keyMessages = "state:messages"
	keySlots    = "state:voice_slots"
	keyVerified = "state:verified_users"
	keyBanned   = "state:banned_users"
	keySettings = "state:settings"
)

type SnapshotRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSnapshotRepository(db *badger.DB, log *slog.Logger) *SnapshotRepository {
	if log == nil {
		log = slog.Default()
	}
	return &SnapshotRepository{db: db, log: log}
}

// Save writes all six fields in a single transaction.
func (r *SnapshotRepository) Save(snapshot domain.Snapshot) error {
	entries := map[string]any{
		keyRooms:    lo.Map(snapshot.Rooms, func(room domain.Room, _ int) diskRoom { return fromRoom(room) }),
		keyMessages: fromTimelines(snapshot.Messages),
		keySlots:    lo.Map(snapshot.VoiceSlots, func(s domain.VoiceSlot, _ int) diskSlot { return fromSlot(s) }),
		keyVerified: snapshot.VerifiedUsers,
		keyBanned:   snapshot.BannedUsers,
		keySettings: fromSettings(snapshot.Settings),
	}

	return r.db.Update(func(txn *badger.Txn) error {
		for key, value := range entries {
			data, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", key, err)
			}
			if err := txn.Set([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load starts from the seeded defaults and overlays whatever stored
// fields decode cleanly. A corrupt field is logged and skipped.
func (r *SnapshotRepository) Load() (domain.Snapshot, error) {
	snapshot := domain.DefaultSnapshot()

	err := r.db.View(func(txn *badger.Txn) error {
		if rooms, ok := readJSON[[]diskRoom](r, txn, keyRooms); ok && len(rooms) > 0 {
			snapshot.Rooms = lo.Map(rooms, func(room diskRoom, _ int) domain.Room { return toRoom(room) })
		}
		if timelines, ok := readJSON[map[string][]diskMessage](r, txn, keyMessages); ok {
			snapshot.Messages = toTimelines(timelines)
		}
		if slots, ok := readJSON[[]diskSlot](r, txn, keySlots); ok {
			snapshot.VoiceSlots = lo.Map(slots, func(s diskSlot, _ int) domain.VoiceSlot { return toSlot(s) })
		}
		if verified, ok := readJSON[[]string](r, txn, keyVerified); ok {
			snapshot.VerifiedUsers = verified
		}
		if banned, ok := readJSON[[]string](r, txn, keyBanned); ok {
			snapshot.BannedUsers = banned
		}
		if settings, ok := readJSON[diskSettings](r, txn, keySettings); ok {
			snapshot.Settings = toSettings(settings)
		}
		return nil
	})
	if err != nil {
		return domain.DefaultSnapshot(), err
	}
	return snapshot, nil
}

// readJSON fetches and decodes one key. Missing keys and decode failures
// both report !ok so the caller keeps the default.
func readJSON[T any](r *SnapshotRepository, txn *badger.Txn, key string) (T, bool) {
	var out T
	item, err := txn.Get([]byte(key))
	if err != nil {
		return out, false
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &out)
	})
	if err != nil {
		r.log.Warn("corrupt snapshot field, keeping default", "key", key, "error", err)
		return out, false
	}
	return out, true
}
