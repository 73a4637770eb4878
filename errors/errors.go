package errors

import "fmt"

// Taxonomy sentinels. Every failure surfaced by the engine wraps one of
// these four; callers discriminate with errors.Is.
var (
	ErrNotFound        = fmt.Errorf("not found")
	ErrConflict        = fmt.Errorf("conflict")
	ErrUnauthorized    = fmt.Errorf("unauthorized")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

var (
	ErrRoomNotFound    = fmt.Errorf("%w: room", ErrNotFound)
	ErrMessageNotFound = fmt.Errorf("%w: message", ErrNotFound)
	ErrSlotNotFound    = fmt.Errorf("%w: voice slot", ErrNotFound)
	ErrSlotOccupied    = fmt.Errorf("%w: voice slot already occupied", ErrConflict)
	ErrAlreadySeated   = fmt.Errorf("%w: user already occupies a voice slot", ErrConflict)
	ErrAdminOnly       = fmt.Errorf("%w: admin role required", ErrUnauthorized)
	ErrSelfBan         = fmt.Errorf("%w: cannot ban yourself", ErrInvalidArgument)
	ErrNotAnImage      = fmt.Errorf("%w: attachment is not an image", ErrInvalidArgument)
	ErrBadSettings     = fmt.Errorf("%w: settings", ErrInvalidArgument)
)

// ErrMicrophoneDenied is an expected external outcome rather than a state
// error: the gate said no, so the join was never attempted.
var ErrMicrophoneDenied = fmt.Errorf("microphone access denied")
