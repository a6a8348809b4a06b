package tp

import (
	"errors"
	"fmt"
)

// Precondition-violation sentinels. The builder and configuration setters
// return these (optionally wrapped with fmt.Errorf for context) without
// mutating planner state. ErrInvalidUuPerRev, ErrDegenerateGeometry,
// ErrInvalidLookahead, ErrInvalidCapacity and ErrInvalidDebounce are
// declared but not returned by any function in this package: the With*
// options ignore invalid values and SetSpindleSync treats uuPerRev == 0 as
// "disable".
var (
	ErrQueueFull           = errors.New("tp: queue full")
	ErrAborting            = errors.New("tp: planner is aborting")
	ErrInvalidCycleTime    = errors.New("tp: cycle time must be > 0")
	ErrInvalidVmax         = errors.New("tp: vMax must be > 0")
	ErrInvalidVlimit       = errors.New("tp: vLimit must be > 0")
	ErrInvalidAmax         = errors.New("tp: aMax must be > 0")
	ErrInvalidTermCond     = errors.New("tp: invalid termination condition")
	ErrInvalidTolerance    = errors.New("tp: tolerance must be >= 0")
	ErrRigidTapNotSynced   = errors.New("tp: rigid tap requires spindle sync")
	ErrInvalidUuPerRev     = errors.New("tp: uuPerRev must be != 0 when synchronized")
	ErrDegenerateGeometry  = errors.New("tp: degenerate motion geometry")
	ErrInvalidLookahead    = errors.New("tp: lookahead depth must be > 0")
	ErrInvalidCapacity     = errors.New("tp: capacity must be > 0")
	ErrInvalidDebounce     = errors.New("tp: reversal debounce count must be >= 1")
	ErrInvalidIndex        = errors.New("tp: DIO/AIO index out of range")
)

func wrap(cause error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, cause)...)
}
