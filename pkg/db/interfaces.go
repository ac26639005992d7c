package db

import (
	"context"
	"errors"
)

// ErrStaleWrite is returned by stores that keep one row per slot when the
// stored assignment is newer than the one being saved
var ErrStaleWrite = errors.New("a newer assignment is already stored")

// RosterStore holds the roster data that is not on the members tab
type RosterStore interface {
	GetStatusPeriods(ctx context.Context) ([]StatusPeriod, error)
	GetTimeAways(ctx context.Context) ([]TimeAway, error)
	GetAssistantPairs(ctx context.Context) ([]AssistantPair, error)
	InsertTimeAway(ctx context.Context, away *TimeAway) error
}

// AssignmentStore persists assignment records. SaveAssignment returns
// ErrStaleWrite when it refuses an older write.
type AssignmentStore interface {
	GetAssignments(ctx context.Context) ([]Assignment, error)
	SaveAssignment(ctx context.Context, assignment *Assignment) error
}

// ScheduleStore defines the interface for all database operations.
// Both the SheetsSQL-backed db.DB and postgres.DB implement this interface.
type ScheduleStore interface {
	RosterStore
	AssignmentStore
}
