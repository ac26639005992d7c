package db

import (
	"context"
	"fmt"

	"github.com/jakechorley/meeting-assignments/pkg/sheetssql"
)

// DB provides database operations using SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB) *DB {
	return &DB{
		ssql: ssql,
	}
}

// Schema is the SheetsSQL schema for every table the store reads or writes
func Schema() (*sheetssql.Schema, error) {
	return sheetssql.SchemaFromModels(StatusPeriod{}, TimeAway{}, AssistantPair{}, Assignment{})
}

// GetStatusPeriods retrieves all status records
func (db *DB) GetStatusPeriods(ctx context.Context) ([]StatusPeriod, error) {
	rows, err := sheetssql.GetTableAs[StatusPeriod](db.ssql, "status_period")
	if err != nil {
		return nil, fmt.Errorf("failed to get status periods: %w", err)
	}
	return rows, nil
}

// GetTimeAways retrieves all time-away records
func (db *DB) GetTimeAways(ctx context.Context) ([]TimeAway, error) {
	rows, err := sheetssql.GetTableAs[TimeAway](db.ssql, "time_away")
	if err != nil {
		return nil, fmt.Errorf("failed to get time away: %w", err)
	}
	return rows, nil
}

// InsertTimeAway appends a time-away record
func (db *DB) InsertTimeAway(ctx context.Context, away *TimeAway) error {
	if err := sheetssql.InsertModel(db.ssql, *away); err != nil {
		return fmt.Errorf("failed to insert time away: %w", err)
	}
	return nil
}

// GetAssistantPairs retrieves all assistant pair records
func (db *DB) GetAssistantPairs(ctx context.Context) ([]AssistantPair, error) {
	rows, err := sheetssql.GetTableAs[AssistantPair](db.ssql, "assistant_pair")
	if err != nil {
		return nil, fmt.Errorf("failed to get assistant pairs: %w", err)
	}
	return rows, nil
}

// GetAssignments retrieves every assignment row ever written. Rows are
// append-only, so callers fold them by recorded_at.
func (db *DB) GetAssignments(ctx context.Context) ([]Assignment, error) {
	rows, err := sheetssql.GetTableAs[Assignment](db.ssql, "assignment")
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	return rows, nil
}

// SaveAssignment appends an assignment row. Sheets cannot update in place, so
// a clear is a row with no person.
func (db *DB) SaveAssignment(ctx context.Context, assignment *Assignment) error {
	if err := sheetssql.InsertModel(db.ssql, *assignment); err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}
