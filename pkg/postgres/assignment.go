package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

// GetAssignments retrieves the live assignment of every slot
func (d *DB) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, week, slot, person_id, code, recorded_at
		FROM assignment
		ORDER BY week, slot
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		var a db.Assignment
		var week time.Time
		if err := rows.Scan(&a.ID, &week, &a.Slot, &a.PersonID, &a.Code, &a.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Week = model.DateOf(week)
		a.RecordedAt = a.RecordedAt.UTC()
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// SaveAssignment upserts the slot's assignment, or deletes it when the row has no person.
// Older writes never overwrite newer ones and fail with db.ErrStaleWrite.
func (d *DB) SaveAssignment(ctx context.Context, a *db.Assignment) error {
	if a.Week.IsZero() || a.Slot == "" {
		return fmt.Errorf("assignment needs a week and a slot")
	}

	week := a.Week.Monday().Time()

	if a.PersonID == "" {
		tag, err := d.pool.Exec(ctx, `
			DELETE FROM assignment
			WHERE week = $1 AND slot = $2 AND recorded_at <= $3
		`, week, a.Slot, a.RecordedAt)
		if err != nil {
			return fmt.Errorf("failed to clear assignment: %w", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		// Nothing deleted: either the slot was already empty or a newer row holds it
		var newer bool
		err = d.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM assignment WHERE week = $1 AND slot = $2)
		`, week, a.Slot).Scan(&newer)
		if err != nil {
			return fmt.Errorf("failed to check assignment: %w", err)
		}
		if newer {
			return fmt.Errorf("clear of %s %s: %w", a.Week.Monday(), a.Slot, db.ErrStaleWrite)
		}
		return nil
	}

	tag, err := d.pool.Exec(ctx, `
		INSERT INTO assignment (id, week, slot, person_id, code, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (week, slot) DO UPDATE
		SET person_id = EXCLUDED.person_id,
			code = EXCLUDED.code,
			recorded_at = EXCLUDED.recorded_at
		WHERE assignment.recorded_at <= EXCLUDED.recorded_at
	`, a.ID, week, a.Slot, a.PersonID, a.Code, a.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save of %s %s: %w", a.Week.Monday(), a.Slot, db.ErrStaleWrite)
	}
	return nil
}
