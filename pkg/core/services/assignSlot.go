package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/meeting-assignments/pkg/core/assembly"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

// ListCandidates returns the ranked candidates for one slot
func ListCandidates(ctx context.Context, asm *assembly.Assembler, logger *zap.Logger, req assembly.SlotRequest) (*assembly.SlotResult, error) {
	logger.Debug("Listing candidates",
		zap.String("week", req.Week.String()),
		zap.String("slot", req.Slot),
		zap.String("week_type", string(req.WeekType)),
		zap.String("type_override", req.TypeOverride))

	result, err := asm.Candidates(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	logger.Debug("Candidates resolved",
		zap.String("code", result.Type.Code),
		zap.Int("count", len(result.Candidates)))

	if result.HasConflict {
		logger.Warn("Selected member is already assigned this week",
			zap.String("week", result.Week.String()),
			zap.String("slot", result.Slot.Key),
			zap.Strings("other_slots", result.ConflictSlots))
	}

	return result, nil
}

// AssignSlot persists an assignment and then applies it to the in-memory
// ledger. The ledger is untouched when the store write fails.
func AssignSlot(ctx context.Context, store db.AssignmentStore, asm *assembly.Assembler, logger *zap.Logger, week model.Date, slot, personID, typeOverride string) (*assembly.SaveResult, error) {
	if personID == "" {
		return nil, fmt.Errorf("no person given for %s, use ClearSlot to empty it", slot)
	}

	logger.Info("Assigning slot",
		zap.String("week", week.String()),
		zap.String("slot", slot),
		zap.String("person_id", personID))

	return save(ctx, store, asm, logger, week, slot, personID, typeOverride)
}

// ClearSlot empties a slot. Append-only stores record the clear as a row with no person.
func ClearSlot(ctx context.Context, store db.AssignmentStore, asm *assembly.Assembler, logger *zap.Logger, week model.Date, slot string) (*assembly.SaveResult, error) {
	logger.Info("Clearing slot",
		zap.String("week", week.String()),
		zap.String("slot", slot))

	return save(ctx, store, asm, logger, week, slot, "", "")
}

func save(ctx context.Context, store db.AssignmentStore, asm *assembly.Assembler, logger *zap.Logger, week model.Date, slot, personID, typeOverride string) (*assembly.SaveResult, error) {
	rec, err := asm.NewRecord(week, slot, personID, typeOverride)
	if err != nil {
		return nil, fmt.Errorf("invalid assignment: %w", err)
	}

	row := db.AssignmentRow(rec)
	logger.Debug("Persisting assignment",
		zap.String("row_id", row.ID),
		zap.String("code", row.Code))

	if err := store.SaveAssignment(ctx, row); err != nil {
		if errors.Is(err, db.ErrStaleWrite) {
			logger.Warn("Store holds a newer assignment, run refresh to reload it",
				zap.String("week", rec.Week.String()),
				zap.String("slot", rec.Slot))
		}
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}

	result, err := asm.Apply(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to apply assignment: %w", err)
	}

	if result.Replaced != nil {
		logger.Info("Replaced previous assignment",
			zap.String("slot", rec.Slot),
			zap.String("previous_person_id", result.Replaced.PersonID))
	}
	if result.HasConflict {
		logger.Warn("Member is assigned more than once this week",
			zap.String("week", rec.Week.String()),
			zap.String("person_id", rec.PersonID),
			zap.Strings("other_slots", result.ConflictSlots))
	}

	return result, nil
}

// ReviewWeek returns the live assignments of a week and its double bookings
func ReviewWeek(ctx context.Context, asm *assembly.Assembler, logger *zap.Logger, week model.Date) assembly.WeekReview {
	review := asm.Review(week)

	logger.Debug("Reviewed week",
		zap.String("week", review.Week.String()),
		zap.Int("assignments", len(review.Records)),
		zap.Int("conflicts", len(review.Conflicts)))

	for _, c := range review.Conflicts {
		logger.Warn("Double booking",
			zap.String("week", c.Week.String()),
			zap.String("person_id", c.PersonID),
			zap.Strings("slots", c.Slots))
	}

	return review
}
