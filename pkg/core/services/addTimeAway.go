package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/meeting-assignments/pkg/core/assembly"
	"github.com/jakechorley/meeting-assignments/pkg/core/availability"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

// AddTimeAway records a period of unavailability for a member. end may be nil
// for an open-ended absence. The running roster is not refreshed.
func AddTimeAway(ctx context.Context, store db.RosterStore, asm *assembly.Assembler, logger *zap.Logger, personID string, start model.Date, end *model.Date, reason string) (*db.TimeAway, error) {
	if _, ok := asm.Directory().Get(personID); !ok {
		return nil, fmt.Errorf("person %s is not on the roster", personID)
	}

	away := model.TimeAway{
		ID:     uuid.New().String(),
		Start:  start,
		End:    end,
		Reason: reason,
	}
	if err := availability.Validate(personID, away); err != nil {
		return nil, err
	}

	row := &db.TimeAway{
		ID:       away.ID,
		PersonID: personID,
		Start:    start.String(),
		Reason:   reason,
	}
	if end != nil {
		row.End = end.String()
	}

	logger.Info("Recording time away",
		zap.String("person_id", personID),
		zap.String("start", row.Start),
		zap.String("end", row.End))

	if err := store.InsertTimeAway(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to insert time away: %w", err)
	}

	return row, nil
}
