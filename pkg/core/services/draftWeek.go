package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/meeting-assignments/pkg/core/assembly"
	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

// DraftedSlot is the pick made for one empty slot
type DraftedSlot struct {
	Slot     string
	PersonID string
	Name     string
}

// UnfilledSlot is an empty slot the draft could not fill
type UnfilledSlot struct {
	Slot   string
	Reason string
}

// DraftResult reports what DraftWeek filled
type DraftResult struct {
	Week     model.Date
	Drafted  []DraftedSlot
	Unfilled []UnfilledSlot
	// Kept counts slots that already had an assignment
	Kept   int
	DryRun bool
}

// DraftWeek fills every empty slot of a week with the top-ranked candidate who
// holds no other slot that week. Existing assignments are never replaced.
//
// Slots are visited in catalogue order, so a student part is drafted before
// its assistant and the assistant is drawn from that student's pool. A dry run
// saves nothing but picks exactly as a real draft would.
func DraftWeek(ctx context.Context, store db.AssignmentStore, asm *assembly.Assembler, logger *zap.Logger, week model.Date, meeting catalog.Meeting, weekType model.WeekType, dryRun bool) (*DraftResult, error) {
	if week.IsZero() {
		return nil, fmt.Errorf("draft needs a week")
	}
	week = week.Monday()

	logger.Info("Drafting week",
		zap.String("week", week.String()),
		zap.String("meeting", string(meeting)),
		zap.String("week_type", string(weekType)),
		zap.Bool("dry_run", dryRun))

	slots := asm.Catalog().Slots()
	if meeting != "" {
		slots = asm.Catalog().SlotsFor(meeting)
	}

	taken := make(map[string]bool)
	for _, rec := range asm.Ledger().RecordsForWeek(week) {
		taken[rec.PersonID] = true
	}

	result := &DraftResult{Week: week, DryRun: dryRun}
	picked := make(map[string]string)

	for _, slot := range slots {
		if _, ok := asm.Ledger().Get(week, slot.Key); ok {
			result.Kept++
			continue
		}

		candidates, err := asm.Candidates(assembly.SlotRequest{
			Week:        week,
			Slot:        slot.Key,
			WeekType:    weekType,
			PrincipalID: picked[slot.Principal],
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates for %s: %w", slot.Key, err)
		}

		pick, reason := draftPick(candidates.Candidates, taken)
		if pick == nil {
			logger.Debug("Slot left empty", zap.String("slot", slot.Key), zap.String("reason", reason))
			result.Unfilled = append(result.Unfilled, UnfilledSlot{Slot: slot.Key, Reason: reason})
			continue
		}

		personID := pick.ID()

		if !dryRun {
			if _, err := save(ctx, store, asm, logger, week, slot.Key, personID, ""); err != nil {
				return nil, err
			}
		}

		taken[personID] = true
		picked[slot.Key] = personID
		result.Drafted = append(result.Drafted, DraftedSlot{
			Slot:     slot.Key,
			PersonID: personID,
			Name:     pick.DisplayName(),
		})
	}

	logger.Info("Draft complete",
		zap.Int("drafted", len(result.Drafted)),
		zap.Int("unfilled", len(result.Unfilled)),
		zap.Int("kept", result.Kept))

	return result, nil
}

func draftPick(candidates []model.Candidate, taken map[string]bool) (*model.Candidate, string) {
	if len(candidates) == 0 {
		return nil, "no eligible candidates"
	}
	for i := range candidates {
		c := candidates[i]
		if c.IsPlaceholder() || !taken[c.ID()] {
			return &c, ""
		}
	}
	return nil, "every candidate already has a part this week"
}
