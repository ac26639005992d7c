package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/meeting-assignments/pkg/core/assembly"
	"github.com/jakechorley/meeting-assignments/pkg/core/directory"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// parseWeek accepts YYYY/MM/DD or YYYY-MM-DD, or "today"
func parseWeek(s string) (model.Date, error) {
	if strings.EqualFold(s, "today") {
		return model.Today(), nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid week %q: %w", s, err)
	}
	return d, nil
}

// parseGender maps the --gender flag. Empty means no override.
func parseGender(s string) (model.Gender, error) {
	if s == "" {
		return "", nil
	}
	g, ok := model.ParseGender(s)
	if !ok {
		return "", fmt.Errorf("invalid gender %q (use male or female)", s)
	}
	return g, nil
}

// personName resolves an id against the roster, falling back to the raw value
// for placeholders such as the circuit overseer
func personName(dir *directory.Directory, id string) string {
	if p, ok := dir.Get(id); ok {
		return p.Name()
	}
	return id
}

func printCandidates(w io.Writer, result *assembly.SlotResult) {
	fmt.Fprintf(w, "\n%s  %s (%s)\n\n", result.Week, result.Slot.Key, result.Type.Code)

	if len(result.Candidates) == 0 {
		fmt.Fprintln(w, "  No candidates")
	}

	for i, c := range result.Candidates {
		marker := " "
		if result.Selected != nil && result.Selected.ID() == c.ID() {
			marker = "*"
		}

		if c.IsPlaceholder() {
			fmt.Fprintf(w, "%s %2d. %s\n", marker, i+1, c.DisplayName())
			continue
		}

		line := fmt.Sprintf("%s %2d. %-24s %-12s last: %s", marker, i+1, c.DisplayName(), c.Person.ID, c.LastAssignedLabel)
		if c.LastAssistantLabel != "" {
			line += fmt.Sprintf("  assisted: %s", c.LastAssistantLabel)
		}
		fmt.Fprintln(w, line)
	}

	if result.Selected != nil && !containsCandidate(result, result.Selected.ID()) {
		fmt.Fprintf(w, "\n  Selected %s is no longer eligible for this slot\n", result.Selected.DisplayName())
	}
	if result.HasConflict {
		fmt.Fprintf(w, "\n  ⚠ Also assigned this week: %s\n", strings.Join(result.ConflictSlots, ", "))
	}
	fmt.Fprintln(w)
}

func containsCandidate(result *assembly.SlotResult, id string) bool {
	for _, c := range result.Candidates {
		if c.ID() == id {
			return true
		}
	}
	return false
}

func printReview(w io.Writer, dir *directory.Directory, review assembly.WeekReview) {
	fmt.Fprintf(w, "\nWeek of %s\n\n", review.Week)

	if len(review.Records) == 0 {
		fmt.Fprintln(w, "  No assignments")
	}
	for _, rec := range review.Records {
		fmt.Fprintf(w, "  %-28s %-24s %s\n", rec.Slot, personName(dir, rec.PersonID), rec.Code)
	}

	if len(review.Conflicts) > 0 {
		fmt.Fprintln(w, "\nDouble bookings:")
		for _, c := range review.Conflicts {
			fmt.Fprintf(w, "  ⚠ %s: %s\n", personName(dir, c.PersonID), strings.Join(c.Slots, ", "))
		}
	}
	fmt.Fprintln(w)
}
