package ranking

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// NeverLabel is shown for members with no assignment in the family
const NeverLabel = "never"

// History is the recency lookup the ranker reads from the ledger
type History interface {
	LastAssignment(personID, family string, before model.Date) (model.Date, bool)
}

// Ranker orders eligible members so the longest-waiting come first
type Ranker struct {
	history History
	locale  language.Tag
}

// NewRanker creates a ranker. Display-name ties are broken with the collation
// rules of locale.
func NewRanker(history History, locale language.Tag) *Ranker {
	return &Ranker{history: history, locale: locale}
}

// Rank orders members for an assignment in week.
//
// Members never assigned in the type's family come first, then the oldest
// last assignment. Ties fall back to display name, then id, so the order is
// total and repeatable.
func (r *Ranker) Rank(persons []model.Person, t catalog.AssignmentType, week model.Date) []model.Candidate {
	week = week.Monday()
	withAssistant := t.Category == catalog.CategoryStudentPart

	candidates := make([]model.Candidate, 0, len(persons))
	for _, p := range persons {
		c := model.PersonCandidate(p)

		if last, ok := r.history.LastAssignment(p.ID, t.Family, week); ok {
			c.LastAssigned = &last
			c.WeeksSince = last.WeeksUntil(week)
		}
		c.LastAssignedLabel = Label(c.LastAssigned, week)

		if withAssistant {
			if last, ok := r.history.LastAssignment(p.ID, catalog.FamilyAssistant, week); ok {
				c.LastAssistant = &last
			}
			c.LastAssistantLabel = Label(c.LastAssistant, week)
		}

		candidates = append(candidates, c)
	}

	// Collators keep scratch buffers, so each call gets its own
	col := collate.New(r.locale, collate.IgnoreCase)

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		switch {
		case a.LastAssigned == nil && b.LastAssigned != nil:
			return true
		case a.LastAssigned != nil && b.LastAssigned == nil:
			return false
		case a.LastAssigned != nil && b.LastAssigned != nil:
			if c := a.LastAssigned.Compare(*b.LastAssigned); c != 0 {
				return c < 0
			}
		}

		if c := col.CompareString(a.DisplayName(), b.DisplayName()); c != 0 {
			return c < 0
		}
		return a.ID() < b.ID()
	})

	return candidates
}

// Label formats a recency for display, e.g. "2024/02/05 (4 wk)"
func Label(last *model.Date, week model.Date) string {
	if last == nil {
		return NeverLabel
	}
	return fmt.Sprintf("%s (%d wk)", last, last.WeeksUntil(week))
}
