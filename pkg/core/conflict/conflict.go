package conflict

import (
	"sort"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// WeekRecords is the read side of the ledger the detector needs
type WeekRecords interface {
	RecordsForWeek(week model.Date) []model.AssignmentRecord
}

// Conflict is one member holding more than one slot in a week. Conflicts are
// warnings; the schedule may keep them.
type Conflict struct {
	Week     model.Date
	PersonID string
	Slots    []string
}

// Detector flags double bookings against the live ledger
type Detector struct {
	ledger WeekRecords
	exempt func(personID string) bool
}

func NewDetector(ledger WeekRecords) *Detector {
	return &Detector{ledger: ledger}
}

// WithExempt returns a detector that never reports the ids exempt matches,
// such as placeholder names that may fill several slots of a week
func (d *Detector) WithExempt(exempt func(personID string) bool) *Detector {
	return &Detector{ledger: d.ledger, exempt: exempt}
}

func (d *Detector) counts(personID string) bool {
	return personID != "" && (d.exempt == nil || !d.exempt(personID))
}

// DetectConflict reports whether the person holds any slot in week other than excludingSlot
func (d *Detector) DetectConflict(week model.Date, personID, excludingSlot string) bool {
	if !d.counts(personID) {
		return false
	}
	for _, rec := range d.ledger.RecordsForWeek(week) {
		if rec.PersonID == personID && rec.Slot != excludingSlot {
			return true
		}
	}
	return false
}

// OtherSlots lists the slots the person holds in week apart from excludingSlot
func (d *Detector) OtherSlots(week model.Date, personID, excludingSlot string) []string {
	if !d.counts(personID) {
		return nil
	}
	var slots []string
	for _, rec := range d.ledger.RecordsForWeek(week) {
		if rec.PersonID == personID && rec.Slot != excludingSlot {
			slots = append(slots, rec.Slot)
		}
	}
	return slots
}

// WeekConflicts returns every member holding two or more slots in week,
// ordered by person id
func (d *Detector) WeekConflicts(week model.Date) []Conflict {
	records := d.ledger.RecordsForWeek(week)

	slotsByPerson := make(map[string][]string)
	for _, rec := range records {
		if !d.counts(rec.PersonID) {
			continue
		}
		slotsByPerson[rec.PersonID] = append(slotsByPerson[rec.PersonID], rec.Slot)
	}

	var conflicts []Conflict
	for personID, slots := range slotsByPerson {
		if len(slots) < 2 {
			continue
		}
		sort.Strings(slots)
		conflicts = append(conflicts, Conflict{
			Week:     week.Monday(),
			PersonID: personID,
			Slots:    slots,
		})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].PersonID < conflicts[j].PersonID
	})

	return conflicts
}
