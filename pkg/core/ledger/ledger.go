package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// FamilyResolver maps an assignment code to its rotation family
type FamilyResolver interface {
	FamilyOf(code string) string
}

type slotKey struct {
	week model.Date
	slot string
}

// Ledger is the live state of every filled slot, keyed by (week, slot). Weeks
// are normalised to their Monday. Writes are serialised; reads run concurrently.
type Ledger struct {
	mu       sync.RWMutex
	families FamilyResolver

	records map[slotKey]model.AssignmentRecord

	// week -> slots, and person -> family -> keys
	byWeek   map[model.Date]map[string]struct{}
	byPerson map[string]map[string]map[slotKey]struct{}
}

// New creates a ledger and folds the given rows into it with Load
func New(families FamilyResolver, records ...model.AssignmentRecord) *Ledger {
	l := &Ledger{
		families: families,
		records:  make(map[slotKey]model.AssignmentRecord),
		byWeek:   make(map[model.Date]map[string]struct{}),
		byPerson: make(map[string]map[string]map[slotKey]struct{}),
	}
	l.Load(records)
	return l
}

// Load folds rows from an append-only store. For each (week, slot) the row with
// the latest RecordedAt wins, and a winning row with no person clears the slot.
func (l *Ledger) Load(records []model.AssignmentRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	latest := make(map[slotKey]model.AssignmentRecord, len(records))
	for _, rec := range records {
		if rec.Slot == "" || rec.Week.IsZero() {
			continue
		}
		rec.Week = rec.Week.Monday()
		k := slotKey{week: rec.Week, slot: rec.Slot}
		if prev, ok := latest[k]; ok && prev.RecordedAt.After(rec.RecordedAt) {
			continue
		}
		latest[k] = rec
	}

	for k, rec := range latest {
		if rec.PersonID == "" {
			l.remove(k)
			continue
		}
		l.put(k, rec)
	}
}

// Record upserts the assignment for (week, slot). It returns the record it
// replaced, or nil when the slot was empty or already held the same assignment.
func (l *Ledger) Record(rec model.AssignmentRecord) (*model.AssignmentRecord, error) {
	if rec.Slot == "" {
		return nil, fmt.Errorf("assignment record has no slot")
	}
	if rec.Week.IsZero() {
		return nil, fmt.Errorf("assignment record for slot %s has no week", rec.Slot)
	}
	if rec.PersonID == "" {
		return nil, fmt.Errorf("assignment record for slot %s has no person, clear the slot instead", rec.Slot)
	}

	rec.Week = rec.Week.Monday()
	k := slotKey{week: rec.Week, slot: rec.Slot}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev, existed := l.records[k]
	l.put(k, rec)

	if !existed || (prev.PersonID == rec.PersonID && prev.Code == rec.Code) {
		return nil, nil
	}
	return &prev, nil
}

// Clear empties a slot, returning the record that was removed
func (l *Ledger) Clear(week model.Date, slot string) (model.AssignmentRecord, bool) {
	k := slotKey{week: week.Monday(), slot: slot}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev, ok := l.records[k]
	if ok {
		l.remove(k)
	}
	return prev, ok
}

// Get returns the live record for a slot
func (l *Ledger) Get(week model.Date, slot string) (model.AssignmentRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[slotKey{week: week.Monday(), slot: slot}]
	return rec, ok
}

// RecordsForWeek returns the live records of a week ordered by slot
func (l *Ledger) RecordsForWeek(week model.Date) []model.AssignmentRecord {
	week = week.Monday()

	l.mu.RLock()
	defer l.mu.RUnlock()

	slots := l.byWeek[week]
	out := make([]model.AssignmentRecord, 0, len(slots))
	for slot := range slots {
		out = append(out, l.records[slotKey{week: week, slot: slot}])
	}
	sortRecords(out)
	return out
}

// RecordsForPerson returns every live record held by a person ordered by week
func (l *Ledger) RecordsForPerson(personID string) []model.AssignmentRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.AssignmentRecord
	for _, keys := range l.byPerson[personID] {
		for k := range keys {
			out = append(out, l.records[k])
		}
	}
	sortRecords(out)
	return out
}

// LastAssignment returns the latest week strictly before `before` in which the
// person held an assignment of the given family
func (l *Ledger) LastAssignment(personID, family string, before model.Date) (model.Date, bool) {
	before = before.Monday()

	l.mu.RLock()
	defer l.mu.RUnlock()

	var last model.Date
	found := false
	for k := range l.byPerson[personID][family] {
		if !k.week.Before(before) {
			continue
		}
		if !found || k.week.After(last) {
			last = k.week
			found = true
		}
	}
	return last, found
}

// All returns every live record ordered by week then slot
func (l *Ledger) All() []model.AssignmentRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.AssignmentRecord, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, rec)
	}
	sortRecords(out)
	return out
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// put stores rec under k, keeping the indexes in step. Caller holds the write lock.
func (l *Ledger) put(k slotKey, rec model.AssignmentRecord) {
	if _, ok := l.records[k]; ok {
		l.remove(k)
	}

	l.records[k] = rec

	slots, ok := l.byWeek[k.week]
	if !ok {
		slots = make(map[string]struct{})
		l.byWeek[k.week] = slots
	}
	slots[k.slot] = struct{}{}

	family := l.familyOf(rec.Code)
	families, ok := l.byPerson[rec.PersonID]
	if !ok {
		families = make(map[string]map[slotKey]struct{})
		l.byPerson[rec.PersonID] = families
	}
	keys, ok := families[family]
	if !ok {
		keys = make(map[slotKey]struct{})
		families[family] = keys
	}
	keys[k] = struct{}{}
}

// remove drops the record under k and its index entries. Caller holds the write lock.
func (l *Ledger) remove(k slotKey) {
	rec, ok := l.records[k]
	if !ok {
		return
	}
	delete(l.records, k)

	if slots := l.byWeek[k.week]; slots != nil {
		delete(slots, k.slot)
		if len(slots) == 0 {
			delete(l.byWeek, k.week)
		}
	}

	family := l.familyOf(rec.Code)
	if families := l.byPerson[rec.PersonID]; families != nil {
		if keys := families[family]; keys != nil {
			delete(keys, k)
			if len(keys) == 0 {
				delete(families, family)
			}
		}
		if len(families) == 0 {
			delete(l.byPerson, rec.PersonID)
		}
	}
}

func (l *Ledger) familyOf(code string) string {
	if l.families == nil {
		return code
	}
	return l.families.FamilyOf(code)
}

func sortRecords(records []model.AssignmentRecord) {
	sort.Slice(records, func(i, j int) bool {
		if c := records[i].Week.Compare(records[j].Week); c != 0 {
			return c < 0
		}
		return records[i].Slot < records[j].Slot
	})
}
