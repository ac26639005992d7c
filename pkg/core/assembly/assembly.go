package assembly

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/jakechorley/meeting-assignments/pkg/core/availability"
	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/conflict"
	"github.com/jakechorley/meeting-assignments/pkg/core/directory"
	"github.com/jakechorley/meeting-assignments/pkg/core/eligibility"
	"github.com/jakechorley/meeting-assignments/pkg/core/ledger"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/core/ranking"
)

// Settings are the congregation preferences the engine honours
type Settings struct {
	// CircuitOverseerName is shown as the only candidate for overseer slots in a visit week
	CircuitOverseerName string

	// PocketMode lets free-text names be saved into any slot
	PocketMode bool

	AvailabilityMode availability.Mode
	Locale           language.Tag
}

// Context carries everything the assembler needs. It replaces any process-wide
// roster or settings state.
type Context struct {
	Catalog   *catalog.Catalog
	Directory *directory.Directory
	Ledger    *ledger.Ledger
	Settings  Settings
}

// Assembler answers per-slot candidate queries and applies saves
type Assembler struct {
	mu        sync.RWMutex
	directory *directory.Directory
	resolver  *eligibility.Resolver

	catalog  *catalog.Catalog
	ledger   *ledger.Ledger
	ranker   *ranking.Ranker
	detector *conflict.Detector
	settings Settings

	now func() time.Time
}

// New wires the engine components around the given context
func New(ctx Context) (*Assembler, error) {
	if ctx.Catalog == nil {
		return nil, fmt.Errorf("assembly context has no catalog")
	}
	if ctx.Directory == nil {
		return nil, fmt.Errorf("assembly context has no directory")
	}
	if ctx.Ledger == nil {
		return nil, fmt.Errorf("assembly context has no ledger")
	}

	settings := ctx.Settings
	if settings.AvailabilityMode == "" {
		settings.AvailabilityMode = availability.ModeAll
	}
	if settings.Locale == language.Und {
		settings.Locale = language.English
	}

	a := &Assembler{
		directory: ctx.Directory,
		resolver:  eligibility.NewResolver(ctx.Catalog, ctx.Directory, settings.AvailabilityMode),
		catalog:   ctx.Catalog,
		ledger:    ctx.Ledger,
		ranker:    ranking.NewRanker(ctx.Ledger, settings.Locale),
		settings:  settings,
		now:       time.Now,
	}
	a.detector = conflict.NewDetector(ctx.Ledger).WithExempt(a.isPlaceholder)
	return a, nil
}

// isPlaceholder reports whether a stored person id is a name off the roster
func (a *Assembler) isPlaceholder(personID string) bool {
	_, ok := a.Directory().Get(personID)
	return !ok
}

// RefreshRoster swaps in a new roster snapshot. Queries already running keep
// the snapshot they started with.
func (a *Assembler) RefreshRoster(dir *directory.Directory) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.directory = dir
	a.resolver = a.resolver.WithRoster(dir)
}

func (a *Assembler) snapshot() (*directory.Directory, *eligibility.Resolver) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.directory, a.resolver
}

// Directory returns the current roster snapshot
func (a *Assembler) Directory() *directory.Directory {
	dir, _ := a.snapshot()
	return dir
}

func (a *Assembler) Catalog() *catalog.Catalog {
	return a.catalog
}

func (a *Assembler) Ledger() *ledger.Ledger {
	return a.ledger
}

func (a *Assembler) Settings() Settings {
	return a.settings
}

// SlotRequest asks for the candidates of one slot in one week
type SlotRequest struct {
	Week model.Date
	Slot string

	// WeekType defaults to a normal meeting week
	WeekType model.WeekType

	// TypeOverride picks a different code for the slot, e.g. which student part
	TypeOverride string

	GenderOverride model.Gender

	// SelectedPersonID is checked for conflicts. Empty means the slot's live assignee.
	SelectedPersonID string

	// PocketName, when set in pocket mode, replaces the roster with a single free-text candidate
	PocketName string

	// PrincipalID stands in for the live assignee of an assistant slot's principal
	PrincipalID string
}

// SlotResult is an ordered candidate list with the conflict state of the selection
type SlotResult struct {
	Week       model.Date
	Slot       catalog.Slot
	Type       catalog.AssignmentType
	Candidates []model.Candidate

	// Selected is nil when nothing is selected or the selection is no longer on the roster
	Selected      *model.Candidate
	HasConflict   bool
	ConflictSlots []string
}

// Candidates resolves, ranks and conflict-checks one slot. It has no side effects.
func (a *Assembler) Candidates(req SlotRequest) (*SlotResult, error) {
	if req.Week.IsZero() {
		return nil, fmt.Errorf("slot request for %s has no week", req.Slot)
	}
	week := req.Week.Monday()

	weekType := req.WeekType
	if weekType == "" {
		weekType = model.WeekNormal
	}
	if !weekType.IsValid() {
		return nil, fmt.Errorf("unknown week type %q", weekType)
	}

	slot, typ, err := a.catalog.TypeForSlot(req.Slot, req.TypeOverride)
	if err != nil {
		return nil, err
	}

	dir, resolver := a.snapshot()

	result := &SlotResult{
		Week:       week,
		Slot:       slot,
		Type:       typ,
		Candidates: []model.Candidate{},
	}

	switch {
	case !weekType.HasMeeting():
		// No assignments are made in assembly, convention or memorial weeks

	case weekType == model.WeekCircuitOverseer && slot.VisitingOverseer:
		if a.settings.CircuitOverseerName != "" {
			result.Candidates = append(result.Candidates, model.PlaceholderCandidate(a.settings.CircuitOverseerName))
		}

	case typ.Synthetic:
		// Overseer slots stay empty outside a visit week

	case req.PocketName != "" && a.settings.PocketMode:
		result.Candidates = append(result.Candidates, model.PlaceholderCandidate(req.PocketName))

	default:
		principalID := a.principal(req, week, slot, typ)

		persons := resolver.ResolveType(typ, eligibility.Request{
			Code:           typ.Code,
			Week:           week,
			GenderOverride: req.GenderOverride,
			PrincipalID:    principalID,
		})
		result.Candidates = a.ranker.Rank(persons, typ, week)
	}

	selectedID := req.SelectedPersonID
	if selectedID == "" {
		if rec, ok := a.ledger.Get(week, slot.Key); ok {
			selectedID = rec.PersonID
		}
	}
	if selectedID != "" {
		result.Selected = selectedCandidate(result.Candidates, dir, selectedID)
		result.ConflictSlots = a.detector.OtherSlots(week, selectedID, slot.Key)
		result.HasConflict = len(result.ConflictSlots) > 0
	}

	return result, nil
}

// Explain lists why a member is not among the slot's candidates. An empty
// result means the member is eligible.
func (a *Assembler) Explain(req SlotRequest, personID string) ([]string, error) {
	if req.Week.IsZero() {
		return nil, fmt.Errorf("slot request for %s has no week", req.Slot)
	}
	week := req.Week.Monday()

	slot, typ, err := a.catalog.TypeForSlot(req.Slot, req.TypeOverride)
	if err != nil {
		return nil, err
	}

	principalID := a.principal(req, week, slot, typ)

	_, resolver := a.snapshot()
	return resolver.Explain(eligibility.Request{
		Code:           typ.Code,
		Week:           week,
		GenderOverride: req.GenderOverride,
		PrincipalID:    principalID,
	}, personID)
}

func (a *Assembler) principal(req SlotRequest, week model.Date, slot catalog.Slot, typ catalog.AssignmentType) string {
	if !typ.Assistant {
		return ""
	}
	if req.PrincipalID != "" {
		return req.PrincipalID
	}
	if rec, ok := a.ledger.Get(week, slot.Principal); ok {
		return rec.PersonID
	}
	return ""
}

func selectedCandidate(candidates []model.Candidate, dir *directory.Directory, id string) *model.Candidate {
	for i := range candidates {
		if candidates[i].ID() == id {
			c := candidates[i]
			return &c
		}
	}
	// Still on the roster but no longer eligible for the slot
	if p, ok := dir.Get(id); ok {
		c := model.PersonCandidate(p)
		return &c
	}
	return nil
}

// SaveResult reports what a save changed
type SaveResult struct {
	Record model.AssignmentRecord

	// Replaced is the previous live record, if the save superseded one
	Replaced *model.AssignmentRecord

	Cleared       bool
	HasConflict   bool
	ConflictSlots []string
}

// NewRecord validates a save and builds the record without touching the ledger.
// An empty personID builds a clearing record.
func (a *Assembler) NewRecord(week model.Date, slotKey, personID, typeOverride string) (model.AssignmentRecord, error) {
	if week.IsZero() {
		return model.AssignmentRecord{}, fmt.Errorf("assignment for %s has no week", slotKey)
	}

	slot, typ, err := a.catalog.TypeForSlot(slotKey, typeOverride)
	if err != nil {
		return model.AssignmentRecord{}, err
	}

	if personID != "" && !a.acceptsPlaceholder(slot, typ, personID) {
		if _, ok := a.Directory().Get(personID); !ok {
			return model.AssignmentRecord{}, fmt.Errorf("person %s is not on the roster", personID)
		}
	}

	return model.AssignmentRecord{
		Week:       week.Monday(),
		Slot:       slot.Key,
		PersonID:   personID,
		Code:       typ.Code,
		RecordedAt: a.now().UTC(),
	}, nil
}

// acceptsPlaceholder reports whether a slot may hold a name that is not on the
// roster: overseer slots, the visiting overseer in the slots they take, and
// anything in pocket mode
func (a *Assembler) acceptsPlaceholder(slot catalog.Slot, typ catalog.AssignmentType, personID string) bool {
	switch {
	case typ.Synthetic:
		return true
	case slot.VisitingOverseer && a.settings.CircuitOverseerName != "" && personID == a.settings.CircuitOverseerName:
		return true
	default:
		return a.settings.PocketMode
	}
}

// Apply writes a record built by NewRecord into the ledger. Conflicts are
// reported but never block the write.
func (a *Assembler) Apply(rec model.AssignmentRecord) (*SaveResult, error) {
	if rec.PersonID == "" {
		prev, ok := a.ledger.Clear(rec.Week, rec.Slot)
		result := &SaveResult{Record: rec, Cleared: true}
		if ok {
			result.Replaced = &prev
		}
		return result, nil
	}

	replaced, err := a.ledger.Record(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to record assignment: %w", err)
	}

	others := a.detector.OtherSlots(rec.Week, rec.PersonID, rec.Slot)
	return &SaveResult{
		Record:        rec,
		Replaced:      replaced,
		HasConflict:   len(others) > 0,
		ConflictSlots: others,
	}, nil
}

// Save validates and applies an assignment in one step
func (a *Assembler) Save(week model.Date, slotKey, personID, typeOverride string) (*SaveResult, error) {
	rec, err := a.NewRecord(week, slotKey, personID, typeOverride)
	if err != nil {
		return nil, err
	}
	return a.Apply(rec)
}

// Clear empties a slot
func (a *Assembler) Clear(week model.Date, slotKey string) (*SaveResult, error) {
	return a.Save(week, slotKey, "", "")
}

// WeekReview is the live state of one week with its double bookings
type WeekReview struct {
	Week      model.Date
	Records   []model.AssignmentRecord
	Conflicts []conflict.Conflict
}

// Review summarises a week
func (a *Assembler) Review(week model.Date) WeekReview {
	week = week.Monday()
	return WeekReview{
		Week:      week,
		Records:   a.ledger.RecordsForWeek(week),
		Conflicts: a.detector.WeekConflicts(week),
	}
}
