package directory

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jakechorley/meeting-assignments/pkg/core/availability"
	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// Directory is an immutable roster snapshot. Hosts build a new one whenever
// member data changes.
type Directory struct {
	persons    []model.Person
	byID       map[string]int
	assistants map[string][]string
}

// New builds a directory. Any invalid member fails the whole snapshot; use
// Validate first to drop bad rows instead.
//
// Assistant pairs that name unknown members are ignored, since a stale
// identifier is expected in a roster that is still being edited.
func New(persons []model.Person, pairs []model.AssistantPair) (*Directory, error) {
	if _, err := Validate(persons); err != nil {
		return nil, err
	}

	d := &Directory{
		persons:    make([]model.Person, len(persons)),
		byID:       make(map[string]int, len(persons)),
		assistants: make(map[string][]string),
	}
	copy(d.persons, persons)
	for i, p := range d.persons {
		d.byID[p.ID] = i
	}

	for _, pair := range pairs {
		if _, ok := d.byID[pair.PrincipalID]; !ok {
			continue
		}
		if _, ok := d.byID[pair.AssistantID]; !ok {
			continue
		}
		if pair.PrincipalID == pair.AssistantID {
			continue
		}
		existing := d.assistants[pair.PrincipalID]
		if slices.Contains(existing, pair.AssistantID) {
			continue
		}
		d.assistants[pair.PrincipalID] = append(existing, pair.AssistantID)
	}

	return d, nil
}

// Validate splits a roster into the members that pass integrity checks and a
// joined error describing the rest
func Validate(persons []model.Person) ([]model.Person, error) {
	valid := make([]model.Person, 0, len(persons))
	seen := make(map[string]bool, len(persons))
	var errs []error

	for _, p := range persons {
		if err := validatePerson(p); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[p.ID] {
			errs = append(errs, &model.DataIntegrityError{PersonID: p.ID, Detail: "duplicate person id"})
			continue
		}
		seen[p.ID] = true
		valid = append(valid, p)
	}

	return valid, errors.Join(errs...)
}

func validatePerson(p model.Person) error {
	if strings.TrimSpace(p.ID) == "" {
		return &model.DataIntegrityError{Detail: fmt.Sprintf("person %q has no id", p.Name())}
	}
	if !p.Gender.IsValid() {
		return &model.DataIntegrityError{PersonID: p.ID, Detail: fmt.Sprintf("invalid gender %q", p.Gender)}
	}

	var errs []error
	for _, sp := range p.Statuses {
		if !sp.Status.IsValid() {
			errs = append(errs, &model.DataIntegrityError{PersonID: p.ID, Detail: fmt.Sprintf("unknown status %q", sp.Status)})
			continue
		}
		if sp.End != nil && sp.End.Before(sp.Start) {
			errs = append(errs, &model.DataIntegrityError{
				PersonID: p.ID,
				Detail:   fmt.Sprintf("%s period ends %s before it starts %s", sp.Status, sp.End, sp.Start),
			})
		}
	}
	if err := availability.ValidatePerson(p); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Get looks up a member by id
func (d *Directory) Get(id string) (model.Person, bool) {
	i, ok := d.byID[id]
	if !ok {
		return model.Person{}, false
	}
	return d.persons[i], true
}

// All returns every member in roster order
func (d *Directory) All() []model.Person {
	out := make([]model.Person, len(d.persons))
	copy(out, d.persons)
	return out
}

func (d *Directory) Len() int {
	return len(d.persons)
}

// ListEligibleBase returns the active members whose roles as of ref satisfy the
// assignment type. Gender and availability are not considered here.
func (d *Directory) ListEligibleBase(t catalog.AssignmentType, ref model.Date) []model.Person {
	out := make([]model.Person, 0)
	for _, p := range d.persons {
		if !p.IsActiveAt(ref) {
			continue
		}
		if !t.Role.Satisfied(p.FlagsAt(ref)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AssistantPool returns the members who may assist the given principal as of ref.
// Explicit pairs take precedence; without any, assistant-eligible members of the
// principal's gender form the pool.
func (d *Directory) AssistantPool(principalID string, ref model.Date) []model.Person {
	out := make([]model.Person, 0)

	principal, ok := d.Get(principalID)
	if !ok {
		return out
	}

	if ids, paired := d.assistants[principalID]; paired {
		for _, id := range ids {
			p := d.persons[d.byID[id]]
			if p.IsActiveAt(ref) {
				out = append(out, p)
			}
		}
		return out
	}

	for _, p := range d.persons {
		if p.ID == principalID || !p.AssistantEligible || p.Gender != principal.Gender {
			continue
		}
		if p.IsActiveAt(ref) {
			out = append(out, p)
		}
	}
	return out
}

// Search finds members whose name fuzzily matches query, best match first
func (d *Directory) Search(query string) []model.Person {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Person{}
	}

	names := make([]string, len(d.persons))
	for i, p := range d.persons {
		names[i] = p.FirstName + " " + p.LastName + " " + p.DisplayName
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	out := make([]model.Person, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, d.persons[rank.OriginalIndex])
	}
	return out
}
