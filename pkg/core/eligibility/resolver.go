package eligibility

import (
	"github.com/jakechorley/meeting-assignments/pkg/core/availability"
	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// TypeLookup resolves assignment codes
type TypeLookup interface {
	Type(code string) (catalog.AssignmentType, error)
}

// Roster is the part of the person directory the resolver reads
type Roster interface {
	Get(id string) (model.Person, bool)
	ListEligibleBase(t catalog.AssignmentType, ref model.Date) []model.Person
	AssistantPool(principalID string, ref model.Date) []model.Person
}

// Request asks for the eligible members of one assignment in one week
type Request struct {
	Code string
	Week model.Date

	// GenderOverride narrows types that accept either gender. It is ignored for
	// types that are already restricted.
	GenderOverride model.Gender

	// PrincipalID is the student an assistant would pair with
	PrincipalID string
}

// Resolver turns an assignment request into the set of eligible members
type Resolver struct {
	types       TypeLookup
	roster      Roster
	constraints []Constraint
}

// NewResolver creates a resolver with the standard constraints
func NewResolver(types TypeLookup, roster Roster, mode availability.Mode) *Resolver {
	return &Resolver{
		types:  types,
		roster: roster,
		constraints: []Constraint{
			RoleConstraint{},
			GenderConstraint{},
			AvailabilityConstraint{Mode: mode},
		},
	}
}

// WithRoster returns a resolver reading a different roster snapshot
func (r *Resolver) WithRoster(roster Roster) *Resolver {
	return &Resolver{types: r.types, roster: roster, constraints: r.constraints}
}

// Resolve returns the eligible members in roster order. An unknown code is a
// ConfigurationError; no eligible members is an empty slice.
func (r *Resolver) Resolve(req Request) ([]model.Person, error) {
	t, err := r.types.Type(req.Code)
	if err != nil {
		return nil, err
	}
	return r.ResolveType(t, req), nil
}

// ResolveType is Resolve for a type that has already been looked up
func (r *Resolver) ResolveType(t catalog.AssignmentType, req Request) []model.Person {
	out := make([]model.Person, 0)
	if t.Synthetic {
		return out
	}

	q := query(t, req)

	var base []model.Person
	if t.Assistant {
		if req.PrincipalID == "" {
			return out
		}
		base = r.roster.AssistantPool(req.PrincipalID, req.Week)
	} else {
		base = r.roster.ListEligibleBase(t, req.Week)
	}

	for _, p := range base {
		if r.admits(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// Explain lists the constraints that exclude a member from the request. An
// empty result means the member is eligible.
func (r *Resolver) Explain(req Request, personID string) ([]string, error) {
	t, err := r.types.Type(req.Code)
	if err != nil {
		return nil, err
	}

	p, ok := r.roster.Get(personID)
	if !ok {
		return []string{"NotFound"}, nil
	}

	var vetoes []string
	if t.Synthetic {
		vetoes = append(vetoes, "Synthetic")
	}
	if t.Assistant && !inPool(r.roster.AssistantPool(req.PrincipalID, req.Week), personID) {
		vetoes = append(vetoes, "AssistantPool")
	}

	q := query(t, req)
	for _, c := range r.constraints {
		if !c.Admits(p, q) {
			vetoes = append(vetoes, c.Name())
		}
	}
	return vetoes, nil
}

func (r *Resolver) admits(p model.Person, q Query) bool {
	for _, c := range r.constraints {
		if !c.Admits(p, q) {
			return false
		}
	}
	return true
}

func query(t catalog.AssignmentType, req Request) Query {
	return Query{
		Type:   t,
		Week:   req.Week,
		Gender: EffectiveGender(t, req.GenderOverride),
	}
}

// EffectiveGender applies an override to a type that accepts either gender
func EffectiveGender(t catalog.AssignmentType, override model.Gender) catalog.GenderRequirement {
	if !t.AllowsGenderOverride() || !override.IsValid() {
		return t.Gender
	}
	if override == model.GenderMale {
		return catalog.GenderMale
	}
	return catalog.GenderFemale
}

func inPool(pool []model.Person, id string) bool {
	for _, p := range pool {
		if p.ID == id {
			return true
		}
	}
	return false
}
