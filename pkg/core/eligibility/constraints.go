package eligibility

import (
	"github.com/jakechorley/meeting-assignments/pkg/core/availability"
	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// Query is what a constraint is evaluated against
type Query struct {
	Type catalog.AssignmentType
	Week model.Date

	// Gender is the effective requirement after any override
	Gender catalog.GenderRequirement
}

// Constraint is a hard filter on candidates.
// It acts as a veto: if ANY constraint rejects a member, the member is not eligible.
type Constraint interface {
	// Name identifies the constraint in explanations and logs
	Name() string

	// Admits reports whether the member may take the assignment described by q
	Admits(p model.Person, q Query) bool
}

// RoleConstraint requires an active member whose roles as of the week satisfy the type.
// Assistant types are exempt: their pool is already a narrower relation.
type RoleConstraint struct{}

func (RoleConstraint) Name() string {
	return "Role"
}

func (RoleConstraint) Admits(p model.Person, q Query) bool {
	if !p.IsActiveAt(q.Week) {
		return false
	}
	if q.Type.Assistant {
		return true
	}
	return q.Type.Role.Satisfied(p.FlagsAt(q.Week))
}

// GenderConstraint applies the effective gender requirement
type GenderConstraint struct{}

func (GenderConstraint) Name() string {
	return "Gender"
}

func (GenderConstraint) Admits(p model.Person, q Query) bool {
	return q.Gender.Admits(p.Gender)
}

// AvailabilityConstraint removes members who are away in the week
type AvailabilityConstraint struct {
	Mode availability.Mode
}

func (c AvailabilityConstraint) Name() string {
	return "Availability"
}

func (c AvailabilityConstraint) Admits(p model.Person, q Query) bool {
	return availability.IsAvailable(p, q.Week, c.Mode)
}
