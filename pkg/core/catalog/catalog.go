package catalog

import (
	"fmt"
	"sort"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// Category classifies assignment types. Defaults such as the rotation family
// are resolved from it once, when the catalogue is built.
type Category int

const (
	CategoryChairman Category = iota + 1
	CategoryPrayer
	CategoryTalk
	CategoryReading
	CategoryStudentPart
	CategoryAssistantPart
	CategoryStudyConductor
	CategoryCircuitOverseer
)

func (c Category) String() string {
	switch c {
	case CategoryChairman:
		return "chairman"
	case CategoryPrayer:
		return "prayer"
	case CategoryTalk:
		return "talk"
	case CategoryReading:
		return "reading"
	case CategoryStudentPart:
		return "student_part"
	case CategoryAssistantPart:
		return "assistant_part"
	case CategoryStudyConductor:
		return "study_conductor"
	case CategoryCircuitOverseer:
		return "circuit_overseer"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Role is the role category an assignee must hold
type Role string

const (
	RoleNone             Role = "none"
	RoleAnyPublisher     Role = "any_publisher"
	RoleBaptized         Role = "baptized"
	RoleStudent          Role = "student"
	RoleQualifiedBrother Role = "qualified_brother"
	RoleElder            Role = "elder"
	RoleAssistant        Role = "assistant"
)

// Flags returns the member flags that satisfy the role. Holding any one of them is enough.
func (r Role) Flags() []model.Flag {
	switch r {
	case RoleAnyPublisher:
		return []model.Flag{model.FlagPublisher}
	case RoleBaptized:
		return []model.Flag{model.FlagBaptized}
	case RoleStudent:
		return []model.Flag{model.FlagEnrolled}
	case RoleQualifiedBrother:
		return []model.Flag{model.FlagElder, model.FlagMinisterialServant}
	case RoleElder:
		return []model.Flag{model.FlagElder}
	case RoleAssistant:
		return []model.Flag{model.FlagAssistant}
	default:
		return nil
	}
}

// Satisfied reports whether a member holding flags meets the role
func (r Role) Satisfied(flags model.Flags) bool {
	return flags.HasAny(r.Flags()...)
}

// GenderRequirement restricts who may take an assignment
type GenderRequirement string

const (
	GenderMale   GenderRequirement = "male"
	GenderFemale GenderRequirement = "female"
	GenderEither GenderRequirement = "either"
)

func (g GenderRequirement) Admits(gender model.Gender) bool {
	switch g {
	case GenderMale:
		return gender == model.GenderMale
	case GenderFemale:
		return gender == model.GenderFemale
	default:
		return true
	}
}

// Rotation families shared by several codes
const (
	FamilyStudentPart = "student_part"
	FamilyAssistant   = "assistant"
	FamilyTalk        = "talk"
	FamilyPublicTalk  = "public_talk"
	FamilyReading     = "reading"
	FamilyPrayer      = "prayer"
)

// AssignmentType is one entry of the fixed assignment catalogue
type AssignmentType struct {
	Code     string
	Category Category
	Role     Role
	Gender   GenderRequirement

	// Family groups codes for rotation recency. Empty means the code itself.
	Family string

	// Assistant types draw from the principal's assistant pool, not the roster
	Assistant bool

	// Synthetic types are filled by placeholders only (the visiting circuit overseer)
	Synthetic bool
}

// AllowsGenderOverride reports whether a caller may narrow the type to one gender.
// Assistant pools follow the principal, so they never take an override.
func (t AssignmentType) AllowsGenderOverride() bool {
	return t.Gender == GenderEither && !t.Assistant
}

// Meeting is the weekly meeting a slot belongs to
type Meeting string

const (
	MeetingMidweek Meeting = "midweek"
	MeetingWeekend Meeting = "weekend"
)

// Slot is one fillable position in a week's schedule
type Slot struct {
	Key     string
	Path    string
	Meeting Meeting

	// Code is the default assignment type. Student slots accept any code of the same category.
	Code string

	// Principal is the student slot an assistant slot pairs with
	Principal string

	// VisitingOverseer slots are taken by the circuit overseer during a visit week
	VisitingOverseer bool
}

// Catalog holds the assignment types and slots. It is immutable after New.
type Catalog struct {
	types     map[string]AssignmentType
	slots     map[string]Slot
	slotOrder []string
}

// New builds and checks a catalogue
func New(types []AssignmentType, slots []Slot) (*Catalog, error) {
	c := &Catalog{
		types:     make(map[string]AssignmentType, len(types)),
		slots:     make(map[string]Slot, len(slots)),
		slotOrder: make([]string, 0, len(slots)),
	}

	for _, t := range types {
		if t.Code == "" {
			return nil, fmt.Errorf("assignment type with empty code")
		}
		if _, exists := c.types[t.Code]; exists {
			return nil, fmt.Errorf("duplicate assignment type %s", t.Code)
		}
		if t.Family == "" {
			t.Family = t.Code
		}
		if t.Category == CategoryAssistantPart {
			t.Assistant = true
		}
		if t.Category == CategoryCircuitOverseer {
			t.Synthetic = true
		}
		c.types[t.Code] = t
	}

	for _, s := range slots {
		if _, exists := c.slots[s.Key]; exists {
			return nil, fmt.Errorf("duplicate slot %s", s.Key)
		}
		t, ok := c.types[s.Code]
		if !ok {
			return nil, fmt.Errorf("slot %s references unknown assignment type %s", s.Key, s.Code)
		}
		if t.Assistant && s.Principal == "" {
			return nil, fmt.Errorf("assistant slot %s has no principal", s.Key)
		}
		c.slots[s.Key] = s
		c.slotOrder = append(c.slotOrder, s.Key)
	}

	// Principals are checked once every slot is known
	for _, key := range c.slotOrder {
		s := c.slots[key]
		if s.Principal == "" {
			continue
		}
		principal, ok := c.slots[s.Principal]
		if !ok {
			return nil, fmt.Errorf("slot %s references unknown principal slot %s", s.Key, s.Principal)
		}
		if c.types[principal.Code].Assistant {
			return nil, fmt.Errorf("slot %s has an assistant slot as principal", s.Key)
		}
	}

	return c, nil
}

// MustNew is like New but panics on error
func MustNew(types []AssignmentType, slots []Slot) *Catalog {
	c, err := New(types, slots)
	if err != nil {
		panic(err)
	}
	return c
}

// Type looks up an assignment type by code
func (c *Catalog) Type(code string) (AssignmentType, error) {
	t, ok := c.types[code]
	if !ok {
		return AssignmentType{}, &model.ConfigurationError{Code: code}
	}
	return t, nil
}

// Slot looks up a slot by key
func (c *Catalog) Slot(key string) (Slot, error) {
	s, ok := c.slots[key]
	if !ok {
		return Slot{}, &model.ConfigurationError{Code: key, Detail: "no such slot"}
	}
	return s, nil
}

// TypeForSlot resolves the assignment type filling a slot. A non-empty override
// must belong to the same category as the slot's default type, and outside
// student parts to the same rotation family.
func (c *Catalog) TypeForSlot(key, override string) (Slot, AssignmentType, error) {
	s, err := c.Slot(key)
	if err != nil {
		return Slot{}, AssignmentType{}, err
	}

	def := c.types[s.Code]
	if override == "" || override == s.Code {
		return s, def, nil
	}

	t, err := c.Type(override)
	if err != nil {
		return Slot{}, AssignmentType{}, err
	}
	if t.Category != def.Category || (t.Category != CategoryStudentPart && t.Family != def.Family) {
		return Slot{}, AssignmentType{}, &model.ConfigurationError{
			Code:   override,
			Detail: fmt.Sprintf("not allowed in slot %s (expected %s)", key, def.Category),
		}
	}

	return s, t, nil
}

// FamilyOf returns the rotation family of a code. Unknown codes form their own family
// so that history rows written by older catalogues still rank consistently.
func (c *Catalog) FamilyOf(code string) string {
	if t, ok := c.types[code]; ok {
		return t.Family
	}
	return code
}

// Slots returns every slot in catalogue order
func (c *Catalog) Slots() []Slot {
	out := make([]Slot, 0, len(c.slotOrder))
	for _, key := range c.slotOrder {
		out = append(out, c.slots[key])
	}
	return out
}

// SlotsFor returns the slots of one meeting in catalogue order
func (c *Catalog) SlotsFor(meeting Meeting) []Slot {
	var out []Slot
	for _, key := range c.slotOrder {
		if s := c.slots[key]; s.Meeting == meeting {
			out = append(out, s)
		}
	}
	return out
}

// Codes returns all assignment codes, sorted
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.types))
	for code := range c.types {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CodesIn returns the codes of one category, sorted
func (c *Catalog) CodesIn(category Category) []string {
	var codes []string
	for code, t := range c.types {
		if t.Category == category {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
