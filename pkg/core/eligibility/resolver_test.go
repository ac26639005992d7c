package eligibility

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/meeting-assignments/pkg/core/availability"
	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/directory"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

func d(s string) model.Date {
	return model.MustParseDate(s)
}

func dp(s string) *model.Date {
	v := model.MustParseDate(s)
	return &v
}

func since(status model.Status, start string) model.StatusPeriod {
	return model.StatusPeriod{Status: status, Period: model.Period{Start: d(start)}}
}

func member(id string, gender model.Gender, statuses ...model.Status) model.Person {
	p := model.Person{ID: id, FirstName: id, Gender: gender}
	for _, s := range statuses {
		p.Statuses = append(p.Statuses, since(s, "2015/01/01"))
	}
	return p
}

func ids(persons []model.Person) []string {
	out := make([]string, len(persons))
	for i, p := range persons {
		out[i] = p.ID
	}
	return out
}

func newResolver(t *testing.T, persons []model.Person, pairs []model.AssistantPair) *Resolver {
	t.Helper()
	dir, err := directory.New(persons, pairs)
	require.NoError(t, err)
	return NewResolver(catalog.Default(), dir, availability.ModeAll)
}

func TestResolve_WeekendChairmanScenario(t *testing.T) {
	alice := member("alice", model.GenderFemale, model.StatusUnbaptizedPublisher)
	bob := member("bob", model.GenderMale, model.StatusBaptizedPublisher, model.StatusElder)

	r := newResolver(t, []model.Person{alice, bob}, nil)

	got, err := r.Resolve(Request{Code: "WM_Chairman", Week: d("2024/03/04")})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, ids(got))

	vetoes, err := r.Explain(Request{Code: "WM_Chairman", Week: d("2024/03/04")}, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Role", "Gender"}, vetoes)
}

func TestResolve_UnknownCode(t *testing.T) {
	r := newResolver(t, nil, nil)

	_, err := r.Resolve(Request{Code: "WM_Juggler", Week: d("2024/03/04")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnknownAssignment))
}

func TestResolve_EmptyIsNotAnError(t *testing.T) {
	r := newResolver(t, []model.Person{member("alice", model.GenderFemale, model.StatusUnbaptizedPublisher)}, nil)

	got, err := r.Resolve(Request{Code: catalog.CodeWatchtowerConductor, Week: d("2024/03/04")})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolve_RemovesUnavailable(t *testing.T) {
	bob := member("bob", model.GenderMale, model.StatusBaptizedPublisher, model.StatusElder)
	bob.TimeAway = []model.TimeAway{{ID: "t1", Start: d("2024/03/01"), End: dp("2024/03/10")}}
	dave := member("dave", model.GenderMale, model.StatusBaptizedPublisher, model.StatusElder)

	r := newResolver(t, []model.Person{bob, dave}, nil)

	got, err := r.Resolve(Request{Code: catalog.CodeWeekendChairman, Week: d("2024/03/04")})
	require.NoError(t, err)
	assert.Equal(t, []string{"dave"}, ids(got))

	got, err = r.Resolve(Request{Code: catalog.CodeWeekendChairman, Week: d("2024/03/11")})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "dave"}, ids(got))

	vetoes, err := r.Explain(Request{Code: catalog.CodeWeekendChairman, Week: d("2024/03/04")}, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"Availability"}, vetoes)
}

func TestResolve_GenderOverride(t *testing.T) {
	sister := member("sister", model.GenderFemale, model.StatusBaptizedPublisher, model.StatusEnrolled)
	brother := member("brother", model.GenderMale, model.StatusBaptizedPublisher, model.StatusEnrolled)

	r := newResolver(t, []model.Person{sister, brother}, nil)
	week := d("2024/03/04")

	tests := []struct {
		name     string
		code     string
		override model.Gender
		want     []string
	}{
		{"either without override", catalog.CodeStartingConversation, "", []string{"sister", "brother"}},
		{"either narrowed to female", catalog.CodeStartingConversation, model.GenderFemale, []string{"sister"}},
		{"either narrowed to male", catalog.CodeStartingConversation, model.GenderMale, []string{"brother"}},
		{"male-only ignores override", catalog.CodeBibleReading, model.GenderFemale, []string{"brother"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(Request{Code: tt.code, Week: week, GenderOverride: tt.override})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestResolve_AssistantUsesPrincipalPool(t *testing.T) {
	student := member("student", model.GenderFemale, model.StatusUnbaptizedPublisher, model.StatusEnrolled)
	paired := member("paired", model.GenderFemale, model.StatusBaptizedPublisher)
	away := member("away", model.GenderFemale, model.StatusBaptizedPublisher)
	away.TimeAway = []model.TimeAway{{ID: "t1", Start: d("2024/01/01")}}
	stranger := member("stranger", model.GenderFemale, model.StatusBaptizedPublisher)
	stranger.AssistantEligible = true

	r := newResolver(t, []model.Person{student, paired, away, stranger}, []model.AssistantPair{
		{PrincipalID: "student", AssistantID: "paired"},
		{PrincipalID: "student", AssistantID: "away"},
	})

	got, err := r.Resolve(Request{Code: catalog.CodeAssistant, Week: d("2024/03/04"), PrincipalID: "student"})
	require.NoError(t, err)
	assert.Equal(t, []string{"paired"}, ids(got))

	// The pool follows the principal, a gender override does not narrow it
	got, err = r.Resolve(Request{Code: catalog.CodeAssistant, Week: d("2024/03/04"), PrincipalID: "student", GenderOverride: model.GenderMale})
	require.NoError(t, err)
	assert.Equal(t, []string{"paired"}, ids(got))

	// Without a principal there is nobody to pair with
	got, err = r.Resolve(Request{Code: catalog.CodeAssistant, Week: d("2024/03/04")})
	require.NoError(t, err)
	assert.Empty(t, got)

	vetoes, err := r.Explain(Request{Code: catalog.CodeAssistant, Week: d("2024/03/04"), PrincipalID: "student"}, "stranger")
	require.NoError(t, err)
	assert.Equal(t, []string{"AssistantPool"}, vetoes)
}

func TestResolve_SyntheticTypeHasNoRosterCandidates(t *testing.T) {
	bob := member("bob", model.GenderMale, model.StatusBaptizedPublisher, model.StatusElder)
	r := newResolver(t, []model.Person{bob}, nil)

	got, err := r.Resolve(Request{Code: catalog.CodeWeekendOverseer, Week: d("2024/03/04")})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_AnyModeKeepsPartiallyAway(t *testing.T) {
	bob := member("bob", model.GenderMale, model.StatusBaptizedPublisher, model.StatusElder)
	bob.TimeAway = []model.TimeAway{
		{ID: "t1", Start: d("2024/03/01"), End: dp("2024/03/31")},
		{ID: "t2", Start: d("2024/06/01"), End: dp("2024/06/30")},
	}

	dir, err := directory.New([]model.Person{bob}, nil)
	require.NoError(t, err)

	strict := NewResolver(catalog.Default(), dir, availability.ModeAll)
	lenient := NewResolver(catalog.Default(), dir, availability.ModeAny)

	req := Request{Code: catalog.CodeWeekendChairman, Week: d("2024/03/11")}

	got, err := strict.Resolve(req)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = lenient.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, ids(got))
}

func TestExplain_UnknownPerson(t *testing.T) {
	r := newResolver(t, nil, nil)

	vetoes, err := r.Explain(Request{Code: catalog.CodeWeekendChairman, Week: d("2024/03/04")}, "ghost")
	require.NoError(t, err)
	assert.Equal(t, []string{"NotFound"}, vetoes)
}

func TestEffectiveGender(t *testing.T) {
	c := catalog.Default()

	either, err := c.Type(catalog.CodeFollowingUp)
	require.NoError(t, err)
	male, err := c.Type(catalog.CodeSpeaker)
	require.NoError(t, err)

	assert.Equal(t, catalog.GenderEither, EffectiveGender(either, ""))
	assert.Equal(t, catalog.GenderFemale, EffectiveGender(either, model.GenderFemale))
	assert.Equal(t, catalog.GenderMale, EffectiveGender(male, model.GenderFemale))

	assistant, err := c.Type(catalog.CodeAssistant)
	require.NoError(t, err)
	assert.Equal(t, catalog.GenderEither, EffectiveGender(assistant, model.GenderMale))
}
