package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/ledger"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

func d(s string) model.Date {
	return model.MustParseDate(s)
}

func person(id, name string) model.Person {
	return model.Person{ID: id, DisplayName: name, Gender: model.GenderMale}
}

func names(candidates []model.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.DisplayName()
	}
	return out
}

func speakerType(t *testing.T) catalog.AssignmentType {
	t.Helper()
	typ, err := catalog.Default().Type(catalog.CodeSpeaker)
	require.NoError(t, err)
	return typ
}

func TestRank_NeverAssignedFirst(t *testing.T) {
	l := ledger.New(catalog.Default(), model.AssignmentRecord{
		Week: d("2024/02/05"), Slot: "WM_Speaker_Part1", PersonID: "bob", Code: catalog.CodeSpeaker,
	})
	r := NewRanker(l, language.English)

	got := r.Rank([]model.Person{person("bob", "Bob"), person("carol", "Carol")}, speakerType(t), d("2024/03/04"))

	assert.Equal(t, []string{"Carol", "Bob"}, names(got))

	assert.Nil(t, got[0].LastAssigned)
	assert.Equal(t, NeverLabel, got[0].LastAssignedLabel)

	require.NotNil(t, got[1].LastAssigned)
	assert.Equal(t, "2024/02/05", got[1].LastAssigned.String())
	assert.Equal(t, 4, got[1].WeeksSince)
	assert.Equal(t, "2024/02/05 (4 wk)", got[1].LastAssignedLabel)
}

func TestRank_OldestFirstThenName(t *testing.T) {
	l := ledger.New(catalog.Default(),
		model.AssignmentRecord{Week: d("2024/02/19"), Slot: "WM_Speaker_Part1", PersonID: "a", Code: catalog.CodeSpeaker},
		model.AssignmentRecord{Week: d("2024/01/08"), Slot: "WM_Speaker_Part1", PersonID: "b", Code: catalog.CodeSpeaker},
		// Symposium shares the public talk family
		model.AssignmentRecord{Week: d("2024/01/08"), Slot: "WM_Speaker_Part2", PersonID: "c", Code: catalog.CodeSpeakerSymposium},
		// Assignments in other families do not count
		model.AssignmentRecord{Week: d("2024/02/26"), Slot: "WM_Chairman", PersonID: "e", Code: catalog.CodeWeekendChairman},
	)
	r := NewRanker(l, language.English)

	persons := []model.Person{
		person("a", "Aaron"),
		person("b", "zed"),
		person("c", "Ben"),
		person("e", "Eli"),
		person("f", "Ed"),
	}

	got := r.Rank(persons, speakerType(t), d("2024/03/04"))
	assert.Equal(t, []string{"Ed", "Eli", "Ben", "zed", "Aaron"}, names(got))
}

func TestRank_OnlyHistoryStrictlyBeforeWeek(t *testing.T) {
	l := ledger.New(catalog.Default(),
		model.AssignmentRecord{Week: d("2024/03/04"), Slot: "WM_Speaker_Part1", PersonID: "bob", Code: catalog.CodeSpeaker},
	)
	r := NewRanker(l, language.English)

	got := r.Rank([]model.Person{person("bob", "Bob")}, speakerType(t), d("2024/03/04"))
	require.Len(t, got, 1)
	assert.Nil(t, got[0].LastAssigned)
}

func TestRank_DeterministicAndIdempotent(t *testing.T) {
	l := ledger.New(catalog.Default())
	r := NewRanker(l, language.English)

	// Same display name, order falls to id
	persons := []model.Person{person("z", "Sam"), person("a", "Sam"), person("m", "sam")}

	first := r.Rank(persons, speakerType(t), d("2024/03/04"))
	second := r.Rank(persons, speakerType(t), d("2024/03/04"))

	assert.Equal(t, first, second)

	ids := []string{first[0].ID(), first[1].ID(), first[2].ID()}
	assert.Equal(t, []string{"a", "m", "z"}, ids)
}

func TestRank_StudentPartsCarryAssistantRecency(t *testing.T) {
	l := ledger.New(catalog.Default(),
		model.AssignmentRecord{Week: d("2024/02/12"), Slot: "MM_AYFPart1_Assistant_A", PersonID: "sue", Code: catalog.CodeAssistant},
		model.AssignmentRecord{Week: d("2024/01/15"), Slot: "MM_AYFPart2_Student_A", PersonID: "sue", Code: catalog.CodeFollowingUp},
	)
	r := NewRanker(l, language.English)

	typ, err := catalog.Default().Type(catalog.CodeStartingConversation)
	require.NoError(t, err)

	got := r.Rank([]model.Person{person("sue", "Sue"), person("ann", "Ann")}, typ, d("2024/03/04"))
	require.Len(t, got, 2)

	assert.Equal(t, "Ann", got[0].DisplayName())
	assert.Equal(t, NeverLabel, got[0].LastAssistantLabel)

	sue := got[1]
	require.NotNil(t, sue.LastAssigned)
	assert.Equal(t, "2024/01/15", sue.LastAssigned.String())
	require.NotNil(t, sue.LastAssistant)
	assert.Equal(t, "2024/02/12 (3 wk)", sue.LastAssistantLabel)
}

func TestRank_Empty(t *testing.T) {
	r := NewRanker(ledger.New(catalog.Default()), language.English)

	got := r.Rank(nil, speakerType(t), d("2024/03/04"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
