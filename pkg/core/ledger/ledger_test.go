package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

func d(s string) model.Date {
	return model.MustParseDate(s)
}

func rec(week, slot, person, code string) model.AssignmentRecord {
	return model.AssignmentRecord{Week: d(week), Slot: slot, PersonID: person, Code: code}
}

func newLedger(records ...model.AssignmentRecord) *Ledger {
	return New(catalog.Default(), records...)
}

func TestRecord_IdempotentUpsert(t *testing.T) {
	l := newLedger()

	replaced, err := l.Record(rec("2024/03/04", "WM_Chairman", "bob", catalog.CodeWeekendChairman))
	require.NoError(t, err)
	assert.Nil(t, replaced)

	// Same input again changes nothing
	replaced, err = l.Record(rec("2024/03/04", "WM_Chairman", "bob", catalog.CodeWeekendChairman))
	require.NoError(t, err)
	assert.Nil(t, replaced)
	assert.Equal(t, 1, l.Len())

	// A different person replaces the live record
	replaced, err = l.Record(rec("2024/03/04", "WM_Chairman", "dave", catalog.CodeWeekendChairman))
	require.NoError(t, err)
	require.NotNil(t, replaced)
	assert.Equal(t, "bob", replaced.PersonID)
	assert.Equal(t, 1, l.Len())

	live, ok := l.Get(d("2024/03/04"), "WM_Chairman")
	require.True(t, ok)
	assert.Equal(t, "dave", live.PersonID)

	// The superseded assignment no longer counts for rotation
	_, found := l.LastAssignment("bob", catalog.CodeWeekendChairman, d("2024/04/01"))
	assert.False(t, found)
}

func TestRecord_NormalisesWeekToMonday(t *testing.T) {
	l := newLedger()

	_, err := l.Record(rec("2024/03/10", "WM_Chairman", "bob", catalog.CodeWeekendChairman))
	require.NoError(t, err)

	live, ok := l.Get(d("2024/03/04"), "WM_Chairman")
	require.True(t, ok)
	assert.Equal(t, "2024/03/04", live.Week.String())
	assert.Len(t, l.RecordsForWeek(d("2024/03/06")), 1)
}

func TestRecord_RejectsIncompleteRecords(t *testing.T) {
	l := newLedger()

	_, err := l.Record(model.AssignmentRecord{Week: d("2024/03/04"), PersonID: "bob"})
	assert.Error(t, err)

	_, err = l.Record(model.AssignmentRecord{Slot: "WM_Chairman", PersonID: "bob"})
	assert.Error(t, err)

	_, err = l.Record(model.AssignmentRecord{Week: d("2024/03/04"), Slot: "WM_Chairman"})
	assert.Error(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestClear(t *testing.T) {
	l := newLedger(rec("2024/03/04", "WM_Chairman", "bob", catalog.CodeWeekendChairman))

	prev, ok := l.Clear(d("2024/03/04"), "WM_Chairman")
	require.True(t, ok)
	assert.Equal(t, "bob", prev.PersonID)
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.RecordsForWeek(d("2024/03/04")))
	assert.Empty(t, l.RecordsForPerson("bob"))

	_, ok = l.Clear(d("2024/03/04"), "WM_Chairman")
	assert.False(t, ok)
}

func TestRecordsForWeek_SortedBySlot(t *testing.T) {
	l := newLedger(
		rec("2024/03/04", "WM_Speaker_Part1", "bob", catalog.CodeSpeaker),
		rec("2024/03/04", "WM_Chairman", "dave", catalog.CodeWeekendChairman),
		rec("2024/03/11", "WM_Chairman", "bob", catalog.CodeWeekendChairman),
	)

	got := l.RecordsForWeek(d("2024/03/04"))
	require.Len(t, got, 2)
	assert.Equal(t, "WM_Chairman", got[0].Slot)
	assert.Equal(t, "WM_Speaker_Part1", got[1].Slot)

	assert.Empty(t, l.RecordsForWeek(d("2025/01/06")))
}

func TestLastAssignment_StrictlyBeforeAndByFamily(t *testing.T) {
	l := newLedger(
		rec("2024/02/05", "WM_Speaker_Part1", "bob", catalog.CodeSpeaker),
		rec("2024/02/19", "WM_Speaker_Part2", "bob", catalog.CodeSpeakerSymposium),
		rec("2024/03/04", "WM_Speaker_Part1", "bob", catalog.CodeSpeaker),
		rec("2024/02/26", "WM_Chairman", "bob", catalog.CodeWeekendChairman),
	)

	last, ok := l.LastAssignment("bob", catalog.FamilyPublicTalk, d("2024/03/04"))
	require.True(t, ok)
	// Symposium shares the public talk family; the 2024/03/04 talk is not strictly before
	assert.Equal(t, "2024/02/19", last.String())

	last, ok = l.LastAssignment("bob", catalog.CodeWeekendChairman, d("2024/03/04"))
	require.True(t, ok)
	assert.Equal(t, "2024/02/26", last.String())

	_, ok = l.LastAssignment("bob", catalog.FamilyPublicTalk, d("2024/02/05"))
	assert.False(t, ok)

	_, ok = l.LastAssignment("ghost", catalog.FamilyPublicTalk, d("2024/03/04"))
	assert.False(t, ok)
}

func TestLoad_LatestRowWins(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := []model.AssignmentRecord{
		{Week: d("2024/03/04"), Slot: "WM_Chairman", PersonID: "bob", Code: catalog.CodeWeekendChairman, RecordedAt: base},
		{Week: d("2024/03/04"), Slot: "WM_Chairman", PersonID: "dave", Code: catalog.CodeWeekendChairman, RecordedAt: base.Add(time.Hour)},
		{Week: d("2024/03/11"), Slot: "WM_Chairman", PersonID: "bob", Code: catalog.CodeWeekendChairman, RecordedAt: base},
		// Cleared later
		{Week: d("2024/03/11"), Slot: "WM_Chairman", PersonID: "", RecordedAt: base.Add(time.Hour)},
		// Older row arriving out of order is ignored
		{Week: d("2024/03/04"), Slot: "WM_Chairman", PersonID: "erin", Code: catalog.CodeWeekendChairman, RecordedAt: base.Add(-time.Hour)},
	}

	l := newLedger(rows...)

	assert.Equal(t, 1, l.Len())
	live, ok := l.Get(d("2024/03/04"), "WM_Chairman")
	require.True(t, ok)
	assert.Equal(t, "dave", live.PersonID)

	_, ok = l.Get(d("2024/03/11"), "WM_Chairman")
	assert.False(t, ok)
}

func TestRecordsForPerson(t *testing.T) {
	l := newLedger(
		rec("2024/03/11", "WM_Chairman", "bob", catalog.CodeWeekendChairman),
		rec("2024/03/04", "MM_OpeningPrayer", "bob", catalog.CodeMidweekPrayer),
		rec("2024/03/04", "WM_Chairman", "dave", catalog.CodeWeekendChairman),
	)

	got := l.RecordsForPerson("bob")
	require.Len(t, got, 2)
	assert.Equal(t, "2024/03/04", got[0].Week.String())
	assert.Equal(t, "2024/03/11", got[1].Week.String())

	all := l.All()
	require.Len(t, all, 3)
	assert.Equal(t, "MM_OpeningPrayer", all[0].Slot)
}

func TestLedger_ConcurrentReadersAndWriters(t *testing.T) {
	l := newLedger()
	week := d("2024/03/04")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			slot := fmt.Sprintf("slot-%d", i)
			_, err := l.Record(model.AssignmentRecord{Week: week, Slot: slot, PersonID: "bob", Code: catalog.CodeMidweekPrayer})
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			l.RecordsForWeek(week)
			l.LastAssignment("bob", catalog.FamilyPrayer, week.AddWeeks(1))
		}()
	}
	wg.Wait()

	assert.Len(t, l.RecordsForWeek(week), 8)
	last, ok := l.LastAssignment("bob", catalog.FamilyPrayer, week.AddWeeks(1))
	require.True(t, ok)
	assert.True(t, last.Equal(week))
}

func TestNew_NilFamiliesUsesCode(t *testing.T) {
	l := New(nil, rec("2024/03/04", "X", "bob", "custom"))

	_, ok := l.LastAssignment("bob", "custom", d("2024/03/11"))
	assert.True(t, ok)
}
