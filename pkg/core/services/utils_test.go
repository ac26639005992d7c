package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/meeting-assignments/internal/config"
	"github.com/jakechorley/meeting-assignments/pkg/core/assembly"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

// mockRoster implements RosterSource
type mockRoster struct {
	members []model.Person
	err     error
}

func (m *mockRoster) ListMembers(cfg *config.Config) ([]model.Person, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.members, nil
}

// mockDB implements db.ScheduleStore
type mockDB struct {
	statuses    []db.StatusPeriod
	aways       []db.TimeAway
	pairs       []db.AssistantPair
	assignments []db.Assignment

	insertedAways []*db.TimeAway
	saved         []*db.Assignment

	getStatusesErr    error
	getAwaysErr       error
	getPairsErr       error
	getAssignmentsErr error
	insertAwayErr     error
	saveErr           error
}

func (m *mockDB) GetStatusPeriods(ctx context.Context) ([]db.StatusPeriod, error) {
	if m.getStatusesErr != nil {
		return nil, m.getStatusesErr
	}
	return m.statuses, nil
}

func (m *mockDB) GetTimeAways(ctx context.Context) ([]db.TimeAway, error) {
	if m.getAwaysErr != nil {
		return nil, m.getAwaysErr
	}
	return m.aways, nil
}

func (m *mockDB) GetAssistantPairs(ctx context.Context) ([]db.AssistantPair, error) {
	if m.getPairsErr != nil {
		return nil, m.getPairsErr
	}
	return m.pairs, nil
}

func (m *mockDB) InsertTimeAway(ctx context.Context, away *db.TimeAway) error {
	if m.insertAwayErr != nil {
		return m.insertAwayErr
	}
	m.insertedAways = append(m.insertedAways, away)
	return nil
}

func (m *mockDB) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	if m.getAssignmentsErr != nil {
		return nil, m.getAssignmentsErr
	}
	return m.assignments, nil
}

func (m *mockDB) SaveAssignment(ctx context.Context, assignment *db.Assignment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, assignment)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		MembersSheetID:   "members",
		MembersTab:       "Members",
		DatabaseSheetID:  "db",
		MidweekRRule:     "FREQ=WEEKLY;BYDAY=WE",
		WeekendRRule:     "FREQ=WEEKLY;BYDAY=SU",
		AvailabilityMode: "all",
		Locale:           "en",
	}
}

func testMembers() []model.Person {
	return []model.Person{
		{ID: "bob", FirstName: "Bob", LastName: "Smith", DisplayName: "Bob", Gender: model.GenderMale},
		{ID: "carl", FirstName: "Carl", LastName: "Jones", DisplayName: "Carl", Gender: model.GenderMale},
		{ID: "jane", FirstName: "Jane", LastName: "Doe", DisplayName: "Jane", Gender: model.GenderFemale},
		{ID: "amy", FirstName: "Amy", LastName: "Lee", DisplayName: "Amy", Gender: model.GenderFemale, AssistantEligible: true},
	}
}

func status(id, personID string, s model.Status) db.StatusPeriod {
	return db.StatusPeriod{ID: id, PersonID: personID, Status: string(s), Start: "2015/01/01"}
}

func testDB() *mockDB {
	return &mockDB{
		statuses: []db.StatusPeriod{
			status("s1", "bob", model.StatusBaptizedPublisher),
			status("s2", "bob", model.StatusElder),
			status("s3", "carl", model.StatusBaptizedPublisher),
			status("s4", "carl", model.StatusElder),
			status("s5", "jane", model.StatusBaptizedPublisher),
			status("s6", "jane", model.StatusEnrolled),
			status("s7", "amy", model.StatusBaptizedPublisher),
		},
		pairs: []db.AssistantPair{{ID: "p1", PrincipalID: "jane", AssistantID: "amy"}},
	}
}

func loadTestAssembler(t *testing.T, store *mockDB) *assembly.Assembler {
	t.Helper()
	asm, err := LoadAssembler(context.Background(), &mockRoster{members: testMembers()}, store, store, testConfig(), zap.NewNop())
	require.NoError(t, err)
	return asm
}

func d(s string) model.Date {
	return model.MustParseDate(s)
}
