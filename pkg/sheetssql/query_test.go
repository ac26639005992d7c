package sheetssql

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSheetsClient keeps sheets in memory
type mockSheetsClient struct {
	tables    map[string][][]interface{}
	created   []string
	titlesErr error
	appendErr error
}

func newMockSheetsClient() *mockSheetsClient {
	return &mockSheetsClient{tables: make(map[string][][]interface{})}
}

func (m *mockSheetsClient) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	name, cells, ranged := strings.Cut(sheetRange, "!")
	rows, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown sheet %s", name)
	}
	if ranged && cells == "A1:ZZ2" && len(rows) > 2 {
		return rows[:2], nil
	}
	return rows, nil
}

func (m *mockSheetsClient) AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.tables[sheetRange] = append(m.tables[sheetRange], values...)
	return nil
}

func (m *mockSheetsClient) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	m.created = append(m.created, sheetTitle)
	m.tables[sheetTitle] = [][]interface{}{}
	return int64(len(m.created)), nil
}

func (m *mockSheetsClient) SheetTitles(spreadsheetID string) ([]string, error) {
	if m.titlesErr != nil {
		return nil, m.titlesErr
	}
	titles := make([]string, 0, len(m.tables))
	for name := range m.tables {
		titles = append(titles, name)
	}
	return titles, nil
}

// day is a minimal text-encoded field type
type day struct {
	t time.Time
}

func (d day) MarshalText() ([]byte, error) {
	return []byte(d.t.Format("2006/01/02")), nil
}

func (d *day) UnmarshalText(text []byte) error {
	t, err := time.Parse("2006/01/02", string(text))
	if err != nil {
		return err
	}
	d.t = t
	return nil
}

func (d day) IsZero() bool {
	return d.t.IsZero()
}

type TestRecord struct {
	Name       string    `ssql_header:"name" ssql_type:"text"`
	Count      int       `ssql_header:"count" ssql_type:"int"`
	Active     bool      `ssql_header:"active" ssql_type:"bool"`
	Week       day       `ssql_header:"week" ssql_type:"date"`
	RecordedAt time.Time `ssql_header:"recorded_at" ssql_type:"timestamp"`
}

func newTestDB(t *testing.T) (*DB, *mockSheetsClient) {
	t.Helper()
	mock := newMockSheetsClient()
	schema, err := SchemaFromModels(TestRecord{})
	require.NoError(t, err)

	db, err := NewDB(mock, "sheet-1", schema)
	require.NoError(t, err)
	return db, mock
}

func TestSetFieldValue_Scalars(t *testing.T) {
	type S struct {
		Name  string
		Count int
		Size  uint
		Ratio float64
		On    bool
	}

	var s S
	v := reflect.ValueOf(&s).Elem()

	require.NoError(t, setFieldValue(v.Field(0), "test value"))
	require.NoError(t, setFieldValue(v.Field(1), "42"))
	require.NoError(t, setFieldValue(v.Field(2), "7"))
	require.NoError(t, setFieldValue(v.Field(3), "0.5"))
	require.NoError(t, setFieldValue(v.Field(4), "TRUE"))

	assert.Equal(t, S{Name: "test value", Count: 42, Size: 7, Ratio: 0.5, On: true}, s)

	require.NoError(t, setFieldValue(v.Field(1), ""))
	assert.Equal(t, 0, s.Count)
}

func TestSetFieldValue_Errors(t *testing.T) {
	type S struct {
		Count int
		On    bool
		Tags  []string
	}

	var s S
	v := reflect.ValueOf(&s).Elem()

	err := setFieldValue(v.Field(0), "not a number")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse int")

	err = setFieldValue(v.Field(1), "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse bool")

	err = setFieldValue(v.Field(2), "a,b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported field type")

	err = setFieldValue(v.Field(0), 42.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a string")
}

func TestSetFieldValue_TextUnmarshaler(t *testing.T) {
	var r TestRecord
	v := reflect.ValueOf(&r).Elem()

	require.NoError(t, setFieldValue(v.FieldByName("Week"), "2024/03/04"))
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), r.Week.t)

	require.NoError(t, setFieldValue(v.FieldByName("Week"), ""))
	assert.True(t, r.Week.IsZero())

	err := setFieldValue(v.FieldByName("Week"), "March")
	assert.Error(t, err)
}

func TestGetTableAs_ValidData(t *testing.T) {
	db, mock := newTestDB(t)
	mock.tables["test_record"] = append(mock.tables["test_record"],
		[]interface{}{"Alice", "30", "true", "2024/03/04", "2024-03-01T09:00:00Z"},
		[]interface{}{"", "", "", "", ""},
		[]interface{}{"Bob", "25"},
	)

	rows, err := GetTableAs[TestRecord](db, "test_record")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, 30, rows[0].Count)
	assert.True(t, rows[0].Active)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), rows[0].Week.t)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), rows[0].RecordedAt)

	// Short rows leave trailing fields zero
	assert.Equal(t, "Bob", rows[1].Name)
	assert.False(t, rows[1].Active)
	assert.True(t, rows[1].RecordedAt.IsZero())
}

func TestGetTableAs_EmptyTable(t *testing.T) {
	db, _ := newTestDB(t)

	rows, err := GetTableAs[TestRecord](db, "test_record")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetTableAs_BadCell(t *testing.T) {
	db, mock := newTestDB(t)
	mock.tables["test_record"] = append(mock.tables["test_record"],
		[]interface{}{"Alice", "thirty", "true", "2024/03/04", ""},
	)

	_, err := GetTableAs[TestRecord](db, "test_record")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3, column count")
}

func TestInsertModel_RoundTrip(t *testing.T) {
	db, mock := newTestDB(t)

	rec := TestRecord{
		Name:       "Carol",
		Count:      3,
		Week:       day{t: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		RecordedAt: time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC),
	}
	require.NoError(t, InsertModel(db, rec))

	rows := mock.tables["test_record"]
	require.Len(t, rows, 3)
	assert.Equal(t, []interface{}{"Carol", 3, false, "2024/03/11", "2024-03-02T10:30:00Z"}, rows[2])

	require.NoError(t, InsertModels(db, []TestRecord{{Name: "Dan"}, {Name: "Eve"}}))
	rows = mock.tables["test_record"]
	require.Len(t, rows, 5)
	// Zero text values are written as empty cells
	assert.Equal(t, []interface{}{"Dan", 0, false, "", ""}, rows[3])
}

func TestInsertModels_EmptyIsNoop(t *testing.T) {
	db, mock := newTestDB(t)
	mock.appendErr = errors.New("should not be called")

	assert.NoError(t, InsertModels(db, []TestRecord{}))
}
