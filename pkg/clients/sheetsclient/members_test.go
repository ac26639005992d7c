package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

var memberHeader = []interface{}{"Unique ID", "First name", "Last name", "Sex/Gender", "Display name", "Assistant", "Archived"}

func TestParseMembers(t *testing.T) {
	raw := [][]interface{}{
		memberHeader,
		{"p1", "Bob", "Smith", "Male", "", "", ""},
		{"p2", "Jane", "Doe", "F", "Janey", "TRUE", "FALSE"},
		{"", "", "", "", "", "", ""},
		{"p3", "Amy", "Lee", "sister", "", "yes", "x"},
		{"p4", "Carl", "Jones", "brother"},
	}

	members, err := parseMembers(raw)
	require.NoError(t, err)
	require.Len(t, members, 4)

	assert.Equal(t, "p1", members[0].ID)
	assert.Equal(t, model.GenderMale, members[0].Gender)
	assert.False(t, members[0].AssistantEligible)

	assert.Equal(t, "Janey", members[1].DisplayName)
	assert.Equal(t, model.GenderFemale, members[1].Gender)
	assert.True(t, members[1].AssistantEligible)
	assert.False(t, members[1].Archived)

	assert.True(t, members[2].Archived)
	assert.Equal(t, "Jones", members[3].LastName)
}

func TestParseMembers_OptionalColumnsAbsent(t *testing.T) {
	raw := [][]interface{}{
		{"Sex/Gender", "Last name", "First name", "Unique ID"},
		{"M", "Smith", "Bob", "p1"},
	}

	members, err := parseMembers(raw)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Bob", members[0].FirstName)
	assert.Equal(t, "p1", members[0].ID)
	assert.Empty(t, members[0].DisplayName)
}

func TestParseMembers_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     [][]interface{}
		wantErr string
	}{
		{
			name:    "no header",
			raw:     [][]interface{}{},
			wantErr: "no header row found",
		},
		{
			name:    "missing gender column",
			raw:     [][]interface{}{{"Unique ID", "First name", "Last name"}},
			wantErr: "missing required field in header: Sex/Gender",
		},
		{
			name:    "missing id",
			raw:     [][]interface{}{memberHeader, {"", "Bob", "Smith", "M"}},
			wantErr: "missing unique id for member in row 2",
		},
		{
			name:    "invalid gender",
			raw:     [][]interface{}{memberHeader, {"p1", "Bob", "Smith", "M"}, {"p2", "Sam", "Lee", "?"}},
			wantErr: "invalid gender for member in row 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMembers(tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestComputeDisplayNames(t *testing.T) {
	members := []model.Person{
		{ID: "1", FirstName: "Bob", LastName: "Smith"},
		{ID: "2", FirstName: "John", LastName: "Smith"},
		{ID: "3", FirstName: "John", LastName: "Taylor"},
		{ID: "4", FirstName: "Amy", LastName: "Lee"},
		{ID: "5", FirstName: "Amy", LastName: "Long"},
		{ID: "6", FirstName: "Sam", LastName: "Ng", DisplayName: "Sammy"},
		{ID: "7", FirstName: "Sam", LastName: "Nash"},
		{ID: "8", FirstName: "Zoë", LastName: "Ørsted"},
	}

	ComputeDisplayNames(members)

	assert.Equal(t, "Bob", members[0].DisplayName)
	assert.Equal(t, "John S.", members[1].DisplayName)
	assert.Equal(t, "John T.", members[2].DisplayName)
	assert.Equal(t, "Amy Lee", members[3].DisplayName)
	assert.Equal(t, "Amy Long", members[4].DisplayName)
	assert.Equal(t, "Sammy", members[5].DisplayName)
	assert.Equal(t, "Sam Nash", members[6].DisplayName)
	assert.Equal(t, "Zoë", members[7].DisplayName)
}
