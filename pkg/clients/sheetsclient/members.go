package sheetsclient

import (
	"fmt"
	"strings"

	"github.com/jakechorley/meeting-assignments/internal/config"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// Column names in the members tab
const (
	colID          = "Unique ID"
	colFirstName   = "First name"
	colLastName    = "Last name"
	colGender      = "Sex/Gender"
	colDisplayName = "Display name"
	colAssistant   = "Assistant"
	colArchived    = "Archived"
)

var requiredMemberFields = []string{colID, colFirstName, colLastName, colGender}

// ListMembers retrieves and parses members from the configured spreadsheet.
// Statuses and time away are held in the database and are not set here.
func (c *Client) ListMembers(cfg *config.Config) ([]model.Person, error) {
	values, err := c.GetValues(cfg.MembersSheetID, cfg.MembersTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get member data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	members, err := parseMembers(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse members: %w", err)
	}

	ComputeDisplayNames(members)

	return members, nil
}

// ComputeDisplayNames fills in blank display names, keeping them unique across
// the roster:
// - If first name is unique: use first name only
// - If first name + first letter of surname is unique: use "FirstName L."
// - Otherwise: use full name "FirstName LastName"
// Names already set in the sheet are left alone.
func ComputeDisplayNames(members []model.Person) {
	firstNameCounts := make(map[string]int)
	initialCounts := make(map[string]int)
	for _, m := range members {
		firstNameCounts[m.FirstName]++
		if key, ok := nameWithInitial(m); ok {
			initialCounts[key]++
		}
	}

	for i := range members {
		m := &members[i]
		if m.DisplayName != "" {
			continue
		}

		if firstNameCounts[m.FirstName] == 1 {
			m.DisplayName = m.FirstName
			continue
		}

		if key, ok := nameWithInitial(*m); ok && initialCounts[key] == 1 {
			m.DisplayName = key
			continue
		}

		m.DisplayName = strings.TrimSpace(m.FirstName + " " + m.LastName)
	}
}

func nameWithInitial(m model.Person) (string, bool) {
	if m.LastName == "" {
		return "", false
	}
	initial := []rune(m.LastName)[0]
	return m.FirstName + " " + string(initial) + ".", true
}

// parseMembers converts raw spreadsheet data into persons
func parseMembers(raw [][]interface{}) ([]model.Person, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	headerRow := raw[0]
	for i, cell := range headerRow {
		if name, ok := cell.(string); ok {
			fieldIndexes[strings.TrimSpace(name)] = i
		}
	}

	for _, field := range requiredMemberFields {
		if _, ok := fieldIndexes[field]; !ok {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return strings.TrimSpace(str)
		}
		return ""
	}

	members := make([]model.Person, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		firstName := getField(colFirstName, row)
		// Skip empty rows (rows with no first name)
		if firstName == "" {
			continue
		}

		// Sheet rows are 1-indexed and the header is row 1
		rowNum := i + 1

		id := getField(colID, row)
		if id == "" {
			return nil, fmt.Errorf("missing unique id for member in row %d", rowNum)
		}

		gender, ok := model.ParseGender(getField(colGender, row))
		if !ok {
			return nil, fmt.Errorf("invalid gender for member in row %d", rowNum)
		}

		members = append(members, model.Person{
			ID:                id,
			FirstName:         firstName,
			LastName:          getField(colLastName, row),
			DisplayName:       getField(colDisplayName, row),
			Gender:            gender,
			AssistantEligible: parseBool(getField(colAssistant, row)),
			Archived:          parseBool(getField(colArchived, row)),
		})
	}

	return members, nil
}

// parseBool reads the checkbox and yes/no spellings used in member sheets
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "x", "1":
		return true
	}
	return false
}
