package sheetssql

import (
	"fmt"
)

// SheetsClient defines the sheets operations the database needs
type SheetsClient interface {
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
	AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error
	CreateSheet(spreadsheetID, sheetTitle string) (int64, error)
	SheetTitles(spreadsheetID string) ([]string, error)
}

// Column defines a column with name and type
type Column struct {
	Name string
	Type string // e.g., "text", "date", "timestamp", "bool", "uuid"
}

// TableSchema defines the structure of a table
type TableSchema struct {
	Name    string
	Columns []Column
}

// Schema defines the database schema
type Schema struct {
	Tables []TableSchema
}

// Table returns the schema of the named table
func (s *Schema) Table(name string) (TableSchema, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSchema{}, false
}

// DB represents a connection to a Google Sheets "database"
type DB struct {
	client        SheetsClient
	spreadsheetID string
	schema        *Schema
}

// NewDB creates a new Sheets SQL database connection and ensures schema exists
func NewDB(client SheetsClient, spreadsheetID string, schema *Schema) (*DB, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if schema == nil || len(schema.Tables) == 0 {
		return nil, fmt.Errorf("schema has no tables")
	}

	db := &DB{
		client:        client,
		spreadsheetID: spreadsheetID,
		schema:        schema,
	}

	if err := db.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// InsertRow appends a single row to the specified table
func (db *DB) InsertRow(tableName string, row []interface{}) error {
	return db.client.AppendRows(db.spreadsheetID, tableName, [][]interface{}{row})
}

// InsertRows appends multiple rows to the specified table
func (db *DB) InsertRows(tableName string, rows [][]interface{}) error {
	return db.client.AppendRows(db.spreadsheetID, tableName, rows)
}
