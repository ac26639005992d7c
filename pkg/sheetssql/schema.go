package sheetssql

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Column types understood by the row mapper
var columnTypes = map[string]bool{
	"text":      true,
	"uuid":      true,
	"date":      true,
	"timestamp": true,
	"bool":      true,
	"int":       true,
}

// SchemaFromModels builds a Schema by reflecting on struct definitions.
// Each struct is a table named after the struct in snake_case. Every field
// needs `ssql_header:"column_name"` and `ssql_type:"column_type"` tags.
func SchemaFromModels(models ...interface{}) (*Schema, error) {
	tables := make([]TableSchema, 0, len(models))
	seen := make(map[string]bool)

	for _, model := range models {
		table, err := tableSchemaFromModel(model)
		if err != nil {
			return nil, err
		}
		if seen[table.Name] {
			return nil, fmt.Errorf("table %s defined twice", table.Name)
		}
		seen[table.Name] = true
		tables = append(tables, table)
	}

	return &Schema{Tables: tables}, nil
}

func tableSchemaFromModel(model interface{}) (TableSchema, error) {
	t := reflect.TypeOf(model)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return TableSchema{}, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}

	columns := make([]Column, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		header := field.Tag.Get("ssql_header")
		if header == "" {
			return TableSchema{}, fmt.Errorf("field %s.%s missing 'ssql_header' tag", t.Name(), field.Name)
		}

		colType := field.Tag.Get("ssql_type")
		if colType == "" {
			return TableSchema{}, fmt.Errorf("field %s.%s missing 'ssql_type' tag", t.Name(), field.Name)
		}
		if !columnTypes[colType] {
			return TableSchema{}, fmt.Errorf("field %s.%s has unknown column type %q", t.Name(), field.Name, colType)
		}

		columns = append(columns, Column{Name: header, Type: colType})
	}

	if len(columns) == 0 {
		return TableSchema{}, fmt.Errorf("struct %s has no fields", t.Name())
	}

	return TableSchema{
		Name:    TableName(t),
		Columns: columns,
	}, nil
}

// TableName is the sheet title used for a model type
func TableName(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return toSnakeCase(t.Name())
}

// toSnakeCase converts PascalCase to snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

// ensureSchema verifies every table in the schema and creates the missing ones
func (db *DB) ensureSchema() error {
	existing, err := db.client.SheetTitles(db.spreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to get existing sheets: %w", err)
	}

	sheetSet := make(map[string]bool, len(existing))
	for _, title := range existing {
		sheetSet[title] = true
	}

	for _, table := range db.schema.Tables {
		if sheetSet[table.Name] {
			if err := db.verifyTableSchema(table); err != nil {
				return fmt.Errorf("table %s schema mismatch: %w", table.Name, err)
			}
			continue
		}

		if err := db.createTable(table); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
	}

	return nil
}

// verifyTableSchema checks that a table's header and type rows match the
// schema and reports every mismatched column at once
func (db *DB) verifyTableSchema(table TableSchema) error {
	values, err := db.client.GetValues(db.spreadsheetID, fmt.Sprintf("%s!A1:ZZ2", table.Name))
	if err != nil {
		return fmt.Errorf("failed to read table headers: %w", err)
	}

	if len(values) < 2 {
		return fmt.Errorf("table missing header or type row")
	}

	headers := values[0]
	types := values[1]

	if len(headers) != len(table.Columns) {
		return fmt.Errorf("expected %d columns, found %d", len(table.Columns), len(headers))
	}

	var errs []error
	for i, col := range table.Columns {
		if header, ok := headers[i].(string); !ok || header != col.Name {
			errs = append(errs, fmt.Errorf("column %d: expected header '%s', got '%v'", i, col.Name, headers[i]))
			continue
		}

		if i >= len(types) {
			errs = append(errs, fmt.Errorf("missing type for column %s", col.Name))
			continue
		}

		if colType, ok := types[i].(string); !ok || colType != col.Type {
			errs = append(errs, fmt.Errorf("column %d (%s): expected type '%s', got '%v'", i, col.Name, col.Type, types[i]))
		}
	}

	return errors.Join(errs...)
}

// createTable creates a new sheet with header and type rows
func (db *DB) createTable(table TableSchema) error {
	if _, err := db.client.CreateSheet(db.spreadsheetID, table.Name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := make([]interface{}, len(table.Columns))
	types := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Name
		types[i] = col.Type
	}

	if err := db.client.AppendRows(db.spreadsheetID, table.Name, [][]interface{}{headers, types}); err != nil {
		return fmt.Errorf("failed to write headers and types: %w", err)
	}

	return nil
}
