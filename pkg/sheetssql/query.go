package sheetssql

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// GetTableAs retrieves all rows from a table and maps them to structs of type T.
// The first two rows (headers and types) are skipped.
func GetTableAs[T any](db *DB, tableName string) ([]T, error) {
	values, err := db.client.GetValues(db.spreadsheetID, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
	}

	if len(values) < 3 {
		// Need at least headers, types, and one data row
		return []T{}, nil
	}

	headers := values[0]
	dataRows := values[2:]

	var model T
	t := reflect.TypeOf(model)

	columnIndexes := make(map[string]int)
	for i, header := range headers {
		if headerStr, ok := header.(string); ok {
			columnIndexes[headerStr] = i
		}
	}

	fieldMap := make(map[string]reflect.StructField)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if columnName := field.Tag.Get("ssql_header"); columnName != "" {
			fieldMap[columnName] = field
		}
	}

	results := make([]T, 0, len(dataRows))
	for rowIdx, row := range dataRows {
		if isBlankRow(row) {
			continue
		}

		result := reflect.New(t).Elem()

		for columnName, colIdx := range columnIndexes {
			field, ok := fieldMap[columnName]
			if !ok {
				continue
			}

			if colIdx >= len(row) || row[colIdx] == nil {
				continue
			}

			if err := setFieldValue(result.FieldByIndex(field.Index), row[colIdx]); err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowIdx+3, columnName, err)
			}
		}

		results = append(results, result.Interface().(T))
	}

	return results, nil
}

func isBlankRow(row []interface{}) bool {
	for _, cell := range row {
		if s, ok := cell.(string); !ok || s != "" {
			return false
		}
	}
	return true
}

// setFieldValue converts a sheet cell value to the field's Go type and sets it
func setFieldValue(field reflect.Value, cellValue interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	// The sheets API returns formatted values as strings
	cellStr, ok := cellValue.(string)
	if !ok {
		return fmt.Errorf("cell value is not a string")
	}

	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshalerType) {
		if cellStr == "" {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		if err := field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(cellStr)); err != nil {
			return fmt.Errorf("failed to parse %s: %w", field.Type(), err)
		}
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(cellStr)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cellStr == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(cellStr, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(intVal)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if cellStr == "" {
			field.SetUint(0)
			return nil
		}
		uintVal, err := strconv.ParseUint(cellStr, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse uint: %w", err)
		}
		field.SetUint(uintVal)

	case reflect.Float32, reflect.Float64:
		if cellStr == "" {
			field.SetFloat(0)
			return nil
		}
		floatVal, err := strconv.ParseFloat(cellStr, 64)
		if err != nil {
			return fmt.Errorf("failed to parse float: %w", err)
		}
		field.SetFloat(floatVal)

	case reflect.Bool:
		if cellStr == "" {
			field.SetBool(false)
			return nil
		}
		boolVal, err := strconv.ParseBool(cellStr)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// cellValue converts a struct field into the value written to the sheet
func cellValue(v reflect.Value) (interface{}, error) {
	if v.Type().Implements(textMarshalerType) {
		if isZero(v) {
			return "", nil
		}
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, fmt.Errorf("failed to format %s: %w", v.Type(), err)
		}
		return string(text), nil
	}
	return v.Interface(), nil
}

func isZero(v reflect.Value) bool {
	if z, ok := v.Interface().(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	return v.IsZero()
}

func modelRow(t reflect.Type, v reflect.Value) ([]interface{}, error) {
	row := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("ssql_header") == "" {
			continue
		}

		cell, err := cellValue(v.Field(i))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		row = append(row, cell)
	}
	return row, nil
}

// InsertModel appends a struct as a row to its corresponding table
func InsertModel[T any](db *DB, model T) error {
	t := reflect.TypeOf(model)

	row, err := modelRow(t, reflect.ValueOf(model))
	if err != nil {
		return err
	}

	return db.InsertRow(TableName(t), row)
}

// InsertModels appends multiple structs as rows to their corresponding table
func InsertModels[T any](db *DB, models []T) error {
	if len(models) == 0 {
		return nil
	}

	t := reflect.TypeOf(models[0])

	rows := make([][]interface{}, 0, len(models))
	for _, model := range models {
		row, err := modelRow(t, reflect.ValueOf(model))
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return db.InsertRows(TableName(t), rows)
}
