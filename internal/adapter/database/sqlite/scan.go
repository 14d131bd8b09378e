package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scanner maps result-set columns onto struct fields by name, so SELECT *
// keeps working as columns are added.
type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) ScanRowToStruct(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	destElem := destValue.Elem()
	destType := destElem.Type()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}

		return sql.ErrNoRows
	}

	scanArgs := make([]interface{}, len(columns))
	for i := range scanArgs {
		scanArgs[i] = new(interface{})
	}

	if err := rows.Scan(scanArgs...); err != nil {
		return err
	}

	for i, colName := range columns {
		val := *(scanArgs[i].(*interface{}))

		field := s.findStructField(destType, colName)

		if field.Name == "" || field.Type == nil {
			continue
		}

		if err := s.setFieldValue(destElem.FieldByIndex(field.Index), val); err != nil {
			slog.Warn("Failed to set field", "field", field.Name, "error", err)
		}
	}

	return nil
}

func (s *Scanner) ScanRowsToSlice(rows *sql.Rows, dest interface{}) error {
	destValue := reflect.ValueOf(dest)

	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice")
	}

	sliceValue := destValue.Elem()
	elemType := sliceValue.Type().Elem()

	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("slice elements must be structs")
	}

	for {
		elemValue := reflect.New(elemType)

		err := s.ScanRowToStruct(rows, elemValue.Interface())

		if err == sql.ErrNoRows {
			break
		}

		if err != nil {
			return err
		}

		sliceValue.Set(reflect.Append(sliceValue, elemValue.Elem()))
	}

	return nil
}

func (s *Scanner) findStructField(structType reflect.Type, colName string) reflect.StructField {
	colNameLower := strings.ToLower(colName)

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if strings.ToLower(field.Name) == colNameLower {
			return field
		}
	}

	camelCaseName := s.snakeToCamel(colName)
	if field, found := structType.FieldByName(camelCaseName); found {
		return field
	}

	return reflect.StructField{}
}

func (s *Scanner) snakeToCamel(snake string) string {
	parts := strings.Split(snake, "_")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		}
	}
	return strings.Join(parts, "")
}

func (s *Scanner) setFieldValue(field reflect.Value, val interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	if val == nil {
		return nil
	}

	fieldType := field.Type()
	valValue := reflect.ValueOf(val)

	if valValue.Type().AssignableTo(fieldType) {
		field.Set(valValue)
		return nil
	}

	// Pointer targets get a freshly allocated element.
	if fieldType.Kind() == reflect.Ptr {
		elem := reflect.New(fieldType.Elem())

		if err := s.setFieldValue(elem.Elem(), val); err != nil {
			return err
		}

		field.Set(elem)
		return nil
	}

	switch fieldType.Kind() {
	case reflect.String:
		if str, ok := val.(string); ok {
			field.SetString(str)
			return nil
		}
	case reflect.Int, reflect.Int64:
		if i, ok := val.(int64); ok {
			field.SetInt(i)
			return nil
		}
	case reflect.Bool:
		if b, ok := val.(bool); ok {
			field.SetBool(b)
			return nil
		}
	case reflect.Float64:
		if f, ok := val.(float64); ok {
			field.SetFloat(f)
			return nil
		}
	}

	switch fieldType.String() {
	case "uuid.UUID":
		if str, ok := val.(string); ok {
			parsed, err := uuid.Parse(str)

			if err != nil {
				return fmt.Errorf("parse uuid %q: %w", str, err)
			}

			field.Set(reflect.ValueOf(parsed))
			return nil
		}
	case "time.Time":
		switch v := val.(type) {
		case time.Time:
			field.Set(reflect.ValueOf(v))
			return nil
		case string:
			for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
				if parsed, err := time.Parse(layout, v); err == nil {
					field.Set(reflect.ValueOf(parsed))
					return nil
				}
			}

			return fmt.Errorf("parse time %q", v)
		}
	}

	return fmt.Errorf("cannot assign %T to %s", val, fieldType)
}
