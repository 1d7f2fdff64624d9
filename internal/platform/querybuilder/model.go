package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type taggedField struct {
	index  int
	column string
}

// layouts caches the db-tagged fields of each struct type; a repository
// inserts the same row type on every Append.
var layouts sync.Map // reflect.Type -> []taggedField

// InsertModel builds an INSERT from the `db` tags of a struct.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	fields := layoutOf(value.Type())
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("model %s has no db columns", value.Type())
	}

	cols := make([]string, len(fields))
	vals := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.column
		vals[i] = value.Field(f.index).Interface()
	}
	return Insert(table, cols, vals, suffix)
}

func layoutOf(typ reflect.Type) []taggedField {
	if cached, ok := layouts.Load(typ); ok {
		return cached.([]taggedField)
	}

	fields := make([]taggedField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		if col = strings.TrimSpace(col); col == "" || col == "-" {
			continue
		}
		fields = append(fields, taggedField{index: i, column: col})
	}

	layouts.Store(typ, fields)
	return fields
}
