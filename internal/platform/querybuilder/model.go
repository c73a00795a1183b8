package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpsertModel builds an INSERT for the db-tagged fields of model that merges on
// the given key columns and overwrites every other column with EXCLUDED values.
// Each key column must be one of the model's columns.
func UpsertModel(table string, model any, keyColumns ...string) (string, []any, error) {
	if len(keyColumns) == 0 {
		return "", nil, fmt.Errorf("upsert %s: key columns are required", table)
	}
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}

	known := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		known[col] = struct{}{}
	}
	keys := make(map[string]struct{}, len(keyColumns))
	for _, key := range keyColumns {
		if _, ok := known[key]; !ok {
			return "", nil, fmt.Errorf("upsert %s: key column %q is not a model column", table, key)
		}
		keys[key] = struct{}{}
	}

	sets := make([]string, 0, len(cols))
	for _, col := range cols {
		if _, isKey := keys[col]; isKey {
			continue
		}
		sets = append(sets, col+" = EXCLUDED."+col)
	}

	suffix := "ON CONFLICT (" + strings.Join(keyColumns, ", ") + ") "
	if len(sets) == 0 {
		suffix += "DO NOTHING"
	} else {
		suffix += "DO UPDATE SET " + strings.Join(sets, ", ")
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
