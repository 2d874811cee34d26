package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// UpsertModel builds an insert from the db tags of model. Columns listed in
// conflict form the ON CONFLICT target and every other column is updated.
func UpsertModel(table string, model any, conflict ...string) (string, []any, error) {
	cols, vals, err := modelColumns(model)
	if err != nil {
		return "", nil, fmt.Errorf("upsert into %s: %w", table, err)
	}

	b := InsertInto(table).Columns(cols...).Values(vals...)
	if len(conflict) > 0 {
		key := make(map[string]struct{}, len(conflict))
		for _, c := range conflict {
			key[c] = struct{}{}
		}
		updates := make([]string, 0, len(cols))
		for _, c := range cols {
			if _, ok := key[c]; !ok {
				updates = append(updates, c)
			}
		}
		b.OnConflict(conflict, updates...)
	}
	return b.ToSQL()
}

// InsertModels builds a multi-row insert from models that share a type.
func InsertModels[T any](table string, models []T) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert into %s: no rows", table)
	}

	cols, first, err := modelColumns(models[0])
	if err != nil {
		return "", nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	b := InsertInto(table).Columns(cols...).Values(first...)
	for _, m := range models[1:] {
		_, vals, err := modelColumns(m)
		if err != nil {
			return "", nil, fmt.Errorf("insert into %s: %w", table, err)
		}
		b.Values(vals...)
	}
	return b.ToSQL()
}

func modelColumns(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, fmt.Errorf("model is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct, got %s", v.Kind())
	}

	t := v.Type()
	cols := make([]string, 0, t.NumField())
	vals := make([]any, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, name)
		vals = append(vals, v.Field(i).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", t.Name())
	}
	return cols, vals, nil
}
