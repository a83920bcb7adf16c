package database

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// columns extracts column names and values from a struct using `db:` tags.
// Fields tagged db:"-" and a zero-value "id" are skipped so the database
// can assign the key.
func columns(record any) (cols []string, vals []any) {
	v := reflect.Indirect(reflect.ValueOf(record))
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		if tag == "id" && v.Field(i).IsZero() {
			continue
		}
		cols = append(cols, tag)
		vals = append(vals, v.Field(i).Interface())
	}
	return cols, vals
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// without returns cols minus any entry in skip.
func without(cols, skip []string) []string {
	out := make([]string, 0, len(cols))
outer:
	for _, c := range cols {
		for _, s := range skip {
			if c == s {
				continue outer
			}
		}
		out = append(out, c)
	}
	return out
}

// scanAll scans rows into dest, a pointer to a slice of structs or struct pointers.
func scanAll(rows *sql.Rows, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("select: dest must be a pointer to a slice")
	}
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	slice := dv.Elem()
	elemType := slice.Type().Elem()
	isPtr := elemType.Kind() == reflect.Pointer
	if isPtr {
		elemType = elemType.Elem()
	}

	for rows.Next() {
		elem := reflect.New(elemType).Elem()
		if err := rows.Scan(fieldPointers(elem, cols)...); err != nil {
			return err
		}
		if isPtr {
			slice.Set(reflect.Append(slice, elem.Addr()))
		} else {
			slice.Set(reflect.Append(slice, elem))
		}
	}
	return rows.Err()
}

// scanOne scans the first row into dest (pointer to struct), matching
// columns by name. Returns sql.ErrNoRows when the result is empty.
func scanOne(rows *sql.Rows, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("get: dest must be a pointer to a struct")
	}
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.Scan(fieldPointers(dv.Elem(), cols)...)
}

// fieldPointers maps column names to struct field pointers via `db:` tags.
// Unknown columns are discarded.
func fieldPointers(elem reflect.Value, cols []string) []any {
	byTag := map[string]any{}
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("db"); tag != "" && tag != "-" {
			byTag[tag] = elem.Field(i).Addr().Interface()
		}
	}
	ptrs := make([]any, len(cols))
	for i, c := range cols {
		if p, ok := byTag[c]; ok {
			ptrs[i] = p
		} else {
			var discard any
			ptrs[i] = &discard
		}
	}
	return ptrs
}
