package reflectutil

import (
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// ToSnakeCase converts a Go field name to the snake_case form gocqlx expects
// for CQL columns.
func ToSnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			boundary := i > 0 &&
				(!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if boundary {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// GetColumnNames returns the sorted snake_case column names of the struct
// fields of e.
func GetColumnNames(e any) []string {
	typ := reflect.TypeOf(e).Elem()
	columns := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		columns = append(columns, ToSnakeCase(typ.Field(i).Name))
	}

	sort.Strings(columns)
	return columns
}
