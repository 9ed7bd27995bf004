package reflectutil

import "reflect"

// PartialEqual reports whether every non-zero field of want matches the
// corresponding field of got. Zero fields of want are skipped.
func PartialEqual[T any](want, got T) bool {
	vw := reflect.ValueOf(want).Elem()
	vg := reflect.ValueOf(got).Elem()

	for i := 0; i < vw.NumField(); i++ {
		if vw.Field(i).IsZero() {
			continue
		}

		if !reflect.DeepEqual(vw.Field(i).Interface(), vg.Field(i).Interface()) {
			return false
		}
	}

	return true
}
