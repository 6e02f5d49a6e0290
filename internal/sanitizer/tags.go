package sanitizer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var registry = map[string]func(string) string{
	"trim":         Trim,
	"nfc":          NFC,
	"no_control":   RemoveControlChars,
	"strip_markup": StripMarkup,
	"text":         Text,
}

// SanitizeStruct applies the sanitizers named in the `sanitize` tag of each
// string field, left to right. Unknown names are an error.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errors.New("sanitizer: must pass a pointer to struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		tag := rt.Field(i).Tag.Get("sanitize")
		if tag == "" || tag == "-" || field.Kind() != reflect.String || !field.CanSet() {
			continue
		}

		value := field.String()
		for _, name := range strings.Split(tag, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			fn, ok := registry[name]
			if !ok {
				return fmt.Errorf("sanitizer: unknown sanitizer %q on field %s", name, rt.Field(i).Name)
			}
			value = fn(value)
		}
		field.SetString(value)
	}

	return nil
}
