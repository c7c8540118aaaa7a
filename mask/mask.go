// Package mask renders structs as ordered maps for logging, hiding fields tagged
// `mask:"true"`.
package mask

import (
	"fmt"
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const tagName = "mask"

// LogValuer is implemented by values that choose their own log representation,
// such as optional fields of partial updates.
type LogValuer interface {
	LogValue() any
}

// StructToOrdMap returns the fields of v keyed by their json name (then yaml name, then
// Go name), with masked fields replaced. Nested and embedded structs are flattened:
// nested fields use dotted keys, embedded fields are promoted. Slices of structs are
// rendered element by element. Fields with json:"-" or yaml:"-" are omitted.
func StructToOrdMap(v any) *orderedmap.OrderedMap[string, any] {
	if v == nil {
		return nil
	}

	om := orderedmap.New[string, any]()
	appendValue(om, reflect.ValueOf(v), "")
	return om
}

func appendValue(om *orderedmap.OrderedMap[string, any], val reflect.Value, prefix string) {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			om.Set(prefix, nil)
			return
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct || isLeaf(val) {
		om.Set(prefix, plainValue(val))
		return
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !fieldType.IsExported() {
			continue
		}

		fieldName, skip := extractFieldName(fieldType)
		if skip {
			continue
		}

		promoted := fieldType.Anonymous && !hasNameTag(fieldType)

		name := fieldName
		switch {
		case promoted:
			name = prefix
		case prefix != "":
			name = prefix + "." + fieldName
		}

		switch {
		case shouldMask(fieldType):
			om.Set(name, maskValue(field))
		case isExpandable(field):
			appendValue(om, field, name)
		case promoted:
			// embedded markers such as bun.BaseModel
		default:
			om.Set(name, plainValue(field))
		}
	}
}

// plainValue returns the log representation of an unmasked value.
func plainValue(val reflect.Value) any {
	if !val.IsValid() {
		return nil
	}
	if lv, ok := val.Interface().(LogValuer); ok {
		return lv.LogValue()
	}

	if val.Kind() == reflect.Slice && !val.IsNil() && isStructElem(val.Type().Elem()) {
		items := make([]any, 0, val.Len())
		for i := range val.Len() {
			items = append(items, StructToOrdMap(val.Index(i).Interface()))
		}
		return items
	}

	return val.Interface()
}

func isStructElem(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && !isLeafType(t)
}

// isLeaf reports whether a struct is logged as a whole rather than field by field.
func isLeaf(val reflect.Value) bool {
	if _, ok := val.Interface().(LogValuer); ok {
		return true
	}
	return isLeafType(val.Type())
}

// isLeafType reports whether t has no exported fields, as time.Time.
func isLeafType(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(reflect.TypeFor[LogValuer]()) || t.Implements(reflect.TypeFor[LogValuer]()) {
		return true
	}
	for i := range t.NumField() {
		if t.Field(i).IsExported() {
			return false
		}
	}
	return true
}

func isExpandable(val reflect.Value) bool {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return false
		}
		val = val.Elem()
	}
	return val.Kind() == reflect.Struct && !isLeaf(val)
}

func shouldMask(field reflect.StructField) bool {
	return strings.EqualFold(field.Tag.Get(tagName), "true")
}

func maskValue(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // remaining kinds are never nil
	case reflect.Pointer:
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	case reflect.Slice, reflect.Map:
		if val.IsNil() {
			return nil
		}
	}

	if lv, ok := val.Interface().(LogValuer); ok {
		inner := lv.LogValue()
		if inner == nil {
			return nil
		}
		val = reflect.ValueOf(inner)
	}

	// zero values carry nothing to hide
	if val.IsZero() {
		return val.Interface()
	}

	return maskByKind(val)
}

func maskByKind(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // default covers the rest
	case reflect.String:
		return "***masked-string***"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "***masked-int***"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "***masked-uint***"
	case reflect.Float32, reflect.Float64:
		return "***masked-float***"
	case reflect.Bool:
		return "***masked-bool***"
	case reflect.Struct:
		return "***masked-struct***"
	case reflect.Slice, reflect.Array:
		return "***masked-slice***"
	case reflect.Map:
		return "***masked-map***"
	default:
		return fmt.Sprintf("***masked-%s***", val.Kind())
	}
}

// extractFieldName returns the json name, else the yaml name, else the Go name.
// skip is true for fields excluded with "-".
func extractFieldName(field reflect.StructField) (string, bool) {
	for _, tag := range []string{"json", "yaml"} {
		value, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if value == "-" {
			return "", true
		}
		if name, _, _ := strings.Cut(value, ","); name != "" {
			return name, false
		}
	}
	return field.Name, false
}

func hasNameTag(field reflect.StructField) bool {
	for _, tag := range []string{"json", "yaml"} {
		if value, ok := field.Tag.Lookup(tag); ok {
			if name, _, _ := strings.Cut(value, ","); name != "" {
				return true
			}
		}
	}
	return false
}
