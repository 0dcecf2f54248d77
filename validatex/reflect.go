package validatex

import (
	"errors"
	"reflect"
	"strings"
)

var (
	ErrNotStruct = errors.New("value must be a struct")
)

// fieldInfo stores information about a struct field
type fieldInfo struct {
	Name  string
	Value any
	Rules []ruleInfo
}

// ruleInfo stores information about a validation rule
type ruleInfo struct {
	Name  string
	Param string
}

// structFields returns the tagged fields of a struct, recursing into nested
// structs with a dotted prefix
func structFields(obj any) ([]fieldInfo, error) {
	val := reflect.ValueOf(obj)

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, nil
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}

	typ := val.Type()
	var fields []fieldInfo

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		if !field.IsExported() {
			continue
		}

		fieldValue := val.Field(i)

		tag := field.Tag.Get("validatex")
		if tag != "" && tag != "-" {
			fields = append(fields, fieldInfo{
				Name:  field.Name,
				Value: fieldValue.Interface(),
				Rules: parseTag(tag),
			})
		}

		actual := fieldValue
		if actual.Kind() == reflect.Ptr {
			if actual.IsNil() {
				continue
			}
			actual = actual.Elem()
		}

		if actual.Kind() == reflect.Struct {
			nested, err := structFields(actual.Interface())
			if err != nil {
				return nil, err
			}
			for _, n := range nested {
				n.Name = field.Name + "." + n.Name
				fields = append(fields, n)
			}
		}

		if actual.Kind() == reflect.Slice {
			for j := 0; j < actual.Len(); j++ {
				elem := actual.Index(j)
				if elem.Kind() == reflect.Ptr && !elem.IsNil() {
					elem = elem.Elem()
				}
				if elem.Kind() != reflect.Struct {
					continue
				}
				nested, err := structFields(elem.Interface())
				if err != nil {
					return nil, err
				}
				for _, n := range nested {
					n.Name = field.Name + "." + n.Name
					fields = append(fields, n)
				}
			}
		}
	}

	return fields, nil
}

// parseTag parses a validatex tag string into validation rules
func parseTag(tag string) []ruleInfo {
	if tag == "" {
		return nil
	}

	parts := strings.Split(tag, ",")
	rules := make([]ruleInfo, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		nameParam := strings.SplitN(part, "=", 2)
		name := nameParam[0]

		param := ""
		if len(nameParam) > 1 {
			param = nameParam[1]
		}

		rules = append(rules, ruleInfo{
			Name:  name,
			Param: param,
		})
	}

	return rules
}

// isZero checks if a value is the zero value for its type
func isZero(value any) bool {
	if value == nil {
		return true
	}

	val := reflect.ValueOf(value)

	// For pointers, nil is considered zero (optional field)
	if val.Kind() == reflect.Ptr {
		return val.IsNil()
	}

	switch val.Kind() {
	case reflect.String:
		return val.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return val.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return val.Float() == 0
	case reflect.Bool:
		return !val.Bool()
	case reflect.Slice, reflect.Map, reflect.Array:
		return val.Len() == 0
	default:
		return reflect.DeepEqual(val.Interface(), reflect.Zero(val.Type()).Interface())
	}
}

// dereferenceValue safely dereferences a pointer value.
// Returns the dereferenced value and whether it was nil.
func dereferenceValue(value any) (any, bool) {
	if value == nil {
		return nil, true
	}

	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr {
		return value, false
	}

	if val.IsNil() {
		return nil, true
	}

	return val.Elem().Interface(), false
}
