package validatex

import (
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ValidationFunc defines a function that validates a value
type ValidationFunc func(value any, param string) bool

// builtinValidationFuncs is a map of built-in validation functions
var builtinValidationFuncs = map[string]ValidationFunc{
	"required": validateRequired,
	"url":      validateURL,
	"min":      validateMin,
	"max":      validateMax,
	"numeric":  validateNumeric,
	"e164":     validateE164,
}

// customValidationFuncs is a map of user-registered validation functions
var customValidationFuncs = map[string]ValidationFunc{}

// RegisterValidationFunc registers a custom validation function
func RegisterValidationFunc(name string, fn ValidationFunc) {
	customValidationFuncs[name] = fn
}

// getValidationFunc returns a validation function by name
func getValidationFunc(name string) (ValidationFunc, bool) {
	// Check custom functions first
	if fn, ok := customValidationFuncs[name]; ok {
		return fn, true
	}

	if fn, ok := builtinValidationFuncs[name]; ok {
		return fn, true
	}

	return nil, false
}

// validateRequired validates that a value is not empty
func validateRequired(value any, _ string) bool {
	return !isZero(value)
}

// validateURL validates that a value is a valid URL
func validateURL(value any, _ string) bool {
	if str, ok := value.(string); ok {
		u, err := url.ParseRequestURI(str)
		return err == nil && u.Scheme != "" && strings.Contains(str, ".")
	}
	return false
}

// validateMin validates that a value is at least a minimum
func validateMin(value any, param string) bool {
	min, err := strconv.Atoi(param)
	if err != nil {
		return false
	}
	return compareSize(value, func(n int) bool { return n >= min })
}

// validateMax validates that a value is at most a maximum
func validateMax(value any, param string) bool {
	max, err := strconv.Atoi(param)
	if err != nil {
		return false
	}
	return compareSize(value, func(n int) bool { return n <= max })
}

// compareSize applies cmp to a string's length, a number's value, or a
// slice/map/array's length
func compareSize(value any, cmp func(int) bool) bool {
	switch v := value.(type) {
	case string:
		return cmp(len(v))
	case int:
		return cmp(v)
	case int32:
		return cmp(int(v))
	case int64:
		return cmp(int(v))
	case float64:
		return cmp(int(v))
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map || rv.Kind() == reflect.Array {
			return cmp(rv.Len())
		}
		return false
	}
}

// validateNumeric validates that a value contains only numeric characters
func validateNumeric(value any, _ string) bool {
	if str, ok := value.(string); ok {
		if str == "" {
			return false
		}
		for _, char := range str {
			if !unicode.IsNumber(char) {
				return false
			}
		}
		return true
	}
	return false
}

// validateE164 validates that a value is an E.164-shaped phone identifier:
// optional leading +, country code, digits only
var e164Regex = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

func validateE164(value any, _ string) bool {
	if str, ok := value.(string); ok {
		return e164Regex.MatchString(str)
	}
	return false
}
