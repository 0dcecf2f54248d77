// Package validatex validates struct fields against rules declared in
// `validatex` struct tags, e.g.:
//
//	type TextPayload struct {
//		Body string `validatex:"required,max=4096"`
//	}
//
//	if err := validatex.Validate(payload); err != nil { ... }
package validatex

import (
	"fmt"
	"strings"
)

// FieldError describes a single failed rule on a single field
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// Error implements the error interface
func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("field %s failed rule %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("field %s failed rule %s", e.Field, e.Rule)
}

// Errors aggregates all failed rules for a struct
type Errors []FieldError

// Error implements the error interface
func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validatable lets a type supply its own validation in addition to tags
type Validatable interface {
	Validate() error
}

// Validate checks every tagged field of a struct (or pointer to struct)
// against its rules. It returns nil when all rules pass, or an Errors value
// listing every failure.
func Validate(obj any) error {
	fields, err := structFields(obj)
	if err != nil {
		return err
	}

	var failures Errors

	for _, field := range fields {
		optional := !hasRule(field.Rules, "required")
		// Optional fields are only checked when set
		if optional && isZero(field.Value) {
			continue
		}

		val, isNil := dereferenceValue(field.Value)
		for _, rule := range field.Rules {
			fn, ok := getValidationFunc(rule.Name)
			if !ok {
				return fmt.Errorf("unknown validation rule: %s", rule.Name)
			}
			if isNil && rule.Name != "required" {
				continue
			}
			if !fn(val, rule.Param) {
				failures = append(failures, FieldError{
					Field: field.Name,
					Rule:  rule.Name,
					Param: rule.Param,
				})
			}
		}
	}

	if v, ok := obj.(Validatable); ok {
		if err := v.Validate(); err != nil {
			if ve, isVE := err.(Errors); isVE {
				failures = append(failures, ve...)
			} else {
				failures = append(failures, FieldError{Field: "-", Rule: err.Error()})
			}
		}
	}

	if len(failures) > 0 {
		return failures
	}
	return nil
}

func hasRule(rules []ruleInfo, name string) bool {
	for _, r := range rules {
		if r.Name == name {
			return true
		}
	}
	return false
}
