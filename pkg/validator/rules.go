package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "field is required",
			Code:    "validation.required",
			Params:  map[string]any{"field": field},
		},
	}
}

func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
			Code:    "validation.max_length",
			Params:  map[string]any{"field": field, "max": max},
		},
	}
}

// InListString validates that value is one of allowed.
func InListString(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
			Code:    "validation.in_list",
			Params:  map[string]any{"field": field, "allowed": allowed},
		},
	}
}

func MinNum[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %v", min),
			Code:    "validation.min",
			Params:  map[string]any{"field": field, "min": min},
		},
	}
}

// IsEmail reports whether s is a bare address: no display name, a non-empty
// local part and a dotted domain without empty labels.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" || !strings.Contains(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// ValidEmail validates value with IsEmail.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return IsEmail(value) },
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
			Code:    "validation.email",
			Params:  map[string]any{"field": field},
		},
	}
}
