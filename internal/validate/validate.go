// Package validate implements declarative request-body validation. Each
// entity has a rule table: an ordered list of (field, predicate, message)
// entries. Apply evaluates every rule and returns all violation messages,
// never stopping at the first failure.
package validate

import "regexp"

// Fields holds the request body values under validation. A nil entry
// means the field was absent from the body.
type Fields map[string]*string

func (f Fields) get(name string) (string, bool) {
	v, ok := f[name]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Rule is a single named constraint. Check receives the full field set so
// cross-field rules (e.g. password confirmation) can see both values.
type Rule struct {
	Field   string
	Message string
	Check   func(f Fields) bool
}

// Apply evaluates every rule against the fields and returns one message
// per violated rule, in table order.
func Apply(rules []Rule, f Fields) []string {
	var errs []string
	for _, r := range rules {
		if !r.Check(f) {
			errs = append(errs, r.Message)
		}
	}
	return errs
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Required fails when the field is absent or blank.
func Required(field, msg string) Rule {
	return Rule{Field: field, Message: msg, Check: func(f Fields) bool {
		v, ok := f.get(field)
		return ok && v != ""
	}}
}

// Email fails when the field is present but not a plausible address.
// Absent fields pass; combine with Required when the field is mandatory.
func Email(field, msg string) Rule {
	return Rule{Field: field, Message: msg, Check: func(f Fields) bool {
		v, ok := f.get(field)
		return !ok || emailRe.MatchString(v)
	}}
}

// LenBetween fails when the field is present and its length falls outside
// [min, max]. Absent fields pass.
func LenBetween(field string, min, max int, msg string) Rule {
	return Rule{Field: field, Message: msg, Check: func(f Fields) bool {
		v, ok := f.get(field)
		return !ok || (len(v) >= min && len(v) <= max)
	}}
}

// OneOf fails when the field is present and not in the allowed set.
func OneOf(field string, allowed []string, msg string) Rule {
	return Rule{Field: field, Message: msg, Check: func(f Fields) bool {
		v, ok := f.get(field)
		if !ok {
			return true
		}
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	}}
}

// RequiredWith fails when other is present but field is absent or blank.
func RequiredWith(field, other, msg string) Rule {
	return Rule{Field: field, Message: msg, Check: func(f Fields) bool {
		if _, ok := f.get(other); !ok {
			return true
		}
		v, ok := f.get(field)
		return ok && v != ""
	}}
}

// Matches fails when both fields are present and their values differ.
func Matches(field, other, msg string) Rule {
	return Rule{Field: field, Message: msg, Check: func(f Fields) bool {
		v, vok := f.get(field)
		o, ook := f.get(other)
		if !vok || !ook {
			return true
		}
		return v == o
	}}
}
