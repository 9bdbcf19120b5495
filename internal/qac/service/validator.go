package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Expenditious/qac-system/internal/qac/entity"
)

// FieldError is one validation failure for one submitted field.
type FieldError struct {
	ParameterID string `json:"parameter_id"`
	Field       string `json:"field"`
	Message     string `json:"message"`
}

// ValidationError carries the full ordered error list of a rejected
// submission. The order follows the schema's (sort_order, id) parameter
// ordering.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator checks submitted values against a form's parameter schema.
// It holds no state: the same schema and payload always produce the same
// result.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate walks the parameters in schema order and collects every failure.
// A required field left empty gets exactly one "required" error and no
// secondary type errors.
func (v *Validator) Validate(params []entity.Parameter, values map[string]interface{}) []FieldError {
	var errs []FieldError
	add := func(p *entity.Parameter, format string, args ...interface{}) {
		errs = append(errs, FieldError{
			ParameterID: p.ID,
			Field:       p.FieldKey(),
			Message:     fmt.Sprintf(format, args...),
		})
	}

	for i := range params {
		p := &params[i]
		raw := values[p.FieldKey()]
		empty := isEmptyValue(raw)

		if p.IsRequired && empty {
			add(p, "%s is required", p.ParameterName)
			continue
		}
		if empty {
			continue
		}

		str := valueString(raw)
		switch p.ParameterType {
		case entity.ParamTypeNumeric:
			n, err := strconv.ParseFloat(str, 64)
			if err != nil || !isFiniteNumber(str, n) {
				add(p, "%s must be a number", p.ParameterName)
			} else {
				if p.MinValue != nil && n < *p.MinValue {
					add(p, "%s must be at least %v", p.ParameterName, *p.MinValue)
				}
				if p.MaxValue != nil && n > *p.MaxValue {
					add(p, "%s must not exceed %v", p.ParameterName, *p.MaxValue)
				}
			}
		case entity.ParamTypeBoolean:
			if !isBooleanToken(raw) {
				add(p, "%s must be true or false", p.ParameterName)
			}
		case entity.ParamTypeSelect:
			if len(p.Options) > 0 && !p.Options.Contains(str) {
				add(p, "%s has an invalid option", p.ParameterName)
			}
		case entity.ParamTypeDate:
			if !validDate(str) {
				add(p, "%s must be a valid date (YYYY-MM-DD)", p.ParameterName)
			}
		case entity.ParamTypeTime:
			if !validTime(str) {
				add(p, "%s must be a valid time (HH:MM)", p.ParameterName)
			}
		}

		if p.ValidationRules != nil {
			r := p.ValidationRules
			if r.MaxLength != nil && utf8.RuneCountInString(str) > *r.MaxLength {
				add(p, "%s must be at most %d characters", p.ParameterName, *r.MaxLength)
			}
			if r.MinLength != nil && utf8.RuneCountInString(str) < *r.MinLength {
				add(p, "%s must be at least %d characters", p.ParameterName, *r.MinLength)
			}
			if r.Pattern != nil && !r.MatchString(str) {
				add(p, "%s has an invalid format", p.ParameterName)
			}
		}
	}
	return errs
}

// isFiniteNumber narrows ParseFloat's grammar to plain decimal numbers.
// ParseFloat also accepts "NaN", infinities and hex floats like "0x1Ap0";
// NaN in particular cannot be marshalled back out as JSON, so none of
// those may reach the database.
func isFiniteNumber(str string, n float64) bool {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	// Hex float literals always contain an x or p; decimal exponents use e.
	return !strings.ContainsAny(str, "xXpP")
}

// isEmptyValue treats nil, empty strings and empty collections as absent.
func isEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}

// valueString renders a submitted value the way an HTML form would have
// posted it.
func valueString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// isBooleanToken accepts native booleans, 0/1 and the string tokens
// "0", "1", "true", "false".
func isBooleanToken(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return true
	case float64:
		return t == 0 || t == 1
	case json.Number:
		return t.String() == "0" || t.String() == "1"
	case string:
		switch t {
		case "0", "1", "true", "false":
			return true
		}
	}
	return false
}

// coerceBoolean converts an accepted submission value into the stored
// boolean. The truthy token set is "true", "1", "yes", "on".
func coerceBoolean(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case json.Number:
		return t.String() != "0"
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	}
	return false
}

// validDate requires the fixed YYYY-MM-DD form and an exact round-trip, so
// "2024-02-30" or unpadded months are rejected.
func validDate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	return err == nil && t.Format("2006-01-02") == s
}

// validTime requires HH:MM with an exact round-trip.
func validTime(s string) bool {
	t, err := time.Parse("15:04", s)
	return err == nil && t.Format("15:04") == s
}
