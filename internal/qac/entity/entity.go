package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
)

// JSONB stores arbitrary structured data in a jsonb column.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(b, j)
}

// StringList stores a JSON array column, used for select parameter options.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(b, l)
}

// Contains reports whether the list holds the given option value.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// RuleSet is the closed set of custom validation rules a parameter may
// carry. It is deliberately not an open rule-name map: an unknown rule
// key fails Scan instead of silently doing nothing.
type RuleSet struct {
	MaxLength *int    `json:"max_length,omitempty"`
	MinLength *int    `json:"min_length,omitempty"`
	Pattern   *string `json:"pattern,omitempty"`

	compiled *regexp.Regexp
}

func (r RuleSet) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RuleSet) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("unsupported validation_rules column type %T", value)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(r); err != nil {
		return fmt.Errorf("decode validation rules: %w", err)
	}
	if r.Pattern != nil {
		re, err := regexp.Compile(*r.Pattern)
		if err != nil {
			return fmt.Errorf("compile rule pattern: %w", err)
		}
		r.compiled = re
	}
	return nil
}

// MatchString applies the pattern rule. A pattern that cannot compile
// rejects every value.
func (r *RuleSet) MatchString(s string) bool {
	if r.Pattern == nil {
		return true
	}
	if r.compiled == nil {
		re, err := regexp.Compile(*r.Pattern)
		if err != nil {
			return false
		}
		r.compiled = re
	}
	return r.compiled.MatchString(s)
}
