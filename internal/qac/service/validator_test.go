package service

import (
	"reflect"
	"testing"

	"github.com/Expenditious/qac-system/internal/qac/entity"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func sptr(v string) *string   { return &v }

func numericParam(id, name string, min, max *float64) entity.Parameter {
	return entity.Parameter{
		ID:            id,
		ParameterName: name,
		ParameterType: entity.ParamTypeNumeric,
		MinValue:      min,
		MaxValue:      max,
		IsActive:      true,
	}
}

func TestValidateRequiredEmptyGetsSingleError(t *testing.T) {
	v := NewValidator()
	p := numericParam("p1", "Weight", fptr(0), fptr(100))
	p.IsRequired = true
	params := []entity.Parameter{p}

	for _, raw := range []interface{}{nil, "", []interface{}{}, map[string]interface{}{}} {
		errs := v.Validate(params, map[string]interface{}{"param_p1": raw})
		if len(errs) != 1 {
			t.Fatalf("value %#v: got %d errors, want exactly 1", raw, len(errs))
		}
		if errs[0].Message != "Weight is required" {
			t.Errorf("value %#v: message = %q", raw, errs[0].Message)
		}
	}
}

func TestValidateOptionalEmptySkipped(t *testing.T) {
	v := NewValidator()
	params := []entity.Parameter{numericParam("p1", "Weight", fptr(0), fptr(100))}

	if errs := v.Validate(params, map[string]interface{}{}); len(errs) != 0 {
		t.Fatalf("absent optional field: got %d errors, want 0", len(errs))
	}
	if errs := v.Validate(params, map[string]interface{}{"param_p1": ""}); len(errs) != 0 {
		t.Fatalf("empty optional field: got %d errors, want 0", len(errs))
	}
}

func TestValidateNumeric(t *testing.T) {
	v := NewValidator()
	params := []entity.Parameter{numericParam("p1", "Weight", fptr(10), fptr(20))}

	cases := []struct {
		name  string
		value interface{}
		want  []string
	}{
		{"in range string", "15", nil},
		{"in range number", 15.0, nil},
		{"boundary min", "10", nil},
		{"boundary max", "20", nil},
		{"not a number", "abc", []string{"Weight must be a number"}},
		{"nan", "NaN", []string{"Weight must be a number"}},
		{"positive infinity", "Inf", []string{"Weight must be a number"}},
		{"negative infinity", "-Inf", []string{"Weight must be a number"}},
		{"hex float", "0x1Ap0", []string{"Weight must be a number"}},
		{"below min", "9.99", []string{"Weight must be at least 10"}},
		{"above max", "20.01", []string{"Weight must not exceed 20"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.Validate(params, map[string]interface{}{"param_p1": tc.value})
			var msgs []string
			for _, e := range errs {
				msgs = append(msgs, e.Message)
			}
			if !reflect.DeepEqual(msgs, tc.want) {
				t.Errorf("got %v, want %v", msgs, tc.want)
			}
		})
	}
}

func TestValidateNumericBothBoundsCanFire(t *testing.T) {
	// An inverted range rejects from both sides independently.
	v := NewValidator()
	params := []entity.Parameter{numericParam("p1", "Weight", fptr(50), fptr(10))}

	errs := v.Validate(params, map[string]interface{}{"param_p1": "30"})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
}

func TestValidateBoundsAcrossFieldsIndependent(t *testing.T) {
	// One field below its min and another above its max each get their own
	// error, attributed to the right field.
	v := NewValidator()
	params := []entity.Parameter{
		numericParam("a", "Weight", fptr(10), nil),
		numericParam("b", "Volume", nil, fptr(200)),
	}

	errs := v.Validate(params, map[string]interface{}{
		"param_a": "9",
		"param_b": "201",
	})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].ParameterID != "a" || errs[1].ParameterID != "b" {
		t.Errorf("errors attributed to wrong fields: %v", errs)
	}
}

func TestValidateBooleanTokens(t *testing.T) {
	v := NewValidator()
	params := []entity.Parameter{{
		ID:            "p1",
		ParameterName: "Visual OK",
		ParameterType: entity.ParamTypeBoolean,
	}}

	valid := []interface{}{true, false, 0.0, 1.0, "0", "1", "true", "false"}
	for _, raw := range valid {
		if errs := v.Validate(params, map[string]interface{}{"param_p1": raw}); len(errs) != 0 {
			t.Errorf("value %#v: unexpected errors %v", raw, errs)
		}
	}

	invalid := []interface{}{"yes", "on", "maybe", 2.0, "TRUE"}
	for _, raw := range invalid {
		if errs := v.Validate(params, map[string]interface{}{"param_p1": raw}); len(errs) != 1 {
			t.Errorf("value %#v: got %d errors, want 1", raw, len(errs))
		}
	}
}

func TestValidateSelect(t *testing.T) {
	v := NewValidator()
	params := []entity.Parameter{{
		ID:            "p1",
		ParameterName: "Line",
		ParameterType: entity.ParamTypeSelect,
		Options:       entity.StringList{"Line 1", "Line 2"},
	}}

	if errs := v.Validate(params, map[string]interface{}{"param_p1": "Line 2"}); len(errs) != 0 {
		t.Errorf("valid option: unexpected errors %v", errs)
	}
	if errs := v.Validate(params, map[string]interface{}{"param_p1": "Line 9"}); len(errs) != 1 {
		t.Errorf("invalid option: got %d errors, want 1", len(errs))
	}

	// A select with no declared options accepts anything.
	open := []entity.Parameter{{
		ID:            "p2",
		ParameterName: "Machine",
		ParameterType: entity.ParamTypeSelect,
	}}
	if errs := v.Validate(open, map[string]interface{}{"param_p2": "whatever"}); len(errs) != 0 {
		t.Errorf("optionless select: unexpected errors %v", errs)
	}
}

func TestValidateDateAndTime(t *testing.T) {
	v := NewValidator()
	params := []entity.Parameter{
		{ID: "d", ParameterName: "Date", ParameterType: entity.ParamTypeDate},
		{ID: "t", ParameterName: "Time", ParameterType: entity.ParamTypeTime},
	}

	ok := map[string]interface{}{"param_d": "2026-02-28", "param_t": "08:30"}
	if errs := v.Validate(params, ok); len(errs) != 0 {
		t.Fatalf("valid date/time: unexpected errors %v", errs)
	}

	bad := []map[string]interface{}{
		{"param_d": "2026-02-30"},
		{"param_d": "2026-2-28"},
		{"param_d": "28/02/2026"},
		{"param_t": "8:30"},
		{"param_t": "24:00"},
	}
	for _, values := range bad {
		if errs := v.Validate(params, values); len(errs) != 1 {
			t.Errorf("values %v: got %d errors, want 1", values, len(errs))
		}
	}
}

func TestValidateCustomRulesAdditive(t *testing.T) {
	v := NewValidator()
	params := []entity.Parameter{{
		ID:            "p1",
		ParameterName: "Batch Code",
		ParameterType: entity.ParamTypeText,
		ValidationRules: &entity.RuleSet{
			MinLength: iptr(4),
			MaxLength: iptr(8),
			Pattern:   sptr(`^[A-Z0-9]+$`),
		},
	}}

	if errs := v.Validate(params, map[string]interface{}{"param_p1": "AB12"}); len(errs) != 0 {
		t.Fatalf("valid code: unexpected errors %v", errs)
	}

	// Too short and pattern-breaking at once: both rules fire.
	errs := v.Validate(params, map[string]interface{}{"param_p1": "ab"})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
}

func TestValidateRuneCountedLengths(t *testing.T) {
	v := NewValidator()
	params := []entity.Parameter{{
		ID:              "p1",
		ParameterName:   "Note",
		ParameterType:   entity.ParamTypeText,
		ValidationRules: &entity.RuleSet{MaxLength: iptr(3)},
	}}

	// Three multibyte runes are within a max length of 3.
	if errs := v.Validate(params, map[string]interface{}{"param_p1": "日本語"}); len(errs) != 0 {
		t.Fatalf("3-rune value: unexpected errors %v", errs)
	}
}

func TestValidateDeterministicOrder(t *testing.T) {
	v := NewValidator()
	params := []entity.Parameter{
		func() entity.Parameter {
			p := numericParam("a", "First", nil, nil)
			p.IsRequired = true
			return p
		}(),
		func() entity.Parameter {
			p := numericParam("b", "Second", nil, nil)
			p.IsRequired = true
			return p
		}(),
	}
	values := map[string]interface{}{}

	first := v.Validate(params, values)
	for i := 0; i < 10; i++ {
		again := v.Validate(params, values)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("validation order changed between runs: %v vs %v", first, again)
		}
	}
	if len(first) != 2 || first[0].ParameterID != "a" || first[1].ParameterID != "b" {
		t.Fatalf("errors out of schema order: %v", first)
	}
}

func TestCoerceBoolean(t *testing.T) {
	truthy := []interface{}{true, 1.0, "true", "1", "yes", "on", "YES", " On "}
	for _, raw := range truthy {
		if !coerceBoolean(raw) {
			t.Errorf("value %#v: want true", raw)
		}
	}
	falsy := []interface{}{false, 0.0, "false", "0", "no", "off", ""}
	for _, raw := range falsy {
		if coerceBoolean(raw) {
			t.Errorf("value %#v: want false", raw)
		}
	}
}

func TestRuleSetUnknownKeyRejected(t *testing.T) {
	var r entity.RuleSet
	if err := r.Scan([]byte(`{"max_length":5,"max_lenght":9}`)); err == nil {
		t.Fatal("misspelled rule key accepted, want error")
	}
	if err := r.Scan([]byte(`{"max_length":5}`)); err != nil {
		t.Fatalf("valid rule set rejected: %v", err)
	}
}
