package service

import (
	"testing"

	"github.com/Expenditious/qac-system/internal/qac/entity"
)

func TestMeetsStandard(t *testing.T) {
	cases := []struct {
		name  string
		min   *float64
		max   *float64
		value float64
		want  bool
	}{
		{"inside", fptr(24.97), fptr(25.20), 25.00, true},
		{"at min", fptr(24.97), fptr(25.20), 24.97, true},
		{"at max", fptr(24.97), fptr(25.20), 25.20, true},
		{"below", fptr(24.97), fptr(25.20), 24.96, false},
		{"above", fptr(24.97), fptr(25.20), 25.21, false},
		{"no bounds", nil, nil, 999, true},
		{"min only pass", fptr(10), nil, 11, true},
		{"min only fail", fptr(10), nil, 9, false},
		{"max only pass", nil, fptr(10), 9, true},
		{"max only fail", nil, fptr(10), 11, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := meetsStandard(tc.min, tc.max, tc.value); got != tc.want {
				t.Errorf("meetsStandard(%v, %v, %v) = %v, want %v", tc.min, tc.max, tc.value, got, tc.want)
			}
		})
	}
}

func TestBottleResultAllInSpec(t *testing.T) {
	b := &BottleInput{
		Weight: fptr(25.00),
		Volume: fptr(170.0),
		Tilt:   fptr(0.10),
	}
	if got := bottleResult(b); got != entity.BottlePass {
		t.Errorf("result = %q, want %q", got, entity.BottlePass)
	}
}

func TestBottleResultOneMeasurementOut(t *testing.T) {
	// A single out-of-spec measurement fails the whole bottle.
	b := &BottleInput{
		Weight: fptr(25.00),
		Volume: fptr(168.99),
	}
	if got := bottleResult(b); got != entity.BottleFail {
		t.Errorf("result = %q, want %q", got, entity.BottleFail)
	}
}

func TestBottleResultMissingMeasurementsIgnored(t *testing.T) {
	b := &BottleInput{Weight: fptr(25.10)}
	if got := bottleResult(b); got != entity.BottlePass {
		t.Errorf("result = %q, want %q", got, entity.BottlePass)
	}
}

func TestBottleResultBoundaries(t *testing.T) {
	// Spec bounds are inclusive on both ends.
	pass := &BottleInput{Weight: fptr(24.97), Tilt: fptr(0.35)}
	if got := bottleResult(pass); got != entity.BottlePass {
		t.Errorf("boundary values: result = %q, want %q", got, entity.BottlePass)
	}
}

func TestBottleIsEmpty(t *testing.T) {
	if empty := (&BottleInput{}).isEmpty(); !empty {
		t.Error("no measurements, no remarks: want empty")
	}
	if empty := (&BottleInput{Remarks: "chipped"}).isEmpty(); empty {
		t.Error("remarks only: want not empty")
	}
	if empty := (&BottleInput{NeckWidth: fptr(28.0)}).isEmpty(); empty {
		t.Error("one measurement: want not empty")
	}
}
