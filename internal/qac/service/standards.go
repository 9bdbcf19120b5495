package service

import "github.com/Expenditious/qac-system/internal/qac/entity"

// meetsStandard reports whether a numeric value satisfies the declared
// specification bounds. Absence of a bound is not a failure; this check is
// only ever applied to values that already passed validation.
func meetsStandard(min, max *float64, value float64) bool {
	if min != nil && value < *min {
		return false
	}
	if max != nil && value > *max {
		return false
	}
	return true
}

// bottleSpec is the fixed pass/fail range for one bottle measurement.
type bottleSpec struct {
	Min float64
	Max float64
}

// Dimensional specifications for the FM-QA-23 bottle check. Bottle specs are
// denser and change far less often than general parameters, so they live in
// a fixed table rather than the parameter schema.
var bottleSpecs = map[string]bottleSpec{
	"weight":        {24.97, 25.20},
	"volume":        {169.00, 171.00},
	"shoulder":      {59.50, 60.50},
	"body":          {59.10, 60.10},
	"bottom":        {59.50, 60.50},
	"inner_mouth":   {27.47, 27.80},
	"thread":        {29.27, 29.60},
	"mouth_to_ring": {12.60, 13.10},
	"neck_to_ring":  {5.00, 6.50},
	"ring_gap":      {2.60, 3.00},
	"neck_width":    {27.50, 28.50},
	"tilt":          {0, 0.35},
}

// BottleInput is one submitted bottle entry of an FM-QA-23 submission.
type BottleInput struct {
	Weight      *float64 `json:"weight"`
	Volume      *float64 `json:"volume"`
	Shoulder    *float64 `json:"shoulder"`
	Body        *float64 `json:"body"`
	Bottom      *float64 `json:"bottom"`
	InnerMouth  *float64 `json:"inner_mouth"`
	Thread      *float64 `json:"thread"`
	MouthToRing *float64 `json:"mouth_to_ring"`
	NeckToRing  *float64 `json:"neck_to_ring"`
	RingGap     *float64 `json:"ring_gap"`
	NeckWidth   *float64 `json:"neck_width"`
	Tilt        *float64 `json:"tilt"`
	Remarks     string   `json:"remarks"`
}

func (b *BottleInput) measurements() map[string]*float64 {
	return map[string]*float64{
		"weight":        b.Weight,
		"volume":        b.Volume,
		"shoulder":      b.Shoulder,
		"body":          b.Body,
		"bottom":        b.Bottom,
		"inner_mouth":   b.InnerMouth,
		"thread":        b.Thread,
		"mouth_to_ring": b.MouthToRing,
		"neck_to_ring":  b.NeckToRing,
		"ring_gap":      b.RingGap,
		"neck_width":    b.NeckWidth,
		"tilt":          b.Tilt,
	}
}

// isEmpty reports whether the entry carries no measurements and no remarks.
// Fully empty entries are discarded, never persisted as empty rows.
func (b *BottleInput) isEmpty() bool {
	for _, v := range b.measurements() {
		if v != nil {
			return false
		}
	}
	return b.Remarks == ""
}

// bottleResult is pass iff every present measurement individually sits
// inside its specification range.
func bottleResult(b *BottleInput) string {
	for name, v := range b.measurements() {
		if v == nil {
			continue
		}
		spec, ok := bottleSpecs[name]
		if !ok {
			continue
		}
		if !meetsStandard(&spec.Min, &spec.Max, *v) {
			return entity.BottleFail
		}
	}
	return entity.BottlePass
}
