package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for template lengths.

// Unit is the unit a length was written with in a template.
type Unit int

const (
	UnitNone    Unit = iota // unit-less numbers, treated as pixels for lengths
	UnitPX                  // logical pixels
	UnitPT                  // points
	UnitMM                  // millimeters
	UnitPercent             // percent of a reference length
)

// Conversion constants between pt and mm.
//
// The canvas backend works in millimeters and sizes fonts in points; the
// renderer treats one canvas millimeter as one logical pixel, so font sizes
// given in pixels go through MmToPt on the way in.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	PxPerPt = 96.0 / 72.0
	PxPerMm = 96.0 / 25.4
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// Px resolves the length to logical pixels; percentages use reference.
func (l Length) Px(reference float64) float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PxPerPt
	case UnitMM:
		return l.Value * PxPerMm
	case UnitPercent:
		return reference * l.Value / 100
	default:
		return l.Value
	}
}

// ParseLength parses a template length string preserving its unit.
// The second result is false when value is not a number.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"%", UnitPercent}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// ParseFactor parses a line-height factor such as "1.3" or "1.3x".
func ParseFactor(value string) (float64, bool) {
	v := strings.TrimSuffix(strings.TrimSpace(strings.ToLower(value)), "x")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}
