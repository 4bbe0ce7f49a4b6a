// Package measurement parses free-form blood pressure readings typed by users.
package measurement

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	SystolicMin  = 60
	SystolicMax  = 300
	DiastolicMin = 30
	DiastolicMax = 200
	PulseMin     = 30
	PulseMax     = 250
)

// Two or three 2-3 digit numbers separated by any run of '/', '-', ',' or whitespace.
var shorthandRegex = regexp.MustCompile(`^(\d{2,3})[/\s,-]+(\d{2,3})(?:[/\s,-]+(\d{2,3}))?$`)

type Reading struct {
	Systolic  int
	Diastolic int
	Pulse     *int
}

func (r Reading) HasPulse() bool {
	return r.Pulse != nil
}

// Parse reads inputs such as "120/80", "120 80 75" or "120-80-75". It returns
// false for anything outside the grammar, out of range, or with a systolic value
// not strictly greater than the diastolic one.
func Parse(input string) (Reading, bool) {
	match := shorthandRegex.FindStringSubmatch(strings.TrimSpace(input))
	if match == nil {
		return Reading{}, false
	}

	systolic, _ := strconv.Atoi(match[1])
	diastolic, _ := strconv.Atoi(match[2])

	if !InRange(systolic, SystolicMin, SystolicMax) {
		return Reading{}, false
	}
	if !InRange(diastolic, DiastolicMin, DiastolicMax) {
		return Reading{}, false
	}
	if systolic <= diastolic {
		return Reading{}, false
	}

	reading := Reading{Systolic: systolic, Diastolic: diastolic}
	if match[3] != "" {
		pulse, _ := strconv.Atoi(match[3])
		if !InRange(pulse, PulseMin, PulseMax) {
			return Reading{}, false
		}
		reading.Pulse = &pulse
	}

	return reading, true
}

// ParseInt reads a single whole-number answer. Surrounding whitespace is allowed,
// anything else is not.
func ParseInt(input string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, false
	}
	return n, true
}

func InRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
