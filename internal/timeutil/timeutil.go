// Package timeutil formats timestamps for display in the household timezone.
package timeutil

import "time"

// DisplayLayout is dd/mm/yyyy hh:mm
const DisplayLayout = "02/01/2006 15:04"

// Formatter renders UTC timestamps in a fixed location
type Formatter struct {
	loc *time.Location
}

func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc}
}

// Format renders t in the formatter's location
func (f *Formatter) Format(t time.Time) string {
	return t.In(f.loc).Format(DisplayLayout)
}

// Parse reads a user-entered DisplayLayout date as local time
func (f *Formatter) Parse(s string) (time.Time, error) {
	return time.ParseInLocation(DisplayLayout, s, f.loc)
}

// Location returns the display location
func (f *Formatter) Location() *time.Location {
	return f.loc
}
