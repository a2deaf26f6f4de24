package goal

import (
	"time"
)

// Params defines the windowing used when reducing entries into a goal value.
type Params struct {
	// Location defines calendar days for daily goals.
	Location *time.Location

	// WeeklyWindow is the length of the rolling window for weekly goals.
	WeeklyWindow time.Duration
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Location:     time.UTC,
		WeeklyWindow: 7 * 24 * time.Hour,
	}
}

// NewParamsWithLocation returns the default params with daily windows
// computed in loc. A nil loc means UTC.
func NewParamsWithLocation(loc *time.Location) *Params {
	p := NewDefaultParams()
	if loc != nil {
		p.Location = loc
	}
	return p
}
