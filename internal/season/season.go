package season

import "time"

// Season is one of the four meteorological season labels used throughout
// the historical datasets.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
)

// Valid reports whether s is one of the four known labels.
func (s Season) Valid() bool {
	switch s {
	case Winter, Spring, Summer, Autumn:
		return true
	}
	return false
}

// FromMonth maps a calendar month to its season:
// Dec-Feb winter, Mar-May spring, Jun-Aug summer, Sep-Nov autumn.
func FromMonth(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

// FromTime maps the month component of t to its season.
func FromTime(t time.Time) Season {
	return FromMonth(t.Month())
}
