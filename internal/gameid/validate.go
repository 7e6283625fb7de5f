package gameid

import "strconv"

// Known ESPN identifier ranges. Modern MLB game ids live in the
// primary range; some older seasons used the secondary range, and tiny
// values come from schedule exports rather than real box scores.
const (
	PrimaryMin int64 = 400000000
	PrimaryMax int64 = 500000000

	SecondaryMin int64 = 360000000
	SecondaryMax int64 = 399999999

	ScheduleMin int64 = 1
	ScheduleMax int64 = 99999
)

// Range labels where an identifier falls.
type Range string

const (
	RangePrimary   Range = "primary"
	RangeSecondary Range = "secondary"
	RangeSchedule  Range = "schedule"
	RangeInvalid   Range = "invalid"
)

// Validation is the outcome of a range check.
type Validation struct {
	ID     string
	Value  int64
	Valid  bool
	Range  Range
	Reason string
}

// Validate classifies an identifier. Non-numeric and out-of-range
// identifiers are invalid; schedule-range values are valid but carry a
// reason so callers can surface them.
func Validate(id string) Validation {
	v := Validation{ID: id, Range: RangeInvalid}
	if id == "" {
		v.Reason = "missing identifier"
		return v
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		v.Reason = "not numeric"
		return v
	}
	v.Value = n

	switch {
	case n >= PrimaryMin && n <= PrimaryMax:
		v.Valid = true
		v.Range = RangePrimary
	case n >= SecondaryMin && n <= SecondaryMax:
		v.Valid = true
		v.Range = RangeSecondary
	case n >= ScheduleMin && n <= ScheduleMax:
		v.Valid = true
		v.Range = RangeSchedule
		v.Reason = "schedule-range id, likely not a box score"
	default:
		v.Reason = "outside all known ESPN ranges"
	}
	return v
}
