package gameid

import (
	"fmt"
	"strconv"
	"time"
)

// denyList holds identifiers confirmed fabricated during past manual
// audits. Anything here is treated as near-certainly bogus.
var denyList = map[int64]bool{
	401769356: true,
	401764563: true,
	401696251: true,
	401696252: true,
}

// Denied reports whether the identifier is on the confirmed-bad list.
func Denied(id string) bool {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false
	}
	return denyList[n]
}

// Context carries what is known about the record an identifier came
// from. Date is the record's YYYY-MM-DD date; UsageCount is how many
// distinct dates across the archive carry this identifier.
type Context struct {
	Date       string
	UsageCount int
}

// PatternAnalysis is the suspicion verdict for one identifier.
type PatternAnalysis struct {
	ID         string
	Validation Validation
	Suspicious bool
	Reasons    []string
	Confidence float64
}

// AnalyzePattern inspects an identifier's shape. Confidence starts at
// 1.0 and is lowered by each matching suspicion rule; the final value
// is how much the identifier can be trusted.
func AnalyzePattern(id string, ctx Context) PatternAnalysis {
	a := PatternAnalysis{
		ID:         id,
		Validation: Validate(id),
		Confidence: 1.0,
	}

	flag := func(confidence float64, reason string) {
		a.Suspicious = true
		a.Reasons = append(a.Reasons, reason)
		if confidence < a.Confidence {
			a.Confidence = confidence
		}
	}

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		flag(0.2, a.Validation.Reason)
		return a
	}
	if !a.Validation.Valid {
		flag(0.2, a.Validation.Reason)
	}

	if denyList[n] {
		flag(0.1, "identifier on confirmed-fabricated list")
	}
	if n > 0 && n < 1000 {
		flag(0.3, "placeholder-sized identifier")
	}
	if looksLikeDate(n) {
		flag(0.2, "identifier shaped like a YYYYMMDD date")
	}
	if year, ok := estimatedYear(n); ok && ctx.Date != "" {
		if recordYear, err := yearOf(ctx.Date); err == nil {
			if diff := year - recordYear; diff > 2 || diff < -2 {
				flag(0.4, fmt.Sprintf("identifier implies season %d, record is from %d", year, recordYear))
			}
		}
	}
	if ctx.UsageCount > 1 {
		flag(0.3, fmt.Sprintf("identifier reused across %d dates", ctx.UsageCount))
	}
	return a
}

// estimatedYear derives the approximate season from a primary-range
// identifier. ESPN allocates roughly ten thousand ids per season
// starting around 2020.
func estimatedYear(n int64) (int, bool) {
	if n < PrimaryMin || n > PrimaryMax {
		return 0, false
	}
	return int((n-PrimaryMin)/10000) + 2020, true
}

// looksLikeDate reports whether an 8-digit value reads as a plausible
// YYYYMMDD calendar date.
func looksLikeDate(n int64) bool {
	if n < 19000101 || n > 21001231 {
		return false
	}
	month := (n / 100) % 100
	day := n % 100
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func yearOf(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}
