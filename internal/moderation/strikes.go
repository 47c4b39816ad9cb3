package moderation

// Action is the account-level consequence derived from the cumulative strike
// total.
type Action string

const (
	ActionNone        Action = "none"
	ActionWarning     Action = "warning"
	ActionRestriction Action = "restriction"
	ActionSuspension  Action = "suspension"
)

// Policy holds the numeric moderation thresholds. The values are deployment
// configuration and must stay externally auditable; handlers expose them via
// the guidelines endpoint.
type Policy struct {
	// Cumulative strike totals at which each action tier begins.
	WarningThreshold     float64
	RestrictionThreshold float64
	SuspensionThreshold  float64

	// StrikeCap bounds the weight a single scan can add, applied after the
	// per-violation weights are summed.
	StrikeCap float64

	// Whole-day windows after which the expiry sweep lifts each gate.
	RestrictionDays int
	SuspensionDays  int

	// MaxContentLength is a defensive ceiling on scanned content, in bytes.
	MaxContentLength int
}

func DefaultPolicy() Policy {
	return Policy{
		WarningThreshold:     3,
		RestrictionThreshold: 6,
		SuspensionThreshold:  9,
		StrikeCap:            3.0,
		RestrictionDays:      3,
		SuspensionDays:       7,
		MaxContentLength:     10_000,
	}
}

// Tier maps a post-increment cumulative strike total to an action tier. Pure
// function of the total; there is no hysteresis beyond the thresholds.
func (p Policy) Tier(total float64) Action {
	switch {
	case total >= p.SuspensionThreshold:
		return ActionSuspension
	case total >= p.RestrictionThreshold:
		return ActionRestriction
	case total >= p.WarningThreshold:
		return ActionWarning
	default:
		return ActionNone
	}
}

// StrikeWeight sums the severity weight of every violation and caps the
// result. Categories absent from the catalog (the synthetic recidivism note)
// weigh as standard violations.
//
// The cap is applied after summing, not per category: five severe matches sum
// to 10 before capping.
func StrikeWeight(catalog *Catalog, violations []Violation, cap float64) float64 {
	var sum float64
	for _, v := range violations {
		if cat, ok := catalog.Category(v.Category); ok {
			sum += cat.Severity.Weight()
		} else {
			sum += SeverityStandard.Weight()
		}
	}
	if sum > cap {
		return cap
	}
	return sum
}
