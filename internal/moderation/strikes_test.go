package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierBoundaries(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		total float64
		want  Action
	}{
		{0, ActionNone},
		{2.99, ActionNone},
		{3, ActionWarning},
		{5.99, ActionWarning},
		{6, ActionRestriction},
		{8.99, ActionRestriction},
		{9, ActionSuspension},
		{42, ActionSuspension},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Tier(tt.total), "total=%v", tt.total)
	}
}

func TestSeverityWeights(t *testing.T) {
	assert.Equal(t, 2.0, SeveritySevere.Weight())
	assert.Equal(t, 1.5, SeveritySerious.Weight())
	assert.Equal(t, 1.0, SeverityStandard.Weight())
}

func TestStrikeWeightBySeverity(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name       string
		violations []Violation
		want       float64
	}{
		{
			"single severe",
			[]Violation{{Category: CategoryHarmful}},
			2.0,
		},
		{
			"single serious",
			[]Violation{{Category: CategoryFraud}},
			1.5,
		},
		{
			"warning word is standard",
			[]Violation{{Category: CategoryWarningWord}},
			1.0,
		},
		{
			"recidivism note is standard",
			[]Violation{{Category: CategoryRecidivism}},
			1.0,
		},
		{
			"severe plus warning word",
			[]Violation{{Category: CategoryHarmful}, {Category: CategoryWarningWord}},
			3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StrikeWeight(catalog, tt.violations, DefaultPolicy().StrikeCap)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrikeWeightCapAfterSum(t *testing.T) {
	catalog := DefaultCatalog()

	// Five severe violations sum to 10 before the cap lands on 3.
	violations := []Violation{
		{Category: CategoryHarmful},
		{Category: CategoryHarmful},
		{Category: CategoryCybercrime},
		{Category: CategoryCybercrime},
		{Category: CategoryAdultContent},
	}

	got := StrikeWeight(catalog, violations, DefaultPolicy().StrikeCap)
	assert.Equal(t, 3.0, got)
}

func TestStrikeWeightNoViolations(t *testing.T) {
	got := StrikeWeight(DefaultCatalog(), nil, DefaultPolicy().StrikeCap)
	assert.Equal(t, 0.0, got)
}
