package poi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimatedVisitDuration_ExplicitOverridesEverything(t *testing.T) {
	p := POI{VisitDurationMin: 15, EstimatedVisitMin: 999, Types: []string{"museum"}}

	assert.Equal(t, 15, p.EstimatedVisitDuration())
}

func TestEstimatedVisitDuration_EstimatedUsedWhenNoExplicit(t *testing.T) {
	p := POI{EstimatedVisitMin: 30, Types: []string{"museum"}}

	assert.Equal(t, 30, p.EstimatedVisitDuration())
}

func TestEstimatedVisitDuration_TypeTableLookup(t *testing.T) {
	p := POI{Types: []string{"beach"}}

	assert.Equal(t, 120, p.EstimatedVisitDuration())
}

func TestEstimatedVisitDuration_CategoryHeuristicFallback(t *testing.T) {
	p := POI{Types: []string{"natural_feature_unlisted_variant"}}

	// not an exact table key, but contains "natural"
	assert.Equal(t, 75, p.EstimatedVisitDuration())
}

func TestEstimatedVisitDuration_DefaultWhenNothingMatches(t *testing.T) {
	p := POI{Types: []string{"unknown_type"}}

	assert.Equal(t, defaultVisitDurationMinutes, p.EstimatedVisitDuration())
}

func TestIsLodgingType(t *testing.T) {
	assert.True(t, POI{Types: []string{"Hotel"}}.IsLodgingType())
	assert.True(t, POI{Types: []string{"lodging"}}.IsLodgingType())
	assert.False(t, POI{Types: []string{"museum"}}.IsLodgingType())
}
