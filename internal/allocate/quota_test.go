package allocate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotaForDuration_ShortTrip(t *testing.T) {
	q := QuotaForDuration(1)

	assert.Equal(t, Quota{CoreMin: 2, CoreMax: 3, ActivityMax: 1, ResortMax: 1, FBMax: 1}, q)
}

func TestQuotaForDuration_MediumTrip(t *testing.T) {
	q := QuotaForDuration(3)

	assert.Equal(t, Quota{CoreMin: 2, CoreMax: 3, ActivityMax: 2, ResortMax: 1, FBMax: 1}, q)
}

func TestQuotaForDuration_LongTrip(t *testing.T) {
	q := QuotaForDuration(7)

	assert.Equal(t, Quota{CoreMin: 2, CoreMax: 2, ActivityMax: 1, ResortMax: 1, FBMax: 1}, q)
}
