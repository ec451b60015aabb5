package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreForMood_DotProductOfMatchingTags(t *testing.T) {
	tags := map[string]float64{"peaceful": 1.0, "scenic": 0.5}

	score := ScoreForMood(tags, "Yên tĩnh & Thư giãn")

	assert.InDelta(t, 1.0*1.0+0.5*0.8, score, 1e-9)
}

func TestScoreForMood_UnrecognizedMoodYieldsZero(t *testing.T) {
	score := ScoreForMood(map[string]float64{"peaceful": 1.0}, "not a real mood")

	assert.Equal(t, 0.0, score)
}

func TestScoreForMood_MissingTagsContributeNothing(t *testing.T) {
	score := ScoreForMood(map[string]float64{"unrelated_tag": 5.0}, "Náo nhiệt & Xã hội")

	assert.Equal(t, 0.0, score)
}

func TestScore_EmptyMoodsYieldsZero(t *testing.T) {
	score := Score(map[string]float64{"peaceful": 1.0}, nil)

	assert.Equal(t, 0.0, score)
}

func TestScore_MaximizesAcrossSuppliedMoods(t *testing.T) {
	tags := map[string]float64{"festive": 1.0, "lively": 1.0}

	score := Score(tags, []string{"Yên tĩnh & Thư giãn", "Lễ hội & Sôi động"})

	assert.InDelta(t, 1.0+0.9, score, 1e-9)
}

func TestScore_AllUnrecognizedMoodsYieldsZero(t *testing.T) {
	score := Score(map[string]float64{"peaceful": 1.0}, []string{"bogus-a", "bogus-b"})

	assert.Equal(t, 0.0, score)
}

func TestLabels_HasTwelveFixedMoods(t *testing.T) {
	assert.Len(t, Labels, 12)
	for _, label := range Labels {
		assert.Contains(t, weights, label)
	}
}
