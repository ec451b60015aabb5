// Package mood implements the emotional compatibility score (ECS): a
// fixed table of twelve mood labels, each a sparse weighted tag vector,
// scored against a POI's emotional-tag map.
package mood

// Labels enumerates the twelve fixed mood labels in a stable order.
var Labels = []string{
	"Yên tĩnh & Thư giãn",
	"Náo nhiệt & Xã hội",
	"Lãng mạn & Riêng tư",
	"Điểm thu hút khách du lịch",
	"Mạo hiểm & Thú vị",
	"Gia đình & Thoải mái",
	"Hiện đại & Sáng tạo",
	"Tâm linh & Tôn giáo",
	"Địa phương & Đích thực",
	"Cảnh quan thiên nhiên",
	"Lễ hội & Sôi động",
	"Ven biển & Nghỉ dưỡng",
}

// weights is the fixed mood-weight table. Positive weights favor a
// tag, negative weights penalize it; missing tags contribute 0.
var weights = map[string]map[string]float64{
	"Yên tĩnh & Thư giãn": {
		"peaceful": 1.0, "scenic": 0.8, "seaside": 0.7,
		"lively": -0.9, "festive": -0.8, "touristy": -0.7,
	},
	"Náo nhiệt & Xã hội": {
		"lively": 1.0, "festive": 0.9, "touristy": 0.7,
		"peaceful": -0.9, "spiritual": -0.6,
	},
	"Lãng mạn & Riêng tư": {
		"romantic": 1.0, "scenic": 0.8, "peaceful": 0.7,
		"lively": -0.9, "festive": -0.8, "touristy": -0.7,
	},
	"Điểm thu hút khách du lịch": {
		"touristy": 1.0, "lively": 0.8, "festive": 0.7,
		"local_gem": -0.8, "spiritual": -0.6,
	},
	"Mạo hiểm & Thú vị": {
		"adventurous": 1.0, "scenic": 0.8, "seaside": 0.7,
		"peaceful": -0.9, "spiritual": -0.7,
	},
	"Gia đình & Thoải mái": {
		"family-friendly": 1.0, "scenic": 0.8, "peaceful": 0.7,
		"adventurous": -0.8, "festive": -0.6,
	},
	"Hiện đại & Sáng tạo": {
		"modern": 1.0, "lively": 0.7, "adventurous": 0.5,
		"historical": -1.0, "spiritual": -0.8, "local_gem": -0.7,
	},
	"Tâm linh & Tôn giáo": {
		"spiritual": 1.0, "historical": 0.8, "peaceful": 0.7,
		"modern": -1.0, "adventurous": -0.7, "lively": -0.6,
	},
	"Địa phương & Đích thực": {
		"local_gem": 1.0, "historical": 0.8, "peaceful": 0.7,
		"touristy": -1.0, "modern": -0.8, "lively": -0.7,
	},
	"Cảnh quan thiên nhiên": {
		"scenic": 1.0, "peaceful": 0.9, "seaside": 0.8,
		"lively": -0.7, "festive": -0.6, "touristy": -0.5,
	},
	"Lễ hội & Sôi động": {
		"festive": 1.0, "lively": 0.9, "touristy": 0.7,
		"peaceful": -1.0, "scenic": -0.8, "spiritual": -0.6,
	},
	"Ven biển & Nghỉ dưỡng": {
		"seaside": 1.0, "scenic": 0.9, "peaceful": 0.8,
		"historical": -0.6, "spiritual": -0.5,
	},
}

// Score computes the emotional compatibility score for a tag map across
// one or more moods: the dot product of the tag map and each mood's
// weight vector, maximized across moods. An empty moods list yields 0.
func Score(tags map[string]float64, moods []string) float64 {
	if len(moods) == 0 {
		return 0
	}
	best := 0.0
	first := true
	for _, m := range moods {
		w, ok := weights[m]
		if !ok {
			continue
		}
		score := dot(tags, w)
		if first || score > best {
			best = score
			first = false
		}
	}
	if first {
		// none of the supplied moods matched the fixed table
		return 0
	}
	return best
}

// ScoreForMood computes the ECS for a single named mood, used by the
// function-quota allocator's per-day round-robin mood sort. An
// unrecognized mood yields 0.
func ScoreForMood(tags map[string]float64, mood string) float64 {
	w, ok := weights[mood]
	if !ok {
		return 0
	}
	return dot(tags, w)
}

func dot(tags map[string]float64, w map[string]float64) float64 {
	var sum float64
	for tag, weight := range w {
		if v, ok := tags[tag]; ok {
			sum += v * weight
		}
	}
	return sum
}
