package provider

import "strings"

// categoryKeywords maps a coarse post category to topic keywords. The
// same lists feed the mock provider's keyword picks.
var categoryKeywords = map[string][]string{
	"경제": {"물가", "금리", "투자", "소비", "예산"},
	"문화": {"전시", "공연", "책", "영화", "취향"},
	"연예": {"컴백", "예능", "드라마", "배우", "팬"},
	"유머": {"밈", "웃김", "드립", "반전", "썰"},
}

// categoryOrder fixes the lookup order so inference is deterministic.
var categoryOrder = []string{"경제", "문화", "연예", "유머"}

// DefaultCategory is used when no keyword list matches the topic.
const DefaultCategory = "일상"

// InferCategory maps free topic text to a coarse category by keyword
// lookup. Best-effort default, not a classifier; the scheduler only ever
// sees the result through the generator interface.
func InferCategory(topic string) string {
	for _, category := range categoryOrder {
		if strings.Contains(topic, category) {
			return category
		}
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(topic, keyword) {
				return category
			}
		}
	}
	return DefaultCategory
}
