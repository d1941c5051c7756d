package article

import "strings"

// FutureKeywords is the keyword set that pulls a document into the future view
// when found (case-insensitive substring) in any tag or in the title.
var FutureKeywords = []string{"future", "ai", "tech", "legal", "legal tech"}

const (
	categoryCareer = "career"
	categoryFuture = "future"
)

// IsFutureInsight reports whether doc belongs to the future-insights view:
// category "future", or a FutureKeywords match in a tag or the title.
func IsFutureInsight(doc Document) bool {
	if strings.EqualFold(strings.TrimSpace(doc.Category), categoryFuture) {
		return true
	}
	for _, tag := range doc.Tags {
		if containsKeyword(tag) {
			return true
		}
	}
	return containsKeyword(doc.Title)
}

// IsCareer reports whether doc belongs to the career view.
func IsCareer(doc Document) bool {
	return strings.EqualFold(strings.TrimSpace(doc.Category), categoryCareer)
}

func containsKeyword(s string) bool {
	s = strings.ToLower(s)
	for _, kw := range FutureKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
