package services

import (
	"strings"

	"github.com/vnkhanh/smart-flashcard-backend/models"
)

// KeywordScorer counts, per subject, how many distinct keywords occur in a
// text. Matching is plain substring matching on the lowercased text, so
// "atom" also hits "atomic" and keywords shared by two subjects score for both.
type KeywordScorer struct {
	taxonomy *Taxonomy
}

func NewKeywordScorer(t *Taxonomy) *KeywordScorer {
	if t == nil {
		t = DefaultTaxonomy()
	}
	return &KeywordScorer{taxonomy: t}
}

// Score returns a count for every taxonomy subject, zero included.
func (s *KeywordScorer) Score(text string) map[models.Subject]int {
	lower := strings.ToLower(text)
	scores := make(map[models.Subject]int, len(s.taxonomy.entries))
	for _, e := range s.taxonomy.entries {
		n := 0
		for _, kw := range e.Keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		scores[e.Subject] = n
	}
	return scores
}
