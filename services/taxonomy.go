package services

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/vnkhanh/smart-flashcard-backend/models"
)

// SubjectKeywords is one taxonomy entry.
type SubjectKeywords struct {
	Subject  models.Subject `json:"name"`
	Keywords []string       `json:"keywords"`
}

// Taxonomy is the ordered subject -> keyword table. It is read-only once built,
// so a single instance is shared by every request. Entry order is the
// tie-break order for keyword classification.
type Taxonomy struct {
	entries []SubjectKeywords
	bySlug  map[string]models.Subject
	byLower map[string]models.Subject
}

func NewTaxonomy(entries ...SubjectKeywords) *Taxonomy {
	t := &Taxonomy{
		entries: make([]SubjectKeywords, 0, len(entries)),
		bySlug:  make(map[string]models.Subject, len(entries)+1),
		byLower: make(map[string]models.Subject, len(entries)),
	}
	for _, e := range entries {
		if e.Subject == "" || e.Subject == models.SubjectOther {
			continue
		}
		if _, dup := t.byLower[strings.ToLower(string(e.Subject))]; dup {
			continue
		}
		seen := make(map[string]struct{}, len(e.Keywords))
		keywords := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
		t.entries = append(t.entries, SubjectKeywords{Subject: e.Subject, Keywords: keywords})
		t.bySlug[slug.Make(string(e.Subject))] = e.Subject
		t.byLower[strings.ToLower(string(e.Subject))] = e.Subject
	}
	t.bySlug[slug.Make(string(models.SubjectOther))] = models.SubjectOther
	return t
}

var defaultTaxonomy = NewTaxonomy(
	SubjectKeywords{Subject: models.SubjectPhysics, Keywords: []string{
		"force", "mass", "acceleration", "velocity", "displacement", "energy", "work",
		"power", "momentum", "collision", "rotation", "torque", "gravity", "temperature",
		"heat", "thermodynamics", "charge", "electric", "field", "potential", "current",
		"resistance", "magnetic", "wave", "light", "reflection", "refraction", "optical",
		"atom", "nucleus", "radiation", "semiconductor", "newton", "law", "motion",
	}},
	SubjectKeywords{Subject: models.SubjectChemistry, Keywords: []string{
		"atom", "molecule", "element", "compound", "reaction", "bond", "acid", "base",
		"equilibrium", "thermodynamics", "kinetics", "redox", "periodic", "ion", "gas",
		"liquid", "solid", "hydrocarbon", "functional", "alcohol", "aldehyde", "ketone",
		"amine", "isomer", "biomolecule", "polymer", "chemical", "formula", "solution",
		"mole", "molar", "grams", "oxygen", "hydrogen", "carbon", "nitrogen", "organic",
	}},
	SubjectKeywords{Subject: models.SubjectMathematics, Keywords: []string{
		"equation", "function", "limit", "derivative", "integral", "matrix", "vector",
		"probability", "geometry", "trigonometry", "sequence", "series", "quadratic",
		"circle", "parabola", "angle", "sine", "cosine", "tangent", "determinant",
		"coordinate", "algebra", "calculus", "theorem", "proof", "variable",
	}},
	SubjectKeywords{Subject: models.SubjectBiology, Keywords: []string{
		"cell", "tissue", "organ", "gene", "dna", "rna", "protein", "enzyme", "hormone",
		"photosynthesis", "respiration", "reproduction", "evolution", "ecosystem",
		"biodiversity", "circulation", "digestion", "excretion", "nervous", "kingdom",
		"virus", "bacteria", "plant", "animal", "organism", "species", "mitosis",
	}},
)

// DefaultTaxonomy returns the process-wide taxonomy: Physics, Chemistry,
// Mathematics and Biology, in that order.
func DefaultTaxonomy() *Taxonomy { return defaultTaxonomy }

func (t *Taxonomy) Entries() []SubjectKeywords {
	out := make([]SubjectKeywords, len(t.entries))
	for i, e := range t.entries {
		out[i] = SubjectKeywords{Subject: e.Subject, Keywords: append([]string(nil), e.Keywords...)}
	}
	return out
}

func (t *Taxonomy) Subjects() []models.Subject {
	out := make([]models.Subject, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Subject
	}
	return out
}

// Label maps a free-form label (e.g. a model reply) onto a canonical taxonomy
// subject, ignoring case. Other and unknown labels are rejected.
func (t *Taxonomy) Label(raw string) (models.Subject, bool) {
	s, ok := t.byLower[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// Resolve accepts a subject filter by name in any case or by exact slug and
// returns the canonical subject. Other resolves to the sentinel.
func (t *Taxonomy) Resolve(name string) (models.Subject, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	if s, ok := t.byLower[name]; ok {
		return s, true
	}
	s, ok := t.bySlug[name]
	return s, ok
}

// Slug is the URL form of a subject.
func (t *Taxonomy) Slug(subject models.Subject) string {
	return slug.Make(string(subject))
}
