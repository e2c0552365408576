package services

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/vnkhanh/smart-flashcard-backend/models"
)

// BalancedSampler draws a mixed-subject sample with per-subject quotas.
// The random source is guarded so one sampler can serve concurrent requests.
type BalancedSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBalancedSampler uses src for every shuffle. A nil src seeds a PCG from the
// runtime's entropy.
func NewBalancedSampler(src rand.Source) *BalancedSampler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &BalancedSampler{rng: rand.New(src)}
}

// Select returns at most limit cards. Cards are grouped by subject, each group
// and the group order are shuffled, and group i receives limit/g cards plus one
// while i < limit%g, clamped to the group's size. The concatenation is shuffled
// once more before being returned.
func (s *BalancedSampler) Select(cards []models.Flashcard, limit int) []models.Flashcard {
	if limit <= 0 || len(cards) == 0 {
		return []models.Flashcard{}
	}

	groups := make(map[models.Subject][]models.Flashcard)
	for _, c := range cards {
		groups[c.Subject] = append(groups[c.Subject], c)
	}
	// map order is random per process; sort so a seeded source is reproducible
	keys := make([]models.Subject, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		g := groups[k]
		s.rng.Shuffle(len(g), func(i, j int) { g[i], g[j] = g[j], g[i] })
	}
	s.rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	quotas := Quotas(limit, len(keys))
	selected := make([]models.Flashcard, 0, min(limit, len(cards)))
	for i, k := range keys {
		g := groups[k]
		selected = append(selected, g[:min(quotas[i], len(g))]...)
	}
	s.rng.Shuffle(len(selected), func(i, j int) { selected[i], selected[j] = selected[j], selected[i] })

	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// Quotas splits limit across groupCount positions: base = limit/groupCount for
// everyone, plus one for the first limit%groupCount positions.
func Quotas(limit, groupCount int) []int {
	if groupCount <= 0 {
		return nil
	}
	base, remainder := limit/groupCount, limit%groupCount
	out := make([]int, groupCount)
	for i := range out {
		out[i] = base
		if i < remainder {
			out[i]++
		}
	}
	return out
}
