package schedule

import (
	"sort"
	"time"
)

type calendar struct {
	instants []time.Time
}

// Calendar fires at each of the given instants and is exhausted after
// the last. The instants are sorted at construction; duplicates fire
// once.
func Calendar(instants ...time.Time) Schedule {
	sorted := make([]time.Time, len(instants))
	copy(sorted, instants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	return &calendar{instants: sorted}
}

func (s *calendar) Next(after time.Time) (time.Time, error) {
	i := sort.Search(len(s.instants), func(i int) bool {
		return s.instants[i].After(after)
	})
	if i == len(s.instants) {
		return time.Time{}, ErrExhausted
	}
	return s.instants[i], nil
}
