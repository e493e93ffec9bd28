package kernel

import "github.com/NickG-1/qlever/model"

// scoredContext is one (score, context) candidate kept by a per-entity
// top-k set. Ordering matches an ordered set keyed first on score, then
// on context — the same tie-break a std::set<pair<Score, ContextID>>
// gives for free. The word tuples accumulated at a given (entity,
// context) pair live alongside the set, not inside it: a context is
// only ever offered once per entity (on the posting that first
// introduces the pair), so there is nothing to tie-break on words.
type scoredContext struct {
	score model.Score
	cid   model.ContextID
}

func (a scoredContext) less(b scoredContext) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.cid < b.cid
}

// topKSet keeps at most k candidates, sorted ascending, evicting the
// minimum whenever a strictly larger candidate arrives at capacity. This
// mirrors a std::set<pair<Score, ContextID>> capped at size k.
type topKSet struct {
	k       int
	entries []scoredContext
}

func newTopKSet(k int) *topKSet {
	return &topKSet{k: k, entries: make([]scoredContext, 0, k)}
}

// Len returns the number of candidates currently held (<= k).
func (s *topKSet) Len() int { return len(s.entries) }

// Offer considers c for inclusion: it is kept outright while the set has
// room, or it replaces the current minimum once the set is full and c
// beats that minimum.
func (s *topKSet) Offer(c scoredContext) {
	if len(s.entries) < s.k {
		s.insert(c)
		return
	}
	if s.entries[0].less(c) {
		s.entries = s.entries[1:]
		s.insert(c)
	}
}

func (s *topKSet) insert(c scoredContext) {
	i := 0
	for i < len(s.entries) && s.entries[i].less(c) {
		i++
	}
	s.entries = append(s.entries, scoredContext{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = c
}

// Descending returns the held candidates from highest to lowest score,
// the order results are emitted in.
func (s *topKSet) Descending() []scoredContext {
	out := make([]scoredContext, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}
