package pairindex

import "container/heap"

// Candidate is a queued merge candidate: a pair and the count it carried when
// pushed. A candidate whose count no longer matches the index is stale and is
// discarded on pop.
type Candidate struct {
	Count int64
	Pair  Pair
}

// Queue is a max-heap of merge candidates. Ordering is by count, and among
// equal counts by the pair's byte tuple with the greater tuple first, so the
// popped head is always the winning candidate of the current maximum. Updates
// push fresh entries rather than relocating old ones.
type Queue struct {
	h candidateHeap
}

// NewQueue returns a queue whose tie-breaking consults compare, which must
// order two pairs by their byte tuples (negative when the first orders
// before the second).
func NewQueue(compare func(a, b Pair) int) *Queue {
	return &Queue{h: candidateHeap{compare: compare}}
}

// Push queues a candidate.
func (q *Queue) Push(c Candidate) {
	heap.Push(&q.h, c)
}

// Pop removes and returns the best candidate.
func (q *Queue) Pop() (Candidate, bool) {
	if len(q.h.items) == 0 {
		return Candidate{}, false
	}
	return heap.Pop(&q.h).(Candidate), true
}

// Len returns the number of queued candidates, stale entries included.
func (q *Queue) Len() int { return len(q.h.items) }

type candidateHeap struct {
	items   []Candidate
	compare func(a, b Pair) int
}

func (h *candidateHeap) Len() int { return len(h.items) }

func (h *candidateHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return h.compare(a.Pair, b.Pair) > 0
}

func (h *candidateHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *candidateHeap) Push(x any) {
	h.items = append(h.items, x.(Candidate))
}

func (h *candidateHeap) Pop() any {
	old := h.items
	n := len(old)
	c := old[n-1]
	h.items = old[:n-1]
	return c
}
