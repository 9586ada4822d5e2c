package bpe

// mergeNode is one symbol position in the pre-token being reduced.
type mergeNode struct {
	pos     int // original byte position, fixed for the node's lifetime
	id      int // current token ID at this position
	prev    *mergeNode
	next    *mergeNode
	deleted bool
}

// mergeCand is a queued merge: the pair (x, y) observed at the node when it
// was queued, and the rule it resolves to. The pair is re-checked on pop.
type mergeCand struct {
	rank   int
	pos    int
	merged int
	x, y   int
	left   *mergeNode
}

// mergeQueue implements a min-heap of merge candidates ordered by rank, then
// by position so equal-rank merges apply left to right.
type mergeQueue []mergeCand

func (pq mergeQueue) Len() int { return len(pq) }

func (pq mergeQueue) Less(i, j int) bool {
	if pq[i].rank != pq[j].rank {
		return pq[i].rank < pq[j].rank
	}
	return pq[i].pos < pq[j].pos
}

func (pq mergeQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *mergeQueue) Push(x interface{}) {
	*pq = append(*pq, x.(mergeCand))
}

func (pq *mergeQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	c := old[n-1]
	*pq = old[0 : n-1]
	return c
}

// newMergeQueue creates an empty candidate queue.
func newMergeQueue() *mergeQueue {
	return &mergeQueue{}
}
