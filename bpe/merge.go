package bpe

import "container/heap"

// mergeReduce applies the learned merges to a pre-token. Adjacent pairs that
// appear in the rank table are merged smallest rank first, ties broken by the
// leftmost occurrence, until no adjacent pair is mergeable.
//
// The pre-token's symbols form a doubly linked list; candidates live in a
// priority queue keyed by (rank, position). A popped candidate is applied
// only if its slot still holds the pair it was queued for, so entries
// invalidated by earlier merges are skipped rather than relocated.
func (t *Tokenizer) mergeReduce(tok []byte) []int {
	if len(tok) == 0 {
		return nil
	}
	if len(tok) == 1 {
		return []int{int(tok[0])}
	}

	head := &mergeNode{pos: 0, id: int(tok[0])}
	prev := head
	pq := newMergeQueue()
	for i := 1; i < len(tok); i++ {
		node := &mergeNode{pos: i, id: int(tok[i]), prev: prev}
		prev.next = node
		t.queueCandidate(pq, prev)
		prev = node
	}

	for pq.Len() > 0 {
		cand := heap.Pop(pq).(mergeCand)
		left := cand.left
		if left.deleted || left.id != cand.x || left.next == nil || left.next.id != cand.y {
			continue
		}

		right := left.next
		left.id = cand.merged
		right.deleted = true
		left.next = right.next
		if right.next != nil {
			right.next.prev = left
		}

		if left.prev != nil {
			t.queueCandidate(pq, left.prev)
		}
		t.queueCandidate(pq, left)
	}

	result := make([]int, 0, 4)
	for node := head; node != nil; node = node.next {
		result = append(result, node.id)
	}
	return result
}

// queueCandidate queues the pair starting at left if the rank table can merge
// it.
func (t *Tokenizer) queueCandidate(pq *mergeQueue, left *mergeNode) {
	if left.next == nil {
		return
	}
	rule, ok := t.ranks[mergePair{left.id, left.next.id}]
	if !ok {
		return
	}
	heap.Push(pq, mergeCand{
		rank:   rule.rank,
		pos:    left.pos,
		merged: rule.id,
		x:      left.id,
		y:      left.next.id,
		left:   left,
	})
}
