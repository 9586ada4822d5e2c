// Package pairindex maintains the adjacency bookkeeping that drives the BPE
// training loop: per-pair occurrence counts, the occurrence positions needed
// to apply a merge in time proportional to the affected adjacencies, and the
// candidate queue that selects the next merge.
package pairindex

// Pair is an ordered adjacency of two symbol IDs.
type Pair struct {
	X, Y int
}

// Occ locates one adjacency: the record it lives in and the slot of the left
// symbol. Slots are stable for the lifetime of a record, so an Occ stays
// valid as an address even after the adjacency itself is gone.
type Occ struct {
	Rec  int32
	Slot int32
}

// Record is one unique pre-token's symbol sequence, weighted by corpus
// frequency. The sequence is an array-backed doubly linked list: merging
// never shifts slots, it relinks them. A consumed slot holds symbol -1.
type Record struct {
	Freq int64
	Syms []int32
	Next []int32
	Prev []int32
}

// Index is the synchronized pair of mappings count and positions, plus the
// records they refer to. It is owned by a single goroutine.
type Index struct {
	recs   []Record
	counts map[Pair]int64
	occs   map[Pair][]Occ
}

// New returns an empty index.
func New() *Index {
	return &Index{
		counts: make(map[Pair]int64),
		occs:   make(map[Pair][]Occ),
	}
}

// AddRecord appends a pre-token record and indexes its adjacencies. A
// sequence of length 1 (including inert special-token records) contributes
// nothing to the index.
func (ix *Index) AddRecord(syms []int, freq int64) {
	rec := Record{
		Freq: freq,
		Syms: make([]int32, len(syms)),
		Next: make([]int32, len(syms)),
		Prev: make([]int32, len(syms)),
	}
	for i, s := range syms {
		rec.Syms[i] = int32(s)
		rec.Next[i] = int32(i + 1)
		rec.Prev[i] = int32(i - 1)
	}
	if len(syms) > 0 {
		rec.Next[len(syms)-1] = -1
	}
	id := int32(len(ix.recs))
	ix.recs = append(ix.recs, rec)

	for i := 0; i+1 < len(syms); i++ {
		p := Pair{syms[i], syms[i+1]}
		ix.counts[p] += freq
		ix.occs[p] = append(ix.occs[p], Occ{Rec: id, Slot: int32(i)})
	}
}

// Count returns the current occurrence-weighted count of a pair.
func (ix *Index) Count(p Pair) int64 { return ix.counts[p] }

// Pairs calls fn for every pair with a recorded count. Iteration order is
// unspecified.
func (ix *Index) Pairs(fn func(p Pair, count int64)) {
	for p, c := range ix.counts {
		fn(p, c)
	}
}

// NumRecords returns the number of records added.
func (ix *Index) NumRecords() int { return len(ix.recs) }

// Zero clears a pair's count and drops its positions without touching any
// record. Used when a candidate must be discarded rather than applied.
func (ix *Index) Zero(p Pair) {
	ix.counts[p] = 0
	delete(ix.occs, p)
}

// Apply rewrites every live occurrence of p into the merged symbol and
// adjusts the neighbor pairs on both sides. Positions whose slots no longer
// hold (p.X, p.Y) are stale leftovers of earlier rewrites and are skipped;
// this also resolves overlapping occurrences of a self-pair run into the
// non-overlapping left-to-right merges.
//
// Apply returns the pairs whose counts changed, in no particular order, so
// the caller can requeue them. p's own count is zeroed.
func (ix *Index) Apply(p Pair, merged int) []Pair {
	occs := ix.occs[p]
	delete(ix.occs, p)

	x, y := int32(p.X), int32(p.Y)
	touched := make([]Pair, 0, len(occs)*2)

	for _, oc := range occs {
		rec := &ix.recs[oc.Rec]
		i := oc.Slot
		if rec.Syms[i] != x {
			continue
		}
		j := rec.Next[i]
		if j < 0 || rec.Syms[j] != y {
			continue
		}
		f := rec.Freq

		l := rec.Prev[i]
		r := rec.Next[j]

		if l >= 0 {
			old := Pair{int(rec.Syms[l]), p.X}
			ix.counts[old] -= f
			touched = append(touched, old)
		}
		if r >= 0 {
			old := Pair{p.Y, int(rec.Syms[r])}
			ix.counts[old] -= f
			touched = append(touched, old)
		}

		// Rewrite: the left slot becomes the merged symbol, the right slot is
		// unlinked and tombstoned.
		rec.Syms[i] = int32(merged)
		rec.Syms[j] = -1
		rec.Next[i] = r
		if r >= 0 {
			rec.Prev[r] = i
		}
		rec.Next[j] = -1
		rec.Prev[j] = -1

		if l >= 0 {
			nw := Pair{int(rec.Syms[l]), merged}
			ix.counts[nw] += f
			ix.occs[nw] = append(ix.occs[nw], Occ{Rec: oc.Rec, Slot: l})
			touched = append(touched, nw)
		}
		if r >= 0 {
			nw := Pair{merged, int(rec.Syms[r])}
			ix.counts[nw] += f
			ix.occs[nw] = append(ix.occs[nw], Occ{Rec: oc.Rec, Slot: i})
			touched = append(touched, nw)
		}
	}

	ix.counts[p] = 0
	return touched
}

// Sequence returns the live symbols of a record in order. Intended for tests
// and diagnostics.
func (ix *Index) Sequence(rec int) []int {
	if rec < 0 || rec >= len(ix.recs) {
		return nil
	}
	r := &ix.recs[rec]
	var out []int
	for i := int32(0); i >= 0 && int(i) < len(r.Syms); i = r.Next[i] {
		out = append(out, int(r.Syms[i]))
	}
	return out
}
