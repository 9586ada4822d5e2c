package pairindex

import (
	"bytes"
	"reflect"
	"testing"
)

func syms(s string) []int {
	out := make([]int, len(s))
	for i := range s {
		out[i] = int(s[i])
	}
	return out
}

func TestAddRecordCounts(t *testing.T) {
	ix := New()
	ix.AddRecord(syms("abab"), 3)
	ix.AddRecord(syms("ab"), 2)
	ix.AddRecord(syms("x"), 7) // too short to contribute

	tests := []struct {
		name string
		pair Pair
		want int64
	}{
		{"ab", Pair{'a', 'b'}, 8},
		{"ba", Pair{'b', 'a'}, 3},
		{"missing", Pair{'x', 'y'}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ix.Count(tt.pair); got != tt.want {
				t.Errorf("Count(%v) = %d, want %d", tt.pair, got, tt.want)
			}
		})
	}
}

func TestApplyRewritesAndNeighbors(t *testing.T) {
	ix := New()
	ix.AddRecord(syms("xaby"), 5)

	const merged = 1000
	touched := ix.Apply(Pair{'a', 'b'}, merged)

	if got := ix.Sequence(0); !reflect.DeepEqual(got, []int{'x', merged, 'y'}) {
		t.Fatalf("Sequence = %v, want [x %d y]", got, merged)
	}
	if got := ix.Count(Pair{'a', 'b'}); got != 0 {
		t.Errorf("merged pair count = %d, want 0", got)
	}
	if got := ix.Count(Pair{'x', 'a'}); got != 0 {
		t.Errorf("old left pair count = %d, want 0", got)
	}
	if got := ix.Count(Pair{'b', 'y'}); got != 0 {
		t.Errorf("old right pair count = %d, want 0", got)
	}
	if got := ix.Count(Pair{'x', merged}); got != 5 {
		t.Errorf("new left pair count = %d, want 5", got)
	}
	if got := ix.Count(Pair{merged, 'y'}); got != 5 {
		t.Errorf("new right pair count = %d, want 5", got)
	}

	want := map[Pair]bool{
		{'x', 'a'}: true, {'b', 'y'}: true,
		{'x', merged}: true, {merged, 'y'}: true,
	}
	for _, p := range touched {
		if !want[p] {
			t.Errorf("unexpected touched pair %v", p)
		}
		delete(want, p)
	}
	if len(want) != 0 {
		t.Errorf("touched pairs missing %v", want)
	}
}

// Overlapping occurrences of a self-pair must resolve into the
// non-overlapping left-to-right merges of the run.
func TestApplySelfPairRun(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int
	}{
		{"even_run", "aaaa", []int{500, 500}},
		{"odd_run", "aaaaa", []int{500, 500, 'a'}},
		{"run_of_three", "aaa", []int{500, 'a'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := New()
			ix.AddRecord(syms(tt.in), 1)
			ix.Apply(Pair{'a', 'a'}, 500)
			if got := ix.Sequence(0); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sequence = %v, want %v", got, tt.want)
			}
		})
	}
}

// Chained merges through stale positions: applying a second merge must skip
// occurrences consumed by the first.
func TestApplyStalePositions(t *testing.T) {
	ix := New()
	ix.AddRecord(syms("abc"), 2)

	ix.Apply(Pair{'a', 'b'}, 600)
	if got := ix.Count(Pair{600, 'c'}); got != 2 {
		t.Fatalf("count(merged, c) = %d, want 2", got)
	}
	// The original (b, c) adjacency is gone; applying it must be a no-op.
	ix.Apply(Pair{'b', 'c'}, 601)
	if got := ix.Sequence(0); !reflect.DeepEqual(got, []int{600, 'c'}) {
		t.Errorf("Sequence = %v, want [600 c]", got)
	}

	ix.Apply(Pair{600, 'c'}, 602)
	if got := ix.Sequence(0); !reflect.DeepEqual(got, []int{602}) {
		t.Errorf("Sequence = %v, want [602]", got)
	}
}

// Between merge steps every pair with a positive count must have at least one
// live adjacency recorded in its positions.
func TestCoherenceAfterApply(t *testing.T) {
	ix := New()
	ix.AddRecord(syms("the theme"), 4)
	ix.AddRecord(syms("then"), 1)

	ix.Apply(Pair{'t', 'h'}, 700)
	ix.Apply(Pair{700, 'e'}, 701)

	ix.Pairs(func(p Pair, count int64) {
		if count <= 0 {
			return
		}
		live := int64(0)
		for rec := 0; rec < ix.NumRecords(); rec++ {
			seq := ix.Sequence(rec)
			for i := 0; i+1 < len(seq); i++ {
				if seq[i] == p.X && seq[i+1] == p.Y {
					live++
				}
			}
		}
		if live == 0 {
			t.Errorf("pair %v has count %d but no live adjacency", p, count)
		}
	})
}

func TestQueueOrdering(t *testing.T) {
	bytesOf := func(id int) []byte { return []byte{byte(id)} }
	q := NewQueue(func(a, b Pair) int {
		if c := bytes.Compare(bytesOf(a.X), bytesOf(b.X)); c != 0 {
			return c
		}
		return bytes.Compare(bytesOf(a.Y), bytesOf(b.Y))
	})

	q.Push(Candidate{Count: 9, Pair: Pair{'e', 's'}})
	q.Push(Candidate{Count: 9, Pair: Pair{'s', 't'}})
	q.Push(Candidate{Count: 12, Pair: Pair{'a', 'b'}})
	q.Push(Candidate{Count: 3, Pair: Pair{'z', 'z'}})

	want := []Pair{{'a', 'b'}, {'s', 't'}, {'e', 's'}, {'z', 'z'}}
	for i, w := range want {
		c, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d: queue empty", i)
		}
		if c.Pair != w {
			t.Errorf("Pop %d = %v, want %v", i, c.Pair, w)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue reported ok")
	}
}
