package symbols

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewBaseTokens(t *testing.T) {
	table := New()

	if table.Len() != NumBaseTokens {
		t.Fatalf("Len() = %d, want %d", table.Len(), NumBaseTokens)
	}
	for i := 0; i < NumBaseTokens; i++ {
		b := table.BytesOf(i)
		if len(b) != 1 || b[0] != byte(i) {
			t.Errorf("BytesOf(%d) = %q, want the singleton byte", i, b)
		}
		id, ok := table.IDOf([]byte{byte(i)})
		if !ok || id != i {
			t.Errorf("IDOf(%q) = %d, %v, want %d, true", []byte{byte(i)}, id, ok, i)
		}
	}
}

func TestInternSpecial(t *testing.T) {
	table := New()

	id, err := table.InternSpecial([]byte("<|endoftext|>"))
	if err != nil {
		t.Fatalf("InternSpecial: %v", err)
	}
	if id != NumBaseTokens {
		t.Errorf("first special ID = %d, want %d", id, NumBaseTokens)
	}
	if !table.IsSpecial(id) {
		t.Errorf("IsSpecial(%d) = false, want true", id)
	}
	if table.IsSpecial(id + 1) {
		t.Errorf("IsSpecial(%d) = true, want false", id+1)
	}

	if _, err := table.InternSpecial([]byte("<|endoftext|>")); !errors.Is(err, ErrAlreadyInterned) {
		t.Errorf("duplicate special error = %v, want ErrAlreadyInterned", err)
	}
}

func TestRecordMerge(t *testing.T) {
	table := New()

	id, err := table.RecordMerge([]byte("a"), []byte("b"))
	if err != nil {
		t.Fatalf("RecordMerge: %v", err)
	}
	if got := table.BytesOf(id); !bytes.Equal(got, []byte("ab")) {
		t.Errorf("BytesOf(%d) = %q, want %q", id, got, "ab")
	}

	id2, err := table.RecordMerge([]byte("ab"), []byte("c"))
	if err != nil {
		t.Fatalf("RecordMerge on merged operand: %v", err)
	}
	if got := table.BytesOf(id2); !bytes.Equal(got, []byte("abc")) {
		t.Errorf("BytesOf(%d) = %q, want %q", id2, got, "abc")
	}
	if id2 <= id {
		t.Errorf("merge IDs not increasing: %d then %d", id, id2)
	}

	if _, err := table.RecordMerge([]byte("zz"), []byte("a")); !errors.Is(err, ErrNotInterned) {
		t.Errorf("merge of uninterned operand error = %v, want ErrNotInterned", err)
	}

	merges := table.Merges()
	if len(merges) != 2 {
		t.Fatalf("Merges() has %d entries, want 2", len(merges))
	}
	if !bytes.Equal(merges[1].Left, []byte("ab")) || !bytes.Equal(merges[1].Right, []byte("c")) {
		t.Errorf("merge 1 = (%q, %q), want (ab, c)", merges[1].Left, merges[1].Right)
	}
}

// Every assigned ID must keep round-tripping through the table, and every
// merge's operands must precede it.
func TestTableInvariants(t *testing.T) {
	table := New()
	if _, err := table.InternSpecial([]byte("<|s|>")); err != nil {
		t.Fatal(err)
	}
	pairs := [][2]string{
		{"l", "o"}, {"lo", "w"}, {"e", "r"}, {"low", "er"},
	}
	for _, p := range pairs {
		if _, err := table.RecordMerge([]byte(p[0]), []byte(p[1])); err != nil {
			t.Fatalf("RecordMerge(%q, %q): %v", p[0], p[1], err)
		}
	}

	for id := 0; id < table.Len(); id++ {
		got, ok := table.IDOf(table.BytesOf(id))
		if !ok || got != id {
			t.Errorf("IDOf(BytesOf(%d)) = %d, %v, want identity", id, got, ok)
		}
	}

	for rank, m := range table.Merges() {
		mergedID := NumBaseTokens + table.NumSpecials() + rank
		left, _ := table.IDOf(m.Left)
		right, _ := table.IDOf(m.Right)
		if left >= mergedID || right >= mergedID {
			t.Errorf("merge %d operands (%d, %d) not interned before it", rank, left, right)
		}
	}
}

func TestComparePairs(t *testing.T) {
	table := New()

	tests := []struct {
		name           string
		ax, ay, bx, by int
		want           int // sign of the result
	}{
		{"left_decides", 's', 't', 'e', 's', 1},
		{"right_decides", 'e', 's', 'e', 'w', -1},
		{"equal", 'a', 'b', 'a', 'b', 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.ComparePairs(tt.ax, tt.ay, tt.bx, tt.by)
			switch {
			case tt.want < 0 && got >= 0, tt.want > 0 && got <= 0, tt.want == 0 && got != 0:
				t.Errorf("ComparePairs = %d, want sign %d", got, tt.want)
			}
		})
	}
}
