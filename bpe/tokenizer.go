package bpe

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yzxoi/bpekit/bpe/internal/symbols"
)

// Tokenizer applies a learned merge table to text.
type Tokenizer struct {
	vocab      [][]byte
	ids        map[string]int
	ranks      map[mergePair]mergeRule
	numMerges  int
	specials   [][]byte       // declared specials, longest-match split targets
	specialIDs map[string]int // declared specials present in the vocabulary
	specialSet map[int]bool

	// Cache for per-pretoken merge results
	cache     bpeCache
	cacheSize int
}

// mergePair keys the rank table by the symbol IDs of a merge's operands.
type mergePair struct {
	x, y int
}

// mergeRule is the outcome of a merge: its rank in the learned order and the
// ID of the merged token.
type mergeRule struct {
	rank int
	id   int
}

// bpeCache defines the interface for per-pretoken result caching.
type bpeCache interface {
	get(key string) ([]int, bool)
	put(key string, value []int)
}

// NewTokenizer builds a tokenizer from an ID-indexed vocabulary, the merges
// in adoption order, and the declared special tokens.
//
// The vocabulary must reserve IDs 0-255 for the singleton bytes. Every merge
// operand and its concatenation must be present in the vocabulary; a merge
// that is not is a consistency error. A declared special token missing from
// the vocabulary is tolerated: its occurrences are encoded as ordinary text.
func NewTokenizer(vocab [][]byte, merges []Merge, specialTokens []string, opts ...TokenizerOption) (*Tokenizer, error) {
	config := &tokenizerConfig{cacheSize: defaultCacheSize}
	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if len(vocab) < symbols.NumBaseTokens {
		return nil, NewDataError("load vocabulary", "", fmt.Errorf("%d tokens: %w", len(vocab), ErrCorrupt))
	}
	for i := 0; i < symbols.NumBaseTokens; i++ {
		if len(vocab[i]) != 1 || vocab[i][0] != byte(i) {
			return nil, NewDataError("load vocabulary", "", fmt.Errorf("ID %d is not the singleton byte: %w", i, ErrCorrupt))
		}
	}

	t := &Tokenizer{
		vocab:      vocab,
		ids:        make(map[string]int, len(vocab)),
		ranks:      make(map[mergePair]mergeRule, len(merges)),
		numMerges:  len(merges),
		specialIDs: make(map[string]int, len(specialTokens)),
		specialSet: make(map[int]bool, len(specialTokens)),
		cacheSize:  config.cacheSize,
	}
	if t.cacheSize == 0 {
		t.cache = &simpleCache{cache: make(map[string][]int)}
	} else {
		t.cache = newLRUCache(t.cacheSize)
	}

	for id, tok := range vocab {
		if _, ok := t.ids[string(tok)]; !ok {
			t.ids[string(tok)] = id
		}
	}

	for rank, m := range merges {
		x, ok := t.ids[string(m.Left)]
		if !ok {
			return nil, NewDataError("load merges", "", fmt.Errorf("merge %d left operand %q: %w", rank, m.Left, ErrTokenNotFound))
		}
		y, ok := t.ids[string(m.Right)]
		if !ok {
			return nil, NewDataError("load merges", "", fmt.Errorf("merge %d right operand %q: %w", rank, m.Right, ErrTokenNotFound))
		}
		merged := string(m.Left) + string(m.Right)
		id, ok := t.ids[merged]
		if !ok {
			return nil, NewDataError("load merges", "", fmt.Errorf("merge %d result %q: %w", rank, merged, ErrTokenNotFound))
		}
		key := mergePair{x, y}
		if _, dup := t.ranks[key]; !dup {
			t.ranks[key] = mergeRule{rank: rank, id: id}
		}
	}

	for _, s := range specialTokens {
		b := []byte(s)
		t.specials = append(t.specials, b)
		if id, ok := t.ids[s]; ok {
			t.specialIDs[s] = id
			t.specialSet[id] = true
		}
	}

	return t, nil
}

// Encode converts text into a sequence of token IDs. Declared special tokens
// are emitted as their single IDs; all other text is pre-tokenized and merge-
// reduced pre-token by pre-token, so the output is the concatenation of the
// per-pre-token encodings.
func (t *Tokenizer) Encode(text string) []int {
	output := make([]int, 0, len(text)/2+1)
	scanPretokens([]byte(text), t.specials, func(special bool, tok []byte) {
		if special {
			if id, ok := t.specialIDs[string(tok)]; ok {
				output = append(output, id)
				return
			}
			// Candidate special token not in the vocabulary: downgrade to
			// ordinary text.
		}
		output = append(output, t.encodePretoken(tok)...)
	})
	return output
}

// encodePretoken encodes one pre-token, consulting the cache and the
// whole-token vocabulary before running the merge reduction.
func (t *Tokenizer) encodePretoken(tok []byte) []int {
	key := string(tok)
	if cached, ok := t.cache.get(key); ok {
		return cached
	}
	var result []int
	if id, ok := t.ids[key]; ok {
		result = []int{id}
	} else {
		result = t.mergeReduce(tok)
	}
	t.cache.put(key, result)
	return result
}

// Decode converts a sequence of token IDs back into text. Token bytes are
// concatenated and surfaced as UTF-8 with invalid sequences replaced by
// U+FFFD. An ID outside the vocabulary is an error.
func (t *Tokenizer) Decode(tokenIDs []int) (string, error) {
	buf := make([]byte, 0, len(tokenIDs)*3)
	for _, id := range tokenIDs {
		if id < 0 || id >= len(t.vocab) {
			return "", NewTokenIDError("decode", id, ErrInvalidTokenID)
		}
		buf = append(buf, t.vocab[id]...)
	}
	return strings.ToValidUTF8(string(buf), string(utf8.RuneError)), nil
}

// VocabSize returns the size of the vocabulary including special tokens.
func (t *Tokenizer) VocabSize() int {
	return len(t.vocab)
}

// NumMerges returns the number of learned merges.
func (t *Tokenizer) NumMerges() int {
	return t.numMerges
}

// TokenBytes returns the byte string of a token ID.
func (t *Tokenizer) TokenBytes(id int) ([]byte, error) {
	if id < 0 || id >= len(t.vocab) {
		return nil, NewTokenIDError("token bytes", id, ErrInvalidTokenID)
	}
	return t.vocab[id], nil
}

// IDFor returns the ID interned for the given bytes.
func (t *Tokenizer) IDFor(tok []byte) (int, bool) {
	id, ok := t.ids[string(tok)]
	return id, ok
}

// IsSpecialID reports whether an ID belongs to a declared special token.
func (t *Tokenizer) IsSpecialID(id int) bool {
	return t.specialSet[id]
}

// SpecialTokens returns the declared special tokens in declaration order.
func (t *Tokenizer) SpecialTokens() []string {
	out := make([]string, len(t.specials))
	for i, s := range t.specials {
		out[i] = string(s)
	}
	return out
}
