package bpe

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yzxoi/bpekit/bpe/internal/chunker"
	"github.com/yzxoi/bpekit/bpe/internal/pairindex"
	"github.com/yzxoi/bpekit/bpe/internal/symbols"
)

// Merge is one learned merge: the byte strings of the two tokens whose
// concatenation was adopted into the vocabulary. The merges list in adoption
// order, together with the vocabulary, is the training output.
type Merge struct {
	Left  []byte
	Right []byte
}

// TrainStats reports corpus and timing figures for a training run.
type TrainStats struct {
	CorpusBytes     int64
	Chunks          int
	UniquePretokens int
	TotalPretokens  int64
	MergesLearned   int
	Cancelled       bool

	PretokenizeDuration time.Duration
	CountDuration       time.Duration
	MergeDuration       time.Duration
	TotalDuration       time.Duration
}

// TrainResult is the output of Train: the ID-indexed vocabulary, the merges
// in adoption order, and the declared special tokens.
type TrainResult struct {
	Vocab         [][]byte
	Merges        []Merge
	SpecialTokens []string
	Stats         TrainStats
}

// NewTokenizer builds a tokenizer from the training result.
func (r *TrainResult) NewTokenizer(opts ...TokenizerOption) (*Tokenizer, error) {
	return NewTokenizer(r.Vocab, r.Merges, r.SpecialTokens, opts...)
}

// Train learns a BPE merge table from the file at path until the vocabulary
// reaches vocabSize or no mergeable pair remains.
//
// The corpus is partitioned along special-token boundaries and pre-tokenized
// by a pool of workers sharing a read-only mapping of the file; the merge
// loop itself is single-threaded. Cancelling ctx stops the loop after the
// current merge; the partial result is valid and returned with
// Stats.Cancelled set.
func Train(ctx context.Context, path string, vocabSize int, specialTokens []string, opts ...TrainOption) (*TrainResult, error) {
	cfg := &trainConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.workers == 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}
	if cfg.chunks == 0 {
		cfg.chunks = cfg.workers
	}
	if vocabSize < symbols.NumBaseTokens+len(specialTokens) {
		return nil, NewConfigError("vocab_size", vocabSize, ErrVocabTooSmall)
	}

	started := time.Now()
	stats := TrainStats{}

	table := symbols.New()
	specialsBytes := make([][]byte, 0, len(specialTokens))
	for _, s := range specialTokens {
		if s == "" {
			return nil, NewConfigError("special_tokens", s, ErrInvalidToken)
		}
		if _, err := table.InternSpecial([]byte(s)); err != nil {
			return nil, NewConfigError("special_tokens", s, err)
		}
		specialsBytes = append(specialsBytes, []byte(s))
	}

	corpus, err := chunker.Open(path)
	if err != nil {
		return nil, NewDataError("open corpus", path, err)
	}
	defer corpus.Close()
	data := corpus.Bytes()
	stats.CorpusBytes = int64(len(data))

	// Without special tokens there are no alignment points, and chunk edges
	// would cut pre-tokens; the merge sequence must not depend on the
	// partitioning, so the whole corpus becomes one chunk.
	chunks := cfg.chunks
	if len(specialsBytes) == 0 {
		chunks = 1
	}
	boundaries := chunker.Boundaries(data, chunks, specialsBytes)
	stats.Chunks = len(boundaries) - 1

	phase := time.Now()
	freq := pretokenizeParallel(data, boundaries, specialsBytes, cfg.workers)
	stats.PretokenizeDuration = time.Since(phase)
	stats.UniquePretokens = len(freq)
	for _, f := range freq {
		stats.TotalPretokens += f
	}

	phase = time.Now()
	index := pairindex.New()
	for tok, f := range freq {
		index.AddRecord(recordSymbols(table, []byte(tok)), f)
	}
	queue := pairindex.NewQueue(func(a, b pairindex.Pair) int {
		return table.ComparePairs(a.X, a.Y, b.X, b.Y)
	})
	index.Pairs(func(p pairindex.Pair, count int64) {
		queue.Push(pairindex.Candidate{Count: count, Pair: p})
	})
	stats.CountDuration = time.Since(phase)

	phase = time.Now()
	target := vocabSize - table.Len()
loop:
	for table.Len() < vocabSize {
		select {
		case <-ctx.Done():
			stats.Cancelled = true
			break loop
		default:
		}

		cand, ok := queue.Pop()
		if !ok {
			break
		}
		count := index.Count(cand.Pair)
		if count == 0 || count != cand.Count {
			continue
		}
		x, y := cand.Pair.X, cand.Pair.Y
		if table.IsSpecial(x) || table.IsSpecial(y) {
			index.Zero(cand.Pair)
			continue
		}
		left, right := table.BytesOf(x), table.BytesOf(y)
		if left == nil || right == nil {
			return nil, NewDataError("train", path, fmt.Errorf("pair (%d, %d) references an unknown ID: %w", x, y, ErrCorrupt))
		}

		merged, err := table.RecordMerge(left, right)
		if err != nil {
			return nil, NewDataError("train", path, err)
		}
		for _, p := range index.Apply(cand.Pair, merged) {
			queue.Push(pairindex.Candidate{Count: index.Count(p), Pair: p})
		}

		if cfg.progress != nil {
			cfg.progress(len(table.Merges()), target)
		}
	}
	stats.MergeDuration = time.Since(phase)
	stats.TotalDuration = time.Since(started)

	tableMerges := table.Merges()
	stats.MergesLearned = len(tableMerges)
	merges := make([]Merge, len(tableMerges))
	for i, m := range tableMerges {
		merges[i] = Merge{Left: m.Left, Right: m.Right}
	}
	vocab := make([][]byte, table.Len())
	copy(vocab, table.Tokens())

	return &TrainResult{
		Vocab:         vocab,
		Merges:        merges,
		SpecialTokens: append([]string(nil), specialTokens...),
		Stats:         stats,
	}, nil
}

// recordSymbols maps a pre-token's bytes to its initial symbol sequence: the
// single special-token ID when the whole byte string is a declared special
// (an inert record the merge loop never rewrites), otherwise one singleton ID
// per byte.
func recordSymbols(table *symbols.Table, tok []byte) []int {
	if id, ok := table.IDOf(tok); ok && table.IsSpecial(id) {
		return []int{id}
	}
	syms := make([]int, len(tok))
	for i, b := range tok {
		syms[i] = int(b)
	}
	return syms
}

// pretokenizeParallel distributes the chunk ranges over a worker pool and
// sums the per-worker pre-token frequency tables. Workers only read the
// shared corpus bytes; merging by byte-string key makes the aggregate
// independent of chunk assignment.
func pretokenizeParallel(data []byte, boundaries []int, specials [][]byte, workers int) map[string]int64 {
	jobs := make(chan [2]int, len(boundaries))
	results := make(chan map[string]int64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make(map[string]int64)
			for r := range jobs {
				scanPretokens(data[r[0]:r[1]], specials, func(_ bool, tok []byte) {
					local[string(tok)]++
				})
			}
			results <- local
		}()
	}

	for i := 0; i+1 < len(boundaries); i++ {
		jobs <- [2]int{boundaries[i], boundaries[i+1]}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	freq := make(map[string]int64)
	for local := range results {
		for tok, f := range local {
			freq[tok] += f
		}
	}
	return freq
}
