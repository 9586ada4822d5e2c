// Package bpe implements a byte-level Byte-Pair Encoding tokenizer: training
// a merge table from a text corpus, and encoding/decoding text with a learned
// merge table.
//
// Training partitions the corpus along special-token boundaries, pre-tokenizes
// the chunks in parallel with a GPT-2-style byte regex, and then runs an
// incremental merge loop whose per-merge cost is proportional to the affected
// adjacencies rather than to the corpus:
//
//	res, err := bpe.Train(ctx, "corpus.txt", 32000, []string{"<|endoftext|>"})
//	if err != nil {
//	    return err
//	}
//	tok, err := res.NewTokenizer()
//
// A trained tokenizer round-trips text:
//
//	ids := tok.Encode("Hello, world!")
//	text, err := tok.Decode(ids)
//
// Vocabulary and merges persist as vocab.json and merges.txt; see SaveVocabulary,
// SaveMerges and Load.
package bpe
