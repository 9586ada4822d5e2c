package bpe

import (
	"bytes"
	"regexp"
)

// pretokenRE is the GPT-2 pre-tokenization pattern, anchored for incremental
// matching. The original pattern's final two alternatives are `\s+(?!\S)|\s+`;
// RE2 has no lookahead, so the single `\s+` here is post-processed by
// scanNormal to reproduce the lookahead's effect.
var pretokenRE = regexp.MustCompile(`^(?:'(?:[sdmt]|ll|ve|re)| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+)`)

// Pretoken is one unit of pre-tokenized input. Merges never cross pre-token
// boundaries. Special pre-tokens are occurrences of declared special-token
// byte strings; everything else came out of the pre-tokenization regex.
type Pretoken struct {
	Special bool
	Bytes   []byte
}

// Pretokenize splits data into pre-tokens. The returned byte slices alias
// data. Special tokens are matched earliest-occurrence-first; when two
// specials begin at the same offset the longer one wins, so prefix-
// overlapping specials resolve to the longest match.
func Pretokenize(data []byte, specials [][]byte) []Pretoken {
	var out []Pretoken
	scanPretokens(data, specials, func(special bool, tok []byte) {
		out = append(out, Pretoken{Special: special, Bytes: tok})
	})
	return out
}

// scanPretokens is the callback form of Pretokenize, used on the training hot
// path to avoid building intermediate slices.
func scanPretokens(data []byte, specials [][]byte, emit func(special bool, tok []byte)) {
	pos := 0
	for pos < len(data) {
		start, tok := findSpecial(data, pos, specials)
		if start < 0 {
			scanNormal(data[pos:], emit)
			return
		}
		if start > pos {
			scanNormal(data[pos:start], emit)
		}
		emit(true, data[start:start+len(tok)])
		pos = start + len(tok)
	}
}

// findSpecial locates the earliest occurrence at or after pos of any special
// token. Ties at the same offset go to the longest token. Returns start -1
// when none occurs.
func findSpecial(data []byte, pos int, specials [][]byte) (int, []byte) {
	best := -1
	var bestTok []byte
	for _, s := range specials {
		if len(s) == 0 {
			continue
		}
		idx := bytes.Index(data[pos:], s)
		if idx < 0 {
			continue
		}
		abs := pos + idx
		if best == -1 || abs < best || (abs == best && len(s) > len(bestTok)) {
			best = abs
			bestTok = s
		}
	}
	return best, bestTok
}

// scanNormal emits the pre-tokens of a segment containing no special tokens.
// Every byte of the segment is covered by exactly one emitted pre-token; a
// position the regex cannot match degrades to a single-byte pre-token.
func scanNormal(seg []byte, emit func(special bool, tok []byte)) {
	pos := 0
	for pos < len(seg) {
		loc := pretokenRE.FindIndex(seg[pos:])
		if loc == nil || loc[1] == 0 {
			emit(false, seg[pos:pos+1])
			pos++
			continue
		}
		end := pos + loc[1]
		piece := seg[pos:end]
		// A whitespace run directly followed by a non-whitespace character
		// yields its final character to the following match, exactly as the
		// original `\s+(?!\S)` alternative backtracks. Runs of length one
		// cannot backtrack and stay whole.
		if len(piece) > 1 && end < len(seg) && isWhitespaceRun(piece) && !isSpaceByte(seg[end]) {
			piece = piece[:len(piece)-1]
			end--
		}
		emit(false, piece)
		pos = end
	}
}

// isSpaceByte mirrors RE2's \s class: [\t\n\f\r ]. Whitespace runs matched by
// the pattern consist solely of these single-byte characters.
func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func isWhitespaceRun(piece []byte) bool {
	for _, b := range piece {
		if !isSpaceByte(b) {
			return false
		}
	}
	return true
}
