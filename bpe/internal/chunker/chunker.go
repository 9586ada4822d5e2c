// Package chunker partitions a corpus into byte ranges that can be
// pre-tokenized independently.
//
// Interior boundaries are aligned to special-token occurrences, so a range
// either begins on a special token or contains none that a neighboring range
// would also need to see.
package chunker

import "bytes"

// windowSize is how far ahead each boundary scan reads per step.
const windowSize = 4096

// Boundaries returns sorted, deduplicated offsets 0 = b0 < b1 < ... < bM =
// len(data) with M <= desired. Each interior boundary is advanced from its
// uniform guess to the earliest offset at which any special token begins; a
// guess with no special token before EOF collapses into the final boundary.
//
// With no special tokens the uniform guesses are returned as-is.
func Boundaries(data []byte, desired int, specials [][]byte) []int {
	if desired < 1 {
		desired = 1
	}
	size := len(data)
	guesses := make([]int, desired+1)
	for i := 1; i < desired; i++ {
		guesses[i] = i * (size / desired)
	}
	guesses[desired] = size

	if len(specials) > 0 {
		maxLen := 0
		for _, s := range specials {
			if len(s) > maxLen {
				maxLen = len(s)
			}
		}
		for i := 1; i < desired; i++ {
			guesses[i] = nextSpecialStart(data, guesses[i], specials, maxLen)
		}
	}

	return dedupSorted(guesses)
}

// nextSpecialStart scans forward from off in windowSize steps, carrying a
// maxLen-1 byte tail across steps so matches straddling a window edge are
// still found. It returns len(data) when no special token occurs at or after
// off.
func nextSpecialStart(data []byte, off int, specials [][]byte, maxLen int) int {
	overlap := maxLen - 1
	for pos := off; pos < len(data); pos += windowSize {
		winStart := pos - overlap
		if winStart < off {
			winStart = off
		}
		winEnd := pos + windowSize
		if winEnd > len(data) {
			winEnd = len(data)
		}
		window := data[winStart:winEnd]

		best := -1
		for _, s := range specials {
			if idx := bytes.Index(window, s); idx != -1 {
				abs := winStart + idx
				if best == -1 || abs < best {
					best = abs
				}
			}
		}
		if best != -1 {
			return best
		}
	}
	return len(data)
}

func dedupSorted(offsets []int) []int {
	// Guesses are produced in ascending order and only ever advanced, but a
	// late special token can leapfrog a later guess, so sort defensively.
	out := append([]int(nil), offsets...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	uniq := out[:1]
	for _, v := range out[1:] {
		if v != uniq[len(uniq)-1] {
			uniq = append(uniq, v)
		}
	}
	return uniq
}
