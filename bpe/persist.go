package bpe

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SaveVocabulary writes the ID-indexed vocabulary as a JSON object mapping
// each ID's decimal string to the escaped token text.
func SaveVocabulary(path string, vocab [][]byte) error {
	m := make(map[string]string, len(vocab))
	for id, tok := range vocab {
		m[strconv.Itoa(id)] = escapeToken(tok)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return NewDataError("marshal vocabulary", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return NewDataError("write vocabulary", path, err)
	}
	return nil
}

// LoadVocabulary reads a vocabulary file written by SaveVocabulary. IDs must
// be dense: every ID in [0, n) present exactly once.
func LoadVocabulary(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDataError("read vocabulary", path, err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, NewDataError("parse vocabulary", path, err)
	}

	vocab := make([][]byte, len(m))
	seen := make([]bool, len(m))
	for key, text := range m {
		id, err := strconv.Atoi(key)
		if err != nil || id < 0 || id >= len(m) {
			return nil, NewDataError("parse vocabulary", path, fmt.Errorf("ID %q: %w", key, ErrCorrupt))
		}
		if seen[id] {
			return nil, NewDataError("parse vocabulary", path, fmt.Errorf("duplicate ID %d: %w", id, ErrCorrupt))
		}
		tok, err := unescapeToken(text)
		if err != nil {
			return nil, NewDataError("parse vocabulary", path, err)
		}
		vocab[id] = tok
		seen[id] = true
	}
	return vocab, nil
}

// SaveMerges writes the merges in adoption order, one per line, the two
// operands escaped and separated by a single space. No header line.
func SaveMerges(path string, merges []Merge) error {
	f, err := os.Create(path)
	if err != nil {
		return NewDataError("write merges", path, err)
	}
	w := bufio.NewWriter(f)
	for _, m := range merges {
		fmt.Fprintf(w, "%s %s\n", escapeToken(m.Left), escapeToken(m.Right))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return NewDataError("write merges", path, err)
	}
	if err := f.Close(); err != nil {
		return NewDataError("write merges", path, err)
	}
	return nil
}

// LoadMerges reads a merges file written by SaveMerges.
func LoadMerges(path string) ([]Merge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDataError("read merges", path, err)
	}
	defer f.Close()

	var merges []Merge
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		fields := strings.Split(text, " ")
		if len(fields) != 2 {
			return nil, NewDataError("parse merges", path, fmt.Errorf("line %d has %d fields: %w", line, len(fields), ErrCorrupt))
		}
		left, err := unescapeToken(fields[0])
		if err != nil {
			return nil, NewDataError("parse merges", path, err)
		}
		right, err := unescapeToken(fields[1])
		if err != nil {
			return nil, NewDataError("parse merges", path, err)
		}
		merges = append(merges, Merge{Left: left, Right: right})
	}
	if err := scanner.Err(); err != nil {
		return nil, NewDataError("read merges", path, err)
	}
	return merges, nil
}

// Load reconstructs a tokenizer from saved vocabulary and merges files.
func Load(vocabPath, mergesPath string, specialTokens []string, opts ...TokenizerOption) (*Tokenizer, error) {
	vocab, err := LoadVocabulary(vocabPath)
	if err != nil {
		return nil, err
	}
	merges, err := LoadMerges(mergesPath)
	if err != nil {
		return nil, err
	}
	return NewTokenizer(vocab, merges, specialTokens, opts...)
}
