package chunker

import (
	"fmt"
	"os"
)

// Corpus is read-only access to a training file's bytes. On Unix platforms
// the file is memory-mapped; elsewhere it is read into memory. Either way the
// bytes must not be mutated, and Close must be called when done.
type Corpus struct {
	data   []byte
	mapped bool
}

// Open opens the file at path for shared read-only access.
func Open(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat corpus %s: %w", path, err)
	}
	if info.Size() == 0 {
		return &Corpus{}, nil
	}
	return mapFile(f, int(info.Size()))
}

// Bytes returns the full corpus contents.
func (c *Corpus) Bytes() []byte { return c.data }

// Size returns the corpus length in bytes.
func (c *Corpus) Size() int { return len(c.data) }
