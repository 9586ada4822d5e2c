//go:build !unix

package chunker

import (
	"fmt"
	"io"
	"os"
)

// mapFile reads the whole file; platforms without unix mmap still satisfy the
// read-only shared access contract.
func mapFile(f *os.File, size int) (*Corpus, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", f.Name(), err)
	}
	return &Corpus{data: data}, nil
}

// Close releases the buffered contents.
func (c *Corpus) Close() error {
	c.data = nil
	return nil
}
