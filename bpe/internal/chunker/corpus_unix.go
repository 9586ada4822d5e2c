//go:build unix

package chunker

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps the file read-only. Workers share the mapping; page faults are
// the only I/O the pre-tokenization phase performs.
func mapFile(f *os.File, size int) (*Corpus, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap corpus %s: %w", f.Name(), err)
	}
	return &Corpus{data: data, mapped: true}, nil
}

// Close releases the mapping.
func (c *Corpus) Close() error {
	if !c.mapped || c.data == nil {
		return nil
	}
	data := c.data
	c.data = nil
	c.mapped = false
	return unix.Munmap(data)
}
