// Package scanner provides buffered streaming tokenization following the
// bufio.Scanner pattern.
//
// Text is accumulated until a reasonable boundary (whitespace, or a complete
// UTF-8 sequence once the buffer grows) and each flushed fragment is encoded
// independently. Callers that need merges to span a specific fragment
// boundary must aggregate the text themselves before scanning.
package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Tokenizer is the interface required for encoding flushed text fragments.
type Tokenizer interface {
	Encode(text string) []int
}

// Scanner is the interface for streaming tokenization.
type Scanner interface {
	// Scan advances to the next token. Returns false at EOF or on error.
	Scan() bool

	// Token returns the most recent token ID produced by Scan.
	Token() int

	// Text returns the fragment that produced the current batch of tokens.
	Text() string

	// Err returns the first error encountered during scanning.
	Err() error
}

// scanner implements Scanner.
type scanner struct {
	t Tokenizer
	r *bufio.Reader

	textBuf  bytes.Buffer // accumulated text waiting for a boundary
	tokens   []int        // tokens of the last flushed fragment
	tokIndex int
	lastText string
	pending  []byte // bytes held back from an incomplete UTF-8 sequence

	err  error
	done bool

	bufSize   int
	maxBuffer int
}

// Option configures scanner behavior.
type Option func(*scanner)

// WithBufferSize sets the internal buffer size for reading.
// Default is 4096 bytes.
func WithBufferSize(size int) Option {
	return func(s *scanner) {
		if size > 0 {
			s.bufSize = size
		}
	}
}

// WithMaxBuffer sets the maximum buffer size before forcing tokenization.
// This prevents unbounded memory growth for pathological inputs.
// Default is 1MB.
func WithMaxBuffer(size int) Option {
	return func(s *scanner) {
		if size > 0 {
			s.maxBuffer = size
		}
	}
}

// New creates a scanner for streaming tokenization.
func New(t Tokenizer, r io.Reader, opts ...Option) Scanner {
	s := &scanner{
		t:         t,
		tokens:    make([]int, 0, 32),
		bufSize:   4096,
		maxBuffer: 1024 * 1024,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.r = bufio.NewReaderSize(r, s.bufSize)
	return s
}

// Scan advances to the next token.
func (s *scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if s.tokIndex < len(s.tokens) {
		s.tokIndex++
		return true
	}
	if s.done && s.textBuf.Len() == 0 {
		return false
	}

	s.tokens = s.tokens[:0]
	s.tokIndex = 0

	for {
		if err := s.fill(); err != nil {
			s.err = &ScanError{Offset: int64(s.textBuf.Len()), Err: err}
			return false
		}
		if s.done || s.atBoundary() || s.textBuf.Len() >= s.maxBuffer {
			break
		}
	}

	if s.flush() {
		s.tokIndex = 1
		return true
	}
	// A fragment can encode to zero tokens only when it was empty; at EOF
	// that means we are finished.
	return false
}

// fill reads one buffer's worth of input, holding back a trailing incomplete
// UTF-8 sequence so a flush never splits a character.
func (s *scanner) fill() error {
	if s.done {
		return nil
	}
	buf := make([]byte, s.bufSize)
	n, err := s.r.Read(buf)
	if n > 0 {
		chunk := buf[:n]
		if len(s.pending) > 0 {
			chunk = append(s.pending, chunk...)
			s.pending = nil
		}
		cut := completeUTF8Prefix(chunk)
		if cut < len(chunk) {
			s.pending = append([]byte(nil), chunk[cut:]...)
			chunk = chunk[:cut]
		}
		s.textBuf.Write(chunk)
	}
	if err == io.EOF {
		s.done = true
		if len(s.pending) > 0 {
			s.textBuf.Write(s.pending)
			s.pending = nil
		}
		return nil
	}
	return err
}

// flush encodes the accumulated text and stages its tokens.
func (s *scanner) flush() bool {
	if s.textBuf.Len() == 0 {
		return false
	}
	s.lastText = s.textBuf.String()
	s.textBuf.Reset()
	s.tokens = s.t.Encode(s.lastText)
	return len(s.tokens) > 0
}

// atBoundary reports whether the accumulated text ends somewhere reasonable
// to tokenize: trailing whitespace, or any complete character once the buffer
// has grown past half a read.
func (s *scanner) atBoundary() bool {
	buf := s.textBuf.Bytes()
	if len(buf) == 0 {
		return false
	}
	switch buf[len(buf)-1] {
	case ' ', '\n', '\t', '\r':
		return true
	}
	return s.textBuf.Len() > s.bufSize/2
}

// Token returns the current token ID.
func (s *scanner) Token() int {
	if s.tokIndex > 0 && s.tokIndex <= len(s.tokens) {
		return s.tokens[s.tokIndex-1]
	}
	return 0
}

// Text returns the fragment that produced the current batch of tokens.
func (s *scanner) Text() string {
	return s.lastText
}

// Err returns any error encountered during scanning.
func (s *scanner) Err() error {
	return s.err
}

// completeUTF8Prefix returns the length of the longest prefix of data that
// does not end inside a multi-byte UTF-8 sequence.
func completeUTF8Prefix(data []byte) int {
	for i := len(data) - 1; i >= 0 && i >= len(data)-4; i-- {
		b := data[i]
		if b < 0x80 {
			return i + 1
		}
		if b&0xC0 != 0x80 {
			// Start byte: keep it (and its continuations) pending unless the
			// sequence it opens is fully present.
			seqLen := 1
			switch {
			case b&0xE0 == 0xC0:
				seqLen = 2
			case b&0xF0 == 0xE0:
				seqLen = 3
			case b&0xF8 == 0xF0:
				seqLen = 4
			}
			if i+seqLen <= len(data) {
				return len(data)
			}
			return i
		}
	}
	return len(data)
}

// ScanError represents an error during scanning with context.
type ScanError struct {
	Offset int64 // byte offset of the buffered text where the error occurred
	Err    error // underlying error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("tokenization error at offset %d: %v", e.Offset, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
