package bpe

import (
	"fmt"
	"io"

	"github.com/yzxoi/bpekit/bpe/scanner"
)

// Scanner provides streaming tokenization following the bufio.Scanner
// pattern. Each buffered fragment is encoded independently.
type Scanner = scanner.Scanner

// ScannerOption configures scanner behavior.
type ScannerOption = scanner.Option

// Scanner option functions re-exported from the scanner package.
var (
	// WithBufferSize sets the internal buffer size for reading.
	WithBufferSize = scanner.WithBufferSize

	// WithMaxBuffer sets the maximum buffer size before forcing
	// tokenization.
	WithMaxBuffer = scanner.WithMaxBuffer
)

// NewScanner creates a scanner that streams token IDs from r.
func (t *Tokenizer) NewScanner(r io.Reader, opts ...ScannerOption) Scanner {
	return scanner.New(t, r, opts...)
}

// Process reads text from r, tokenizes it, and writes each token ID to w as
// 4 bytes little-endian. It returns the number of tokens written.
func (t *Tokenizer) Process(r io.Reader, w io.Writer) (int64, error) {
	scan := t.NewScanner(r)

	var count int64
	buf := make([]byte, 4)
	for scan.Scan() {
		token := scan.Token()
		buf[0] = byte(token)
		buf[1] = byte(token >> 8)
		buf[2] = byte(token >> 16)
		buf[3] = byte(token >> 24)
		if _, err := w.Write(buf); err != nil {
			return count, fmt.Errorf("write token: %w", err)
		}
		count++
	}
	if err := scan.Err(); err != nil {
		return count, err
	}
	return count, nil
}
