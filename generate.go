// Package bpekit provides byte-level BPE tokenizer training and encoding.
package bpekit

// Generate documentation for the root package
//go:generate gomarkdoc -o README.md -e . --embed --repository.url https://github.com/yzxoi/bpekit --repository.default-branch master --repository.path /

// Generate documentation for the bpe package
//go:generate gomarkdoc -o ./bpe/README.md -e ./bpe --embed --repository.url https://github.com/yzxoi/bpekit --repository.default-branch master --repository.path /bpe

// Generate documentation for the CLI package
//go:generate gomarkdoc -o ./cmd/bpekit/README.md -e ./cmd/bpekit --embed --repository.url https://github.com/yzxoi/bpekit --repository.default-branch master --repository.path /cmd/bpekit
