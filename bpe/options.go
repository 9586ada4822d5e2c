package bpe

// tokenizerConfig holds configuration during tokenizer creation.
type tokenizerConfig struct {
	cacheSize int
}

// TokenizerOption is a functional option for configuring a Tokenizer.
type TokenizerOption func(*tokenizerConfig) error

// WithCacheSize sets the maximum size of the per-pretoken result cache.
// 0 means unlimited. Default is unlimited.
func WithCacheSize(size int) TokenizerOption {
	return func(cfg *tokenizerConfig) error {
		if size < 0 {
			return NewConfigError("cache_size", size, ErrInvalidToken)
		}
		cfg.cacheSize = size
		return nil
	}
}

// trainConfig holds configuration during training.
type trainConfig struct {
	workers  int
	chunks   int
	progress func(merges, target int)
}

// TrainOption is a functional option for configuring a training run.
type TrainOption func(*trainConfig) error

// WithWorkers sets the number of pre-tokenization workers. Default is
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) TrainOption {
	return func(cfg *trainConfig) error {
		if n < 1 {
			return NewConfigError("workers", n, ErrInvalidToken)
		}
		cfg.workers = n
		return nil
	}
}

// WithChunks sets the desired chunk count for corpus partitioning. Default is
// the worker count. The corpus is always treated as a single chunk when no
// special tokens are declared, so that results do not depend on the
// partitioning.
func WithChunks(n int) TrainOption {
	return func(cfg *trainConfig) error {
		if n < 1 {
			return NewConfigError("chunks", n, ErrInvalidToken)
		}
		cfg.chunks = n
		return nil
	}
}

// WithProgress installs a callback invoked after every adopted merge with the
// number of merges learned so far and the target count.
func WithProgress(fn func(merges, target int)) TrainOption {
	return func(cfg *trainConfig) error {
		cfg.progress = fn
		return nil
	}
}
