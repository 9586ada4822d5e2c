package bpecmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yzxoi/bpekit/bpe"
)

var (
	// Train command flags.
	trainVocabSize int
	trainSpecials  []string
	trainProcesses int
	trainChunks    int
	trainVocabOut  string
	trainMergesOut string
	trainQuiet     bool
)

// newTrainCmd creates the train subcommand.
func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <input-file>",
		Short: "Learn a BPE merge table from a corpus file",
		Long: `Train a byte-level BPE tokenizer on a corpus file.

The corpus is split along special-token boundaries and pre-tokenized in
parallel; merges are then learned until the vocabulary reaches the target
size or no adjacent pair remains to merge. The resulting artifacts are written
as vocab.json and merges.txt.

Interrupting with Ctrl-C stops after the current merge and writes the
partial artifacts.`,
		Example: `  # Train a 32k vocabulary with one special token
  bpekit train corpus.txt --vocab-size 32000 --special-tokens "<|endoftext|>"

  # Use 8 workers and custom output paths
  bpekit train corpus.txt --vocab-size 1000 --processes 8 \
    --vocab out/vocab.json --merges out/merges.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runTrain,
	}

	cmd.Flags().IntVar(&trainVocabSize, "vocab-size", 0, "Target vocabulary size (required)")
	cmd.Flags().StringSliceVar(&trainSpecials, "special-tokens", nil, "Special tokens, comma-separated")
	cmd.Flags().IntVar(&trainProcesses, "processes", 0, "Pre-tokenization workers (default: number of CPUs)")
	cmd.Flags().IntVar(&trainChunks, "chunks", 0, "Desired corpus chunk count (default: worker count)")
	cmd.Flags().StringVar(&trainVocabOut, "vocab", "vocab.json", "Vocabulary output path")
	cmd.Flags().StringVar(&trainMergesOut, "merges", "merges.txt", "Merges output path")
	cmd.Flags().BoolVarP(&trainQuiet, "quiet", "q", false, "Suppress the training summary")
	_ = cmd.MarkFlagRequired("vocab-size")

	return cmd
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []bpe.TrainOption{}
	if trainProcesses > 0 {
		opts = append(opts, bpe.WithWorkers(trainProcesses))
	}
	if trainChunks > 0 {
		opts = append(opts, bpe.WithChunks(trainChunks))
	}
	if isatty.IsTerminal(os.Stderr.Fd()) && !trainQuiet {
		opts = append(opts, bpe.WithProgress(func(merges, target int) {
			fmt.Fprintf(os.Stderr, "\rmerges: %s / %s", humanize.Comma(int64(merges)), humanize.Comma(int64(target)))
			if merges == target {
				fmt.Fprintln(os.Stderr)
			}
		}))
	}

	res, err := bpe.Train(ctx, args[0], trainVocabSize, trainSpecials, opts...)
	if err != nil {
		return err
	}

	if len(res.Merges) == 0 && trainVocabSize > 256+len(trainSpecials) && !res.Stats.Cancelled {
		return fmt.Errorf("corpus %s is too small: no merge occurs more than zero times", args[0])
	}

	if err := bpe.SaveVocabulary(trainVocabOut, res.Vocab); err != nil {
		return err
	}
	if err := bpe.SaveMerges(trainMergesOut, res.Merges); err != nil {
		return err
	}

	if !trainQuiet {
		printTrainSummary(res)
	}
	if res.Stats.Cancelled {
		fmt.Fprintln(os.Stderr, "interrupted: wrote partial artifacts")
	}
	return nil
}

func printTrainSummary(res *bpe.TrainResult) {
	s := res.Stats
	fmt.Printf("corpus:      %s (%s chunks)\n", humanize.Bytes(uint64(s.CorpusBytes)), humanize.Comma(int64(s.Chunks)))
	fmt.Printf("pre-tokens:  %s total, %s unique\n", humanize.Comma(s.TotalPretokens), humanize.Comma(int64(s.UniquePretokens)))
	fmt.Printf("vocabulary:  %s tokens (%s merges, %d special)\n",
		humanize.Comma(int64(len(res.Vocab))), humanize.Comma(int64(s.MergesLearned)), len(res.SpecialTokens))
	fmt.Printf("timing:      pretokenize %s, index %s, merge %s, total %s\n",
		s.PretokenizeDuration.Round(time.Millisecond), s.CountDuration.Round(time.Millisecond),
		s.MergeDuration.Round(time.Millisecond), s.TotalDuration.Round(time.Millisecond))
	fmt.Printf("artifacts:   %s, %s\n", trainVocabOut, trainMergesOut)
}
