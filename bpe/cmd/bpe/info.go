package bpecmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/yzxoi/bpekit/bpe"
)

var (
	// Info command flags.
	infoVocabPath  string
	infoMergesPath string
	infoSpecials   []string
)

// newInfoCmd creates the info subcommand.
func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Display statistics about trained artifacts",
		Example: `  bpekit info --vocab vocab.json --merges merges.txt \
    --special-tokens "<|endoftext|>"`,
		RunE: runInfo,
	}

	cmd.Flags().StringVar(&infoVocabPath, "vocab", "vocab.json", "Vocabulary file path")
	cmd.Flags().StringVar(&infoMergesPath, "merges", "merges.txt", "Merges file path")
	cmd.Flags().StringSliceVar(&infoSpecials, "special-tokens", nil, "Special tokens, comma-separated")

	return cmd
}

func runInfo(_ *cobra.Command, _ []string) error {
	tokenizer, err := bpe.Load(infoVocabPath, infoMergesPath, infoSpecials)
	if err != nil {
		return err
	}

	vocabInfo, err := os.Stat(infoVocabPath)
	if err != nil {
		return err
	}
	mergesInfo, err := os.Stat(infoMergesPath)
	if err != nil {
		return err
	}

	fmt.Printf("vocabulary: %s tokens (%s)\n",
		humanize.Comma(int64(tokenizer.VocabSize())), humanize.Bytes(uint64(vocabInfo.Size())))
	fmt.Printf("merges:     %s (%s)\n",
		humanize.Comma(int64(tokenizer.NumMerges())), humanize.Bytes(uint64(mergesInfo.Size())))
	fmt.Printf("specials:   %d\n", len(tokenizer.SpecialTokens()))
	for _, s := range tokenizer.SpecialTokens() {
		if id, ok := tokenizer.IDFor([]byte(s)); ok {
			fmt.Printf("  %s = %d\n", s, id)
		} else {
			fmt.Printf("  %s (not in vocabulary)\n", s)
		}
	}
	return nil
}
