package bpecmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yzxoi/bpekit/bpe"
)

var (
	// Decode command flags.
	decVocabPath  string
	decMergesPath string
	decSpecials   []string
)

// newDecodeCmd creates the decode subcommand.
func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [token-ids...]",
		Short: "Decode token IDs to text",
		Long: `Decode a sequence of token IDs back into text.

Token IDs are taken from the arguments, or read whitespace-separated from
stdin when no arguments are given. Invalid UTF-8 in the decoded bytes is
replaced with U+FFFD.`,
		Example: `  # Decode tokens
  bpekit decode --vocab vocab.json --merges merges.txt 72 101 108 108 111

  # Decode from stdin
  bpekit encode --vocab vocab.json --merges merges.txt "round trip" | \
    bpekit decode --vocab vocab.json --merges merges.txt`,
		RunE: runDecode,
	}

	cmd.Flags().StringVar(&decVocabPath, "vocab", "vocab.json", "Vocabulary file path")
	cmd.Flags().StringVar(&decMergesPath, "merges", "merges.txt", "Merges file path")
	cmd.Flags().StringSliceVar(&decSpecials, "special-tokens", nil, "Special tokens, comma-separated")

	return cmd
}

func runDecode(_ *cobra.Command, args []string) error {
	tokenizer, err := bpe.Load(decVocabPath, decMergesPath, decSpecials)
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(args))
	if len(args) > 0 {
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid token ID %q: %w", arg, err)
			}
			ids = append(ids, id)
		}
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			id, err := strconv.Atoi(scanner.Text())
			if err != nil {
				return fmt.Errorf("invalid token ID %q: %w", scanner.Text(), err)
			}
			ids = append(ids, id)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	text, err := tokenizer.Decode(ids)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
