package bpecmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yzxoi/bpekit/bpe"
)

var (
	// Encode command flags.
	encVocabPath  string
	encMergesPath string
	encSpecials   []string
	encOutput     string
	encCountOnly  bool
)

// newEncodeCmd creates the encode subcommand.
func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Encode text to token IDs",
		Long: `Encode text into token IDs using trained artifacts.

If no text is provided as an argument, text is read from stdin and encoded
in streaming mode.

The output format can be:
  - space: Space-separated token IDs (default)
  - newline: One token ID per line
  - json: JSON array of token IDs`,
		Example: `  # Encode a string
  bpekit encode --vocab vocab.json --merges merges.txt "Hello, world!"

  # Encode stdin
  cat input.txt | bpekit encode --vocab vocab.json --merges merges.txt

  # Output as JSON
  bpekit encode --vocab vocab.json --merges merges.txt --output json "Hello"

  # Show only the token count
  bpekit encode --vocab vocab.json --merges merges.txt --count-only "Hello"`,
		RunE: runEncode,
	}

	cmd.Flags().StringVar(&encVocabPath, "vocab", "vocab.json", "Vocabulary file path")
	cmd.Flags().StringVar(&encMergesPath, "merges", "merges.txt", "Merges file path")
	cmd.Flags().StringSliceVar(&encSpecials, "special-tokens", nil, "Special tokens, comma-separated")
	cmd.Flags().StringVarP(&encOutput, "output", "o", "space", "Output format: space, newline, json")
	cmd.Flags().BoolVar(&encCountOnly, "count-only", false, "Show only the token count")

	return cmd
}

func runEncode(_ *cobra.Command, args []string) error {
	tokenizer, err := bpe.Load(encVocabPath, encMergesPath, encSpecials)
	if err != nil {
		return err
	}

	var tokens []int
	if len(args) > 0 {
		tokens = tokenizer.Encode(strings.Join(args, " "))
	} else {
		scanner := tokenizer.NewScanner(os.Stdin)
		for scanner.Scan() {
			tokens = append(tokens, scanner.Token())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("tokenization error: %w", err)
		}
	}

	if encCountOnly {
		fmt.Println(len(tokens))
		return nil
	}

	switch encOutput {
	case "json":
		data, err := json.Marshal(tokens)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
	case "newline":
		for _, token := range tokens {
			fmt.Println(token)
		}
	case "space":
		for i, token := range tokens {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(token)
		}
		fmt.Println()
	default:
		return fmt.Errorf("unknown output format: %s", encOutput)
	}

	return nil
}
