package main

import (
	"fmt"

	"github.com/spf13/cobra"

	bpecmd "github.com/yzxoi/bpekit/bpe/cmd/bpe"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bpekit",
	Short: "Byte-level BPE tokenizer training and encoding",
	Long: `Bpekit trains byte-level BPE tokenizers and applies them to text.

Training learns a merge table from a corpus file and writes the vocabulary
and merges artifacts; the remaining commands load those artifacts to encode,
decode, and inspect.

Available operations:
  train  - Learn a merge table from a corpus file
  encode - Convert text to token IDs
  decode - Convert token IDs back to text
  info   - Display statistics about trained artifacts`,
	Example: `  # Train a 32k vocabulary
  bpekit train corpus.txt --vocab-size 32000 --special-tokens "<|endoftext|>"

  # Encode text with the trained artifacts
  bpekit encode --vocab vocab.json --merges merges.txt "Hello, world!"

  # Decode tokens
  bpekit decode --vocab vocab.json --merges merges.txt 72 101 108

  # Stream a large file
  cat large_file.txt | bpekit encode --vocab vocab.json --merges merges.txt`,
	SilenceUsage: true,
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bpekit version %s\n", version)
		if commit != "none" {
			fmt.Printf("  commit:     %s\n", commit)
		}
		if buildDate != "unknown" {
			fmt.Printf("  built:      %s\n", buildDate)
		}
		if goVersion != "unknown" {
			fmt.Printf("  go version: %s\n", goVersion)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(bpecmd.Commands()...)
}
