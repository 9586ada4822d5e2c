// Package bpecmd provides the BPE tokenizer commands for the bpekit CLI.
package bpecmd

import (
	"github.com/spf13/cobra"
)

// Commands returns the tokenizer command set: train, encode, decode, info.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		newTrainCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newInfoCmd(),
	}
}
