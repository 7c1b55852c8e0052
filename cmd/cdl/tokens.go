package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boynton/cdl"
)

var tokensFormat string

var tokensCmd = &cobra.Command{
	Use:   "tokens <file.cdl>",
	Short: "Print the tokens of a CDL file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	tokensCmd.Flags().StringVar(&tokensFormat, "format", "text", "Output format: text, json")
}

func runTokens(cmd *cobra.Command, args []string) error {
	src, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}
	tokens := cdl.Tokenize(src)
	out := cmd.OutOrStdout()
	switch tokensFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(tokens)
	case "text":
		for _, tok := range tokens {
			fmt.Fprintf(out, "%s\t%s\n", tok.Location, tok.Text)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", tokensFormat)
	}
}
