package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/shelldesk/internal/lexer"
	"github.com/zjrosen/shelldesk/internal/presentation"
)

var tokensWithSkip bool

var tokensCmd = &cobra.Command{
	Use:   "tokens [FILE]",
	Short: "Print the lexer tokens of a script as JSON",
	Long: `Tokenize a ShellLite script with the highlighter's lexer and print the
tokens as JSON. Reads standard input when FILE is omitted or "-".

Examples:
  shelldesk tokens hello.shl
  echo 'say "hi"' | shelldesk tokens
  shelldesk tokens hello.shl | jq '.[] | select(.kind == "Keyword")'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		dtos := presentation.FromTokens(lexer.Standard().Tokenize(text), tokensWithSkip)
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatTokens(dtos)
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensWithSkip, "whitespace", false, "include whitespace tokens")
	rootCmd.AddCommand(tokensCmd)
}

// readSource returns the named file, or stdin for no argument or "-".
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
