package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/shelldesk/internal/lexer"
)

var highlightColor bool

var highlightCmd = &cobra.Command{
	Use:   "highlight [FILE]",
	Short: "Print a script with syntax highlighting",
	Long: `Print a ShellLite script with the editor's syntax colors. Reads standard
input when FILE is omitted or "-". Colors are dropped when the output is
not a terminal unless --color is given.

Examples:
  shelldesk highlight hello.shl
  shelldesk highlight --color hello.shl | less -R`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readSource(cmd, args)
		if err != nil {
			return err
		}
		if highlightColor {
			lipgloss.SetColorProfile(termenv.ANSI256)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), lexer.Highlight(text))
		return err
	},
}

func init() {
	highlightCmd.Flags().BoolVar(&highlightColor, "color", false, "force colored output")
	rootCmd.AddCommand(highlightCmd)
}
