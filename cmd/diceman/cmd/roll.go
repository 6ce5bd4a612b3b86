package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/diceman/internal/dice"
)

var rollCmd = &cobra.Command{
	Use:   "roll <expression>",
	Short: "Roll dice using the given expression or preset name",
	Long: `Roll dice using the given expression, printing the full trace.

The expression may also name a preset from the configured presets
directory; "diceman roll stats" rolls whatever "stats" expands to.

Examples:
  diceman roll 4d6kh3
  diceman roll "2d6 + 5"
  diceman roll 5d10>=8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoll,
}

func init() {
	rootCmd.AddCommand(rollCmd)
}

func runRoll(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	// Quoting "2d6 + 5" is easy to forget; accept it split across args too.
	input := a.presets.Expand(strings.Join(args, " "))

	roller := dice.NewLoggedRoller(a.src, a.logger)
	result, err := roller.RollExpr(input)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Expression)
	return nil
}
