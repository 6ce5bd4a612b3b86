package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/diceman/internal/scripting"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file.lua>",
	Short: "Run a Lua macro script",
	Long: `Execute a Lua script in a sandboxed VM with the dice module available:

  dice.roll(expr)        -> { total, expression, dice }
  dice.simulate(expr, n) -> { n, mean, std_dev, min, max, median }
  dice.parse(expr)       -> true, or raises on invalid notation

The sandbox has no filesystem or network access and a bounded
instruction budget (script.instruction_limit in the config).`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	eng := scripting.NewEngine(a.src, a.logger, a.cfg.Script.InstructionLimit)
	return eng.RunFile(args[0])
}
