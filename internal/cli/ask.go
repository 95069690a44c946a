package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask <question> [path]",
	Short: "Ask a question, answered by an LLM grounded on retrieved snippets",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 5, "number of source snippets to retrieve")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	path := argOrDot(args, 1)

	eng, cfg, err := openEngine(path)
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := eng.Ask(cmd.Context(), question, askTopK, llmConfigFromEnv(cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Answer)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Sources:")
	for i, s := range result.Sources {
		fmt.Fprintf(out, "  [%d] %s:%d-%d (%s)\n", i+1, s.FilePath, s.StartLine, s.EndLine, s.Scope)
	}
	return nil
}
