package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchTopK int
	searchGlob string
)

var searchCmd = &cobra.Command{
	Use:   "search <query> [path]",
	Short: "Search a folder's index and print matching snippets",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().StringVar(&searchGlob, "glob", "", "restrict results to files matching this glob")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	path := argOrDot(args, 1)

	eng, _, err := openEngine(path)
	if err != nil {
		return err
	}
	defer eng.Close()

	results, err := eng.Search(cmd.Context(), query, searchTopK, searchGlob)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(out, "%d. %s:%d-%d  [%s]  score=%.4f\n", i+1, r.FilePath, r.StartLine, r.EndLine, r.Scope, r.Score)
		fmt.Fprintln(out, indentLines(r.Snippet))
		fmt.Fprintln(out)
	}
	return nil
}

func indentLines(s string) string {
	out := "    "
	for _, r := range s {
		out += string(r)
		if r == '\n' {
			out += "    "
		}
	}
	return out
}
