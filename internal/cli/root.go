// Package cli implements the codesight command-line surface: index,
// search, ask, and status, each a thin cobra command over internal/engine.
// Grounded on the teacher's internal/cli/root.go viper-binding pattern,
// trimmed to the four commands spec §6 names.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "codesight",
	Short: "Hybrid keyword + semantic search over a folder of code and documents",
	Long: `codesight indexes a folder's source code and documents into a local
hybrid (keyword + semantic) search index, and answers questions about it
by retrieving relevant snippets and optionally asking an LLM to summarize
them.`,
}

// Execute runs the root command. Called once from cmd/codesight/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default none; env/flags only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
