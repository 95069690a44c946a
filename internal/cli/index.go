package cli

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	forceFlag bool
	quietFlag bool
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Index a folder's code and documents for hybrid search",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&forceFlag, "force", false, "re-embed every chunk regardless of content-hash match")
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress the progress bar")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	eng, _, err := openEngine(args[0])
	if err != nil {
		return err
	}
	defer eng.Close()

	if !quietFlag {
		eng.SetProgress(newBarProgress())
	}

	stats, err := eng.Index(ctx, forceFlag)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
