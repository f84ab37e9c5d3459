package main

import (
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags; defaults to dev.
var version = "dev"

// verbose is the count of -v flags given to any command.
var verbose int

func debugf(format string, args ...any) {
	if verbose > 0 {
		log.Printf(format, args...)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "nbtedit",
		Short:   "Inspect, convert and serve Minecraft NBT files",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose > 0 {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			debugf("verbosity: %d", verbose)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity; repeat for more detail")

	rootCmd.AddCommand(newCatCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errDiffers) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
