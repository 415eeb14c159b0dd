// Package cli provides the command-line interface for the mesai assistant.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/argenova/mesai-ai/internal/config"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global config and logger, set up before every command.
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mesai",
	Short: "Retrieval-augmented weekly work-hour analysis assistant",
	Long: `Mesai is a retrieval-augmented chat backend for analyzing weekly work-hour
data. Incoming questions are enriched with similar past exchanges from a
vector store and recent conversation logs, then answered by a local or
hosted language model.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(populateCmd)
	rootCmd.AddCommand(vectorsCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
