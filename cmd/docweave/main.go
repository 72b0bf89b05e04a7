package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/docweave/internal/config"
	"github.com/tsawler/docweave/internal/logger"
)

var (
	// Global flags
	verbose    bool
	configFile string

	// Set up in PersistentPreRunE
	cfg *config.Config
	log *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "docweave",
	Short: "Compose branded Word documents from content descriptions",
	Long: `docweave fills a Word template with a JSON or YAML content description.

It picks the standard or cover-page template, replaces the template's
placeholder text, removes its sample content and renders every section:
paragraphs, lists, tables, callouts, highlight boxes, metric tiles, images
and Mermaid diagrams.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		l, err := logger.New(loaded.Log, verbose, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, log = loaded, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./docweave.yaml when present)")

	composeCmd.Flags().StringVarP(&templateFlag, "template", "t", "", "Template override: standard or cover (default: auto-detect)")

	rootCmd.AddCommand(composeCmd, selectCmd, inspectCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
