package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/brunobiangulo/riskmirror"
	rmlog "github.com/brunobiangulo/riskmirror/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries state shared by every subcommand.
type app struct {
	configFile string
	logLevel   string
	v          *viper.Viper
	logger     *slog.Logger

	// newEngine is replaced in tests.
	newEngine func(cfg riskmirror.Config, opts ...riskmirror.Option) (riskmirror.Engine, error)
}

func newApp() *app {
	return &app{
		v:         viper.New(),
		logger:    slog.Default(),
		newEngine: riskmirror.New,
	}
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "riskmirror",
		Short: "Risk Mirror - narrative risk reports for finance and health profiles",
		Long: `Risk Mirror scores a finance or health profile, asks a chat model for a
narrative assessment and renders it as a branded PDF report.

Run "riskmirror serve" for the HTTP API, or use the analyze, batch, history
and export commands directly.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./riskmirror.yaml or $XDG_CONFIG_HOME/riskmirror/riskmirror.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		a.logger = rmlog.New(os.Stderr, rmlog.ParseLevel(a.logLevel))
		slog.SetDefault(a.logger)
		return nil
	}

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newAnalyzeCommand(a))
	cmd.AddCommand(newBatchCommand(a))
	cmd.AddCommand(newRenderCommand(a))
	cmd.AddCommand(newHistoryCommand(a))
	cmd.AddCommand(newExportCommand(a))
	cmd.AddCommand(newDeleteCommand(a))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "riskmirror", version)
		},
	}
}

// openEngine loads configuration and constructs the engine.
func (a *app) openEngine() (riskmirror.Engine, error) {
	cfg, err := loadConfig(a.v, a.configFile)
	if err != nil {
		return nil, err
	}
	eng, err := a.newEngine(cfg, riskmirror.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return eng, nil
}

func execute() error {
	return newRootCommand(newApp()).Execute()
}
