// Package main contains the notetaker CLI commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/physician-notetaker/internal/cli"
	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/config"
)

var version = "dev"

// app carries the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "notetaker",
		Short: "🩺 Clinical notes from physician-patient transcripts",
		Long: `notetaker reads a physician-patient dialogue transcript and drafts the
clinical paperwork: medical entities, a structured summary, keywords, patient
sentiment and intent, and a SOAP note.

Analysis is rule-based by default. Enable the language model backend in the
config file (backend.enabled) or with --llm to classify statements remotely;
any backend failure falls back to the rules.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/notetaker/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = a.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(a.analyzeCmd())
	rootCmd.AddCommand(a.classifyCmd())
	rootCmd.AddCommand(a.soapCmd())
	rootCmd.AddCommand(a.segmentCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		fmt.Fprintln(w, cli.FormatError(userErr.UserMessage))
		slog.Debug("Command failed", "error", err)
		return
	}
	fmt.Fprintln(w, cli.FormatError(err.Error()))
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	config.SetDefaults(a.v)

	if err := config.Read(a.v, a.cfgFile); err != nil {
		return common.NewUserError("Could not read the config file", err)
	}

	cfg, err := config.FromViper(a.v)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Invalid configuration: %v", err), err)
	}
	a.cfg = cfg

	logger, err := common.SetupLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger

	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("Loaded config file", "path", used)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notetaker version %s\n", version)
		},
	}
}
