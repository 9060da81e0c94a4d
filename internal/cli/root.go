package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"financial-report/internal/app"
	"financial-report/internal/config"
	"financial-report/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	appHandle *app.App
	closeLog  func() error
)

var rootCmd = &cobra.Command{
	Use:           "finreport [flags] <file.csv|file.json>",
	Short:         "Print a revenue/profit report from a CSV or JSON file",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appHandle != nil {
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger, closer, err := logging.NewLogger(cfg.Logging, os.Stderr)
		if err != nil {
			return err
		}
		closeLog = closer
		appHandle = app.NewApp(cfg, logger)
		appHandle.Out = cmd.OutOrStdout()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
	RunE: runReport,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if cerr := shutdown(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level defined in config")

	registerReportFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

func shutdown() error {
	if closeLog == nil {
		return nil
	}
	closer := closeLog
	closeLog = nil
	return closer()
}

func getApp() *app.App {
	if appHandle == nil {
		panic("application not initialized; PersistentPreRunE not executed")
	}
	return appHandle
}
