// Package cli wires the commands: run, calibrate, history, trend, serve
// and sleep, plus the interactive menu shown when no command is given.
package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cogbench/internal/clock"
	"cogbench/internal/config"
	logger "cogbench/internal/logging"
	"cogbench/internal/models"
	"cogbench/internal/store"
	"cogbench/internal/terminal"
)

// app holds the shared wiring built once in setup and used by every command.
var app struct {
	log     *zap.Logger
	store   *store.Store
	content *models.Content
	console terminal.Console
	clk     clock.System
	rng     *rand.Rand
}

var configDir string

var rootCmd = &cobra.Command{
	Use:   "cogbench",
	Short: "Terminal cognitive test battery with latency-calibrated timing",
	Long: `cogbench runs a battery of six cognitive tests in the terminal:
reaction time, digit span, mental math, word recall, stroop and sustained
attention. Reaction latencies are corrected by a per-terminal calibration
of input-stack delay. Results append to a local journal and sqlite index.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory to search for config.yaml")
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRunE = teardown

	rootCmd.AddCommand(runCmd, calibrateCmd, historyCmd, trendCmd, serveCmd, sleepCmd)
}

// setup builds the shared wiring: config, logger, store, content, console.
func setup(cmd *cobra.Command, args []string) error {
	// Config loads before the logger exists, so reload events during this
	// window go nowhere.
	if err := config.Init(configDir, zap.NewNop()); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.Init(logger.Options{
		Directory:  config.Conf.Logging.Directory,
		MaxSize:    config.Conf.Logging.MaxSize,
		MaxBackups: config.Conf.Logging.MaxBackups,
		MaxAge:     config.Conf.Logging.MaxAge,
		Compress:   config.Conf.Logging.Compress,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	app.log = log

	st, err := store.Open(config.Conf.DatabasePath(), config.Conf.ResultsPath(), log)
	if err != nil {
		return fmt.Errorf("open results store: %w", err)
	}
	app.store = st

	content, err := models.LoadContent(config.Conf.Data.ContentFile)
	if err != nil {
		return fmt.Errorf("load task content: %w", err)
	}
	app.content = content

	app.clk = clock.New()
	app.console = terminal.NewStd(app.clk)
	app.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.log.Warn("Failed to close store cleanly", zap.Error(err))
		}
	}
	if app.log != nil {
		_ = app.log.Sync()
	}
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		return 1
	}
	return 0
}
