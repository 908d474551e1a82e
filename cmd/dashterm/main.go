package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dashterm/internal/config"
	"dashterm/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiKey     string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dashterm",
	Short: "dashterm - terminal dashboard with a natural-language assistant",
	Long: `dashterm renders groups of gauges, switches and indicators in the
terminal and drives them through a small command language.

Anything typed that is not a dashboard command is sent to the assistant,
which answers in plain text and proposes dashboard commands to run.

Run without arguments to start the interactive console.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(resolveConfigPath())
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}
		return initLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

// askCmd answers a single question and exits
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a single question",
	Long: `Sends one natural-language question through the assistant pipeline,
prints the answer and runs any proposed dashboard commands against a
fresh dashboard.

Example:
  dashterm ask "add a gauge for modbus.2.holdingRegisters.temp"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// transcriptCmd inspects the exchange archive
var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Inspect archived assistant exchanges",
}

var transcriptLimit int

var transcriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent exchanges",
	RunE:  runTranscriptList,
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dashterm configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  runConfigInit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.dashterm/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "LLM API key (or set DASHTERM_API_KEY env)")

	transcriptListCmd.Flags().IntVarP(&transcriptLimit, "limit", "n", 20, "Number of exchanges to show")
	transcriptCmd.AddCommand(transcriptListCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(transcriptCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".dashterm", "config.yaml")
}

// initLogging builds the process-wide zap logger from config and installs it
// behind the category facade. Without --verbose or a log file, output stays
// quiet so it never interleaves with the console UI.
func initLogging() error {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Logging.Level); err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	if !verbose && cfg.Logging.File == "" {
		logging.Configure(zap.NewNop())
		return nil
	}

	zc := zap.NewProductionConfig()
	if cfg.Logging.Format == "text" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.Logging.File != "" {
		zc.OutputPaths = []string{cfg.Logging.File}
		zc.ErrorOutputPaths = []string{cfg.Logging.File}
	} else {
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.Configure(logger)
	return nil
}
