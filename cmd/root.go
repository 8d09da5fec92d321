package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/eventful/config"
	"github.com/s0up4200/eventful/eventful"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *eventful.Client

	// Global flags
	debugFlag bool
	logLevel  string
)

// skipInit marks commands that run without configuration or a client
const skipInit = "skip-init"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "eventful",
	Short: "A command line client for the Eventful API",
	Long: `eventful is a CLI for the Eventful REST/XML API. It signs every call with
your application key, logs in with the nonce challenge when credentials are
configured, and prints responses as a tree, raw XML or filtered records.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "dump raw responses to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	// Add subcommands
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp loads the configuration and creates the Eventful client
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipInit] == "true" {
		logger = setupLogger(config.LoggingConfig{Level: logLevelOr("info"), Format: "console", Color: true})
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command line overrides
	if cmd.Flags().Changed("debug") {
		cfg.Eventful.Debug = debugFlag
	}
	cfg.Logging.Level = logLevelOr(cfg.Logging.Level)

	logger = setupLogger(cfg.Logging)

	opts := []eventful.Option{
		eventful.WithBaseURL(cfg.Eventful.URL),
		eventful.WithTimeout(cfg.Eventful.Timeout),
	}
	if cfg.Eventful.Debug {
		opts = append(opts, eventful.WithDebugWriter(os.Stderr))
	}

	client, err = eventful.NewClient(cfg.Eventful.AppKey, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Eventful client: %w", err)
	}

	return nil
}

func logLevelOr(fallback string) string {
	if logLevel != "" {
		return logLevel
	}
	return fallback
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; no colour when stderr is redirected
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
