package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/todaypicks/storefront/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront CLI - spreadsheet catalog inspection tool",
	Long: `A CLI tool for inspecting the spreadsheet-backed product catalog:
list categories and products straight from the published sheets, and export
the whole catalog to an xlsx workbook for offline review.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	logger = initLogger()

	// Schema generation is pure reflection and needs no sheet access.
	if cmd.Name() == "schema" {
		return nil
	}

	if cfg == nil || cfg.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("GOOGLESHEETS_ID not configured")
	}

	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	noColor := false
	if cfg != nil {
		noColor = cfg.Logging.NoColor
	}
	output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zlog.Logger = log
	return &log
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
