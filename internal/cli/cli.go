package cli

import (
	"fmt"
	"os"

	"github.com/competitionkit/ozcomps/internal/config"
	"github.com/competitionkit/ozcomps/internal/extract"
	"github.com/competitionkit/ozcomps/internal/logger"
	"github.com/competitionkit/ozcomps/internal/scraper"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig      string
	flagLogLevel    string
	flagUpstreamURL string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ozcomps",
		Short: "Serve OzBargain competition listings as JSON",
		Long: `Fetches the OzBargain competition listing page, extracts the listed
competitions and returns them as JSON, either over HTTP (serve) or once (fetch).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flagUpstreamURL, "upstream-url", scraper.CompetitionsURL, "Listing page to fetch")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newFetchCmd())

	return cmd
}

// loadConfig layers flags over the file and environment, validates the result and
// installs the configured logger. apply may set command-specific overrides.
func loadConfig(cmd *cobra.Command, apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("upstream-url") {
		cfg.UpstreamURL = flagUpstreamURL
	}
	if apply != nil {
		apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	return cfg, nil
}

// newScraper builds the upstream scraper described by cfg
func newScraper(cfg *config.Config) (*scraper.Scraper, error) {
	x, err := extract.New(cfg.BaseOrigin)
	if err != nil {
		return nil, err
	}

	return scraper.New(
		scraper.WithURL(cfg.UpstreamURL),
		scraper.WithUserAgent(cfg.UserAgent),
		scraper.WithTimeout(cfg.Timeout),
		scraper.WithExtractor(x),
	), nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
