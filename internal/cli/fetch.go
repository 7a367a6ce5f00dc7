package cli

import (
	"fmt"
	"strings"

	"github.com/competitionkit/ozcomps/internal/api"
	"github.com/competitionkit/ozcomps/internal/config"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the listing once and print the entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			of := OutputFormat(strings.ToLower(format))
			if of != FormatText && of != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}

			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			n := cfg.Limit.Default
			if cmd.Flags().Changed("limit") {
				n = cfg.Limit.Clamp(float64(limit))
			}

			sc, err := newScraper(cfg)
			if err != nil {
				return err
			}

			entries, err := sc.FetchEntries(cmd.Context(), n)
			if err != nil {
				if of == FormatJSON {
					_, body := api.Classify(err)
					_ = writeJSON(cmd.OutOrStdout(), body)
				}
				return fmt.Errorf("fetching entries: %w", err)
			}

			return WriteOutput(cmd.OutOrStdout(), entries, of)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", config.DefaultLimitPolicy().Default, "Maximum number of entries")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}
