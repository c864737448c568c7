package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wconcept/bestcrawl/internal/container"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch every best category and write one filtered CSV snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info("Starting W Concept best export...")

		app, err := container.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		result, err := app.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%d rows, %d/%d categories failed)\n",
			result.Path, result.Rows, len(result.Failed), result.Categories)
		log.Info("Export finished successfully")
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.Int("page-size", 0, "products per page request (default from config)")
	f.Int("max-pages", 0, "maximum pages per category, 0 for no limit")
	f.Bool("skip-category-update", false, "use cached categories without fetching the best page")
	f.Bool("test-mode", false, "export only the first category, one page")
}
