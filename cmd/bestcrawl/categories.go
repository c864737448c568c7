package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"wconcept/bestcrawl/internal/container"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Resolve and print the category pairs an export would use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := container.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		res, err := app.Service.ListCategories(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.SetTitle(fmt.Sprintf("Categories (%s)", res.Source))
		t.AppendHeader(table.Row{"#", "Depth1", "Code", "Depth2", "Code"})
		for i, c := range res.Categories {
			t.AppendRow(table.Row{i + 1, c.Depth1Name, c.Depth1Code, c.Depth2Name, c.Depth2Code})
		}
		t.AppendFooter(table.Row{"", "", "", "Total", len(res.Categories)})
		t.Render()
		return nil
	},
}

func init() {
	categoriesCmd.Flags().Bool("skip-category-update", false, "use cached categories without fetching the best page")
}
