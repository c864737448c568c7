package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wconcept/bestcrawl/internal/container"
	"wconcept/bestcrawl/internal/service"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build markdown and CSV reports from stored snapshots",
}

var reportDailyCmd = &cobra.Command{
	Use:   "daily <snapshot.csv> <report.md>",
	Short: "Summarize one snapshot into a markdown report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, func(r *service.Reporter) (*service.Written, error) {
			return r.Daily(args[0], args[1])
		})
	},
}

var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly <year> <month> <week>",
	Short: "Build the report for one week of a month",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums, err := parseInts(args, "year", "month", "week")
		if err != nil {
			return err
		}
		return runReport(cmd, func(r *service.Reporter) (*service.Written, error) {
			return r.Weekly(nums[0], nums[1], nums[2])
		})
	},
}

var reportMonthlyCmd = &cobra.Command{
	Use:   "monthly <year> <month>",
	Short: "Build the report for one calendar month",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums, err := parseInts(args, "year", "month")
		if err != nil {
			return err
		}
		return runReport(cmd, func(r *service.Reporter) (*service.Written, error) {
			return r.Monthly(nums[0], nums[1])
		})
	},
}

func runReport(cmd *cobra.Command, build func(*service.Reporter) (*service.Written, error)) error {
	app, err := container.NewReporting(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer app.Close()

	w, err := build(app.Reporter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ %s\n", w.Markdown)
	if w.CSV != "" {
		fmt.Fprintf(out, "✓ %s\n", w.CSV)
	}
	return nil
}

func parseInts(args []string, names ...string) ([]int, error) {
	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: must be a number", names[i], a)
		}
		nums[i] = n
	}
	return nums, nil
}

func init() {
	reportCmd.AddCommand(reportDailyCmd, reportWeeklyCmd, reportMonthlyCmd)
}
