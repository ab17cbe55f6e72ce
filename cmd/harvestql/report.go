package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"harvestql/internal/report"
)

var reportCached bool

var reportCmd = &cobra.Command{
	Use:   "report <query>",
	Short: "Evaluate a query and print the rendered report",
	Example: `  harvestql report LIST TODAY
  harvestql report SUMMARY WEEK
  harvestql report SUMMARY FROM 2025-01-01 TO 2025-01-31`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReportCmd,
}

func init() {
	reportCmd.Flags().BoolVar(&reportCached, "cached", false, "Evaluate against the local report cache instead of the API")
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	source := strings.Join(args, " ")
	var tree *report.Tree
	if reportCached {
		tree, err = application.ExecuteCached(ctx, source)
		if err != nil {
			return err
		}
	} else {
		tree = application.Execute(ctx, source)
	}

	fmt.Print(report.Terminal(tree))
	return nil
}
