package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"harvestql/internal/app"
	"harvestql/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate every query block in the vault once",
	Long: `run scans the configured vault (VAULT_DIR) for markdown documents
containing harvest query blocks, evaluates each of them, prints the live
renderings, and freezes blocks marked --static in place.`,
	Args: cobra.NoArgs,
	RunE: runRunCmd,
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	results, err := application.RunBlocksOnce(ctx)
	if err != nil {
		return err
	}
	printBlockResults(results)
	return nil
}

func printBlockResults(results []app.BlockResult) {
	frozen := 0
	for _, res := range results {
		if res.Frozen {
			frozen++
			continue
		}
		fmt.Printf("── %s:%d  %s\n", res.Doc, res.Line+1, res.Source)
		fmt.Print(report.Terminal(res.Tree))
		fmt.Println()
	}
	if frozen > 0 {
		fmt.Printf("froze %d static block(s)\n", frozen)
	}
}
