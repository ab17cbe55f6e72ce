package main

import (
	"github.com/spf13/cobra"

	"harvestql/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-evaluate vault query blocks whenever documents change",
	Args:  cobra.NoArgs,
	RunE:  runWatchCmd,
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	// Initial pass so the vault is current before waiting for changes.
	results, err := application.RunBlocksOnce(ctx)
	if err != nil {
		return err
	}
	printBlockResults(results)

	return application.Watch(ctx, func(results []app.BlockResult) {
		printBlockResults(results)
	})
}
