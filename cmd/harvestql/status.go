package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	statusWatch    bool
	statusInterval time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer, if any",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "Keep polling and print the status whenever it changes")
	statusCmd.Flags().DurationVar(&statusInterval, "interval", 30*time.Second, "Poll interval for --watch")
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	sess := application.Session()
	if err := sess.RefreshTimer(ctx); err != nil {
		return err
	}
	fmt.Println(sess.StatusLine())
	if !statusWatch {
		return nil
	}

	// Poll keeps the session's timer fresh in the background; here we only
	// print when the line changes.
	go sess.Poll(ctx, statusInterval)
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	last := sess.StatusLine()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if line := sess.StatusLine(); line != last {
				last = line
				fmt.Println(line)
			}
		}
	}
}
