package main

import (
	"github.com/spf13/cobra"

	"harvestql/internal/domain"
)

var (
	syncFrom string
	syncTo   string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync time entries into the local report cache",
	Long: `sync fetches time entries from Harvest and upserts them into the
MySQL report cache (MYSQL_DSN), so reports can be evaluated offline with
"report --cached". Without flags it syncs the past 30 days.`,
	Args: cobra.NoArgs,
	RunE: runSyncCmd,
}

func init() {
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "Start date (YYYY-MM-DD, default: 29 days ago)")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "End date (YYYY-MM-DD, default: today)")
}

func runSyncCmd(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signalContext()
	defer stop()

	to := application.Today()
	if syncTo != "" {
		if to, err = domain.ParseDate(syncTo); err != nil {
			return err
		}
	}
	from := to.AddDays(-29)
	if syncFrom != "" {
		if from, err = domain.ParseDate(syncFrom); err != nil {
			return err
		}
	}

	return application.SyncCache(ctx, from, to)
}
