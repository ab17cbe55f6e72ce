package usecase

import (
	"context"
	"errors"
	"log/slog"

	"harvestql/internal/domain"
	"harvestql/internal/ports"
)

// SyncUseCase coordinates fetching from Harvest and writing entries into the
// local report cache.
type SyncUseCase struct {
	Log     *slog.Logger
	Harvest ports.EntryFetcher
	Sink    ports.EntrySink
}

func (uc *SyncUseCase) Run(ctx context.Context, from, to domain.Date) error {
	if uc.Harvest == nil || uc.Sink == nil {
		return errors.New("usecase not initialized: missing dependencies")
	}
	uc.Log.Info("fetching time entries",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)

	entries, err := uc.Harvest.ListTimeEntries(ctx, from, to)
	if err != nil {
		return err
	}
	uc.Log.Info("fetched time entries", slog.Int("count", len(entries)))

	if len(entries) == 0 {
		uc.Log.Info("no entries to sync")
		return nil
	}

	if err := uc.Sink.SyncEntries(ctx, entries); err != nil {
		return err
	}
	uc.Log.Info("sync completed", slog.Int("count", len(entries)))
	return nil
}
