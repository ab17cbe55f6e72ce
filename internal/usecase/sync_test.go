package usecase

import (
	"context"
	"errors"
	"testing"

	"harvestql/internal/domain"
)

type fakeSink struct {
	entries []domain.TimeEntry
	calls   int
}

func (f *fakeSink) SyncEntries(ctx context.Context, entries []domain.TimeEntry) error {
	f.calls++
	f.entries = entries
	return nil
}

func TestSync_WritesFetchedEntries(t *testing.T) {
	fetcher := &fakeFetcher{entries: []domain.TimeEntry{
		{ID: 1, SpentDate: mustDate("2025-08-01"), Hours: 1},
		{ID: 2, SpentDate: mustDate("2025-08-02"), Hours: 2},
	}}
	sink := &fakeSink{}
	uc := &SyncUseCase{Log: discardLogger(), Harvest: fetcher, Sink: sink}

	if err := uc.Run(context.Background(), mustDate("2025-08-01"), mustDate("2025-08-02")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sink.calls != 1 || len(sink.entries) != 2 {
		t.Fatalf("expected one sink call with 2 entries, got %d calls with %d", sink.calls, len(sink.entries))
	}
}

func TestSync_EmptyFetchSkipsSink(t *testing.T) {
	sink := &fakeSink{}
	uc := &SyncUseCase{Log: discardLogger(), Harvest: &fakeFetcher{}, Sink: sink}

	if err := uc.Run(context.Background(), mustDate("2025-08-01"), mustDate("2025-08-02")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sink.calls != 0 {
		t.Fatal("empty fetch must not write to the sink")
	}
}

func TestSync_FetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("harvest down")
	uc := &SyncUseCase{Log: discardLogger(), Harvest: &fakeFetcher{err: wantErr}, Sink: &fakeSink{}}

	if err := uc.Run(context.Background(), mustDate("2025-08-01"), mustDate("2025-08-02")); !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}
}

func TestSync_MissingDependencies(t *testing.T) {
	uc := &SyncUseCase{Log: discardLogger()}
	if err := uc.Run(context.Background(), mustDate("2025-08-01"), mustDate("2025-08-02")); err == nil {
		t.Fatal("expected an error for missing dependencies")
	}
}
