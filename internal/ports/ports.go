package ports

import (
	"context"

	"harvestql/internal/domain"
)

// EntryFetcher returns the current user's time entries whose spent date
// falls within [from, to] inclusive. This is the single capability the
// query executor needs from the outside world.
type EntryFetcher interface {
	ListTimeEntries(ctx context.Context, from, to domain.Date) ([]domain.TimeEntry, error)
}

// HarvestClient is the full Harvest API surface used by the session and
// timer commands, on top of entry fetching.
type HarvestClient interface {
	EntryFetcher
	ListProjectAssignments(ctx context.Context) ([]domain.ProjectAssignment, error)
	CurrentUser(ctx context.Context) (domain.User, error)
	RunningTimer(ctx context.Context) (*domain.TimeEntry, error)
	StartTimer(ctx context.Context, projectID, taskID int64, date domain.Date) (domain.TimeEntry, error)
	StopTimer(ctx context.Context, entryID int64) (domain.TimeEntry, error)
}

// EntrySink persists fetched entries into local storage. The primary
// implementation is the MySQL report cache.
type EntrySink interface {
	SyncEntries(ctx context.Context, entries []domain.TimeEntry) error
}

// DocumentRewriter replaces an inclusive line range of a vault document with
// new text. Used only by the static-freeze path; the replacement is a
// non-atomic read-modify-write, best effort.
type DocumentRewriter interface {
	ReplaceLines(path string, start, end int, text string) error
}
