// Package session holds the mutable tracker state shared across commands:
// the cached project list, the current user and the running-timer pointer.
// It replaces ambient globals with one mutex-guarded object.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"harvestql/internal/domain"
	"harvestql/internal/ports"
)

// ErrNoRunningTimer is returned by StopTimer when nothing is tracking.
var ErrNoRunningTimer = errors.New("no timer is running")

// Session caches tracker state fetched from Harvest. All methods are safe
// for concurrent use.
type Session struct {
	log    *slog.Logger
	client ports.HarvestClient

	mu       sync.Mutex
	user     *domain.User
	projects []domain.ProjectAssignment
	running  *domain.TimeEntry
}

func New(log *slog.Logger, client ports.HarvestClient) *Session {
	return &Session{log: log, client: client}
}

// Refresh reloads the current user, the project assignments and the running
// timer from Harvest.
func (s *Session) Refresh(ctx context.Context) error {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	projects, err := s.client.ListProjectAssignments(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.projects = projects
	s.mu.Unlock()
	s.log.Debug("session refreshed",
		slog.Int64("user", user.ID),
		slog.Int("projects", len(projects)),
	)

	return s.RefreshTimer(ctx)
}

// RefreshTimer reloads only the running-timer pointer.
func (s *Session) RefreshTimer(ctx context.Context) error {
	running, err := s.client.RunningTimer(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.running = running
	s.mu.Unlock()
	return nil
}

// User returns the cached current user, or nil before the first Refresh.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Projects returns the cached project assignments.
func (s *Session) Projects() []domain.ProjectAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ProjectAssignment, len(s.projects))
	copy(out, s.projects)
	return out
}

// Running returns a copy of the running entry, or nil when idle.
func (s *Session) Running() *domain.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running == nil {
		return nil
	}
	e := *s.running
	return &e
}

// StartTimer starts a running entry for today on the given project and task
// and records it as the session's running timer.
func (s *Session) StartTimer(ctx context.Context, projectID, taskID int64, now time.Time) (domain.TimeEntry, error) {
	entry, err := s.client.StartTimer(ctx, projectID, taskID, domain.Today(now))
	if err != nil {
		return domain.TimeEntry{}, err
	}
	s.mu.Lock()
	s.running = &entry
	s.mu.Unlock()
	s.log.Info("timer started",
		slog.Int64("entry", entry.ID),
		slog.String("project", entry.Project.Name),
		slog.String("task", entry.Task.Name),
	)
	return entry, nil
}

// StopTimer stops the running entry. The running pointer is refreshed first
// when the session has not seen a timer yet.
func (s *Session) StopTimer(ctx context.Context) (domain.TimeEntry, error) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if running == nil {
		if err := s.RefreshTimer(ctx); err != nil {
			return domain.TimeEntry{}, err
		}
		s.mu.Lock()
		running = s.running
		s.mu.Unlock()
	}
	if running == nil {
		return domain.TimeEntry{}, ErrNoRunningTimer
	}

	entry, err := s.client.StopTimer(ctx, running.ID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	s.mu.Lock()
	s.running = nil
	s.mu.Unlock()
	s.log.Info("timer stopped",
		slog.Int64("entry", entry.ID),
		slog.Float64("hours", entry.Hours),
	)
	return entry, nil
}

// StatusLine renders the running timer as one line of status text.
func (s *Session) StatusLine() string {
	running := s.Running()
	if running == nil {
		return "No timer running"
	}
	return fmt.Sprintf("Tracking %s / %s (%.2fh)", running.Project.Name, running.Task.Name, running.Hours)
}

// Poll refreshes the running-timer pointer on a fixed interval until ctx is
// done. Errors are logged and the loop keeps going.
func (s *Session) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RefreshTimer(ctx); err != nil {
				s.log.Warn("timer refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}
