package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"harvestql/internal/domain"
)

type fakeClient struct {
	user     domain.User
	projects []domain.ProjectAssignment
	running  *domain.TimeEntry
	err      error

	startCalls   int
	stopCalls    int
	runningCalls int
	stoppedID    int64
	startDate    domain.Date
}

func (f *fakeClient) ListTimeEntries(ctx context.Context, from, to domain.Date) ([]domain.TimeEntry, error) {
	return nil, nil
}

func (f *fakeClient) CurrentUser(ctx context.Context) (domain.User, error) {
	return f.user, f.err
}

func (f *fakeClient) ListProjectAssignments(ctx context.Context) ([]domain.ProjectAssignment, error) {
	return f.projects, f.err
}

func (f *fakeClient) RunningTimer(ctx context.Context) (*domain.TimeEntry, error) {
	f.runningCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.running == nil {
		return nil, nil
	}
	e := *f.running
	return &e, nil
}

func (f *fakeClient) StartTimer(ctx context.Context, projectID, taskID int64, date domain.Date) (domain.TimeEntry, error) {
	f.startCalls++
	f.startDate = date
	if f.err != nil {
		return domain.TimeEntry{}, f.err
	}
	return domain.TimeEntry{
		ID:        100,
		SpentDate: date,
		Running:   true,
		Project:   domain.Ref{ID: projectID, Name: "Proj A"},
		Task:      domain.Ref{ID: taskID, Name: "Dev"},
	}, nil
}

func (f *fakeClient) StopTimer(ctx context.Context, entryID int64) (domain.TimeEntry, error) {
	f.stopCalls++
	f.stoppedID = entryID
	if f.err != nil {
		return domain.TimeEntry{}, f.err
	}
	return domain.TimeEntry{ID: entryID, Hours: 1.5}, nil
}

func newTestSession(client *fakeClient) *Session {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), client)
}

func TestRefresh(t *testing.T) {
	client := &fakeClient{
		user: domain.User{ID: 42, FirstName: "Ada"},
		projects: []domain.ProjectAssignment{
			{Project: domain.Ref{ID: 10, Name: "Proj A"}, Client: "Acme"},
		},
		running: &domain.TimeEntry{ID: 7, Running: true},
	}
	s := newTestSession(client)

	if s.User() != nil {
		t.Fatal("user should be nil before the first refresh")
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if u := s.User(); u == nil || u.ID != 42 {
		t.Errorf("unexpected user %+v", u)
	}
	if p := s.Projects(); len(p) != 1 || p[0].Client != "Acme" {
		t.Errorf("unexpected projects %+v", p)
	}
	if r := s.Running(); r == nil || r.ID != 7 {
		t.Errorf("unexpected running timer %+v", r)
	}
}

func TestStatusLine(t *testing.T) {
	s := newTestSession(&fakeClient{})
	if got := s.StatusLine(); got != "No timer running" {
		t.Errorf("idle status %q", got)
	}

	client := &fakeClient{running: &domain.TimeEntry{
		Hours:   0.25,
		Project: domain.Ref{Name: "Proj A"},
		Task:    domain.Ref{Name: "Dev"},
	}}
	s = newTestSession(client)
	if err := s.RefreshTimer(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.StatusLine(); got != "Tracking Proj A / Dev (0.25h)" {
		t.Errorf("tracking status %q", got)
	}
}

func TestStartTimer(t *testing.T) {
	client := &fakeClient{}
	s := newTestSession(client)

	now := time.Date(2025, 8, 27, 14, 0, 0, 0, time.UTC)
	entry, err := s.StartTimer(context.Background(), 10, 20, now)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if client.startDate.String() != "2025-08-27" {
		t.Errorf("started on %s", client.startDate)
	}
	if r := s.Running(); r == nil || r.ID != entry.ID {
		t.Errorf("running timer not recorded: %+v", r)
	}
}

func TestStopTimer(t *testing.T) {
	client := &fakeClient{running: &domain.TimeEntry{ID: 7, Running: true}}
	s := newTestSession(client)

	// The session has not seen a timer yet; StopTimer refreshes first.
	entry, err := s.StopTimer(context.Background())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if client.stoppedID != 7 || entry.ID != 7 {
		t.Errorf("stopped entry %d, result %+v", client.stoppedID, entry)
	}
	if s.Running() != nil {
		t.Error("running timer should be cleared after stop")
	}
}

func TestStopTimer_NothingRunning(t *testing.T) {
	s := newTestSession(&fakeClient{})
	_, err := s.StopTimer(context.Background())
	if !errors.Is(err, ErrNoRunningTimer) {
		t.Fatalf("expected ErrNoRunningTimer, got %v", err)
	}
}

func TestPoll_RefreshesTimerUntilDone(t *testing.T) {
	client := &fakeClient{running: &domain.TimeEntry{ID: 7, Running: true}}
	s := newTestSession(client)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	s.Poll(ctx, 10*time.Millisecond)

	if client.runningCalls == 0 {
		t.Fatal("poll should refresh the running timer")
	}
	if r := s.Running(); r == nil || r.ID != 7 {
		t.Fatalf("running timer not cached after poll: %+v", r)
	}
}

func TestStopTimer_ClientError(t *testing.T) {
	wantErr := errors.New("harvest down")
	s := newTestSession(&fakeClient{err: wantErr})
	_, err := s.StopTimer(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the client error, got %v", err)
	}
}
