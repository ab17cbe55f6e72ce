package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"harvestql/internal/domain"
)

// Client implements ports.HarvestClient using the Harvest API v2.
type Client struct {
	baseURL   string
	apiToken  string
	accountID string
	http      *http.Client
	log       *slog.Logger
}

func NewClient(baseURL, apiToken, accountID string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.harvestapp.com"
	}
	return &Client{
		baseURL:   baseURL,
		apiToken:  apiToken,
		accountID: accountID,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ListTimeEntries fetches the current user's entries with spent_date in
// [from, to], following pagination.
// Harvest v2: GET /v2/time_entries?from=...&to=...&page=...
func (c *Client) ListTimeEntries(ctx context.Context, from, to domain.Date) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	page := 1
	for {
		var body timeEntriesPage
		params := url.Values{}
		params.Set("from", from.String())
		params.Set("to", to.String())
		params.Set("page", strconv.Itoa(page))
		if err := c.get(ctx, "/v2/time_entries", params, &body); err != nil {
			return nil, err
		}
		for _, r := range body.TimeEntries {
			e, err := r.toDomain()
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		if body.NextPage == nil {
			return out, nil
		}
		page = *body.NextPage
	}
}

// RunningTimer returns the currently running entry, or nil when no timer is
// running.
func (c *Client) RunningTimer(ctx context.Context) (*domain.TimeEntry, error) {
	params := url.Values{}
	params.Set("is_running", "true")
	var body timeEntriesPage
	if err := c.get(ctx, "/v2/time_entries", params, &body); err != nil {
		return nil, err
	}
	if len(body.TimeEntries) == 0 {
		return nil, nil
	}
	e, err := body.TimeEntries[0].toDomain()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CurrentUser fetches the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var body rawUser
	if err := c.get(ctx, "/v2/users/me", nil, &body); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: body.ID, FirstName: body.FirstName, LastName: body.LastName}, nil
}

// ListProjectAssignments fetches the projects and tasks the current user can
// track time against, following pagination.
func (c *Client) ListProjectAssignments(ctx context.Context) ([]domain.ProjectAssignment, error) {
	var out []domain.ProjectAssignment
	page := 1
	for {
		var body assignmentsPage
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		if err := c.get(ctx, "/v2/users/me/project_assignments", params, &body); err != nil {
			return nil, err
		}
		for _, a := range body.ProjectAssignments {
			pa := domain.ProjectAssignment{
				Project: domain.Ref{ID: a.Project.ID, Name: a.Project.Name},
				Client:  a.Client.Name,
			}
			for _, t := range a.TaskAssignments {
				pa.Tasks = append(pa.Tasks, domain.Ref{ID: t.Task.ID, Name: t.Task.Name})
			}
			out = append(out, pa)
		}
		if body.NextPage == nil {
			return out, nil
		}
		page = *body.NextPage
	}
}

// StartTimer creates a running entry for the given project and task on date.
// Harvest starts a timer when the payload omits hours.
func (c *Client) StartTimer(ctx context.Context, projectID, taskID int64, date domain.Date) (domain.TimeEntry, error) {
	payload := map[string]any{
		"project_id": projectID,
		"task_id":    taskID,
		"spent_date": date.String(),
	}
	var body rawTimeEntry
	if err := c.do(ctx, http.MethodPost, "/v2/time_entries", payload, &body); err != nil {
		return domain.TimeEntry{}, err
	}
	return body.toDomain()
}

// StopTimer stops the running entry with the given id.
func (c *Client) StopTimer(ctx context.Context, entryID int64) (domain.TimeEntry, error) {
	path := fmt.Sprintf("/v2/time_entries/%d/stop", entryID)
	var body rawTimeEntry
	if err := c.do(ctx, http.MethodPatch, path, nil, &body); err != nil {
		return domain.TimeEntry{}, err
	}
	return body.toDomain()
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	// JoinPath keeps any prefix the base URL carries, e.g. a gateway path.
	u = u.JoinPath(path)
	if params != nil {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	u = u.JoinPath(path)
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.apiToken == "" {
		return errors.New("missing api token")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Harvest-Account-Id", c.accountID)
	req.Header.Set("User-Agent", "harvestql")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("harvest: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Raw structs mirror the JSON from Harvest v2.

type timeEntriesPage struct {
	TimeEntries []rawTimeEntry `json:"time_entries"`
	NextPage    *int           `json:"next_page"`
}

type rawTimeEntry struct {
	ID        int64   `json:"id"`
	SpentDate string  `json:"spent_date"`
	Hours     float64 `json:"hours"`
	Notes     string  `json:"notes"`
	IsRunning bool    `json:"is_running"`
	Project   rawRef  `json:"project"`
	Task      rawRef  `json:"task"`
}

type rawRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (r rawTimeEntry) toDomain() (domain.TimeEntry, error) {
	spent, err := domain.ParseDate(r.SpentDate)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("harvest: entry %d: %w", r.ID, err)
	}
	return domain.TimeEntry{
		ID:        r.ID,
		SpentDate: spent,
		Hours:     r.Hours,
		Project:   domain.Ref{ID: r.Project.ID, Name: r.Project.Name},
		Task:      domain.Ref{ID: r.Task.ID, Name: r.Task.Name},
		Notes:     r.Notes,
		Running:   r.IsRunning,
	}, nil
}

type rawUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type assignmentsPage struct {
	ProjectAssignments []rawAssignment `json:"project_assignments"`
	NextPage           *int            `json:"next_page"`
}

type rawAssignment struct {
	Project         rawRef `json:"project"`
	Client          rawRef `json:"client"`
	TaskAssignments []struct {
		Task rawRef `json:"task"`
	} `json:"task_assignments"`
}
