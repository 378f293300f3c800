// Package client talks to a methods-lab server over its HTTP api and
// realtime websocket. A Client can back a views.Viewer from another machine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CLDWare/methods-lab/internal/handlers"
	"github.com/CLDWare/methods-lab/internal/scenario"
	"github.com/CLDWare/methods-lab/internal/store"
	apiResponses "github.com/CLDWare/methods-lab/internal/types"
	"github.com/CLDWare/methods-lab/internal/views"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

// APIError is a non 2xx answer of the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

// Is lets callers match api errors against the store's sentinel errors
func (e *APIError) Is(target error) bool {
	switch target {
	case store.ErrNotFound:
		return e.Status == http.StatusNotFound
	case store.ErrDuplicateSubmission, store.ErrSessionFinished:
		return e.Status == http.StatusConflict && strings.Contains(e.Message, target.Error())
	case store.ErrInvalidSubmission:
		return e.Status == http.StatusBadRequest
	}
	return false
}

type Client struct {
	base      *url.URL
	apiKey    string
	authToken string
	http      *http.Client
}

type Option func(*Client)

// WithAPIKey sends the server's public api key on every request
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithAuthToken authenticates as a presenter with an auth_session_token
func WithAuthToken(token string) Option {
	return func(c *Client) { c.authToken = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: 15 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) authorize(h http.Header) {
	if c.apiKey != "" {
		h.Set("apikey", c.apiKey)
	}
	if c.authToken != "" {
		h.Add("Cookie", (&http.Cookie{Name: handlers.AuthCookieName, Value: c.authToken}).String())
	}
}

// do sends a request and decodes the data of the response envelope into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env apiResponses.Response[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}

// CreateSession starts a session with its four groups
func (c *Client) CreateSession(ctx context.Context, duration time.Duration, studentCount int) (*models.Session, []models.Group, error) {
	var out handlers.SessionWithGroups
	err := c.do(ctx, http.MethodPost, "/api/session", nil, handlers.PostSessionBody{
		DurationMinutes: ptr(duration.Minutes()),
		StudentCount:    studentCount,
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	return &out.Session, out.Groups, nil
}

// CurrentSession returns the newest unfinished session, or nil
func (c *Client) CurrentSession(ctx context.Context) (*models.Session, error) {
	var out handlers.CurrentSessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/session/current", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

// LatestSession returns the newest session in any status, or nil
func (c *Client) LatestSession(ctx context.Context) (*models.Session, error) {
	var out models.Session
	err := c.do(ctx, http.MethodGet, "/api/session/latest", nil, nil, &out)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Session(ctx context.Context, id string) (*models.Session, error) {
	var out models.Session
	if err := c.do(ctx, http.MethodGet, "/api/session/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) sessionAction(ctx context.Context, id, action string, body any) (*models.Session, error) {
	var out models.Session
	if err := c.do(ctx, http.MethodPost, "/api/session/"+url.PathEscape(id)+"/"+action, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePhase(ctx context.Context, id string, phase models.Phase) (*models.Session, error) {
	return c.sessionAction(ctx, id, "phase", handlers.PostPhaseBody{Phase: string(phase)})
}

func (c *Client) SetStatus(ctx context.Context, id string, status models.Status) (*models.Session, error) {
	return c.sessionAction(ctx, id, "status", handlers.PostStatusBody{Status: string(status)})
}

func (c *Client) ActivateSession(ctx context.Context, id string) error {
	_, err := c.sessionAction(ctx, id, "activate", nil)
	return err
}

func (c *Client) EndSession(ctx context.Context, id string) error {
	_, err := c.sessionAction(ctx, id, "end", nil)
	return err
}

// Reveal sets the reveal flags; nil leaves a flag untouched
func (c *Client) Reveal(ctx context.Context, id string, answer, counterexample *bool) (*models.Session, error) {
	return c.sessionAction(ctx, id, "reveal", handlers.PostRevealBody{Answer: answer, Counterexample: counterexample})
}

func (c *Client) Groups(ctx context.Context, sessionID string) ([]models.Group, error) {
	var out []models.Group
	err := c.do(ctx, http.MethodGet, "/api/session/"+url.PathEscape(sessionID)+"/groups", nil, nil, &out)
	return out, err
}

func (c *Client) Submissions(ctx context.Context, sessionID string) ([]models.Submission, error) {
	var out []models.Submission
	err := c.do(ctx, http.MethodGet, "/api/session/"+url.PathEscape(sessionID)+"/submissions", nil, nil, &out)
	return out, err
}

// Group returns a group with its scenario as students see it
func (c *Client) Group(ctx context.Context, id string) (*views.GroupBoard, error) {
	var out views.GroupBoard
	if err := c.do(ctx, http.MethodGet, "/api/group/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GroupSubmissions(ctx context.Context, groupID string) ([]models.Submission, error) {
	var out []models.Submission
	err := c.do(ctx, http.MethodGet, "/api/group/"+url.PathEscape(groupID)+"/submissions", nil, nil, &out)
	return out, err
}

// InsertSubmission posts one answer. An empty device hash is filled in by
// the server.
func (c *Client) InsertSubmission(ctx context.Context, sub *models.Submission) error {
	return c.do(ctx, http.MethodPost, "/api/group/"+url.PathEscape(sub.GroupID)+"/submission", nil, handlers.PostSubmissionBody{
		SelectedFactor: sub.SelectedFactor,
		Justification:  sub.Justification,
		DeviceHash:     sub.DeviceHash,
	}, sub)
}

func (c *Client) Scenarios(ctx context.Context) ([]scenario.Scenario, error) {
	var out []scenario.Scenario
	err := c.do(ctx, http.MethodGet, "/api/scenarios", nil, nil, &out)
	return out, err
}

// StudentView returns the student screen of a group for a device
func (c *Client) StudentView(ctx context.Context, groupID, device, lang string) (*handlers.StudentViewResponse, error) {
	q := url.Values{}
	if device != "" {
		q.Set("device", device)
	}
	if lang != "" {
		q.Set("lang", lang)
	}
	var out handlers.StudentViewResponse
	if err := c.do(ctx, http.MethodGet, "/group/"+url.PathEscape(groupID), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinURL is the student link of a group on this server
func (c *Client) JoinURL(groupID string) string {
	return c.endpoint("/group/"+groupID, nil)
}

func ptr[T any](v T) *T {
	return &v
}
