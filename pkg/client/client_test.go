package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/CLDWare/methods-lab/api"
	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/realtime"
	"github.com/CLDWare/methods-lab/internal/store"
	"github.com/CLDWare/methods-lab/internal/views"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Client {
	t.Helper()
	cfg := *config.Get()
	if mutate != nil {
		mutate(&cfg)
	}
	db, err := models.InitialiseDatabase(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	hub := realtime.NewHub(64)
	a := api.NewAPI(&cfg, db, hub)
	srv := httptest.NewServer(api.ApplyMiddleware(a.CreateMux()))
	t.Cleanup(func() {
		a.Close()
		srv.Close()
		hub.Close()
	})

	c, err := New(srv.URL, WithAPIKey(cfg.Server.APIKey))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, u := range []string{"ftp://example.com", "::nope"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q) succeeded", u)
		}
	}
}

func TestClient_APIKey(t *testing.T) {
	c := newTestServer(t, func(cfg *config.Config) { cfg.Server.APIKey = "k3y" })
	ctx := context.Background()
	if _, err := c.CurrentSession(ctx); err != nil {
		t.Fatalf("with key: %v", err)
	}

	c.apiKey = ""
	_, err := c.CurrentSession(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 401 {
		t.Errorf("without key: %v", err)
	}
}

func TestClient_SessionLifecycle(t *testing.T) {
	c := newTestServer(t, nil)
	ctx := context.Background()

	if s, err := c.LatestSession(ctx); err != nil || s != nil {
		t.Fatalf("LatestSession on empty server = %v, %v", s, err)
	}

	session, groups, err := c.CreateSession(ctx, 90*time.Second, 12)
	if err != nil {
		t.Fatal(err)
	}
	if session.DurationSeconds != 90 || session.StudentCount != 12 || len(groups) != 4 {
		t.Fatalf("created %+v with %d groups", session, len(groups))
	}

	if err := c.ActivateSession(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	if s, _ := c.SetStatus(ctx, session.ID, models.StatusPaused); s.Status != models.StatusPaused {
		t.Errorf("status = %s", s.Status)
	}
	// activate only moves waiting sessions
	c.ActivateSession(ctx, session.ID)
	if s, _ := c.Session(ctx, session.ID); s.Status != models.StatusPaused {
		t.Errorf("activate overrode pause: %s", s.Status)
	}

	yes := true
	s, err := c.Reveal(ctx, session.ID, &yes, nil)
	if err != nil || !s.RevealedAnswer || s.RevealedCounterexample {
		t.Errorf("Reveal = %+v, %v", s, err)
	}

	if _, err := c.UpdatePhase(ctx, session.ID, "lunch"); err == nil {
		t.Error("unknown phase accepted")
	}
	if err := c.EndSession(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("EndSession(missing) = %v", err)
	}

	if err := c.EndSession(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	if cur, err := c.CurrentSession(ctx); err != nil || cur != nil {
		t.Errorf("CurrentSession after end = %v, %v", cur, err)
	}
	if latest, _ := c.LatestSession(ctx); latest == nil || latest.ID != session.ID {
		t.Errorf("LatestSession = %v", latest)
	}
}

func TestClient_FeedDeliversEvents(t *testing.T) {
	c := newTestServer(t, nil)
	ctx := context.Background()

	got := make(chan realtime.Event, 8)
	sub := c.Feed().Subscribe(realtime.Filter{Table: realtime.Sessions}, realtime.ConsumerFunc(func(ev realtime.Event) { got <- ev }))
	defer sub.Close()

	session, _, err := c.CreateSession(ctx, time.Minute, 0)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-got:
		if ev.Type != realtime.Insert || ev.SessionID != session.ID {
			t.Errorf("event = %+v", ev)
		}
		row, err := realtime.Decode[models.Session](ev)
		if err != nil || row.CurrentPhase != models.PhaseIntro {
			t.Errorf("row = %+v, %v", row, err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event")
	}
}

func TestSubmitAnswer(t *testing.T) {
	c := newTestServer(t, nil)
	ctx := context.Background()
	_, groups, err := c.CreateSession(ctx, 5*time.Minute, 0)
	if err != nil {
		t.Fatal(err)
	}
	agreement := groups[1]
	local, err := OpenLocalStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = SubmitAnswer(ctx, c, local, Answer{GroupID: agreement.ID, Option: "Astrology"})
	if !errors.Is(err, ErrUnknownOption) {
		t.Errorf("unknown option: %v", err)
	}
	if local.Submitted(agreement.ID) {
		t.Error("refused answer marked as submitted")
	}

	sub, err := SubmitAnswer(ctx, c, local, Answer{GroupID: agreement.ID, Option: "Morning Class", Justification: "  common to every late day "})
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.DeviceHash) != 7 || sub.Justification != "common to every late day" || sub.SessionID != agreement.SessionID {
		t.Errorf("submission = %+v", sub)
	}
	if !local.Submitted(agreement.ID) {
		t.Error("group not remembered")
	}

	if _, err := SubmitAnswer(ctx, c, local, Answer{GroupID: agreement.ID, Option: "Wore Suit"}); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second answer: %v", err)
	}

	// the server enforces one answer per device too
	dup := &models.Submission{GroupID: agreement.ID, SelectedFactor: "Wore Suit", DeviceHash: sub.DeviceHash}
	if err := c.InsertSubmission(ctx, dup); !errors.Is(err, store.ErrDuplicateSubmission) {
		t.Errorf("duplicate device: %v", err)
	}

	if _, err := SubmitAnswer(ctx, c, nil, Answer{GroupID: "missing", Option: "Morning Class"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing group: %v", err)
	}
}

func TestLocalStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	ls, err := OpenLocalStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := ls.MarkSubmitted("g1"); err != nil {
		t.Fatal(err)
	}

	again, err := OpenLocalStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Submitted("g1") || again.Submitted("g2") {
		t.Errorf("reloaded store = %v", again.values)
	}
	if v, ok := again.Get("submitted_g1"); !ok || v != "true" {
		t.Errorf("Get(submitted_g1) = %q, %v", v, ok)
	}
}

// TestDepartmentMeeting runs the class flow against a live server: a
// presenter viewer drives the clock, students answer through SubmitAnswer and
// a projector viewer follows along over the websocket feed.
func TestDepartmentMeeting(t *testing.T) {
	c := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boards := make(chan views.Board, 256)
	projector, err := views.NewViewer(views.Options{
		Role:         views.Projector,
		Source:       c,
		Feed:         c.Feed(),
		PollInterval: time.Hour,
		JoinURL:      c.JoinURL,
		OnChange: func(b views.Board) {
			select {
			case boards <- b:
			default:
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	go projector.Run(ctx)

	presenter, err := views.NewViewer(views.Options{
		Role:         views.Presenter,
		Source:       c,
		Feed:         c.Feed(),
		Actions:      c,
		PollInterval: time.Hour,
		TickInterval: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	go presenter.Run(ctx)

	waitFor := func(what string, cond func(views.Board) bool) views.Board {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case b := <-boards:
				if cond(b) {
					return b
				}
			case <-deadline:
				t.Fatalf("timed out waiting for %s", what)
			}
		}
	}
	waitFor("empty board", func(b views.Board) bool { return b.Session == nil })

	session, groups, err := c.CreateSession(ctx, 5*time.Minute, 4)
	if err != nil {
		t.Fatal(err)
	}
	waitFor("session with groups", func(b views.Board) bool {
		return b.Session != nil && b.Session.ID == session.ID && len(b.Groups) == 4
	})

	// the presenter's clock starts the session
	waitFor("active session", func(b views.Board) bool {
		return b.Session != nil && b.Session.Status == models.StatusActive
	})

	if _, err := c.UpdatePhase(ctx, session.ID, models.PhaseWork); err != nil {
		t.Fatal(err)
	}
	difference := groups[0]
	for i, option := range []string{"Department Meeting", "Department Meeting", "Wore Suit"} {
		local, _ := OpenLocalStore(filepath.Join(t.TempDir(), "student.json"))
		if _, err := SubmitAnswer(ctx, c, local, Answer{GroupID: difference.ID, Option: option}); err != nil {
			t.Fatalf("student %d: %v", i, err)
		}
	}

	if _, err := c.UpdatePhase(ctx, session.ID, models.PhaseResults); err != nil {
		t.Fatal(err)
	}
	b := waitFor("results", func(b views.Board) bool {
		return b.Session != nil && b.Session.CurrentPhase == models.PhaseResults && b.Total == 3 && b.Groups[0].Tally != nil
	})
	tally := b.Groups[0].Tally
	leaders := tally.Leaders()
	if len(leaders) != 1 || leaders[0] != "Department Meeting" {
		t.Errorf("leaders = %v", leaders)
	}
	for _, oc := range tally.Options {
		if oc.Correct != (oc.Option == "Department Meeting") {
			t.Errorf("%s correct = %v", oc.Option, oc.Correct)
		}
	}
	if b.Groups[0].Scenario.CorrectAnswer != "Department Meeting" {
		t.Error("answer not revealed on the projector in results")
	}

	if err := c.EndSession(ctx, session.ID); err != nil {
		t.Fatal(err)
	}
	waitFor("cleared board", func(b views.Board) bool { return b.Session == nil })
}
