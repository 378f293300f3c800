package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/CLDWare/methods-lab/internal/realtime"
	"github.com/CLDWare/methods-lab/internal/store"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

type fakeSource struct {
	mu      sync.Mutex
	session *models.Session
	groups  []models.Group
	subs    []models.Submission
	fetches int
}

func (f *fakeSource) CurrentSession(context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.session == nil {
		return nil, nil
	}
	s := *f.session
	return &s, nil
}

func (f *fakeSource) Groups(context.Context, string) ([]models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Group(nil), f.groups...), nil
}

func (f *fakeSource) Submissions(context.Context, string) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Submission(nil), f.subs...), nil
}

type fakeFeed struct {
	mu   sync.Mutex
	subs []*fakeSub
}

type fakeSub struct {
	feed     *fakeFeed
	filter   realtime.Filter
	consumer realtime.Consumer
	closed   bool
}

func (f *fakeFeed) Subscribe(filter realtime.Filter, c realtime.Consumer) realtime.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fakeSub{feed: f, filter: filter, consumer: c}
	f.subs = append(f.subs, s)
	return s
}

func (s *fakeSub) Close() {
	s.feed.mu.Lock()
	s.closed = true
	s.feed.mu.Unlock()
}

func (f *fakeFeed) push(ev realtime.Event) {
	f.mu.Lock()
	var targets []realtime.Consumer
	for _, s := range f.subs {
		if !s.closed && s.filter.Match(ev) {
			targets = append(targets, s.consumer)
		}
	}
	f.mu.Unlock()
	for _, c := range targets {
		c.Consume(ev)
	}
}

func (f *fakeFeed) open() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.subs {
		if !s.closed {
			n++
		}
	}
	return n
}

// boards collects OnChange output for waitFor
type boards chan Board

func (b boards) onChange(board Board) {
	select {
	case b <- board:
	default:
	}
}

func waitFor(t *testing.T, ch boards, cond func(Board) bool) Board {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case b := <-ch:
			if cond(b) {
				return b
			}
		case <-deadline:
			t.Fatal("timed out waiting for board")
		}
	}
}

func runViewer(t *testing.T, opts Options) (*Viewer, context.CancelFunc, <-chan error) {
	t.Helper()
	v, err := NewViewer(opts)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()
	t.Cleanup(cancel)
	return v, cancel, done
}

func TestViewer_DuplicateDeliveryCountsOnce(t *testing.T) {
	session := &models.Session{ID: "s1", CreatedAt: time.Now(), Status: models.StatusActive, CurrentPhase: models.PhaseResults, DurationSeconds: 300}
	src := &fakeSource{
		session: session,
		groups:  []models.Group{{ID: "g1", SessionID: "s1", MethodType: models.MethodDifference, GroupNumber: 1}},
		subs: []models.Submission{
			{ID: "a", SessionID: "s1", GroupID: "g1", SelectedFactor: "Department Meeting"},
			{ID: "b", SessionID: "s1", GroupID: "g1", SelectedFactor: "Wore Suit"},
		},
	}
	feed := &fakeFeed{}
	ch := make(boards, 64)
	runViewer(t, Options{Role: Projector, Source: src, Feed: feed, PollInterval: time.Hour, OnChange: ch.onChange})

	waitFor(t, ch, func(b Board) bool { return b.Total == 2 })

	for _, s := range []models.Submission{src.subs[0], {ID: "c", SessionID: "s1", GroupID: "g1", SelectedFactor: "Department Meeting"}} {
		ev, _ := realtime.NewEvent(realtime.Insert, realtime.Submissions, "s1", s)
		feed.push(ev)
	}

	b := waitFor(t, ch, func(b Board) bool { return b.Total == 3 })
	tally := b.Groups[0].Tally
	if tally == nil {
		t.Fatal("no tally in results phase")
	}
	if tally.Options[3].Count != 2 || tally.Total != 3 {
		t.Errorf("tally = %+v", tally)
	}
}

func TestViewer_PollReconcilesDroppedEvents(t *testing.T) {
	session := &models.Session{ID: "s1", CreatedAt: time.Now(), Status: models.StatusActive, CurrentPhase: models.PhaseWork, DurationSeconds: 300}
	src := &fakeSource{session: session}
	feed := &fakeFeed{}
	ch := make(boards, 64)
	runViewer(t, Options{Role: Projector, Source: src, Feed: feed, PollInterval: 10 * time.Millisecond, OnChange: ch.onChange})

	waitFor(t, ch, func(b Board) bool { return b.Session != nil })

	// rows committed without any push reaching the viewer
	src.mu.Lock()
	src.groups = []models.Group{{ID: "g1", SessionID: "s1", MethodType: models.MethodQCA, GroupNumber: 4}}
	src.subs = []models.Submission{{ID: "x", SessionID: "s1", GroupID: "g1", SelectedFactor: "anything"}}
	src.mu.Unlock()

	b := waitFor(t, ch, func(b Board) bool { return b.Total == 1 && len(b.Groups) == 1 })
	if b.Groups[0].Submissions != 1 {
		t.Errorf("group submissions = %d", b.Groups[0].Submissions)
	}
}

func TestViewer_FollowsSessionLifecycle(t *testing.T) {
	src := &fakeSource{}
	feed := &fakeFeed{}
	ch := make(boards, 64)
	v, _, _ := runViewer(t, Options{Role: Projector, Source: src, Feed: feed, PollInterval: time.Hour, OnChange: ch.onChange})

	waitFor(t, ch, func(b Board) bool { return b.Session == nil })

	s := models.Session{ID: "s9", CreatedAt: time.Now(), Status: models.StatusWaiting, CurrentPhase: models.PhaseIntro, DurationSeconds: 60}
	feed.push(sessionEvent(t, realtime.Insert, s))
	waitFor(t, ch, func(b Board) bool { return b.Session != nil && b.Session.ID == "s9" })

	s.CurrentPhase = models.PhaseQR
	feed.push(sessionEvent(t, realtime.Update, s))
	waitFor(t, ch, func(b Board) bool { return b.View != nil && b.View.ShowJoinCodes && b.Session.CurrentPhase == models.PhaseQR })

	s.Status = models.StatusFinished
	feed.push(sessionEvent(t, realtime.Update, s))
	waitFor(t, ch, func(b Board) bool { return b.Session == nil })

	if _, ok := v.State().Current(); ok {
		t.Error("finished session is still current")
	}
	// sessions subscription stays open, row subscriptions are closed
	if n := feed.open(); n != 1 {
		t.Errorf("%d subscriptions open, want 1", n)
	}
}

func TestViewer_TeardownClosesSubscriptions(t *testing.T) {
	database, err := models.InitialiseDatabase(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	hub := realtime.NewHub(16)
	defer hub.Close()
	st := store.New(database, hub)
	if _, _, err := st.CreateSession(context.Background(), store.SessionOptions{Duration: time.Minute}); err != nil {
		t.Fatal(err)
	}

	ch := make(boards, 64)
	_, cancel, done := runViewer(t, Options{Role: Projector, Source: st, Feed: hub, OnChange: ch.onChange})
	waitFor(t, ch, func(b Board) bool { return len(b.Groups) == 4 })
	if hub.Subscribers() != 3 {
		t.Errorf("Subscribers() = %d while running, want 3", hub.Subscribers())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if hub.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after teardown", hub.Subscribers())
	}
}

func TestViewer_PresenterEndsExpiredSession(t *testing.T) {
	database, err := models.InitialiseDatabase(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	hub := realtime.NewHub(16)
	defer hub.Close()
	st := store.New(database, hub)
	ctx := context.Background()
	session, _, err := st.CreateSession(ctx, store.SessionOptions{Duration: 0})
	if err != nil {
		t.Fatal(err)
	}

	ch := make(boards, 64)
	runViewer(t, Options{Role: Presenter, Source: st, Feed: hub, Actions: st, TickInterval: 5 * time.Millisecond, PollInterval: time.Hour, OnChange: ch.onChange})
	waitFor(t, ch, func(b Board) bool { return b.Session == nil })

	got, err := st.Session(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusFinished {
		t.Errorf("status = %s, want finished", got.Status)
	}
}

func TestViewer_PresenterLeavesPausedSession(t *testing.T) {
	database, err := models.InitialiseDatabase(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	hub := realtime.NewHub(16)
	defer hub.Close()
	st := store.New(database, hub)
	ctx := context.Background()
	session, _, _ := st.CreateSession(ctx, store.SessionOptions{Duration: 0})
	if _, err := st.SetStatus(ctx, session.ID, models.StatusPaused); err != nil {
		t.Fatal(err)
	}

	_, cancel, done := runViewer(t, Options{Role: Presenter, Source: st, Feed: hub, Actions: st, TickInterval: 5 * time.Millisecond, PollInterval: time.Hour})
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	got, _ := st.Session(ctx, session.ID)
	if got.Status != models.StatusPaused {
		t.Errorf("status = %s, want paused", got.Status)
	}
}

func TestNewViewer_Validation(t *testing.T) {
	src, feed := &fakeSource{}, &fakeFeed{}
	tests := []struct {
		name string
		opts Options
	}{
		{"no source", Options{Role: Projector, Feed: feed}},
		{"bad role", Options{Role: "janitor", Source: src, Feed: feed}},
		{"presenter without actions", Options{Role: Presenter, Source: src, Feed: feed}},
		{"student without group", Options{Role: Student, Source: src, Feed: feed}},
	}
	for _, tt := range tests {
		if _, err := NewViewer(tt.opts); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
