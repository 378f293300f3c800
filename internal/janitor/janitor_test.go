package janitor

import (
	"context"
	"testing"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/realtime"
	"github.com/CLDWare/methods-lab/internal/store"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"gorm.io/gorm"
)

func newTestJanitor(t *testing.T, expire bool) (*Janitor, *store.Store, *realtime.Hub) {
	t.Helper()
	db, err := models.InitialiseDatabase(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	hub := realtime.NewHub(16)
	t.Cleanup(hub.Close)
	st := store.New(db, hub)
	cfg := &config.Config{Janitor: config.JanitorConfig{
		ShortCleanInterval: time.Hour,
		FullCleanInterval:  time.Hour,
		ExpireSessions:     expire,
	}}
	return NewJanitor(cfg, st, false), st, hub
}

func TestJanitor_EndsOverdueSessions(t *testing.T) {
	jan, st, hub := newTestJanitor(t, true)
	ctx := context.Background()

	overdue, _, _ := st.CreateSession(ctx, store.SessionOptions{Duration: time.Minute})
	running, _, _ := st.CreateSession(ctx, store.SessionOptions{Duration: time.Hour})
	paused, _, _ := st.CreateSession(ctx, store.SessionOptions{Duration: time.Minute})
	for _, s := range []*models.Session{overdue, running} {
		if err := st.ActivateSession(ctx, s.ID); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.SetStatus(ctx, paused.ID, models.StatusPaused); err != nil {
		t.Fatal(err)
	}

	updates := make(chan realtime.Event, 8)
	sub := hub.Subscribe(realtime.Filter{Table: realtime.Sessions}, realtime.ConsumerFunc(func(ev realtime.Event) { updates <- ev }))
	defer sub.Close()

	jan.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	jan.RunShort(ctx)

	want := map[string]models.Status{
		overdue.ID: models.StatusFinished,
		running.ID: models.StatusActive,
		paused.ID:  models.StatusPaused,
	}
	for id, status := range want {
		got, err := st.Session(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != status {
			t.Errorf("session %s: status %s, want %s", id, got.Status, status)
		}
	}

	select {
	case ev := <-updates:
		if ev.SessionID != overdue.ID || ev.Type != realtime.Update {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Error("ending a session published nothing")
	}

	if n := jan.EndOverdueSessions(ctx); n != 0 {
		t.Errorf("second pass ended %d sessions", n)
	}
}

func TestJanitor_LeavesSessionsAloneByDefault(t *testing.T) {
	jan, st, _ := newTestJanitor(t, false)
	ctx := context.Background()
	s, _, _ := st.CreateSession(ctx, store.SessionOptions{Duration: 0})
	st.ActivateSession(ctx, s.ID)

	jan.RunShort(ctx)

	got, _ := st.Session(ctx, s.ID)
	if got.Status != models.StatusActive {
		t.Errorf("status = %s, want active", got.Status)
	}
}

func TestJanitor_CleansAuthSessions(t *testing.T) {
	jan, st, _ := newTestJanitor(t, false)
	ctx := context.Background()
	db := st.DB()

	user := models.User{GoogleSubject: "sub-1", Email: "presenter@example.com"}
	if err := gorm.G[models.User](db).Create(ctx, &user); err != nil {
		t.Fatal(err)
	}
	for i, exp := range []time.Duration{-time.Hour, time.Hour} {
		s := models.AuthSession{SessionToken: string(rune('a' + i)), UserID: user.ID, ExpiresAt: time.Now().Add(exp)}
		if err := gorm.G[models.AuthSession](db).Create(ctx, &s); err != nil {
			t.Fatal(err)
		}
	}

	if n := jan.CleanUpExpiredAuthSession(ctx); n != 1 {
		t.Errorf("cleaned %d sessions, want 1", n)
	}

	// soft deleted rows only disappear in a full run
	if _, err := gorm.G[models.User](db).Where("id = ?", user.ID).Delete(ctx); err != nil {
		t.Fatal(err)
	}
	var count int64
	db.Unscoped().Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("soft deleted user missing before deep clean: %d", count)
	}
	jan.RunFull(ctx)
	db.Unscoped().Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("%d users left after deep clean", count)
	}
}
