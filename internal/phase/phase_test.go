package phase

import (
	"errors"
	"testing"
	"time"

	models "github.com/CLDWare/methods-lab/pkg/db"
)

func TestRemaining(t *testing.T) {
	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	session := models.Session{CreatedAt: created, DurationSeconds: 300}

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"at creation", created, 5 * time.Minute},
		{"midway", created.Add(90 * time.Second), 210 * time.Second},
		{"at deadline", created.Add(5 * time.Minute), 0},
		{"past deadline", created.Add(time.Hour), 0},
		{"clock skew before creation", created.Add(-10 * time.Second), 310 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Remaining(session, tt.now); got != tt.want {
				t.Errorf("Remaining() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemaining_ZeroDuration(t *testing.T) {
	now := time.Now()
	session := models.Session{CreatedAt: now, DurationSeconds: 0}
	if !Expired(session, now) {
		t.Error("a zero-length session should be expired immediately")
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{500 * time.Millisecond, "0:01"},
		{59 * time.Second, "0:59"},
		{5 * time.Minute, "5:00"},
		{754 * time.Second, "12:34"},
	}
	for _, tt := range tests {
		if got := Clock(tt.in); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		phase models.Phase
		want  View
	}{
		{models.PhaseIntro, View{Phase: models.PhaseIntro, ShowJoinCodes: true}},
		{models.PhaseQR, View{Phase: models.PhaseQR, ShowJoinCodes: true}},
		{models.PhaseWork, View{Phase: models.PhaseWork, ShowCountdown: true}},
		{models.PhaseResults, View{Phase: models.PhaseResults, ShowResults: true, ShowCorrectAnswer: true}},
		{models.PhaseCounterexample, View{Phase: models.PhaseCounterexample, ShowResults: true, ShowCorrectAnswer: true, ShowCounterexample: true}},
	}
	for _, tt := range tests {
		if got := Policy(models.Session{CurrentPhase: tt.phase}); got != tt.want {
			t.Errorf("Policy(%s) = %+v, want %+v", tt.phase, got, tt.want)
		}
	}
}

func TestPolicy_RevealFlags(t *testing.T) {
	v := Policy(models.Session{CurrentPhase: models.PhaseWork, RevealedAnswer: true, RevealedCounterexample: true})
	if !v.ShowCorrectAnswer || !v.ShowCounterexample {
		t.Errorf("reveal flags ignored: %+v", v)
	}
	if v.ShowResults {
		t.Error("reveal flags should not show tallies outside the results phases")
	}
}

func TestParse(t *testing.T) {
	for _, p := range models.Phases {
		got, err := Parse(string(p))
		if err != nil || got != p {
			t.Errorf("Parse(%q) = %q, %v", p, got, err)
		}
	}
	if _, err := Parse("discussion"); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("Parse(discussion) error = %v, want ErrInvalidPhase", err)
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("paused"); err != nil {
		t.Errorf("ParseStatus(paused): %v", err)
	}
	if _, err := ParseStatus("finished"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(finished) error = %v, want ErrInvalidStatus", err)
	}
}

func TestTick(t *testing.T) {
	created := time.Now().Add(-time.Minute)
	running := models.Session{CreatedAt: created, DurationSeconds: 300}
	overdue := models.Session{CreatedAt: created, DurationSeconds: 30}
	now := time.Now()

	tests := []struct {
		name    string
		session models.Session
		status  models.Status
		want    Action
	}{
		{"waiting starts", running, models.StatusWaiting, Activate},
		{"active running", running, models.StatusActive, None},
		{"active overdue", overdue, models.StatusActive, End},
		{"paused overdue", overdue, models.StatusPaused, None},
		{"finished", overdue, models.StatusFinished, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.session
			s.Status = tt.status
			if got := Tick(s, now); got != tt.want {
				t.Errorf("Tick() = %v, want %v", got, tt.want)
			}
		})
	}
}
