// Package phase holds the presentation rules of a session: which phases and
// statuses exist, what each phase shows, and how much work time is left.
package phase

import (
	"errors"
	"fmt"
	"slices"
	"time"

	models "github.com/CLDWare/methods-lab/pkg/db"
)

var (
	ErrInvalidPhase  = errors.New("invalid phase")
	ErrInvalidStatus = errors.New("invalid status")
)

// Parse validates a phase name. Any phase may follow any other.
func Parse(s string) (models.Phase, error) {
	p := models.Phase(s)
	if !slices.Contains(models.Phases, p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhase, s)
	}
	return p, nil
}

// ParseStatus validates a status a presenter may set directly.
// Finishing goes through ending the session instead.
func ParseStatus(s string) (models.Status, error) {
	st := models.Status(s)
	if !st.Live() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// View lists what a board renders in a given session state
type View struct {
	Phase              models.Phase `json:"phase"`
	ShowJoinCodes      bool         `json:"show_join_codes"`
	ShowCountdown      bool         `json:"show_countdown"`
	ShowResults        bool         `json:"show_results"`
	ShowCorrectAnswer  bool         `json:"show_correct_answer"`
	ShowCounterexample bool         `json:"show_counterexample"`
}

// Policy maps a session to what its boards show
func Policy(s models.Session) View {
	v := View{Phase: s.CurrentPhase}
	switch s.CurrentPhase {
	case models.PhaseIntro, models.PhaseQR:
		v.ShowJoinCodes = true
	case models.PhaseWork:
		v.ShowCountdown = true
	case models.PhaseResults:
		v.ShowResults = true
		v.ShowCorrectAnswer = true
	case models.PhaseCounterexample:
		v.ShowResults = true
		v.ShowCorrectAnswer = true
		v.ShowCounterexample = true
	}
	if s.RevealedAnswer {
		v.ShowCorrectAnswer = true
	}
	if s.RevealedCounterexample {
		v.ShowCounterexample = true
	}
	return v
}

// Remaining is max(0, created_at + duration - now)
func Remaining(s models.Session, now time.Time) time.Duration {
	left := s.Deadline().Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the work timer has run out
func Expired(s models.Session, now time.Time) bool {
	return Remaining(s, now) == 0
}

// Clock formats a remaining duration as m:ss, rounding partial seconds up
func Clock(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Action is what a presenter's clock should do on a tick
type Action int

const (
	None Action = iota
	Activate
	End
)

// Tick decides the presenter-side transition for the current session.
// A waiting session is started, and an active session whose timer has run
// out is ended. Paused and finished sessions are left alone.
func Tick(s models.Session, now time.Time) Action {
	switch s.Status {
	case models.StatusWaiting:
		return Activate
	case models.StatusActive:
		if Expired(s, now) {
			return End
		}
	}
	return None
}
