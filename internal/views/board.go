package views

import (
	"fmt"
	"time"

	"github.com/CLDWare/methods-lab/internal/phase"
	"github.com/CLDWare/methods-lab/internal/scenario"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

type Role string

const (
	Student   Role = "student"
	Presenter Role = "presenter"
	Projector Role = "projector"
)

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case Student, Presenter, Projector:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Board is everything one role renders for the current session
type Board struct {
	Role             Role            `json:"role"`
	Session          *models.Session `json:"session"`
	View             *phase.View     `json:"view,omitempty"`
	RemainingSeconds int             `json:"remaining_seconds"`
	Clock            string          `json:"clock,omitempty"`
	Groups           []GroupBoard    `json:"groups"`
	Total            int             `json:"total"`
}

type GroupBoard struct {
	Group       models.Group       `json:"group"`
	JoinURL     string             `json:"join_url,omitempty"`
	Scenario    *scenario.Scenario `json:"scenario"`
	Submissions int                `json:"submissions"`
	Tally       *Tally             `json:"tally,omitempty"`
}

// BoardInput is the raw state a board is built from
type BoardInput struct {
	Role        Role
	Session     *models.Session
	Groups      []models.Group
	Submissions []models.Submission
	// GroupID limits a student board to one group.
	GroupID string
	Now     time.Time
	JoinURL func(groupID string) string
}

// Build renders the board for a role. The presenter always sees tallies and
// answers; projector and student follow the phase policy.
func Build(in BoardInput) Board {
	b := Board{Role: in.Role, Groups: []GroupBoard{}}
	if in.Session == nil {
		return b
	}
	session := *in.Session
	view := phase.Policy(session)
	remaining := phase.Remaining(session, in.Now)

	b.Session = &session
	b.View = &view
	b.RemainingSeconds = int((remaining + time.Second - 1) / time.Second)
	b.Clock = phase.Clock(remaining)

	log := NewLog()
	log.Merge(in.Submissions)
	b.Total = log.Len()

	for _, g := range in.Groups {
		if g.SessionID != session.ID {
			continue
		}
		if in.GroupID != "" && g.ID != in.GroupID {
			continue
		}
		subs := log.ForGroup(g.ID)
		gb := GroupBoard{Group: g, Submissions: len(subs)}

		if in.JoinURL != nil && (in.Role == Presenter || view.ShowJoinCodes) {
			gb.JoinURL = in.JoinURL(g.ID)
		}

		if sc, ok := scenario.Get(g.MethodType); ok {
			visible := visibleScenario(sc, view, in.Role)
			gb.Scenario = &visible
			if in.Role == Presenter || view.ShowResults {
				t := Count(sc.Options, visible.CorrectAnswer, subs)
				gb.Tally = &t
			}
		}
		b.Groups = append(b.Groups, gb)
	}
	return b
}

func visibleScenario(sc scenario.Scenario, view phase.View, role Role) scenario.Scenario {
	if role == Presenter {
		return sc
	}
	out := sc.Redacted()
	if view.ShowCorrectAnswer {
		out.CorrectAnswer = sc.CorrectAnswer
	}
	if view.ShowCounterexample {
		out.CounterExample = sc.CounterExample
		out.CounterExampleExplanation = sc.CounterExampleExplanation
	}
	return out
}
