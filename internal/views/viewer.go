package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CLDWare/methods-lab/internal/phase"
	"github.com/CLDWare/methods-lab/internal/realtime"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/CLDWare/methods-lab/pkg/logger"
)

// Source is the bulk-fetch side of the backend
type Source interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
	Groups(ctx context.Context, sessionID string) ([]models.Group, error)
	Submissions(ctx context.Context, sessionID string) ([]models.Submission, error)
}

// Actions are the mutations a presenter clock issues
type Actions interface {
	ActivateSession(ctx context.Context, sessionID string) error
	EndSession(ctx context.Context, sessionID string) error
}

type Options struct {
	Role    Role
	Source  Source
	Feed    realtime.Feed
	Actions Actions // required for presenters
	GroupID string  // required for students

	PollInterval time.Duration // re-fetch period, default 5s
	TickInterval time.Duration // presenter clock period, default 1s

	JoinURL  func(groupID string) string
	Now      func() time.Time
	OnChange func(Board)
}

// Viewer keeps one role's board current. Run owns all state: feed callbacks
// only hand events to the Run loop, and fetch results that arrive after the
// context is cancelled are discarded.
type Viewer struct {
	opts  Options
	state *SessionState

	mu     sync.RWMutex
	bound  string // session the group/submission subscriptions belong to
	groups []models.Group
	log    *Log

	subs []realtime.Subscription
}

func NewViewer(opts Options) (*Viewer, error) {
	if opts.Source == nil || opts.Feed == nil {
		return nil, errors.New("viewer needs a source and a feed")
	}
	if _, err := ParseRole(string(opts.Role)); err != nil {
		return nil, err
	}
	if opts.Role == Presenter && opts.Actions == nil {
		return nil, errors.New("presenter viewer needs actions")
	}
	if opts.Role == Student && opts.GroupID == "" {
		return nil, errors.New("student viewer needs a group id")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Viewer{
		opts:  opts,
		state: &SessionState{},
		log:   NewLog(),
	}, nil
}

// State exposes the session container for reads
func (v *Viewer) State() *SessionState {
	return v.state
}

// Board renders the current state
func (v *Viewer) Board() Board {
	session, ok := v.state.Current()
	v.mu.RLock()
	in := BoardInput{
		Role:        v.opts.Role,
		Groups:      append([]models.Group(nil), v.groups...),
		Submissions: v.log.Items(),
		GroupID:     v.opts.GroupID,
		Now:         v.opts.Now(),
		JoinURL:     v.opts.JoinURL,
	}
	v.mu.RUnlock()
	if ok {
		in.Session = &session
	}
	return Build(in)
}

// Run fetches, subscribes and reconciles until ctx is cancelled
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan realtime.Event, 64)
	consumer := realtime.ConsumerFunc(func(ev realtime.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})

	sessionSub := v.opts.Feed.Subscribe(realtime.Filter{Table: realtime.Sessions}, consumer)
	defer sessionSub.Close()
	defer v.unbind()

	v.reload(ctx, consumer)
	v.changed()

	poll := time.NewTicker(v.opts.PollInterval)
	defer poll.Stop()

	var tick <-chan time.Time
	if v.opts.Role == Presenter {
		t := time.NewTicker(v.opts.TickInterval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			v.handle(ctx, ev, consumer)
		case <-poll.C:
			v.reload(ctx, consumer)
		case <-tick:
			v.tick(ctx)
			continue
		}
		v.changed()
	}
}

func (v *Viewer) changed() {
	if v.opts.OnChange != nil {
		v.opts.OnChange(v.Board())
	}
}

func (v *Viewer) handle(ctx context.Context, ev realtime.Event, consumer realtime.Consumer) {
	switch ev.Table {
	case realtime.Sessions:
		change, err := v.state.Apply(ev)
		if err != nil {
			logger.Warn("viewer:", err)
			return
		}
		v.follow(ctx, change, consumer)
	case realtime.Groups:
		g, err := realtime.Decode[models.Group](ev)
		if err != nil {
			logger.Warn("viewer:", err)
			return
		}
		v.mu.Lock()
		if g.SessionID == v.bound && !hasGroup(v.groups, g.ID) {
			v.groups = append(v.groups, g)
		}
		v.mu.Unlock()
	case realtime.Submissions:
		s, err := realtime.Decode[models.Submission](ev)
		if err != nil {
			logger.Warn("viewer:", err)
			return
		}
		v.mu.Lock()
		if s.SessionID == v.bound {
			v.log.Add(s)
		}
		v.mu.Unlock()
	}
}

// reload re-fetches the current session and its submissions
func (v *Viewer) reload(ctx context.Context, consumer realtime.Consumer) {
	session, err := v.opts.Source.CurrentSession(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Warn("viewer: fetch session:", err)
		return
	}
	change := v.state.Replace(session)
	if change == Started || change == Cleared {
		v.follow(ctx, change, consumer)
		return
	}
	if id := v.state.ID(); id != "" {
		v.fetchRows(ctx, id)
	}
}

func (v *Viewer) follow(ctx context.Context, change Change, consumer realtime.Consumer) {
	switch change {
	case Started:
		v.bind(ctx, v.state.ID(), consumer)
	case Cleared:
		v.unbind()
	}
}

// bind subscribes to the rows of a session before fetching them, so nothing
// committed in between is missed. Overlap is removed by the log.
func (v *Viewer) bind(ctx context.Context, sessionID string, consumer realtime.Consumer) {
	v.unbind()

	v.mu.Lock()
	v.bound = sessionID
	v.subs = []realtime.Subscription{
		v.opts.Feed.Subscribe(realtime.Filter{Table: realtime.Groups, SessionID: sessionID, Events: []realtime.EventType{realtime.Insert}}, consumer),
		v.opts.Feed.Subscribe(realtime.Filter{Table: realtime.Submissions, SessionID: sessionID, Events: []realtime.EventType{realtime.Insert}}, consumer),
	}
	v.mu.Unlock()

	v.fetchRows(ctx, sessionID)
}

func (v *Viewer) unbind() {
	v.mu.Lock()
	subs := v.subs
	v.subs = nil
	v.bound = ""
	v.groups = nil
	v.log.Reset()
	v.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}

func (v *Viewer) fetchRows(ctx context.Context, sessionID string) {
	groups, err := v.opts.Source.Groups(ctx, sessionID)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.Warn("viewer: fetch groups:", err)
	}
	subs, subErr := v.opts.Source.Submissions(ctx, sessionID)
	if ctx.Err() != nil {
		return
	}
	if subErr != nil {
		logger.Warn("viewer: fetch submissions:", subErr)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.bound != sessionID {
		return
	}
	if err == nil {
		for _, g := range groups {
			if !hasGroup(v.groups, g.ID) {
				v.groups = append(v.groups, g)
			}
		}
	}
	if subErr == nil {
		v.log.Merge(subs)
	}
}

// tick runs the presenter clock: start a waiting session, end an expired one
func (v *Viewer) tick(ctx context.Context) {
	session, ok := v.state.Current()
	if !ok {
		return
	}
	switch phase.Tick(session, v.opts.Now()) {
	case phase.Activate:
		if err := v.opts.Actions.ActivateSession(ctx, session.ID); err != nil && ctx.Err() == nil {
			logger.Warn("viewer: activate session:", err)
		}
	case phase.End:
		if err := v.opts.Actions.EndSession(ctx, session.ID); err != nil {
			if ctx.Err() == nil {
				logger.Warn("viewer: end session:", err)
			}
			return
		}
		logger.Info("Session", session.ID, "ran out of time and was ended")
		if v.state.Clear() == Cleared {
			v.unbind()
			v.changed()
		}
	}
}

func hasGroup(groups []models.Group, id string) bool {
	for _, g := range groups {
		if g.ID == id {
			return true
		}
	}
	return false
}
