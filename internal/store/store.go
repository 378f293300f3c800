// Package store is the data interface of the lab: queries and writes over the
// sessions, groups and submissions tables. Every write that changes a row is
// published to the change feed after it commits.
package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"gorm.io/gorm"

	"github.com/CLDWare/methods-lab/internal/realtime"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/CLDWare/methods-lab/pkg/logger"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateSubmission = errors.New("device already submitted for this group")
	ErrSessionFinished     = errors.New("session is finished")
	ErrInvalidSubmission   = errors.New("invalid submission")
)

type Store struct {
	db  *gorm.DB
	pub realtime.Publisher
	now func() time.Time
}

// New creates a store. pub may be nil when nobody listens for changes.
func New(db *gorm.DB, pub realtime.Publisher) *Store {
	return &Store{db: db, pub: pub, now: time.Now}
}

// DB exposes the underlying connection for maintenance jobs
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) publish(typ realtime.EventType, table realtime.Table, sessionID string, record any) {
	if s.pub == nil {
		return
	}
	ev, err := realtime.NewEvent(typ, table, sessionID, record)
	if err != nil {
		logger.Err("store:", err)
		return
	}
	s.pub.Publish(ev)
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// SessionOptions configures a new session
type SessionOptions struct {
	Duration     time.Duration
	StudentCount int
}

// CreateSession inserts a waiting session in the intro phase together with
// one group per method type, numbered from 1.
func (s *Store) CreateSession(ctx context.Context, opts SessionOptions) (*models.Session, []models.Group, error) {
	if opts.Duration < 0 {
		return nil, nil, fmt.Errorf("negative duration %v", opts.Duration)
	}
	session := models.Session{
		CreatedAt:       s.now(),
		Status:          models.StatusWaiting,
		CurrentPhase:    models.PhaseIntro,
		StudentCount:    opts.StudentCount,
		DurationSeconds: int(opts.Duration / time.Second),
	}
	groups := make([]models.Group, len(models.MethodTypes))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		for i, m := range models.MethodTypes {
			groups[i] = models.Group{SessionID: session.ID, MethodType: m, GroupNumber: i + 1}
		}
		if err := tx.Create(&groups).Error; err != nil {
			return fmt.Errorf("create groups: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish(realtime.Insert, realtime.Sessions, session.ID, session)
	for _, g := range groups {
		s.publish(realtime.Insert, realtime.Groups, session.ID, g)
	}
	return &session, groups, nil
}

// CurrentSession returns the most recent session that is not finished, or nil
func (s *Store) CurrentSession(ctx context.Context) (*models.Session, error) {
	sessions, err := gorm.G[models.Session](s.db).
		Where("status IN ?", []models.Status{models.StatusWaiting, models.StatusActive, models.StatusPaused}).
		Order("created_at DESC").
		Limit(1).
		Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// LatestSession returns the most recent session in any status, or nil
func (s *Store) LatestSession(ctx context.Context) (*models.Session, error) {
	sessions, err := gorm.G[models.Session](s.db).Order("created_at DESC").Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

func (s *Store) Session(ctx context.Context, id string) (*models.Session, error) {
	session, err := gorm.G[models.Session](s.db).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "session "+id)
	}
	return &session, nil
}

// updateSession applies changes to a session and publishes the new row when
// anything was written. cond narrows which rows may change.
func (s *Store) updateSession(ctx context.Context, id string, changes map[string]any, cond ...any) (*models.Session, bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id)
	if len(cond) > 0 {
		q = q.Where(cond[0], cond[1:]...)
	}
	result := q.Updates(changes)
	if result.Error != nil {
		return nil, false, result.Error
	}
	session, err := s.Session(ctx, id)
	if err != nil {
		return nil, false, err
	}
	changed := result.RowsAffected > 0
	if changed {
		s.publish(realtime.Update, realtime.Sessions, session.ID, session)
	}
	return session, changed, nil
}

// UpdatePhase moves a session to any phase. Last write wins.
func (s *Store) UpdatePhase(ctx context.Context, id string, phase models.Phase) (*models.Session, error) {
	session, _, err := s.updateSession(ctx, id, map[string]any{"current_phase": phase})
	return session, err
}

// SetStatus sets a live status. Finished sessions stay finished.
func (s *Store) SetStatus(ctx context.Context, id string, status models.Status) (*models.Session, error) {
	if !status.Live() {
		return nil, fmt.Errorf("use EndSession to finish a session")
	}
	session, changed, err := s.updateSession(ctx, id, map[string]any{"status": status}, "status <> ?", models.StatusFinished)
	if err != nil {
		return nil, err
	}
	if !changed && session.Status == models.StatusFinished {
		return session, ErrSessionFinished
	}
	return session, nil
}

// ActivateSession starts a waiting session. Other statuses are left alone.
func (s *Store) ActivateSession(ctx context.Context, id string) error {
	_, _, err := s.updateSession(ctx, id, map[string]any{"status": models.StatusActive}, "status = ?", models.StatusWaiting)
	return err
}

// EndSession finishes a session. Ending a finished session changes nothing
// and publishes nothing.
func (s *Store) EndSession(ctx context.Context, id string) error {
	_, _, err := s.updateSession(ctx, id, map[string]any{"status": models.StatusFinished}, "status <> ?", models.StatusFinished)
	return err
}

// Reveal toggles the presenter's reveal flags. Nil leaves a flag untouched.
func (s *Store) Reveal(ctx context.Context, id string, answer, counterexample *bool) (*models.Session, error) {
	changes := map[string]any{}
	if answer != nil {
		changes["revealed_answer"] = *answer
	}
	if counterexample != nil {
		changes["revealed_counterexample"] = *counterexample
	}
	if len(changes) == 0 {
		return s.Session(ctx, id)
	}
	session, _, err := s.updateSession(ctx, id, changes)
	return session, err
}

// OverdueSessions returns active sessions whose work timer ran out before now
func (s *Store) OverdueSessions(ctx context.Context, now time.Time) ([]models.Session, error) {
	active, err := gorm.G[models.Session](s.db).Where("status = ?", models.StatusActive).Find(ctx)
	if err != nil {
		return nil, err
	}
	var overdue []models.Session
	for _, session := range active {
		if !now.Before(session.Deadline()) {
			overdue = append(overdue, session)
		}
	}
	return overdue, nil
}

// Groups returns the groups of a session ordered by group number
func (s *Store) Groups(ctx context.Context, sessionID string) ([]models.Group, error) {
	return gorm.G[models.Group](s.db).Where("session_id = ?", sessionID).Order("group_number").Find(ctx)
}

func (s *Store) Group(ctx context.Context, id string) (*models.Group, error) {
	group, err := gorm.G[models.Group](s.db).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "group "+id)
	}
	return &group, nil
}

// InsertSubmission records an answer for a group. The session id is taken
// from the group. A device may answer a group once.
func (s *Store) InsertSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.SelectedFactor == "" {
		return fmt.Errorf("%w: selected_factor is required", ErrInvalidSubmission)
	}
	if sub.DeviceHash == "" {
		return fmt.Errorf("%w: device_hash is required", ErrInvalidSubmission)
	}
	group, err := s.Group(ctx, sub.GroupID)
	if err != nil {
		return err
	}
	session, err := s.Session(ctx, group.SessionID)
	if err != nil {
		return err
	}
	if session.Status == models.StatusFinished {
		return ErrSessionFinished
	}

	sub.ID = ""
	sub.SessionID = group.SessionID
	sub.CreatedAt = s.now()
	if err := gorm.G[models.Submission](s.db).Create(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSubmission
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	s.publish(realtime.Insert, realtime.Submissions, sub.SessionID, sub)
	return nil
}

// HasSubmitted reports whether a device already answered a group
func (s *Store) HasSubmitted(ctx context.Context, groupID, deviceHash string) (bool, error) {
	count, err := gorm.G[models.Submission](s.db).
		Where("group_id = ? AND device_hash = ?", groupID, deviceHash).
		Count(ctx, "id")
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Submissions returns every submission of a session in arrival order
func (s *Store) Submissions(ctx context.Context, sessionID string) ([]models.Submission, error) {
	return gorm.G[models.Submission](s.db).Where("session_id = ?", sessionID).Order("created_at, id").Find(ctx)
}

// GroupSubmissions returns the submissions of one group in arrival order
func (s *Store) GroupSubmissions(ctx context.Context, groupID string) ([]models.Submission, error) {
	return gorm.G[models.Submission](s.db).Where("group_id = ?", groupID).Order("created_at, id").Find(ctx)
}

const deviceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewDeviceHash returns a short anonymous device token. It only separates
// devices within one classroom and is not meant to be unguessable.
func NewDeviceHash() string {
	b := make([]byte, 7)
	for i := range b {
		b[i] = deviceAlphabet[rand.IntN(len(deviceAlphabet))]
	}
	return string(b)
}
