package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the lifecycle state of a Session
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// Statuses lists every session status
var Statuses = []Status{StatusWaiting, StatusActive, StatusPaused, StatusFinished}

// Live reports whether a session in this status can be the current session
func (s Status) Live() bool {
	return s == StatusWaiting || s == StatusActive || s == StatusPaused
}

// Phase is the presentation phase of a Session
type Phase string

const (
	PhaseIntro          Phase = "intro"
	PhaseQR             Phase = "qr"
	PhaseWork           Phase = "work"
	PhaseResults        Phase = "results"
	PhaseCounterexample Phase = "counterexample"
)

// Phases lists every phase in presentation order
var Phases = []Phase{PhaseIntro, PhaseQR, PhaseWork, PhaseResults, PhaseCounterexample}

// MethodType identifies the case study a Group works on
type MethodType string

const (
	MethodDifference MethodType = "difference"
	MethodAgreement  MethodType = "agreement"
	MethodNested     MethodType = "nested"
	MethodQCA        MethodType = "qca"
)

// MethodTypes lists the method types in group order
var MethodTypes = []MethodType{MethodDifference, MethodAgreement, MethodNested, MethodQCA}

type Session struct {
	ID                     string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt              time.Time `gorm:"index" json:"created_at"`
	Status                 Status    `gorm:"type:text;not null;index" json:"status"`
	CurrentPhase           Phase     `gorm:"type:text;not null" json:"current_phase"`
	StudentCount           int       `gorm:"not null;default:0" json:"student_count"`
	DurationSeconds        int       `gorm:"not null;default:0" json:"duration_seconds"`
	RevealedAnswer         bool      `gorm:"not null;default:false" json:"revealed_answer"`
	RevealedCounterexample bool      `gorm:"not null;default:false" json:"revealed_counterexample"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Deadline is the moment the work timer of the session runs out
func (s Session) Deadline() time.Time {
	return s.CreatedAt.Add(time.Duration(s.DurationSeconds) * time.Second)
}

type Group struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	SessionID   string     `gorm:"type:text;not null;index" json:"session_id"`
	Session     *Session   `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	MethodType  MethodType `gorm:"type:text;not null" json:"method_type"`
	GroupNumber int        `gorm:"not null" json:"group_number"`
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// A device may answer once per group.
type Submission struct {
	ID             string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	SessionID      string    `gorm:"type:text;not null;index" json:"session_id"`
	GroupID        string    `gorm:"type:text;not null;uniqueIndex:idx_submission_group_device" json:"group_id"`
	Group          *Group    `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	SelectedFactor string    `gorm:"not null" json:"selected_factor"`
	Justification  string    `json:"justification"`
	DeviceHash     string    `gorm:"type:text;not null;uniqueIndex:idx_submission_group_device" json:"device_hash"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// User is a presenter who signed in with Google
type User struct {
	gorm.Model
	GoogleSubject string `gorm:"unique"`
	Email         string `gorm:"unique"`
	Name          string
	DisplayName   string
}

type AuthSession struct {
	gorm.Model
	SessionToken string `gorm:"unique;not null"`
	UserID       uint
	User         User `gorm:"foreignKey:UserID;references:ID"`
	ExpiresAt    time.Time
}
