// Package livesync bridges local session state and a replicated remote
// document so host and participant clients observe the same authoritative
// game, with write-through mutations and merge-only echo application.
package livesync

import (
	"context"
	"time"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// ClassicState is the replicated projection of classic-mode progress. The
// shuffle cache never leaves the local process.
type ClassicState struct {
	Level           int                    `json:"level"`
	QuestionOrder   []domain.LevelQuestion `json:"questionOrder"`
	UsedLifelines   []string               `json:"usedLifelines"`
	DisabledOptions []string               `json:"disabledOptions"`
	Feedback        string                 `json:"feedback"`
	FeedbackTone    string                 `json:"feedbackTone"`
	Locked          bool                   `json:"locked"`
	TimerSeconds    *int                   `json:"timerSeconds,omitempty"`
}

// SessionDocument is the authoritative remote session record. Pointer
// fields distinguish "absent" from zero so merges never clobber fields a
// partial read does not include.
type SessionDocument struct {
	ID              string           `json:"id"`
	PackID          string           `json:"packId"`
	Mode            domain.Mode      `json:"mode"`
	Status          domain.Status    `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	HostID          string           `json:"hostUid"`
	FFFQuestion     *domain.Question `json:"fffQuestion,omitempty"`
	FFFRoundID      string           `json:"fffRoundId,omitempty"`
	FFFStartTime    *time.Time       `json:"fffStartTime,omitempty"`
	FFFTimerSeconds *int             `json:"fffTimerSeconds,omitempty"`
	WinnerID        *string          `json:"winnerParticipantId,omitempty"`
	ClassicState    *ClassicState    `json:"classicState,omitempty"`
}

// SessionPatch is a partial update with merge semantics: nil fields are
// left untouched by the store, distinct from a full overwrite.
type SessionPatch struct {
	Mode            *domain.Mode   `json:"mode,omitempty"`
	Status          *domain.Status `json:"status,omitempty"`
	WinnerID        *string        `json:"winnerParticipantId,omitempty"`
	FFFRoundID      *string        `json:"fffRoundId,omitempty"`
	FFFStartTime    *time.Time     `json:"fffStartTime,omitempty"`
	FFFTimerSeconds *int           `json:"fffTimerSeconds,omitempty"`
	ClassicState    *ClassicState  `json:"classicState,omitempty"`
}

// DocumentStore is the persistence contract the adapter needs from a
// replicated backend: the session document plus participant and submission
// sub-collections, each independently subscribable. Every subscribe call
// returns an unsubscribe handle.
type DocumentStore interface {
	CreateSession(ctx context.Context, doc SessionDocument) error
	GetSession(ctx context.Context, id string) (SessionDocument, error)
	UpdateSession(ctx context.Context, id string, patch SessionPatch) error

	PutParticipant(ctx context.Context, sessionID string, p domain.Participant) error
	PutSubmission(ctx context.Context, sessionID string, sub domain.FFFSubmission) error

	SubscribeSession(ctx context.Context, id string, fn func(SessionDocument)) (func(), error)
	SubscribeParticipants(ctx context.Context, id string, fn func(map[string]domain.Participant)) (func(), error)
	SubscribeSubmissions(ctx context.Context, id string, fn func(map[string]domain.FFFSubmission)) (func(), error)
}

// ApplyPatch merges a partial update into a stored document. Backends share
// this so merge semantics never diverge between stores.
func ApplyPatch(doc *SessionDocument, patch SessionPatch) {
	if patch.Mode != nil {
		doc.Mode = *patch.Mode
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.WinnerID != nil {
		doc.WinnerID = patch.WinnerID
	}
	if patch.FFFRoundID != nil {
		doc.FFFRoundID = *patch.FFFRoundID
	}
	if patch.FFFStartTime != nil {
		doc.FFFStartTime = patch.FFFStartTime
	}
	if patch.FFFTimerSeconds != nil {
		doc.FFFTimerSeconds = patch.FFFTimerSeconds
	}
	if patch.ClassicState != nil {
		doc.ClassicState = patch.ClassicState
	}
}

// classicStateDoc projects local progress into its replicated form.
func classicStateDoc(c domain.CurrentState) *ClassicState {
	doc := &ClassicState{
		Level:           c.Level,
		QuestionOrder:   append([]domain.LevelQuestion(nil), c.QuestionOrder...),
		UsedLifelines:   append([]string(nil), c.UsedLifelines...),
		DisabledOptions: append([]string(nil), c.DisabledOptions...),
		Feedback:        c.Feedback,
		FeedbackTone:    c.FeedbackTone,
		Locked:          c.Locked,
	}
	if c.TimerSeconds != nil {
		secs := *c.TimerSeconds
		doc.TimerSeconds = &secs
	}
	return doc
}

// applyClassicState merges a replicated classic state into local progress,
// preserving the local-only shuffle cache and seed.
func applyClassicState(c *domain.CurrentState, doc ClassicState) {
	c.Level = doc.Level
	c.QuestionOrder = append([]domain.LevelQuestion(nil), doc.QuestionOrder...)
	c.UsedLifelines = append([]string(nil), doc.UsedLifelines...)
	c.DisabledOptions = append([]string(nil), doc.DisabledOptions...)
	c.Feedback = doc.Feedback
	c.FeedbackTone = doc.FeedbackTone
	c.Locked = doc.Locked
	if doc.TimerSeconds != nil {
		secs := *doc.TimerSeconds
		c.TimerSeconds = &secs
	} else {
		c.TimerSeconds = nil
	}
}

// sessionDocument builds the initial remote record for a new session.
func sessionDocument(d domain.Session) SessionDocument {
	doc := SessionDocument{
		ID:          d.ID,
		PackID:      d.PackID,
		Mode:        d.Mode,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		HostID:      d.HostID,
		FFFQuestion: d.FFFQuestion,
		FFFRoundID:  d.FFFRoundID,
	}
	if d.WinnerID != "" {
		winner := d.WinnerID
		doc.WinnerID = &winner
	}
	if !d.FFFStartTime.IsZero() {
		start := d.FFFStartTime
		doc.FFFStartTime = &start
	}
	if d.FFFTimerSeconds > 0 {
		secs := d.FFFTimerSeconds
		doc.FFFTimerSeconds = &secs
	}
	return doc
}

// mergeSessionDocument folds a remote snapshot into local state, touching
// only the fields the document carries.
func mergeSessionDocument(d *domain.Session, doc SessionDocument) {
	if doc.Mode != "" {
		d.Mode = doc.Mode
	}
	if doc.Status != "" {
		d.Status = doc.Status
	}
	if doc.PackID != "" {
		d.PackID = doc.PackID
	}
	if !doc.CreatedAt.IsZero() {
		d.CreatedAt = doc.CreatedAt
	}
	if doc.HostID != "" {
		d.HostID = doc.HostID
	}
	if doc.FFFQuestion != nil {
		d.FFFQuestion = doc.FFFQuestion
	}
	if doc.FFFRoundID != "" {
		d.FFFRoundID = doc.FFFRoundID
	}
	if doc.FFFStartTime != nil {
		d.FFFStartTime = *doc.FFFStartTime
	}
	if doc.FFFTimerSeconds != nil {
		d.FFFTimerSeconds = *doc.FFFTimerSeconds
	}
	if doc.WinnerID != nil {
		d.WinnerID = *doc.WinnerID
	}
	if doc.ClassicState != nil {
		applyClassicState(&d.Current, *doc.ClassicState)
	}
}
