package app

import (
	"context"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// Transport commits state transitions for one session. The local variant
// mutates in-process state; the live variant writes through to the
// replicated document and lets the subscription echo apply the change.
// Call sites never branch on mode.
type Transport interface {
	// Authoritative reports whether this client drives timer expiry and
	// winner computation for the session.
	Authoritative(s *Session) bool
	// AllowAnswerInput applies the winner-gated input lock: once an FFF
	// winner plays live classic, only that participant may answer.
	AllowAnswerInput(s *Session) bool
	// ShufflesLocally reports whether option shuffling applies. Live
	// classic play transmits options unshuffled so all clients agree.
	ShufflesLocally() bool

	StartClassic(ctx context.Context, s *Session, next domain.CurrentState) error
	CommitAnswer(ctx context.Context, s *Session, res AnswerResolution) error
	ApplyLifeline(ctx context.Context, s *Session, next domain.CurrentState) error
	PushTimer(ctx context.Context, s *Session, next domain.CurrentState) error
	EndSession(ctx context.Context, s *Session, next domain.CurrentState) error

	Join(ctx context.Context, s *Session, p domain.Participant) error
	StartFFF(ctx context.Context, s *Session, round FFFRound) error
	SubmitFFF(ctx context.Context, s *Session, sub domain.FFFSubmission) error
	SetWinner(ctx context.Context, s *Session, participantID string) error

	// Close cancels subscriptions held for the session. Local transports
	// have nothing to detach.
	Close()
}

// TransportFactory builds the live transport for a freshly created session.
// Factories that fail (store unreachable, permission denied) make the
// service fall back to local play.
type TransportFactory interface {
	NewTransport(ctx context.Context, s *Session) (Transport, error)
}

// IdentityProvider exposes the local authenticated identity used for
// authority arbitration in live mode.
type IdentityProvider interface {
	CurrentUserID() string
	IsHost(sess *domain.Session, userID string) bool
}

// StaticIdentity is the plain implementation: a fixed user id, host when it
// matches the session's stored host identity.
type StaticIdentity struct {
	UserID string
}

func (i StaticIdentity) CurrentUserID() string { return i.UserID }

func (i StaticIdentity) IsHost(sess *domain.Session, userID string) bool {
	return sess.HostID != "" && sess.HostID == userID
}

// OutcomeSink consumes the one terminal outcome event per finished session.
type OutcomeSink interface {
	RecordOutcome(ctx context.Context, sessionID, hostID string, outcome domain.Outcome) error
}

// NopOutcomeSink discards outcomes.
type NopOutcomeSink struct{}

func (NopOutcomeSink) RecordOutcome(context.Context, string, string, domain.Outcome) error {
	return nil
}

// localTransport applies transitions synchronously to in-process state.
type localTransport struct{}

// NewLocalTransport returns the transport for hot-seat play.
func NewLocalTransport() Transport { return localTransport{} }

func (localTransport) Authoritative(*Session) bool    { return true }
func (localTransport) AllowAnswerInput(*Session) bool { return true }
func (localTransport) ShufflesLocally() bool          { return true }

func (localTransport) StartClassic(_ context.Context, s *Session, next domain.CurrentState) error {
	s.Update(func(d *domain.Session) {
		d.Mode = domain.ModeClassic
		d.Status = domain.StatusLive
		d.Current = next
		d.StartedAt = s.now()
	})
	return nil
}

func (localTransport) CommitAnswer(_ context.Context, s *Session, res AnswerResolution) error {
	s.Update(func(d *domain.Session) {
		shuffles := d.Current.Shuffles
		d.Current = res.Next
		d.Current.Shuffles = shuffles
		d.Status = res.Status
	})
	return nil
}

func (localTransport) ApplyLifeline(_ context.Context, s *Session, next domain.CurrentState) error {
	s.Update(func(d *domain.Session) {
		shuffles := d.Current.Shuffles
		d.Current = next
		d.Current.Shuffles = shuffles
	})
	return nil
}

func (localTransport) PushTimer(_ context.Context, s *Session, next domain.CurrentState) error {
	// Local ticks already mutated state under the session lock.
	return nil
}

func (localTransport) EndSession(_ context.Context, s *Session, next domain.CurrentState) error {
	s.Update(func(d *domain.Session) {
		shuffles := d.Current.Shuffles
		d.Current = next
		d.Current.Shuffles = shuffles
		d.Status = domain.StatusEnded
	})
	return nil
}

func (localTransport) Join(_ context.Context, s *Session, p domain.Participant) error {
	s.Update(func(d *domain.Session) {
		if d.Participants == nil {
			d.Participants = make(map[string]domain.Participant)
		}
		d.Participants[p.ID] = p
	})
	return nil
}

func (localTransport) StartFFF(_ context.Context, s *Session, round FFFRound) error {
	s.Update(func(d *domain.Session) {
		d.Status = domain.StatusLive
		d.Submissions = make(map[string]domain.FFFSubmission)
		d.WinnerID = ""
		d.FFFRoundID = round.ID
		d.FFFStartTime = round.StartedAt
		d.FFFTimerSeconds = round.TimerSeconds
	})
	return nil
}

func (localTransport) SubmitFFF(_ context.Context, s *Session, sub domain.FFFSubmission) error {
	s.Update(func(d *domain.Session) {
		if d.Submissions == nil {
			d.Submissions = make(map[string]domain.FFFSubmission)
		}
		d.Submissions[sub.ParticipantID] = sub
	})
	return nil
}

func (localTransport) SetWinner(_ context.Context, s *Session, participantID string) error {
	s.Update(func(d *domain.Session) {
		d.WinnerID = participantID
	})
	return nil
}

func (localTransport) Close() {}
