package livesync

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ismailukman/millionaire-live/internal/app"
	"github.com/ismailukman/millionaire-live/internal/domain"
)

// RemoteHooks lets the adapter notify the service after a remote change has
// been merged, so timers and other host-side machinery reconcile with state
// that arrived over the wire instead of through a local call.
type RemoteHooks interface {
	SessionUpdated(s *app.Session)
}

// Factory creates live transports backed by a DocumentStore. A factory
// failure (store unreachable, document rejected) is reported as
// ErrLiveUnavailable so the service can fall back to local play.
type Factory struct {
	store    DocumentStore
	identity app.IdentityProvider
	log      zerolog.Logger

	mu    sync.Mutex
	hooks RemoteHooks
}

func NewFactory(store DocumentStore, identity app.IdentityProvider, logger zerolog.Logger) *Factory {
	return &Factory{store: store, identity: identity, log: logger}
}

// BindHooks wires the service back-reference. Called once during setup,
// after the service is constructed with this factory.
func (f *Factory) BindHooks(h RemoteHooks) {
	f.mu.Lock()
	f.hooks = h
	f.mu.Unlock()
}

func (f *Factory) currentHooks() RemoteHooks {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hooks
}

func (f *Factory) NewTransport(ctx context.Context, s *app.Session) (app.Transport, error) {
	var data domain.Session
	s.View(func(d *domain.Session) { data = *d })

	if err := f.store.CreateSession(ctx, sessionDocument(data)); err != nil {
		return nil, fmt.Errorf("%w: create session document: %v", domain.ErrLiveUnavailable, err)
	}
	a := &Adapter{
		store:    f.store,
		identity: f.identity,
		factory:  f,
		log:      f.log.With().Str("session_id", data.ID).Logger(),
	}
	if err := a.attach(ctx, s); err != nil {
		a.Close()
		return nil, fmt.Errorf("%w: subscribe: %v", domain.ErrLiveUnavailable, err)
	}
	return a, nil
}

// Adapter is the live transport: every mutation is written through to the
// replicated document and applied locally only when the subscription echoes
// it back. Authority decisions compare the local identity against the
// session host and winner.
type Adapter struct {
	store    DocumentStore
	identity app.IdentityProvider
	factory  *Factory
	log      zerolog.Logger

	mu     sync.Mutex
	cancel []func()
}

var _ app.Transport = (*Adapter)(nil)

func (a *Adapter) attach(ctx context.Context, s *app.Session) error {
	id := s.ID()

	unsubSess, err := a.store.SubscribeSession(ctx, id, func(doc SessionDocument) {
		s.Update(func(d *domain.Session) { mergeSessionDocument(d, doc) })
		if h := a.factory.currentHooks(); h != nil {
			h.SessionUpdated(s)
		}
	})
	if err != nil {
		return err
	}
	a.addCancel(unsubSess)

	unsubPart, err := a.store.SubscribeParticipants(ctx, id, func(ps map[string]domain.Participant) {
		s.Update(func(d *domain.Session) {
			d.Participants = make(map[string]domain.Participant, len(ps))
			for k, v := range ps {
				d.Participants[k] = v
			}
		})
	})
	if err != nil {
		return err
	}
	a.addCancel(unsubPart)

	unsubSubs, err := a.store.SubscribeSubmissions(ctx, id, func(subs map[string]domain.FFFSubmission) {
		s.Update(func(d *domain.Session) {
			d.Submissions = make(map[string]domain.FFFSubmission, len(subs))
			for k, v := range subs {
				d.Submissions[k] = v
			}
		})
		a.maybeResolveWinner(s)
	})
	if err != nil {
		return err
	}
	a.addCancel(unsubSubs)
	return nil
}

func (a *Adapter) addCancel(fn func()) {
	a.mu.Lock()
	a.cancel = append(a.cancel, fn)
	a.mu.Unlock()
}

// maybeResolveWinner runs on the host after each submissions update: once
// every joined participant has answered the current round, rank and publish
// the winner. Non-hosts observe the result through the session echo.
func (a *Adapter) maybeResolveWinner(s *app.Session) {
	if !a.Authoritative(s) {
		return
	}
	var (
		roundID string
		winner  string
		subs    map[string]domain.FFFSubmission
		total   int
		live    bool
	)
	s.View(func(d *domain.Session) {
		roundID = d.FFFRoundID
		winner = d.WinnerID
		live = d.Status == domain.StatusLive && d.Mode == domain.ModeFFF
		total = len(d.Participants)
		subs = make(map[string]domain.FFFSubmission, len(d.Submissions))
		for k, v := range d.Submissions {
			subs[k] = v
		}
	})
	if !live || winner != "" || roundID == "" || total == 0 {
		return
	}
	answered := 0
	for _, sub := range subs {
		if sub.RoundID == roundID {
			answered++
		}
	}
	if answered < total {
		return
	}
	id, ok := app.RankSubmissions(subs, roundID)
	if !ok {
		return
	}
	if err := a.SetWinner(context.Background(), s, id); err != nil {
		a.log.Warn().Err(err).Msg("auto winner publish failed")
	}
}

func (a *Adapter) Authoritative(s *app.Session) bool {
	uid := a.identity.CurrentUserID()
	host := false
	s.View(func(d *domain.Session) { host = a.identity.IsHost(d, uid) })
	return host
}

func (a *Adapter) AllowAnswerInput(s *app.Session) bool {
	uid := a.identity.CurrentUserID()
	var hostID, winner string
	s.View(func(d *domain.Session) {
		hostID = d.HostID
		winner = d.WinnerID
	})
	// Until a winner exists the host drives the game. Afterwards only the
	// winner answers, even when the host is a different identity.
	if winner == "" {
		return uid == hostID
	}
	return uid == winner
}

func (a *Adapter) ShufflesLocally() bool { return false }

func (a *Adapter) StartClassic(ctx context.Context, s *app.Session, next domain.CurrentState) error {
	mode := domain.ModeClassic
	status := domain.StatusLive
	return a.store.UpdateSession(ctx, s.ID(), SessionPatch{
		Mode:         &mode,
		Status:       &status,
		ClassicState: classicStateDoc(next),
	})
}

func (a *Adapter) CommitAnswer(ctx context.Context, s *app.Session, res app.AnswerResolution) error {
	patch := SessionPatch{ClassicState: classicStateDoc(res.Next)}
	if res.Status != "" {
		status := res.Status
		patch.Status = &status
	}
	return a.store.UpdateSession(ctx, s.ID(), patch)
}

func (a *Adapter) ApplyLifeline(ctx context.Context, s *app.Session, next domain.CurrentState) error {
	return a.store.UpdateSession(ctx, s.ID(), SessionPatch{ClassicState: classicStateDoc(next)})
}

func (a *Adapter) PushTimer(ctx context.Context, s *app.Session, next domain.CurrentState) error {
	if !a.Authoritative(s) {
		return nil
	}
	return a.store.UpdateSession(ctx, s.ID(), SessionPatch{ClassicState: classicStateDoc(next)})
}

func (a *Adapter) EndSession(ctx context.Context, s *app.Session, next domain.CurrentState) error {
	status := domain.StatusEnded
	return a.store.UpdateSession(ctx, s.ID(), SessionPatch{
		Status:       &status,
		ClassicState: classicStateDoc(next),
	})
}

func (a *Adapter) Join(ctx context.Context, s *app.Session, p domain.Participant) error {
	return a.store.PutParticipant(ctx, s.ID(), p)
}

func (a *Adapter) StartFFF(ctx context.Context, s *app.Session, round app.FFFRound) error {
	status := domain.StatusLive
	winner := ""
	start := round.StartedAt
	secs := round.TimerSeconds
	return a.store.UpdateSession(ctx, s.ID(), SessionPatch{
		Status:          &status,
		WinnerID:        &winner,
		FFFRoundID:      &round.ID,
		FFFStartTime:    &start,
		FFFTimerSeconds: &secs,
	})
}

func (a *Adapter) SubmitFFF(ctx context.Context, s *app.Session, sub domain.FFFSubmission) error {
	return a.store.PutSubmission(ctx, s.ID(), sub)
}

func (a *Adapter) SetWinner(ctx context.Context, s *app.Session, participantID string) error {
	if !a.Authoritative(s) {
		a.log.Debug().Msg("winner publish skipped for non-host client")
		return nil
	}
	return a.store.UpdateSession(ctx, s.ID(), SessionPatch{WinnerID: &participantID})
}

func (a *Adapter) Close() {
	a.mu.Lock()
	cancels := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	for _, fn := range cancels {
		fn()
	}
}
