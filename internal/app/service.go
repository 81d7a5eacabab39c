package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// SessionRepository abstracts how live session objects are tracked
// (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(s *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// PackRepository supplies pack content (from cache/backing store).
type PackRepository interface {
	GetPack(ctx context.Context, packID string) (domain.Pack, error)
}

// Options tunes a SessionService. Zero values fall back to sane defaults.
type Options struct {
	// Timer is the global timed-mode setting applied to classic games.
	Timer TimerConfig
	// FFFSeconds is the default fastest-finger countdown.
	FFFSeconds int
	// TickInterval is the countdown granularity; tests shrink it.
	TickInterval time.Duration
	// Live, when set, builds write-through transports for live sessions.
	Live TransportFactory
	Sink OutcomeSink
	Identity IdentityProvider
	Logger   zerolog.Logger
	Now      func() time.Time
	Seed     func() int64
}

// SessionService owns every session's state transitions. It is the only
// writer into session state; the presentation layer sends action verbs and
// consumes snapshots.
type SessionService struct {
	sessions SessionRepository
	packs    PackRepository
	sink     OutcomeSink
	identity IdentityProvider
	live     TransportFactory

	timer      TimerConfig
	fffSeconds int
	tick       time.Duration

	log  zerolog.Logger
	now  func() time.Time
	seed func() int64
}

func NewSessionService(sessions SessionRepository, packs PackRepository, opts Options) *SessionService {
	svc := &SessionService{
		sessions:   sessions,
		packs:      packs,
		sink:       opts.Sink,
		identity:   opts.Identity,
		live:       opts.Live,
		timer:      opts.Timer,
		fffSeconds: opts.FFFSeconds,
		tick:       opts.TickInterval,
		log:        opts.Logger,
		now:        opts.Now,
		seed:       opts.Seed,
	}
	if svc.sink == nil {
		svc.sink = NopOutcomeSink{}
	}
	if svc.identity == nil {
		svc.identity = StaticIdentity{}
	}
	if svc.fffSeconds <= 0 {
		svc.fffSeconds = 20
	}
	if svc.tick <= 0 {
		svc.tick = time.Second
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.seed == nil {
		svc.seed = func() int64 { return time.Now().UnixNano() }
	}
	return svc
}

// Identity returns the identity provider used for authority arbitration.
func (svc *SessionService) Identity() IdentityProvider { return svc.identity }

// CreateSession resolves the pack, freezes a snapshot of it onto a new
// session, and selects the transport once. A failing live store degrades to
// local play instead of blocking session creation.
func (svc *SessionService) CreateSession(ctx context.Context, packID string, mode domain.Mode, hostID string, live bool) (*Session, error) {
	pack, err := svc.packs.GetPack(ctx, packID)
	if err != nil {
		return nil, err
	}
	pack.Normalize()
	if err := pack.Validate(); err != nil {
		return nil, err
	}

	var fffQuestion *domain.Question
	if q, ok := pack.FFFQuestion(); ok {
		fffQuestion = &q
	} else if mode == domain.ModeFFF {
		return nil, domain.ErrNoFFFQuestion
	}

	snapshot := pack
	data := &domain.Session{
		ID:           uuid.NewString(),
		PackID:       pack.ID,
		Mode:         mode,
		Status:       domain.StatusWaiting,
		CreatedAt:    svc.now(),
		HostID:       hostID,
		PackSnapshot: &snapshot,
		Current: domain.CurrentState{
			Level:           1,
			UsedLifelines:   []string{},
			DisabledOptions: []string{},
			Shuffles:        make(map[domain.ShuffleKey]domain.ShuffledOptions),
		},
		Participants: make(map[string]domain.Participant),
		Submissions:  make(map[string]domain.FFFSubmission),
		FFFQuestion:  fffQuestion,
		FFFRoundID:   uuid.NewString(),
	}

	s := newSession(data, pack, svc.seed(), svc.now)
	s.transport = NewLocalTransport()
	if live && svc.live != nil {
		tr, err := svc.live.NewTransport(ctx, s)
		if err != nil {
			svc.log.Warn().Err(err).Str("session", data.ID).
				Msg("live store unreachable, falling back to local play")
		} else {
			s.transport = tr
		}
	}

	svc.sessions.Put(s)
	svc.log.Info().Str("session", data.ID).Str("mode", string(mode)).Msg("session created")
	return s, nil
}

// GetSession looks a session up by id.
func (svc *SessionService) GetSession(id string) (*Session, bool) {
	return svc.sessions.Get(id)
}

// Subscribe streams state snapshots for one session.
func (svc *SessionService) Subscribe(sessionID string) (<-chan Snapshot, func(), error) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := s.Subscribe()
	return ch, cancel, nil
}

// Join registers a participant with a device fingerprint.
func (svc *SessionService) Join(ctx context.Context, sessionID, name, userAgent string) (string, error) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	p := domain.Participant{
		ID:         uuid.NewString(),
		Name:       name,
		DeviceHash: domain.HashDevice(userAgent, name),
		JoinedAt:   svc.now(),
	}
	if err := s.transport.Join(ctx, s, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// StartClassic resets progress to level 1 with a fresh question draw and
// shuffle seed. A non-nil timed overrides the global timed-mode setting for
// this invocation.
func (svc *SessionService) StartClassic(ctx context.Context, sessionID string, timed *bool) error {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	timer := svc.timer
	if timed != nil {
		timer.Enabled = *timed
		if timer.Seconds <= 0 {
			timer.Seconds = defaultTimerSeconds
		}
	}

	s.mu.Lock()
	next := newClassicState(s.pack, s.rng, timer)
	s.mu.Unlock()

	svc.stopTimer(s)
	if err := s.transport.StartClassic(ctx, s, next); err != nil {
		return err
	}
	svc.startTimer(s)
	return nil
}

// SubmitAnswer resolves the current question against the selected key and
// commits the transition through the session's transport. Ignored actions
// (locked state, read-only participant) return an unapplied resolution with
// no error.
func (svc *SessionService) SubmitAnswer(ctx context.Context, sessionID, selected string) (AnswerResolution, error) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return AnswerResolution{}, domain.ErrSessionNotFound
	}
	if !s.transport.AllowAnswerInput(s) {
		return AnswerResolution{}, nil
	}
	return svc.submit(ctx, s, selected)
}

// submit resolves and commits an answer without the input gate. Timer expiry
// uses it directly: the forced timeout is an authority action of the host,
// not participant input.
func (svc *SessionService) submit(ctx context.Context, s *Session, selected string) (AnswerResolution, error) {
	s.mu.Lock()
	q, ok := currentQuestionLocked(s.data, s.pack)
	if !ok {
		s.mu.Unlock()
		return AnswerResolution{}, domain.ErrNoCurrentQuestion
	}
	shuffled := svc.shuffledLocked(s, q)
	res := resolveAnswerLocked(s.data, s.pack, shuffled, selected, svc.refreshTimer(), svc.now())
	if !res.Applied {
		s.mu.Unlock()
		return res, nil
	}
	// Lock immediately so a second submit for the same question can never
	// also succeed, regardless of transport round-trip timing.
	s.data.Current.Locked = true
	s.mu.Unlock()

	svc.stopTimer(s)
	if err := s.transport.CommitAnswer(ctx, s, res); err != nil {
		// Leave state as it was rather than half-applied.
		s.Update(func(d *domain.Session) { d.Current.Locked = false })
		return AnswerResolution{}, err
	}

	if res.Outcome != nil {
		svc.emitOutcome(ctx, s, *res.Outcome)
	} else {
		svc.startTimer(s)
	}
	return res, nil
}

// UseLifeline spends a lifeline once per game and returns its hint payload.
func (svc *SessionService) UseLifeline(ctx context.Context, sessionID, key string) (LifelineResult, error) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return LifelineResult{}, domain.ErrSessionNotFound
	}
	if !s.transport.AllowAnswerInput(s) {
		return LifelineResult{}, nil
	}

	s.mu.Lock()
	q, ok := currentQuestionLocked(s.data, s.pack)
	if !ok {
		s.mu.Unlock()
		return LifelineResult{}, domain.ErrNoCurrentQuestion
	}
	shuffled := svc.shuffledLocked(s, q)
	res, next := resolveLifelineLocked(s.data, shuffled, key, s.rng)
	s.mu.Unlock()

	if !res.Applied {
		return res, nil
	}
	if err := s.transport.ApplyLifeline(ctx, s, next); err != nil {
		return LifelineResult{}, err
	}
	return res, nil
}

// WalkAway ends the session banking the last cleared rung.
func (svc *SessionService) WalkAway(ctx context.Context, sessionID string) (AnswerResolution, error) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return AnswerResolution{}, domain.ErrSessionNotFound
	}

	s.mu.Lock()
	res := resolveWalkAwayLocked(s.data, s.pack, svc.now())
	s.mu.Unlock()
	if !res.Applied {
		return res, nil
	}

	svc.stopTimer(s)
	if err := s.transport.EndSession(ctx, s, res.Next); err != nil {
		return AnswerResolution{}, err
	}
	svc.emitOutcome(ctx, s, *res.Outcome)
	return res, nil
}

// Quit abandons the session with no prize and no outcome event.
func (svc *SessionService) Quit(ctx context.Context, sessionID string) error {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	s.mu.Lock()
	next := cloneState(s.data.Current)
	s.mu.Unlock()
	next.Locked = true
	next.Feedback = "Game ended. No prize awarded."
	next.FeedbackTone = "bad"

	svc.stopTimer(s)
	return s.transport.EndSession(ctx, s, next)
}

// StartFFF opens a fresh fastest-finger round: new round id, recorded start
// time and countdown length; prior submissions and winner are cleared.
func (svc *SessionService) StartFFF(ctx context.Context, sessionID string, seconds int) error {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	var hasQuestion bool
	s.View(func(d *domain.Session) { hasQuestion = d.FFFQuestion != nil })
	if !hasQuestion {
		return domain.ErrNoFFFQuestion
	}

	if seconds <= 0 {
		seconds = svc.fffSeconds
	}
	round := FFFRound{ID: uuid.NewString(), StartedAt: svc.now(), TimerSeconds: seconds}
	return s.transport.StartFFF(ctx, s, round)
}

// SubmitFFF records one submission per participant per round. A stored
// submission from a stale round may be replaced; a current-round duplicate
// is silently ignored.
func (svc *SessionService) SubmitFFF(ctx context.Context, sessionID, participantID string, ans domain.FFFAnswer) error {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	var sub domain.FFFSubmission
	var skip bool
	var noQuestion bool
	s.mu.Lock()
	d := s.data
	switch {
	case d.FFFQuestion == nil:
		noQuestion = true
	default:
		if existing, ok := d.Submissions[participantID]; ok {
			if d.FFFRoundID == "" || existing.RoundID == d.FFFRoundID {
				skip = true
			}
		}
		if !skip {
			now := svc.now()
			start := d.FFFStartTime
			if start.IsZero() {
				start = now
			}
			sub = domain.FFFSubmission{
				ID:            uuid.NewString(),
				ParticipantID: participantID,
				IsCorrect:     scoreFFF(*d.FFFQuestion, ans),
				SubmittedAt:   now,
				LatencyMS:     now.Sub(start).Milliseconds(),
				Answer:        ans,
				RoundID:       d.FFFRoundID,
				Seq:           s.nextSeq(),
			}
		}
	}
	s.mu.Unlock()

	if noQuestion {
		return domain.ErrNoFFFQuestion
	}
	if skip {
		return nil
	}
	return s.transport.SubmitFFF(ctx, s, sub)
}

// ComputeWinner ranks current-round submissions and commits the winner.
// Returns empty with no error when no qualifying submission exists.
func (svc *SessionService) ComputeWinner(ctx context.Context, sessionID string) (string, error) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return "", domain.ErrSessionNotFound
	}

	var winner string
	var found bool
	s.View(func(d *domain.Session) {
		winner, found = RankSubmissions(d.Submissions, d.FFFRoundID)
	})
	if !found {
		return "", nil
	}
	if err := s.transport.SetWinner(ctx, s, winner); err != nil {
		return "", err
	}
	return winner, nil
}

// Tally returns per-option vote counts for the current FFF round.
func (svc *SessionService) Tally(sessionID string) (map[string]int, error) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var counts map[string]int
	var noQuestion bool
	s.View(func(d *domain.Session) {
		if d.FFFQuestion == nil {
			noQuestion = true
			return
		}
		counts = tallyFFF(d.Submissions, d.FFFRoundID, *d.FFFQuestion)
	})
	if noQuestion {
		return nil, domain.ErrNoFFFQuestion
	}
	return counts, nil
}

// QuestionView is the render-safe projection of the current question:
// shuffled options without the correct key.
type QuestionView struct {
	ID       string            `json:"id"`
	Level    int               `json:"level"`
	Prompt   string            `json:"promptText"`
	Options  map[string]string `json:"options"`
	Disabled []string          `json:"disabledOptions"`
	Image    string            `json:"image,omitempty"`
}

// CurrentQuestion returns the active question as the presentation layer
// should display it. Two reads for the same question return the identical
// option order.
func (svc *SessionService) CurrentQuestion(sessionID string) (QuestionView, error) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return QuestionView{}, domain.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := currentQuestionLocked(s.data, s.pack)
	if !ok {
		return QuestionView{}, domain.ErrNoCurrentQuestion
	}
	shuffled := svc.shuffledLocked(s, q)
	return QuestionView{
		ID:       q.ID,
		Level:    q.Level,
		Prompt:   q.Prompt,
		Options:  shuffled.Options,
		Disabled: append([]string(nil), s.data.Current.DisabledOptions...),
		Image:    q.Image,
	}, nil
}

// Detach cancels the session's timer and remote subscriptions. The session
// itself is retained for leaderboard and replay purposes.
func (svc *SessionService) Detach(sessionID string) {
	s, ok := svc.sessions.Get(sessionID)
	if !ok {
		return
	}
	svc.stopTimer(s)
	s.transport.Close()
}

// SessionUpdated reconciles local side effects after a remote merge: the
// host (re)starts or cancels the countdown to match replicated state.
func (svc *SessionService) SessionUpdated(s *Session) {
	s.mu.Lock()
	status := s.data.Status
	timed := s.data.Current.TimerSeconds != nil
	running := s.timer != nil
	s.mu.Unlock()

	if status != domain.StatusLive || !timed {
		svc.stopTimer(s)
		return
	}
	if !running {
		svc.startTimer(s)
	}
}

func (svc *SessionService) shuffledLocked(s *Session, q domain.Question) domain.ShuffledOptions {
	if !s.transport.ShufflesLocally() {
		return identityOptions(q)
	}
	if s.data.Current.Shuffles == nil {
		s.data.Current.Shuffles = make(map[domain.ShuffleKey]domain.ShuffledOptions)
	}
	return shuffledOptions(q, s.data.Current.ShuffleSeed, s.data.Current.Shuffles)
}

func (svc *SessionService) refreshTimer() TimerConfig {
	cfg := svc.timer
	if cfg.Seconds <= 0 {
		cfg.Seconds = defaultTimerSeconds
	}
	return cfg
}

func (svc *SessionService) emitOutcome(ctx context.Context, s *Session, outcome domain.Outcome) {
	svc.stopTimer(s)
	var hostID string
	s.View(func(d *domain.Session) { hostID = d.HostID })
	if err := svc.sink.RecordOutcome(ctx, s.ID(), hostID, outcome); err != nil {
		svc.log.Warn().Err(err).Str("session", s.ID()).Msg("outcome sink failed")
	}
	svc.log.Info().
		Str("session", s.ID()).
		Str("outcome", string(outcome.Type)).
		Int("level", outcome.Level).
		Int("prize", outcome.Prize).
		Msg("session ended")
}

const defaultTimerSeconds = 10
