package app

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// Snapshot is a read-only copy of session state handed to subscribers and
// the presentation layer.
type Snapshot struct {
	Session domain.Session
}

// Session wraps one game's state with its transport, subscribers and timer.
// All mutation goes through Update; nothing else writes into the domain
// object directly.
type Session struct {
	mu          sync.Mutex
	data        *domain.Session
	pack        domain.Pack
	transport   Transport
	subscribers map[chan Snapshot]struct{}
	timer       *countdown
	rng         *rand.Rand
	now         func() time.Time
	seq         int
}

func newSession(data *domain.Session, pack domain.Pack, seed int64, now func() time.Time) *Session {
	return &Session{
		data:        data,
		pack:        pack,
		subscribers: make(map[chan Snapshot]struct{}),
		rng:         rand.New(rand.NewSource(seed)),
		now:         now,
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.data.ID
}

// Pack returns the frozen pack snapshot attached at creation time.
func (s *Session) Pack() domain.Pack {
	return s.pack
}

// Update runs fn on the session state under the lock and broadcasts the
// resulting snapshot to subscribers.
func (s *Session) Update(fn func(*domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
	s.broadcastLocked()
}

// View runs fn on the session state under the lock without broadcasting.
func (s *Session) View(fn func(*domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel fed with state snapshots, primed with the
// current one. The cancel func must be called to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow client never blocks
			// broadcast; the latest state always lands.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	copied := *s.data
	copied.Current.QuestionOrder = append([]domain.LevelQuestion(nil), s.data.Current.QuestionOrder...)
	copied.Current.UsedLifelines = append([]string(nil), s.data.Current.UsedLifelines...)
	copied.Current.DisabledOptions = append([]string(nil), s.data.Current.DisabledOptions...)
	if s.data.Current.TimerSeconds != nil {
		secs := *s.data.Current.TimerSeconds
		copied.Current.TimerSeconds = &secs
	}
	copied.Current.Shuffles = nil
	copied.Participants = make(map[string]domain.Participant, len(s.data.Participants))
	for id, p := range s.data.Participants {
		copied.Participants[id] = p
	}
	copied.Submissions = make(map[string]domain.FFFSubmission, len(s.data.Submissions))
	for id, sub := range s.data.Submissions {
		copied.Submissions[id] = sub
	}
	return Snapshot{Session: copied}
}

// nextSeq hands out the arrival counter for FFF submissions.
func (s *Session) nextSeq() int {
	s.seq++
	return s.seq
}
