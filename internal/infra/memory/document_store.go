package memory

import (
	"context"
	"sync"

	"github.com/ismailukman/millionaire-live/internal/domain"
	"github.com/ismailukman/millionaire-live/internal/livesync"
)

// DocumentStore is the in-process livesync backend. It replicates nothing
// but drives the same write-through-then-echo cycle the distributed
// backends do, which makes single-node live play and adapter tests exercise
// the real code path.
type DocumentStore struct {
	mu            sync.Mutex
	sessions      map[string]livesync.SessionDocument
	participants  map[string]map[string]domain.Participant
	submissions   map[string]map[string]domain.FFFSubmission
	sessListeners map[string]map[int]func(livesync.SessionDocument)
	partListeners map[string]map[int]func(map[string]domain.Participant)
	subListeners  map[string]map[int]func(map[string]domain.FFFSubmission)
	nextListener  int
}

var _ livesync.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		sessions:      make(map[string]livesync.SessionDocument),
		participants:  make(map[string]map[string]domain.Participant),
		submissions:   make(map[string]map[string]domain.FFFSubmission),
		sessListeners: make(map[string]map[int]func(livesync.SessionDocument)),
		partListeners: make(map[string]map[int]func(map[string]domain.Participant)),
		subListeners:  make(map[string]map[int]func(map[string]domain.FFFSubmission)),
	}
}

func (s *DocumentStore) CreateSession(_ context.Context, doc livesync.SessionDocument) error {
	s.mu.Lock()
	s.sessions[doc.ID] = doc
	fns := s.sessionListeners(doc.ID)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
	return nil
}

func (s *DocumentStore) GetSession(_ context.Context, id string) (livesync.SessionDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.sessions[id]
	if !ok {
		return livesync.SessionDocument{}, domain.ErrSessionNotFound
	}
	return doc, nil
}

func (s *DocumentStore) UpdateSession(_ context.Context, id string, patch livesync.SessionPatch) error {
	s.mu.Lock()
	doc, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrSessionNotFound
	}
	livesync.ApplyPatch(&doc, patch)
	s.sessions[id] = doc
	fns := s.sessionListeners(id)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
	return nil
}

func (s *DocumentStore) PutParticipant(_ context.Context, sessionID string, p domain.Participant) error {
	s.mu.Lock()
	if s.participants[sessionID] == nil {
		s.participants[sessionID] = make(map[string]domain.Participant)
	}
	s.participants[sessionID][p.ID] = p
	snapshot := copyParticipants(s.participants[sessionID])
	fns := make([]func(map[string]domain.Participant), 0, len(s.partListeners[sessionID]))
	for _, fn := range s.partListeners[sessionID] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
	return nil
}

func (s *DocumentStore) PutSubmission(_ context.Context, sessionID string, sub domain.FFFSubmission) error {
	s.mu.Lock()
	if s.submissions[sessionID] == nil {
		s.submissions[sessionID] = make(map[string]domain.FFFSubmission)
	}
	s.submissions[sessionID][sub.ParticipantID] = sub
	snapshot := copySubmissions(s.submissions[sessionID])
	fns := make([]func(map[string]domain.FFFSubmission), 0, len(s.subListeners[sessionID]))
	for _, fn := range s.subListeners[sessionID] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
	return nil
}

func (s *DocumentStore) SubscribeSession(_ context.Context, id string, fn func(livesync.SessionDocument)) (func(), error) {
	s.mu.Lock()
	if s.sessListeners[id] == nil {
		s.sessListeners[id] = make(map[int]func(livesync.SessionDocument))
	}
	key := s.nextListener
	s.nextListener++
	s.sessListeners[id][key] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.sessListeners[id], key)
		s.mu.Unlock()
	}, nil
}

func (s *DocumentStore) SubscribeParticipants(_ context.Context, id string, fn func(map[string]domain.Participant)) (func(), error) {
	s.mu.Lock()
	if s.partListeners[id] == nil {
		s.partListeners[id] = make(map[int]func(map[string]domain.Participant))
	}
	key := s.nextListener
	s.nextListener++
	s.partListeners[id][key] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.partListeners[id], key)
		s.mu.Unlock()
	}, nil
}

func (s *DocumentStore) SubscribeSubmissions(_ context.Context, id string, fn func(map[string]domain.FFFSubmission)) (func(), error) {
	s.mu.Lock()
	if s.subListeners[id] == nil {
		s.subListeners[id] = make(map[int]func(map[string]domain.FFFSubmission))
	}
	key := s.nextListener
	s.nextListener++
	s.subListeners[id][key] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subListeners[id], key)
		s.mu.Unlock()
	}, nil
}

func (s *DocumentStore) sessionListeners(id string) []func(livesync.SessionDocument) {
	fns := make([]func(livesync.SessionDocument), 0, len(s.sessListeners[id]))
	for _, fn := range s.sessListeners[id] {
		fns = append(fns, fn)
	}
	return fns
}

func copyParticipants(in map[string]domain.Participant) map[string]domain.Participant {
	out := make(map[string]domain.Participant, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copySubmissions(in map[string]domain.FFFSubmission) map[string]domain.FFFSubmission {
	out := make(map[string]domain.FFFSubmission, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
