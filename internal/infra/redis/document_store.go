package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ismailukman/millionaire-live/internal/domain"
	"github.com/ismailukman/millionaire-live/internal/livesync"
)

// DocumentStore replicates live sessions through Redis. The session record
// is one JSON value, participants and submissions are hashes keyed by id,
// and every write publishes on a per-session channel so other instances
// re-read and merge.
//
// Keys:
//
//	live:session:{id}                session document JSON
//	live:session:{id}:participants   hash participantID -> JSON
//	live:session:{id}:submissions    hash participantID -> JSON
type DocumentStore struct {
	client *redis.Client
}

var _ livesync.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore(client *redis.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

func (s *DocumentStore) CreateSession(ctx context.Context, doc livesync.SessionDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal session document: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(doc.ID), raw, 0).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, sessionChannel(doc.ID), raw).Err()
}

func (s *DocumentStore) GetSession(ctx context.Context, id string) (livesync.SessionDocument, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return livesync.SessionDocument{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return livesync.SessionDocument{}, err
	}
	var doc livesync.SessionDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return livesync.SessionDocument{}, fmt.Errorf("unmarshal session document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) UpdateSession(ctx context.Context, id string, patch livesync.SessionPatch) error {
	doc, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	livesync.ApplyPatch(&doc, patch)
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal session document: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(id), raw, 0).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, sessionChannel(id), raw).Err()
}

func (s *DocumentStore) PutParticipant(ctx context.Context, sessionID string, p domain.Participant) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal participant: %w", err)
	}
	if err := s.client.HSet(ctx, participantsKey(sessionID), p.ID, raw).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, participantsChannel(sessionID), p.ID).Err()
}

func (s *DocumentStore) PutSubmission(ctx context.Context, sessionID string, sub domain.FFFSubmission) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	if err := s.client.HSet(ctx, submissionsKey(sessionID), sub.ParticipantID, raw).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, submissionsChannel(sessionID), sub.ParticipantID).Err()
}

func (s *DocumentStore) SubscribeSession(ctx context.Context, id string, fn func(livesync.SessionDocument)) (func(), error) {
	ps := s.client.Subscribe(ctx, sessionChannel(id))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	go func() {
		for msg := range ps.Channel() {
			var doc livesync.SessionDocument
			if err := json.Unmarshal([]byte(msg.Payload), &doc); err != nil {
				continue
			}
			fn(doc)
		}
	}()
	return func() { _ = ps.Close() }, nil
}

func (s *DocumentStore) SubscribeParticipants(ctx context.Context, id string, fn func(map[string]domain.Participant)) (func(), error) {
	ps := s.client.Subscribe(ctx, participantsChannel(id))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	go func() {
		for range ps.Channel() {
			raw, err := s.client.HGetAll(context.Background(), participantsKey(id)).Result()
			if err != nil {
				continue
			}
			out := make(map[string]domain.Participant, len(raw))
			for k, v := range raw {
				var p domain.Participant
				if err := json.Unmarshal([]byte(v), &p); err != nil {
					continue
				}
				out[k] = p
			}
			fn(out)
		}
	}()
	return func() { _ = ps.Close() }, nil
}

func (s *DocumentStore) SubscribeSubmissions(ctx context.Context, id string, fn func(map[string]domain.FFFSubmission)) (func(), error) {
	ps := s.client.Subscribe(ctx, submissionsChannel(id))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	go func() {
		for range ps.Channel() {
			raw, err := s.client.HGetAll(context.Background(), submissionsKey(id)).Result()
			if err != nil {
				continue
			}
			out := make(map[string]domain.FFFSubmission, len(raw))
			for k, v := range raw {
				var sub domain.FFFSubmission
				if err := json.Unmarshal([]byte(v), &sub); err != nil {
					continue
				}
				out[k] = sub
			}
			fn(out)
		}
	}()
	return func() { _ = ps.Close() }, nil
}

func sessionKey(id string) string          { return "live:session:" + id }
func participantsKey(id string) string     { return sessionKey(id) + ":participants" }
func submissionsKey(id string) string      { return sessionKey(id) + ":submissions" }
func sessionChannel(id string) string      { return sessionKey(id) + ":events" }
func participantsChannel(id string) string { return participantsKey(id) + ":events" }
func submissionsChannel(id string) string  { return submissionsKey(id) + ":events" }
