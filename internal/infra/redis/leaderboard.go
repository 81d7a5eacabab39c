package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// Leaderboard records terminal game outcomes into host statistics and a
// winnings ranking. It implements app.OutcomeSink.
//
// Keys:
//
//	leaderboard:winnings        sorted set, member hostUid, score total prize
//	leaderboard:highest_level   sorted set, member hostUid, score best level reached
//	stats:{hostUid}             hash with games/wins/losses/walkaways counters
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

func (l *Leaderboard) RecordOutcome(ctx context.Context, sessionID, hostID string, outcome domain.Outcome) error {
	if hostID == "" {
		hostID = "anonymous"
	}
	pipe := l.client.Pipeline()
	statsKey := "stats:" + hostID
	pipe.HIncrBy(ctx, statsKey, "games", 1)
	switch outcome.Type {
	case domain.OutcomeWin:
		pipe.HIncrBy(ctx, statsKey, "wins", 1)
	case domain.OutcomeLose:
		pipe.HIncrBy(ctx, statsKey, "losses", 1)
	case domain.OutcomeWalkAway:
		pipe.HIncrBy(ctx, statsKey, "walkaways", 1)
	}
	if outcome.Prize > 0 {
		pipe.HIncrBy(ctx, statsKey, "total_winnings", int64(outcome.Prize))
		pipe.ZIncrBy(ctx, "leaderboard:winnings", float64(outcome.Prize), hostID)
	}
	if outcome.Level > 0 {
		pipe.ZAddGT(ctx, "leaderboard:highest_level", redis.Z{Score: float64(outcome.Level), Member: hostID})
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Entry is one leaderboard row.
type Entry struct {
	HostID   string `json:"hostUid"`
	Winnings int    `json:"winnings"`
}

// Top returns the n highest-earning hosts, best first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := l.client.ZRevRangeWithScores(ctx, "leaderboard:winnings", 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		host, _ := row.Member.(string)
		entries = append(entries, Entry{HostID: host, Winnings: int(row.Score)})
	}
	return entries, nil
}
