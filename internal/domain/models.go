package domain

import (
	"hash/fnv"
	"strconv"
	"time"
)

// Mode is the session game mode.
type Mode string

const (
	ModeFFF     Mode = "FFF"
	ModeClassic Mode = "CLASSIC"
)

// Status is the linear session lifecycle: waiting -> live -> ended.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusLive    Status = "live"
	StatusEnded   Status = "ended"
)

// TimeoutOption is the sentinel answer key submitted when the countdown
// expires. It never matches a real option, so it always scores incorrect.
const TimeoutOption = "TIMEOUT"

// LevelQuestion binds one drawn question to a ladder level. The draw happens
// once at startClassic and is fixed for the session's lifetime.
type LevelQuestion struct {
	Level      int    `json:"level"`
	QuestionID string `json:"questionId"`
}

// ShuffleKey is the composite cache key for one question's option shuffle.
type ShuffleKey struct {
	QuestionID string
	Seed       int64
}

// ShuffledOptions is a question's display order plus the remapped label of
// the original correct answer.
type ShuffledOptions struct {
	Options       map[string]string `json:"options"`
	CorrectOption string            `json:"correctOption"`
}

// CurrentState is the classic-mode progress of one session.
type CurrentState struct {
	Level           int             `json:"level"`
	QuestionOrder   []LevelQuestion `json:"questionOrder"`
	UsedLifelines   []string        `json:"usedLifelines"`
	DisabledOptions []string        `json:"disabledOptions"`
	Feedback        string          `json:"feedback"`
	FeedbackTone    string          `json:"feedbackTone"`
	Locked          bool            `json:"locked"`
	// TimerSeconds is nil for untimed play.
	TimerSeconds *int  `json:"timerSeconds,omitempty"`
	ShuffleSeed  int64 `json:"shuffleSeed,omitempty"`
	// Shuffles caches one deterministic option order per (question, seed);
	// local only, never replicated.
	Shuffles map[ShuffleKey]ShuffledOptions `json:"-"`
}

// UsedLifeline reports whether key was already spent this game.
func (c CurrentState) UsedLifeline(key string) bool {
	for _, used := range c.UsedLifelines {
		if used == key {
			return true
		}
	}
	return false
}

// Participant is one joined live player.
type Participant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	DeviceHash string    `json:"deviceIdHash"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// FFFAnswer is a submission payload: either a selected option key or, for
// ordering questions, the submitted sequence.
type FFFAnswer struct {
	Option string   `json:"option,omitempty"`
	Order  []string `json:"order,omitempty"`
}

// FFFSubmission records one participant's fastest-finger attempt.
type FFFSubmission struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participantId"`
	IsCorrect     bool      `json:"isCorrect"`
	SubmittedAt   time.Time `json:"submittedAt"`
	LatencyMS     int64     `json:"latencyMs"`
	Answer        FFFAnswer `json:"answerPayload"`
	RoundID       string    `json:"roundId"`
	// Seq is the arrival order within the session, the final tie-breaker.
	Seq int `json:"seq"`
}

// Session owns one game's full state. In live mode the replicated document
// is authoritative and this object is a read-mostly projection.
type Session struct {
	ID        string    `json:"id"`
	PackID    string    `json:"packId"`
	Mode      Mode      `json:"mode"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	StartedAt time.Time `json:"startedAt,omitempty"`
	HostID    string    `json:"hostUid,omitempty"`

	// PackSnapshot freezes the pack at creation time so later edits or
	// deletions never alter an in-progress or historical session.
	PackSnapshot *Pack `json:"packSnapshot,omitempty"`

	Current CurrentState `json:"currentState"`

	Participants map[string]Participant   `json:"participants,omitempty"`
	Submissions  map[string]FFFSubmission `json:"fffSubmissions,omitempty"`

	WinnerID        string    `json:"winnerParticipantId,omitempty"`
	FFFQuestion     *Question `json:"fffQuestion,omitempty"`
	FFFRoundID      string    `json:"fffRoundId,omitempty"`
	FFFStartTime    time.Time `json:"fffStartTime,omitempty"`
	FFFTimerSeconds int       `json:"fffTimerSeconds,omitempty"`
}

// CurrentQuestionID resolves the drawn question for the current level.
func (s *Session) CurrentQuestionID() (string, bool) {
	for _, entry := range s.Current.QuestionOrder {
		if entry.Level == s.Current.Level {
			return entry.QuestionID, true
		}
	}
	return "", false
}

// OutcomeType classifies how a session ended.
type OutcomeType string

const (
	OutcomeWin      OutcomeType = "win"
	OutcomeLose     OutcomeType = "lose"
	OutcomeWalkAway OutcomeType = "walkaway"
)

// Outcome is the single terminal event emitted per finished session.
type Outcome struct {
	Type          OutcomeType `json:"type"`
	Level         int         `json:"level"`
	Prize         int         `json:"prize"`
	ElapsedMS     int64       `json:"elapsedMs"`
	LifelinesUsed []string    `json:"lifelinesUsed"`
}

// HashDevice derives the soft anti-duplicate fingerprint from user agent and
// display name. Not cryptographically secure, by contract.
func HashDevice(userAgent, name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userAgent))
	_, _ = h.Write([]byte("-"))
	_, _ = h.Write([]byte(name))
	return "h" + strconv.FormatUint(uint64(h.Sum32()), 10)
}
