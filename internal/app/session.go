package app

import (
	"sync"
	"time"

	"heresy-trivia-service/internal/domain"
)

type sessionState int

const (
	stateStart sessionState = iota
	stateInProgress
	stateVerdict
)

// EventKind tags events emitted to render-layer subscribers.
type EventKind string

const (
	EventQuestion        EventKind = "question"
	EventAnswerResult    EventKind = "answerResult"
	EventCouncilOffended EventKind = "councilOffended"
	EventVerdict         EventKind = "verdict"
)

// QuestionPrompt is the render-safe view of the active question. The correct
// answer never leaves the session until the question is settled.
type QuestionPrompt struct {
	QuestionID       int      `json:"questionId"`
	Text             string   `json:"text"`
	Options          []string `json:"options"`
	TimeLimitSeconds int      `json:"timeLimit"`
	Number           int      `json:"number"`
	Remaining        int      `json:"remaining"`
}

// AnswerOutcome summarizes one settled question for the player.
type AnswerOutcome struct {
	QuestionID    int     `json:"questionId"`
	Correct       bool    `json:"correct"`
	TimedOut      bool    `json:"timedOut"`
	CorrectAnswer string  `json:"correctAnswer"`
	HeresyDelta   float64 `json:"heresyDelta"`
	OffendedCount int     `json:"offendedCount"`
	TotalCouncils int     `json:"totalCouncils"`
}

// Event is what subscribers receive. Exactly one payload field is set,
// matching Kind.
type Event struct {
	Kind     EventKind        `json:"kind"`
	Question *QuestionPrompt  `json:"question,omitempty"`
	Result   *AnswerOutcome   `json:"result,omitempty"`
	Council  *domain.Council  `json:"council,omitempty"`
	Verdict  *domain.Verdict  `json:"verdict,omitempty"`
}

// GameSession runs one player's quiz from first question to verdict. The
// state machine is linear: start -> in-progress (one self-loop per answered
// question) -> verdict, terminal. All mutation happens under mu, which is
// also what guarantees a question is settled by an answer or its timeout but
// never both.
type GameSession struct {
	id           string
	playerID     string
	displayName  string
	difficulty   domain.Difficulty
	total        int
	poolWasReset bool

	mu          sync.Mutex
	state       sessionState
	pool        *QuestionPool
	ledger      *CouncilLedger
	engine      *VerdictEngine
	records     []domain.AnsweredRecord
	current     *pendingQuestion
	startedAt   time.Time
	verdict     *domain.Verdict
	offendedCap int
	closed      bool
	subscribers map[chan Event]struct{}

	now      func() time.Time
	onUsed   func(key string)
	newTimer func(d time.Duration, fn func()) *time.Timer
}

type pendingQuestion struct {
	question domain.Question
	askedAt  time.Time
	timer    *time.Timer
	settled  bool
}

type sessionParams struct {
	ID          string
	PlayerID    string
	DisplayName string
	Difficulty  domain.Difficulty
	Pool        *QuestionPool
	Ledger      *CouncilLedger
	Engine      *VerdictEngine
	OffendedCap int
	OnUsed      func(key string)
	Now         func() time.Time
	NewTimer    func(d time.Duration, fn func()) *time.Timer
}

func newGameSession(p sessionParams) *GameSession {
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.NewTimer == nil {
		p.NewTimer = time.AfterFunc
	}
	if p.OffendedCap <= 0 {
		p.OffendedCap = 5
	}
	return &GameSession{
		id:           p.ID,
		playerID:     p.PlayerID,
		displayName:  p.DisplayName,
		difficulty:   p.Difficulty,
		total:        p.Pool.Remaining(),
		poolWasReset: p.Pool.WasReset(),
		pool:         p.Pool,
		ledger:       p.Ledger,
		engine:       p.Engine,
		offendedCap:  p.OffendedCap,
		subscribers:  make(map[chan Event]struct{}),
		now:          p.Now,
		onUsed:       p.OnUsed,
		newTimer:     p.NewTimer,
	}
}

func (s *GameSession) ID() string                    { return s.id }
func (s *GameSession) PlayerID() string              { return s.playerID }
func (s *GameSession) DisplayName() string           { return s.displayName }
func (s *GameSession) Difficulty() domain.Difficulty { return s.difficulty }
func (s *GameSession) TotalQuestions() int           { return s.total }
func (s *GameSession) PoolWasReset() bool            { return s.poolWasReset }

// Verdict returns the final outcome once the session has finished.
func (s *GameSession) Verdict() (*domain.Verdict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verdict, s.verdict != nil
}

// Begin moves start -> in-progress and poses the first question.
func (s *GameSession) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateStart {
		return
	}
	s.state = stateInProgress
	s.startedAt = s.now()
	s.advanceLocked()
}

// Answer settles the active question with the player's choice. The pending
// timeout timer is stopped first; if it already fired and settled the
// question, ErrQuestionNotActive is returned and nothing is double-counted.
func (s *GameSession) Answer(questionID int, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateVerdict {
		return domain.ErrSessionFinished
	}
	cur := s.current
	if s.state != stateInProgress || cur == nil || cur.settled || cur.question.ID != questionID {
		return domain.ErrQuestionNotActive
	}
	cur.settled = true
	if cur.timer != nil {
		cur.timer.Stop()
	}
	s.settleLocked(cur, answer, false)
	return nil
}

// handleTimeout is the timer callback. The settled guard under mu makes
// answer-vs-timeout a strict either/or even when both race on the same tick.
func (s *GameSession) handleTimeout(questionID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current
	if s.state != stateInProgress || cur == nil || cur.settled || cur.question.ID != questionID {
		return
	}
	cur.settled = true
	s.settleLocked(cur, "", true)
}

func (s *GameSession) settleLocked(cur *pendingQuestion, answer string, timedOut bool) {
	q := cur.question
	now := s.now()
	correct := !timedOut && answer == q.Answer

	s.records = append(s.records, domain.AnsweredRecord{
		QuestionID:   q.ID,
		Difficulty:   s.difficulty,
		ChosenAnswer: answer,
		Correct:      correct,
		TimedOut:     timedOut,
		AnsweredAt:   now,
		ResponseTime: now.Sub(cur.askedAt),
	})

	newly, delta := s.ledger.RecordAnswer(q, correct, timedOut)
	offended, totalCouncils := s.ledger.Standing()
	s.current = nil

	s.broadcastLocked(Event{Kind: EventAnswerResult, Result: &AnswerOutcome{
		QuestionID:    q.ID,
		Correct:       correct,
		TimedOut:      timedOut,
		CorrectAnswer: q.Answer,
		HeresyDelta:   delta,
		OffendedCount: offended,
		TotalCouncils: totalCouncils,
	}})
	for i := range newly {
		s.broadcastLocked(Event{Kind: EventCouncilOffended, Council: &newly[i]})
	}

	if offended >= s.offendedCap {
		s.finishLocked()
		return
	}
	s.advanceLocked()
}

func (s *GameSession) advanceLocked() {
	q, key, ok := s.pool.Next()
	if !ok {
		s.finishLocked()
		return
	}
	// Write-through before the question is shown; losing the very last
	// write on abrupt shutdown costs at most one repeat.
	if s.onUsed != nil {
		s.onUsed(key)
	}

	limit := time.Duration(q.TimeLimitSeconds) * time.Second
	if limit <= 0 {
		limit = time.Duration(s.difficulty.DefaultTimeLimit()) * time.Second
	}
	id := q.ID
	cur := &pendingQuestion{question: q, askedAt: s.now()}
	cur.timer = s.newTimer(limit, func() { s.handleTimeout(id) })
	s.current = cur

	s.broadcastLocked(Event{Kind: EventQuestion, Question: s.promptLocked()})
}

func (s *GameSession) promptLocked() *QuestionPrompt {
	q := s.current.question
	return &QuestionPrompt{
		QuestionID:       q.ID,
		Text:             q.Text,
		Options:          q.Options,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Number:           len(s.records) + 1,
		Remaining:        s.pool.Remaining(),
	}
}

func (s *GameSession) finishLocked() {
	if s.state == stateVerdict {
		return
	}
	s.state = stateVerdict
	if cur := s.current; cur != nil && cur.timer != nil {
		cur.timer.Stop()
	}
	s.current = nil
	v := s.engine.Calculate(s.records, s.ledger.AllOffended(), s.now().Sub(s.startedAt))
	s.verdict = &v
	s.broadcastLocked(Event{Kind: EventVerdict, Verdict: &v})
}

// subscribe registers a render-layer listener. The channel is primed with
// the current state (active question or verdict) so late subscribers catch
// up immediately.
func (s *GameSession) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	switch {
	case s.verdict != nil:
		ch <- Event{Kind: EventVerdict, Verdict: s.verdict}
	case s.current != nil:
		ch <- Event{Kind: EventQuestion, Question: s.promptLocked()}
	}
	s.mu.Unlock()

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

func (s *GameSession) broadcastLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop its oldest event rather than block.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Close stops the pending timer and detaches all subscribers. Used when the
// player disconnects before the verdict.
func (s *GameSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if cur := s.current; cur != nil && cur.timer != nil {
		cur.timer.Stop()
		cur.settled = true
	}
	s.current = nil
	s.state = stateVerdict
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}
