package app

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"heresy-trivia-service/internal/domain"
)

// manualTimers captures timeout callbacks so tests can fire them on demand.
type manualTimers struct {
	fns []func()
}

func (m *manualTimers) newTimer(_ time.Duration, fn func()) *time.Timer {
	m.fns = append(m.fns, fn)
	return time.NewTimer(time.Hour)
}

func testQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Text: "q1", Options: []string{"right", "wrong"}, Answer: "right", Council: "Nicaea", HeresyPoints: 1, TimeLimitSeconds: 30},
		{ID: 2, Text: "q2", Options: []string{"right", "wrong"}, Answer: "right", Council: "Trent", HeresyPoints: 1, TimeLimitSeconds: 30},
	}
}

func newTestSession(questions []domain.Question, cap int, tolerance float64, onUsed func(string)) (*GameSession, *manualTimers) {
	rnd := rand.New(rand.NewSource(1))
	timers := &manualTimers{}
	cfg := DefaultLedgerConfig()
	cfg.DefaultTolerance = tolerance
	return newGameSession(sessionParams{
		ID:          "s1",
		PlayerID:    "p1",
		DisplayName: "Alice",
		Difficulty:  domain.DifficultyEasy,
		Pool:        NewQuestionPool(questions, domain.DifficultyEasy, nil, rnd),
		Ledger:      NewCouncilLedger([]string{"Nicaea", "Trent"}, cfg, testClock()),
		Engine:      NewVerdictEngine(rnd, cap),
		OffendedCap: cap,
		OnUsed:      onUsed,
		NewTimer:    timers.newTimer,
	}), timers
}

func drainKind(t *testing.T, ch <-chan Event, kind EventKind) Event {
	t.Helper()
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				return ev
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s event", kind)
		}
	}
}

func TestSessionRunsToVerdict(t *testing.T) {
	var usedKeys []string
	session, _ := newTestSession(testQuestions(), 5, 3, func(key string) {
		usedKeys = append(usedKeys, key)
	})
	events, cancel := session.subscribe()
	defer cancel()

	session.Begin()

	seen := make(map[int]bool)
	for i := 0; i < 2; i++ {
		ev := drainKind(t, events, EventQuestion)
		q := ev.Question
		if seen[q.QuestionID] {
			t.Fatalf("question %d posed twice in one session", q.QuestionID)
		}
		seen[q.QuestionID] = true
		if q.TimeLimitSeconds != 30 {
			t.Fatalf("expected 30s limit, got %d", q.TimeLimitSeconds)
		}
		if err := session.Answer(q.QuestionID, "right"); err != nil {
			t.Fatalf("answer: %v", err)
		}
		res := drainKind(t, events, EventAnswerResult)
		if !res.Result.Correct {
			t.Fatalf("expected correct result, got %+v", res.Result)
		}
	}

	verdict := drainKind(t, events, EventVerdict)
	if verdict.Verdict.Category != domain.VerdictFaithful {
		t.Fatalf("two correct answers should be faithful, got %s", verdict.Verdict.Category)
	}
	if len(usedKeys) != 2 {
		t.Fatalf("every dealt question must be persisted immediately, got %v", usedKeys)
	}

	if err := session.Answer(1, "right"); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected ErrSessionFinished after verdict, got %v", err)
	}
}

func TestSessionStopsAtOffendedCap(t *testing.T) {
	session, _ := newTestSession(testQuestions(), 1, 1, nil)
	events, cancel := session.subscribe()
	defer cancel()

	session.Begin()

	q := drainKind(t, events, EventQuestion)
	if err := session.Answer(q.Question.QuestionID, "wrong"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	offense := drainKind(t, events, EventCouncilOffended)
	if !offense.Council.Offended {
		t.Fatalf("expected offended council, got %+v", offense.Council)
	}
	verdict := drainKind(t, events, EventVerdict)
	if len(verdict.Verdict.OffendedCouncils) != 1 {
		t.Fatalf("verdict should list the offended council, got %+v", verdict.Verdict.OffendedCouncils)
	}
}

func TestAnswerBeatsTimeout(t *testing.T) {
	session, timers := newTestSession(testQuestions(), 5, 3, nil)
	events, cancel := session.subscribe()
	defer cancel()

	session.Begin()
	q := drainKind(t, events, EventQuestion)

	if err := session.Answer(q.Question.QuestionID, "right"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	// The stale timer callback for q1 fires late; it must be a no-op.
	timers.fns[0]()

	session.mu.Lock()
	defer session.mu.Unlock()
	if got := len(session.records); got != 1 {
		t.Fatalf("first question settled %d times, want exactly once", got)
	}
	first := session.records[0]
	if !first.Correct || first.TimedOut {
		t.Fatalf("late timeout overwrote the answer: %+v", first)
	}
}

func TestTimeoutBeatsAnswer(t *testing.T) {
	session, timers := newTestSession(testQuestions(), 5, 3, nil)
	events, cancel := session.subscribe()
	defer cancel()

	session.Begin()
	q := drainKind(t, events, EventQuestion)

	// Timer fires first; the player's answer for the same question loses.
	timers.fns[0]()
	if err := session.Answer(q.Question.QuestionID, "right"); !errors.Is(err, domain.ErrQuestionNotActive) {
		t.Fatalf("expected ErrQuestionNotActive for settled question, got %v", err)
	}

	res := drainKind(t, events, EventAnswerResult)
	if !res.Result.TimedOut || res.Result.Correct {
		t.Fatalf("expected timeout outcome, got %+v", res.Result)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if got := len(session.records); got != 1 {
		t.Fatalf("question settled %d times, want exactly once", got)
	}
}

func TestAnswerForWrongQuestionRejected(t *testing.T) {
	session, _ := newTestSession(testQuestions(), 5, 3, nil)
	events, cancel := session.subscribe()
	defer cancel()

	session.Begin()
	q := drainKind(t, events, EventQuestion)

	other := 3 - q.Question.QuestionID
	if err := session.Answer(other, "right"); !errors.Is(err, domain.ErrQuestionNotActive) {
		t.Fatalf("expected ErrQuestionNotActive, got %v", err)
	}
}

func TestLateSubscriberSeesCurrentQuestion(t *testing.T) {
	session, _ := newTestSession(testQuestions(), 5, 3, nil)
	session.Begin()

	events, cancel := session.subscribe()
	defer cancel()

	ev := drainKind(t, events, EventQuestion)
	if ev.Question == nil {
		t.Fatalf("late subscriber should be primed with the active question")
	}
}
