package app

import (
	"math/rand"

	"heresy-trivia-service/internal/domain"
)

// QuestionPool deals questions of one difficulty in random order, skipping
// everything the player has already seen in earlier sessions.
type QuestionPool struct {
	difficulty domain.Difficulty
	queue      []domain.Question
	wasReset   bool
}

// NewQuestionPool filters out questions whose used-key is in used, shuffles
// the remainder, and detects pool exhaustion. When every question has been
// served since the last reset (used non-empty, nothing eligible), the whole
// tier becomes eligible again and WasReset reports true so the caller can
// clear the persisted set and notify the player. A first-ever session with
// an empty used set never counts as exhaustion.
func NewQuestionPool(questions []domain.Question, difficulty domain.Difficulty, used map[string]struct{}, rnd *rand.Rand) *QuestionPool {
	eligible := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := used[q.UsedKey(difficulty)]; ok {
			continue
		}
		eligible = append(eligible, q)
	}

	wasReset := false
	if len(eligible) == 0 && len(questions) > 0 && len(used) > 0 {
		eligible = append(eligible, questions...)
		wasReset = true
	}

	// In-place Fisher-Yates; rand.Shuffle swaps i with a uniform j in [0, i].
	rnd.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	return &QuestionPool{
		difficulty: difficulty,
		queue:      eligible,
		wasReset:   wasReset,
	}
}

// Next pops the front of the queue. The returned key must be persisted to
// the used-question store before the question is considered served.
func (p *QuestionPool) Next() (domain.Question, string, bool) {
	if len(p.queue) == 0 {
		return domain.Question{}, "", false
	}
	q := p.queue[0]
	p.queue = p.queue[1:]
	return q, q.UsedKey(p.difficulty), true
}

// Remaining reports how many questions are still queued.
func (p *QuestionPool) Remaining() int {
	return len(p.queue)
}

// WasReset reports whether exhaustion forced a fresh deal of the full tier.
func (p *QuestionPool) WasReset() bool {
	return p.wasReset
}
