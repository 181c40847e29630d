package domain

import (
	"fmt"
	"time"
)

// Difficulty selects one of the three question tiers.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a client-supplied difficulty string.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch Difficulty(raw) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, raw)
}

// DefaultTimeLimit returns the per-tier answer window applied when a
// question record carries no explicit timeLimit.
func (d Difficulty) DefaultTimeLimit() int {
	switch d {
	case DifficultyMedium:
		return 25
	case DifficultyHard:
		return 20
	default:
		return 30
	}
}

// Question models a single multiple-choice (or two-option binary) question.
// JSON tags match the questions.json document layout.
type Question struct {
	ID               int      `json:"id"`
	Text             string   `json:"text"`
	Options          []string `json:"options"`
	Answer           string   `json:"answer"`
	Council          string   `json:"council,omitempty"`
	HeresyPoints     float64  `json:"heresyPoints"`
	TimeLimitSeconds int      `json:"timeLimit"`
}

// UsedKey is the persisted non-repeat key for this question within a tier.
func (q Question) UsedKey(d Difficulty) string {
	return fmt.Sprintf("%s_%d", d, q.ID)
}

// IsBinary reports whether the question is a two-option variant.
func (q Question) IsBinary() bool {
	return len(q.Options) == 2
}

// Weight returns the heresy weight, defaulting to 1 when the record omits it.
func (q Question) Weight() float64 {
	if q.HeresyPoints <= 0 {
		return 1
	}
	return q.HeresyPoints
}

// QuestionSet groups questions by difficulty, mirroring questions.json.
type QuestionSet struct {
	Easy   []Question `json:"easy"`
	Medium []Question `json:"medium"`
	Hard   []Question `json:"hard"`
}

// ForDifficulty returns the tier slice for d.
func (s QuestionSet) ForDifficulty(d Difficulty) []Question {
	switch d {
	case DifficultyMedium:
		return s.Medium
	case DifficultyHard:
		return s.Hard
	default:
		return s.Easy
	}
}

// Councils lists the distinct council names referenced anywhere in the set,
// in first-seen order.
func (s QuestionSet) Councils() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, tier := range [][]Question{s.Easy, s.Medium, s.Hard} {
		for _, q := range tier {
			if q.Council == "" {
				continue
			}
			if _, ok := seen[q.Council]; ok {
				continue
			}
			seen[q.Council] = struct{}{}
			names = append(names, q.Council)
		}
	}
	return names
}

// Council is a scoring bucket representing a historical authority that
// accumulates offense as the player answers its questions wrongly.
type Council struct {
	Name               string    `json:"name"`
	ToleranceThreshold float64   `json:"toleranceThreshold"`
	OffenseScore       float64   `json:"offenseScore"`
	Offended           bool      `json:"offended"`
	OffendedAt         time.Time `json:"offendedAt,omitempty"`
}

// AnsweredRecord captures one committed answer. Records are append-only and
// owned by the session that produced them.
type AnsweredRecord struct {
	QuestionID   int
	Difficulty   Difficulty
	ChosenAnswer string
	Correct      bool
	TimedOut     bool
	AnsweredAt   time.Time
	ResponseTime time.Duration
}

// VerdictCategory is one of the three terminal outcomes.
type VerdictCategory string

const (
	VerdictFaithful   VerdictCategory = "faithful"
	VerdictBorderline VerdictCategory = "borderline"
	VerdictDoomed     VerdictCategory = "doomed"
)

// Verdict is the final outcome of a session. Created once, never mutated.
type Verdict struct {
	Category         VerdictCategory `json:"category"`
	NumericScore     float64         `json:"numericScore"`
	OffendedCouncils []Council       `json:"offendedCouncils"`
	Narrative        string          `json:"narrative"`
	FlavorLine       string          `json:"flavorLine"`
}
