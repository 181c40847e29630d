package domain

import "fmt"

// ValidateQuestion checks the required fields of a single question record.
func ValidateQuestion(q Question) error {
	if q.ID <= 0 {
		return fmt.Errorf("missing or invalid id")
	}
	if q.Text == "" {
		return fmt.Errorf("question %d: missing text", q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %d: needs at least two options", q.ID)
	}
	if q.Answer == "" {
		return fmt.Errorf("question %d: missing answer", q.ID)
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return fmt.Errorf("question %d: answer not among options", q.ID)
}

// NormalizeSet drops malformed records and fills in per-tier default time
// limits. A bad record costs only itself, never the whole set. The returned
// errors describe what was dropped.
func NormalizeSet(s QuestionSet) (QuestionSet, []error) {
	var dropped []error
	normalize := func(tier []Question, d Difficulty) []Question {
		kept := make([]Question, 0, len(tier))
		for _, q := range tier {
			if err := ValidateQuestion(q); err != nil {
				dropped = append(dropped, fmt.Errorf("%s: %v", d, err))
				continue
			}
			if q.TimeLimitSeconds <= 0 {
				q.TimeLimitSeconds = d.DefaultTimeLimit()
			}
			kept = append(kept, q)
		}
		return kept
	}
	out := QuestionSet{
		Easy:   normalize(s.Easy, DifficultyEasy),
		Medium: normalize(s.Medium, DifficultyMedium),
		Hard:   normalize(s.Hard, DifficultyHard),
	}
	return out, dropped
}
