package app

import (
	"sort"
	"time"

	"heresy-trivia-service/internal/domain"
)

// LedgerConfig tunes how answers translate into council offense.
type LedgerConfig struct {
	// DefaultTolerance is the offense score at which a council takes offense.
	DefaultTolerance float64
	// GoodwillCredit is subtracted from a council's score on a correct
	// answer, floored at zero.
	GoodwillCredit float64
	// TimeoutWeight scales a question's heresy weight when the player runs
	// out of time instead of answering wrongly.
	TimeoutWeight float64
}

// DefaultLedgerConfig mirrors the original game's tuning.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		DefaultTolerance: 3,
		GoodwillCredit:   0.5,
		TimeoutWeight:    0.5,
	}
}

// CouncilLedger tallies offense per council and reports threshold crossings
// exactly once. It is not safe for concurrent use; the owning session
// serializes access.
type CouncilLedger struct {
	cfg      LedgerConfig
	now      func() time.Time
	councils map[string]*domain.Council
	order    []string
}

// NewCouncilLedger seeds one bucket per known council name. Questions may
// reference councils outside the roster; those buckets are created lazily.
func NewCouncilLedger(names []string, cfg LedgerConfig, now func() time.Time) *CouncilLedger {
	l := &CouncilLedger{
		cfg:      cfg,
		now:      now,
		councils: make(map[string]*domain.Council, len(names)),
	}
	for _, name := range names {
		l.ensure(name)
	}
	return l
}

func (l *CouncilLedger) ensure(name string) *domain.Council {
	if c, ok := l.councils[name]; ok {
		return c
	}
	c := &domain.Council{
		Name:               name,
		ToleranceThreshold: l.cfg.DefaultTolerance,
	}
	l.councils[name] = c
	l.order = append(l.order, name)
	return c
}

// RecordAnswer applies the score delta for one answered question and returns
// the councils newly pushed past their tolerance by this call, plus the
// signed delta applied. A question without a council is a no-op. A council
// already offended is never reported again.
func (l *CouncilLedger) RecordAnswer(q domain.Question, correct, timedOut bool) ([]domain.Council, float64) {
	if q.Council == "" {
		return nil, 0
	}
	c := l.ensure(q.Council)

	var delta float64
	switch {
	case correct:
		delta = -l.cfg.GoodwillCredit
	case timedOut:
		delta = q.Weight() * l.cfg.TimeoutWeight
	default:
		delta = q.Weight()
	}

	c.OffenseScore += delta
	if c.OffenseScore < 0 {
		c.OffenseScore = 0
	}

	var newly []domain.Council
	if !c.Offended && c.OffenseScore >= c.ToleranceThreshold {
		c.Offended = true
		c.OffendedAt = l.now()
		newly = append(newly, *c)
	}
	return newly, delta
}

// Standing reports how many councils are offended out of the total tracked.
func (l *CouncilLedger) Standing() (offended, total int) {
	for _, c := range l.councils {
		if c.Offended {
			offended++
		}
	}
	return offended, len(l.councils)
}

// AllOffended returns the offended councils ordered by when they first took
// offense, name as tie-break. Calling it twice without an intervening
// RecordAnswer yields identical results.
func (l *CouncilLedger) AllOffended() []domain.Council {
	var out []domain.Council
	for _, name := range l.order {
		if c := l.councils[name]; c.Offended {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OffendedAt.Equal(out[j].OffendedAt) {
			return out[i].OffendedAt.Before(out[j].OffendedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Reset zeroes every bucket for a fresh session.
func (l *CouncilLedger) Reset() {
	for _, c := range l.councils {
		c.OffenseScore = 0
		c.Offended = false
		c.OffendedAt = time.Time{}
	}
}
