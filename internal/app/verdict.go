package app

import (
	"math/rand"
	"time"

	"heresy-trivia-service/internal/domain"
)

// Verdict score weights. Offended councils dominate; the rest reward a
// consistent, brisk session. Policy knobs, not contracts.
const (
	weightCouncils    = 0.60
	weightConsistency = 0.20
	weightSpeed       = 0.10
	weightDuration    = 0.10

	// Category bands over the 0-100 numeric score. Half-open so every score
	// maps to exactly one category: [faithfulMin, +inf) faithful,
	// [doomedMax, faithfulMin) borderline, (-inf, doomedMax) doomed.
	faithfulMin = 70.0
	doomedMax   = 40.0
)

var verdictNarratives = map[domain.VerdictCategory]string{
	domain.VerdictFaithful:   "The councils find your doctrine sound. You may keep your pulpit.",
	domain.VerdictBorderline: "The councils are watching you closely. One more slip and the anathemas begin.",
	domain.VerdictDoomed:     "The councils have spoken: you are hereby declared a heretic of the first order.",
}

var verdictFlavor = map[domain.VerdictCategory][]string{
	domain.VerdictFaithful: {
		"Athanasius himself would nod approvingly.",
		"Not a single anathema applies to you. Remarkable.",
		"The Cappadocians send their regards.",
	},
	domain.VerdictBorderline: {
		"Somewhere, a synod is drafting a strongly worded letter.",
		"You have been assigned remedial catechism.",
		"The censers swing nervously in your direction.",
	},
	domain.VerdictDoomed: {
		"Even Arius thinks you went too far.",
		"Your effigy is already on the bonfire schedule.",
		"The anathemas are being read in alphabetical order. It will take a while.",
	},
}

// VerdictEngine maps a finished session onto one of three categories.
// Flavor lines are cosmetic; the category is a pure function of the score.
type VerdictEngine struct {
	rnd         *rand.Rand
	offendedCap int
}

func NewVerdictEngine(rnd *rand.Rand, offendedCap int) *VerdictEngine {
	if offendedCap <= 0 {
		offendedCap = 5
	}
	return &VerdictEngine{rnd: rnd, offendedCap: offendedCap}
}

// Calculate produces the final verdict from the full answer history.
func (e *VerdictEngine) Calculate(records []domain.AnsweredRecord, offended []domain.Council, elapsed time.Duration) domain.Verdict {
	score := 100 * (weightCouncils*e.councilComponent(offended) +
		weightConsistency*consistencyComponent(records) +
		weightSpeed*speedComponent(records) +
		weightDuration*durationComponent(records, elapsed))

	category := Categorize(score)
	return domain.Verdict{
		Category:         category,
		NumericScore:     score,
		OffendedCouncils: offended,
		Narrative:        verdictNarratives[category],
		FlavorLine:       e.flavor(category),
	}
}

// Categorize maps a numeric score onto its band. Total over all reals.
func Categorize(score float64) domain.VerdictCategory {
	switch {
	case score >= faithfulMin:
		return domain.VerdictFaithful
	case score >= doomedMax:
		return domain.VerdictBorderline
	default:
		return domain.VerdictDoomed
	}
}

// councilComponent is 1 with no offenses and falls linearly to 0 at the cap.
func (e *VerdictEngine) councilComponent(offended []domain.Council) float64 {
	frac := float64(len(offended)) / float64(e.offendedCap)
	return clamp01(1 - frac)
}

// consistencyComponent is the fraction of committed answers that were correct.
func consistencyComponent(records []domain.AnsweredRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	correct := 0
	for _, r := range records {
		if r.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(records))
}

// speedComponent rewards answering well inside each question's time window.
// Timeouts count as using the full window.
func speedComponent(records []domain.AnsweredRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		limit := time.Duration(r.Difficulty.DefaultTimeLimit()) * time.Second
		if r.TimedOut {
			sum += 1
			continue
		}
		sum += clamp01(float64(r.ResponseTime) / float64(limit))
	}
	return clamp01(1 - sum/float64(len(records)))
}

// durationComponent compares total elapsed time with the session's time budget.
func durationComponent(records []domain.AnsweredRecord, elapsed time.Duration) float64 {
	if len(records) == 0 {
		return 0
	}
	var budget time.Duration
	for _, r := range records {
		budget += time.Duration(r.Difficulty.DefaultTimeLimit()) * time.Second
	}
	if budget <= 0 {
		return 0
	}
	return clamp01(1 - float64(elapsed)/float64(budget))
}

func (e *VerdictEngine) flavor(category domain.VerdictCategory) string {
	pool := verdictFlavor[category]
	if len(pool) == 0 {
		return ""
	}
	return pool[e.rnd.Intn(len(pool))]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
