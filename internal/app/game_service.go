package app

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"heresy-trivia-service/internal/domain"
)

// SessionRepository abstracts how live game sessions are tracked
// (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(session *GameSession)
	Get(sessionID string) (*GameSession, bool)
	Delete(sessionID string)
}

// QuestionSetRepository loads question content (from cache/backing store).
type QuestionSetRepository interface {
	GetQuestionSet(ctx context.Context) (domain.QuestionSet, error)
}

// UsedQuestionStore persists which questions a player has already been
// served, across sessions and restarts. Implementations must treat failures
// as non-fatal; the game degrades to in-session memory only.
type UsedQuestionStore interface {
	Load(ctx context.Context, playerID string, d domain.Difficulty) (map[string]struct{}, error)
	Add(ctx context.Context, playerID string, d domain.Difficulty, key string) error
	Clear(ctx context.Context, playerID string, d domain.Difficulty) error
}

// GameConfig tunes session behaviour.
type GameConfig struct {
	// OffendedCap ends the session early once this many councils are offended.
	OffendedCap int
	Ledger      LedgerConfig
}

// DefaultGameConfig mirrors the original game's rules.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		OffendedCap: 5,
		Ledger:      DefaultLedgerConfig(),
	}
}

// GameService contains the game use cases: start a session, take answers,
// stream events, tear down.
type GameService struct {
	sessions SessionRepository
	sets     QuestionSetRepository
	used     UsedQuestionStore
	cfg      GameConfig
	log      zerolog.Logger

	newID   func() string
	now     func() time.Time
	newRand func() *rand.Rand
}

func NewGameService(sessions SessionRepository, sets QuestionSetRepository, used UsedQuestionStore, cfg GameConfig, log zerolog.Logger) *GameService {
	if cfg.OffendedCap <= 0 {
		cfg.OffendedCap = DefaultGameConfig().OffendedCap
	}
	if cfg.Ledger.DefaultTolerance <= 0 {
		cfg.Ledger = DefaultLedgerConfig()
	}
	return &GameService{
		sessions: sessions,
		sets:     sets,
		used:     used,
		cfg:      cfg,
		log:      log,
		newID:    uuid.NewString,
		now:      time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Start creates a session for one player at the given difficulty and poses
// the first question. Question-content load failures fall back to the
// built-in starter set; used-set store failures degrade to a blank set.
// Neither is fatal to the player.
func (s *GameService) Start(ctx context.Context, playerID, displayName string, difficulty domain.Difficulty) (*GameSession, error) {
	set, err := s.sets.GetQuestionSet(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("question set load failed, using starter set")
		set = domain.StarterQuestionSet()
	}
	set, dropped := domain.NormalizeSet(set)
	for _, dropErr := range dropped {
		s.log.Warn().Msgf("dropping malformed question: %v", dropErr)
	}

	questions := set.ForDifficulty(difficulty)
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}

	usedKeys, err := s.used.Load(ctx, playerID, difficulty)
	if err != nil {
		s.log.Warn().Err(err).Str("player", playerID).Msg("used-question store unavailable, continuing without history")
		usedKeys = nil
	}

	rnd := s.newRand()
	pool := NewQuestionPool(questions, difficulty, usedKeys, rnd)
	if pool.WasReset() {
		if err := s.used.Clear(ctx, playerID, difficulty); err != nil {
			s.log.Warn().Err(err).Str("player", playerID).Msg("clearing exhausted used-question set failed")
		}
	}

	session := newGameSession(sessionParams{
		ID:          s.newID(),
		PlayerID:    playerID,
		DisplayName: displayName,
		Difficulty:  difficulty,
		Pool:        pool,
		Ledger:      NewCouncilLedger(set.Councils(), s.cfg.Ledger, s.now),
		Engine:      NewVerdictEngine(rnd, s.cfg.OffendedCap),
		OffendedCap: s.cfg.OffendedCap,
		OnUsed:      s.usedWriter(playerID, difficulty),
		Now:         s.now,
	})

	s.sessions.Put(session)
	session.Begin()
	return session, nil
}

// usedWriter persists each served question key immediately, one write per
// deal, so an abrupt shutdown risks at most one repeat.
func (s *GameService) usedWriter(playerID string, difficulty domain.Difficulty) func(key string) {
	return func(key string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.used.Add(ctx, playerID, difficulty, key); err != nil {
			s.log.Warn().Err(err).Str("player", playerID).Str("key", key).Msg("persisting used question failed")
		}
	}
}

// SubmitAnswer records the player's choice for the active question.
func (s *GameService) SubmitAnswer(_ context.Context, sessionID string, questionID int, answer string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Answer(questionID, answer)
}

// Subscribe returns a channel of session events for the render layer.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, sessionID string) (<-chan Event, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave tears the session down when the player disconnects.
func (s *GameService) Leave(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(sessionID)
}
