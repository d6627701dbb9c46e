package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"kviz/internal/domain"

	"github.com/google/uuid"
)

// DefaultLoadTimeout bounds a question source call.
const DefaultLoadTimeout = 5 * time.Second

// SessionRepository abstracts where live sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionSource loads questions for a category. Returning fewer than count is fine.
type QuestionSource interface {
	Load(ctx context.Context, categoryID string, count int) ([]domain.Question, error)
}

// ServiceOption customizes a QuizService.
type ServiceOption func(*QuizService)

// WithLoadTimeout overrides DefaultLoadTimeout.
func WithLoadTimeout(d time.Duration) ServiceOption {
	return func(s *QuizService) { s.timeout = d }
}

// WithClock is for deterministic session start times in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *QuizService) { s.now = now }
}

// WithRand seeds question shuffling.
func WithRand(rnd *rand.Rand) ServiceOption {
	return func(s *QuizService) { s.rnd = rnd }
}

// WithSessionOptions applies opts to every session the service starts.
func WithSessionOptions(opts ...SessionOption) ServiceOption {
	return func(s *QuizService) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

// QuizService contains the session use cases.
type QuizService struct {
	sessions    SessionRepository
	source      QuestionSource
	fallback    []domain.Question
	timeout     time.Duration
	now         func() time.Time
	sessionOpts []SessionOption

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewQuizService wires a session store and question source. fallback is played,
// shuffled, whenever the source fails or has nothing for the category.
func NewQuizService(store SessionRepository, source QuestionSource, fallback []domain.Question, opts ...ServiceOption) *QuizService {
	s := &QuizService{
		sessions: store,
		source:   source,
		fallback: fallback,
		timeout:  DefaultLoadTimeout,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession loads the question sequence for cfg and presents its first question.
func (s *QuizService) StartSession(ctx context.Context, cfg domain.SessionConfig, opts ...SessionOption) (*Session, error) {
	questions := s.questionsFor(ctx, cfg)
	if len(questions) == 0 {
		return nil, domain.ErrBankEmpty
	}

	sessionOpts := append(append([]SessionOption(nil), s.sessionOpts...), opts...)
	session := NewSession(uuid.NewString(), cfg, questions, s.now(), sessionOpts...)
	s.sessions.Save(session)
	log.Printf("[QuizService] session %s started: category=%s questions=%d/%d per-question=%s",
		session.ID(), cfg.Category, len(questions), cfg.TotalQuestions, cfg.PerQuestion)
	return session, nil
}

// Get returns a live session.
func (s *QuizService) Get(_ context.Context, sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Summary returns the final score of a finished session.
func (s *QuizService) Summary(ctx context.Context, sessionID string) (domain.Summary, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.Summary{}, err
	}
	if !session.Completed() {
		return domain.Summary{}, domain.ErrSessionNotFinished
	}
	return session.Summary(), nil
}

// Discard stops a session and forgets it, e.g. when the player goes back to the
// category picker.
func (s *QuizService) Discard(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Abandon()
	s.sessions.Delete(sessionID)
}

func (s *QuizService) questionsFor(ctx context.Context, cfg domain.SessionConfig) []domain.Question {
	if s.source != nil {
		loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
		loaded, err := s.source.Load(loadCtx, cfg.Category, cfg.TotalQuestions)
		cancel()

		playable := playableQuestions(loaded, cfg.TotalQuestions)
		switch {
		case err != nil:
			log.Printf("[QuizService] question source failed for %q, using sample set: %v", cfg.Category, err)
		case len(playable) == 0:
			log.Printf("[QuizService] question source empty for %q, using sample set", cfg.Category)
		default:
			if len(playable) < cfg.TotalQuestions {
				log.Printf("[QuizService] only %d of %d questions available for %q", len(playable), cfg.TotalQuestions, cfg.Category)
			}
			return playable
		}
	}

	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return domain.Pick(s.fallback, cfg.TotalQuestions, s.rnd)
}

// playableQuestions keeps valid questions with unique IDs, in source order, up to count.
func playableQuestions(loaded []domain.Question, count int) []domain.Question {
	out := make([]domain.Question, 0, min(count, len(loaded)))
	seen := make(map[string]struct{}, len(loaded))
	for _, q := range loaded {
		if len(out) == count {
			break
		}
		if q.Validate() != nil {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}
