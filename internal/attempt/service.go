package attempt

import (
	"context"
	"log"
	"strings"

	"quiz-attempt-service/internal/domain"
)

// QuestionRepository loads the ordered question set for a quiz
// (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
}

// SettingsRepository loads the play settings for a quiz.
type SettingsRepository interface {
	GetSettings(ctx context.Context, quizID string) (domain.QuizSettings, error)
}

// Registry tracks live attempt engines (in-memory, Redis-marked, etc).
type Registry interface {
	Register(attemptID string, e *Engine)
	Get(attemptID string) (*Engine, bool)
	Remove(attemptID string)
	Active() int
}

// Service builds attempt engines from stored quiz content.
type Service struct {
	questions QuestionRepository
	settings  SettingsRepository
}

func NewService(questions QuestionRepository, settings SettingsRepository) *Service {
	return &Service{questions: questions, settings: settings}
}

// StartAttempt loads quiz content and returns an idle engine the caller
// drives via Start. Questions missing a prompt or any usable accepted
// answer are dropped up front; a quiz with nothing playable left fails
// with ErrNoQuestions. A settings load failure is not fatal: the
// documented defaults are substituted instead.
func (s *Service) StartAttempt(ctx context.Context, quizID string, sink Sink) (*Engine, error) {
	questions, err := s.questions.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	playable := filterPlayable(questions)
	if len(playable) == 0 {
		return nil, domain.ErrNoQuestions
	}

	settings, err := s.settings.GetSettings(ctx, quizID)
	if err != nil {
		log.Printf("settings for quiz %s unavailable, using defaults: %v", quizID, err)
		settings = domain.DefaultSettings()
	}

	return NewEngine(playable, settings, sink)
}

// filterPlayable drops malformed questions deterministically, keeping the
// survivors in their original order.
func filterPlayable(questions []domain.Question) []domain.Question {
	playable := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Prompt) == "" {
			continue
		}
		if !hasUsableAnswer(q.AcceptedAnswers) {
			continue
		}
		playable = append(playable, q)
	}
	return playable
}

func hasUsableAnswer(answers []string) bool {
	for _, a := range answers {
		if Normalize(a) != "" {
			return true
		}
	}
	return false
}
