package redis

import (
	"context"
	"testing"
	"time"

	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBundleRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		BundleLoader: memory.NewStaticBundleLoader(map[string]domain.QuizBundle{
			"quiz-1": sampleBundle(),
		}),
	}
	repo := NewBundleRepository(client, loader, time.Minute)

	questions, err := repo.GetQuestions(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if len(questions) != 1 || questions[0].AcceptedAnswers[0] != "서울" {
		t.Fatalf("unexpected questions %+v", questions)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call should hit the cache, loader not incremented.
	if _, err := repo.GetQuestions(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if !mr.Exists("quiz:quiz-1:questions") {
		t.Fatalf("expected questions cached in redis")
	}
}

func TestBundleRepositorySettingsRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := memory.NewStaticBundleLoader(map[string]domain.QuizBundle{
		"quiz-1": sampleBundle(),
	})
	repo := NewBundleRepository(newClient(mr), loader, time.Minute)

	settings, err := repo.GetSettings(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.TimeLimitSeconds != 15 || !settings.TimeLimitEnabled {
		t.Fatalf("unexpected settings %+v", settings)
	}

	cached, err := repo.GetSettings(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get settings cached: %v", err)
	}
	if cached != settings {
		t.Fatalf("cached settings differ: %+v vs %+v", cached, settings)
	}
}

type countingLoader struct {
	memory.BundleLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	l.calls++
	return l.BundleLoader.LoadQuestions(ctx, quizID)
}

func sampleBundle() domain.QuizBundle {
	return domain.QuizBundle{
		Info: domain.QuizInfo{ID: "quiz-1", Title: "수도 퀴즈", Mode: domain.ModeInput},
		Settings: domain.QuizSettings{
			Mode:             domain.ModeInput,
			TimeLimitSeconds: 15,
			TimeLimitEnabled: true,
		},
		Questions: []domain.Question{
			{
				Seq:             1,
				Prompt:          "대한민국의 수도는?",
				AcceptedAnswers: []string{"서울"},
				RequiredMatches: 1,
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
