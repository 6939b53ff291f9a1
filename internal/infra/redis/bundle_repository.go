package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BundleRepository caches quiz content in Redis and falls back to a
// loader on cache miss. Content is stored as:
//
//	SET quiz:{quizID}:questions {json}
//	SET quiz:{quizID}:settings  {json}
type BundleRepository struct {
	client *redis.Client
	loader memory.BundleLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBundleRepository(client *redis.Client, loader memory.BundleLoader, ttl time.Duration) *BundleRepository {
	return &BundleRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BundleRepository) GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	key := r.questionsKey(quizID)
	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var questions []domain.Question
		if err := json.Unmarshal(raw, &questions); err == nil {
			return questions, nil
		}
		// corrupt cache entry, refill below
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var questions []domain.Question
			if err := json.Unmarshal(raw, &questions); err == nil {
				return questions, nil
			}
		}

		questions, err := r.loader.LoadQuestions(ctx, quizID)
		if err != nil {
			return nil, err
		}
		r.fill(ctx, key, questions)
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *BundleRepository) GetSettings(ctx context.Context, quizID string) (domain.QuizSettings, error) {
	key := r.settingsKey(quizID)
	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var settings domain.QuizSettings
		if err := json.Unmarshal(raw, &settings); err == nil {
			return settings, nil
		}
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var settings domain.QuizSettings
			if err := json.Unmarshal(raw, &settings); err == nil {
				return settings, nil
			}
		}

		settings, err := r.loader.LoadSettings(ctx, quizID)
		if err != nil {
			return domain.QuizSettings{}, err
		}
		r.fill(ctx, key, settings)
		return settings, nil
	})
	if err != nil {
		return domain.QuizSettings{}, err
	}
	return result.(domain.QuizSettings), nil
}

// fill writes a cache entry best-effort; a failed write only costs a
// reload next time.
func (r *BundleRepository) fill(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
}

func (r *BundleRepository) questionsKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:questions", quizID)
}

func (r *BundleRepository) settingsKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:settings", quizID)
}

func (r *BundleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
