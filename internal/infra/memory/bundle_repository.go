package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"quiz-attempt-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BundleLoader fetches quiz content from a backing store (e.g., Postgres).
type BundleLoader interface {
	LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
	LoadSettings(ctx context.Context, quizID string) (domain.QuizSettings, error)
}

// BundleRepository caches question sets and settings with TTL to avoid
// hitting the backing store on every attempt.
type BundleRepository struct {
	loader BundleLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBundle
}

type cachedBundle struct {
	questions []domain.Question
	settings  domain.QuizSettings
	expiresAt time.Time
}

func NewBundleRepository(loader BundleLoader, ttl time.Duration) *BundleRepository {
	return &BundleRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBundle),
	}
}

func (r *BundleRepository) GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	entry, err := r.get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return entry.questions, nil
}

func (r *BundleRepository) GetSettings(ctx context.Context, quizID string) (domain.QuizSettings, error) {
	entry, err := r.get(ctx, quizID)
	if err != nil {
		return domain.QuizSettings{}, err
	}
	return entry.settings, nil
}

func (r *BundleRepository) get(ctx context.Context, quizID string) (cachedBundle, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry, nil
		}
		r.mu.RUnlock()

		questions, err := r.loader.LoadQuestions(ctx, quizID)
		if err != nil {
			return cachedBundle{}, err
		}
		settings, err := r.loader.LoadSettings(ctx, quizID)
		if err != nil {
			return cachedBundle{}, err
		}

		entry := cachedBundle{
			questions: questions,
			settings:  settings,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Lock()
		r.cache[quizID] = entry
		r.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return cachedBundle{}, err
	}
	return result.(cachedBundle), nil
}

func (r *BundleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBundleLoader serves bundles from an in-memory map (useful for
// tests/demos and for running without Postgres).
type StaticBundleLoader struct {
	bundles map[string]domain.QuizBundle
}

func NewStaticBundleLoader(bundles map[string]domain.QuizBundle) *StaticBundleLoader {
	return &StaticBundleLoader{bundles: bundles}
}

func (l *StaticBundleLoader) LoadQuestions(_ context.Context, quizID string) ([]domain.Question, error) {
	if bundle, ok := l.bundles[quizID]; ok {
		return bundle.Questions, nil
	}
	return nil, domain.ErrQuizNotFound
}

func (l *StaticBundleLoader) LoadSettings(_ context.Context, quizID string) (domain.QuizSettings, error) {
	if bundle, ok := l.bundles[quizID]; ok {
		return bundle.Settings, nil
	}
	return domain.QuizSettings{}, domain.ErrQuizNotFound
}

// ListQuizzes returns the catalog entries sorted by ID for stable output.
func (l *StaticBundleLoader) ListQuizzes(_ context.Context) ([]domain.QuizInfo, error) {
	infos := make([]domain.QuizInfo, 0, len(l.bundles))
	for _, bundle := range l.bundles {
		infos = append(infos, bundle.Info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}
