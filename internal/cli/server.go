package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-attempt-service/internal/attempt"
	"quiz-attempt-service/internal/config"
	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/infra/memory"
	pgstore "quiz-attempt-service/internal/infra/postgres"
	redisinfra "quiz-attempt-service/internal/infra/redis"
	transport "quiz-attempt-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz attempt server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	staticLoader := memory.NewStaticBundleLoader(sampleBundles())
	var loader memory.BundleLoader = staticLoader
	var catalog transport.CatalogRepository = staticLoader
	if pool != nil {
		store := pgstore.NewBundleStore(pool)
		loader = store
		catalog = store
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var questions attempt.QuestionRepository
	var settings attempt.SettingsRepository
	if redisClient != nil {
		repo := redisinfra.NewBundleRepository(redisClient, loader, quizTTL)
		questions, settings = repo, repo
	} else {
		repo := memory.NewBundleRepository(loader, quizTTL)
		questions, settings = repo, repo
	}

	var registry attempt.Registry
	if redisClient != nil {
		registry = redisinfra.NewAttemptRegistry(redisClient, redisTTL)
	} else {
		registry = memory.NewAttemptRegistry()
	}

	service := attempt.NewService(questions, settings)
	wsHandler := transport.NewWSHandler(service, registry)
	catalogHandler := transport.NewCatalogHandler(catalog, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/quizzes", catalogHandler.ListQuizzes)
	mux.HandleFunc("/api/attempts/active", catalogHandler.ActiveAttempts)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz attempt service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleBundles provides a minimal demo catalog; configure Postgres to
// serve real quizzes.
func sampleBundles() map[string]domain.QuizBundle {
	return map[string]domain.QuizBundle{
		"capitals": {
			Info: domain.QuizInfo{
				ID:          "capitals",
				Title:       "세계 수도 퀴즈",
				Creator:     "demo",
				Description: "나라별 수도를 맞혀보세요",
				Mode:        domain.ModeInput,
			},
			Settings: domain.QuizSettings{
				Mode:             domain.ModeInput,
				TimeLimitSeconds: 20,
				TimeLimitEnabled: true,
			},
			Questions: []domain.Question{
				{
					Seq:             1,
					Prompt:          "대한민국의 수도는?",
					AcceptedAnswers: []string{"서울", "서울특별시"},
					RequiredMatches: 1,
				},
				{
					Seq:             2,
					Prompt:          "과일을 두 가지 말해보세요",
					AcceptedAnswers: []string{"사과", "바나나", "포도"},
					RequiredMatches: 2,
					Explanation:     "사과, 바나나, 포도 중 두 가지면 정답입니다",
				},
			},
		},
	}
}
