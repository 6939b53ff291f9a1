package postgres

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"

	"quiz-attempt-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BundleStore loads quiz bundles from Postgres.
type BundleStore struct {
	pool *pgxpool.Pool
}

func NewBundleStore(pool *pgxpool.Pool) *BundleStore {
	return &BundleStore{pool: pool}
}

// LoadQuestions returns the quiz's questions in sequence order. The
// stored answer string is pipe-separated; it is split here so the rest
// of the service only ever sees the answer list.
func (s *BundleStore) LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT seq, prompt, answers, required_matches, strict_match,
		       COALESCE(explanation, ''), COALESCE(media_url, '')
		FROM quiz_questions
		WHERE quiz_id = $1
		ORDER BY seq ASC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var answers string
		if err := rows.Scan(&q.Seq, &q.Prompt, &answers, &q.RequiredMatches, &q.StrictMatch, &q.Explanation, &q.MediaURL); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.AcceptedAnswers = domain.ParseAnswerList(answers)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		if err := s.quizExists(ctx, quizID); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// LoadSettings returns the quiz's play settings.
func (s *BundleStore) LoadSettings(ctx context.Context, quizID string) (domain.QuizSettings, error) {
	var settings domain.QuizSettings
	err := s.pool.QueryRow(ctx, `
		SELECT quiz_mode, time_limit_seconds, time_limit_enabled
		FROM quiz_bundles
		WHERE id = $1`, quizID).
		Scan(&settings.Mode, &settings.TimeLimitSeconds, &settings.TimeLimitEnabled)
	if err == pgx.ErrNoRows {
		return domain.QuizSettings{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// ListQuizzes returns the catalog, newest bundle first. Thumbnails are
// converted to data URLs so clients can render them directly.
func (s *BundleStore) ListQuizzes(ctx context.Context) ([]domain.QuizInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, COALESCE(creator, ''), COALESCE(description, ''),
		       quiz_mode, thumbnail, thumbnail_type
		FROM quiz_bundles
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var infos []domain.QuizInfo
	for rows.Next() {
		var info domain.QuizInfo
		var thumbnail []byte
		var thumbnailType sql.NullString
		if err := rows.Scan(&info.ID, &info.Title, &info.Creator, &info.Description, &info.Mode, &thumbnail, &thumbnailType); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		if len(thumbnail) > 0 && thumbnailType.Valid {
			info.Thumbnail = fmt.Sprintf("data:%s;base64,%s", thumbnailType.String, base64.StdEncoding.EncodeToString(thumbnail))
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return infos, nil
}

func (s *BundleStore) quizExists(ctx context.Context, quizID string) error {
	var one int
	err := s.pool.QueryRow(ctx, `SELECT 1 FROM quiz_bundles WHERE id = $1`, quizID).Scan(&one)
	if err == pgx.ErrNoRows {
		return domain.ErrQuizNotFound
	}
	if err != nil {
		return fmt.Errorf("check quiz: %w", err)
	}
	return nil
}
