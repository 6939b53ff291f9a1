package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/infra/memory"
)

func TestListQuizzes(t *testing.T) {
	loader := memory.NewStaticBundleLoader(sampleBundles())
	handler := NewCatalogHandler(loader, memory.NewAttemptRegistry())

	rec := httptest.NewRecorder()
	handler.ListQuizzes(rec, httptest.NewRequest("GET", "/api/quizzes", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var infos []domain.QuizInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "quiz-1" || infos[0].Title != "수도 퀴즈" {
		t.Fatalf("unexpected catalog %+v", infos)
	}
}

func TestListQuizzesRejectsPost(t *testing.T) {
	handler := NewCatalogHandler(memory.NewStaticBundleLoader(nil), memory.NewAttemptRegistry())
	rec := httptest.NewRecorder()
	handler.ListQuizzes(rec, httptest.NewRequest("POST", "/api/quizzes", nil))
	if rec.Code != 405 {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestActiveAttempts(t *testing.T) {
	registry := memory.NewAttemptRegistry()
	registry.Register("a1", nil)
	handler := NewCatalogHandler(memory.NewStaticBundleLoader(nil), registry)

	rec := httptest.NewRecorder()
	handler.ActiveAttempts(rec, httptest.NewRequest("GET", "/api/attempts/active", nil))

	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["active"] != 1 {
		t.Fatalf("expected 1 active attempt, got %+v", body)
	}
}
