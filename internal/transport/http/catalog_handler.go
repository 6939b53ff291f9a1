package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"quiz-attempt-service/internal/attempt"
	"quiz-attempt-service/internal/domain"
)

// CatalogRepository lists quiz bundles for the selection screen.
type CatalogRepository interface {
	ListQuizzes(ctx context.Context) ([]domain.QuizInfo, error)
}

// CatalogHandler serves the quiz catalog and attempt stats as JSON.
type CatalogHandler struct {
	catalog  CatalogRepository
	registry attempt.Registry
}

func NewCatalogHandler(catalog CatalogRepository, registry attempt.Registry) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, registry: registry}
}

// ListQuizzes handles GET /api/quizzes.
func (h *CatalogHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	infos, err := h.catalog.ListQuizzes(r.Context())
	if err != nil {
		log.Printf("list quizzes failed: %v", err)
		http.Error(w, "failed to load quiz list", http.StatusInternalServerError)
		return
	}
	if infos == nil {
		infos = []domain.QuizInfo{}
	}
	writeJSON(w, infos)
}

// ActiveAttempts handles GET /api/attempts/active.
func (h *CatalogHandler) ActiveAttempts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]int{"active": h.registry.Active()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}
