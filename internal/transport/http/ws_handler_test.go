package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-attempt-service/internal/attempt"
	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketAttemptFlow(t *testing.T) {
	server, conn := dialTestServer(t, "quiz-1")
	defer server.Close()
	defer conn.Close()

	writeMsg(conn, t, "start", nil)
	_, payload := readNext(conn, t, "question")
	if payload["prompt"] != "대한민국의 수도는?" || payload["index"].(float64) != 0 {
		t.Fatalf("unexpected first question %+v", payload)
	}

	writeMsg(conn, t, "answer", map[string]any{"text": "서울"})
	_, payload = readNext(conn, t, "graded")
	if payload["correct"] != true {
		t.Fatalf("expected correct answer, got %+v", payload)
	}

	writeMsg(conn, t, "next", nil)
	_, payload = readNext(conn, t, "question")
	if payload["index"].(float64) != 1 {
		t.Fatalf("expected second question, got %+v", payload)
	}

	writeMsg(conn, t, "answer", map[string]any{"text": "오답"})
	_, payload = readNext(conn, t, "graded")
	if payload["correct"] != false {
		t.Fatalf("expected wrong answer, got %+v", payload)
	}

	writeMsg(conn, t, "next", nil)
	_, payload = readNext(conn, t, "finished")
	if payload["score"].(float64) != 1 || payload["total"].(float64) != 2 || payload["percentage"].(float64) != 50 {
		t.Fatalf("expected 1/2 = 50%%, got %+v", payload)
	}
}

func TestWebSocketRejectsUnknownQuiz(t *testing.T) {
	server, conn := dialTestServer(t, "no-such-quiz")
	defer server.Close()
	defer conn.Close()

	msgType, payload := readNext(conn, t, "")
	if msgType != "error" {
		t.Fatalf("expected error message, got %s %+v", msgType, payload)
	}
}

func TestWebSocketOutOfOrderOperations(t *testing.T) {
	server, conn := dialTestServer(t, "quiz-1")
	defer server.Close()
	defer conn.Close()

	// Answer before start must yield an error, not a grade.
	writeMsg(conn, t, "answer", map[string]any{"text": "서울"})
	msgType, _ := readNext(conn, t, "")
	if msgType != "error" {
		t.Fatalf("expected error before start, got %s", msgType)
	}

	writeMsg(conn, t, "start", nil)
	readNext(conn, t, "question")

	writeMsg(conn, t, "next", nil)
	msgType, _ = readNext(conn, t, "")
	if msgType != "error" {
		t.Fatalf("expected error advancing before grading, got %s", msgType)
	}
}

func dialTestServer(t *testing.T, quizID string) (*httptest.Server, *websocket.Conn) {
	t.Helper()
	loader := memory.NewStaticBundleLoader(sampleBundles())
	repo := memory.NewBundleRepository(loader, time.Minute)
	service := attempt.NewService(repo, repo)
	registry := memory.NewAttemptRegistry()
	wsHandler := NewWSHandler(service, registry)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)

	u := "ws" + server.URL[len("http"):] + "/ws?quizId=" + quizID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial: %v", err)
	}
	return server, conn
}

func writeMsg(conn *websocket.Conn, t *testing.T, msgType string, payload map[string]any) {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%+v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func sampleBundles() map[string]domain.QuizBundle {
	return map[string]domain.QuizBundle{
		"quiz-1": {
			Info: domain.QuizInfo{ID: "quiz-1", Title: "수도 퀴즈", Mode: domain.ModeInput},
			Settings: domain.QuizSettings{
				Mode:             domain.ModeInput,
				TimeLimitSeconds: 20,
				TimeLimitEnabled: false,
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
					Prompt:          "일본의 수도는?",
					AcceptedAnswers: []string{"도쿄", "동경"},
					RequiredMatches: 1,
				},
			},
		},
	}
}
