package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"

	"quiz-attempt-service/internal/attempt"
	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/media"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *attempt.Service
	registry attempt.Registry
	upgrader websocket.Upgrader
}

func NewWSHandler(service *attempt.Service, registry attempt.Registry) *WSHandler {
	return &WSHandler{
		service:  service,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Text string `json:"text"`
}

type questionPayload struct {
	Index            int    `json:"index"`
	Total            int    `json:"total"`
	Prompt           string `json:"prompt"`
	MediaURL         string `json:"mediaUrl,omitempty"`
	MediaKind        string `json:"mediaKind,omitempty"`
	Mode             string `json:"mode"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
	Timed            bool   `json:"timed"`
}

type tickPayload struct {
	Remaining int `json:"remaining"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// wsSink bridges engine callbacks onto the connection's send channel.
// The engine invokes these with its lock held, so ticks are dropped
// rather than letting a slow client stall the countdown.
type wsSink struct {
	send     chan outboundMessage[any]
	settings domain.QuizSettings
}

func (s *wsSink) OnQuestionShown(q domain.Question, index, total int) {
	payload := questionPayload{
		Index:            index,
		Total:            total,
		Prompt:           q.Prompt,
		Mode:             s.settings.Mode,
		TimeLimitSeconds: s.settings.TimeLimitSeconds,
		Timed:            s.settings.Mode == domain.ModeInput && s.settings.TimeLimitEnabled,
	}
	if q.MediaURL != "" {
		payload.MediaURL = q.MediaURL
		payload.MediaKind = string(media.Classify(q.MediaURL))
	}
	s.send <- outboundMessage[any]{Type: "question", Payload: payload}
}

func (s *wsSink) OnTick(remaining int) {
	select {
	case s.send <- outboundMessage[any]{Type: "tick", Payload: tickPayload{Remaining: remaining}}:
	default:
		// ticks are advisory; never block the engine on a slow socket
	}
}

func (s *wsSink) OnGraded(outcome domain.GradeOutcome) {
	s.send <- outboundMessage[any]{Type: "graded", Payload: outcome}
}

func (s *wsSink) OnFinished(result domain.AttemptResult) {
	s.send <- outboundMessage[any]{Type: "finished", Payload: result}
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz
// attempt per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	sink := &wsSink{send: send}
	engine, err := h.service.StartAttempt(r.Context(), quizID, sink)
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		close(send)
		<-writerDone
		return
	}
	sink.settings = engine.Settings()

	attemptID := quizID + ":" + newAttemptID()
	h.registry.Register(attemptID, engine)
	defer h.registry.Remove(attemptID)
	defer engine.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var opErr error
		switch inbound.Type {
		case "start":
			opErr = engine.Start()
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			opErr = engine.Submit(payload.Text)
		case "reveal":
			opErr = engine.Reveal()
		case "next":
			opErr = engine.Advance()
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
			continue
		}
		if opErr != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: opErr.Error()}}
		}
	}

	// Close the engine first: once it returns, no timer callback can
	// reach the sink, so the send channel is safe to close.
	engine.Close()
	close(send)
	<-writerDone
}

func newAttemptID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf[:])
}
