package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"kviz/internal/app"
	"kviz/internal/domain"
	"kviz/internal/logging"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	defaults domain.SessionConfig
	frame    time.Duration
	upgrader websocket.Upgrader
}

// NewWSHandler serves one independent session per connection. defaults fill in
// query parameters the client leaves out.
func NewWSHandler(service *app.QuizService, defaults domain.SessionConfig, frame time.Duration) *WSHandler {
	return &WSHandler{
		service:  service,
		defaults: defaults,
		frame:    frame,
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

type selectPayload struct {
	QuestionIndex int `json:"questionIndex"`
	ChoiceIndex   int `json:"choiceIndex"`
}

type summaryPayload struct {
	domain.Summary
	Glyphs string `json:"glyphs"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and plays one session over them.
// Query: category, duration (seconds per question), count.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	cfg := h.sessionConfig(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancelRun := context.WithCancel(r.Context())
	defer cancelRun()

	pulses := make(chan domain.Pulse, 4)
	session, err := h.service.StartSession(ctx, cfg, app.WithHaptics(func(p domain.Pulse) {
		select {
		case pulses <- p:
		default:
		}
	}))
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Discard(context.Background(), session.ID())

	runner := app.NewRunner(session, h.frame)
	updates, cancel := runner.Subscribe()
	defer cancel()
	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[Session %s] runner stopped: %v", session.ID(), err)
		}
	}()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				failed = true
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			var msg outboundMessage[any]
			select {
			case update, ok := <-updates:
				if !ok {
					h.sendSummary(ctx, session.ID(), send, closeSignals)
					return
				}
				msg = outboundMessage[any]{Type: "state", Payload: update}
			case pulse := <-pulses:
				msg = outboundMessage[any]{Type: "haptic", Payload: pulse}
			case <-closeSignals:
				return
			}
			select {
			case send <- msg:
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				continue
			}
			accepted, err := runner.Select(ctx, payload.QuestionIndex, payload.ChoiceIndex)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if !accepted {
				logging.Verbosef("[Session %s] ignored selection %d/%d", session.ID(), payload.QuestionIndex, payload.ChoiceIndex)
				send <- outboundMessage[any]{Type: "ignored", Payload: payload}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	cancelRun()
	<-updatesDone
	close(send)
	<-writerDone
}

// sendSummary queues the summary once the runner has closed the update stream.
// An abandoned session has no summary and sends nothing.
func (h *WSHandler) sendSummary(ctx context.Context, sessionID string, send chan<- outboundMessage[any], closeSignals <-chan struct{}) {
	summary, err := h.service.Summary(ctx, sessionID)
	if err != nil {
		return
	}
	select {
	case send <- outboundMessage[any]{Type: "summary", Payload: summaryPayload{Summary: summary, Glyphs: summary.Glyphs()}}:
	case <-closeSignals:
	}
}

func (h *WSHandler) sessionConfig(r *http.Request) domain.SessionConfig {
	q := r.URL.Query()
	perQuestion := h.defaults.PerQuestion
	if secs, err := strconv.Atoi(q.Get("duration")); err == nil {
		perQuestion = time.Duration(secs) * time.Second
	}
	count := h.defaults.TotalQuestions
	if n, err := strconv.Atoi(q.Get("count")); err == nil {
		count = n
	}
	category := h.defaults.Category
	if c := q.Get("category"); c != "" {
		category = c
	}
	return domain.NewSessionConfig(perQuestion, count, category)
}
