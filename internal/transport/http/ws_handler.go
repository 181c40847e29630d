package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"heresy-trivia-service/internal/app"
	"heresy-trivia-service/internal/domain"
)

// WSHandler speaks the game protocol over a websocket: one connection is
// one session from first question to verdict.
type WSHandler struct {
	service  *app.GameService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
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
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
}

type startedPayload struct {
	SessionID      string `json:"sessionId"`
	Difficulty     string `json:"difficulty"`
	TotalQuestions int    `json:"totalQuestions"`
	PoolWasReset   bool   `json:"poolWasReset"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request, starts a session for the player, and pumps
// session events out while accepting answers in.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	displayName := r.URL.Query().Get("name")
	rawDifficulty := r.URL.Query().Get("difficulty")
	if playerID == "" || displayName == "" || rawDifficulty == "" {
		http.Error(w, "missing playerId, name, or difficulty", http.StatusBadRequest)
		return
	}
	difficulty, err := domain.ParseDifficulty(rawDifficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	session, err := h.service.Start(r.Context(), playerID, displayName, difficulty)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := session.ID()

	events, cancel, err := h.service.Subscribe(r.Context(), sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	defer h.service.Leave(r.Context(), sessionID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("session", sessionID).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundForEvent(ev):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "started", Payload: startedPayload{
		SessionID:      sessionID,
		Difficulty:     string(difficulty),
		TotalQuestions: session.TotalQuestions(),
		PoolWasReset:   session.PoolWasReset(),
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if err := h.service.SubmitAnswer(r.Context(), sessionID, payload.QuestionID, payload.Answer); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func outboundForEvent(ev app.Event) outboundMessage[any] {
	switch ev.Kind {
	case app.EventQuestion:
		return outboundMessage[any]{Type: "question", Payload: ev.Question}
	case app.EventAnswerResult:
		return outboundMessage[any]{Type: "answerResult", Payload: ev.Result}
	case app.EventCouncilOffended:
		return outboundMessage[any]{Type: "councilOffended", Payload: ev.Council}
	case app.EventVerdict:
		return outboundMessage[any]{Type: "verdict", Payload: ev.Verdict}
	default:
		return outboundMessage[any]{Type: string(ev.Kind)}
	}
}
