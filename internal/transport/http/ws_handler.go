// Package http exposes the game over WebSocket: clients send action verbs,
// the server streams session snapshots plus per-action results.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ismailukman/millionaire-live/internal/app"
	"github.com/ismailukman/millionaire-live/internal/domain"
)

type WSHandler struct {
	service  *app.SessionService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     logger,
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

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type startClassicPayload struct {
	Timed *bool `json:"timed,omitempty"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type lifelinePayload struct {
	Key string `json:"key"`
}

type startFFFPayload struct {
	Seconds int `json:"seconds"`
}

type submitFFFPayload struct {
	ParticipantID string   `json:"participantId"`
	Option        string   `json:"option,omitempty"`
	Order         []string `json:"order,omitempty"`
}

type answerResult struct {
	Applied       bool            `json:"applied"`
	Selected      string          `json:"selected,omitempty"`
	Correct       bool            `json:"correct"`
	CorrectOption string          `json:"correctOption,omitempty"`
	Ended         bool            `json:"ended"`
	Prize         int             `json:"prize"`
	Outcome       *domain.Outcome `json:"outcome,omitempty"`
}

type winnerPayload struct {
	ParticipantID string `json:"participantId"`
}

type joinedPayload struct {
	SessionID     string `json:"sessionId"`
	ParticipantID string `json:"participantId"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game
// use cases. Clients either attach to an existing session (?sessionId=) or
// create one (?packId=&mode=&live=).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		packID := r.URL.Query().Get("packId")
		if packID == "" {
			http.Error(w, "missing sessionId or packId", http.StatusBadRequest)
			return
		}
		mode := domain.Mode(r.URL.Query().Get("mode"))
		if mode == "" {
			mode = domain.ModeClassic
		}
		live := r.URL.Query().Get("live") == "true"
		hostID := r.URL.Query().Get("userId")
		if hostID == "" {
			hostID = h.service.Identity().CurrentUserID()
		}
		session, err := h.service.CreateSession(r.Context(), packID, mode, hostID, live)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sessionID = session.ID()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.Subscribe(sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "session", Payload: update.Session}:
				case <-closeSignals:
					return
				}
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
		h.dispatch(r, sessionID, inbound, send)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage, send chan<- outboundMessage[any]) {
	fail := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}
	badPayload := func() {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid payload for " + inbound.Type}}
	}

	switch inbound.Type {
	case "join":
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Name == "" {
			badPayload()
			return
		}
		participantID, err := h.service.Join(r.Context(), sessionID, payload.Name, r.UserAgent())
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{SessionID: sessionID, ParticipantID: participantID}}

	case "startClassic":
		var payload startClassicPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				badPayload()
				return
			}
		}
		if err := h.service.StartClassic(r.Context(), sessionID, payload.Timed); err != nil {
			fail(err)
			return
		}
		h.sendQuestion(sessionID, send)

	case "question":
		h.sendQuestion(sessionID, send)

	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Option == "" {
			badPayload()
			return
		}
		res, err := h.service.SubmitAnswer(r.Context(), sessionID, payload.Option)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
			Applied:       res.Applied,
			Selected:      res.Selected,
			Correct:       res.Correct,
			CorrectOption: res.CorrectOption,
			Ended:         res.Ended,
			Prize:         res.Prize,
			Outcome:       res.Outcome,
		}}
		if res.Applied && !res.Ended {
			h.sendQuestion(sessionID, send)
		}

	case "lifeline":
		var payload lifelinePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Key == "" {
			badPayload()
			return
		}
		res, err := h.service.UseLifeline(r.Context(), sessionID, payload.Key)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "lifeline", Payload: res}

	case "walkAway":
		res, err := h.service.WalkAway(r.Context(), sessionID)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
			Applied: res.Applied,
			Ended:   res.Ended,
			Prize:   res.Prize,
			Outcome: res.Outcome,
		}}

	case "quit":
		if err := h.service.Quit(r.Context(), sessionID); err != nil {
			fail(err)
		}

	case "startFFF":
		var payload startFFFPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				badPayload()
				return
			}
		}
		if err := h.service.StartFFF(r.Context(), sessionID, payload.Seconds); err != nil {
			fail(err)
		}

	case "submitFFF":
		var payload submitFFFPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.ParticipantID == "" {
			badPayload()
			return
		}
		err := h.service.SubmitFFF(r.Context(), sessionID, payload.ParticipantID, domain.FFFAnswer{
			Option: payload.Option,
			Order:  payload.Order,
		})
		if err != nil {
			fail(err)
		}

	case "computeWinner":
		winnerID, err := h.service.ComputeWinner(r.Context(), sessionID)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "winner", Payload: winnerPayload{ParticipantID: winnerID}}

	case "tally":
		counts, err := h.service.Tally(sessionID)
		if err != nil {
			fail(err)
			return
		}
		send <- outboundMessage[any]{Type: "tally", Payload: counts}

	default:
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
	}
}

func (h *WSHandler) sendQuestion(sessionID string, send chan<- outboundMessage[any]) {
	view, err := h.service.CurrentQuestion(sessionID)
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return
	}
	send <- outboundMessage[any]{Type: "question", Payload: view}
}
