package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"quiz-session-engine/internal/app"
	"quiz-session-engine/internal/domain"
	"quiz-session-engine/internal/logging"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

// NewWSHandler logs through the request-scoped logger carried by the request
// context.
func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
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

type commandPayload struct {
	QuizID     string `json:"quizId"`
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
	Index      int    `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statePayload is a snapshot plus the derived values a front end renders.
type statePayload struct {
	app.SessionState
	AnsweredCount   int                 `json:"answeredCount"`
	ProgressPercent int                 `json:"progressPercent"`
	CanGoNext       bool                `json:"canGoNext"`
	CanGoPrevious   bool                `json:"canGoPrevious"`
	IsLastQuestion  bool                `json:"isLastQuestion"`
	Picker          []app.PickerItem    `json:"picker,omitempty"`
	Summary         *domain.QuizSummary `json:"summary,omitempty"`
}

type tickPayload struct {
	app.Tick
	Clock string `json:"clock"`
}

type resultPayload struct {
	domain.ScoringResult
	Message string `json:"message"`
	Grade   string `json:"grade"`
	Elapsed string `json:"elapsed"`
}

func newStatePayload(st app.SessionState) statePayload {
	p := statePayload{
		SessionState:    st,
		AnsweredCount:   st.AnsweredCount(),
		ProgressPercent: st.ProgressPercent(),
		CanGoNext:       st.CanGoNext(),
		CanGoPrevious:   st.CanGoPrevious(),
		IsLastQuestion:  st.IsLastQuestion(),
		Picker:          st.Picker(),
	}
	if st.Quiz != nil {
		summary := st.Quiz.Summary()
		p.Summary = &summary
	}
	return p
}

func newResultPayload(r domain.ScoringResult) resultPayload {
	return resultPayload{
		ScoringResult: r,
		Message:       r.Message(),
		Grade:         r.Grade(),
		Elapsed:       domain.FormatElapsed(r.ElapsedSeconds),
	}
}

func newErrorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: domain.Code(err), Message: err.Error()}}
}

// ServeWS upgrades HTTP requests to websockets and drives one engine session per
// connection. ?sessionId resumes an existing session; ?quizId preselects a quiz.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	quizID := r.URL.Query().Get("quizId")
	reqLogger := logging.FromContext(r.Context()).With().Str("component", "ws_handler").Logger()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		reqLogger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	// session bookkeeping must finish even after the client is gone
	ctx := context.WithoutCancel(r.Context())

	var session *app.Session
	if sessionID != "" {
		session, err = h.service.Resume(ctx, sessionID)
	} else {
		session, err = h.service.Open(ctx)
	}
	if err != nil {
		reqLogger.Debug().Err(err).Str("session_id", sessionID).Msg("session unavailable")
		_ = conn.WriteJSON(newErrorMessage(err))
		return
	}
	sessionID = session.ID()
	logger := reqLogger.With().Str("session_id", sessionID).Logger()
	defer func() {
		if err := h.service.Suspend(ctx, sessionID); err != nil {
			logger.Warn().Err(err).Msg("suspend session")
		}
	}()

	ticks, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	ticksDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(ticksDone)
		for {
			select {
			case tick, ok := <-ticks:
				if !ok {
					return
				}
				msg := outboundMessage[any]{Type: "tick", Payload: tickPayload{Tick: tick, Clock: domain.FormatClock(tick.ElapsedSeconds)}}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	h.sendOutcome(send, app.Outcome{State: session.State()}, nil)
	if quizID != "" {
		out, err := h.service.Apply(ctx, sessionID, app.Command{Type: app.CommandSelect, QuizID: quizID})
		h.sendOutcome(send, out, err)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		cmd, err := decodeCommand(inbound)
		if err != nil {
			send <- newErrorMessage(err)
			continue
		}
		out, err := h.service.Apply(ctx, sessionID, cmd)
		if errors.Is(err, domain.ErrSessionNotFound) {
			send <- newErrorMessage(err)
			break
		}
		h.sendOutcome(send, out, err)
	}

	close(closeSignals)
	<-ticksDone
	close(send)
	<-writerDone
}

// sendOutcome reports err first, then the (possibly unchanged) state and any result.
func (h *WSHandler) sendOutcome(send chan<- outboundMessage[any], out app.Outcome, err error) {
	if err != nil {
		send <- newErrorMessage(err)
	}
	if out.State.SessionID == "" {
		return
	}
	send <- outboundMessage[any]{Type: "state", Payload: newStatePayload(out.State)}
	if out.Result != nil {
		send <- outboundMessage[any]{Type: "result", Payload: newResultPayload(*out.Result)}
	}
}

func decodeCommand(in inboundMessage) (app.Command, error) {
	var payload commandPayload
	if len(in.Payload) > 0 && string(in.Payload) != "null" {
		if err := json.Unmarshal(in.Payload, &payload); err != nil {
			return app.Command{}, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
	}
	return app.Command{
		Type:       app.CommandType(in.Type),
		QuizID:     payload.QuizID,
		QuestionID: payload.QuestionID,
		OptionID:   payload.OptionID,
		Index:      payload.Index,
	}, nil
}
