package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"quiz-client/internal/app"
	"quiz-client/internal/domain"
	"quiz-client/internal/guard"
	"quiz-client/internal/view"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ControllerFactory builds the controller of one browser connection.
type ControllerFactory func(clientID string, renderer app.Renderer) *app.Controller

type WSHandler struct {
	newController ControllerFactory
	log           *slog.Logger
	upgrader      websocket.Upgrader
}

func NewWSHandler(factory ControllerFactory, log *slog.Logger) *WSHandler {
	return &WSHandler{
		newController: factory,
		log:           log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
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

type helloPayload struct {
	ClientID  string           `json:"clientId"`
	Shortcuts []guard.KeyEvent `json:"shortcuts"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// viewQueue hands views from the controller to the writer without ever blocking the controller.
type viewQueue chan view.View

func (q viewQueue) Render(v view.View) {
	select {
	case q <- v:
	default:
		// drop the oldest pending view, the newest one supersedes it
		select {
		case <-q:
		default:
		}
		select {
		case q <- v:
		default:
		}
	}
}

// ServeWS upgrades the request and runs one client controller for the lifetime of the socket.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if _, err := uuid.Parse(clientID); err != nil {
		clientID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	log := h.log.With("client", clientID)
	log.Info("client connected")
	defer log.Info("client disconnected")

	views := make(viewQueue, 8)
	ctrl := h.newController(clientID, views)
	defer ctrl.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	viewsDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn("ws write error", "err", err)
				return
			}
		}
	}()

	go func() {
		defer close(viewsDone)
		for {
			select {
			case v := <-views:
				select {
				case send <- outboundMessage[any]{Type: "view", Payload: v}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	push(outboundMessage[any]{Type: "hello", Payload: helloPayload{ClientID: clientID, Shortcuts: guard.Shortcuts()}})

	ctx := r.Context()
	if err := ctrl.Initialize(ctx); err != nil {
		log.Info("stored session not restored", "err", err)
	}
	ctrl.EnableGuard()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		verdict, err := ctrl.Dispatch(ctx, app.Action(inbound.Type), inbound.Payload)
		switch {
		case errors.Is(err, domain.ErrUnknownAction), errors.Is(err, domain.ErrInvalidPayload):
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			continue
		case err != nil:
			log.Debug("action failed", "action", inbound.Type, "err", err)
		}
		if verdict.Blocked {
			log.Info("blocked inspection attempt", "action", inbound.Type)
			push(outboundMessage[any]{Type: "verdict", Payload: verdict})
		}
	}

	close(closeSignals)
	<-viewsDone
	close(send)
	<-writerDone
}
