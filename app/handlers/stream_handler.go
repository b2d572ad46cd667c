package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"botops-svc/app/domains"
	"botops-svc/app/dto"
	"botops-svc/app/relay"
	"botops-svc/app/services"
	"botops-svc/app/transport"
	"botops-svc/app/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// StreamHandler upgrades observer connections and wires them into the
// broadcaster. Subscribers receive only events published after they attach.
// The stream is also a command surface: inbound send_message frames are
// submitted with the socket origin and confirmed back to the sender.
type StreamHandler struct {
	broadcaster *relay.Broadcaster
	dispatcher  *services.DispatcherService
	upgrader    websocket.Upgrader
	sendBuffer  int
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(broadcaster *relay.Broadcaster, dispatcher *services.DispatcherService, sendBuffer int) *StreamHandler {
	return &StreamHandler{
		broadcaster: broadcaster,
		dispatcher:  dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Origin policy is the deployment's concern, same as CORS.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
	}
}

// Events handles the observer event stream endpoint
func (h *StreamHandler) Events(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("stream: upgrade failed: %v", err)
		return
	}

	id := uuid.New().String()
	sub := transport.NewWSSubscriber(id, conn, h.sendBuffer, func() {
		h.broadcaster.Unsubscribe(id)
	})
	h.broadcaster.Subscribe(sub)

	// Greet the new observer directly; the greeting is not broadcast.
	_ = sub.Push(domains.Event{
		Kind:      domains.EventConnected,
		Payload:   map[string]interface{}{"client_id": id},
		Timestamp: time.Now().UTC(),
	})

	sub.ReadLoop(func(raw []byte) {
		h.handleFrame(sub, raw)
	})
}

// inboundFrame mirrors the outbound event envelope.
type inboundFrame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func (h *StreamHandler) handleFrame(sub *transport.WSSubscriber, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.pushError(sub, "invalid frame")
		return
	}

	switch frame.Event {
	case "send_message":
		h.handleSendMessage(sub, frame.Payload)
	default:
		h.pushError(sub, fmt.Sprintf("unsupported event: %s", frame.Event))
	}
}

// handleSendMessage turns a panel-originated frame into a queued command and
// confirms it to the sender. The new_command broadcast reaches every
// observer through the relay as usual.
func (h *StreamHandler) handleSendMessage(sub *transport.WSSubscriber, raw json.RawMessage) {
	var req dto.SocketSendMessageRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.pushError(sub, "invalid send_message payload")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		h.pushError(sub, err.Error())
		return
	}

	payload := map[string]interface{}{"text": req.Text}
	if req.ThreadID != "" {
		payload["thread_id"] = req.ThreadID
	}
	if req.ThreadType != "" {
		payload["thread_type"] = req.ThreadType
	}

	cmd, err := h.dispatcher.Submit(req.BotID, "send_message", payload, domains.OriginSocket)
	if err != nil {
		h.pushError(sub, err.Error())
		return
	}

	_ = sub.Push(domains.Event{
		Kind: domains.EventMessageSent,
		Payload: map[string]interface{}{
			"status":     "queued",
			"command_id": cmd.ID,
			"bot_id":     cmd.BotID,
		},
		Timestamp: time.Now().UTC(),
	})
}

func (h *StreamHandler) pushError(sub *transport.WSSubscriber, message string) {
	_ = sub.Push(domains.Event{
		Kind:      domains.EventError,
		Payload:   map[string]interface{}{"message": message},
		Timestamp: time.Now().UTC(),
	})
}
