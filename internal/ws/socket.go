package ws

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messenger-service/internal/auth"
	"messenger-service/internal/models"
	"messenger-service/internal/observability"
)

const socketRoutingKey = "ws_events.socket"

// SocketHandler owns the websocket endpoint: handshake, registration, inbound
// event dispatch and disconnect cleanup.
type SocketHandler struct {
	hub         *Hub
	pipeline    *Pipeline
	broadcaster *Broadcaster
	receipts    *ReadReceipts
	tokens      *auth.Validator
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(hub *Hub, pipeline *Pipeline, broadcaster *Broadcaster, receipts *ReadReceipts, tokens *auth.Validator) *SocketHandler {
	return &SocketHandler{hub: hub, pipeline: pipeline, broadcaster: broadcaster, receipts: receipts, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, registers it and serves its event loop.
func (h *SocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("messenger-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token != "" {
		token = trimBearer(token)
	} else {
		token = c.Query("token")
	}

	userID, err := h.tokens.Validate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.Registry().Register(info.ConnID, newSyncConn(conn))

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.publishLifecycle(ctx, "ws_connect", info, "")

	go h.readLoop(context.WithoutCancel(ctx), conn, info)
}

func (h *SocketHandler) readLoop(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	var closeReason string
	defer func() {
		h.teardown(ctx, info, closeReason)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
				h.publishLifecycle(ctx, "ws_error", info, closeReason)
			}
			return
		}
		h.dispatch(ctx, info, raw)
	}
}

// dispatch validates one inbound event and routes it. A protocol violation is
// answered to the originating connection only and never propagated further.
func (h *SocketHandler) dispatch(ctx context.Context, info ConnInfo, raw []byte) {
	env, err := ParseEnvelope(raw)
	if err != nil {
		_ = h.hub.PushToConn(info.ConnID, models.ErrorEvent(err.Error()))
		return
	}
	observability.IncWSEvent(env.Event)

	switch env.Event {
	case EventUserConnected:
		payload, err := decodeIdentity(env.Data)
		if err != nil {
			_ = h.hub.PushToConn(info.ConnID, models.ErrorEvent(err.Error()))
			return
		}
		if payload.UserID != info.UserID {
			_ = h.hub.PushToConn(info.ConnID, models.ErrorEvent("user_id does not match connection identity"))
			return
		}
		h.hub.Sessions().Bind(payload.UserID, info.ConnID)

	case EventUserOnline, EventUserOffline:
		payload, err := decodeIdentity(env.Data)
		if err != nil {
			_ = h.hub.PushToConn(info.ConnID, models.ErrorEvent(err.Error()))
			return
		}
		if payload.UserID != info.UserID {
			_ = h.hub.PushToConn(info.ConnID, models.ErrorEvent("user_id does not match connection identity"))
			return
		}
		online := env.Event == EventUserOnline
		if online {
			h.hub.Sessions().Bind(payload.UserID, info.ConnID)
		}
		if err := h.broadcaster.Announce(ctx, payload.UserID, online); err != nil {
			_ = h.hub.PushToConn(info.ConnID, models.ErrorEvent("failed to update presence"))
		}

	case EventSendMessage:
		payload, err := decodeSend(env.Data)
		if err != nil {
			_ = h.hub.PushToConn(info.ConnID, models.MessageErrorEvent(payload.TempID, err.Error()))
			return
		}
		h.pipeline.Send(ctx, info.ConnID, payload)

	case EventMarkRead:
		payload, err := decodeRead(env.Data)
		if err != nil {
			_ = h.hub.PushToConn(info.ConnID, models.MarkReadErrorEvent(err.Error()))
			return
		}
		h.receipts.MarkRead(ctx, info.ConnID, payload)

	default:
		_ = h.hub.PushToConn(info.ConnID, models.ErrorEvent("unknown event: "+env.Event))
	}
}

// teardown runs once per connection. It removes the connection from both
// registries and, when that was the user's last live connection, makes a
// best-effort offline announcement.
func (h *SocketHandler) teardown(ctx context.Context, info ConnInfo, closeReason string) {
	h.hub.Registry().Unregister(info.ConnID)
	h.hub.Sessions().Unbind(info.UserID, info.ConnID)

	observability.DecWSActive()
	observability.IncWSEvent("ws_disconnect")
	h.publishLifecycle(ctx, "ws_disconnect", info, closeReason)

	if !h.hub.Sessions().IsOnline(info.UserID) {
		if err := h.broadcaster.Announce(ctx, info.UserID, false); err != nil {
			log.Printf("offline announce for user %s failed: %v", info.UserID, err)
		}
	}
}

func trimBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return header
}

func (h *SocketHandler) publishLifecycle(ctx context.Context, name string, info ConnInfo, reason string) {
	identity := observability.SocketIdentity{
		ConnID:   info.ConnID,
		UserID:   info.UserID,
		DeviceID: info.DeviceID,
		IP:       info.IP,
	}
	durationMS := int64(0)
	if name != "ws_connect" {
		durationMS = time.Since(info.ConnectedAt).Milliseconds()
	}
	_ = observability.PublishEvent(ctx, socketRoutingKey,
		observability.SocketLifecycleEvent(name, identity, durationMS, reason),
		observability.BuildHeaders(info.RequestID, info.TraceID))
}
