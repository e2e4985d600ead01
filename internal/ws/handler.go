package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wordspy/backend/internal/gateway"
	"github.com/wordspy/backend/internal/ident"
	"github.com/wordspy/backend/pkg/types"
)

// Inbound events above this rate are refused with a point-to-point notice.
const (
	inboundRate  = rate.Limit(1)
	inboundBurst = 5
)

func Handler(h *gateway.Hub, reg *ident.Registry, defaultRoom string, originPatterns []string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		if roomID == "" {
			roomID = defaultRoom
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			// failed upgrades must not leave a room actor behind
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		reply := make(chan *gateway.Room, 1)
		h.Inbox() <- gateway.EnsureRoom{ID: roomID, Reply: reply}
		rm := <-reply

		connID := reg.Register()
		log.Info("client connected",
			zap.String("conn", connID),
			zap.String("room", roomID),
			zap.Int("total", reg.LiveCount()),
		)

		out := make(chan []byte, 16)
		rm.Inbox() <- gateway.Join{ConnID: connID, Outbox: out}
		defer func() {
			rm.Inbox() <- gateway.Leave{ConnID: connID}
			reg.Disconnect(connID)
			log.Info("client disconnected",
				zap.String("conn", connID),
				zap.Int("total", reg.LiveCount()),
			)
		}()

		// Writer goroutine: drains the room outbox onto the socket.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for payload := range out {
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		limiter := rate.NewLimiter(inboundRate, inboundBurst)

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// clean close or not, the deferred Leave handles the room
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil || cm.Type == "" {
				writeFailure(r.Context(), conn, "malformed event")
				continue
			}

			if !limiter.Allow() {
				writeFailure(r.Context(), conn, "too many events, slow down")
				continue
			}

			rm.Inbox() <- gateway.FromClient{ConnID: connID, Msg: cm}
		}
	}
}

// writeFailure answers protocol violations point-to-point, bypassing the
// room entirely: no state was mutated and nobody else should hear about it.
func writeFailure(ctx context.Context, conn *websocket.Conn, message string) {
	payload, _ := json.Marshal(types.OperationFailed{Type: types.TypeOperationFailed, Message: message})
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}
