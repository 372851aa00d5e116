package http

import (
	"net/http"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/app"
	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

// WSHandler streams ranking snapshots to websocket clients.
type WSHandler struct {
	feed     *app.RankingFeed
	upgrader websocket.Upgrader
}

func NewWSHandler(feed *app.RankingFeed) *WSHandler {
	return &WSHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and pushes a "ranking" message for every snapshot
// until the client disconnects. Clients never send anything meaningful; reads only
// detect the close.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.feed.Subscribe(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(outboundMessage[domain.RankingSnapshot]{Type: "ranking", Payload: snap}); err != nil {
				glog.V(2).Infof("ws write error: %v", err)
				return
			}
		case <-readerDone:
			return
		}
	}
}
