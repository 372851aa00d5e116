package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/gorilla/websocket"
)

func TestRankingFeedOverWebSocket(t *testing.T) {
	env := newTestEnv(t, activeCampaign(1))

	u := "ws" + env.server.URL[len("http"):] + "/ws/ranking"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	initial := readRanking(t, conn)
	if len(initial.Classes) != 2 || initial.Classes[0].GlobalScore != 0 {
		t.Fatalf("unexpected initial ranking %+v", initial)
	}

	resp, _ := env.do(t, http.MethodPost, "/api/questions/answer", env.token(t, 2, ""), map[string]int{"questionId": 11, "answer": 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer: status %d", resp.StatusCode)
	}

	update := readRanking(t, conn)
	if update.Classes[0].Class != "3B" || update.Classes[0].GlobalScore != domain.XPCorrect {
		t.Fatalf("expected 3B on top after answer, got %+v", update.Classes[0])
	}
}

func readRanking(t *testing.T, conn *websocket.Conn) domain.RankingSnapshot {
	t.Helper()
	var msg outboundMessage[domain.RankingSnapshot]
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "ranking" {
		t.Fatalf("expected ranking message, got %s", msg.Type)
	}
	return msg.Payload
}
