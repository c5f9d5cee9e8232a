package generate

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// 상태 푸시 폴링 주기
const pollInterval = 5 * time.Second

// 연속 폴링 실패 허용 횟수 (초과 시 에러 프레임 후 종료)
const maxConsecutivePollFailures = 3

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsErrorFrame - 폴링 중단을 알리는 마지막 프레임
type wsErrorFrame struct {
	TaskID string `json:"taskId"`
	Error  string `json:"error"`
}

// HandleStatusWS - GET /ws/status/{taskId}
// 종료 상태까지 5초 간격으로 상태 스냅샷을 푸시
// 클라이언트가 끊기면 즉시 폴링 중단 (타이머 고아화 방지)
func (h *Handler) HandleStatusWS(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "Task ID is required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Generate] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("🔍 [Generate] Status stream opened for task %s", taskID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// 읽기 펌프 - 클라이언트 종료 감지용
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	failures := 0
	for {
		snapshot, err := h.service.Status(ctx, taskID)
		if err != nil {
			failures++
			log.Printf("⚠️ [Generate] Status poll failed for %s (%d/%d): %v", taskID, failures, maxConsecutivePollFailures, err)
			if failures >= maxConsecutivePollFailures {
				conn.WriteJSON(wsErrorFrame{TaskID: taskID, Error: err.Error()})
				return
			}
		} else {
			failures = 0
			if err := conn.WriteJSON(snapshot); err != nil {
				// 클라이언트가 사라짐
				return
			}
			if snapshot.Status.IsTerminal() {
				log.Printf("🏁 [Generate] Task %s reached terminal state: %s", taskID, snapshot.Status)
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
