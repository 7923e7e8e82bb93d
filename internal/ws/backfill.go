package ws

import (
	"encoding/json"

	"github.com/smartplates/smartplates-api/internal/logger"
	"go.uber.org/zap"
)

// Frame types pushed to backfill watchers.
const (
	MsgTypeProgress  = "progress"  // Batch finished, counters updated
	MsgTypeCompleted = "completed" // Run finished successfully
	MsgTypeFailed    = "failed"    // Run aborted
	MsgTypeConnected = "connected" // Connection confirmed
)

// Frame is the envelope for all messages pushed over the backfill WebSocket.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ProgressPayload reports the state of a run after a batch completes.
type ProgressPayload struct {
	RunID          string  `json:"run_id"`
	Batch          int     `json:"batch"`
	Batches        int     `json:"batches"`
	Imported       int     `json:"imported"`
	Failed         int     `json:"failed"`
	QuotaUsed      float64 `json:"quota_used"`
	QuotaRemaining float64 `json:"quota_remaining"`
	QuotaExhausted bool    `json:"quota_exhausted"`
	Error          string  `json:"error,omitempty"`
}

// ConnectedPayload confirms a watcher's subscription.
type ConnectedPayload struct {
	RunID string `json:"run_id"`
}

// PushProgress marshals and broadcasts a frame to a run's watchers. Marshal
// failures are logged and dropped; progress frames are advisory.
func (h *Hub) PushProgress(msgType string, payload ProgressPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Get().Error("failed to marshal progress frame", zap.Error(err))
		return
	}
	frame, err := json.Marshal(Frame{Type: msgType, Payload: raw})
	if err != nil {
		logger.Get().Error("failed to marshal progress frame", zap.Error(err))
		return
	}
	h.Broadcast <- &RunMessage{RunID: payload.RunID, Message: frame}
}
