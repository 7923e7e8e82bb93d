package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/smartplates/smartplates-api/internal/logger"
	"github.com/smartplates/smartplates-api/internal/repository"
	"github.com/smartplates/smartplates-api/internal/service"
	"github.com/smartplates/smartplates-api/internal/util"
	"github.com/smartplates/smartplates-api/internal/ws"
	"go.uber.org/zap"
)

// AdminHandler is the handler for moderation, quota, and backfill requests.
type AdminHandler struct {
	Service  *service.AdminService
	Hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewAdminHandler is the constructor function for initializing a new
// AdminHandler. allowedOrigins is the same list the CORS layer uses, so
// browsers that can reach the API can also open the progress socket.
func NewAdminHandler(adminService *service.AdminService, hub *ws.Hub, allowedOrigins []string) *AdminHandler {
	return &AdminHandler{
		Service: adminService,
		Hub:     hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// originAllowed reports whether origin matches the configured allow-list.
// Localhost is always allowed for development.
func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if origin == strings.TrimSpace(a) {
			return true
		}
	}
	return strings.HasPrefix(origin, "http://localhost:") || origin == "http://localhost"
}

// GetModerationQueue returns pending uploads, flagged ones first.
func (h *AdminHandler) GetModerationQueue(c *gin.Context) {
	limit := parsePositiveQuery(c.Query("limit"), 50, 100)

	queue, err := h.Service.ModerationQueue(limit)
	if err != nil {
		logger.Get().Error("failed to load moderation queue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue": queue})
}

// ReviewUpload records an approve or reject decision.
func (h *AdminHandler) ReviewUpload(c *gin.Context) {
	admin, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recipeID, err := parseUintParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	var req struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.Service.ReviewUpload(recipeID, req.Approve, admin.ID, req.Note); err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review recorded"})
}

// GetQuotaReport returns current upstream quota usage and cache size.
func (h *AdminHandler) GetQuotaReport(c *gin.Context) {
	report, err := h.Service.GetQuotaReport()
	if err != nil {
		logger.Get().Error("failed to build quota report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// StartBackfill launches a batched import from the upstream source.
func (h *AdminHandler) StartBackfill(c *gin.Context) {
	admin, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req service.BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	run, err := h.Service.StartBackfill(admin.ID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, run)
}

// GetBackfillRun returns one run by its public run ID.
func (h *AdminHandler) GetBackfillRun(c *gin.Context) {
	run, err := h.Service.GetRun(c.Param("run_id"))
	if err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListBackfillRuns returns recent runs, newest first.
func (h *AdminHandler) ListBackfillRuns(c *gin.Context) {
	runs, err := h.Service.ListRuns()
	if err != nil {
		logger.Get().Error("failed to list backfill runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// WatchBackfill upgrades the connection and streams progress frames for one
// run until the client disconnects.
func (h *AdminHandler) WatchBackfill(c *gin.Context) {
	admin, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	runID := c.Param("run_id")
	if _, err := h.Service.GetRun(runID); err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get run"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Get().Error("websocket upgrade failed",
			zap.String("run_id", runID),
			zap.Uint("user_id", admin.ID),
			zap.Error(err),
		)
		return
	}

	client := &ws.Client{
		Hub:    h.Hub,
		Conn:   conn,
		Send:   make(chan []byte, 64),
		RunID:  runID,
		UserID: admin.ID,
	}
	h.Hub.Register <- client

	connectedPayload, _ := json.Marshal(ws.ConnectedPayload{RunID: runID})
	connectedMsg, _ := json.Marshal(ws.Frame{
		Type:    ws.MsgTypeConnected,
		Payload: connectedPayload,
	})
	client.Send <- connectedMsg

	go client.WritePump()
	go client.ReadPump()
}
