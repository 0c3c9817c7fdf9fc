package notification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nuvoryx/drive/internal/auth"
)

// RegisterRoutes mounts notification endpoints; all require auth.
func RegisterRoutes(group *gin.RouterGroup, repo *Repository) {
	handler := &httpHandler{repo: repo}
	group.GET("/notifications", handler.list)
	group.POST("/notifications", handler.create)
	group.POST("/notifications/read", handler.markAllRead)
	group.DELETE("/notifications", handler.clear)
}

type httpHandler struct {
	repo *Repository
}

func (h *httpHandler) list(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	notes, err := h.repo.Latest(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	if notes == nil {
		notes = []Notification{}
	}
	c.JSON(http.StatusOK, notes)
}

type createRequest struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func (h *httpHandler) create(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "message required"})
		return
	}

	note, err := h.repo.Create(c.Request.Context(), userID, req.Message, req.Kind)
	if err != nil {
		if errors.Is(err, ErrMessageRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "message required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": note.ID})
}

func (h *httpHandler) markAllRead(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.repo.MarkAllRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *httpHandler) clear(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.repo.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
