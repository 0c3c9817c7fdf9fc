package cleanup

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/auth"
	"github.com/nuvoryx/drive/internal/file"
	"github.com/nuvoryx/drive/internal/folder"
	"github.com/nuvoryx/drive/internal/metrics"
)

// RegisterRoutes mounts the authenticated batch delete.
func RegisterRoutes(group *gin.RouterGroup, coordinator *Coordinator) {
	handler := &httpHandler{coordinator: coordinator}
	group.POST("/batch/delete", handler.deleteBatch)
}

// RegisterOpenRoutes mounts single-item deletes. These skip both the auth
// and the ownership check, matching the original surface; hardening them
// would change observable behavior.
func RegisterOpenRoutes(group *gin.RouterGroup, coordinator *Coordinator) {
	handler := &httpHandler{coordinator: coordinator}
	group.DELETE("/files/:fileID", handler.deleteFile)
	group.DELETE("/folders/:folderID", handler.deleteFolder)
}

type httpHandler struct {
	coordinator *Coordinator
}

func (h *httpHandler) deleteFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	if err := h.coordinator.DeleteFile(c.Request.Context(), fileID); err != nil {
		if errors.Is(err, file.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		return
	}

	metrics.DeletesTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *httpHandler) deleteFolder(c *gin.Context) {
	folderID, err := uuid.Parse(c.Param("folderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
		return
	}

	if err := h.coordinator.DeleteFolder(c.Request.Context(), folderID); err != nil {
		if errors.Is(err, folder.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete folder"})
		return
	}

	metrics.DeletesTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type batchDeleteRequest struct {
	FileIDs   []uuid.UUID `json:"ids"`
	FolderIDs []uuid.UUID `json:"folder_ids"`
}

func (h *httpHandler) deleteBatch(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	count, err := h.coordinator.DeleteBatch(c.Request.Context(), req.FileIDs, req.FolderIDs, userID)
	if err != nil {
		if errors.Is(err, ErrNoItems) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no items provided"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "batch delete failed"})
		return
	}

	metrics.DeletesTotal.Add(float64(count))
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}
