package folder

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/auth"
)

// RegisterRoutes mounts folder creation and move endpoints.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/folders", handler.createFolder)
	group.POST("/folders/:folderID/move", handler.moveFolder)
}

type httpHandler struct {
	service *Service
}

type createFolderRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_folder_id"`
}

func (h *httpHandler) createFolder(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.Name, req.ParentID, &userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		case errors.Is(err, ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "folder already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create folder"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": created.ID, "name": created.Name})
}

type moveFolderRequest struct {
	ParentID *uuid.UUID `json:"parent_folder_id"`
}

func (h *httpHandler) moveFolder(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	folderID, err := uuid.Parse(c.Param("folderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
		return
	}

	var req moveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	moved, err := h.service.Get(c.Request.Context(), folderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
		return
	}
	if moved.OwnerID != nil && *moved.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.service.Move(c.Request.Context(), folderID, req.ParentID); err != nil {
		switch {
		case errors.Is(err, ErrCycle):
			c.JSON(http.StatusBadRequest, gin.H{"error": "move would create a cycle"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to move folder"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
