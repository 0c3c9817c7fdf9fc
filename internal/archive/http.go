package archive

import (
	"archive/zip"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/auth"
)

// RegisterRoutes mounts the authenticated selection export.
func RegisterRoutes(group *gin.RouterGroup, packer *Packer) {
	handler := &httpHandler{packer: packer}
	group.POST("/batch/archive", handler.archiveSelection)
}

// RegisterOpenRoutes mounts the whole-folder export, which the original
// surface never audited.
func RegisterOpenRoutes(group *gin.RouterGroup, packer *Packer) {
	handler := &httpHandler{packer: packer}
	group.GET("/folders/:folderID/archive", handler.archiveFolder)
}

type httpHandler struct {
	packer *Packer
}

type selectionRequest struct {
	FileIDs   []uuid.UUID `json:"ids"`
	FolderIDs []uuid.UUID `json:"folder_ids"`
}

func (h *httpHandler) archiveSelection(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(req.FileIDs) == 0 && len(req.FolderIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to download"})
		return
	}

	name := fmt.Sprintf("nuvoryx_pack_%s.zip", time.Now().Format("200601021504"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	zw := zip.NewWriter(c.Writer)
	if err := h.packer.PackSelection(c.Request.Context(), zw, req.FileIDs, req.FolderIDs, userID); err != nil {
		// the stream may be partially written; closing truncates it cleanly
		zw.Close()
		return
	}
	zw.Close()
}

func (h *httpHandler) archiveFolder(c *gin.Context) {
	folderID, err := uuid.Parse(c.Param("folderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
		return
	}

	f, err := h.packer.folders.Get(c.Request.Context(), folderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name+".zip"))

	zw := zip.NewWriter(c.Writer)
	if err := h.packer.PackFolder(c.Request.Context(), zw, f, ""); err != nil {
		zw.Close()
		return
	}
	zw.Close()
}
