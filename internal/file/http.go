package file

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/auth"
	"github.com/nuvoryx/drive/internal/blob"
	"github.com/nuvoryx/drive/internal/filetype"
	"github.com/nuvoryx/drive/internal/metrics"
)

// RegisterRoutes mounts authenticated file endpoints.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/files", handler.upload)
}

// RegisterOpenRoutes mounts endpoints that intentionally skip the auth
// check; the original surface never audited downloads.
func RegisterOpenRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/files/:fileID/download", handler.download)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) upload(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in request"})
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in request"})
		return
	}
	relativePaths := form.Value["relative_paths"]

	var rootFolderID *uuid.UUID
	if raw := c.PostForm("folder_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
			return
		}
		rootFolderID = &id
	}

	items := make([]UploadItem, 0, len(headers))
	opened := make([]io.Closer, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for i, header := range headers {
		content, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		opened = append(opened, content)

		item := UploadItem{Name: header.Filename, Content: content}
		if i < len(relativePaths) {
			item.RelativePath = relativePaths[i]
		}
		items = append(items, item)
	}

	results, err := h.service.Upload(c.Request.Context(), userID, rootFolderID, items)
	if err != nil {
		if errors.Is(err, ErrNoFiles) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no files in request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	metrics.UploadsTotal.Add(float64(len(results)))
	c.JSON(http.StatusOK, gin.H{"message": "upload complete", "files": results})
}

func (h *httpHandler) download(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	record, content, err := h.service.Download(c.Request.Context(), fileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, blob.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		}
		return
	}
	defer content.Close()

	disposition := "attachment"
	if c.Query("inline") == "true" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, record.OriginalName))
	c.Header("Content-Type", filetype.ContentType(record.OriginalName))

	metrics.DownloadsTotal.Inc()
	if _, err := io.Copy(c.Writer, content); err != nil {
		// headers are already out; nothing sane to send
		return
	}
}
