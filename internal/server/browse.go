package server

import (
	"context"
	"errors"
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/auth"
	"github.com/nuvoryx/drive/internal/file"
	"github.com/nuvoryx/drive/internal/folder"
	"github.com/nuvoryx/drive/internal/sizeunit"
	"github.com/nuvoryx/drive/internal/stats"
)

// fileLister is the slice of the file store the listing surface reads.
type fileLister interface {
	InFolder(ctx context.Context, folderID uuid.UUID) ([]file.File, error)
	AtRoot(ctx context.Context, ownerID *uuid.UUID) ([]file.File, error)
}

// browseDeps groups the services the listing surface reads from.
type browseDeps struct {
	folders *folder.Service
	files   fileLister
	stats   *stats.Service
}

func registerBrowseRoutes(group *gin.RouterGroup, deps browseDeps) {
	handler := &browseHandler{deps: deps}
	group.GET("/browse", handler.browse)
	group.GET("/stats", handler.globalStats)
}

type browseHandler struct {
	deps browseDeps
}

type folderEntry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Size      string    `json:"size"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

type fileEntry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Size      string    `json:"size"`
	CreatedAt string    `json:"created_at"`
}

type statsResponse struct {
	TotalFolders   int    `json:"totalFolders"`
	TotalFiles     int    `json:"totalFiles"`
	SpaceUsed      string `json:"spaceUsed"`
	MostCommonType string `json:"mostCommonType"`
}

// browse lists one folder (or the root), with breadcrumbs and statistics.
// Anonymous callers see the shared root; an authenticated caller browsing a
// folder owned by someone else gets 403.
func (h *browseHandler) browse(c *gin.Context) {
	ctx := c.Request.Context()
	user, authenticated := auth.CurrentUser(c)

	var ownerID *uuid.UUID
	if authenticated {
		id := user.ID
		ownerID = &id
	}

	raw := c.Query("folder_id")
	if raw == "" {
		h.browseRoot(c, ownerID)
		return
	}

	folderID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
		return
	}

	current, err := h.deps.folders.Get(ctx, folderID)
	if err != nil {
		if errors.Is(err, folder.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load folder"})
		return
	}

	if authenticated && current.OwnerID != nil && *current.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	crumbs, err := h.deps.folders.Breadcrumbs(ctx, folderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve path"})
		return
	}

	folderStats, err := h.deps.stats.FolderStats(ctx, folderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	children, err := h.deps.folders.Children(ctx, folderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list folders"})
		return
	}
	files, err := h.deps.files.InFolder(ctx, folderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	folderEntries, err := h.folderEntries(c, children)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to size folders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"folder":      gin.H{"id": current.ID, "name": current.Name},
		"breadcrumbs": crumbs,
		"folders":     folderEntries,
		"files":       fileEntries(files),
		"stats":       toStatsResponse(folderStats),
	})
}

func (h *browseHandler) browseRoot(c *gin.Context, ownerID *uuid.UUID) {
	ctx := c.Request.Context()

	roots, err := h.deps.folders.Roots(ctx, ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list folders"})
		return
	}
	files, err := h.deps.files.AtRoot(ctx, ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	folderEntries, err := h.folderEntries(c, roots)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to size folders"})
		return
	}

	global := stats.Stats{MostCommonCategory: "-"}
	if ownerID != nil {
		global, err = h.deps.stats.GlobalStats(ctx, ownerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"folder":      nil,
		"breadcrumbs": []folder.Crumb{},
		"folders":     folderEntries,
		"files":       fileEntries(files),
		"stats":       toStatsResponse(global),
	})
}

// globalStats reports an owner's whole-forest usage.
func (h *browseHandler) globalStats(c *gin.Context) {
	user, authenticated := auth.CurrentUser(c)

	var ownerID *uuid.UUID
	if authenticated {
		id := user.ID
		ownerID = &id
	}

	global, err := h.deps.stats.GlobalStats(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, toStatsResponse(global))
}

func (h *browseHandler) folderEntries(c *gin.Context, folders []folder.Folder) ([]folderEntry, error) {
	entries := make([]folderEntry, 0, len(folders))
	for _, f := range folders {
		size, err := h.deps.stats.FolderSizeBytes(c.Request.Context(), f.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, folderEntry{
			ID:        f.ID,
			Name:      f.Name,
			Size:      sizeunit.Format(size),
			CreatedAt: f.CreatedAt.Format("2006-01-02 15:04"),
			UpdatedAt: f.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return entries, nil
}

func fileEntries(files []file.File) []fileEntry {
	entries := make([]fileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, fileEntry{
			ID:        f.ID,
			Name:      f.OriginalName,
			Category:  f.Category,
			Size:      f.Size,
			CreatedAt: f.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return entries
}

func toStatsResponse(st stats.Stats) statsResponse {
	return statsResponse{
		TotalFolders:   st.TotalFolders,
		TotalFiles:     st.TotalFiles,
		SpaceUsed:      st.FormatSpace(),
		MostCommonType: capitalize(st.MostCommonCategory),
	}
}

func capitalize(s string) string {
	if s == "" || s == "-" {
		return "-"
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
