package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/auth"
	"github.com/nuvoryx/drive/internal/file"
	"github.com/nuvoryx/drive/internal/folder"
	"github.com/nuvoryx/drive/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrowseRouter(world *fakeWorld, user *auth.ContextUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/v1")
	if user != nil {
		group.Use(func(c *gin.Context) {
			c.Set("nuvoryxUser", *user)
			c.Next()
		})
	}
	registerBrowseRoutes(group, browseDeps{
		folders: folder.NewService(world),
		files:   world,
		stats:   stats.NewService(world, world),
	})
	return router
}

func getJSON(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestBrowseForeignFolderForbidden(t *testing.T) {
	world := newFakeWorld()
	ownerB := uuid.New()
	theirs := world.addFolder("theirs", nil, &ownerB)

	userA := auth.ContextUser{ID: uuid.New(), Email: "a@example.com"}
	router := newBrowseRouter(world, &userA)

	rec, _ := getJSON(t, router, "/v1/browse?folder_id="+theirs.String())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBrowseForeignFolderAnonymousAllowed(t *testing.T) {
	world := newFakeWorld()
	ownerB := uuid.New()
	theirs := world.addFolder("theirs", nil, &ownerB)

	// the single-folder view is only audited for authenticated callers
	router := newBrowseRouter(world, nil)

	rec, body := getJSON(t, router, "/v1/browse?folder_id="+theirs.String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, body["folder"])
}

func TestBrowseOwnFolderListsContents(t *testing.T) {
	world := newFakeWorld()
	user := auth.ContextUser{ID: uuid.New()}

	docs := world.addFolder("docs", nil, &user.ID)
	world.addFolder("2024", &docs, &user.ID)
	world.addFile("report.pdf", "1.50 KB", "pdf", &docs, &user.ID)

	router := newBrowseRouter(world, &user)
	rec, body := getJSON(t, router, "/v1/browse?folder_id="+docs.String())
	require.Equal(t, http.StatusOK, rec.Code)

	folders, ok := body["folders"].([]any)
	require.True(t, ok)
	assert.Len(t, folders, 1)
	files, ok := body["files"].([]any)
	require.True(t, ok)
	assert.Len(t, files, 1)

	crumbs, ok := body["breadcrumbs"].([]any)
	require.True(t, ok)
	require.Len(t, crumbs, 1)

	statsBody, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), statsBody["totalFolders"])
	assert.Equal(t, float64(1), statsBody["totalFiles"])
	assert.Equal(t, "1.50 KB", statsBody["spaceUsed"])
}

func TestBrowseRootAnonymousZeroStats(t *testing.T) {
	world := newFakeWorld()
	world.addFolder("shared", nil, nil)
	world.addFile("loose.txt", "512.00 Bytes", "text", nil, nil)

	router := newBrowseRouter(world, nil)
	rec, body := getJSON(t, router, "/v1/browse")
	require.Equal(t, http.StatusOK, rec.Code)

	folders, ok := body["folders"].([]any)
	require.True(t, ok)
	assert.Len(t, folders, 1)
	files, ok := body["files"].([]any)
	require.True(t, ok)
	assert.Len(t, files, 1)

	// anonymous callers get the listing but no forest-wide aggregation
	statsBody, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), statsBody["totalFolders"])
	assert.Equal(t, float64(0), statsBody["totalFiles"])
	assert.Equal(t, "-", statsBody["mostCommonType"])
}

func TestBrowseUnknownFolder(t *testing.T) {
	router := newBrowseRouter(newFakeWorld(), nil)

	rec, _ := getJSON(t, router, "/v1/browse?folder_id="+uuid.New().String())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = getJSON(t, router, "/v1/browse?folder_id=not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGlobalStatsEndpointScopedToOwner(t *testing.T) {
	world := newFakeWorld()
	user := auth.ContextUser{ID: uuid.New()}
	other := uuid.New()

	mine := world.addFolder("mine", nil, &user.ID)
	world.addFile("mine.txt", "1.00 KB", "text", &mine, &user.ID)
	theirs := world.addFolder("theirs", nil, &other)
	world.addFile("theirs.txt", "9.00 KB", "text", &theirs, &other)

	router := newBrowseRouter(world, &user)
	rec, body := getJSON(t, router, "/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, float64(1), body["totalFolders"])
	assert.Equal(t, float64(1), body["totalFiles"])
	assert.Equal(t, "1.00 KB", body["spaceUsed"])
}

// --- fakes ---

// fakeWorld backs the folder service, the stats sources, and the file
// listing with one in-memory dataset.
type fakeWorld struct {
	folders map[uuid.UUID]folder.Folder
	files   []file.File
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{folders: map[uuid.UUID]folder.Folder{}}
}

func (w *fakeWorld) addFolder(name string, parentID, ownerID *uuid.UUID) uuid.UUID {
	f := folder.Folder{
		ID:        uuid.New(),
		Name:      name,
		ParentID:  parentID,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	w.folders[f.ID] = f
	return f.ID
}

func (w *fakeWorld) addFile(name, size, category string, folderID, ownerID *uuid.UUID) {
	w.files = append(w.files, file.File{
		ID:           uuid.New(),
		OriginalName: name,
		Category:     category,
		Size:         size,
		FolderID:     folderID,
		OwnerID:      ownerID,
		CreatedAt:    time.Now(),
	})
}

func (w *fakeWorld) Create(_ context.Context, name string, parentID, ownerID *uuid.UUID) (folder.Folder, error) {
	id := w.addFolder(name, parentID, ownerID)
	return w.folders[id], nil
}

func (w *fakeWorld) Get(_ context.Context, id uuid.UUID) (folder.Folder, error) {
	f, ok := w.folders[id]
	if !ok {
		return folder.Folder{}, folder.ErrNotFound
	}
	return f, nil
}

func (w *fakeWorld) Children(_ context.Context, parentID uuid.UUID) ([]folder.Folder, error) {
	var out []folder.Folder
	for _, f := range w.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (w *fakeWorld) Roots(_ context.Context, ownerID *uuid.UUID) ([]folder.Folder, error) {
	var out []folder.Folder
	for _, f := range w.folders {
		if f.ParentID == nil && ptrEqual(f.OwnerID, ownerID) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (w *fakeWorld) FindChild(_ context.Context, name string, parentID, ownerID *uuid.UUID) (folder.Folder, error) {
	for _, f := range w.folders {
		if f.Name == name && ptrEqual(f.ParentID, parentID) && ptrEqual(f.OwnerID, ownerID) {
			return f, nil
		}
	}
	return folder.Folder{}, folder.ErrNotFound
}

func (w *fakeWorld) CountByOwner(_ context.Context, ownerID *uuid.UUID) (int, error) {
	n := 0
	for _, f := range w.folders {
		if ptrEqual(f.OwnerID, ownerID) {
			n++
		}
	}
	return n, nil
}

func (w *fakeWorld) Touch(_ context.Context, id uuid.UUID) error {
	f, ok := w.folders[id]
	if !ok {
		return folder.ErrNotFound
	}
	f.UpdatedAt = time.Now()
	w.folders[id] = f
	return nil
}

func (w *fakeWorld) SetParent(_ context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	f, ok := w.folders[id]
	if !ok {
		return folder.ErrNotFound
	}
	f.ParentID = parentID
	w.folders[id] = f
	return nil
}

func (w *fakeWorld) InFolder(_ context.Context, folderID uuid.UUID) ([]file.File, error) {
	var out []file.File
	for _, f := range w.files {
		if f.FolderID != nil && *f.FolderID == folderID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (w *fakeWorld) AtRoot(_ context.Context, ownerID *uuid.UUID) ([]file.File, error) {
	var out []file.File
	for _, f := range w.files {
		if f.FolderID == nil && ptrEqual(f.OwnerID, ownerID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (w *fakeWorld) ByOwner(_ context.Context, ownerID *uuid.UUID) ([]file.File, error) {
	var out []file.File
	for _, f := range w.files {
		if ptrEqual(f.OwnerID, ownerID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
