package file

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nuvoryx/drive/internal/blob"
)

func TestUploadRejectsEmptyBatch(t *testing.T) {
	service, _, _, _ := newTestService()

	if _, err := service.Upload(context.Background(), uuid.New(), nil, nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("empty upload = %v, want ErrNoFiles", err)
	}
}

func TestUploadStoresClassifiedAndFormattedRecord(t *testing.T) {
	service, store, tree, blobs := newTestService()
	owner := uuid.New()

	results, err := service.Upload(context.Background(), owner, nil, []UploadItem{
		{Name: "report.pdf", Content: strings.NewReader(strings.Repeat("x", 1536))},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(results) != 1 || results[0].Status != "success" {
		t.Fatalf("results = %+v", results)
	}

	stored := store.single(t)
	if stored.OriginalName != "report.pdf" {
		t.Fatalf("OriginalName = %q", stored.OriginalName)
	}
	if stored.Category != "pdf" {
		t.Fatalf("Category = %q, want pdf", stored.Category)
	}
	if stored.Size != "1.50 KB" {
		t.Fatalf("Size = %q, want 1.50 KB", stored.Size)
	}
	if stored.OwnerID == nil || *stored.OwnerID != owner {
		t.Fatalf("OwnerID not recorded")
	}
	if _, ok := blobs.blobs[stored.StorageKey]; !ok {
		t.Fatalf("blob not saved under recorded key")
	}
	if len(tree.materialized) != 1 || tree.materialized[0] != "report.pdf" {
		t.Fatalf("materialized paths = %v", tree.materialized)
	}
}

func TestUploadMaterializesRelativePathAndTouchesParent(t *testing.T) {
	service, store, tree, _ := newTestService()
	owner := uuid.New()

	parent := uuid.New()
	tree.parentID = &parent
	tree.leaf = "notes.txt"

	_, err := service.Upload(context.Background(), owner, nil, []UploadItem{
		{Name: "notes.txt", RelativePath: "docs/2024/notes.txt", Content: strings.NewReader("hello")},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if len(tree.materialized) != 1 || tree.materialized[0] != "docs/2024/notes.txt" {
		t.Fatalf("materialized paths = %v, want the relative path", tree.materialized)
	}
	stored := store.single(t)
	if stored.FolderID == nil || *stored.FolderID != parent {
		t.Fatalf("record not placed in materialized folder")
	}
	if tree.touched[parent] != 1 {
		t.Fatalf("parent touched %d times, want 1", tree.touched[parent])
	}
}

func TestUploadSanitizesHostileNames(t *testing.T) {
	service, store, tree, _ := newTestService()

	tree.leaf = "../../etc/passwd"
	_, err := service.Upload(context.Background(), uuid.New(), nil, []UploadItem{
		{Name: "evil\x00name.txt", Content: strings.NewReader("x")},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	stored := store.single(t)
	if strings.ContainsAny(stored.OriginalName, "/\\") || strings.Contains(stored.OriginalName, "..") {
		t.Fatalf("stored name %q still carries path segments", stored.OriginalName)
	}
}

func TestUploadRollsBackBlobOnRowFailure(t *testing.T) {
	service, store, _, blobs := newTestService()
	store.createErr = errors.New("row insert boom")

	_, err := service.Upload(context.Background(), uuid.New(), nil, []UploadItem{
		{Name: "doomed.txt", Content: strings.NewReader("x")},
	})
	if err == nil {
		t.Fatalf("expected row failure to surface")
	}
	if len(blobs.blobs) != 0 {
		t.Fatalf("orphan blob left behind after row failure")
	}
}

func TestDownloadMissingBlobSurfacesError(t *testing.T) {
	service, store, _, _ := newTestService()

	record := File{ID: uuid.New(), OriginalName: "gone.txt", StorageKey: "no-such-key"}
	store.rows[record.ID] = record

	_, _, err := service.Download(context.Background(), record.ID)
	if !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("Download with missing blob = %v, want blob.ErrNotFound", err)
	}
}

func TestDownloadReturnsRecordAndContent(t *testing.T) {
	service, store, _, blobs := newTestService()

	record := File{ID: uuid.New(), OriginalName: "hello.txt", StorageKey: "key-1"}
	store.rows[record.ID] = record
	blobs.blobs["key-1"] = "hello world"

	got, content, err := service.Download(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer content.Close()

	if got.OriginalName != "hello.txt" {
		t.Fatalf("record = %+v", got)
	}
	body, err := io.ReadAll(content)
	if err != nil {
		t.Fatalf("read content: %v", err)
	}
	if string(body) != "hello world" {
		t.Fatalf("content = %q", body)
	}
}

// --- fakes ---

func newTestService() (*Service, *fakeStore, *fakeTree, *fakeBlobStore) {
	store := &fakeStore{rows: map[uuid.UUID]File{}}
	tree := &fakeTree{touched: map[uuid.UUID]int{}}
	blobs := &fakeBlobStore{blobs: map[string]string{}}
	return NewService(store, tree, blobs), store, tree, blobs
}

type fakeStore struct {
	rows      map[uuid.UUID]File
	createErr error
}

func (s *fakeStore) Create(_ context.Context, f File) (File, error) {
	if s.createErr != nil {
		return File{}, s.createErr
	}
	f.ID = uuid.New()
	s.rows[f.ID] = f
	return f, nil
}

func (s *fakeStore) Get(_ context.Context, id uuid.UUID) (File, error) {
	f, ok := s.rows[id]
	if !ok {
		return File{}, ErrNotFound
	}
	return f, nil
}

func (s *fakeStore) single(t *testing.T) File {
	t.Helper()
	if len(s.rows) != 1 {
		t.Fatalf("expected exactly one stored row, got %d", len(s.rows))
	}
	for _, f := range s.rows {
		return f
	}
	return File{}
}

// fakeTree records materialize calls and answers with a fixed placement.
type fakeTree struct {
	parentID     *uuid.UUID
	leaf         string
	materialized []string
	touched      map[uuid.UUID]int
}

func (f *fakeTree) MaterializePath(_ context.Context, _ *uuid.UUID, relativePath string, _ *uuid.UUID) (*uuid.UUID, string, error) {
	f.materialized = append(f.materialized, relativePath)
	leaf := f.leaf
	if leaf == "" {
		leaf = relativePath
	}
	return f.parentID, leaf, nil
}

func (f *fakeTree) Touch(_ context.Context, id uuid.UUID) error {
	f.touched[id]++
	return nil
}

type fakeBlobStore struct {
	blobs map[string]string
}

func (s *fakeBlobStore) Save(_ context.Context, r io.Reader, ext string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	key := blob.NewKey(ext)
	s.blobs[key] = string(content)
	return key, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, key string) {
	delete(s.blobs, key)
}

func (s *fakeBlobStore) SizeOf(_ context.Context, key string) (int64, error) {
	content, ok := s.blobs[key]
	if !ok {
		return 0, blob.ErrNotFound
	}
	return int64(len(content)), nil
}

func (s *fakeBlobStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := s.blobs[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(content)), nil
}
