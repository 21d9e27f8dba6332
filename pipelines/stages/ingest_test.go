// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mdhender/ijson/model"
	"github.com/mdhender/ijson/pipelines/stages"
	"github.com/spf13/afero"
)

// mockStore implements stages.IngestStore for testing.
type mockStore struct {
	documents   map[int64]*model.Document
	work        map[int64]*model.Work
	sha256Index map[string]*model.Document

	nextDocID  int64
	nextWorkID int64

	insertWorkErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		documents:   make(map[int64]*model.Document),
		work:        make(map[int64]*model.Work),
		sha256Index: make(map[string]*model.Document),
		nextDocID:   1,
		nextWorkID:  1,
	}
}

func (m *mockStore) GetDocumentBySHA256(_ context.Context, sha256 string) (*model.Document, error) {
	return m.sha256Index[sha256], nil
}

func (m *mockStore) InsertDocument(_ context.Context, doc *model.Document) (int64, error) {
	id := m.nextDocID
	m.nextDocID++
	doc.ID = id
	m.documents[id] = doc
	m.sha256Index[doc.SHA256] = doc
	return id, nil
}

func (m *mockStore) InsertWork(_ context.Context, work *model.Work) (int64, error) {
	if m.insertWorkErr != nil {
		return 0, m.insertWorkErr
	}
	id := m.nextWorkID
	m.nextWorkID++
	work.ID = id
	m.work[id] = work
	return id, nil
}

const (
	sampleInput = "{ a : [1, 2] }"
	sampleHash  = "269bfd782b15b7c4d0e9438ecd5ff59aa17efa6a8f98486c0b698b169502cd1f"
)

func TestIngestService_IngestFile(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	fs := afero.NewMemMapFs()

	svc := stages.NewIngestService(store, "/data")
	svc.SetFS(fs)

	result, err := svc.IngestFile(ctx, stages.IngestRequest{
		Filename: "inputs/Sample.JSON",
		Data:     []byte(sampleInput),
	})
	if err != nil {
		t.Fatalf("ingest file: %v", err)
	}
	if result.Duplicate {
		t.Error("expected not duplicate on first ingest")
	}
	if result.DocumentID == 0 {
		t.Error("expected non-zero document ID")
	}
	if result.WorkID == 0 {
		t.Error("expected non-zero work ID")
	}
	if result.Size != int64(len(sampleInput)) {
		t.Errorf("size = %d, want %d", result.Size, len(sampleInput))
	}

	doc := store.documents[result.DocumentID]
	if doc == nil {
		t.Fatal("document not found in store")
	}
	if doc.Name != "Sample.JSON" {
		t.Errorf("name = %q, want %q", doc.Name, "Sample.JSON")
	}
	if doc.SHA256 != sampleHash {
		t.Errorf("sha256 = %q, want %q", doc.SHA256, sampleHash)
	}
	wantPath := "documents/26/" + sampleHash + ".json"
	if doc.FsPath != wantPath {
		t.Errorf("fs_path = %q, want %q", doc.FsPath, wantPath)
	}

	work := store.work[result.WorkID]
	if work == nil {
		t.Fatal("work not found in store")
	}
	if work.Stage != model.WorkStageParse {
		t.Errorf("stage = %q, want %q", work.Stage, model.WorkStageParse)
	}
	if work.Status != model.WorkStatusQueued {
		t.Errorf("status = %q, want %q", work.Status, model.WorkStatusQueued)
	}
	if work.DocumentID != result.DocumentID {
		t.Errorf("work document = %d, want %d", work.DocumentID, result.DocumentID)
	}

	data, err := afero.ReadFile(fs, "/data/"+wantPath)
	if err != nil {
		t.Fatalf("read copied file: %v", err)
	}
	if string(data) != sampleInput {
		t.Errorf("copied file = %q, want %q", data, sampleInput)
	}
}

func TestIngestService_DuplicateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()

	svc := stages.NewIngestService(store, "/data")
	svc.SetFS(afero.NewMemMapFs())

	req := stages.IngestRequest{Filename: "a.json", Data: []byte(sampleInput)}
	result1, err := svc.IngestFile(ctx, req)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	// same content under a different name is still a duplicate
	req.Filename = "b.json"
	result2, err := svc.IngestFile(ctx, req)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if !result2.Duplicate {
		t.Error("expected duplicate=true on second ingest")
	}
	if result2.DocumentID != result1.DocumentID {
		t.Error("expected same document ID for duplicate")
	}
	if result2.WorkID != 0 {
		t.Error("expected zero work ID for duplicate (no new work created)")
	}
	if len(store.work) != 1 {
		t.Errorf("work rows = %d, want 1", len(store.work))
	}
}

func TestIngestService_IngestPath(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/in/plain", []byte("42"), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	svc := stages.NewIngestService(store, "/data")
	svc.SetFS(fs)

	result, err := svc.IngestPath(ctx, "/in/plain")
	if err != nil {
		t.Fatalf("ingest path: %v", err)
	}
	doc := store.documents[result.DocumentID]
	if doc.Name != "plain" {
		t.Errorf("name = %q, want %q", doc.Name, "plain")
	}
	// files without an extension are stored as text
	if got := doc.FsPath[len(doc.FsPath)-4:]; got != ".txt" {
		t.Errorf("fs_path extension = %q, want %q", got, ".txt")
	}

	_, err = svc.IngestPath(ctx, "/in/missing")
	var writeErr *stages.ErrWriteFile
	if !errors.As(err, &writeErr) {
		t.Fatalf("missing file error = %v, want *ErrWriteFile", err)
	}
	if writeErr.Op != "read" {
		t.Errorf("op = %q, want %q", writeErr.Op, "read")
	}
}

func TestIngestService_IngestFiles(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()

	svc := stages.NewIngestService(store, "/data")
	svc.SetFS(afero.NewMemMapFs())

	files := []stages.IngestRequest{
		{Filename: "one.json", Data: []byte("1")},
		{Filename: "two.json", Data: []byte("[2]")},
		{Filename: "three.json", Data: []byte("{c:3}")},
		{Filename: "again.json", Data: []byte("1")},
	}

	results, err := svc.IngestFiles(ctx, files)
	if err != nil {
		t.Fatalf("ingest files: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	if !results[3].Duplicate {
		t.Error("expected the repeated content to be a duplicate")
	}
	if len(store.work) != 3 {
		t.Errorf("work rows = %d, want 3", len(store.work))
	}
}

func TestIngestService_DatabaseError(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	store.insertWorkErr = errors.New("disk full")

	svc := stages.NewIngestService(store, "/data")
	svc.SetFS(afero.NewMemMapFs())

	_, err := svc.IngestFile(ctx, stages.IngestRequest{Filename: "x.json", Data: []byte("1")})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := stages.ErrorCode(err); code != stages.ErrCodeDatabase {
		t.Errorf("ErrorCode = %q, want %q", code, stages.ErrCodeDatabase)
	}
}
