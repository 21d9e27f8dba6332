// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mdhender/ijson/model"
	"github.com/spf13/afero"
)

// IngestService copies input files into the data directory and queues them for parsing.
type IngestService struct {
	store   IngestStore
	dataDir string
	fs      afero.Fs
}

// IngestStore defines the store operations needed by IngestService.
type IngestStore interface {
	GetDocumentBySHA256(ctx context.Context, sha256 string) (*model.Document, error)
	InsertDocument(ctx context.Context, doc *model.Document) (int64, error)
	InsertWork(ctx context.Context, work *model.Work) (int64, error)
}

// NewIngestService creates a new IngestService.
func NewIngestService(store IngestStore, dataDir string) *IngestService {
	return &IngestService{
		store:   store,
		dataDir: dataDir,
		fs:      afero.NewOsFs(),
	}
}

// SetFS sets the filesystem for testing.
func (s *IngestService) SetFS(fs afero.Fs) {
	s.fs = fs
}

// IngestRequest contains the parameters for ingesting a file.
type IngestRequest struct {
	Filename string // original filename
	Data     []byte // file content
}

// IngestResult contains the result of an ingest operation.
type IngestResult struct {
	DocumentID int64
	WorkID     int64
	Size       int64
	Duplicate  bool // true if file was already ingested (idempotent no-op)
}

// IngestFile ingests a single file into the pipeline.
// Returns IngestResult with Duplicate=true if the content already exists (idempotent no-op).
func (s *IngestService) IngestFile(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	hash := sha256.Sum256(req.Data)
	hashStr := hex.EncodeToString(hash[:])

	existing, err := s.store.GetDocumentBySHA256(ctx, hashStr)
	if err != nil {
		return nil, &ErrDatabase{Op: "check duplicate", Err: err}
	}
	if existing != nil {
		return &IngestResult{
			DocumentID: existing.ID,
			Size:       existing.Size,
			Duplicate:  true,
		}, nil
	}

	fsPath := documentPath(hashStr, req.Filename)
	fullPath := filepath.Join(s.dataDir, fsPath)

	if err := s.fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, &ErrWriteFile{Op: "mkdir", Path: filepath.Dir(fullPath), Err: err}
	}
	if err := afero.WriteFile(s.fs, fullPath, req.Data, 0644); err != nil {
		return nil, &ErrWriteFile{Op: "write", Path: fullPath, Err: err}
	}

	doc := &model.Document{
		Name:      filepath.Base(req.Filename),
		SHA256:    hashStr,
		Size:      int64(len(req.Data)),
		FsPath:    fsPath,
		CreatedAt: time.Now().UTC(),
	}
	docID, err := s.store.InsertDocument(ctx, doc)
	if err != nil {
		return nil, &ErrDatabase{Op: "insert document", Err: err}
	}

	work := &model.Work{
		DocumentID:  docID,
		Stage:       model.WorkStageParse,
		Status:      model.WorkStatusQueued,
		Attempt:     0,
		AvailableAt: time.Now().UTC(),
	}
	workID, err := s.store.InsertWork(ctx, work)
	if err != nil {
		return nil, &ErrDatabase{Op: "insert work", Err: err}
	}

	return &IngestResult{
		DocumentID: docID,
		WorkID:     workID,
		Size:       doc.Size,
		Duplicate:  false,
	}, nil
}

// IngestPath reads a file from the service's filesystem and ingests it.
func (s *IngestService) IngestPath(ctx context.Context, path string) (*IngestResult, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, &ErrWriteFile{Op: "read", Path: path, Err: err}
	}
	return s.IngestFile(ctx, IngestRequest{Filename: path, Data: data})
}

// IngestFiles ingests multiple files, stopping at the first error.
func (s *IngestService) IngestFiles(ctx context.Context, files []IngestRequest) ([]IngestResult, error) {
	var results []IngestResult
	for _, file := range files {
		result, err := s.IngestFile(ctx, file)
		if err != nil {
			return results, fmt.Errorf("%s: %w", file.Filename, err)
		}
		results = append(results, *result)
	}
	return results, nil
}

// documentPath returns the path of a document relative to the data directory.
// Documents are sharded by the first two characters of their hash.
// Example: documents/3f/3f2a...c9.json
func documentPath(hash, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".txt"
	}
	return filepath.Join("documents", hash[:2], hash+ext)
}
