// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mdhender/ijson"
	"github.com/mdhender/ijson/model"
	"github.com/spf13/afero"
)

// WorkerService claims and executes pipeline jobs.
type WorkerService struct {
	store    WorkerStore
	dataDir  string
	workerID string
	fs       afero.Fs
	options  []ijson.Option
}

// WorkerStore defines the store operations needed by WorkerService.
type WorkerStore interface {
	ClaimWork(ctx context.Context, stage, workerID string) (*model.Work, error)
	FinishWork(ctx context.Context, id int64, status, errorCode, errorMsg string) error
	GetDocumentByID(ctx context.Context, id int64) (*model.Document, error)
	InsertResult(ctx context.Context, result *model.Result) (int64, error)
}

// NewWorkerService creates a new WorkerService.
// The options are passed to ijson.Parse for every document.
func NewWorkerService(store WorkerStore, dataDir, workerID string, options ...ijson.Option) *WorkerService {
	if workerID == "" {
		hostname, _ := os.Hostname()
		workerID = fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), uuid.NewString()[:8])
	}
	return &WorkerService{
		store:    store,
		dataDir:  dataDir,
		workerID: workerID,
		fs:       afero.NewOsFs(),
		options:  options,
	}
}

// SetFS sets the filesystem for testing.
func (w *WorkerService) SetFS(fs afero.Fs) {
	w.fs = fs
}

// WorkerID returns the identifier the worker claims jobs with.
func (w *WorkerService) WorkerID() string {
	return w.workerID
}

// WorkResult represents the outcome of executing a job.
type WorkResult struct {
	Success      bool
	ErrorCode    string
	ErrorMessage string
}

// ClaimJob atomically claims a queued job for the given stage.
// Returns nil if no work is available.
func (w *WorkerService) ClaimJob(ctx context.Context, stage string) (*model.Work, error) {
	return w.store.ClaimWork(ctx, stage, w.workerID)
}

// ExecuteParse reads a document, parses it, and stores the flattened tree.
func (w *WorkerService) ExecuteParse(ctx context.Context, job *model.Work, doc *model.Document) error {
	fullPath := filepath.Join(w.dataDir, doc.FsPath)
	data, err := afero.ReadFile(w.fs, fullPath)
	if err != nil {
		return &ErrWriteFile{Op: "read", Path: fullPath, Err: err}
	}

	options := append([]ijson.Option{ijson.WithSource(doc.Name)}, w.options...)
	root, err := ijson.Parse(string(data), options...)
	if err != nil {
		return &ErrParse{Path: doc.Name, Err: err}
	}

	result := NewResult(root)
	result.DocumentID = job.DocumentID
	if _, err := w.store.InsertResult(ctx, result); err != nil {
		return &ErrDatabase{Op: "insert result", Err: err}
	}

	return nil
}

// NewResult summarizes a parsed tree and flattens it into nodes in walk order.
func NewResult(root ijson.Value) *model.Result {
	stats := ijson.Measure(root)
	result := &model.Result{
		RootKind:  root.Kind().String(),
		Nodes:     stats.Nodes,
		Integers:  stats.Integers,
		Arrays:    stats.Arrays,
		Objects:   stats.Objects,
		MaxDepth:  stats.MaxDepth,
		CreatedAt: time.Now().UTC(),
		Values:    make([]*model.Node, 0, stats.Nodes),
	}
	_ = ijson.Walk(root, func(path string, depth int, v ijson.Value) error {
		node := &model.Node{
			Seq:    len(result.Values) + 1,
			Path:   path,
			Depth:  depth,
			Kind:   v.Kind().String(),
			Length: v.Len(),
		}
		if n, err := v.AsInteger(); err == nil {
			node.Integer = &n
		}
		result.Values = append(result.Values, node)
		return nil
	})
	return result
}

// FinishJob marks a job as completed (ok or failed) based on the result.
func (w *WorkerService) FinishJob(ctx context.Context, job *model.Work, result WorkResult) error {
	status := model.WorkStatusOk
	errorCode := ""
	errorMsg := ""

	if !result.Success {
		status = model.WorkStatusFailed
		errorCode = result.ErrorCode
		errorMsg = result.ErrorMessage
	}

	return w.store.FinishWork(ctx, job.ID, status, errorCode, errorMsg)
}

// GetDocument retrieves the document associated with a job.
func (w *WorkerService) GetDocument(ctx context.Context, job *model.Work) (*model.Document, error) {
	return w.store.GetDocumentByID(ctx, job.DocumentID)
}

// ProcessJob claims, executes, and finishes a single job for the given stage.
// Returns (jobProcessed, error). jobProcessed is true if a job was claimed.
// A job that fails is recorded in the store and its error is returned.
func (w *WorkerService) ProcessJob(ctx context.Context, stage string) (bool, error) {
	job, err := w.ClaimJob(ctx, stage)
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	doc, err := w.GetDocument(ctx, job)
	if err != nil {
		_ = w.FinishJob(ctx, job, WorkResult{
			Success:      false,
			ErrorCode:    ErrCodeDatabase,
			ErrorMessage: fmt.Sprintf("get document: %v", err),
		})
		return true, &ErrDatabase{Op: "get document", Err: err}
	}
	if doc == nil {
		_ = w.FinishJob(ctx, job, WorkResult{
			Success:      false,
			ErrorCode:    ErrCodeDatabase,
			ErrorMessage: "document not found",
		})
		return true, &ErrDatabase{Op: "get document", Err: fmt.Errorf("document %d not found", job.DocumentID)}
	}

	var execErr error
	switch stage {
	case model.WorkStageParse:
		execErr = w.ExecuteParse(ctx, job, doc)
	default:
		execErr = fmt.Errorf("unknown stage: %s", stage)
	}

	if execErr != nil {
		_ = w.FinishJob(ctx, job, WorkResult{
			Success:      false,
			ErrorCode:    ErrorCode(execErr),
			ErrorMessage: execErr.Error(),
		})
		return true, execErr
	}

	if err := w.FinishJob(ctx, job, WorkResult{Success: true}); err != nil {
		return true, fmt.Errorf("finish job: %w", err)
	}

	return true, nil
}

// DrainResult counts the jobs processed by Drain.
type DrainResult struct {
	Ok     int
	Failed int
}

// Drain processes jobs for the given stage until none are left or ctx is done.
// Failed jobs are counted and recorded; only store errors while claiming stop the drain.
func (w *WorkerService) Drain(ctx context.Context, stage string) (DrainResult, error) {
	var dr DrainResult
	for {
		if err := ctx.Err(); err != nil {
			return dr, err
		}
		processed, err := w.ProcessJob(ctx, stage)
		if !processed {
			return dr, err
		}
		if err != nil {
			dr.Failed++
			continue
		}
		dr.Ok++
	}
}
