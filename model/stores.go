// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"context"
	"time"
)

// Store is an interface for persisting documents, jobs and results.
type Store interface {
	// documents

	InsertDocument(ctx context.Context, doc *Document) (int64, error)
	GetDocumentByID(ctx context.Context, id int64) (*Document, error)
	GetDocumentBySHA256(ctx context.Context, sha256 string) (*Document, error)

	// work

	InsertWork(ctx context.Context, work *Work) (int64, error)
	ClaimWork(ctx context.Context, stage, workerID string) (*Work, error)
	FinishWork(ctx context.Context, id int64, status, errorCode, errorMsg string) error
	ResetFailedWork(ctx context.Context, stage string) (int, error)
	ResetStaleWork(ctx context.Context, stage string, lockedBefore time.Time) (int, error)
	GetFailedWork(ctx context.Context, stage string) ([]Work, error)
	GetWorkSummary(ctx context.Context) (map[string]map[string]int, error)

	// results

	InsertResult(ctx context.Context, result *Result) (int64, error)
	GetResultByDocument(ctx context.Context, documentID int64) (*Result, error)
	GetNodes(ctx context.Context, resultID int64) ([]*Node, error)
}

// Stats holds store statistics.
type Stats struct {
	Documents int
	Work      int
	Results   int
	Nodes     int
}
