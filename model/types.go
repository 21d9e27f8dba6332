// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"time"
)

// Document is an input file that has been ingested for parsing.
type Document struct {
	ID        int64     `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"` // original filename
	SHA256    string    `json:"sha256"    db:"sha256"`
	Size      int64     `json:"size"      db:"size"`
	FsPath    string    `json:"fsPath"    db:"fs_path"` // relative to the data directory
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Work stages.
const (
	WorkStageParse = "parse"
)

// Work statuses.
const (
	WorkStatusQueued  = "queued"
	WorkStatusRunning = "running"
	WorkStatusOk      = "ok"
	WorkStatusFailed  = "failed"
)

// Work is a queued job for one document.
type Work struct {
	ID           int64      `json:"id"                     db:"id"`
	DocumentID   int64      `json:"documentId"             db:"document_id"`
	Stage        string     `json:"stage"                  db:"stage"`
	Status       string     `json:"status"                 db:"status"`
	Attempt      int        `json:"attempt"                db:"attempt"`
	AvailableAt  time.Time  `json:"availableAt"            db:"available_at"`
	LockedBy     *string    `json:"lockedBy,omitempty"     db:"locked_by"`
	LockedAt     *time.Time `json:"lockedAt,omitempty"     db:"locked_at"`
	StartedAt    *time.Time `json:"startedAt,omitempty"    db:"started_at"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"   db:"finished_at"`
	ErrorCode    *string    `json:"errorCode,omitempty"    db:"error_code"`
	ErrorMessage *string    `json:"errorMessage,omitempty" db:"error_message"`
}

// Result is the outcome of a successful parse of a Document.
type Result struct {
	ID         int64     `json:"id"         db:"id"`
	DocumentID int64     `json:"documentId" db:"document_id"`
	RootKind   string    `json:"rootKind"   db:"root_kind"` // integer|array|object
	Nodes      int       `json:"nodes"      db:"nodes"`
	Integers   int       `json:"integers"   db:"integers"`
	Arrays     int       `json:"arrays"     db:"arrays"`
	Objects    int       `json:"objects"    db:"objects"`
	MaxDepth   int       `json:"maxDepth"   db:"max_depth"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`

	Values []*Node `json:"values,omitempty" db:"-"` // stored in result_nodes
}

// Node is one value of a parsed tree, flattened.
// Seq is the pre-order position (1-based), so ordering by Seq rebuilds the walk.
type Node struct {
	ID       int64  `json:"id"                db:"id"`
	ResultID int64  `json:"resultId"          db:"result_id"`
	Seq      int    `json:"seq"               db:"seq"`
	Path     string `json:"path"              db:"path"` // e.g. "$.a[2]"
	Depth    int    `json:"depth"             db:"depth"`
	Kind     string `json:"kind"              db:"kind"`
	Integer  *int64 `json:"integer,omitempty" db:"integer"` // set for integers only
	Length   int    `json:"length"            db:"length"`
}
