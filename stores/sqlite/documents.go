// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mdhender/ijson/model"
)

// InsertDocument inserts a Document and returns its assigned ID.
func (s *SQLiteStore) InsertDocument(ctx context.Context, doc *model.Document) (int64, error) {
	const query = `
		INSERT INTO documents (name, sha256, size, fs_path, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		doc.Name,
		doc.SHA256,
		doc.Size,
		nullString(doc.FsPath),
		doc.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get document id: %w", err)
	}
	doc.ID = id
	return id, nil
}

// GetDocumentByID returns a document by ID, or nil if not found.
func (s *SQLiteStore) GetDocumentByID(ctx context.Context, id int64) (*model.Document, error) {
	const query = `
		SELECT id, name, sha256, size, fs_path, created_at
		FROM documents
		WHERE id = ?
	`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get document by id: %w", err)
	}
	return doc, nil
}

// GetDocumentBySHA256 returns a document by SHA256 hash, or nil if not found.
func (s *SQLiteStore) GetDocumentBySHA256(ctx context.Context, sha256 string) (*model.Document, error) {
	const query = `
		SELECT id, name, sha256, size, fs_path, created_at
		FROM documents
		WHERE sha256 = ?
		LIMIT 1
	`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, sha256))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get document by sha256: %w", err)
	}
	return doc, nil
}

func scanDocument(row *sql.Row) (*model.Document, error) {
	var doc model.Document
	var fsPath sql.NullString
	var createdAt string
	if err := row.Scan(&doc.ID, &doc.Name, &doc.SHA256, &doc.Size, &fsPath, &createdAt); err != nil {
		return nil, err
	}
	doc.FsPath = fsPath.String
	doc.CreatedAt = parseTime(createdAt)
	return &doc, nil
}
