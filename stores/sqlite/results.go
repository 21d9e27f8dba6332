// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mdhender/ijson/model"
)

// InsertResult inserts a Result and its Values in a single transaction
// and returns the result's assigned ID.
func (s *SQLiteStore) InsertResult(ctx context.Context, r *model.Result) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `
		INSERT INTO results (document_id, root_kind, nodes, integers, arrays, objects, max_depth, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := tx.ExecContext(ctx, query,
		r.DocumentID,
		r.RootKind,
		r.Nodes,
		r.Integers,
		r.Arrays,
		r.Objects,
		r.MaxDepth,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get result id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO result_nodes (result_id, seq, path, depth, kind, integer, length)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare result_nodes: %w", err)
	}
	defer stmt.Close()

	for _, n := range r.Values {
		var integer sql.NullInt64
		if n.Integer != nil {
			integer = sql.NullInt64{Int64: *n.Integer, Valid: true}
		}
		nres, err := stmt.ExecContext(ctx, id, n.Seq, n.Path, n.Depth, n.Kind, integer, n.Length)
		if err != nil {
			return 0, fmt.Errorf("insert result_node %q: %w", n.Path, err)
		}
		if n.ID, err = nres.LastInsertId(); err != nil {
			return 0, fmt.Errorf("get result_node id: %w", err)
		}
		n.ResultID = id
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	r.ID = id
	return id, nil
}

// GetResultByDocument returns the result for a document, or nil if the
// document has not been parsed successfully. Values are not loaded.
func (s *SQLiteStore) GetResultByDocument(ctx context.Context, documentID int64) (*model.Result, error) {
	const query = `
		SELECT id, document_id, root_kind, nodes, integers, arrays, objects, max_depth, created_at
		FROM results
		WHERE document_id = ?
	`
	var r model.Result
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, documentID).Scan(
		&r.ID, &r.DocumentID, &r.RootKind,
		&r.Nodes, &r.Integers, &r.Arrays, &r.Objects, &r.MaxDepth,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get result by document: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// GetNodes returns the flattened values of a result in walk order.
func (s *SQLiteStore) GetNodes(ctx context.Context, resultID int64) ([]*model.Node, error) {
	const query = `
		SELECT id, result_id, seq, path, depth, kind, integer, length
		FROM result_nodes
		WHERE result_id = ?
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, resultID)
	if err != nil {
		return nil, fmt.Errorf("get nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*model.Node
	for rows.Next() {
		var n model.Node
		var integer sql.NullInt64
		if err := rows.Scan(&n.ID, &n.ResultID, &n.Seq, &n.Path, &n.Depth, &n.Kind, &integer, &n.Length); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if integer.Valid {
			n.Integer = &integer.Int64
		}
		nodes = append(nodes, &n)
	}
	return nodes, rows.Err()
}
