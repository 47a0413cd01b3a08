package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/lifemirror/lifemirror/internal/apperr"
	"github.com/lifemirror/lifemirror/internal/models"
)

// Filter matches top-level document fields by equality. Keys are JSON field
// names chosen by code, never by request input.
type Filter map[string]any

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Collection is a typed view over one collection table. Every operation is
// scoped to an owner; a record owned by someone else behaves as missing.
type Collection[T any, PT interface {
	*T
	models.Record
}] struct {
	db      *DB
	table   string
	orderBy string
	now     func() time.Time
}

// NewCollection returns a collection over table whose List results are sorted
// by orderBy (an SQL ORDER BY expression list over the row).
func NewCollection[T any, PT interface {
	*T
	models.Record
}](db *DB, table, orderBy string) *Collection[T, PT] {
	return &Collection[T, PT]{
		db:      db,
		table:   table,
		orderBy: orderBy + ", created_at ASC, id ASC",
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns every document owned by owner in collection order.
func (c *Collection[T, PT]) List(ctx context.Context, owner string) ([]T, error) {
	return c.Find(ctx, owner, nil)
}

// Find returns the owner's documents matching f in collection order.
func (c *Collection[T, PT]) Find(ctx context.Context, owner string, f Filter) ([]T, error) {
	return c.find(ctx, c.db.conn, owner, f, 0)
}

func (c *Collection[T, PT]) find(ctx context.Context, q querier, owner string, f Filter, limit int) ([]T, error) {
	where, args := f.sql()
	query := fmt.Sprintf(`SELECT owner_id, doc FROM %s WHERE owner_id = ?%s ORDER BY %s`, c.table, where, c.orderBy)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := q.QueryContext(ctx, query, append([]any{owner}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", c.table, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		doc, err := c.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate %s: %w", c.table, err)
	}
	return out, nil
}

// Get returns the document with id if owner owns it.
func (c *Collection[T, PT]) Get(ctx context.Context, owner, id string) (T, error) {
	return c.get(ctx, c.db.conn, owner, id)
}

func (c *Collection[T, PT]) get(ctx context.Context, q querier, owner, id string) (T, error) {
	row := q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT owner_id, doc FROM %s WHERE id = ? AND owner_id = ?`, c.table), id, owner)
	doc, err := c.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", c.table, id, apperr.ErrNotFound)
	}
	return doc, err
}

// Insert stores doc for owner, assigning a fresh id and timestamps.
func (c *Collection[T, PT]) Insert(ctx context.Context, owner string, doc PT) error {
	return c.insert(ctx, c.db.conn, owner, doc)
}

func (c *Collection[T, PT]) insert(ctx context.Context, q querier, owner string, doc PT) error {
	now := c.now()
	m := doc.Base()
	m.ID = uuid.NewString()
	m.OwnerID = owner
	m.CreatedAt = now
	m.UpdatedAt = now

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", c.table, err)
	}
	_, err = q.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, owner_id, doc, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`, c.table),
		m.ID, owner, string(data), now.UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("store: insert %s: %w", c.table, translate(err))
	}
	return nil
}

// Modify loads the owner's document id, applies fn and writes it back, all in
// one write transaction. If fn returns an error nothing is written.
func (c *Collection[T, PT]) Modify(ctx context.Context, owner, id string, fn func(PT) error) (T, error) {
	var out T
	err := c.db.inTx(ctx, func(tx *sql.Tx) error {
		doc, err := c.get(ctx, tx, owner, id)
		if err != nil {
			return err
		}
		if err := fn(PT(&doc)); err != nil {
			return err
		}
		if err := c.replace(ctx, tx, owner, PT(&doc)); err != nil {
			return err
		}
		out = doc
		return nil
	})
	return out, err
}

// UpsertOne finds the owner's first document matching f (in collection
// order). If one exists fn is applied with found=true and the document is
// replaced; otherwise fn is applied to a zero document which is inserted.
// It reports whether a new document was inserted.
func (c *Collection[T, PT]) UpsertOne(ctx context.Context, owner string, f Filter, fn func(doc PT, found bool) error) (T, bool, error) {
	var (
		out     T
		created bool
	)
	err := c.db.inTx(ctx, func(tx *sql.Tx) error {
		docs, err := c.find(ctx, tx, owner, f, 1)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			var doc T
			if err := fn(PT(&doc), false); err != nil {
				return err
			}
			if err := c.insert(ctx, tx, owner, PT(&doc)); err != nil {
				return err
			}
			out, created = doc, true
			return nil
		}
		doc := docs[0]
		if err := fn(PT(&doc), true); err != nil {
			return err
		}
		if err := c.replace(ctx, tx, owner, PT(&doc)); err != nil {
			return err
		}
		out = doc
		return nil
	})
	return out, created, err
}

func (c *Collection[T, PT]) replace(ctx context.Context, q querier, owner string, doc PT) error {
	m := doc.Base()
	m.UpdatedAt = c.now()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", c.table, err)
	}
	res, err := q.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET doc = ?, updated_at = ? WHERE id = ? AND owner_id = ?`, c.table),
		string(data), m.UpdatedAt.UnixNano(), m.ID, owner)
	if err != nil {
		return fmt.Errorf("store: update %s: %w", c.table, translate(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", c.table, m.ID, apperr.ErrNotFound)
	}
	return nil
}

// Delete removes the owner's document id.
func (c *Collection[T, PT]) Delete(ctx context.Context, owner, id string) error {
	res, err := c.db.conn.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND owner_id = ?`, c.table), id, owner)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", c.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", c.table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", c.table, id, apperr.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (c *Collection[T, PT]) scan(s scanner) (T, error) {
	var (
		doc   T
		owner string
		raw   string
	)
	if err := s.Scan(&owner, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return doc, err
		}
		return doc, fmt.Errorf("store: scan %s: %w", c.table, err)
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, fmt.Errorf("store: decode %s: %w", c.table, err)
	}
	PT(&doc).Base().OwnerID = owner
	return doc, nil
}

func (f Filter) sql() (string, []any) {
	if len(f) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		fmt.Fprintf(&b, " AND json_extract(doc, '$.%s') = ?", k)
		v := f[k]
		if bv, ok := v.(bool); ok {
			// json_extract yields 1/0 for JSON booleans.
			if bv {
				v = 1
			} else {
				v = 0
			}
		}
		args = append(args, v)
	}
	return b.String(), args
}

func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", translate(err))
	}
	return nil
}

// translate maps driver constraint errors onto domain kinds.
func translate(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %s", apperr.ErrConflict, se.Error())
	}
	return err
}
