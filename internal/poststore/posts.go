package poststore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// ListSummaries returns slug and title for every post in insertion order.
func (db *DB) ListSummaries(ctx context.Context) ([]models.PostSummary, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT slug, title FROM posts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("poststore: list summaries: %w", err)
	}
	defer rows.Close()

	out := []models.PostSummary{}
	for rows.Next() {
		var s models.PostSummary
		if err := rows.Scan(&s.Slug, &s.Title); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListAll returns full post records in insertion order.
func (db *DB) ListAll(ctx context.Context) ([]models.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT slug, title, markdown, created_at, updated_at FROM posts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("poststore: list all: %w", err)
	}
	defer rows.Close()

	out := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.Slug, &p.Title, &p.Markdown, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetBySlug returns the post for slug, or (nil, nil) when no post has
// that slug. Absence is a normal outcome here, not an error.
func (db *DB) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	err := db.conn.QueryRowContext(ctx,
		`SELECT slug, title, markdown, created_at, updated_at FROM posts WHERE slug = ?`, slug).
		Scan(&p.Slug, &p.Title, &p.Markdown, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("poststore: get %q: %w", slug, err)
	}
	return &p, nil
}

// Create inserts a new post. A duplicate slug fails with apperr.ErrAlreadyExists.
func (db *DB) Create(ctx context.Context, post models.Post) (*models.Post, error) {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (slug, title, markdown) VALUES (?, ?, ?)`,
		post.Slug, post.Title, post.Markdown)
	if err != nil {
		if isConstraintErr(err) {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, fmt.Errorf("poststore: create %q: %w", post.Slug, err)
	}
	return db.GetBySlug(ctx, post.Slug)
}

// Update replaces the record addressed by slug. The new record's slug may
// differ from the addressing slug, which renames the post: the old slug
// stops resolving and the new one resolves to the same article. Renaming
// onto an occupied slug fails with apperr.ErrAlreadyExists; an absent
// addressing slug fails with apperr.ErrNotFound.
func (db *DB) Update(ctx context.Context, slug string, post models.Post) (*models.Post, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET slug = ?, title = ?, markdown = ?, updated_at = CURRENT_TIMESTAMP WHERE slug = ?`,
		post.Slug, post.Title, post.Markdown, slug)
	if err != nil {
		if isConstraintErr(err) {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, fmt.Errorf("poststore: update %q: %w", slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("poststore: update %q: %w", slug, err)
	}
	if n == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.GetBySlug(ctx, post.Slug)
}

// Delete removes the post addressed by slug, failing with apperr.ErrNotFound
// when no such post exists.
func (db *DB) Delete(ctx context.Context, slug string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("poststore: delete %q: %w", slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("poststore: delete %q: %w", slug, err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func isConstraintErr(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint
}
