package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
)

// SQLRegistry implements Registry using database/sql.
// It supports both Postgres and SQLite via standard drivers.
type SQLRegistry struct {
	db *sql.DB
}

func NewSQLRegistry(db *sql.DB) *SQLRegistry {
	return &SQLRegistry{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS floot_tokens (
	id BIGINT PRIMARY KEY,
	owner TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS floot_tokens_owner_idx ON floot_tokens (owner, id);
`

func (s *SQLRegistry) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *SQLRegistry) Mint(ctx context.Context, owner string) (uint64, error) {
	if !validOwner(owner) {
		return 0, ErrInvalidOwner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mint: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var last int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM floot_tokens`).Scan(&last); err != nil {
		return 0, fmt.Errorf("mint: read last id: %w", err)
	}
	id := last + 1
	if _, err := tx.ExecContext(ctx, `INSERT INTO floot_tokens (id, owner) VALUES ($1, $2)`, id, owner); err != nil {
		return 0, fmt.Errorf("mint: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mint: commit: %w", err)
	}
	return uint64(id), nil
}

func (s *SQLRegistry) OwnerOf(ctx context.Context, id uint64) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner FROM floot_tokens WHERE id = $1`, int64(id)).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return owner, nil
}

func (s *SQLRegistry) TotalSupply(ctx context.Context) (uint64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM floot_tokens`).Scan(&n); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (s *SQLRegistry) TokenByIndex(ctx context.Context, index uint64) (uint64, error) {
	if index > math.MaxInt64 {
		return 0, ErrIndexOutOfBounds
	}
	return s.scanID(ctx, `SELECT id FROM floot_tokens ORDER BY id LIMIT 1 OFFSET $1`, int64(index))
}

func (s *SQLRegistry) BalanceOf(ctx context.Context, owner string) (uint64, error) {
	if !validOwner(owner) {
		return 0, ErrInvalidOwner
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM floot_tokens WHERE owner = $1`, owner).Scan(&n); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (s *SQLRegistry) TokenOfOwnerByIndex(ctx context.Context, owner string, index uint64) (uint64, error) {
	if index > math.MaxInt64 {
		return 0, ErrIndexOutOfBounds
	}
	return s.scanID(ctx, `SELECT id FROM floot_tokens WHERE owner = $1 ORDER BY id LIMIT 1 OFFSET $2`, owner, int64(index))
}

func (s *SQLRegistry) Transfer(ctx context.Context, from, to string, id uint64) error {
	if !validOwner(to) {
		return ErrInvalidOwner
	}
	res, err := s.db.ExecContext(ctx, `UPDATE floot_tokens SET owner = $1 WHERE id = $2 AND owner = $3`, to, int64(id), from)
	if err != nil {
		return fmt.Errorf("transfer %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 1 {
		return nil
	}
	// Distinguish a missing token from a wrong owner.
	if _, err := s.OwnerOf(ctx, id); err != nil {
		return err
	}
	return ErrNotOwner
}

func (s *SQLRegistry) scanID(ctx context.Context, query string, args ...any) (uint64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrIndexOutOfBounds
		}
		return 0, err
	}
	return uint64(id), nil
}
