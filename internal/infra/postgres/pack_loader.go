// Package postgres loads and stores question packs as JSONB rows.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ismailukman/millionaire-live/internal/domain"
)

// PackLoader loads pack JSONB from Postgres.
type PackLoader struct {
	pool *pgxpool.Pool
}

func NewPackLoader(pool *pgxpool.Pool) *PackLoader {
	return &PackLoader{pool: pool}
}

func (l *PackLoader) LoadPack(ctx context.Context, packID string) (domain.Pack, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM packs WHERE id=$1`, packID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Pack{}, fmt.Errorf("%w: %s", domain.ErrPackNotFound, packID)
	}
	if err != nil {
		return domain.Pack{}, fmt.Errorf("load pack: %w", err)
	}
	var pack domain.Pack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return domain.Pack{}, fmt.Errorf("unmarshal pack: %w", err)
	}
	return pack, nil
}

// SavePack upserts a pack row, keyed by pack id. Used by the pack import
// command and pack authoring endpoints.
func (l *PackLoader) SavePack(ctx context.Context, pack domain.Pack) error {
	if err := pack.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("marshal pack: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO packs (id, owner_id, title, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET owner_id = $2, title = $3, data = $4, updated_at = now()
	`, pack.ID, pack.OwnerID, pack.Title, raw)
	if err != nil {
		return fmt.Errorf("save pack: %w", err)
	}
	return nil
}

// ListPacks returns id/title pairs for the packs of one owner, or all packs
// when ownerID is empty.
func (l *PackLoader) ListPacks(ctx context.Context, ownerID string) ([]PackSummary, error) {
	query := `SELECT id, title FROM packs ORDER BY title`
	args := []interface{}{}
	if ownerID != "" {
		query = `SELECT id, title FROM packs WHERE owner_id=$1 ORDER BY title`
		args = append(args, ownerID)
	}
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	defer rows.Close()

	var out []PackSummary
	for rows.Next() {
		var s PackSummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("scan pack row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PackSummary is a pack listing row.
type PackSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
