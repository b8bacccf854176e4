package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS volumes (
	id         VARCHAR PRIMARY KEY,
	path       VARCHAR NOT NULL,
	method     VARCHAR NOT NULL,
	volume     INTEGER NOT NULL,
	chapters   INTEGER NOT NULL,
	pages      INTEGER NOT NULL,
	bytes      BIGINT NOT NULL,
	format     VARCHAR NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// InitDuckDB opens the history database at path, creating its directory and schema.
func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Repository records every volume comicenc has built.
type Repository struct {
	db *sql.DB
}

// NewDuckDBRepository opens the history database stored at path.
func NewDuckDBRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveVolume inserts or replaces a record. Missing ids and timestamps are filled in.
func (r *Repository) SaveVolume(v *VolumeRecord) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO volumes (id, path, method, volume, chapters, pages, bytes, format, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Path, v.Method, v.Volume, v.Chapters, v.Pages, v.Bytes, v.Format, v.CreatedAt,
	)
	return err
}

// GetVolume returns the record with the given id, or nil when there is none.
func (r *Repository) GetVolume(id string) (*VolumeRecord, error) {
	row := r.db.QueryRow(`
		SELECT id, path, method, volume, chapters, pages, bytes, format, created_at
		FROM volumes WHERE id = ?`, id)

	v, err := scanVolume(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

// ListVolumes returns the most recent records first. limit <= 0 returns all of them.
func (r *Repository) ListVolumes(limit int) ([]*VolumeRecord, error) {
	query := `
		SELECT id, path, method, volume, chapters, pages, bytes, format, created_at
		FROM volumes ORDER BY created_at DESC, path`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volumes []*VolumeRecord
	for rows.Next() {
		v, err := scanVolume(rows)
		if err != nil {
			return nil, err
		}
		volumes = append(volumes, v)
	}
	return volumes, rows.Err()
}

// DeleteVolume forgets a record. The archive itself is not touched.
func (r *Repository) DeleteVolume(id string) error {
	_, err := r.db.Exec(`DELETE FROM volumes WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVolume(s scanner) (*VolumeRecord, error) {
	v := &VolumeRecord{}
	err := s.Scan(&v.ID, &v.Path, &v.Method, &v.Volume, &v.Chapters, &v.Pages, &v.Bytes, &v.Format, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}
