// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/vcscope-tui/internal/investor"
)

// Cache mirrors the last successfully fetched investor list into a local
// SQLite database. It is a display accelerator only: the directory service
// stays the source of truth, and a stale or missing cache is never an
// error.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS investors (
		slug       TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveInvestors replaces the cached list with the given one, atomically
// within a transaction.
func (c *Cache) SaveInvestors(list []investor.Investor) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cache write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM investors`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	now := time.Now().Unix()
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO investors (slug, data, fetched_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare cache insert: %w", err)
	}
	defer stmt.Close()

	for _, inv := range list {
		data, err := json.Marshal(inv)
		if err != nil {
			return fmt.Errorf("failed to encode investor %q: %w", inv.Name, err)
		}
		if _, err := stmt.Exec(inv.Slug(), string(data), now); err != nil {
			return fmt.Errorf("failed to cache investor %q: %w", inv.Name, err)
		}
	}

	return tx.Commit()
}

// LoadInvestors returns the cached list ordered by name. An empty cache
// yields an empty list, not an error.
func (c *Cache) LoadInvestors() ([]investor.Investor, error) {
	rows, err := c.db.Query(`SELECT data FROM investors`)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	defer rows.Close()

	var list []investor.Investor
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}
		var inv investor.Investor
		if err := json.Unmarshal([]byte(data), &inv); err != nil {
			// A corrupt row is skipped rather than poisoning the list.
			continue
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache read failed: %w", err)
	}

	investor.SortByName(list)
	return list, nil
}
