// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package registry persists known canisters and their interface text in a
// local SQLite database, so actors can be rebuilt without refetching the
// interface every run.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dotandev/canact/internal/errors"
	"github.com/dotandev/canact/internal/logger"
	"github.com/dotandev/canact/internal/principal"
)

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// Canister is one registered canister: a stable identity plus the interface
// text used to build its field table.
type Canister struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Principal     string    `json:"principal"`
	Network       string    `json:"network"`
	InterfaceText string    `json:"interface_text"`
	CreatedAt     time.Time `json:"created_at"`
	LastUsedAt    time.Time `json:"last_used_at"`
	SchemaVersion int       `json:"schema_version"`
}

// Store manages canister persistence in SQLite
type Store struct {
	db *sql.DB
}

// NewStore creates or opens the registry database under ~/.canact.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	canactDir := filepath.Join(homeDir, ".canact")
	if err := os.MkdirAll(canactDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .canact directory: %w", err)
	}

	return NewStoreAt(filepath.Join(canactDir, "registry.db"))
}

// NewStoreAt creates or opens the registry database at an explicit path.
func NewStoreAt(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Set file permissions to 600 (read/write for owner only)
	if err := os.Chmod(dbPath, 0600); err != nil {
		logger.Logger.Warn("Failed to set database permissions", "error", err)
	}

	return store, nil
}

// initSchema creates the canisters table if it doesn't exist
func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS canisters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		principal TEXT NOT NULL UNIQUE,
		network TEXT NOT NULL,
		interface_text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		last_used_at TIMESTAMP NOT NULL,
		schema_version INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_canisters_principal ON canisters(principal);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Add registers a canister. The principal text is validated and stored in
// canonical form; re-adding an existing name replaces its entry.
func (s *Store) Add(ctx context.Context, name, principalText, network, interfaceText string) (*Canister, error) {
	if name == "" {
		return nil, fmt.Errorf("canister name is required")
	}

	p, err := principal.FromText(principalText)
	if err != nil {
		return nil, errors.WrapInvalidPrincipal(principalText, err)
	}

	now := time.Now()
	c := &Canister{
		ID:            uuid.New().String(),
		Name:          name,
		Principal:     p.String(),
		Network:       network,
		InterfaceText: interfaceText,
		CreatedAt:     now,
		LastUsedAt:    now,
		SchemaVersion: SchemaVersion,
	}

	query := `
	INSERT INTO canisters (
		id, name, principal, network, interface_text, created_at, last_used_at, schema_version
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		principal = excluded.principal,
		network = excluded.network,
		interface_text = excluded.interface_text,
		last_used_at = excluded.last_used_at,
		schema_version = excluded.schema_version
	`

	_, err = s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Principal, c.Network, c.InterfaceText,
		c.CreatedAt.Format(time.RFC3339Nano), c.LastUsedAt.Format(time.RFC3339Nano), c.SchemaVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save canister: %w", err)
	}

	logger.Logger.Debug("Canister registered", "name", c.Name, "principal", c.Principal)
	return c, nil
}

// Get resolves a canister by registered name or by principal text.
func (s *Store) Get(ctx context.Context, nameOrPrincipal string) (*Canister, error) {
	query := `
	SELECT id, name, principal, network, interface_text, created_at, last_used_at, schema_version
	FROM canisters
	WHERE name = ? OR principal = ?
	`

	c, err := s.scanOne(s.db.QueryRowContext(ctx, query, nameOrPrincipal, nameOrPrincipal))
	if err == sql.ErrNoRows {
		return nil, errors.WrapCanisterNotFound(nameOrPrincipal)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load canister: %w", err)
	}

	// Update last_used_at on load
	c.LastUsedAt = time.Now()
	updateQuery := `UPDATE canisters SET last_used_at = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, updateQuery, c.LastUsedAt.Format(time.RFC3339Nano), c.ID); err != nil {
		logger.Logger.Warn("Failed to update last_used_at", "error", err)
	}

	return c, nil
}

// List returns every registered canister, most recently used first.
func (s *Store) List(ctx context.Context) ([]*Canister, error) {
	query := `
	SELECT id, name, principal, network, interface_text, created_at, last_used_at, schema_version
	FROM canisters
	ORDER BY last_used_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list canisters: %w", err)
	}
	defer rows.Close()

	var canisters []*Canister
	for rows.Next() {
		c, err := s.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan canister: %w", err)
		}
		canisters = append(canisters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating canisters: %w", err)
	}

	return canisters, nil
}

// Remove deletes a canister by name or principal text.
func (s *Store) Remove(ctx context.Context, nameOrPrincipal string) error {
	query := `DELETE FROM canisters WHERE name = ? OR principal = ?`
	result, err := s.db.ExecContext(ctx, query, nameOrPrincipal, nameOrPrincipal)
	if err != nil {
		return fmt.Errorf("failed to delete canister: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.WrapCanisterNotFound(nameOrPrincipal)
	}

	logger.Logger.Debug("Canister removed", "key", nameOrPrincipal)
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanOne(row scanner) (*Canister, error) {
	var c Canister
	var createdAt, lastUsedAt string

	err := row.Scan(
		&c.ID, &c.Name, &c.Principal, &c.Network, &c.InterfaceText,
		&createdAt, &lastUsedAt, &c.SchemaVersion,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps
	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if c.LastUsedAt, err = time.Parse(time.RFC3339Nano, lastUsedAt); err != nil {
		return nil, fmt.Errorf("failed to parse last_used_at: %w", err)
	}

	return &c, nil
}
