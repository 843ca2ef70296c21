// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/campfire-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT ARCHIVE
// =============================================================================

// schema creates the archive tables.
const schema = `
CREATE TABLE IF NOT EXISTS messages (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	msg_id       TEXT NOT NULL,
	type         TEXT NOT NULL,
	sender       TEXT NOT NULL,
	content      TEXT NOT NULL,
	character_id TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender);
`

// Transcript is a SQLite-backed archive of campaign messages. It is
// safe for concurrent use; SQLite serializes writers internally.
type Transcript struct {
	db *sql.DB
}

// OpenTranscript opens (or creates) the archive at the given path.
func OpenTranscript(path string) (*Transcript, error) {
	if path == "" {
		return nil, errors.New("transcript path cannot be empty")
	}

	// Create database directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Transcript{db: db}, nil
}

// Close releases the database handle.
func (t *Transcript) Close() error {
	return t.db.Close()
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Append archives a message. The thinking placeholder is transient UI
// state and is never written.
func (t *Transcript) Append(msg model.Message) error {
	if msg.IsThinking() {
		return nil
	}

	createdAt := msg.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := t.db.Exec(`
		INSERT INTO messages (msg_id, type, sender, content, character_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, string(msg.Type), msg.Sender, msg.Content, msg.CharacterID, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to archive message: %w", err)
	}
	return nil
}

// Clear drops the whole archive, e.g. after a campaign reset.
func (t *Transcript) Clear() error {
	if _, err := t.db.Exec("DELETE FROM messages"); err != nil {
		return fmt.Errorf("failed to clear archive: %w", err)
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Recent returns the last n archived messages in chronological order.
func (t *Transcript) Recent(n int) ([]model.Message, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := t.db.Query(`
		SELECT msg_id, type, sender, content, character_id, created_at
		FROM messages
		ORDER BY seq DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	// Query returned newest-first; flip to chronological.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Search returns archived messages whose content or sender contains the
// term, newest first.
func (t *Transcript) Search(term string) ([]model.Message, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	pattern := "%" + escapeLike(term) + "%"
	rows, err := t.db.Query(`
		SELECT msg_id, type, sender, content, character_id, created_at
		FROM messages
		WHERE content LIKE ? ESCAPE '\' OR sender LIKE ? ESCAPE '\'
		ORDER BY seq DESC
		LIMIT 200
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search archive: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// Count returns the number of archived messages.
func (t *Transcript) Count() (int, error) {
	var n int
	if err := t.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count archive: %w", err)
	}
	return n, nil
}

func scanMessages(rows *sql.Rows) ([]model.Message, error) {
	var msgs []model.Message
	for rows.Next() {
		var (
			msg       model.Message
			msgType   string
			createdAt int64
		)
		if err := rows.Scan(&msg.ID, &msgType, &msg.Sender, &msg.Content, &msg.CharacterID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Type = model.MessageType(msgType)
		msg.Timestamp = time.Unix(createdAt, 0)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// escapeLike escapes LIKE wildcards in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
