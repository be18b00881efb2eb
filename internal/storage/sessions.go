package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"storyturn/internal/game"
)

var ErrSaveNotFound = errors.New("save not found")

// Snapshot is what a save persists: the session state and recent history.
type Snapshot struct {
	State   game.SessionState `json:"state" yaml:"state"`
	History []string          `json:"history" yaml:"history"`
}

type SaveRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Turn      int       `json:"turn"`
	Note      string    `json:"authors_note"`
}

// Open opens (or creates) the sqlite database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// SessionStore saves and loads sessions. It implements directive.SessionStore.
type SessionStore struct {
	db      *sql.DB
	history *game.History
	newID   func() string
}

func NewSessionStore(db *sql.DB, history *game.History) (*SessionStore, error) {
	store := &SessionStore{db: db, history: history, newID: uuid.NewString}
	if err := store.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (s *SessionStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		turn INTEGER NOT NULL,
		authors_note TEXT NOT NULL,
		snapshot TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_created_at ON saves(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save persists state under a fresh id and tells the player how to load it.
func (s *SessionStore) Save(state *game.SessionState) error {
	snapshot := Snapshot{State: *state}
	if s.history != nil {
		snapshot.History = s.history.GetEntries()
	}

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		state.Message = "Unable to save game."
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	id := s.newID()
	_, err = s.db.Exec(`
		INSERT INTO saves (id, turn, authors_note, snapshot)
		VALUES (?, ?, ?, ?)
	`, id, state.Turn, state.AuthorsNote, string(snapshotJSON))
	if err != nil {
		state.Message = "Unable to save game."
		return fmt.Errorf("failed to insert save: %w", err)
	}

	state.Message = "Game saved! Load with /load " + id
	return nil
}

// Load restores the state and history stored under id.
func (s *SessionStore) Load(id string, state *game.SessionState) error {
	snapshot, err := s.Get(id)
	if err != nil {
		return err
	}

	state.Restore(snapshot.State)
	if s.history != nil {
		s.history.Restore(snapshot.History)
	}
	return nil
}

func (s *SessionStore) Get(id string) (*Snapshot, error) {
	var raw string
	err := s.db.QueryRow(`SELECT snapshot FROM saves WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save %s: %w", id, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse save %s: %w", id, err)
	}
	return &snapshot, nil
}

func (s *SessionStore) List(limit int) ([]SaveRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, turn, authors_note
		FROM saves
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saves []SaveRecord
	for rows.Next() {
		var r SaveRecord
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Turn, &r.Note); err != nil {
			return nil, err
		}
		saves = append(saves, r)
	}

	return saves, rows.Err()
}
