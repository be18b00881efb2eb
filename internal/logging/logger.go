package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"storyturn/internal/game"
)

type TurnLog struct {
	ID          int       `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Turn        int       `json:"turn"`
	RawInput    string    `json:"raw_input"`
	CleanedText string    `json:"cleaned_text"`
	Message     string    `json:"message"`
	Stopped     bool      `json:"stopped"`
	Directives  string    `json:"directives"`
}

type CompletionLog struct {
	ID           int       `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	SessionState string    `json:"session_state"`
	UserInput    string    `json:"user_input"`
	SystemPrompt string    `json:"system_prompt"`
	Response     string    `json:"response"`
	Metadata     string    `json:"metadata"`
	Rating       *int      `json:"rating,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

type CompletionMetadata struct {
	Model         string        `json:"model"`
	MaxTokens     int           `json:"max_tokens"`
	ResponseTime  time.Duration `json:"response_time_ms"`
	StreamingUsed bool          `json:"streaming_used"`
	Error         *string       `json:"error,omitempty"`
}

// TurnLogger records processed turns and narrator completions for review.
type TurnLogger struct {
	db *sql.DB
}

func NewTurnLogger(db *sql.DB) (*TurnLogger, error) {
	logger := &TurnLogger{db: db}
	if err := logger.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return logger, nil
}

func (tl *TurnLogger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		turn INTEGER NOT NULL,
		raw_input TEXT NOT NULL,
		cleaned_text TEXT NOT NULL,
		message TEXT NOT NULL,
		stopped BOOLEAN NOT NULL,
		directives TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS completions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		session_state TEXT NOT NULL,
		user_input TEXT NOT NULL,
		system_prompt TEXT NOT NULL,
		response TEXT NOT NULL,
		metadata TEXT NOT NULL,
		rating INTEGER,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_turns_timestamp ON turns(timestamp);
	CREATE INDEX IF NOT EXISTS idx_completions_timestamp ON completions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_completions_rating ON completions(rating);
	`

	_, err := tl.db.Exec(schema)
	return err
}

func (tl *TurnLogger) LogTurn(turn int, rawInput, cleanedText, message string, stopped bool, directives []string) error {
	directivesJSON, err := json.Marshal(directives)
	if err != nil {
		return fmt.Errorf("failed to marshal directives: %w", err)
	}

	_, err = tl.db.Exec(`
		INSERT INTO turns (turn, raw_input, cleaned_text, message, stopped, directives)
		VALUES (?, ?, ?, ?, ?, ?)
	`, turn, rawInput, cleanedText, message, stopped, string(directivesJSON))

	return err
}

func (tl *TurnLogger) LogCompletion(
	state game.SessionState,
	userInput string,
	systemPrompt string,
	response string,
	metadata CompletionMetadata,
) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = tl.db.Exec(`
		INSERT INTO completions (session_state, user_input, system_prompt, response, metadata)
		VALUES (?, ?, ?, ?, ?)
	`, string(stateJSON), userInput, systemPrompt, response, string(metadataJSON))

	return err
}

func (tl *TurnLogger) GetRecentTurns(limit int) ([]TurnLog, error) {
	rows, err := tl.db.Query(`
		SELECT id, timestamp, turn, raw_input, cleaned_text, message, stopped, directives
		FROM turns
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []TurnLog
	for rows.Next() {
		var t TurnLog
		err := rows.Scan(&t.ID, &t.Timestamp, &t.Turn, &t.RawInput, &t.CleanedText,
			&t.Message, &t.Stopped, &t.Directives)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}

	return turns, rows.Err()
}

func (tl *TurnLogger) GetRecentCompletions(limit int) ([]CompletionLog, error) {
	rows, err := tl.db.Query(`
		SELECT id, timestamp, session_state, user_input, system_prompt, response, metadata, rating, notes
		FROM completions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []CompletionLog
	for rows.Next() {
		var c CompletionLog
		err := rows.Scan(&c.ID, &c.Timestamp, &c.SessionState, &c.UserInput,
			&c.SystemPrompt, &c.Response, &c.Metadata, &c.Rating, &c.Notes)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

func (tl *TurnLogger) RateCompletion(id int, rating int, notes string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	res, err := tl.db.Exec(`
		UPDATE completions
		SET rating = ?, notes = ?
		WHERE id = ?
	`, rating, notesPtr, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("completion %d not found", id)
	}
	return nil
}
