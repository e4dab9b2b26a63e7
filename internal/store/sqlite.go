package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/surajkumar989/NeuralSync/internal/model/chat"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// SQLiteStore implements ConversationStore on a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dsn and
// runs migrations. Use ":memory:" for tests.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations. The chat_history shape predates
// this service and must stay compatible with existing files.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_message TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			message_hash TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_timestamp ON chat_history(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertTurn persists a fingerprinted turn and returns its assigned ID.
func (s *SQLiteStore) InsertTurn(ctx context.Context, turn chat.Turn) (int64, error) {
	if strings.TrimSpace(turn.UserMessage) == "" {
		return 0, ErrEmptyMessage
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_history (user_message, bot_response, timestamp, message_hash) VALUES (?, ?, ?, ?)`,
		turn.UserMessage, turn.BotResponse, turn.Timestamp, turn.Fingerprint)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTurn retrieves a single turn by identifier.
func (s *SQLiteStore) GetTurn(ctx context.Context, id int64) (chat.Turn, error) {
	var turn chat.Turn
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_message, bot_response, timestamp, message_hash FROM chat_history WHERE id = ?`,
		id).Scan(&turn.ID, &turn.UserMessage, &turn.BotResponse, &turn.Timestamp, &turn.Fingerprint)
	if err == sql.ErrNoRows {
		return chat.Turn{}, ErrTurnNotFound
	}
	if err != nil {
		return chat.Turn{}, err
	}
	return turn, nil
}

// ListTurns returns one page of history, optionally filtered by a
// substring search over both message columns.
func (s *SQLiteStore) ListTurns(ctx context.Context, opts ListOptions) (Page, error) {
	opts = normalizeListOptions(opts)

	where := ""
	args := []interface{}{}
	if opts.Query != "" {
		where = ` WHERE user_message LIKE ? OR bot_response LIKE ?`
		pattern := "%" + opts.Query + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_history`+where, args...).Scan(&total); err != nil {
		return Page{}, err
	}

	// Sort column and direction come from a fixed whitelist; only the
	// search pattern is bound as a parameter.
	query := fmt.Sprintf(
		`SELECT id, user_message, bot_response, timestamp, message_hash FROM chat_history%s ORDER BY %s %s LIMIT ? OFFSET ?`,
		where, opts.SortBy, strings.ToUpper(opts.Order))
	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	turns, err := scanTurns(rows)
	if err != nil {
		return Page{}, err
	}

	return Page{Turns: turns, Total: total, Page: opts.Page, PerPage: opts.PerPage}, nil
}

// RecentTurns returns the newest turns, most recent first.
func (s *SQLiteStore) RecentTurns(ctx context.Context, limit int) ([]chat.Turn, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_message, bot_response, timestamp, message_hash FROM chat_history ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTurns(rows)
}

// DailyCounts groups turns by calendar day, newest day first.
func (s *SQLiteStore) DailyCounts(ctx context.Context, days int) ([]DailyCount, error) {
	if days <= 0 {
		days = 7
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DATE(timestamp) AS day, COUNT(*) FROM chat_history GROUP BY day ORDER BY day DESC LIMIT ?`,
		days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Empty result stays an empty array in JSON, not null.
	counts := []DailyCount{}
	for rows.Next() {
		var c DailyCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountTurns returns the total number of stored turns.
func (s *SQLiteStore) CountTurns(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_history`).Scan(&total)
	return total, err
}

func normalizeListOptions(opts ListOptions) ListOptions {
	switch opts.SortBy {
	case SortByID, SortByTimestamp:
	default:
		opts.SortBy = SortByID
	}
	switch strings.ToLower(opts.Order) {
	case "asc":
		opts.Order = "asc"
	default:
		opts.Order = "desc"
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 {
		opts.PerPage = defaultPerPage
	}
	if opts.PerPage > maxPerPage {
		opts.PerPage = maxPerPage
	}
	return opts
}

func scanTurns(rows *sql.Rows) ([]chat.Turn, error) {
	// Empty result stays an empty array in JSON, not null.
	turns := []chat.Turn{}
	for rows.Next() {
		var turn chat.Turn
		if err := rows.Scan(&turn.ID, &turn.UserMessage, &turn.BotResponse, &turn.Timestamp, &turn.Fingerprint); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}
