package store

import (
	"context"
	"errors"

	"github.com/surajkumar989/NeuralSync/internal/model/chat"
)

var (
	ErrEmptyMessage = errors.New("user message is required")
	ErrTurnNotFound = errors.New("turn not found")
)

// Sort columns accepted by ListTurns.
const (
	SortByID        = "id"
	SortByTimestamp = "timestamp"
)

// ListOptions narrows and pages a history listing. Zero values mean
// "no search, newest first, first page, default page size".
type ListOptions struct {
	Query   string
	SortBy  string
	Order   string // "asc" or "desc"
	Page    int
	PerPage int
}

// Page is one page of history plus the paging metadata the UI renders.
type Page struct {
	Turns   []chat.Turn `json:"turns"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}

// DailyCount is one dashboard chart bucket.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ConversationStore persists and queries conversation turns. The
// fingerprint is stored verbatim alongside the row it describes and is
// never recomputed on the way in or out.
type ConversationStore interface {
	InsertTurn(ctx context.Context, turn chat.Turn) (int64, error)
	GetTurn(ctx context.Context, id int64) (chat.Turn, error)
	ListTurns(ctx context.Context, opts ListOptions) (Page, error)
	RecentTurns(ctx context.Context, limit int) ([]chat.Turn, error)
	DailyCounts(ctx context.Context, days int) ([]DailyCount, error)
	CountTurns(ctx context.Context) (int, error)
	Close() error
}
