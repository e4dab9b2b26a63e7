// Package stats assembles the dashboard aggregates.
package stats

import (
	"context"

	"github.com/surajkumar989/NeuralSync/internal/model/chat"
	"github.com/surajkumar989/NeuralSync/internal/store"
)

const (
	recentLimit = 5
	dailyWindow = 7
)

// Summary is the dashboard payload.
type Summary struct {
	TotalMessages      int                `json:"totalMessages"`
	TotalConversations int                `json:"totalConversations"`
	RecentActivity     []chat.Turn        `json:"recentActivity"`
	DailyStats         []store.DailyCount `json:"dailyStats"`
}

// Service reads dashboard aggregates from the conversation store.
type Service struct {
	turns store.ConversationStore
}

// NewService binds the stats service to its store.
func NewService(turns store.ConversationStore) *Service {
	return &Service{turns: turns}
}

// Summarize builds the dashboard summary: totals, the five newest
// turns, and per-day counts for the last week. Each exchange counts as
// one conversation.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	total, err := s.turns.CountTurns(ctx)
	if err != nil {
		return Summary{}, err
	}

	recent, err := s.turns.RecentTurns(ctx, recentLimit)
	if err != nil {
		return Summary{}, err
	}

	daily, err := s.turns.DailyCounts(ctx, dailyWindow)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		TotalMessages:      total,
		TotalConversations: total,
		RecentActivity:     recent,
		DailyStats:         daily,
	}, nil
}
