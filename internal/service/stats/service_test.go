package stats_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/surajkumar989/NeuralSync/internal/integrity"
	"github.com/surajkumar989/NeuralSync/internal/model/chat"
	"github.com/surajkumar989/NeuralSync/internal/service/stats"
	"github.com/surajkumar989/NeuralSync/internal/store"
)

func seed(t *testing.T, s store.ConversationStore, user, ts string) {
	t.Helper()
	turn := chat.Turn{
		UserMessage: user,
		BotResponse: "You said: " + user,
		Timestamp:   ts,
	}
	turn.Fingerprint = integrity.FingerprintTurn(turn)
	if _, err := s.InsertTurn(context.Background(), turn); err != nil {
		t.Fatalf("InsertTurn err: %v", err)
	}
}

func TestSummarizeEmptyStore(t *testing.T) {
	turns, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	defer turns.Close()

	summary, err := stats.NewService(turns).Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize err: %v", err)
	}
	if summary.TotalMessages != 0 || summary.TotalConversations != 0 {
		t.Fatalf("expected zero totals, got %+v", summary)
	}
	if len(summary.RecentActivity) != 0 || len(summary.DailyStats) != 0 {
		t.Fatalf("expected empty series, got %+v", summary)
	}
}

func TestSummarize(t *testing.T) {
	turns, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	defer turns.Close()

	for i := 0; i < 6; i++ {
		seed(t, turns, fmt.Sprintf("day one %d", i), fmt.Sprintf("2025-01-01 10:00:%02d", i))
	}
	seed(t, turns, "day two", "2025-01-02 09:00:00")

	summary, err := stats.NewService(turns).Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize err: %v", err)
	}

	if summary.TotalMessages != 7 {
		t.Fatalf("expected 7 messages, got %d", summary.TotalMessages)
	}
	if summary.TotalConversations != summary.TotalMessages {
		t.Fatalf("conversations should mirror messages, got %+v", summary)
	}
	if len(summary.RecentActivity) != 5 {
		t.Fatalf("expected 5 recent turns, got %d", len(summary.RecentActivity))
	}
	if summary.RecentActivity[0].UserMessage != "day two" {
		t.Fatalf("recent activity not newest-first: %+v", summary.RecentActivity[0])
	}
	if len(summary.DailyStats) != 2 {
		t.Fatalf("expected 2 daily buckets, got %d", len(summary.DailyStats))
	}
	if summary.DailyStats[0].Date != "2025-01-02" || summary.DailyStats[0].Count != 1 {
		t.Fatalf("unexpected first bucket: %+v", summary.DailyStats[0])
	}
	if summary.DailyStats[1].Count != 6 {
		t.Fatalf("unexpected second bucket: %+v", summary.DailyStats[1])
	}
}
