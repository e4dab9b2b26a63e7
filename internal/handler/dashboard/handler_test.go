package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/surajkumar989/NeuralSync/internal/integrity"
	"github.com/surajkumar989/NeuralSync/internal/model/chat"
	"github.com/surajkumar989/NeuralSync/internal/service/stats"
	"github.com/surajkumar989/NeuralSync/internal/store"
)

func TestDashboard(t *testing.T) {
	turns, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	defer turns.Close()

	for _, ts := range []string{"2025-01-01 09:00:00", "2025-01-01 10:00:00", "2025-01-02 11:00:00"} {
		turn := chat.Turn{
			UserMessage: "q",
			BotResponse: "a",
			Timestamp:   ts,
		}
		turn.Fingerprint = integrity.FingerprintTurn(turn)
		if _, err := turns.InsertTurn(context.Background(), turn); err != nil {
			t.Fatalf("InsertTurn err: %v", err)
		}
	}

	r := chi.NewRouter()
	New(stats.NewService(turns)).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var summary struct {
		TotalMessages      int `json:"totalMessages"`
		TotalConversations int `json:"totalConversations"`
		RecentActivity     []struct {
			Timestamp string `json:"timestamp"`
		} `json:"recentActivity"`
		DailyStats []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"dailyStats"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode err: %v", err)
	}

	if summary.TotalMessages != 3 || summary.TotalConversations != 3 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if len(summary.RecentActivity) != 3 {
		t.Fatalf("expected 3 recent turns, got %d", len(summary.RecentActivity))
	}
	if len(summary.DailyStats) != 2 || summary.DailyStats[0].Date != "2025-01-02" {
		t.Fatalf("unexpected daily stats: %+v", summary.DailyStats)
	}
}

func TestDashboardEmptyStoreKeepsArrays(t *testing.T) {
	turns, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	defer turns.Close()

	r := chi.NewRouter()
	New(stats.NewService(turns)).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := resp.Body.String()
	if strings.Contains(body, "null") {
		t.Fatalf("empty series must marshal as [], got:\n%s", body)
	}
	for _, field := range []string{`"recentActivity":[]`, `"dailyStats":[]`} {
		if !strings.Contains(body, field) {
			t.Fatalf("missing %s in payload:\n%s", field, body)
		}
	}
}
