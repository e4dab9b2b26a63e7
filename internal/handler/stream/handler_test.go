package stream

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/surajkumar989/NeuralSync/internal/service/ai"
	chatservice "github.com/surajkumar989/NeuralSync/internal/service/chat"
	"github.com/surajkumar989/NeuralSync/internal/store"
)

func newHandler(t *testing.T) (*Handler, *chatservice.Service) {
	t.Helper()
	turns, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	t.Cleanup(func() { turns.Close() })

	chatSvc := chatservice.NewService(turns, ai.NewEchoResponder())
	return New(chatSvc), chatSvc
}

func TestHandleStreamRequestPersistsTurn(t *testing.T) {
	handler, chatSvc := newHandler(t)
	resp := httptest.NewRecorder()

	if err := handler.HandleStreamRequest(context.Background(), resp, "", "Hello"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	body := resp.Body.String()
	for _, event := range []string{`"event":"start"`, `"event":"message"`, `"event":"fingerprint"`, `"event":"end"`} {
		if !strings.Contains(body, event) {
			t.Fatalf("missing %s in stream:\n%s", event, body)
		}
	}
	if !strings.Contains(body, "You said: Hello") {
		t.Fatalf("missing echoed reply in stream:\n%s", body)
	}

	// The turn must be on disk with a valid fingerprint.
	turn, valid, err := chatSvc.VerifyTurn(context.Background(), 1)
	if err != nil {
		t.Fatalf("VerifyTurn err: %v", err)
	}
	if !valid {
		t.Fatalf("persisted turn must verify: %+v", turn)
	}
	if turn.UserMessage != "Hello" {
		t.Fatalf("unexpected persisted message: %q", turn.UserMessage)
	}
}

func TestHandleStreamRequestUnknownSession(t *testing.T) {
	handler, _ := newHandler(t)
	resp := httptest.NewRecorder()

	err := handler.HandleStreamRequest(context.Background(), resp, "missing", "Hello")
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	if !strings.Contains(resp.Body.String(), `"event":"error"`) {
		t.Fatalf("expected error event in stream:\n%s", resp.Body.String())
	}
}

func TestHandleStreamRequestKnownSession(t *testing.T) {
	handler, chatSvc := newHandler(t)
	session, err := chatSvc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, session.ID, "hi"); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}
	if !strings.Contains(resp.Body.String(), session.ID) {
		t.Fatalf("expected session ID echoed in stream:\n%s", resp.Body.String())
	}
}
