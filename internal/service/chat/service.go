package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surajkumar989/NeuralSync/internal/integrity"
	"github.com/surajkumar989/NeuralSync/internal/model/chat"
	"github.com/surajkumar989/NeuralSync/internal/service/ai"
	"github.com/surajkumar989/NeuralSync/internal/store"
)

var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrSessionNotFound = errors.New("session not found")
)

// historyWindow bounds how much prior conversation is handed to the
// responder per exchange.
const historyWindow = 10

// Service runs the exchange pipeline: responder reply, timestamping,
// fingerprinting and persistence. It also tracks transient sessions.
type Service struct {
	turns     store.ConversationStore
	responder ai.Responder
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]chat.Session
}

// NewService wires the service to its store and responder.
func NewService(turns store.ConversationStore, responder ai.Responder) *Service {
	return &Service{
		turns:     turns,
		responder: responder,
		now:       time.Now,
		sessions:  make(map[string]chat.Session),
	}
}

// WithClock overrides the timestamp source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Responder exposes the configured responder for handlers that stream.
func (s *Service) Responder() ai.Responder {
	return s.responder
}

// CreateSession provisions an anonymous session.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Exchange runs one full turn: generate the bot response, stamp the
// pair, fingerprint it and persist. The fingerprint is computed exactly
// once here; nothing downstream ever rewrites it.
func (s *Service) Exchange(ctx context.Context, sessionID, userMessage string) (chat.Turn, error) {
	if strings.TrimSpace(userMessage) == "" {
		return chat.Turn{}, ErrEmptyMessage
	}
	if sessionID != "" {
		if _, err := s.GetSession(ctx, sessionID); err != nil {
			return chat.Turn{}, err
		}
	}

	history, err := s.History(ctx)
	if err != nil {
		return chat.Turn{}, err
	}

	botResponse, err := s.responder.Respond(ctx, history, userMessage)
	if err != nil {
		return chat.Turn{}, err
	}

	return s.Record(ctx, userMessage, botResponse)
}

// Record stamps, fingerprints and persists an already-generated
// exchange. Split out so streaming handlers can persist after the last
// chunk arrives.
func (s *Service) Record(ctx context.Context, userMessage, botResponse string) (chat.Turn, error) {
	if strings.TrimSpace(userMessage) == "" {
		return chat.Turn{}, ErrEmptyMessage
	}

	turn := chat.Turn{
		UserMessage: userMessage,
		BotResponse: botResponse,
		Timestamp:   s.now().Format(chat.TimestampLayout),
	}
	turn.Fingerprint = integrity.FingerprintTurn(turn)

	id, err := s.turns.InsertTurn(ctx, turn)
	if err != nil {
		return chat.Turn{}, err
	}
	turn.ID = id

	return turn, nil
}

// History returns the most recent turns in chronological order, for
// responder context.
func (s *Service) History(ctx context.Context) ([]chat.Turn, error) {
	recent, err := s.turns.RecentTurns(ctx, historyWindow)
	if err != nil {
		return nil, err
	}

	// RecentTurns is newest-first; responders want oldest-first.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

// VerifyTurn recomputes the stored turn's fingerprint and compares it
// against the persisted value. A false result means the row no longer
// matches what was fingerprinted at creation.
func (s *Service) VerifyTurn(ctx context.Context, id int64) (chat.Turn, bool, error) {
	turn, err := s.turns.GetTurn(ctx, id)
	if err != nil {
		return chat.Turn{}, false, err
	}

	ok, err := integrity.Verify(turn, turn.Fingerprint)
	if errors.Is(err, integrity.ErrInvalidInput) {
		// A stored hash that is not even well-formed hex counts as
		// tampering, not as a bad request.
		return turn, false, nil
	}
	if err != nil {
		return chat.Turn{}, false, err
	}
	return turn, ok, nil
}

// VerifyClaim checks a caller-supplied fingerprint against the stored
// turn's current inputs. Malformed claims surface
// integrity.ErrInvalidInput; a clean mismatch is just false.
func (s *Service) VerifyClaim(ctx context.Context, id int64, claimed string) (chat.Turn, bool, error) {
	turn, err := s.turns.GetTurn(ctx, id)
	if err != nil {
		return chat.Turn{}, false, err
	}

	ok, err := integrity.Verify(turn, claimed)
	if err != nil {
		return chat.Turn{}, false, err
	}
	return turn, ok, nil
}
