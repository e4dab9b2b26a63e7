package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"

	chathandler "github.com/surajkumar989/NeuralSync/internal/handler/chat"
	"github.com/surajkumar989/NeuralSync/internal/model/chat"
	chatservice "github.com/surajkumar989/NeuralSync/internal/service/chat"
	"github.com/surajkumar989/NeuralSync/pkg/utils"
)

// Handler streams chat replies over Server-Sent Events.
type Handler struct {
	chatSvc *chatservice.Service
}

// New creates a new stream handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// StreamResponse represents a streaming response chunk.
type StreamResponse struct {
	Event       string `json:"event"`
	Content     string `json:"content,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	TurnID      int64  `json:"turnId,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	HashPreview string `json:"hashPreview,omitempty"`
	Finished    bool   `json:"finished,omitempty"`
	Error       string `json:"error,omitempty"`
}

// deltaStreamer is satisfied by responders that can stream reply
// chunks (the Ark-backed responder when ARK_STREAM is on).
type deltaStreamer interface {
	StreamingEnabled() bool
	StreamReply(ctx context.Context, history []chat.Turn, userMessage string) (*schema.StreamReader[*schema.Message], error)
}

// HandleStreamRequest serves one exchange as an SSE stream and
// persists the fingerprinted turn once the full reply is known.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	if sessionID != "" {
		if _, err := h.chatSvc.GetSession(ctx, sessionID); err != nil {
			h.sendSSEError(w, flusher, "session not found")
			return err
		}
	}

	history, err := h.chatSvc.History(ctx)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to load history: %v", err))
		return err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	botResponse, err := h.generateResponse(ctx, w, flusher, sessionID, history, userMessage)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("response generation failed: %v", err))
		return err
	}

	turn, err := h.chatSvc.Record(ctx, userMessage, botResponse)
	if err != nil {
		h.sendSSEError(w, flusher, fmt.Sprintf("failed to persist turn: %v", err))
		return err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:       "fingerprint",
		SessionID:   sessionID,
		TurnID:      turn.ID,
		Fingerprint: turn.Fingerprint,
		HashPreview: chathandler.HashPreview(turn.Fingerprint),
	})

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed exchange for session=%s turn=%d", sessionID, turn.ID)
	return nil
}

// generateResponse produces the reply, streaming deltas when the
// responder supports it and falling back to a single message event.
func (h *Handler) generateResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, history []chat.Turn, userMessage string) (string, error) {
	if streamer, ok := h.chatSvc.Responder().(deltaStreamer); ok && streamer.StreamingEnabled() {
		return h.streamResponse(ctx, w, flusher, sessionID, streamer, history, userMessage)
	}

	botResponse, err := h.chatSvc.Responder().Respond(ctx, history, userMessage)
	if err != nil {
		return "", err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   botResponse,
	})
	return botResponse, nil
}

func (h *Handler) streamResponse(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, streamer deltaStreamer, history []chat.Turn, userMessage string) (string, error) {
	stream, err := streamer.StreamReply(ctx, history, userMessage)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, StreamResponse{
				Event:     "delta",
				SessionID: sessionID,
				Content:   chunk.Content,
			})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response.Content, nil
}

// sendSSE sends a Server-Sent Event.
func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

// sendSSEError sends an error via Server-Sent Events.
func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.sendSSE(w, flusher, StreamResponse{
		Event: "error",
		Error: errorMsg,
	})
}
