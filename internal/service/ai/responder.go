package ai

import (
	"context"
	"fmt"

	"github.com/surajkumar989/NeuralSync/internal/model/chat"
)

// Responder produces the bot half of a conversation turn.
type Responder interface {
	Respond(ctx context.Context, history []chat.Turn, userMessage string) (string, error)
}

// EchoResponder is the default demo responder used when no model
// credentials are configured. The reply shape is part of the product's
// early demo behavior and is relied on by the frontend.
type EchoResponder struct{}

// NewEchoResponder returns the demo responder.
func NewEchoResponder() EchoResponder {
	return EchoResponder{}
}

// Respond echoes the user message back.
func (EchoResponder) Respond(_ context.Context, _ []chat.Turn, userMessage string) (string, error) {
	return fmt.Sprintf("You said: %s", userMessage), nil
}
