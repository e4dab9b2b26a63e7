package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/surajkumar989/NeuralSync/internal/config"
	"github.com/surajkumar989/NeuralSync/internal/model/chat"
)

const systemPrompt = "You are NeuralSync, a friendly educational assistant. " +
	"Answer concisely, prefer plain language, and when a question is ambiguous " +
	"ask one clarifying question instead of guessing."

// LLMResponder generates replies with an Ark-hosted chat model through
// an eino chain.
type LLMResponder struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewLLMResponder builds the model and compiles the prompt chain.
func NewLLMResponder(ctx context.Context, cfg config.AIConfig) (*LLMResponder, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &LLMResponder{chatModel: chatModel, cfg: cfg, chain: runnable}, nil
}

// StreamingEnabled reports whether SSE delta streaming is configured.
func (r *LLMResponder) StreamingEnabled() bool {
	return r.cfg.StreamResponse
}

// Respond runs the chain to completion and returns the reply text.
func (r *LLMResponder) Respond(ctx context.Context, history []chat.Turn, userMessage string) (string, error) {
	response, err := r.chain.Invoke(ctx, r.buildChainInput(history, userMessage))
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	log.Printf("[ai] generated response, length=%d", len(response.Content))
	return response.Content, nil
}

// StreamReply streams reply chunks from the chain. Callers own the
// returned reader and must Close it.
func (r *LLMResponder) StreamReply(ctx context.Context, history []chat.Turn, userMessage string) (*schema.StreamReader[*schema.Message], error) {
	if !r.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	stream, err := r.chain.Stream(ctx, r.buildChainInput(history, userMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to stream AI chain output: %w", err)
	}

	return stream, nil
}

func (r *LLMResponder) buildChainInput(history []chat.Turn, userMessage string) map[string]any {
	return map[string]any{
		"system":  systemPrompt,
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}
}

// buildHistoryMessages flattens persisted turns into alternating
// user/assistant messages for the prompt placeholder.
func buildHistoryMessages(history []chat.Turn) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)*2)
	for _, turn := range history {
		messages = append(messages,
			schema.UserMessage(turn.UserMessage),
			schema.AssistantMessage(turn.BotResponse, nil),
		)
	}
	return messages
}
