package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/notfabo/projeto-multiagents/llm"
	"github.com/notfabo/projeto-multiagents/llm/retry"
	"github.com/notfabo/projeto-multiagents/types"
)

// ExecutorConfig configures the specialist node executor.
type ExecutorConfig struct {
	// Model overrides the provider's default model.
	Model string
	// MaxAttempts bounds calls to the text-generation capability per turn,
	// counting the first. Defaults to 3.
	MaxAttempts int
	// RetryDelay is the initial backoff delay between attempts.
	RetryDelay time.Duration
	// Temperature for specialist generations.
	Temperature float32
	// MaxTokens caps a single specialist response. Zero means provider
	// default.
	MaxTokens int
}

// DefaultExecutorConfig returns the default executor configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxAttempts: 3,
		RetryDelay:  500 * time.Millisecond,
		Temperature: 0.2,
	}
}

// AgentExecutor runs one specialist turn: given the full conversation state
// it produces exactly one new message tagged with the specialist's role.
// The executor never touches shared state — appending is the engine's job,
// which keeps the executor independently testable.
type AgentExecutor struct {
	provider llm.Provider
	config   ExecutorConfig
	retryer  retry.Retryer
	logger   *zap.Logger
}

// NewAgentExecutor creates a specialist executor backed by the given provider.
func NewAgentExecutor(provider llm.Provider, config ExecutorConfig, logger *zap.Logger) *AgentExecutor {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	retryer := retry.NewBackoffRetryer(&retry.RetryPolicy{
		MaxRetries:    config.MaxAttempts - 1,
		InitialDelay:  config.RetryDelay,
		MaxDelay:      10 * time.Second,
		Multiplier:    2.0,
		Jitter:        true,
		RetryableFunc: llm.IsRetryable,
	}, logger)
	return &AgentExecutor{
		provider: provider,
		config:   config,
		retryer:  retryer,
		logger:   logger.With(zap.String("component", "agent_executor")),
	}
}

// Execute runs the specialist's turn against the full conversation state and
// returns the resulting message, tagged sender = spec.Role. Unrecoverable
// provider failure surfaces as GENERATION_ERROR.
func (e *AgentExecutor) Execute(ctx context.Context, spec types.AgentSpec, state *types.State) (types.Message, error) {
	system := agentPrompt(spec)

	resp, err := retry.DoWithResultTyped[*llm.ChatResponse](e.retryer, ctx, func() (*llm.ChatResponse, error) {
		return e.provider.Completion(ctx, &llm.ChatRequest{
			Model:       e.config.Model,
			Messages:    conversationMessages(system, state),
			Temperature: e.config.Temperature,
			MaxTokens:   e.config.MaxTokens,
		})
	})
	if err != nil {
		e.logger.Warn("agent turn failed",
			zap.String("role", spec.Role),
			zap.Int("max_attempts", e.config.MaxAttempts),
			zap.Error(err),
		)
		return types.Message{}, types.NewGenerationError(
			fmt.Sprintf("agent %q generation failed", spec.Role)).WithCause(err)
	}

	e.logger.Debug("agent turn completed",
		zap.String("role", spec.Role),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return types.NewMessage(spec.Role, resp.Text()), nil
}
