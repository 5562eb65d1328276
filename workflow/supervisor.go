package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notfabo/projeto-multiagents/llm"
	"github.com/notfabo/projeto-multiagents/llm/retry"
	"github.com/notfabo/projeto-multiagents/types"
)

// RouteDecision is the supervisor's verdict for one turn: either act with a
// named specialist, or terminate the run. Tagged variant — no other states
// exist.
type RouteDecision struct {
	Role      string
	Terminate bool
}

// Act returns a decision that dispatches to the given specialist.
func Act(role string) RouteDecision { return RouteDecision{Role: role} }

// Finish is the terminal decision.
var Finish = RouteDecision{Terminate: true}

// SupervisorConfig configures the supervisor router.
type SupervisorConfig struct {
	// Model overrides the provider's default model.
	Model string
	// MaxAttempts bounds the number of calls to the text-generation
	// capability per decision, counting the first. Defaults to 3.
	MaxAttempts int
	// RetryDelay is the initial backoff delay between attempts.
	RetryDelay time.Duration
	// Temperature for the routing call. Low by default; routing wants
	// determinism, not creativity.
	Temperature float32
}

// DefaultSupervisorConfig returns the default supervisor configuration.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		MaxAttempts: 3,
		RetryDelay:  500 * time.Millisecond,
		Temperature: 0.0,
	}
}

// Supervisor decides, turn by turn, which specialist acts next. The actual
// choice is delegated to the text-generation capability, constrained to
// answer with exactly one token from the roster roles plus FinishToken.
type Supervisor struct {
	provider llm.Provider
	config   SupervisorConfig
	retryer  retry.Retryer
	logger   *zap.Logger
}

// NewSupervisor creates a supervisor router backed by the given provider.
func NewSupervisor(provider llm.Provider, config SupervisorConfig, logger *zap.Logger) *Supervisor {
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
		MaxRetries:   config.MaxAttempts - 1,
		InitialDelay: config.RetryDelay,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
		// transient provider failures and malformed decisions are both
		// retried with the same input; accepted output is never duplicated
		// because the caller appends only the final decision
		RetryableFunc: func(err error) bool {
			return llm.IsRetryable(err) || types.IsRetryable(err)
		},
	}, logger)
	return &Supervisor{
		provider: provider,
		config:   config,
		retryer:  retryer,
		logger:   logger.With(zap.String("component", "supervisor")),
	}
}

// Decide inspects the conversation and returns the next route. The returned
// token is matched exactly (after trimming incidental whitespace) against
// the graph's closed token set; any other token is a ROUTING_ERROR — never
// silently mapped to a default node or silently terminated.
func (s *Supervisor) Decide(ctx context.Context, g *Graph, state *types.State) (RouteDecision, error) {
	system := supervisorPrompt(g.Roles())

	decision, err := retry.DoWithResultTyped[RouteDecision](s.retryer, ctx, func() (RouteDecision, error) {
		req := &llm.ChatRequest{
			Model:       s.config.Model,
			Messages:    conversationMessages(system, state),
			Temperature: s.config.Temperature,
		}
		resp, err := s.provider.Completion(ctx, req)
		if err != nil {
			return RouteDecision{}, err
		}

		raw := strings.TrimSpace(resp.Text())
		node, ok := g.Dispatch(raw)
		if !ok {
			// invalid token is treated like a malformed response: retried
			// with the same input up to the attempt bound
			return RouteDecision{}, types.NewRoutingError(
				fmt.Sprintf("supervisor decision %q matches no allowed token", raw)).
				WithRetryable(true)
		}
		if node == TerminateNode {
			return Finish, nil
		}
		return Act(node), nil
	})
	if err != nil {
		s.logger.Warn("supervisor decision failed",
			zap.Int("max_attempts", s.config.MaxAttempts),
			zap.Error(err),
		)
		if types.IsErrorCode(err, types.ErrRouting) {
			return RouteDecision{}, types.AsError(err).WithRetryable(false)
		}
		return RouteDecision{}, types.NewRoutingError("supervisor routing failed").WithCause(err)
	}

	if decision.Terminate {
		s.logger.Debug("supervisor decided to finish")
	} else {
		s.logger.Debug("supervisor selected next agent", zap.String("role", decision.Role))
	}
	return decision, nil
}
