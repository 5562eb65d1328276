package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/notfabo/projeto-multiagents/types"
)

// RunStatus is the engine's state machine state.
type RunStatus string

const (
	// StatusAwaitingSupervisor waits for the supervisor's next decision.
	StatusAwaitingSupervisor RunStatus = "awaiting_supervisor"
	// StatusRunningAgent executes the specialist the supervisor selected.
	StatusRunningAgent RunStatus = "running_agent"
	// StatusTerminated is the successful terminal state.
	StatusTerminated RunStatus = "terminated"
	// StatusFailed is the failed terminal state; the reason is preserved.
	StatusFailed RunStatus = "failed"
)

// TurnLimitReason is the failure reason recorded when a run exceeds the
// configured turn bound.
const TurnLimitReason = "turn-limit-exceeded"

// Sink receives transcript messages as side effects after each transition.
// A sink failure must not be confused with a failure to execute the turn:
// the engine records it separately and the run continues.
type Sink interface {
	AppendMessage(ctx context.Context, conversationID int64, msg types.Message) error
}

// EngineConfig configures the execution engine.
type EngineConfig struct {
	// MaxTurns bounds the number of supervisor↔agent round trips per run.
	// Nothing in the routing protocol itself guarantees termination — a
	// supervisor that never emits the completion token would loop forever
	// without this bound. Defaults to 20.
	MaxTurns int
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{MaxTurns: 20}
}

// Result is the outcome of one run. On termination FinalResponse holds the
// content of the last appended message. On failure Err carries the reason
// and State retains whatever was appended before the failure — no partial
// transcript is silently discarded.
type Result struct {
	ConversationID int64
	Status         RunStatus
	State          *types.State
	FinalResponse  string
	Turns          int
	Err            *types.Error

	// SinkFailures collects persistence errors observed during the run.
	// They never invalidate turns that already executed.
	SinkFailures []error
}

// Engine drives a workflow graph from an initial user message to
// termination: it repeatedly invokes the supervisor router and the selected
// specialist executor, folding every produced message into the conversation
// state. One engine may serve many concurrent runs; each run owns its state
// exclusively and is strictly sequential internally.
type Engine struct {
	supervisor *Supervisor
	executor   *AgentExecutor
	sink       Sink
	config     EngineConfig
	logger     *zap.Logger
}

// NewEngine creates an execution engine. sink may be nil for transient runs.
func NewEngine(supervisor *Supervisor, executor *AgentExecutor, sink Sink, config EngineConfig, logger *zap.Logger) *Engine {
	if config.MaxTurns <= 0 {
		config.MaxTurns = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		supervisor: supervisor,
		executor:   executor,
		sink:       sink,
		config:     config,
		logger:     logger.With(zap.String("component", "engine")),
	}
}

// Run executes one conversation over the given graph, seeded with exactly
// one user message. It blocks until the run reaches a terminal state.
// Cancellation is honored between transitions; an in-flight generation call
// either completes or is abandoned without a partial append.
func (e *Engine) Run(ctx context.Context, g *Graph, conversationID int64, userInput string) *Result {
	result := &Result{
		ConversationID: conversationID,
		Status:         StatusAwaitingSupervisor,
		State:          types.NewState(),
	}
	logger := e.logger.With(zap.Int64("conversation_id", conversationID))

	e.append(ctx, result, types.NewUserMessage(userInput))

	for {
		// cancellation checkpoint: state is left as-is for inspection
		if err := ctx.Err(); err != nil {
			return e.fail(result, logger, types.NewGenerationError("run cancelled").WithCause(err))
		}

		if result.Turns >= e.config.MaxTurns {
			return e.fail(result, logger,
				types.NewError(types.ErrTurnLimit, TurnLimitReason))
		}

		result.Status = StatusAwaitingSupervisor
		decision, err := e.supervisor.Decide(ctx, g, result.State)
		if err != nil {
			return e.fail(result, logger, err)
		}

		if decision.Terminate {
			result.Status = StatusTerminated
			if last, ok := result.State.Last(); ok {
				result.FinalResponse = last.Content
			}
			logger.Info("run terminated",
				zap.Int("turns", result.Turns),
				zap.Int("messages", result.State.Len()),
			)
			return result
		}

		// the decision message is appended before dispatch so it stays
		// visible to later turns and to the persisted transcript
		e.append(ctx, result, types.NewSupervisorMessage(decision.Role))

		spec, ok := g.Spec(decision.Role)
		if !ok {
			// Decide validates against the dispatch table, so this only
			// trips if graph and decision ever disagree
			return e.fail(result, logger, types.NewRoutingError(
				fmt.Sprintf("decision role %q is not a graph node", decision.Role)))
		}

		result.Status = StatusRunningAgent
		msg, err := e.executor.Execute(ctx, spec, result.State)
		if err != nil {
			return e.fail(result, logger, err)
		}

		e.append(ctx, result, msg)
		result.Turns++
	}
}

// append folds a message into the run's state and mirrors it to the sink.
func (e *Engine) append(ctx context.Context, result *Result, msg types.Message) {
	result.State.Append(msg)
	if e.sink == nil {
		return
	}
	if err := e.sink.AppendMessage(ctx, result.ConversationID, msg); err != nil {
		perr := types.NewPersistenceError("failed to persist message").WithCause(err)
		result.SinkFailures = append(result.SinkFailures, perr)
		e.logger.Error("transcript write failed",
			zap.Int64("conversation_id", result.ConversationID),
			zap.String("sender", msg.Sender),
			zap.Error(err),
		)
	}
}

func (e *Engine) fail(result *Result, logger *zap.Logger, err error) *Result {
	result.Status = StatusFailed
	if typed := types.AsError(err); typed != nil {
		result.Err = typed
	} else {
		result.Err = types.NewGenerationError("run failed").WithCause(err)
	}
	logger.Warn("run failed",
		zap.String("code", string(result.Err.Code)),
		zap.Int("turns", result.Turns),
		zap.Int("messages", result.State.Len()),
		zap.Error(err),
	)
	return result
}
