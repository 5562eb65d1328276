package architect

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notfabo/projeto-multiagents/llm"
	"github.com/notfabo/projeto-multiagents/llm/retry"
	"github.com/notfabo/projeto-multiagents/types"
)

// proposal is the strict JSON envelope the architect LLM must produce.
type proposal struct {
	ProposedAgents []types.AgentSpec `json:"proposed_agents"`
}

// Config configures the architect.
type Config struct {
	// Model overrides the provider's default model.
	Model string
	// MaxAttempts bounds calls to the text-generation capability per
	// proposal, counting the first. Defaults to 3.
	MaxAttempts int
	// RetryDelay is the initial backoff delay between attempts.
	RetryDelay time.Duration
	// Temperature for the design call.
	Temperature float32
	// MaxAgents caps the proposed team size. Zero means no cap.
	MaxAgents int
}

// DefaultConfig returns the default architect configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		RetryDelay:  1 * time.Second,
		Temperature: 0.2,
	}
}

// Architect decomposes a use-case description into a roster of specialist
// agents. It is consumed once per use case, before the workflow graph is
// ever built.
type Architect struct {
	provider llm.Provider
	config   Config
	retryer  retry.Retryer
	logger   *zap.Logger
}

// New creates an architect backed by the given provider.
func New(provider llm.Provider, config Config, logger *zap.Logger) *Architect {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 1 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	retryer := retry.NewBackoffRetryer(&retry.RetryPolicy{
		MaxRetries:   config.MaxAttempts - 1,
		InitialDelay: config.RetryDelay,
		MaxDelay:     15 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
		RetryableFunc: func(err error) bool {
			return llm.IsRetryable(err) || types.IsRetryable(err)
		},
	}, logger)
	return &Architect{
		provider: provider,
		config:   config,
		retryer:  retryer,
		logger:   logger.With(zap.String("component", "architect")),
	}
}

const systemPrompt = `You are a multi-agent systems architect. Your task is to analyze a use-case description and decompose the problem into a team of specialist agents.
For each agent, clearly define its "role" (title/specialty) and its "responsibilities".
The last agent must be a finalizer/consolidator that delivers the final answer to the user.

Respond with ONLY a JSON object of the form:
{"proposed_agents": [{"role": "...", "responsibilities": "..."}]}

Do NOT wrap the JSON in markdown code blocks and do NOT add any other text.`

// Propose designs a roster for the given use-case description. Malformed or
// empty proposals surface as DESIGN_ERROR after bounded retries.
func (a *Architect) Propose(ctx context.Context, description string) (types.Roster, error) {
	if strings.TrimSpace(description) == "" {
		return nil, types.NewDesignError("use-case description is empty")
	}

	roster, err := retry.DoWithResultTyped[types.Roster](a.retryer, ctx, func() (types.Roster, error) {
		resp, err := a.provider.Completion(ctx, &llm.ChatRequest{
			Model:       a.config.Model,
			Temperature: a.config.Temperature,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: systemPrompt},
				{Role: llm.RoleUser, Content: fmt.Sprintf("The use case is:\n%q", description)},
			},
		})
		if err != nil {
			return nil, err
		}
		roster, err := parseProposal(resp.Text())
		if err != nil {
			// a malformed proposal is re-asked with the same input,
			// like any other transient generation defect
			return nil, types.AsError(err).WithRetryable(true)
		}
		return roster, nil
	})
	if err != nil {
		a.logger.Warn("roster proposal failed",
			zap.Int("max_attempts", a.config.MaxAttempts),
			zap.Error(err),
		)
		if types.IsErrorCode(err, types.ErrDesign) {
			return nil, types.AsError(err).WithRetryable(false)
		}
		return nil, types.NewDesignError("architect proposal failed").WithCause(err)
	}

	if a.config.MaxAgents > 0 && len(roster) > a.config.MaxAgents {
		return nil, types.NewDesignError(
			fmt.Sprintf("proposed team of %d exceeds the limit of %d agents", len(roster), a.config.MaxAgents))
	}

	a.logger.Info("roster proposed",
		zap.Int("agents", len(roster)),
		zap.Strings("roles", roster.Roles()),
	)
	return roster, nil
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON pulls the JSON object out of a response that may contain
// markdown fences or surrounding prose.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.Contains(response, "```") {
		matches := fencedBlockRe.FindStringSubmatch(response)
		if len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return response[start : end+1]
	}

	return response
}

// parseProposal decodes and validates one roster proposal.
func parseProposal(raw string) (types.Roster, error) {
	var p proposal
	if err := json.Unmarshal([]byte(extractJSON(raw)), &p); err != nil {
		return nil, types.NewDesignError("proposal is not valid JSON").WithCause(err)
	}
	if len(p.ProposedAgents) == 0 {
		return nil, types.NewDesignError("proposal contains no agents")
	}

	seen := make(map[string]struct{}, len(p.ProposedAgents))
	roster := make(types.Roster, 0, len(p.ProposedAgents))
	for _, spec := range p.ProposedAgents {
		spec.Role = strings.TrimSpace(spec.Role)
		spec.Responsibilities = strings.TrimSpace(spec.Responsibilities)
		if spec.Role == "" {
			return nil, types.NewDesignError("proposal contains an agent with empty role")
		}
		if _, dup := seen[spec.Role]; dup {
			return nil, types.NewDesignError(
				fmt.Sprintf("proposal contains duplicate role %q", spec.Role))
		}
		seen[spec.Role] = struct{}{}
		roster = append(roster, spec)
	}
	return roster, nil
}
