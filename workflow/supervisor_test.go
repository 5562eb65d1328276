package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notfabo/projeto-multiagents/llm"
	"github.com/notfabo/projeto-multiagents/testutil/mocks"
	"github.com/notfabo/projeto-multiagents/types"
)

func fastSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond,
	}
}

func TestSupervisorDecideRoutesToAgent(t *testing.T) {
	g, err := Build(testRoster())
	require.NoError(t, err)

	provider := mocks.NewSuccessProvider("Scheduler")
	sup := NewSupervisor(provider, fastSupervisorConfig(), zap.NewNop())

	state := types.NewState(types.NewUserMessage("I need a haircut"))
	decision, err := sup.Decide(context.Background(), g, state)
	require.NoError(t, err)

	assert.False(t, decision.Terminate)
	assert.Equal(t, "Scheduler", decision.Role)
	assert.Equal(t, 1, provider.GetCallCount())
}

func TestSupervisorDecideTrimsWhitespace(t *testing.T) {
	g, err := Build(testRoster())
	require.NoError(t, err)

	provider := mocks.NewSuccessProvider(" Scheduler \n")
	sup := NewSupervisor(provider, fastSupervisorConfig(), zap.NewNop())

	decision, err := sup.Decide(context.Background(), g, types.NewState(types.NewUserMessage("hi")))
	require.NoError(t, err)
	assert.Equal(t, Act("Scheduler"), decision)
}

func TestSupervisorDecideFinish(t *testing.T) {
	g, err := Build(testRoster())
	require.NoError(t, err)

	provider := mocks.NewSuccessProvider("FINISH")
	sup := NewSupervisor(provider, fastSupervisorConfig(), zap.NewNop())

	decision, err := sup.Decide(context.Background(), g, types.NewState(types.NewUserMessage("thanks")))
	require.NoError(t, err)
	assert.True(t, decision.Terminate)
}

func TestSupervisorDecideRejectsNearMiss(t *testing.T) {
	g, err := Build(testRoster())
	require.NoError(t, err)

	// "Schedule" is not "Scheduler": exact match only, no fuzzy mapping
	provider := mocks.NewSuccessProvider("Schedule")
	sup := NewSupervisor(provider, fastSupervisorConfig(), zap.NewNop())

	_, err = sup.Decide(context.Background(), g, types.NewState(types.NewUserMessage("hi")))
	require.Error(t, err)

	routeErr := types.AsError(err)
	require.NotNil(t, routeErr)
	assert.Equal(t, types.ErrRouting, routeErr.Code)
	assert.False(t, routeErr.Retryable)
	// invalid tokens are retried with the same input up to the bound
	assert.Equal(t, 3, provider.GetCallCount())
}

func TestSupervisorDecideRecoversFromMalformedToken(t *testing.T) {
	g, err := Build(testRoster())
	require.NoError(t, err)

	provider := mocks.NewScriptedProvider("I think Scheduler should go", "Scheduler")
	sup := NewSupervisor(provider, fastSupervisorConfig(), zap.NewNop())

	decision, err := sup.Decide(context.Background(), g, types.NewState(types.NewUserMessage("hi")))
	require.NoError(t, err)
	assert.Equal(t, "Scheduler", decision.Role)
	assert.Equal(t, 2, provider.GetCallCount())
}

func TestSupervisorDecideRecoversFromTransientProviderError(t *testing.T) {
	g, err := Build(testRoster())
	require.NoError(t, err)

	transient := &llm.Error{
		Code:      llm.ErrRateLimited,
		Message:   "rate limited",
		Provider:  "mock",
		Retryable: true,
	}
	provider := mocks.NewMockProvider().
		WithScriptError(transient).
		WithScript("Intake")
	sup := NewSupervisor(provider, fastSupervisorConfig(), zap.NewNop())

	decision, err := sup.Decide(context.Background(), g, types.NewState(types.NewUserMessage("hi")))
	require.NoError(t, err)
	assert.Equal(t, "Intake", decision.Role)
	assert.Equal(t, 2, provider.GetCallCount())
}

func TestSupervisorDecideNonRetryableProviderError(t *testing.T) {
	g, err := Build(testRoster())
	require.NoError(t, err)

	provider := mocks.NewErrorProvider(errors.New("connection refused"))
	sup := NewSupervisor(provider, fastSupervisorConfig(), zap.NewNop())

	_, err = sup.Decide(context.Background(), g, types.NewState(types.NewUserMessage("hi")))
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrRouting))
	// non-retryable failures surface without burning the attempt budget
	assert.Equal(t, 1, provider.GetCallCount())
}

func TestSupervisorPromptCarriesRolesAndTranscript(t *testing.T) {
	g, err := Build(testRoster())
	require.NoError(t, err)

	provider := mocks.NewSuccessProvider("FINISH")
	sup := NewSupervisor(provider, fastSupervisorConfig(), zap.NewNop())

	state := types.NewState(
		types.NewUserMessage("I need a haircut"),
		types.NewMessage("Intake", "What day suits you?"),
	)
	_, err = sup.Decide(context.Background(), g, state)
	require.NoError(t, err)

	call := provider.GetLastCall()
	require.NotNil(t, call)
	require.NotEmpty(t, call.Request.Messages)

	system := call.Request.Messages[0]
	assert.Equal(t, llm.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "Intake")
	assert.Contains(t, system.Content, "Scheduler")
	assert.Contains(t, system.Content, FinishToken)

	// system + user + one agent turn
	assert.Len(t, call.Request.Messages, 3)
}
