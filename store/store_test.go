package store

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/notfabo/projeto-multiagents/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	s := New(db, nil, zap.NewNop())
	require.NoError(t, s.AutoMigrate())
	return s
}

func seedRoster() types.Roster {
	return types.Roster{
		{Role: "Intake", Responsibilities: "Understand the request."},
		{Role: "Scheduler", Responsibilities: "Confirm a slot."},
	}
}

func TestCreateAndGetUseCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uc, err := s.CreateUseCase(ctx, "Barbershop booking", seedRoster())
	require.NoError(t, err)
	require.NotZero(t, uc.ID)
	require.Len(t, uc.Agents, 2)

	got, err := s.GetUseCase(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Barbershop booking", got.Description)
	require.Len(t, got.Agents, 2)
	assert.Equal(t, "Intake", got.Agents[0].Role)
	assert.Equal(t, "Scheduler", got.Agents[1].Role)
	assert.Equal(t, 0, got.Agents[0].Position)
	assert.Equal(t, 1, got.Agents[1].Position)
}

func TestGetUseCaseNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUseCase(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrNotFound))
}

func TestListUseCases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list, err := s.ListUseCases(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.CreateUseCase(ctx, "first", seedRoster())
	require.NoError(t, err)
	_, err = s.CreateUseCase(ctx, "second", seedRoster())
	require.NoError(t, err)

	list, err = s.ListUseCases(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Description)
	assert.Equal(t, "second", list[1].Description)
	assert.Len(t, list[0].Agents, 2)
}

func TestLoadRoster(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uc, err := s.CreateUseCase(ctx, "booking", seedRoster())
	require.NoError(t, err)

	roster, err := s.LoadRoster(ctx, uc.ID)
	require.NoError(t, err)
	assert.Equal(t, seedRoster(), roster)
}

func TestLoadRosterMissingUseCase(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadRoster(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrNotFound))
}

func TestConversationTranscript(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uc, err := s.CreateUseCase(ctx, "booking", seedRoster())
	require.NoError(t, err)

	convID, err := s.CreateConversation(ctx, uc.ID)
	require.NoError(t, err)
	require.NotZero(t, convID)

	msgs := []types.Message{
		types.NewUserMessage("I need a haircut"),
		types.NewSupervisorMessage("Intake"),
		types.NewMessage("Intake", "What day suits you?"),
	}
	for _, m := range msgs {
		require.NoError(t, s.AppendMessage(ctx, convID, m))
	}

	records, err := s.Messages(ctx, convID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, msgs[i].Sender, rec.SenderRole)
		assert.Equal(t, msgs[i].Content, rec.Content)
	}
}

func TestGetUseCaseDetails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uc, err := s.CreateUseCase(ctx, "booking", seedRoster())
	require.NoError(t, err)

	convID, err := s.CreateConversation(ctx, uc.ID)
	require.NoError(t, err)
	require.NoError(t, s.AppendMessage(ctx, convID, types.NewUserMessage("hi")))
	require.NoError(t, s.AppendMessage(ctx, convID, types.NewMessage("Intake", "hello")))

	details, err := s.GetUseCaseDetails(ctx, uc.ID)
	require.NoError(t, err)
	require.Len(t, details.Conversations, 1)
	require.Len(t, details.Conversations[0].Messages, 2)
	assert.Equal(t, "user", details.Conversations[0].Messages[0].SenderRole)
	assert.Equal(t, "Intake", details.Conversations[0].Messages[1].SenderRole)
}

func TestDeleteUseCaseCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uc, err := s.CreateUseCase(ctx, "booking", seedRoster())
	require.NoError(t, err)

	convID, err := s.CreateConversation(ctx, uc.ID)
	require.NoError(t, err)
	require.NoError(t, s.AppendMessage(ctx, convID, types.NewUserMessage("hi")))

	require.NoError(t, s.DeleteUseCase(ctx, uc.ID))

	_, err = s.GetUseCase(ctx, uc.ID)
	assert.True(t, types.IsErrorCode(err, types.ErrNotFound))

	_, err = s.LoadRoster(ctx, uc.ID)
	assert.True(t, types.IsErrorCode(err, types.ErrNotFound))

	records, err := s.Messages(ctx, convID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDeleteUseCaseNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteUseCase(context.Background(), 12345)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrNotFound))
}
