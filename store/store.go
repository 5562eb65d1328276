package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notfabo/projeto-multiagents/internal/cache"
	"github.com/notfabo/projeto-multiagents/types"
)

// Store persists use cases, rosters, conversations, and transcripts.
// Roster reads go through an optional Redis cache; everything else hits the
// relational database directly.
type Store struct {
	db     *gorm.DB
	cache  *cache.Manager
	logger *zap.Logger
}

// New creates a store. cacheManager may be nil to disable roster caching.
func New(db *gorm.DB, cacheManager *cache.Manager, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:     db,
		cache:  cacheManager,
		logger: logger.With(zap.String("component", "store")),
	}
}

// AutoMigrate creates or updates the schema for all entities.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&UseCase{}, &AgentDefinition{}, &Conversation{}, &MessageRecord{}); err != nil {
		return types.NewPersistenceError("schema migration failed").WithCause(err)
	}
	return nil
}

func rosterCacheKey(useCaseID int64) string {
	return fmt.Sprintf("roster:%d", useCaseID)
}

// CreateUseCase persists a use case together with its proposed roster, in
// one transaction.
func (s *Store) CreateUseCase(ctx context.Context, description string, roster types.Roster) (*UseCase, error) {
	uc := &UseCase{Description: description}
	for i, spec := range roster {
		uc.Agents = append(uc.Agents, AgentDefinition{
			Position:         i,
			Role:             spec.Role,
			Responsibilities: spec.Responsibilities,
		})
	}

	if err := s.db.WithContext(ctx).Create(uc).Error; err != nil {
		return nil, types.NewPersistenceError("failed to create use case").WithCause(err)
	}

	s.logger.Info("use case created",
		zap.Int64("use_case_id", uc.ID),
		zap.Int("agents", len(uc.Agents)),
	)
	return uc, nil
}

// GetUseCase returns a use case with its roster.
func (s *Store) GetUseCase(ctx context.Context, id int64) (*UseCase, error) {
	var uc UseCase
	err := s.db.WithContext(ctx).
		Preload("Agents", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&uc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("use case %d not found", id))
	}
	if err != nil {
		return nil, types.NewPersistenceError("failed to load use case").WithCause(err)
	}
	return &uc, nil
}

// GetUseCaseDetails returns a use case with its roster, conversations, and
// full transcripts.
func (s *Store) GetUseCaseDetails(ctx context.Context, id int64) (*UseCase, error) {
	var uc UseCase
	err := s.db.WithContext(ctx).
		Preload("Agents", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Conversations", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Conversations.Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&uc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("use case %d not found", id))
	}
	if err != nil {
		return nil, types.NewPersistenceError("failed to load use case details").WithCause(err)
	}
	return &uc, nil
}

// ListUseCases returns all use cases with their rosters.
func (s *Store) ListUseCases(ctx context.Context) ([]UseCase, error) {
	var cases []UseCase
	err := s.db.WithContext(ctx).
		Preload("Agents", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("id ASC").
		Find(&cases).Error
	if err != nil {
		return nil, types.NewPersistenceError("failed to list use cases").WithCause(err)
	}
	return cases, nil
}

// DeleteUseCase removes a use case and, via cascade, its agents,
// conversations, and messages. The roster cache entry is invalidated;
// callers must also evict any compiled workflow graph.
func (s *Store) DeleteUseCase(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&UseCase{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("conversation_id IN (?)",
			tx.Model(&Conversation{}).Select("id").Where("use_case_id = ?", id),
		).Delete(&MessageRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("use_case_id = ?", id).Delete(&Conversation{}).Error; err != nil {
			return err
		}
		return tx.Where("use_case_id = ?", id).Delete(&AgentDefinition{}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewError(types.ErrNotFound, fmt.Sprintf("use case %d not found", id))
	}
	if err != nil {
		return types.NewPersistenceError("failed to delete use case").WithCause(err)
	}

	if err := s.cache.Delete(ctx, rosterCacheKey(id)); err != nil {
		s.logger.Warn("failed to evict roster cache", zap.Int64("use_case_id", id), zap.Error(err))
	}

	s.logger.Info("use case deleted", zap.Int64("use_case_id", id))
	return nil
}

// LoadRoster returns the ordered roster of a use case, read through the
// cache when one is configured. An empty roster is an error: a use case
// without agents cannot drive a workflow.
func (s *Store) LoadRoster(ctx context.Context, useCaseID int64) (types.Roster, error) {
	var cached types.Roster
	if err := s.cache.GetJSON(ctx, rosterCacheKey(useCaseID), &cached); err == nil && len(cached) > 0 {
		return cached, nil
	} else if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("roster cache read failed", zap.Int64("use_case_id", useCaseID), zap.Error(err))
	}

	var defs []AgentDefinition
	err := s.db.WithContext(ctx).
		Where("use_case_id = ?", useCaseID).
		Order("position ASC").
		Find(&defs).Error
	if err != nil {
		return nil, types.NewPersistenceError("failed to load roster").WithCause(err)
	}
	if len(defs) == 0 {
		return nil, types.NewError(types.ErrNotFound,
			fmt.Sprintf("use case %d has no agents", useCaseID))
	}

	roster := make(types.Roster, 0, len(defs))
	for _, def := range defs {
		roster = append(roster, types.AgentSpec{
			Role:             def.Role,
			Responsibilities: def.Responsibilities,
		})
	}

	if err := s.cache.SetJSON(ctx, rosterCacheKey(useCaseID), roster, 0); err != nil {
		s.logger.Warn("roster cache write failed", zap.Int64("use_case_id", useCaseID), zap.Error(err))
	}
	return roster, nil
}

// CreateConversation starts a new conversation for a use case and returns
// its identifier.
func (s *Store) CreateConversation(ctx context.Context, useCaseID int64) (int64, error) {
	conv := &Conversation{UseCaseID: useCaseID}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return 0, types.NewPersistenceError("failed to create conversation").WithCause(err)
	}
	return conv.ID, nil
}

// AppendMessage persists one transcript message. It implements
// workflow.Sink; the engine serializes calls per conversation by
// construction, so no extra locking is needed here.
func (s *Store) AppendMessage(ctx context.Context, conversationID int64, msg types.Message) error {
	rec := &MessageRecord{
		ConversationID: conversationID,
		SenderRole:     msg.Sender,
		Content:        msg.Content,
		Timestamp:      msg.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return types.NewPersistenceError("failed to append message").WithCause(err)
	}
	return nil
}

// Messages returns the ordered transcript of a conversation.
func (s *Store) Messages(ctx context.Context, conversationID int64) ([]MessageRecord, error) {
	var msgs []MessageRecord
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, types.NewPersistenceError("failed to load messages").WithCause(err)
	}
	return msgs, nil
}
