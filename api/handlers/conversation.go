package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notfabo/projeto-multiagents/internal/metrics"
	"github.com/notfabo/projeto-multiagents/store"
	"github.com/notfabo/projeto-multiagents/types"
	"github.com/notfabo/projeto-multiagents/workflow"
)

// =============================================================================
// 🗣️ 会话 Handler
// =============================================================================

// ConversationHandler 会话执行处理器
type ConversationHandler struct {
	store   *store.Store
	graphs  *workflow.GraphCache
	engine  *workflow.Engine
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewConversationHandler 创建会话处理器。collector 可为 nil。
func NewConversationHandler(st *store.Store, graphs *workflow.GraphCache, engine *workflow.Engine, collector *metrics.Collector, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		store:   st,
		graphs:  graphs,
		engine:  engine,
		metrics: collector,
		logger:  logger.With(zap.String("component", "conversation_handler")),
	}
}

// HandleRun 处理 POST /use_cases/{id}/conversation/：
// 加载团队 → 编译图 → 创建会话 → 执行引擎 → 返回最终响应。
// 失败的执行返回结构化错误，附带失败时刻的部分转录。
func (h *ConversationHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req ConversationRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	userInput := strings.TrimSpace(req.UserInput)
	if userInput == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"user_input must not be empty", h.logger)
		return
	}

	graph, err := h.graphs.Get(r.Context(), id, func(ctx context.Context) (types.Roster, error) {
		return h.store.LoadRoster(ctx, id)
	})
	if err != nil {
		h.writeTypedError(w, err)
		return
	}

	conversationID, err := h.store.CreateConversation(r.Context(), id)
	if err != nil {
		h.writeTypedError(w, err)
		return
	}

	start := time.Now()
	result := h.engine.Run(r.Context(), graph, conversationID, userInput)
	duration := time.Since(start)

	if h.metrics != nil {
		h.metrics.RecordConversation(string(result.Status), result.Turns)
	}

	logger := h.logger.With(
		zap.Int64("use_case_id", id),
		zap.Int64("conversation_id", conversationID),
	)

	if result.Status != workflow.StatusTerminated {
		if h.metrics != nil && result.Err != nil && result.Err.Code == types.ErrRouting {
			h.metrics.RecordRoutingFailure()
		}
		logger.Warn("conversation failed",
			zap.String("status", string(result.Status)),
			zap.Int("turns", result.Turns),
			zap.Duration("duration", duration),
		)
		h.writeFailedRun(w, result)
		return
	}

	logger.Info("conversation terminated",
		zap.Int("turns", result.Turns),
		zap.Int("messages", result.State.Len()),
		zap.Duration("duration", duration),
	)
	WriteSuccess(w, ConversationResponse{
		ConversationID: conversationID,
		FinalResponse:  result.FinalResponse,
	})
}

// writeFailedRun 写出失败响应：错误信息 + 失败时刻的部分转录
func (h *ConversationHandler) writeFailedRun(w http.ResponseWriter, result *workflow.Result) {
	err := result.Err
	if err == nil {
		err = types.NewError(types.ErrInternalError, "conversation failed")
	}
	status := err.HTTPStatus
	if status == 0 {
		status = mapErrorCodeToHTTPStatus(err.Code)
	}

	WriteJSON(w, status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      string(err.Code),
			Message:   err.Message,
			Retryable: err.Retryable,
		},
		Data: FailedConversation{
			ConversationID: result.ConversationID,
			Status:         string(result.Status),
			Turns:          result.Turns,
			Messages:       result.State.Snapshot(),
		},
		Timestamp: time.Now(),
	})
}

func (h *ConversationHandler) writeTypedError(w http.ResponseWriter, err error) {
	if typed := types.AsError(err); typed != nil {
		WriteError(w, typed, h.logger)
		return
	}
	WriteError(w, types.NewError(types.ErrInternalError, err.Error()), h.logger)
}

var _ workflow.Sink = (*store.Store)(nil)
