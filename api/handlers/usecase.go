package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/notfabo/projeto-multiagents/architect"
	"github.com/notfabo/projeto-multiagents/store"
	"github.com/notfabo/projeto-multiagents/types"
	"github.com/notfabo/projeto-multiagents/workflow"
)

// =============================================================================
// 🧩 用例 Handler
// =============================================================================

// UseCaseHandler 用例管理处理器
type UseCaseHandler struct {
	store     *store.Store
	architect *architect.Architect
	graphs    *workflow.GraphCache
	logger    *zap.Logger
}

// NewUseCaseHandler 创建用例处理器
func NewUseCaseHandler(st *store.Store, arch *architect.Architect, graphs *workflow.GraphCache, logger *zap.Logger) *UseCaseHandler {
	return &UseCaseHandler{
		store:     st,
		architect: arch,
		graphs:    graphs,
		logger:    logger.With(zap.String("component", "usecase_handler")),
	}
}

// HandleCreate 处理 POST /use_cases/：架构师提案团队并持久化
func (h *UseCaseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req UseCaseRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"description must not be empty", h.logger)
		return
	}

	roster, err := h.architect.Propose(r.Context(), description)
	if err != nil {
		h.writeTypedError(w, err)
		return
	}

	// 提案先过图构建校验，避免持久化无法编译的团队
	if _, err := workflow.Build(roster); err != nil {
		h.writeTypedError(w, err)
		return
	}

	uc, err := h.store.CreateUseCase(r.Context(), description, roster)
	if err != nil {
		h.writeTypedError(w, err)
		return
	}

	h.logger.Info("use case created",
		zap.Int64("use_case_id", uc.ID),
		zap.Int("agents", len(uc.Agents)),
	)
	WriteSuccess(w, uc)
}

// HandleList 处理 GET /use_cases/
func (h *UseCaseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	cases, err := h.store.ListUseCases(r.Context())
	if err != nil {
		h.writeTypedError(w, err)
		return
	}
	WriteSuccess(w, cases)
}

// HandleDetails 处理 GET /use_cases/{id}/：详情含会话与完整转录
func (h *UseCaseHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	uc, err := h.store.GetUseCaseDetails(r.Context(), id)
	if err != nil {
		h.writeTypedError(w, err)
		return
	}
	WriteSuccess(w, uc)
}

// HandleDelete 处理 DELETE /use_cases/{id}/：级联删除并失效图缓存
func (h *UseCaseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.store.DeleteUseCase(r.Context(), id); err != nil {
		h.writeTypedError(w, err)
		return
	}
	h.graphs.Invalidate(id)

	WriteSuccess(w, map[string]int64{"deleted": id})
}

func (h *UseCaseHandler) writeTypedError(w http.ResponseWriter, err error) {
	if typed := types.AsError(err); typed != nil {
		WriteError(w, typed, h.logger)
		return
	}
	WriteError(w, types.NewError(types.ErrInternalError, err.Error()), h.logger)
}
