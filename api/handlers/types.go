package handlers

import "github.com/notfabo/projeto-multiagents/types"

// =============================================================================
// 📨 请求 / 响应 DTO
// =============================================================================

// UseCaseRequest 创建用例请求
type UseCaseRequest struct {
	Description string `json:"description"`
}

// ConversationRequest 执行会话请求
type ConversationRequest struct {
	UserInput string `json:"user_input"`
}

// ConversationResponse 会话执行成功响应
type ConversationResponse struct {
	ConversationID int64  `json:"conversation_id"`
	FinalResponse  string `json:"final_response"`
}

// FailedConversation 会话执行失败时随错误一并返回的部分转录。
// 失败前已执行的轮次不会被丢弃。
type FailedConversation struct {
	ConversationID int64           `json:"conversation_id"`
	Status         string          `json:"status"`
	Turns          int             `json:"turns"`
	Messages       []types.Message `json:"messages"`
}
