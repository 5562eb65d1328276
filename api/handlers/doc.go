// 版权所有 (c) Projeto Multiagents Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 handlers 提供平台 REST API 的 HTTP 处理器。

# 端点

  - POST /use_cases/ — 由架构师为用例描述提案 Agent 团队并持久化
  - GET /use_cases/ — 列出全部用例及其 Agent 团队
  - GET /use_cases/{id}/ — 用例详情（含会话与完整转录）
  - DELETE /use_cases/{id}/ — 级联删除用例并失效相关缓存
  - POST /use_cases/{id}/conversation/ — 执行一次多 Agent 会话
  - GET /health, /healthz, /ready, /version — 健康与版本

# 响应约定

所有响应使用统一的 Response 包装（success/data/error/timestamp）。
领域错误通过 types.Error 映射到 HTTP 状态码：校验失败 400、
未找到 404、路由或生成失败 502、持久化失败 500。
*/
package handlers
