// 版权所有 (c) Projeto Multiagents Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

// platform 是多 Agent 会话平台的主入口：提供用例管理与会话执行的
// REST API、健康检查端点与独立的 Prometheus 指标服务。
package main
