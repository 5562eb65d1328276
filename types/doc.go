// Copyright (c) Projeto Multiagents Authors.
// Licensed under the MIT License.

/*
Package types 提供多智能体平台的全局共享类型定义。

# 概述

types 是平台最底层的公共包，不依赖任何内部包，为 workflow、architect、
llm、store、api 等上层模块提供统一的类型契约。所有跨包共享的结构体、
枚举和错误码均定义于此，以避免循环依赖。

# 核心类型

  - AgentSpec         — 专家 Agent 定义（role + responsibilities）
  - Roster            — 一个用例的有序 Agent 列表
  - Message           — 带发送者标记的对话消息（user / supervisor / 角色名）
  - State             — 只追加的对话消息日志（reducer 语义）
  - Error / ErrorCode — 结构化错误体系，含 HTTP 状态码、Retryable、Cause

# 主要能力

  - 错误工具链：AsError / IsErrorCode / IsRetryable
  - 常用错误构造：NewConfigurationError / NewRoutingError 等
  - State 快照：Snapshot 返回防御性拷贝，供持久化与诊断使用
*/
package types
