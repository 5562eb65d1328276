// Copyright (c) Projeto Multiagents Authors.
// Licensed under the MIT License.

/*
Package store 提供用例、Agent 定义、会话与消息的关系持久化。

# 概述

store 是执行引擎的持久化协作者：引擎每次状态转移后通过 AppendMessage
落盘消息；HTTP 层通过 CreateUseCase / LoadRoster / CreateConversation
驱动完整流程。写入失败以 PERSISTENCE_ERROR 浮出，绝不追溯性地使已
执行的回合失效。

# 实体

  - UseCase         — 用例描述，拥有 Agent 定义与会话（级联删除）
  - AgentDefinition — 名单中的一个专家（role + responsibilities，有序）
  - Conversation    — 一次运行的会话记录
  - MessageRecord   — 会话转录中的一条消息

名单读取走 Redis 读通缓存（可选）；用例删除同时失效缓存。
*/
package store
