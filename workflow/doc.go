// Copyright (c) Projeto Multiagents Authors.
// Licensed under the MIT License.

/*
Package workflow 提供动态多智能体工作流的构建与执行引擎。

# 概述

workflow 包是平台的核心：从运行时提供的 Agent 名单构建星形路由图，
由监督者节点逐轮决定下一个行动的专家，直至任务完成。所有专家节点
只与监督者相连（星形拓扑），监督者是唯一的路由权威。

# 核心类型

  - Graph         — 每个名单编译一次的不可变路由图（节点、回边、分发表）
  - Build         — 名单 → Graph，空名单或角色重名返回 CONFIGURATION_ERROR
  - RouteDecision — 监督者决策的标签变体：Act(role) 或 Finish
  - Supervisor    — 监督者路由器，封闭令牌集校验 + 有界重试
  - AgentExecutor — 专家节点执行器，产出恰好一条带角色标记的消息
  - Engine        — 逐轮执行状态机（AwaitingSupervisor / RunningAgent /
    Terminated / Failed），带回合上限保护
  - GraphCache    — {useCaseID → Graph} 显式缓存，singleflight 编译一次，
    随用例删除而失效

# 执行模型

单个会话严格串行：监督者、专家、监督者……每轮输入是此前全部消息的
有序日志。不同会话可并发执行并共享只读 Graph。
*/
package workflow
