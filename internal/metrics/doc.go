// 版权所有 (c) Projeto Multiagents Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的内部指标收集。

# 概述

本包通过 Collector 统一注册与记录平台各层指标：HTTP 请求、
LLM 调用、会话执行（轮次、路由决策、终止原因）、缓存命中率
与数据库连接状态。所有指标通过 promauto 注册到指定的
Registerer，测试中可注入独立 Registry 避免重复注册冲突。

# 指标分类

  - HTTP：请求总数、时延、请求/响应大小。
  - LLM：请求总数、时延、token 用量。
  - 会话：会话总数（按终止状态）、轮次分布、路由决策、路由失败。
  - 缓存：命中/未命中计数。
  - 数据库：连接数与查询时延。
*/
package metrics
