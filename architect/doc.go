// Copyright (c) Projeto Multiagents Authors.
// Licensed under the MIT License.

/*
Package architect 实现"架构师"能力：分析自然语言用例描述，
将问题分解为一支专家 Agent 团队并返回名单。

名单提案由 LLM 以严格 JSON 形式产出；空提案、无法解析的提案
或角色重名的提案一律返回 DESIGN_ERROR，绝不交给工作流构建器。
瞬时失败按有界策略重试。
*/
package architect
