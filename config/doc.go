// 版权所有 (c) Projeto Multiagents Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

// 包 config 提供统一的配置加载，支持 YAML 文件与环境变量覆盖。
// 配置优先级: 默认值 → YAML 文件 → 环境变量（前缀 MULTIAGENTS）。
package config
