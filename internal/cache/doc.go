// Copyright (c) Projeto Multiagents Authors.
// Licensed under the MIT License.

/*
Package cache 提供内部 Redis 缓存管理。

平台用它作为名单（roster）的读通缓存：会话请求只需名单即可编译
工作流图，无需每次访问关系库。Redis 是可选项，未配置时所有方法
无害降级（miss / no-op）。
本包为内部包，不应被外部项目导入。
*/
package cache
