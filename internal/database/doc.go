// Copyright (c) Projeto Multiagents Authors.
// Licensed under the MIT License.

/*
Package database 提供内部数据库连接管理。

支持 SQLite（默认，零配置本地运行）与 PostgreSQL 两种驱动，
并提供连接池参数调优与周期健康检查。
本包为内部包，不应被外部项目导入。
*/
package database
