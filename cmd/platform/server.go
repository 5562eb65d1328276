package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notfabo/projeto-multiagents/api/handlers"
	"github.com/notfabo/projeto-multiagents/architect"
	"github.com/notfabo/projeto-multiagents/config"
	"github.com/notfabo/projeto-multiagents/internal/cache"
	"github.com/notfabo/projeto-multiagents/internal/database"
	"github.com/notfabo/projeto-multiagents/internal/metrics"
	"github.com/notfabo/projeto-multiagents/internal/server"
	"github.com/notfabo/projeto-multiagents/llm"
	"github.com/notfabo/projeto-multiagents/llm/providers/openaicompat"
	"github.com/notfabo/projeto-multiagents/store"
	"github.com/notfabo/projeto-multiagents/workflow"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是平台的主服务器：持有存储、缓存、LLM Provider、
// 架构师、工作流引擎与两个 HTTP 监听（API + 指标）。
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	// 基础设施
	pool         *database.PoolManager
	cacheManager *cache.Manager
	store        *store.Store
	provider     llm.Provider

	// 领域组件
	architect  *architect.Architect
	graphCache *workflow.GraphCache
	engine     *workflow.Engine

	// Handlers
	healthHandler       *handlers.HealthHandler
	useCaseHandler      *handlers.UseCaseHandler
	conversationHandler *handlers.ConversationHandler

	// 指标收集器
	metricsCollector *metrics.Collector

	// 服务器管理器
	httpManager    *server.Manager
	metricsManager *server.Manager
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector("multiagents", s.logger)

	// 2. 初始化基础设施与领域组件
	if err := s.initInfrastructure(); err != nil {
		return fmt.Errorf("failed to init infrastructure: %w", err)
	}
	if err := s.initComponents(); err != nil {
		return fmt.Errorf("failed to init components: %w", err)
	}

	// 3. 启动 HTTP 服务器
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// 4. 启动 Metrics 服务器
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initInfrastructure 打开数据库、迁移 schema、连接 Redis（可选）
func (s *Server) initInfrastructure() error {
	pool, err := database.Open(database.Config{
		Driver:          database.Driver(s.cfg.Database.Driver),
		DSN:             s.cfg.Database.DSN(),
		MaxIdleConns:    s.cfg.Database.MaxIdleConns,
		MaxOpenConns:    s.cfg.Database.MaxOpenConns,
		ConnMaxLifetime: s.cfg.Database.ConnMaxLifetime,
	}, s.logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.pool = pool

	// Redis 可选：未配置地址时 store 以 nil 缓存运行
	if s.cfg.Redis.Addr != "" {
		manager, err := cache.NewManager(cache.Config{
			Addr:       s.cfg.Redis.Addr,
			Password:   s.cfg.Redis.Password,
			DB:         s.cfg.Redis.DB,
			PoolSize:   s.cfg.Redis.PoolSize,
			DefaultTTL: s.cfg.Redis.DefaultTTL,
		}, s.logger)
		if err != nil {
			s.logger.Warn("Redis not available, roster caching disabled", zap.Error(err))
		} else {
			s.cacheManager = manager
		}
	}

	s.store = store.New(pool.DB(), s.cacheManager, s.logger)
	if err := s.store.AutoMigrate(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// initComponents 初始化 LLM Provider、架构师、工作流引擎与 handlers
func (s *Server) initComponents() error {
	s.provider = openaicompat.New(openaicompat.Config{
		ProviderName: s.cfg.LLM.Provider,
		APIKey:       s.cfg.LLM.APIKey,
		BaseURL:      s.cfg.LLM.BaseURL,
		DefaultModel: s.cfg.LLM.Model,
		Timeout:      s.cfg.LLM.Timeout,
	}, s.logger)

	archConfig := architect.DefaultConfig()
	archConfig.Model = s.cfg.LLM.Model
	archConfig.MaxAgents = s.cfg.Architect.MaxAgents
	archConfig.MaxAttempts = s.cfg.Architect.MaxAttempts
	archConfig.Temperature = float32(s.cfg.Architect.Temperature)
	s.architect = architect.New(s.provider, archConfig, s.logger)

	supervisorConfig := workflow.DefaultSupervisorConfig()
	supervisorConfig.Model = s.cfg.LLM.Model
	supervisorConfig.MaxAttempts = s.cfg.Engine.MaxRouteAttempts
	supervisorConfig.RetryDelay = s.cfg.Engine.RetryDelay
	supervisor := workflow.NewSupervisor(s.provider, supervisorConfig, s.logger)

	executorConfig := workflow.DefaultExecutorConfig()
	executorConfig.Model = s.cfg.LLM.Model
	executorConfig.RetryDelay = s.cfg.Engine.RetryDelay
	executor := workflow.NewAgentExecutor(s.provider, executorConfig, s.logger)

	s.graphCache = workflow.NewGraphCache(s.logger)
	s.engine = workflow.NewEngine(supervisor, executor, s.store,
		workflow.EngineConfig{MaxTurns: s.cfg.Engine.MaxTurns}, s.logger)

	// 健康检查
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.healthHandler.RegisterCheck(handlers.NewPingHealthCheck("database", s.pool.Ping))
	if s.cacheManager != nil {
		s.healthHandler.RegisterCheck(handlers.NewPingHealthCheck("redis", s.cacheManager.Ping))
	}

	s.useCaseHandler = handlers.NewUseCaseHandler(s.store, s.architect, s.graphCache, s.logger)
	s.conversationHandler = handlers.NewConversationHandler(
		s.store, s.graphCache, s.engine, s.metricsCollector, s.logger)

	s.logger.Info("Components initialized", zap.String("llm_provider", s.provider.Name()))
	return nil
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

// startHTTPServer 启动 API 服务器
func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	// 健康检查与版本端点
	mux.HandleFunc("GET /health", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /ready", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// 用例与会话路由
	mux.HandleFunc("POST /use_cases/{$}", s.useCaseHandler.HandleCreate)
	mux.HandleFunc("GET /use_cases/{$}", s.useCaseHandler.HandleList)
	mux.HandleFunc("GET /use_cases/{id}/{$}", s.useCaseHandler.HandleDetails)
	mux.HandleFunc("DELETE /use_cases/{id}/{$}", s.useCaseHandler.HandleDelete)
	mux.HandleFunc("POST /use_cases/{id}/conversation/{$}", s.conversationHandler.HandleRun)

	// 构建中间件链
	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
	)

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(handler, serverConfig, s.logger)

	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Metrics 服务器
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.ReadTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)

	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx := context.Background()

	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	if s.cacheManager != nil {
		if err := s.cacheManager.Close(); err != nil {
			s.logger.Error("Cache shutdown error", zap.Error(err))
		}
	}

	if s.pool != nil {
		if err := s.pool.Close(); err != nil {
			s.logger.Error("Database shutdown error", zap.Error(err))
		}
	}

	s.logger.Info("Graceful shutdown completed")
}
