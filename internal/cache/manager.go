package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// =============================================================================
// 💾 缓存管理器
// =============================================================================

// ErrMiss 表示键不存在
var ErrMiss = errors.New("cache: miss")

// Config 缓存配置
type Config struct {
	// Redis 地址（为空表示禁用缓存）
	Addr string `yaml:"addr" json:"addr"`

	// 密码
	Password string `yaml:"password" json:"password"`

	// 数据库编号
	DB int `yaml:"db" json:"db"`

	// 默认过期时间
	DefaultTTL time.Duration `yaml:"default_ttl" json:"default_ttl"`

	// 最大重试次数
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// 连接池大小
	PoolSize int `yaml:"pool_size" json:"pool_size"`
}

// DefaultConfig 返回默认缓存配置
func DefaultConfig() Config {
	return Config{
		Addr:       "",
		DefaultTTL: 10 * time.Minute,
		MaxRetries: 3,
		PoolSize:   10,
	}
}

// Manager 缓存管理器。nil *Manager 是合法的空实现：
// Get 一律 miss，Set/Delete 为 no-op。
type Manager struct {
	redis  *redis.Client
	config Config
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewManager 创建缓存管理器并验证连通性
func NewManager(config Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:       config.Addr,
		Password:   config.Password,
		DB:         config.DB,
		MaxRetries: config.MaxRetries,
		PoolSize:   config.PoolSize,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	m := &Manager{
		redis:  client,
		config: config,
		logger: logger.With(zap.String("component", "cache")),
	}

	m.logger.Info("cache manager initialized", zap.String("addr", config.Addr))
	return m, nil
}

// =============================================================================
// 🎯 核心方法
// =============================================================================

// SetJSON 将值序列化为 JSON 并写入缓存。ttl 为 0 时使用默认 TTL。
func (m *Manager) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("cache is closed")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	if ttl <= 0 {
		ttl = m.config.DefaultTTL
	}
	return m.redis.Set(ctx, key, data, ttl).Err()
}

// GetJSON 读取缓存并反序列化到 out。键不存在返回 ErrMiss。
func (m *Manager) GetJSON(ctx context.Context, key string, out any) error {
	if m == nil {
		return ErrMiss
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrMiss
	}

	data, err := m.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Delete 删除一个或多个键
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	if m == nil || len(keys) == 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil
	}
	return m.redis.Del(ctx, keys...).Err()
}

// Ping 检查 Redis 连接
func (m *Manager) Ping(ctx context.Context) error {
	if m == nil {
		return fmt.Errorf("cache not configured")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("cache is closed")
	}
	return m.redis.Ping(ctx).Err()
}

// Close 关闭缓存连接
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.logger.Info("closing cache manager")
	return m.redis.Close()
}
