// Package config 提供 go-pool 的统一配置管理
//
// 支持从 JSON 文件或字节流加载池配置，时长字段使用 Duration
// 包装类型，可写作 "30s" 这样的字符串：
//
//	{
//	    "max_size": 20,
//	    "acquire_timeout": "5s",
//	    "idle_timeout": "10m",
//	    "health_interval": "1m",
//	    "unhealthy_after": 3,
//	    "prewarm": true
//	}
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.WithMaxSize(20).WithAcquireTimeout(5 * time.Second)
//
//	// 从 JSON 文件加载
//	cfg, err := config.LoadFile("pool.json")
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Config 池的可序列化配置
//
// 未出现在 JSON 中的字段保持默认值；通过 Fx 模块装配时由
// pool.ConfigFromUnified 转换为运行时配置。
type Config struct {
	// MaxSize 池容量（必须为正）
	MaxSize int `json:"max_size"`

	// AcquireTimeout 默认获取超时
	// 0 表示无限等待，单次调用可覆盖
	AcquireTimeout Duration `json:"acquire_timeout,omitempty"`

	// IdleTimeout 空闲回收阈值
	// 空闲超过此时间的资源在健康检查扫描中被关闭，0 表示不回收
	IdleTimeout Duration `json:"idle_timeout,omitempty"`

	// HealthInterval 健康检查扫描间隔
	HealthInterval Duration `json:"health_interval,omitempty"`

	// UnhealthyAfter 连续失败阈值
	// 资源连续未通过健康检查达到此次数后被剔除
	UnhealthyAfter int `json:"unhealthy_after,omitempty"`

	// Prewarm 启动时预热
	// 通过 Fx 模块装配时在 OnStart 阶段预创建资源填满池
	Prewarm bool `json:"prewarm,omitempty"`
}

// NewConfig 返回带默认值的配置
func NewConfig() *Config {
	return &Config{
		// ════════════════════════════════════════════════════════════════════
		// 容量与获取
		// ════════════════════════════════════════════════════════════════════
		MaxSize:        10, // 默认容量：10 个资源
		AcquireTimeout: 0,  // 默认无限等待

		// ════════════════════════════════════════════════════════════════════
		// 健康检查
		// ════════════════════════════════════════════════════════════════════
		HealthInterval: Duration(1 * time.Minute), // 每分钟扫描一轮空闲资源
		UnhealthyAfter: 1,                         // 一次失败即剔除
	}
}

// Load 从 JSON 字节流解析配置
func Load(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Load(data)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.MaxSize <= 0 {
		return errors.New("max size must be positive")
	}
	if c.AcquireTimeout < 0 {
		return errors.New("acquire timeout must be non-negative")
	}
	if c.IdleTimeout < 0 {
		return errors.New("idle timeout must be non-negative")
	}
	if c.HealthInterval < 0 {
		return errors.New("health interval must be non-negative")
	}
	if c.UnhealthyAfter < 0 {
		return errors.New("unhealthy threshold must be non-negative")
	}
	return nil
}

// WithMaxSize 设置池容量
func (c *Config) WithMaxSize(n int) *Config {
	c.MaxSize = n
	return c
}

// WithAcquireTimeout 设置默认获取超时
func (c *Config) WithAcquireTimeout(d time.Duration) *Config {
	c.AcquireTimeout = Duration(d)
	return c
}

// WithIdleTimeout 设置空闲回收阈值
func (c *Config) WithIdleTimeout(d time.Duration) *Config {
	c.IdleTimeout = Duration(d)
	return c
}

// WithHealthInterval 设置健康检查间隔
func (c *Config) WithHealthInterval(d time.Duration) *Config {
	c.HealthInterval = Duration(d)
	return c
}

// WithUnhealthyAfter 设置连续失败阈值
func (c *Config) WithUnhealthyAfter(n int) *Config {
	c.UnhealthyAfter = n
	return c
}

// WithPrewarm 设置启动预热
func (c *Config) WithPrewarm(enable bool) *Config {
	c.Prewarm = enable
	return c
}
