package pool

import (
	"time"
)

// Config 池运行时配置
type Config struct {
	// MaxSize 容量上限（空闲 + 在用 + 创建中）
	MaxSize int

	// AcquireTimeout 默认获取超时
	//
	// 0 表示无限等待，单次调用可通过 AcquireWithTimeout 覆盖
	AcquireTimeout time.Duration

	// IdleTimeout 空闲回收阈值
	//
	// 空闲超过此时间的资源在健康检查扫描中被关闭
	// 0 表示不按空闲时间回收
	IdleTimeout time.Duration

	// HealthInterval 健康检查扫描间隔
	//
	// 默认值: 1 分钟
	HealthInterval time.Duration

	// UnhealthyAfter 连续失败阈值
	//
	// 资源连续未通过健康检查达到此次数后被剔除
	// 默认值: 1（一次失败即剔除）
	UnhealthyAfter int

	// Prewarm 启动时预热
	//
	// 仅对 Fx 模块装配生效，在 OnStart 阶段调用 Initialize
	Prewarm bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxSize:        10,
		AcquireTimeout: 0, // 无限等待
		IdleTimeout:    0, // 不按空闲时间回收
		HealthInterval: 1 * time.Minute,
		UnhealthyAfter: 1,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.MaxSize <= 0 {
		return ErrInvalidConfig
	}
	if c.AcquireTimeout < 0 {
		return ErrInvalidConfig
	}
	if c.IdleTimeout < 0 {
		return ErrInvalidConfig
	}
	if c.HealthInterval < 0 {
		return ErrInvalidConfig
	}
	if c.UnhealthyAfter < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// WithMaxSize 设置容量上限
func (c Config) WithMaxSize(n int) Config {
	c.MaxSize = n
	return c
}

// WithAcquireTimeout 设置默认获取超时
func (c Config) WithAcquireTimeout(d time.Duration) Config {
	c.AcquireTimeout = d
	return c
}

// WithIdleTimeout 设置空闲回收阈值
func (c Config) WithIdleTimeout(d time.Duration) Config {
	c.IdleTimeout = d
	return c
}

// WithHealthInterval 设置健康检查扫描间隔
func (c Config) WithHealthInterval(d time.Duration) Config {
	c.HealthInterval = d
	return c
}

// WithUnhealthyAfter 设置连续失败阈值
func (c Config) WithUnhealthyAfter(n int) Config {
	c.UnhealthyAfter = n
	return c
}

// WithPrewarm 设置启动预热
func (c Config) WithPrewarm(enable bool) Config {
	c.Prewarm = enable
	return c
}
