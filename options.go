package pool

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
)

// Factory 创建资源的工厂函数
//
// 创建失败时返回错误，池会将其包装为 ErrFactory。
// ctx 携带单次获取的截止时间，工厂应尊重取消信号。
type Factory[T any] func(ctx context.Context) (T, error)

// SyncFactory 同步工厂函数（无 context 变体）
//
// 适用于创建过程不涉及 I/O 或无法接受 context 的场景。
type SyncFactory[T any] func() (T, error)

// CloseFunc 关闭资源的函数
type CloseFunc[T any] func(v T) error

// HealthFunc 健康检查谓词
//
// 返回 false 表示资源不健康。谓词中的 panic 被视为不健康。
type HealthFunc[T any] func(v T) bool

// Option 用户配置选项函数
type Option[T comparable] func(*options[T]) error

// options 内部选项结构
type options[T comparable] struct {
	// 工厂函数
	factory     Factory[T]
	syncFactory SyncFactory[T]

	// 资源关闭函数
	closeFunc CloseFunc[T]

	// 健康检查谓词（Fx 模块在 OnStart 阶段使用）
	health HealthFunc[T]

	// 时钟（测试时替换为 mock）
	clock clock.Clock

	// 回调
	onAcquire []func(T)
	onRelease []func(T)
	onError   []func(error)
}

// newOptions 创建默认选项
func newOptions[T comparable]() *options[T] {
	return &options[T]{
		clock: clock.New(),
	}
}

// validate 验证选项完整性
func (o *options[T]) validate() error {
	if o.factory == nil && o.syncFactory == nil {
		return fmt.Errorf("必须提供至少一个工厂函数")
	}
	return nil
}

// ============================================================================
//                              工厂选项
// ============================================================================

// WithFactory 设置资源工厂
//
// Acquire 系列方法优先使用此工厂，ctx 携带获取截止时间。
//
//	pool.New(cfg, pool.WithFactory(func(ctx context.Context) (*sql.Conn, error) {
//	    return db.Conn(ctx)
//	}))
func WithFactory[T comparable](fn Factory[T]) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return fmt.Errorf("工厂函数不能为空")
		}
		o.factory = fn
		return nil
	}
}

// WithSyncFactory 设置同步资源工厂
//
// AcquireBlocking 优先使用此工厂。与 WithFactory 同时设置时，
// 带 context 的获取走 Factory，阻塞式获取走 SyncFactory。
func WithSyncFactory[T comparable](fn SyncFactory[T]) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return fmt.Errorf("同步工厂函数不能为空")
		}
		o.syncFactory = fn
		return nil
	}
}

// ============================================================================
//                              生命周期选项
// ============================================================================

// WithCloseFunc 设置资源关闭函数
//
// 未设置时，实现了 io.Closer 的资源调用其 Close 方法，
// 其余资源直接丢弃。
func WithCloseFunc[T comparable](fn CloseFunc[T]) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return fmt.Errorf("关闭函数不能为空")
		}
		o.closeFunc = fn
		return nil
	}
}

// WithHealthCheck 设置健康检查谓词
//
// 仅对 Fx 模块装配生效：OnStart 阶段以此谓词调用
// StartHealthCheck。直接构造的池请显式调用 StartHealthCheck。
func WithHealthCheck[T comparable](fn HealthFunc[T]) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return fmt.Errorf("健康检查谓词不能为空")
		}
		o.health = fn
		return nil
	}
}

// WithClock 设置时钟
//
// 测试时注入 mock 时钟以控制超时和健康检查的时间推进。
func WithClock[T comparable](c clock.Clock) Option[T] {
	return func(o *options[T]) error {
		if c == nil {
			return fmt.Errorf("时钟不能为空")
		}
		o.clock = c
		return nil
	}
}

// ============================================================================
//                              回调选项
// ============================================================================

// WithOnAcquire 注册获取回调
//
// 等价于构造后调用 OnAcquire，便于在 Fx 模块装配时声明。
func WithOnAcquire[T comparable](fn func(T)) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return fmt.Errorf("回调函数不能为空")
		}
		o.onAcquire = append(o.onAcquire, fn)
		return nil
	}
}

// WithOnRelease 注册归还回调
func WithOnRelease[T comparable](fn func(T)) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return fmt.Errorf("回调函数不能为空")
		}
		o.onRelease = append(o.onRelease, fn)
		return nil
	}
}

// WithOnError 注册错误回调
func WithOnError[T comparable](fn func(error)) Option[T] {
	return func(o *options[T]) error {
		if fn == nil {
			return fmt.Errorf("回调函数不能为空")
		}
		o.onError = append(o.onError, fn)
		return nil
	}
}
