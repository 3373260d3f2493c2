package pool

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-pool/config"
	pkgif "github.com/dep2p/go-pool/pkg/interfaces"
)

// ============================================================================
//                              Fx 模块
// ============================================================================

// Module 返回 Fx 模块
//
// 从 Fx 图中的统一配置（*config.Config，可缺省）构建池并注册
// 生命周期：OnStart 按配置预热并启动健康检查，OnStop 优雅关闭。
// 池同时以 interfaces.Pool[T] 形式提供。
//
// 同一类型参数 T 在一个应用中只能装配一个池。
//
// 示例：
//
//	app := fx.New(
//	    fx.Supply(cfg), // *config.Config，可省略
//	    pool.Module[*Conn](
//	        pool.WithFactory(dial),
//	        pool.WithHealthCheck(ping),
//	    ),
//	    fx.Invoke(func(p *pool.Pool[*Conn]) { /* ... */ }),
//	)
func Module[T comparable](opts ...Option[T]) fx.Option {
	return fx.Module("pool",
		fx.Provide(func(params moduleParams) (*Pool[T], error) {
			return New[T](ConfigFromUnified(params.Unified), opts...)
		}),
		fx.Provide(func(p *Pool[T]) pkgif.Pool[T] { return p }),
		fx.Invoke(registerLifecycle[T]),
	)
}

// ModuleWithConfig 以显式运行时配置返回 Fx 模块
//
// 不读取 Fx 图中的统一配置。
func ModuleWithConfig[T comparable](cfg Config, opts ...Option[T]) fx.Option {
	return fx.Module("pool",
		fx.Provide(func() (*Pool[T], error) {
			return New[T](cfg, opts...)
		}),
		fx.Provide(func(p *Pool[T]) pkgif.Pool[T] { return p }),
		fx.Invoke(registerLifecycle[T]),
	)
}

// moduleParams 模块构建参数
type moduleParams struct {
	fx.In

	// Unified 统一配置（缺省时使用默认配置）
	Unified *config.Config `optional:"true"`
}

// lifecycleInput 生命周期输入参数
type lifecycleInput[T comparable] struct {
	fx.In
	LC   fx.Lifecycle
	Pool *Pool[T]
}

// registerLifecycle 注册生命周期
func registerLifecycle[T comparable](input lifecycleInput[T]) {
	p := input.Pool
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.cfg.Prewarm {
				if err := p.Initialize(ctx); err != nil {
					return err
				}
			}
			if p.opts.health != nil {
				return p.StartHealthCheck(p.opts.health)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return p.Shutdown(ctx)
		},
	})
}

// ConfigFromUnified 从统一配置创建运行时配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		MaxSize:        cfg.MaxSize,
		AcquireTimeout: cfg.AcquireTimeout.Duration(),
		IdleTimeout:    cfg.IdleTimeout.Duration(),
		HealthInterval: cfg.HealthInterval.Duration(),
		UnhealthyAfter: cfg.UnhealthyAfter,
		Prewarm:        cfg.Prewarm,
	}
}
