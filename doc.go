// Package pool 提供通用并发资源池
//
// go-pool 管理一组创建代价高昂的资源（连接、会话、句柄），
// 在并发调用方之间复用：按需创建、空闲复用、容量受限、
// 超时排队，并内置健康检查与运行指标。
//
// # 核心概念
//
// pool 围绕三个核心概念构建：
//
//   - Pool[T]: 资源池本体，T 为资源类型（必须可比较）
//   - Factory: 创建资源的工厂函数，池按需调用
//   - 凭据移交: 归还的资源直接交给最早的等待者，不经过空闲队列
//
// # 快速开始
//
//	import "github.com/dep2p/go-pool"
//
//	// 1. 创建池
//	p, err := pool.New(pool.DefaultConfig().WithMaxSize(20),
//	    pool.WithFactory(func(ctx context.Context) (*Conn, error) {
//	        return dial(ctx)
//	    }),
//	    pool.WithCloseFunc(func(c *Conn) error { return c.Close() }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// 2. 获取与归还
//	conn, err := p.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer p.Release(conn)
//
//	// 3. 或使用作用域执行，自动归还
//	err = p.With(ctx, func(c *Conn) error {
//	    return c.Ping()
//	})
//
//	// 4. 结束时优雅关闭
//	defer p.Shutdown(context.Background())
//
// # 获取顺序
//
// Acquire 按固定顺序尝试三条路径：
//
//	┌──────────────┐    ┌──────────────┐    ┌──────────────┐
//	│  空闲复用     │ →  │  工厂创建     │ →  │  排队等待     │
//	│  最旧的先出   │    │  未达容量上限 │    │  先到先得     │
//	└──────────────┘    └──────────────┘    └──────────────┘
//
// 等待受超时约束：配置的默认超时、单次调用超时或 ctx 取消，
// 先到者生效。超时恰与归还撞车时资源物归原主，不会泄漏。
//
// # 文件组织
//
// 本包按功能领域组织代码：
//
//	go-pool/
//	├── doc.go                # 包文档
//	│
//	# ════════════════════════════════════════════════════════════════
//	#                          核心路径
//	# ════════════════════════════════════════════════════════════════
//	├── pool.go               # Pool 结构定义、New()、状态查询
//	├── acquire.go            # Acquire 系列、等待与凭据兑现
//	├── release.go            # Release、回收与等待者唤醒
//	├── resource.go           # 资源跟踪记录、工厂调用、关闭
//	│
//	# ════════════════════════════════════════════════════════════════
//	#                          生命周期与运维
//	# ════════════════════════════════════════════════════════════════
//	├── lifecycle.go          # Initialize 预热、Shutdown、Close
//	├── resize.go             # 运行时调整容量
//	├── health.go             # 后台健康检查与空闲回收
//	├── scoped.go             # With、WithBlocking、Submit
//	│
//	# ════════════════════════════════════════════════════════════════
//	#                          支撑层
//	# ════════════════════════════════════════════════════════════════
//	├── config.go             # 运行时配置
//	├── options.go            # WithXxx 配置选项
//	├── callbacks.go          # OnAcquire、OnRelease、OnError
//	├── metrics.go            # 累计指标
//	├── collector.go          # Prometheus 采集器
//	├── module.go             # Fx 模块装配
//	└── errors.go             # 错误定义
//
// # 并发安全
//
// Pool 的所有方法并发安全。回调与工厂在池锁之外调用，
// 回调内可以安全地再次操作池。
//
// # Fx 模块
//
// 通过 Module 或 ModuleWithConfig 将池装配进 Fx 应用，
// 生命周期（预热、健康检查、优雅关闭）随应用自动管理：
//
//	app := fx.New(
//	    pool.Module[*Conn](pool.WithFactory(dial)),
//	    fx.Invoke(func(p *pool.Pool[*Conn]) { /* ... */ }),
//	)
//
// # 更多资源
//
//   - 使用示例: examples/
//
// 更多信息请访问: https://github.com/dep2p/go-pool
package pool
