// Package interfaces 定义 go-pool 公共接口
//
// 本文件定义 Pool 接口，是资源池的顶层 API 入口。
package interfaces

import (
	"context"
	"time"

	"github.com/dep2p/go-pool/pkg/types"
)

// Pool 定义通用资源池的顶层接口
//
// Pool 管理一组可复用的资源：按需创建、空闲复用、容量受限。
// 类型参数 T 必须可比较，池以资源值本身作为身份标识。
//
// 实现必须并发安全。
type Pool[T comparable] interface {
	// ════════════════════════════════════════════════════════════════════════
	// 获取与归还
	// ════════════════════════════════════════════════════════════════════════

	// Acquire 获取一个资源
	//
	// 优先复用空闲资源，无空闲且未达容量上限时创建新资源，
	// 否则排队等待其他持有者归还。等待顺序为先到先得。
	//
	// 配置了默认获取超时时，超过该时长返回 ErrAcquireTimeout；
	// ctx 被取消时返回 ctx.Err()。
	Acquire(ctx context.Context) (T, error)

	// AcquireWithTimeout 以指定超时获取资源
	//
	// timeout 必须为正，覆盖配置中的默认获取超时。
	AcquireWithTimeout(ctx context.Context, timeout time.Duration) (T, error)

	// AcquireBlocking 获取资源（无 context 变体）
	//
	// 适用于没有 context 传递的调用方，遵循默认获取超时。
	AcquireBlocking() (T, error)

	// TryAcquire 非阻塞获取
	//
	// 无空闲资源且无法立即创建时返回 ErrPoolExhausted，从不等待。
	TryAcquire() (T, error)

	// Release 归还资源
	//
	// 归还后资源回到空闲队列或移交给等待者。归还从未由本池
	// 发出的资源返回 ErrUnknownResource，重复归还同理。
	Release(v T) error

	// ════════════════════════════════════════════════════════════════════════
	// 生命周期
	// ════════════════════════════════════════════════════════════════════════

	// Initialize 预创建资源填满池
	//
	// 并发调用工厂直至池达到容量上限。任一失败即取消其余创建，
	// 保留已成功的资源，返回聚合后的创建错误。
	Initialize(ctx context.Context) error

	// InitializeBlocking 预热（无 context 变体）
	InitializeBlocking() error

	// Shutdown 优雅关闭
	//
	// 停止接受新的获取请求，唤醒所有等待者，等待在用资源归还后
	// 关闭全部资源。ctx 到期时放弃等待，直接关闭空闲资源。
	// 重复调用返回 nil。
	Shutdown(ctx context.Context) error

	// Close 立即关闭
	//
	// 不等待在用资源归还，直接关闭所有空闲资源。
	Close() error

	// ════════════════════════════════════════════════════════════════════════
	// 作用域执行
	// ════════════════════════════════════════════════════════════════════════

	// With 在资源作用域内执行函数
	//
	// 获取资源、执行 fn、保证归还（fn panic 时同样归还）。
	// 返回获取错误或 fn 的返回值。
	With(ctx context.Context, fn func(T) error) error

	// WithBlocking 作用域执行（无 context 变体)
	WithBlocking(fn func(T) error) error

	// Submit 异步提交作用域任务
	//
	// 在新 goroutine 中执行 With，返回接收最终结果的通道。
	// 通道带缓冲，调用方可不读取。
	Submit(ctx context.Context, fn func(T) error) <-chan error

	// ════════════════════════════════════════════════════════════════════════
	// 运维
	// ════════════════════════════════════════════════════════════════════════

	// Resize 调整池容量
	//
	// 扩容立即对排队的等待者生效；缩容关闭多余的空闲资源，
	// 在用资源不受影响，归还时自然收敛到新容量。
	Resize(n int) error

	// StartHealthCheck 启动后台健康检查
	//
	// 按配置的间隔扫描空闲资源：超过空闲回收阈值的直接关闭，
	// 连续未通过 check 达到阈值次数的剔除。check 为 nil 时仅
	// 做空闲回收，此时必须配置空闲回收阈值。
	//
	// 已在运行时返回 ErrHealthRunning。
	StartHealthCheck(check func(T) bool) error

	// StopHealthCheck 停止后台健康检查
	//
	// 未在运行时为空操作。
	StopHealthCheck()

	// ════════════════════════════════════════════════════════════════════════
	// 回调
	// ════════════════════════════════════════════════════════════════════════

	// OnAcquire 注册获取回调
	//
	// 每次成功获取后以获取到的资源调用。回调中的 panic 被捕获
	// 并转为错误事件，不影响获取本身。
	OnAcquire(fn func(T))

	// OnRelease 注册归还回调
	OnRelease(fn func(T))

	// OnError 注册错误回调
	//
	// 池内部错误（工厂失败、关闭失败、回调 panic 等）发生时调用。
	// 错误回调自身的 panic 只记录日志，不会再次触发错误事件。
	OnError(fn func(error))

	// ════════════════════════════════════════════════════════════════════════
	// 状态查询
	// ════════════════════════════════════════════════════════════════════════

	// Stats 返回当前快照
	Stats() types.PoolStats

	// Metrics 返回累计指标
	Metrics() types.PoolMetrics

	// Len 返回当前资源总数（空闲 + 在用）
	Len() int

	// Cap 返回容量上限
	Cap() int

	// State 返回池状态
	State() types.PoolState

	// String 返回人类可读的状态描述
	String() string
}
