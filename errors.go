package pool

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 配置与工厂错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("pool: invalid config")

	// ErrFactory 工厂创建资源失败
	//
	// 具体原因通过 errors.Join 附加，可用 errors.Is 匹配本哨兵。
	ErrFactory = errors.New("pool: factory failed")

	// ────────────────────────────────────────────────────────────────────────
	// 获取与归还错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrAcquireTimeout 获取超时
	ErrAcquireTimeout = errors.New("pool: acquire timed out")

	// ErrPoolExhausted 池已耗尽（仅 TryAcquire 返回）
	ErrPoolExhausted = errors.New("pool: pool exhausted")

	// ErrUnknownResource 归还了未被本池跟踪的资源
	ErrUnknownResource = errors.New("pool: unknown resource released")

	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrShutdown 池已关闭或正在关闭
	ErrShutdown = errors.New("pool: pool is shut down")

	// ErrHealthRunning 健康检查已在运行
	ErrHealthRunning = errors.New("pool: health check already running")
)
