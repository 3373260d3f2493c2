package pool

import (
	"sync/atomic"

	"github.com/dep2p/go-pool/pkg/types"
)

// ============================================================================
//                              指标收集
// ============================================================================

// poolMetrics 池累计指标（单调递增）
type poolMetrics struct {
	// 获取与归还
	acquires        atomic.Int64
	releases        atomic.Int64
	timeouts        atomic.Int64
	unknownReleases atomic.Int64
	acquireFailures atomic.Int64

	// 资源生命周期
	created       atomic.Int64
	closed        atomic.Int64
	factoryErrors atomic.Int64

	// 错误与健康
	errors          atomic.Int64
	healthEvictions atomic.Int64
}

// snapshot 返回当前指标快照
func (m *poolMetrics) snapshot() types.PoolMetrics {
	return types.PoolMetrics{
		Acquires:        m.acquires.Load(),
		Releases:        m.releases.Load(),
		Timeouts:        m.timeouts.Load(),
		UnknownReleases: m.unknownReleases.Load(),
		AcquireFailures: m.acquireFailures.Load(),
		Created:         m.created.Load(),
		Closed:          m.closed.Load(),
		FactoryErrors:   m.factoryErrors.Load(),
		Errors:          m.errors.Load(),
		HealthEvictions: m.healthEvictions.Load(),
	}
}

// Metrics 返回累计指标快照
//
// 指标只增不减，池关闭后保留终值。
func (p *Pool[T]) Metrics() types.PoolMetrics {
	return p.metrics.snapshot()
}
