package pool

import (
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-pool/internal/core/waitqueue"
	pkgif "github.com/dep2p/go-pool/pkg/interfaces"
	"github.com/dep2p/go-pool/pkg/lib/log"
	"github.com/dep2p/go-pool/pkg/types"
)

var logger = log.Logger("pool")

// 接口实现检查
var _ pkgif.Pool[int] = (*Pool[int])(nil)

// ============================================================================
//                              核心类型
// ============================================================================

// grant 发放给等待者的凭据
//
// 三种形态，互斥：
//   - e 非 nil: 直接移交一个已登记为在用的资源
//   - create: 容量槽位已预留，等待者自行调用工厂创建
//   - shutdown: 池正在关闭，等待以失败告终
type grant[T comparable] struct {
	e        *entry[T]
	create   bool
	shutdown bool
}

// Pool 通用资源池
//
// 管理一组可复用的资源：按需创建、空闲复用、容量受限。
// 获取顺序为先到先得，归还的资源优先移交给最早的等待者。
//
// 所有方法并发安全。
type Pool[T comparable] struct {
	cfg  Config
	opts *options[T]

	// mu 保护以下全部池状态
	mu      sync.Mutex
	state   types.PoolState
	maxSize int

	// available 空闲队列（队首最旧，复用取队首，归还入队尾）
	available []*entry[T]

	// inUse 在用资源，以资源值为键
	inUse map[T]*entry[T]

	// pending 已预留但尚未落账的容量槽位
	//
	// 创建中的资源和健康检查正在探测的资源都占一个槽位，
	// 保证 空闲 + 在用 + 预留 不超过 maxSize。
	pending int

	// waiters 等待队列（先到先得）
	waiters *waitqueue.Queue[grant[T]]

	// 关闭排水
	drainCh   chan struct{}
	drainOnce sync.Once

	// 健康检查（healthStop 非 nil 表示正在运行）
	healthStop chan struct{}
	healthDone chan struct{}
	failCounts *lru.Cache[uuid.UUID, int]

	clock   clock.Clock
	metrics poolMetrics
	cbs     callbacks[T]
}

// ============================================================================
//                              构造函数
// ============================================================================

// New 创建资源池
//
// 创建后即可获取资源，无需额外启动步骤；需要预热时调用
// Initialize。必须提供至少一个工厂函数。
//
// 示例：
//
//	p, err := pool.New(pool.DefaultConfig().WithMaxSize(20),
//	    pool.WithFactory(func(ctx context.Context) (*Conn, error) {
//	        return dial(ctx)
//	    }),
//	    pool.WithCloseFunc(func(c *Conn) error { return c.Close() }),
//	)
func New[T comparable](cfg Config, opts ...Option[T]) (*Pool[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := newOptions[T]()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	p := &Pool[T]{
		cfg:     cfg,
		opts:    o,
		state:   types.PoolStateOpen,
		maxSize: cfg.MaxSize,
		inUse:   make(map[T]*entry[T]),
		waiters: waitqueue.New[grant[T]](),
		drainCh: make(chan struct{}),
		clock:   o.clock,
	}
	p.cbs.onAcquire = o.onAcquire
	p.cbs.onRelease = o.onRelease
	p.cbs.onError = o.onError

	logger.Debug("资源池已创建", "maxSize", p.maxSize, "acquireTimeout", cfg.AcquireTimeout)
	return p, nil
}

// totalLocked 当前占用的容量槽位（空闲 + 在用 + 预留）
func (p *Pool[T]) totalLocked() int {
	return len(p.available) + len(p.inUse) + p.pending
}

// ============================================================================
//                              状态查询
// ============================================================================

// State 返回池状态
func (p *Pool[T]) State() types.PoolState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Cap 返回容量上限
func (p *Pool[T]) Cap() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxSize
}

// Len 返回当前资源总数（空闲 + 在用）
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available) + len(p.inUse)
}

// Stats 返回当前状态快照
func (p *Pool[T]) Stats() types.PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return types.PoolStats{
		MaxSize:   p.maxSize,
		Available: len(p.available),
		InUse:     len(p.inUse),
		Waiting:   p.waiters.Len(),
		State:     p.state,
	}
}

// String 返回人类可读的状态描述
func (p *Pool[T]) String() string {
	s := p.Stats()
	return fmt.Sprintf("Pool(state=%s, size=%d/%d, available=%d, in_use=%d, waiting=%d)",
		s.State, s.Total(), s.MaxSize, s.Available, s.InUse, s.Waiting)
}
