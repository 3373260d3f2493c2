package pool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-pool/internal/core/waitqueue"
	"github.com/dep2p/go-pool/pkg/types"
)

// ============================================================================
//                              获取入口
// ============================================================================

// Acquire 获取一个资源
//
// 按以下顺序尝试：
//  1. 复用最早入队的空闲资源
//  2. 未达容量上限时调用工厂创建新资源
//  3. 排队等待其他持有者归还（先到先得）
//
// 配置了默认获取超时时，等待超过该时长返回 ErrAcquireTimeout；
// ctx 被取消时返回 ctx.Err()。池已关闭返回 ErrShutdown。
//
// 示例：
//
//	conn, err := p.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer p.Release(conn)
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	return p.acquire(ctx, p.cfg.AcquireTimeout, false)
}

// AcquireWithTimeout 以指定超时获取资源
//
// timeout 必须为正，覆盖配置中的默认获取超时。
func (p *Pool[T]) AcquireWithTimeout(ctx context.Context, timeout time.Duration) (T, error) {
	if timeout <= 0 {
		var zero T
		return zero, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return p.acquire(ctx, timeout, false)
}

// AcquireBlocking 获取资源（无 context 变体）
//
// 适用于没有 context 传递的调用方，遵循默认获取超时。
// 优先使用同步工厂创建资源。
func (p *Pool[T]) AcquireBlocking() (T, error) {
	return p.acquire(context.Background(), p.cfg.AcquireTimeout, true)
}

// TryAcquire 非阻塞获取
//
// 有空闲资源或可立即创建时返回资源，否则返回 ErrPoolExhausted，
// 从不排队等待。
func (p *Pool[T]) TryAcquire() (T, error) {
	var zero T

	p.mu.Lock()
	if p.state != types.PoolStateOpen {
		p.mu.Unlock()
		p.metrics.acquireFailures.Add(1)
		return zero, ErrShutdown
	}
	if e := p.popIdleLocked(); e != nil {
		p.mu.Unlock()
		p.metrics.acquires.Add(1)
		logger.Debug("复用空闲资源", "resource", e.shortID(), "uses", e.uses)
		p.dispatchAcquire(e.value)
		return e.value, nil
	}
	if p.totalLocked() < p.maxSize {
		p.pending++
		p.mu.Unlock()
		return p.finishCreate(context.Background(), true)
	}
	p.mu.Unlock()

	p.metrics.acquireFailures.Add(1)
	return zero, ErrPoolExhausted
}

// ============================================================================
//                              获取主路径
// ============================================================================

// acquire 获取主路径
func (p *Pool[T]) acquire(ctx context.Context, timeout time.Duration, preferSync bool) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		p.metrics.acquireFailures.Add(1)
		return zero, err
	}

	p.mu.Lock()
	if p.state != types.PoolStateOpen {
		p.mu.Unlock()
		p.metrics.acquireFailures.Add(1)
		return zero, ErrShutdown
	}

	// 空闲复用
	if e := p.popIdleLocked(); e != nil {
		p.mu.Unlock()
		p.metrics.acquires.Add(1)
		logger.Debug("复用空闲资源", "resource", e.shortID(), "uses", e.uses)
		p.dispatchAcquire(e.value)
		return e.value, nil
	}

	// 未达上限，预留槽位后创建
	if p.totalLocked() < p.maxSize {
		p.pending++
		p.mu.Unlock()
		return p.finishCreate(ctx, preferSync)
	}

	// 排队等待归还
	w := p.waiters.PushBack()
	p.mu.Unlock()

	return p.wait(ctx, w, timeout, preferSync)
}

// wait 排队等待凭据送达、超时或取消
func (p *Pool[T]) wait(ctx context.Context, w *waitqueue.Waiter[grant[T]], timeout time.Duration, preferSync bool) (T, error) {
	var zero T

	// timeout 为 0 时无限等待
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		t := p.clock.Timer(timeout)
		defer t.Stop()
		timeoutCh = t.C
	}

	select {
	case g := <-w.C():
		return p.redeem(ctx, g, preferSync)

	case <-timeoutCh:
		p.abandon(w)
		p.metrics.timeouts.Add(1)
		p.metrics.acquireFailures.Add(1)
		logger.Debug("获取超时", "timeout", timeout, "waiting", p.Stats().Waiting)
		return zero, ErrAcquireTimeout

	case <-ctx.Done():
		p.abandon(w)
		p.metrics.acquireFailures.Add(1)
		return zero, ctx.Err()
	}
}

// redeem 兑现一张送达的凭据
func (p *Pool[T]) redeem(ctx context.Context, g grant[T], preferSync bool) (T, error) {
	var zero T

	switch {
	case g.shutdown:
		p.metrics.acquireFailures.Add(1)
		return zero, ErrShutdown

	case g.create:
		return p.finishCreate(ctx, preferSync)

	default:
		// 归还方已将资源登记为在用
		p.metrics.acquires.Add(1)
		logger.Debug("接收移交资源", "resource", g.e.shortID(), "uses", g.e.uses)
		p.dispatchAcquire(g.e.value)
		return g.e.value, nil
	}
}

// abandon 放弃等待
//
// 与投递的竞争在锁内裁决：凭据恰在放弃瞬间送达时将其物归原主，
// 资源重新入池或移交下一位等待者，不会泄漏。
func (p *Pool[T]) abandon(w *waitqueue.Waiter[grant[T]]) {
	p.mu.Lock()
	if p.waiters.Remove(w) {
		p.mu.Unlock()
		return
	}

	// 已被投递，凭据必定已在通道中
	g := <-w.C()

	var toClose *entry[T]
	switch {
	case g.e != nil:
		// 凭据未被兑现，回退移交时登记的使用计数
		g.e.uses--
		delete(p.inUse, g.e.value)
		if !p.recycleLocked(g.e) {
			toClose = g.e
		}
	case g.create:
		p.pending--
		p.wakeCreatorLocked()
	}
	p.checkDrainLocked()
	p.mu.Unlock()

	if toClose != nil {
		if err := p.closeEntry(toClose); err != nil {
			p.handleError(err)
		}
	}
}

// ============================================================================
//                              创建与登记
// ============================================================================

// finishCreate 在已预留的槽位上创建资源并登记为在用
//
// 进入时调用方必须已完成 pending++。无论成败，预留的槽位在
// 返回前被消费或释放。
func (p *Pool[T]) finishCreate(ctx context.Context, preferSync bool) (T, error) {
	var zero T

	v, err := p.create(ctx, preferSync)
	if err != nil {
		p.mu.Lock()
		p.pending--
		p.wakeCreatorLocked()
		p.checkDrainLocked()
		p.mu.Unlock()

		p.metrics.factoryErrors.Add(1)
		p.metrics.acquireFailures.Add(1)
		p.handleError(err)
		return zero, err
	}

	now := p.clock.Now()
	e := newEntry(v, now)
	e.uses = 1

	p.mu.Lock()
	p.pending--
	if p.state != types.PoolStateOpen {
		// 创建期间池开始关闭，资源不再入池
		p.checkDrainLocked()
		p.mu.Unlock()

		if cerr := p.closeValue(v); cerr != nil {
			p.handleError(fmt.Errorf("close resource %s: %w", e.shortID(), cerr))
		}
		p.metrics.acquireFailures.Add(1)
		return zero, ErrShutdown
	}
	if _, dup := p.inUse[v]; dup || p.idleContainsLocked(v) {
		// 工厂返回了与池内现有资源相同的值，身份冲突
		p.wakeCreatorLocked()
		p.mu.Unlock()

		if cerr := p.closeValue(v); cerr != nil {
			p.handleError(fmt.Errorf("close resource %s: %w", e.shortID(), cerr))
		}
		dupErr := errors.Join(ErrFactory, errors.New("factory returned duplicate resource"))
		p.metrics.factoryErrors.Add(1)
		p.metrics.acquireFailures.Add(1)
		p.handleError(dupErr)
		return zero, dupErr
	}
	p.inUse[v] = e
	p.mu.Unlock()

	p.metrics.created.Add(1)
	p.metrics.acquires.Add(1)
	logger.Debug("创建新资源", "resource", e.shortID())
	p.dispatchAcquire(v)
	return v, nil
}

// popIdleLocked 取出最早入队的空闲资源并登记为在用
func (p *Pool[T]) popIdleLocked() *entry[T] {
	if len(p.available) == 0 {
		return nil
	}
	e := p.available[0]
	p.available = p.available[1:]
	e.lastUsed = p.clock.Now()
	e.uses++
	p.inUse[e.value] = e
	return e
}

// idleContainsLocked 空闲队列中是否存在指定资源值
func (p *Pool[T]) idleContainsLocked(v T) bool {
	for _, e := range p.available {
		if e.value == v {
			return true
		}
	}
	return false
}
