package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-pool/pkg/types"
)

// ============================================================================
//                              预热
// ============================================================================

// Initialize 预创建资源填满池
//
// 并发调用工厂直至池达到容量上限，已有资源计入容量。任一创建
// 失败即取消尚未完成的创建，已成功的资源保留在池中，返回聚合
// 后的创建错误；全部成功返回 nil。
//
// 预热期间到达的获取请求正常排队，新创建的资源优先移交给
// 等待者。
func (p *Pool[T]) Initialize(ctx context.Context) error {
	return p.initialize(ctx, false)
}

// InitializeBlocking 预热（无 context 变体）
//
// 优先使用同步工厂创建资源。
func (p *Pool[T]) InitializeBlocking() error {
	return p.initialize(context.Background(), true)
}

// initialize 预热主路径
func (p *Pool[T]) initialize(ctx context.Context, preferSync bool) error {
	p.mu.Lock()
	if p.state != types.PoolStateOpen {
		p.mu.Unlock()
		return ErrShutdown
	}
	need := p.maxSize - p.totalLocked()
	if need <= 0 {
		p.mu.Unlock()
		return nil
	}
	p.pending += need
	p.mu.Unlock()

	logger.Debug("开始预热", "need", need)

	// 并发创建，首个失败即取消其余创建，已成功的资源照常入池
	var (
		collectMu sync.Mutex
		values    []T
		errs      []error
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < need; i++ {
		g.Go(func() error {
			v, err := p.create(gctx, preferSync)
			collectMu.Lock()
			defer collectMu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return err
			}
			values = append(values, v)
			return nil
		})
	}
	_ = g.Wait()
	factoryFailures := len(errs)

	// 落账：每个成功创建消费一个预留槽位，失败的槽位整体退还
	now := p.clock.Now()
	var leftovers []T
	p.mu.Lock()
	for _, v := range values {
		p.pending--
		if p.state != types.PoolStateOpen {
			leftovers = append(leftovers, v)
			continue
		}
		if p.trackedLocked(v) {
			leftovers = append(leftovers, v)
			errs = append(errs, errors.Join(ErrFactory, errors.New("factory returned duplicate resource")))
			continue
		}
		e := newEntry(v, now)
		p.metrics.created.Add(1)
		if p.handToWaiterLocked(e) {
			continue
		}
		p.available = append(p.available, e)
	}
	p.pending -= factoryFailures
	p.wakeCreatorsLocked()
	p.checkDrainLocked()
	p.mu.Unlock()

	for _, v := range leftovers {
		if cerr := p.closeValue(v); cerr != nil {
			p.handleError(fmt.Errorf("close leftover resource: %w", cerr))
		}
	}
	for range errs {
		p.metrics.factoryErrors.Add(1)
	}

	logger.Debug("预热完成", "created", len(values)-len(leftovers), "failed", len(errs))
	return multierr.Combine(errs...)
}

// trackedLocked 资源值是否已被池跟踪（在用或空闲）
func (p *Pool[T]) trackedLocked(v T) bool {
	if _, ok := p.inUse[v]; ok {
		return true
	}
	return p.idleContainsLocked(v)
}

// ============================================================================
//                              关闭
// ============================================================================

// Shutdown 优雅关闭
//
// 停止接受新的获取请求，以 ErrShutdown 唤醒所有等待者，等待
// 在用资源全部归还后关闭所有资源。ctx 到期时放弃等待，直接
// 关闭空闲资源并返回 ctx 错误；仍在外的资源在其归还时被关闭。
//
// 重复调用返回 nil。
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	switch p.state {
	case types.PoolStateClosed:
		p.mu.Unlock()
		return nil
	case types.PoolStateOpen:
		p.beginShutdownLocked()
		logger.Info("开始关闭资源池",
			"inUse", len(p.inUse), "available", len(p.available), "pending", p.pending)
	}
	p.checkDrainLocked()
	p.mu.Unlock()

	// 等待在用与创建中的资源全部了结
	var waitErr error
	select {
	case <-p.drainCh:
	case <-ctx.Done():
		waitErr = ctx.Err()
		logger.Warn("关闭等待超时，放弃排水", "error", waitErr)
	}

	return p.closeIdle(waitErr)
}

// Close 立即关闭
//
// 不等待在用资源归还，直接关闭所有空闲资源。仍在外的资源在
// 其归还时被关闭。重复调用返回 nil。
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	if p.state == types.PoolStateClosed {
		p.mu.Unlock()
		return nil
	}
	if p.state == types.PoolStateOpen {
		p.beginShutdownLocked()
		logger.Info("立即关闭资源池", "inUse", len(p.inUse), "available", len(p.available))
	}
	p.checkDrainLocked()
	p.mu.Unlock()

	return p.closeIdle(nil)
}

// beginShutdownLocked 进入关闭流程
//
// 停止健康检查，以关闭凭据唤醒所有等待者。
func (p *Pool[T]) beginShutdownLocked() {
	p.state = types.PoolStateShuttingDown
	p.stopHealthLocked()
	for {
		w := p.waiters.PopFront()
		if w == nil {
			break
		}
		w.Deliver(grant[T]{shutdown: true})
	}
}

// closeIdle 关闭全部空闲资源并将池置为已关闭
//
// waitErr 为排水阶段的错误（ctx 到期），与关闭错误聚合返回。
func (p *Pool[T]) closeIdle(waitErr error) error {
	p.mu.Lock()
	p.state = types.PoolStateClosed
	idle := p.available
	p.available = nil
	p.mu.Unlock()

	err := waitErr
	for _, e := range idle {
		if cerr := p.closeEntry(e); cerr != nil {
			err = multierr.Append(err, cerr)
		}
	}

	if err != nil {
		logger.Warn("资源池关闭完成（有错误）", "error", err)
	} else {
		logger.Info("资源池已关闭")
	}
	return err
}

// checkDrainLocked 排水完成检测
//
// 关闭流程等待在用与创建中（含健康检查占用）的资源全部了结。
func (p *Pool[T]) checkDrainLocked() {
	if p.state == types.PoolStateOpen {
		return
	}
	if len(p.inUse) == 0 && p.pending == 0 {
		p.closeDrainLocked()
	}
}

// closeDrainLocked 标记排水完成
func (p *Pool[T]) closeDrainLocked() {
	p.drainOnce.Do(func() { close(p.drainCh) })
}
