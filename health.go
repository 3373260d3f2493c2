package pool

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-pool/pkg/types"
)

// ============================================================================
//                              健康检查
// ============================================================================

// StartHealthCheck 启动后台健康检查
//
// 按 Config.HealthInterval 周期扫描空闲资源：超过
// Config.IdleTimeout 未使用的直接关闭；未通过 check 谓词的累计
// 失败次数，连续达到 Config.UnhealthyAfter 次后剔除。探测在池
// 锁之外执行，被探测的资源对获取方不可见。
//
// check 为 nil 时仅做空闲回收，此时必须配置 IdleTimeout。
// 已在运行返回 ErrHealthRunning，池已关闭返回 ErrShutdown。
func (p *Pool[T]) StartHealthCheck(check func(T) bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != types.PoolStateOpen {
		return ErrShutdown
	}
	if p.healthStop != nil {
		return ErrHealthRunning
	}
	if check == nil && p.cfg.IdleTimeout <= 0 {
		return fmt.Errorf("%w: nil check requires idle timeout", ErrInvalidConfig)
	}

	if p.failCounts == nil {
		size := p.maxSize * 2
		if size < 8 {
			size = 8
		}
		cache, err := lru.New[uuid.UUID, int](size)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		p.failCounts = cache
	}

	interval := p.cfg.HealthInterval
	if interval <= 0 {
		interval = time.Minute
	}

	p.healthStop = make(chan struct{})
	p.healthDone = make(chan struct{})
	go p.healthLoop(p.healthStop, p.healthDone, check, interval)
	return nil
}

// StopHealthCheck 停止后台健康检查
//
// 等待后台扫描退出后返回。未在运行时为空操作。
func (p *Pool[T]) StopHealthCheck() {
	p.mu.Lock()
	done := p.healthDone
	p.stopHealthLocked()
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}

// stopHealthLocked 发出健康检查停止信号，不等待退出
func (p *Pool[T]) stopHealthLocked() {
	if p.healthStop != nil {
		close(p.healthStop)
		p.healthStop = nil
	}
}

// ============================================================================
//                              后台扫描
// ============================================================================

// healthLoop 健康检查主循环
func (p *Pool[T]) healthLoop(stop, done chan struct{}, check HealthFunc[T], interval time.Duration) {
	defer close(done)

	ticker := p.clock.Ticker(interval)
	defer ticker.Stop()

	logger.Info("健康检查已启动", "interval", interval)
	for {
		select {
		case <-ticker.C:
			p.sweep(check)
		case <-stop:
			logger.Info("健康检查已停止")
			return
		}
	}
}

// sweep 扫描一轮空闲资源
//
// 逐个取出空闲队首探测，探测期间资源占用一个预留槽位，对
// 获取方不可见。最多处理扫描开始时已在队列中的资源数。
func (p *Pool[T]) sweep(check HealthFunc[T]) {
	p.mu.Lock()
	n := len(p.available)
	p.mu.Unlock()

	for i := 0; i < n; i++ {
		p.mu.Lock()
		if p.state != types.PoolStateOpen || len(p.available) == 0 {
			p.mu.Unlock()
			return
		}
		e := p.available[0]
		p.available = p.available[1:]
		p.pending++
		now := p.clock.Now()
		p.mu.Unlock()

		// 空闲回收先于健康探测
		if p.cfg.IdleTimeout > 0 && e.idleFor(now) > p.cfg.IdleTimeout {
			p.evict(e, "idle")
			continue
		}

		if check == nil || p.probe(check, e) {
			p.requeue(e, true)
			continue
		}

		if p.bumpFailCount(e) >= p.cfg.UnhealthyAfter {
			p.evict(e, "unhealthy")
		} else {
			p.requeue(e, false)
		}
	}
}

// probe 执行健康探测，谓词 panic 视为不健康
func (p *Pool[T]) probe(check HealthFunc[T], e *entry[T]) (healthy bool) {
	defer func() {
		if r := recover(); r != nil {
			healthy = false
			p.handleError(fmt.Errorf("health check panic: %v", r))
		}
	}()
	return check(e.value)
}

// requeue 将探测完的资源放回空闲队列
//
// 保留原 lastUsed，空闲时长跨扫描累计。池在探测期间关闭或
// 缩容到无余位时资源被关闭。
func (p *Pool[T]) requeue(e *entry[T], healthy bool) {
	if healthy {
		p.clearFailCount(e)
	}

	var toClose bool
	p.mu.Lock()
	p.pending--
	if p.state != types.PoolStateOpen || p.totalLocked() >= p.maxSize {
		toClose = true
	} else if !p.handToWaiterLocked(e) {
		p.available = append(p.available, e)
	}
	p.checkDrainLocked()
	p.mu.Unlock()

	if toClose {
		if err := p.closeEntry(e); err != nil {
			p.handleError(err)
		}
	}
}

// evict 剔除资源并释放其容量槽位
func (p *Pool[T]) evict(e *entry[T], reason string) {
	p.clearFailCount(e)

	p.mu.Lock()
	p.pending--
	p.wakeCreatorLocked()
	p.checkDrainLocked()
	p.mu.Unlock()

	p.metrics.healthEvictions.Add(1)
	logger.Info("健康检查剔除资源", "resource", e.shortID(), "reason", reason, "uses", e.uses)

	if err := p.closeEntry(e); err != nil {
		p.handleError(err)
	}
}

// ============================================================================
//                              失败计数
// ============================================================================

// bumpFailCount 递增连续失败计数，返回递增后的值
func (p *Pool[T]) bumpFailCount(e *entry[T]) int {
	n, _ := p.failCounts.Get(e.id)
	n++
	p.failCounts.Add(e.id, n)
	return n
}

// clearFailCount 清除连续失败计数
func (p *Pool[T]) clearFailCount(e *entry[T]) {
	p.failCounts.Remove(e.id)
}
