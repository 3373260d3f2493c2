package pool

import (
	"fmt"

	"github.com/dep2p/go-pool/pkg/types"
)

// ============================================================================
//                              归还
// ============================================================================

// Release 归还资源
//
// 归还的资源优先直接移交给最早的等待者，其次回到空闲队列。
// 池正在关闭或已缩容到无余位时，资源被直接关闭。
//
// 归还从未由本池发出的资源（或重复归还）返回 ErrUnknownResource
// 并触发错误事件，池状态不受影响。
func (p *Pool[T]) Release(v T) error {
	p.mu.Lock()
	e, ok := p.inUse[v]
	if !ok {
		p.mu.Unlock()

		p.metrics.unknownReleases.Add(1)
		err := fmt.Errorf("%w: %v", ErrUnknownResource, v)
		p.handleError(err)
		return err
	}

	delete(p.inUse, v)
	p.metrics.releases.Add(1)

	recycled := p.recycleLocked(e)
	p.checkDrainLocked()
	p.mu.Unlock()

	if !recycled {
		if err := p.closeEntry(e); err != nil {
			p.handleError(err)
		}
	}
	p.dispatchRelease(v)
	return nil
}

// ============================================================================
//                              回收与唤醒
// ============================================================================

// recycleLocked 尝试将资源回收入池
//
// 优先移交给最早的等待者，否则放回空闲队列尾部。池正在关闭
// 或已无容量余位时返回 false，资源由调用方负责关闭。
func (p *Pool[T]) recycleLocked(e *entry[T]) bool {
	if p.state != types.PoolStateOpen {
		return false
	}
	// 缩容后超出新容量的资源不再入池，归还即关闭，直至收敛
	if p.totalLocked() >= p.maxSize {
		return false
	}
	if p.handToWaiterLocked(e) {
		return true
	}
	e.lastUsed = p.clock.Now()
	p.available = append(p.available, e)
	return true
}

// handToWaiterLocked 将资源直接移交给最早的等待者
//
// 移交即登记为在用，等待者收到的凭据可立即使用。
func (p *Pool[T]) handToWaiterLocked(e *entry[T]) bool {
	w := p.waiters.PopFront()
	if w == nil {
		return false
	}
	e.lastUsed = p.clock.Now()
	e.uses++
	p.inUse[e.value] = e
	w.Deliver(grant[T]{e: e})
	logger.Debug("移交资源给等待者", "resource", e.shortID(), "waiting", p.waiters.Len())
	return true
}

// wakeCreatorLocked 空出了一个容量槽位，唤醒最早的等待者去创建
func (p *Pool[T]) wakeCreatorLocked() {
	if p.state != types.PoolStateOpen || p.totalLocked() >= p.maxSize {
		return
	}
	w := p.waiters.PopFront()
	if w == nil {
		return
	}
	p.pending++
	w.Deliver(grant[T]{create: true})
}

// wakeCreatorsLocked 按剩余容量尽可能多地发放创建凭据
func (p *Pool[T]) wakeCreatorsLocked() {
	for p.state == types.PoolStateOpen && p.totalLocked() < p.maxSize {
		w := p.waiters.PopFront()
		if w == nil {
			return
		}
		p.pending++
		w.Deliver(grant[T]{create: true})
	}
}
