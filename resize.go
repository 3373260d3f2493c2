package pool

import (
	"fmt"

	"github.com/dep2p/go-pool/pkg/types"
)

// Resize 调整池容量
//
// 扩容立即为排队的等待者发放创建凭据；缩容立即关闭多余的空闲
// 资源（最旧的先关闭），在用资源不受影响，归还时超出新容量的
// 部分被关闭，池总量逐步收敛到新容量。
//
// n 必须为正；池非打开状态返回 ErrShutdown。
func (p *Pool[T]) Resize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrInvalidConfig)
	}

	p.mu.Lock()
	if p.state != types.PoolStateOpen {
		p.mu.Unlock()
		return ErrShutdown
	}

	old := p.maxSize
	p.maxSize = n

	// 缩容：裁掉多余的空闲资源，最旧的先走
	var evicted []*entry[T]
	for len(p.available) > 0 && p.totalLocked() > p.maxSize {
		e := p.available[0]
		p.available = p.available[1:]
		evicted = append(evicted, e)
	}

	// 扩容：为排队的等待者发放创建凭据
	p.wakeCreatorsLocked()
	p.mu.Unlock()

	logger.Info("调整池容量", "old", old, "new", n, "evicted", len(evicted))

	for _, e := range evicted {
		if err := p.closeEntry(e); err != nil {
			p.handleError(err)
		}
	}
	return nil
}
