package pool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dep2p/go-pool/pkg/lib/log"
)

// entry 池内资源的跟踪记录
//
// 资源以值本身为身份（map 键），entry 附加创建时间、最近使用
// 时间等元数据，用于空闲回收和日志。
type entry[T comparable] struct {
	// id 资源唯一标识（仅用于日志和健康检查计数）
	id uuid.UUID

	// value 资源值
	value T

	// createdAt 创建时间
	createdAt time.Time

	// lastUsed 最近一次被获取或归还的时间
	lastUsed time.Time

	// uses 被获取的累计次数
	uses int64
}

// newEntry 创建资源跟踪记录
func newEntry[T comparable](v T, now time.Time) *entry[T] {
	return &entry[T]{
		id:        uuid.New(),
		value:     v,
		createdAt: now,
		lastUsed:  now,
	}
}

// shortID 返回截断的资源 ID，用于日志
func (e *entry[T]) shortID() string {
	return log.TruncateID(e.id.String(), 8)
}

// idleFor 返回资源已空闲的时长
func (e *entry[T]) idleFor(now time.Time) time.Duration {
	return now.Sub(e.lastUsed)
}

// create 调用工厂创建资源值
//
// preferSync 为 true 时优先使用同步工厂。工厂返回的错误被包装
// 为 ErrFactory，工厂 panic 同样被捕获并转为 ErrFactory。
func (p *Pool[T]) create(ctx context.Context, preferSync bool) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = errors.Join(ErrFactory, fmt.Errorf("factory panic: %v", r))
		}
	}()

	var cause error
	if preferSync && p.opts.syncFactory != nil {
		v, cause = p.opts.syncFactory()
	} else if p.opts.factory != nil {
		v, cause = p.opts.factory(ctx)
	} else {
		v, cause = p.opts.syncFactory()
	}
	if cause != nil {
		var zero T
		return zero, errors.Join(ErrFactory, cause)
	}
	return v, nil
}

// closeValue 关闭资源值
//
// 优先使用用户提供的关闭函数；未提供时，实现了 io.Closer 的
// 资源调用其 Close 方法，其余资源直接丢弃。
func (p *Pool[T]) closeValue(v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close panic: %v", r)
		}
	}()

	if p.opts.closeFunc != nil {
		return p.opts.closeFunc(v)
	}
	if closer, ok := any(v).(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// closeEntry 关闭资源并计数
func (p *Pool[T]) closeEntry(e *entry[T]) error {
	p.metrics.closed.Add(1)
	logger.Debug("关闭资源", "resource", e.shortID(), "uses", e.uses)

	if err := p.closeValue(e.value); err != nil {
		return fmt.Errorf("close resource %s: %w", e.shortID(), err)
	}
	return nil
}
