package pool

import "context"

// ============================================================================
//                              作用域执行
// ============================================================================

// With 在资源作用域内执行函数
//
// 获取资源、执行 fn、保证归还。fn panic 时资源同样被归还，
// panic 继续向上传播。返回获取错误或 fn 的返回值。
//
// 示例：
//
//	err := p.With(ctx, func(conn *Conn) error {
//	    return conn.Ping()
//	})
func (p *Pool[T]) With(ctx context.Context, fn func(T) error) error {
	v, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = p.Release(v)
	}()
	return fn(v)
}

// WithBlocking 作用域执行（无 context 变体）
func (p *Pool[T]) WithBlocking(fn func(T) error) error {
	v, err := p.AcquireBlocking()
	if err != nil {
		return err
	}
	defer func() {
		_ = p.Release(v)
	}()
	return fn(v)
}

// Submit 异步提交作用域任务
//
// 在新 goroutine 中执行 With，返回接收最终结果的通道。通道带
// 缓冲，调用方可以不读取结果；获取资源的排队由池的等待队列
// 完成，提交数量不受容量限制。
func (p *Pool[T]) Submit(ctx context.Context, fn func(T) error) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- p.With(ctx, fn)
	}()
	return done
}
