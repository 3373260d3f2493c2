package pool

import (
	"fmt"
	"sync"
)

// ============================================================================
//                              回调注册表
// ============================================================================

// callbacks 回调注册表
//
// 注册与分发使用独立的锁，回调总是在池锁之外调用，
// 回调内可以安全地再次操作池。
type callbacks[T comparable] struct {
	mu        sync.RWMutex
	onAcquire []func(T)
	onRelease []func(T)
	onError   []func(error)
}

// OnAcquire 注册获取回调
//
// 每次成功获取后以获取到的资源调用，注册顺序即调用顺序。
// 回调中的 panic 被捕获并转为错误事件，不影响获取本身。
func (p *Pool[T]) OnAcquire(fn func(T)) {
	if fn == nil {
		return
	}
	p.cbs.mu.Lock()
	p.cbs.onAcquire = append(p.cbs.onAcquire, fn)
	p.cbs.mu.Unlock()
}

// OnRelease 注册归还回调
//
// 每次成功归还后以归还的资源调用。
func (p *Pool[T]) OnRelease(fn func(T)) {
	if fn == nil {
		return
	}
	p.cbs.mu.Lock()
	p.cbs.onRelease = append(p.cbs.onRelease, fn)
	p.cbs.mu.Unlock()
}

// OnError 注册错误回调
//
// 池内部错误（工厂失败、关闭失败、回调 panic 等）发生时调用。
func (p *Pool[T]) OnError(fn func(error)) {
	if fn == nil {
		return
	}
	p.cbs.mu.Lock()
	p.cbs.onError = append(p.cbs.onError, fn)
	p.cbs.mu.Unlock()
}

// ============================================================================
//                              回调分发
// ============================================================================

// dispatchAcquire 分发获取回调
func (p *Pool[T]) dispatchAcquire(v T) {
	p.cbs.mu.RLock()
	hooks := make([]func(T), len(p.cbs.onAcquire))
	copy(hooks, p.cbs.onAcquire)
	p.cbs.mu.RUnlock()

	for _, fn := range hooks {
		p.runResourceHook("acquire", fn, v)
	}
}

// dispatchRelease 分发归还回调
func (p *Pool[T]) dispatchRelease(v T) {
	p.cbs.mu.RLock()
	hooks := make([]func(T), len(p.cbs.onRelease))
	copy(hooks, p.cbs.onRelease)
	p.cbs.mu.RUnlock()

	for _, fn := range hooks {
		p.runResourceHook("release", fn, v)
	}
}

// runResourceHook 调用单个资源回调，panic 转为错误事件
func (p *Pool[T]) runResourceHook(kind string, fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			p.handleError(fmt.Errorf("%s callback panic: %v", kind, r))
		}
	}()
	fn(v)
}

// handleError 统一错误事件入口
//
// 计数、记录日志并分发给错误回调。错误回调自身的 panic 只记录
// 日志，不再进入错误处理，避免回调间相互触发形成循环。
func (p *Pool[T]) handleError(err error) {
	p.metrics.errors.Add(1)
	logger.Warn("池内部错误", "error", err)

	p.cbs.mu.RLock()
	hooks := make([]func(error), len(p.cbs.onError))
	copy(hooks, p.cbs.onError)
	p.cbs.mu.RUnlock()

	for _, fn := range hooks {
		p.runErrorHook(fn, err)
	}
}

// runErrorHook 调用单个错误回调，panic 仅记录日志
func (p *Pool[T]) runErrorHook(fn func(error), err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("错误回调 panic", "panic", r)
		}
	}()
	fn(err)
}
