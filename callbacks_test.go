package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCallbacks_AcquireRelease 测试获取与归还回调的顺序和参数
func TestCallbacks_AcquireRelease(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(2))

	var mu sync.Mutex
	var events []string
	record := func(ev string) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}

	p.OnAcquire(func(r *resourceStub) { record(fmt.Sprintf("acquire-1:%d", r.id)) })
	p.OnAcquire(func(r *resourceStub) { record(fmt.Sprintf("acquire-2:%d", r.id)) })
	p.OnRelease(func(r *resourceStub) { record(fmt.Sprintf("release:%d", r.id)) })

	r, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Release(r))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"acquire-1:1", "acquire-2:1", "release:1"}, events)

	t.Log("✅ 回调顺序测试通过")
}

// TestCallbacks_FireOnReuse 测试复用路径同样触发回调
func TestCallbacks_FireOnReuse(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(1))

	var acquires atomic.Int64
	p.OnAcquire(func(*resourceStub) { acquires.Add(1) })

	r, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Release(r))
	r, err = p.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Release(r))

	assert.Equal(t, int64(2), acquires.Load())

	t.Log("✅ 复用回调测试通过")
}

// TestCallbacks_FireOnHandoff 测试移交路径在等待者一侧触发回调
func TestCallbacks_FireOnHandoff(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(1))

	var acquires atomic.Int64
	p.OnAcquire(func(*resourceStub) { acquires.Add(1) })

	r, err := p.Acquire(context.Background())
	require.NoError(t, err)

	got := make(chan *resourceStub, 1)
	go func() {
		v, err := p.Acquire(context.Background())
		if err != nil {
			t.Errorf("等待者获取失败: %v", err)
			close(got)
			return
		}
		got <- v
	}()
	waitForWaiters(t, p, 1)
	require.NoError(t, p.Release(r))

	select {
	case v := <-got:
		require.NoError(t, p.Release(v))
	case <-time.After(2 * time.Second):
		t.Fatal("等待者未收到资源")
	}
	assert.Equal(t, int64(2), acquires.Load())

	t.Log("✅ 移交回调测试通过")
}

// TestCallbacks_PanicRouted 测试资源回调 panic 转入错误事件
func TestCallbacks_PanicRouted(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(2))

	var captured atomic.Value
	p.OnError(func(err error) { captured.Store(err) })
	p.OnAcquire(func(*resourceStub) { panic("callback boom") })

	r, err := p.Acquire(context.Background())
	require.NoError(t, err, "回调 panic 不影响获取本身")
	defer func() { _ = p.Release(r) }()

	got, ok := captured.Load().(error)
	require.True(t, ok, "错误回调未触发")
	assert.Contains(t, got.Error(), "callback panic")
	assert.Equal(t, int64(1), p.Metrics().Errors)

	t.Log("✅ 回调 panic 测试通过")
}

// TestCallbacks_ErrorPanicLogged 测试错误回调自身 panic 不再扩散
func TestCallbacks_ErrorPanicLogged(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(2))

	var calls atomic.Int64
	p.OnError(func(error) {
		calls.Add(1)
		panic("error callback boom")
	})

	err := p.Release(&resourceStub{id: 999})
	assert.ErrorIs(t, err, ErrUnknownResource)
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, int64(1), p.Metrics().Errors)

	t.Log("✅ 错误回调 panic 测试通过")
}

// TestCallbacks_ViaOptions 测试构造期注册的回调
func TestCallbacks_ViaOptions(t *testing.T) {
	var acquires, releases atomic.Int64
	factory, _ := stubFactory()
	p, err := New(DefaultConfig().WithMaxSize(2),
		WithFactory(factory),
		WithOnAcquire(func(*resourceStub) { acquires.Add(1) }),
		WithOnRelease(func(*resourceStub) { releases.Add(1) }),
	)
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	r, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Release(r))

	assert.Equal(t, int64(1), acquires.Load())
	assert.Equal(t, int64(1), releases.Load())

	t.Log("✅ 构造期回调测试通过")
}

// TestCallbacks_NilIgnored 测试注册 nil 回调被忽略
func TestCallbacks_NilIgnored(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(1))

	p.OnAcquire(nil)
	p.OnRelease(nil)
	p.OnError(nil)

	r, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Release(r))

	t.Log("✅ nil 回调测试通过")
}
