package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMetrics_Scripted 测试既定操作脚本下的精确指标
func TestMetrics_Scripted(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(2))
	ctx := context.Background()

	r1, err := p.Acquire(ctx) // 创建 1，获取 1
	require.NoError(t, err)
	r2, err := p.Acquire(ctx) // 创建 2，获取 2
	require.NoError(t, err)

	_, err = p.AcquireWithTimeout(ctx, 50*time.Millisecond) // 超时 1，失败 1
	assert.ErrorIs(t, err, ErrAcquireTimeout)

	require.NoError(t, p.Release(r1)) // 归还 1
	r3, err := p.Acquire(ctx)         // 获取 3（复用）
	require.NoError(t, err)
	assert.Same(t, r1, r3)

	err = p.Release(&resourceStub{id: 999}) // 未知归还 1，错误 1
	assert.ErrorIs(t, err, ErrUnknownResource)

	require.NoError(t, p.Release(r2))
	require.NoError(t, p.Release(r3))   // 归还 3
	require.NoError(t, p.Shutdown(ctx)) // 关闭 2

	m := p.Metrics()
	assert.Equal(t, int64(3), m.Acquires)
	assert.Equal(t, int64(3), m.Releases)
	assert.Equal(t, int64(2), m.Created)
	assert.Equal(t, int64(2), m.Closed)
	assert.Equal(t, int64(1), m.Timeouts)
	assert.Equal(t, int64(1), m.UnknownReleases)
	assert.Equal(t, int64(1), m.AcquireFailures)
	assert.Equal(t, int64(1), m.Errors)
	assert.Equal(t, int64(0), m.FactoryErrors)
	assert.Equal(t, int64(0), m.HealthEvictions)

	t.Log("✅ 指标脚本测试通过")
}

// TestMetrics_ReuseRate 测试复用率计算
func TestMetrics_ReuseRate(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(1))
	ctx := context.Background()

	assert.Zero(t, p.Metrics().ReuseRate())

	r, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Release(r))
	// 4 次获取中 3 次复用
	for i := 0; i < 3; i++ {
		r, err = p.Acquire(ctx)
		require.NoError(t, err)
		require.NoError(t, p.Release(r))
	}

	m := p.Metrics()
	assert.Equal(t, int64(4), m.Acquires)
	assert.Equal(t, int64(1), m.Created)
	assert.InDelta(t, 0.75, m.ReuseRate(), 1e-9)

	t.Log("✅ 复用率测试通过")
}

// TestMetrics_MonotonicAcrossShutdown 测试关闭后计数保留
func TestMetrics_MonotonicAcrossShutdown(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(2))
	ctx := context.Background()

	r, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Release(r))
	require.NoError(t, p.Shutdown(ctx))

	m := p.Metrics()
	assert.Equal(t, int64(1), m.Acquires)
	assert.Equal(t, int64(1), m.Created)
	assert.Equal(t, int64(1), m.Closed)

	// 关闭后的失败获取单独累计
	_, err = p.Acquire(ctx)
	assert.ErrorIs(t, err, ErrShutdown)
	assert.Equal(t, m.AcquireFailures+1, p.Metrics().AcquireFailures)

	t.Log("✅ 指标保留测试通过")
}
