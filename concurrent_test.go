package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrent_CapacityInvariant 测试并发压力下容量不变式
func TestConcurrent_CapacityInvariant(t *testing.T) {
	const (
		maxSize = 4
		workers = 32
		rounds  = 25
	)
	p, created := newStubPool(t, DefaultConfig().WithMaxSize(maxSize))

	var wg sync.WaitGroup
	var inFlight, peak atomic.Int64
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				r, err := p.Acquire(context.Background())
				if err != nil {
					t.Errorf("获取失败: %v", err)
					return
				}
				c := inFlight.Add(1)
				for {
					old := peak.Load()
					if c <= old || peak.CompareAndSwap(old, c) {
						break
					}
				}
				inFlight.Add(-1)
				if err := p.Release(r); err != nil {
					t.Errorf("归还失败: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(maxSize))
	assert.LessOrEqual(t, created.Load(), int64(maxSize))
	assert.LessOrEqual(t, p.Len(), maxSize)

	s := p.Stats()
	assert.Equal(t, 0, s.InUse)
	assert.Equal(t, 0, s.Waiting)

	m := p.Metrics()
	assert.Equal(t, int64(workers*rounds), m.Acquires)
	assert.Equal(t, int64(workers*rounds), m.Releases)

	t.Log("✅ 并发容量不变式测试通过")
}

// TestConcurrent_Shutdown 测试负载中优雅关闭
func TestConcurrent_Shutdown(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(3))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				r, err := p.Acquire(context.Background())
				if err != nil {
					return // 池已关闭
				}
				time.Sleep(time.Millisecond)
				_ = p.Release(r)
			}
		}()
	}

	time.Sleep(30 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
	wg.Wait()

	m := p.Metrics()
	assert.Equal(t, m.Created, m.Closed)
	assert.Equal(t, 0, p.Len())

	t.Log("✅ 负载中关闭测试通过")
}

// TestConcurrent_Resize 测试并发获取期间反复调整容量
func TestConcurrent_Resize(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(4))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				r, err := p.Acquire(context.Background())
				if err != nil {
					return
				}
				_ = p.Release(r)
			}
		}()
	}

	sizes := []int{1, 6, 2, 8, 3}
	for _, n := range sizes {
		require.NoError(t, p.Resize(n))
		time.Sleep(10 * time.Millisecond)
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, 3, p.Cap())
	assert.LessOrEqual(t, p.Len(), 3)
	assert.Equal(t, 0, p.Stats().InUse)

	t.Log("✅ 并发调整容量测试通过")
}

// TestConcurrent_MixedCancellation 测试取消与超时混合下无资源泄漏
func TestConcurrent_MixedCancellation(t *testing.T) {
	p, _ := newStubPool(t, DefaultConfig().WithMaxSize(2))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				ctx, cancel := context.WithTimeout(context.Background(), time.Duration(1+i%5)*time.Millisecond)
				r, err := p.Acquire(ctx)
				if err == nil {
					time.Sleep(time.Millisecond)
					_ = p.Release(r)
				}
				cancel()
			}
		}()
	}
	wg.Wait()

	s := p.Stats()
	assert.Equal(t, 0, s.InUse)
	assert.Equal(t, 0, s.Waiting)
	assert.LessOrEqual(t, s.Available, 2)

	m := p.Metrics()
	assert.Equal(t, m.Acquires, m.Releases)

	t.Log("✅ 混合取消测试通过")
}
