package types

// ============================================================================
//                              PoolStats - 池状态快照
// ============================================================================

// PoolStats 池状态快照
type PoolStats struct {
	// MaxSize 当前池容量
	MaxSize int

	// Available 空闲资源数
	Available int

	// InUse 在用资源数
	InUse int

	// Waiting 排队等待的获取方数量
	Waiting int

	// State 池生命周期状态
	State PoolState
}

// Total 返回当前存在的资源总数（空闲 + 在用）
func (s PoolStats) Total() int {
	return s.Available + s.InUse
}

// ============================================================================
//                              PoolMetrics - 池计数快照
// ============================================================================

// PoolMetrics 池累计计数快照
//
// 所有计数只增不减，随池创建，读取时返回一致的瞬时值。
type PoolMetrics struct {
	// Acquires 成功获取次数
	Acquires int64

	// Releases 成功归还次数
	Releases int64

	// Created 工厂创建的资源数
	Created int64

	// Closed 已关闭的资源数
	Closed int64

	// FactoryErrors 工厂创建失败次数
	FactoryErrors int64

	// Timeouts 获取超时次数
	Timeouts int64

	// UnknownReleases 归还未登记资源的次数
	UnknownReleases int64

	// AcquireFailures 获取失败总数（超时、取消、关闭拒绝、创建失败）
	AcquireFailures int64

	// Errors 内部处理的错误总数（含回调异常）
	Errors int64

	// HealthEvictions 健康检查剔除的资源数
	HealthEvictions int64
}

// ReuseRate 返回复用率（复用获取占成功获取的比例）
func (m PoolMetrics) ReuseRate() float64 {
	if m.Acquires == 0 {
		return 0
	}
	return float64(m.Acquires-m.Created) / float64(m.Acquires)
}
