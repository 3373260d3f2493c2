package types

// ============================================================================
//                              PoolState - 池状态
// ============================================================================

// PoolState 池生命周期状态
//
// 状态单向推进：Open → ShuttingDown → Closed，不可回退。
type PoolState int

const (
	// PoolStateOpen 开放状态（正常服务）
	PoolStateOpen PoolState = iota
	// PoolStateShuttingDown 关闭中（拒绝获取，接受归还排空）
	PoolStateShuttingDown
	// PoolStateClosed 已关闭
	PoolStateClosed
)

// String 返回池状态的字符串表示
func (s PoolState) String() string {
	switch s {
	case PoolStateOpen:
		return "open"
	case PoolStateShuttingDown:
		return "shutting_down"
	case PoolStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
