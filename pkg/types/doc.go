// Package types 定义 go-pool 的公共数据结构
//
// 这是整个库的最底层包，不依赖任何其他 go-pool 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - enums.go - PoolState 池生命周期状态
//   - stats.go - PoolStats 状态快照、PoolMetrics 计数快照
//
// # 设计原则
//
//  1. 不可变性：类型创建后不可修改，使用值类型
//  2. 可读性：枚举实现 String 方法，便于日志输出
//  3. 零依赖：不依赖任何其他 go-pool 内部包（最底层）
//
// # 使用示例
//
//	import "github.com/dep2p/go-pool/pkg/types"
//
//	stats := p.Stats()
//	if stats.State == types.PoolStateOpen {
//	    fmt.Printf("空闲 %d / 在用 %d\n", stats.Available, stats.InUse)
//	}
package types
