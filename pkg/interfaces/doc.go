// Package interfaces 定义资源池的公共接口
//
// 本包采用扁平命名（无层级前缀）组织接口定义：
//
//   - pool.go - Pool 资源池门面接口（用户入口）
//
// # 设计原则
//
// 本包仅包含纯接口定义，数据结构定义在 pkg/types 包中。
// 实现位于模块根包，通过接口断言保证两者同步。
//
// 依赖方向：根包 → interfaces → types，禁止反向依赖。
package interfaces
