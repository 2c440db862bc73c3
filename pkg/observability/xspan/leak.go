package xspan

import "sync/atomic"

// =============================================================================
// 泄漏监控
// =============================================================================

// Monitor 统计 Span 的 started/ended 计数。
//
// 宿主框架保证每个 start 通知都有配套的 stop 通知；请求被中途放弃时
// Span 会无限期停留在 Started 状态。Monitor 让这种泄漏可被上报，
// 而不是被静默忽略。本包只提供计数，上报（日志/指标）由上层完成。
//
// 设计决策: 不记录具体的在途 Span 集合，只维护两个原子计数器。
// 热路径上每次 start/end 只付出一次原子自增的代价，
// 且 Monitor 可被任意数量的并发请求流共享。
type Monitor struct {
	started atomic.Int64
	ended   atomic.Int64
}

// OnStart 记录一次 Span 创建
func (m *Monitor) OnStart() {
	m.started.Add(1)
}

// OnEnd 记录一次 Span 终结
func (m *Monitor) OnEnd() {
	m.ended.Add(1)
}

// Started 返回累计创建数
func (m *Monitor) Started() int64 {
	return m.started.Load()
}

// Ended 返回累计终结数
func (m *Monitor) Ended() int64 {
	return m.ended.Load()
}

// InFlight 返回在途 Span 数（started - ended）。
//
// 读取两个计数器不是原子快照，并发场景下可能出现瞬时偏差；
// 稳态下持续大于零说明存在缺失 stop 通知的泄漏。
func (m *Monitor) InFlight() int64 {
	return m.started.Load() - m.ended.Load()
}
