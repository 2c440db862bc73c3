package xspan

import (
	"crypto/rand"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// =============================================================================
// Kind
// =============================================================================

// Kind Span 的角色类别
type Kind int

const (
	// KindUnspecified 未指定
	KindUnspecified Kind = iota

	// KindServer 服务端 Span（处理入站请求）
	KindServer

	// KindClient 客户端 Span（发起出站调用）
	KindClient
)

// String 返回 Kind 的字符串表示
func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	default:
		return "unspecified"
	}
}

// =============================================================================
// Attribute
// =============================================================================

// Attribute Span 属性（键值对）。
// Value 只允许 string 或 int64，由 String/Int 构造函数保证。
type Attribute struct {
	Key   string
	Value any
}

// String 构造字符串属性
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int 构造整数属性
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// =============================================================================
// ID 生成（遵循 W3C Trace Context 规范）
// 参考: https://www.w3.org/TR/trace-context/
// =============================================================================

// isAllZeros 检查字节切片是否全为零。
// W3C Trace Context 规范禁止全零的 trace-id 和 span-id。
func isAllZeros(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// NewTraceID 生成符合 W3C Trace Context 规范的 TraceID
//
// 格式: 32 位小写十六进制字符串 (128-bit)
// 示例: "0af7651916cd43dd8448eb211c80319c"
//
// Panic 策略说明：如果底层熵源不可用（极罕见的系统级错误），函数会 panic。
// crypto/rand 失败意味着系统无法提供安全随机数，服务在此状态下应立即终止，
// 而非静默降级。这与 OpenTelemetry 等标准实现采用相同的策略。
func NewTraceID() string {
	var buf [TraceIDHexLen / 2]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("xspan: crypto/rand.Read failed: " + err.Error())
		}
		if !isAllZeros(buf[:]) {
			return hex.EncodeToString(buf[:])
		}
		// 全零情况极其罕见（概率 2^-128），重新生成
	}
}

// NewSpanID 生成符合 W3C Trace Context 规范的 SpanID
//
// 格式: 16 位小写十六进制字符串 (64-bit)
// 示例: "b7ad6b7169203331"
//
// Panic 策略：与 NewTraceID 相同，熵源不可用时会 panic。
func NewSpanID() string {
	var buf [SpanIDHexLen / 2]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("xspan: crypto/rand.Read failed: " + err.Error())
		}
		if !isAllZeros(buf[:]) {
			return hex.EncodeToString(buf[:])
		}
		// 全零情况极其罕见（概率 2^-64），重新生成
	}
}

// =============================================================================
// Span
// =============================================================================

// Span 状态机：created（即 Started）-> finalized。
// 没有其他转移路径。
const (
	stateStarted int32 = iota
	stateFinalized
)

// Span 一次有名字、有时间、有属性、有状态的工作单元。
//
// Span 在请求生命周期内由所属请求流独占，不做内部加锁；
// 终结之后所有权转交导出管道，成为只读对象。
type Span struct {
	sc           SpanContext
	parentSpanID string

	name  string
	kind  Kind
	start time.Time
	end   time.Time

	attrs  []Attribute
	status Status

	// allData 在创建时由采样决策一次性设定，之后不再变更。
	// 为 false 时跳过所有属性写入。
	allData bool

	state atomic.Int32
}

// ResolveTraceID 返回给定父上下文下新 Span 将使用的 trace id。
//
// 父上下文携带有效 trace id 时原样沿用（trace id 在整条链路内不可变），
// 否则生成新的。采样决策需要在 Span 创建之前拿到 trace id，
// 生命周期控制器先用本函数定下 trace id、完成采样，再创建 Span。
func ResolveTraceID(parent SpanContext) string {
	if ValidTraceID(parent.TraceID) {
		return parent.TraceID
	}
	return NewTraceID()
}

// NewSpan 创建一个 Span 并进入 Started 状态。
//
// parent 完整有效时沿用其 TraceID、记录父 SpanID 并继承 tracestate
//（同一条链路）；parent 只带有效 TraceID（控制器通过 ResolveTraceID
// 预先定下）时沿用该 TraceID 作为新链路的根；其余情况生成全新
// TraceID。SpanID 总是独立生成。
//
// trace-flags 不继承：新 Span 始终以未采样起始，采样位只由本进程的
// 采样裁决通过 MarkSampled 设置。父节点的采样位仅作为采样器输入，
// 不直接成为子 Span 的身份。
//
// allDataRequested 来自采样决策，设定后不可变更。
//
// 设计决策: kind 是普通的构造参数而非创建后再修改。
// Span 的角色在拦截点就已确定，不存在合理的"先建后改"场景。
func NewSpan(name string, kind Kind, parent SpanContext, allDataRequested bool) *Span {
	s := &Span{
		name:    name,
		kind:    kind,
		start:   time.Now(),
		allData: allDataRequested,
	}
	s.sc = SpanContext{
		TraceID:    ResolveTraceID(parent),
		SpanID:     NewSpanID(),
		TraceFlags: FlagsNotSampled,
	}
	if parent.IsValid() {
		s.parentSpanID = parent.SpanID
		s.sc.TraceState = parent.TraceState
	}
	return s
}

// Context 返回 Span 的追踪身份
func (s *Span) Context() SpanContext {
	return s.sc
}

// ParentSpanID 返回父 Span ID，根 Span 返回空字符串
func (s *Span) ParentSpanID() string {
	return s.parentSpanID
}

// HasRemoteParent 判断是否存在父 Span
func (s *Span) HasRemoteParent() bool {
	return s.parentSpanID != ""
}

// Name 返回当前显示名称
func (s *Span) Name() string {
	return s.name
}

// SetName 覆写显示名称。
// 名称在终结前可变（路由模板解析会晚于创建时的路径命名），终结后忽略。
func (s *Span) SetName(name string) {
	if s.finalized() {
		return
	}
	s.name = name
}

// Kind 返回 Span 角色
func (s *Span) Kind() Kind {
	return s.kind
}

// StartTime 返回开始时间
func (s *Span) StartTime() time.Time {
	return s.start
}

// EndTime 返回结束时间，未终结时为零值
func (s *Span) EndTime() time.Time {
	return s.end
}

// AllDataRequested 返回采样决策是否要求收集完整数据
func (s *Span) AllDataRequested() bool {
	return s.allData
}

// MarkSampled 将 trace-flags 的采样位置位。
// 仅在创建后、属性写入前由生命周期控制器调用一次。
func (s *Span) MarkSampled() {
	if s.finalized() {
		return
	}
	s.sc = s.sc.WithSampled(true)
}

// SetAttributes 写入属性。
//
// 属性集是有序映射：同 key 的后写覆盖先写的值（保持首次出现的位置），
// 新 key 追加到尾部。allDataRequested 为 false 或已终结时为空操作。
func (s *Span) SetAttributes(attrs ...Attribute) {
	if !s.allData || s.finalized() {
		return
	}
next:
	for _, a := range attrs {
		for i := range s.attrs {
			if s.attrs[i].Key == a.Key {
				s.attrs[i].Value = a.Value
				continue next
			}
		}
		s.attrs = append(s.attrs, a)
	}
}

// Attributes 返回属性快照（副本，调用方可安全持有）
func (s *Span) Attributes() []Attribute {
	if len(s.attrs) == 0 {
		return nil
	}
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Attribute 按 key 查找属性值，不存在返回 (nil, false)
func (s *Span) Attribute(key string) (any, bool) {
	for i := range s.attrs {
		if s.attrs[i].Key == key {
			return s.attrs[i].Value, true
		}
	}
	return nil, false
}

// SetStatus 设置状态（规范状态码 + 描述），终结后忽略
func (s *Span) SetStatus(st Status) {
	if s.finalized() {
		return
	}
	s.status = st
}

// Status 返回当前状态
func (s *Span) Status() Status {
	return s.status
}

// End 终结 Span，记录结束时间并进入 Finalized 终态。
//
// 对已终结的 Span 再次调用 End 是调用方契约破坏（每个 start 通知
// 必须恰好对应一个 stop 通知），属于本包唯一的致命路径，直接 panic。
func (s *Span) End() {
	if !s.state.CompareAndSwap(stateStarted, stateFinalized) {
		panic("xspan: End called on finalized span: " + s.name)
	}
	s.end = time.Now()
}

// Ended 判断 Span 是否已终结
func (s *Span) Ended() bool {
	return s.finalized()
}

func (s *Span) finalized() bool {
	return s.state.Load() == stateFinalized
}
