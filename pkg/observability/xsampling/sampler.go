package xsampling

import (
	"context"

	"github.com/ouyangw/tracekit/pkg/observability/xspan"
)

// Parameters 采样决策的输入。
//
// 仅在 ShouldSample 调用期间有效，采样器不得持有其引用。
// Attributes 是决策时刻已知的初始属性快照，可能为空——
// 按设计，昂贵的属性计算发生在采样决策之后。
type Parameters struct {
	// TraceID 本次 Span 将使用的 trace id（32 位十六进制）。
	// 控制器在创建 Span 之前通过 xspan.ResolveTraceID 定下。
	TraceID string

	// Name Span 的初始显示名称
	Name string

	// Kind Span 角色（SERVER / CLIENT）
	Kind xspan.Kind

	// Parent 上游追踪上下文；零值表示根 Span
	Parent xspan.SpanContext

	// Attributes 决策时刻已知的初始属性快照
	Attributes []xspan.Attribute

	// Links 关联的其他追踪上下文
	Links []xspan.SpanContext
}

// HasRemoteParent 判断是否存在上游父上下文
func (p Parameters) HasRemoteParent() bool {
	return p.Parent.IsValid()
}

// Decision 采样裁决。
//
// Sampled 为 true 时 Span 的完整数据会被收集并导出；
// Record 为 true 时即使未采样也收集属性（强制记录），供本地诊断使用。
// 两者皆 false 的 Span 跳过所有属性写入。
type Decision struct {
	Sampled bool
	Record  bool
}

// CollectData 判断是否需要收集完整数据（采样或强制记录任一成立）
func (d Decision) CollectData() bool {
	return d.Sampled || d.Record
}

// Sampler 采样策略接口。
//
// ShouldSample 对每个 Span 恰好调用一次，且必须在任何昂贵的属性计算
// 之前完成；裁决一经作出便在该 Span 的生命周期内固定不变。
//
// ctx 可以携带决策所需的请求上下文（如租户信息）；ctx 不得为 nil，
// 如需占位请使用 context.TODO()。
//
// 实现必须是并发安全的：同一实例会被所有并发请求流无同步共享。
type Sampler interface {
	ShouldSample(ctx context.Context, params Parameters) Decision
}
