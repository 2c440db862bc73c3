package xspan

import "context"

// Exporter 接收终结后的 Span。
//
// Span 一经 End 即为只读对象，所有权转交导出管道。
// 导出的序列化格式与传输不在本模块范围内，由实现方定义。
//
// ExportSpan 在请求的热路径上同步调用，实现必须快速返回且不得修改 Span；
// 耗时的序列化与发送应由实现内部异步化。
type Exporter interface {
	ExportSpan(ctx context.Context, s *Span)
}

// ExporterFunc 函数适配器
type ExporterFunc func(ctx context.Context, s *Span)

// ExportSpan 实现 Exporter 接口
func (f ExporterFunc) ExportSpan(ctx context.Context, s *Span) {
	f(ctx, s)
}

// 确保实现了接口
var _ Exporter = (ExporterFunc)(nil)
