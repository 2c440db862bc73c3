package xsampling

import "context"

// ParentBasedSampler 沿用上游采样决策的策略
//
// 存在有效父上下文时直接沿用其 trace-flags 的采样位：上游已采样则采样，
// 上游未采样则不采样。根 Span（无父上下文）交给 root 策略裁决。
//
// 这是跨服务一致采样的另一条路径：下游无条件信任上游的裁决，
// 整条链路的采样与否由最上游的入口服务一次性决定。
type ParentBasedSampler struct {
	root Sampler
}

// NewParentBased 创建沿用上游决策的采样器
//
// root 是根 Span 的裁决策略，不能为 nil（为 nil 时返回 ErrNilSampler）。
func NewParentBased(root Sampler) (*ParentBasedSampler, error) {
	if root == nil {
		return nil, ErrNilSampler
	}
	return &ParentBasedSampler{root: root}, nil
}

func (s *ParentBasedSampler) ShouldSample(ctx context.Context, params Parameters) Decision {
	if params.HasRemoteParent() {
		return Decision{Sampled: params.Parent.IsSampled()}
	}
	return s.root.ShouldSample(ctx, params)
}

// Root 返回根 Span 的裁决策略
func (s *ParentBasedSampler) Root() Sampler {
	return s.root
}

// 确保实现了接口
var _ Sampler = (*ParentBasedSampler)(nil)
