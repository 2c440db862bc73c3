package xtrace

// 路由元数据的类型化访问链。
// 路由框架在解析出 action 后发出 RouteEvent，模板经
// RouteEvent -> ActionDescriptor -> AttributeRouteInfo -> Template
// 三级查找取出，任何一环缺失都视为"无模板"而非错误。

// RouteEvent 路由解析事件
type RouteEvent struct {
	Action *ActionDescriptor
}

// ActionDescriptor 路由命中的 action 元数据
type ActionDescriptor struct {
	Route *AttributeRouteInfo
}

// AttributeRouteInfo 声明式路由信息
type AttributeRouteInfo struct {
	// Template 路由模板，如 "/users/{id}"
	Template string
}

// Template 返回路由模板，链上任何一环缺失返回空字符串
func (ev RouteEvent) Template() string {
	if ev.Action == nil || ev.Action.Route == nil {
		return ""
	}
	return ev.Action.Route.Template
}
