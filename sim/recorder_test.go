package sim

// A sinkRecorder collects the monitoring records the engine publishes, so
// tests can assert on arrival lifecycles and resource state changes.
type sinkRecorder struct {
	starts     []ArrivalInfo
	ends       []ArrivalInfo
	resources  []ResourceInfo
	attributes []AttributeInfo
}

func (r *sinkRecorder) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosArrivalStart:
		r.starts = append(r.starts, ctx.Item.(ArrivalInfo))
	case HookPosArrivalEnd:
		r.ends = append(r.ends, ctx.Item.(ArrivalInfo))
	case HookPosResourceChange:
		r.resources = append(r.resources, ctx.Item.(ResourceInfo))
	case HookPosAttribute:
		r.attributes = append(r.attributes, ctx.Item.(AttributeInfo))
	}
}

func (r *sinkRecorder) endOf(name string) (ArrivalInfo, bool) {
	for _, e := range r.ends {
		if e.Name == name {
			return e, true
		}
	}
	return ArrivalInfo{}, false
}
