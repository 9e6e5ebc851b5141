package world

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from other goroutines.
type WorldMetrics struct {
	Tick      uint64  `json:"tick"`
	Units     int     `json:"units"`
	Nodes     int     `json:"nodes"`
	Buildings int     `json:"buildings"`
	Colliders int     `json:"colliders"`
	Inbox     int     `json:"inbox"`
	StepMS    float64 `json:"step_ms"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	m, ok := v.(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}
