package progress

// TimedProgress returns done/total clamped to [0,1] for display.
func TimedProgress(done, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return clamp01(done / total)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
