package valuation

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithReplacementCutoffs overrides the per-position replacement cutoff
// ranks. Positions absent from the map fall back to the cohort's last row.
func WithReplacementCutoffs(cutoffs map[string]int) Option {
	return func(e *Engine) {
		if len(cutoffs) == 0 {
			return
		}
		m := make(map[string]int, len(cutoffs))
		for pos, rank := range cutoffs {
			if rank > 0 {
				m[pos] = rank
			}
		}
		e.cutoffs = m
	}
}

// WithBoomThresholds overrides the per-position boom thresholds.
func WithBoomThresholds(thresholds map[string]float64, fallback float64) Option {
	return func(e *Engine) {
		if len(thresholds) > 0 {
			m := make(map[string]float64, len(thresholds))
			for pos, v := range thresholds {
				if v > 0 {
					m[pos] = v
				}
			}
			e.boomThresholds = m
		}
		if fallback > 0 {
			e.boomFallback = fallback
		}
	}
}
