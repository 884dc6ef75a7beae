package diff

// ProgressFunc receives advisory progress during a comparison: a percentage
// in [0, 100] and a short human-readable message. Callbacks are throttled
// and percentages never go backwards within one comparison.
type ProgressFunc func(percent float64, message string)

// progressStep is the minimum advance between two callbacks.
const progressStep = 1.0

// progressReporter throttles and monotony-clamps progress callbacks. A nil
// reporter or a nil callback makes report a no-op.
type progressReporter struct {
	fn   ProgressFunc
	last float64
}

func newProgressReporter(fn ProgressFunc) *progressReporter {
	return &progressReporter{fn: fn, last: -progressStep}
}

func (p *progressReporter) report(percent float64, message string) {
	if p == nil || p.fn == nil {
		return
	}
	if percent < p.last {
		percent = p.last
	}
	if percent >= 100 {
		if p.last >= 100 {
			return
		}
		p.last = 100
		p.fn(100, message)
		return
	}
	if percent-p.last < progressStep {
		return
	}
	p.last = percent
	p.fn(percent, message)
}
