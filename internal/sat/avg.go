package sat

// EMA is an exponential moving average, used to track recent trends in
// search statistics (e.g. learnt-clause glue) without storing history.
type EMA struct {
	decay float64
	value float64
	init  bool
}

// NewEMA returns a new EMA with the given decay in (0, 1].
func NewEMA(decay float64) EMA {
	return EMA{decay: decay}
}

// Add folds x into the average.
func (ema *EMA) Add(x float64) {
	if !ema.init {
		ema.init = true
		ema.value = x
	} else {
		ema.value = ema.decay*ema.value + x*(1-ema.decay)
	}
}

// Val returns the current average value.
func (ema *EMA) Val() float64 {
	return ema.value
}
