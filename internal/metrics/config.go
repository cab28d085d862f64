package metrics

// Config holds the thresholds of one run.
type Config struct {
	// Buffer is added to the even-share weight before a holding counts as overweight.
	Buffer float64
	// TargetGain is the total gain above which an overweight holding is flagged go.
	TargetGain float64
	// ExcludeCash removes cash rows from the even-share baseline count.
	ExcludeCash bool
	// Concurrency bounds the parallel quote fetches.
	Concurrency int
}

// DefaultConfig returns the thresholds the portfolio scripts always used.
func DefaultConfig() Config {
	return Config{
		Buffer:      0.005,
		TargetGain:  0.10,
		ExcludeCash: true,
		Concurrency: 4,
	}
}
