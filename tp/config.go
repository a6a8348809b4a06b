package tp

// Config holds construction-time policy knobs for a TP: queue capacity and
// the tunables the original hard-coded as preprocessor constants. These are
// the only values that cannot change after New returns.
type Config struct {
	Capacity int

	// LookaheadDepth bounds the optimizer's backward "rising tide" walk.
	LookaheadDepth int

	// AngleEpsilon bounds when two unit tangents are considered
	// colinear (tangent, no blend needed) or reversed (no blend
	// possible) in the blend planner.
	AngleEpsilon float64

	// ReversalDebounce is the number of consecutive monotonic spindle
	// position samples required before a rigid-tap reversal transition
	// fires, guarding against sensor jitter around the zero-velocity
	// crossing.
	ReversalDebounce int
}

// Option configures a Config before New builds the planner.
type Option func(*Config)

// DefaultConfig returns the policy defaults: a lookahead depth of 50 (the
// original's TP_LOOKAHEAD_DEPTH), a 1e-6 rad angle epsilon, and a
// single-sample reversal debounce (matching the original's behavior, with
// the knob exposed to raise it against sensor jitter).
func DefaultConfig() Config {
	return Config{
		Capacity:         64,
		LookaheadDepth:   50,
		AngleEpsilon:     1e-6,
		ReversalDebounce: 1,
	}
}

// WithCapacity sets the fixed backing-buffer capacity of the segment queue.
func WithCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Capacity = n
		}
	}
}

// WithLookaheadDepth sets the optimizer's backward walk bound.
func WithLookaheadDepth(depth int) Option {
	return func(c *Config) {
		if depth > 0 {
			c.LookaheadDepth = depth
		}
	}
}

// WithAngleEpsilon sets the blend planner's tangent/reversal angle epsilon.
func WithAngleEpsilon(eps float64) Option {
	return func(c *Config) {
		if eps > 0 {
			c.AngleEpsilon = eps
		}
	}
}

// WithReversalDebounce sets how many consecutive monotonic spindle-position
// samples are required before a rigid-tap reversal fires.
func WithReversalDebounce(k int) Option {
	return func(c *Config) {
		if k >= 1 {
			c.ReversalDebounce = k
		}
	}
}

func applyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
