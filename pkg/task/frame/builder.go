package frame

import "time"

// Builder assembles a decorated frame tree from named options. The
// options compose in a fixed canonical order regardless of the call
// order, outermost first:
//
//	Fallback(Dependent(Retry(Timeout(base))), secondary)
//
// so a timeout bounds a single attempt, retries wrap the bounded
// attempts, the dependency gate delays the whole retried unit, and the
// fallback catches whatever escapes. Decorators outside this set are
// composed directly with the frame constructors.
type Builder struct {
	base Frame

	timeout time.Duration

	retryAttempts int
	retryBackoff  Backoff

	depCond     Condition
	depDeadline time.Duration
	depSucceed  bool

	fallback Frame
}

// NewBuilder starts a builder around a base frame.
func NewBuilder(base Frame) *Builder {
	return &Builder{base: base}
}

// WithTimeout bounds each attempt to limit.
func (b *Builder) WithTimeout(limit time.Duration) *Builder {
	b.timeout = limit
	return b
}

// WithRetry re-executes failed attempts up to attempts times, waiting
// per backoff between attempts.
func (b *Builder) WithRetry(attempts int, backoff Backoff) *Builder {
	b.retryAttempts = attempts
	b.retryBackoff = backoff
	return b
}

// WithDependency gates execution on cond. A zero deadline waits
// indefinitely; otherwise expiry fails the run, or skips it when
// succeedOnExpiry is set.
func (b *Builder) WithDependency(cond Condition, deadline time.Duration, succeedOnExpiry bool) *Builder {
	b.depCond = cond
	b.depDeadline = deadline
	b.depSucceed = succeedOnExpiry
	return b
}

// WithFallback runs secondary when everything inside fails.
func (b *Builder) WithFallback(secondary Frame) *Builder {
	b.fallback = secondary
	return b
}

// Build composes the configured decorators around the base frame.
func (b *Builder) Build() Frame {
	f := b.base
	if f == nil {
		f = NoOp{}
	}
	if b.timeout > 0 {
		f = Timeout(f, b.timeout)
	}
	if b.retryAttempts > 0 {
		f = Retry(f, b.retryAttempts, b.retryBackoff)
	}
	if b.depCond != nil {
		if b.depDeadline > 0 {
			f = DependentDeadline(f, b.depCond, b.depDeadline, b.depSucceed)
		} else {
			f = Dependent(f, b.depCond)
		}
	}
	if b.fallback != nil {
		f = Fallback(f, b.fallback)
	}
	return f
}
