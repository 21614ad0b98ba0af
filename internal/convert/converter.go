package convert

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GalacticDynamics/vector/internal/autodiff"
	"github.com/GalacticDynamics/vector/internal/logging"
	"github.com/GalacticDynamics/vector/internal/quantity"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

// Observer receives conversion telemetry. monitoring.Metrics implements it.
type Observer interface {
	ObserveConversion(kind, tier string, d time.Duration)
	ObserveLossy(from, to string)
	ObserveJacobians(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveConversion(string, string, time.Duration) {}
func (nopObserver) ObserveLossy(string, string)                     {}
func (nopObserver) ObserveJacobians(int)                            {}

// Converter converts vectors between charts. It is safe for concurrent use.
type Converter struct {
	registry *Registry
	log      *zap.Logger
	obs      Observer
	policy   vecerr.LossyPolicy
	par      autodiff.Parallelism
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for lossy warnings and debug traces.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver sets the telemetry sink.
func WithObserver(o Observer) Option {
	return func(c *Converter) {
		if o != nil {
			c.obs = o
		}
	}
}

// WithLossyPolicy decides what happens on dimension-reducing conversions.
func WithLossyPolicy(p vecerr.LossyPolicy) Option {
	return func(c *Converter) { c.policy = p }
}

// WithWorkers bounds the goroutines used across a batch.
func WithWorkers(n int) Option {
	return func(c *Converter) { c.par.Workers = n }
}

// WithParallelThreshold sets the batch size from which work fans out.
func WithParallelThreshold(n int) Option {
	return func(c *Converter) { c.par.Threshold = n }
}

// WithRegistry replaces the built-in rule table.
func WithRegistry(r *Registry) Option {
	return func(c *Converter) {
		if r != nil {
			c.registry = r
		}
	}
}

// New creates a Converter over the default registry.
func New(opts ...Option) *Converter {
	c := &Converter{
		registry: DefaultRegistry(),
		log:      zap.NewNop(),
		obs:      nopObserver{},
		policy:   vecerr.LossyWarn,
		par:      autodiff.Parallelism{Workers: 4, Threshold: 1024},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the rule table in use.
func (c *Converter) Registry() *Registry { return c.registry }

// LossyPolicy returns the policy applied to dimension-reducing conversions.
func (c *Converter) LossyPolicy() vecerr.LossyPolicy { return c.policy }

// With returns a copy of c with opts applied on top of its settings.
func (c *Converter) With(opts ...Option) *Converter {
	cp := *c
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// CallOption supplies per-call context.
type CallOption func(*callContext)

type callContext struct {
	delta    *quantity.Quantity
	extra    map[string]quantity.Quantity
	warnings *Warnings
}

// WithFocalLength supplies Delta for conversions into the prolate
// spheroidal chart.
func WithFocalLength(delta quantity.Quantity) CallOption {
	return func(cc *callContext) { cc.delta = &delta }
}

// WithComponent supplies a component that a dimension-increasing
// conversion cannot infer, e.g. z when going from 2D to 3D.
func WithComponent(name string, q quantity.Quantity) CallOption {
	return func(cc *callContext) {
		if cc.extra == nil {
			cc.extra = map[string]quantity.Quantity{}
		}
		cc.extra[name] = q
	}
}

// Warnings gathers the lossy warnings a call emits under LossyWarn,
// including those raised while re-charting the position of a derivative.
type Warnings struct {
	mu   sync.Mutex
	list []*vecerr.LossyConversionWarning
}

// List returns the collected warnings in emission order.
func (w *Warnings) List() []*vecerr.LossyConversionWarning {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*vecerr.LossyConversionWarning(nil), w.list...)
}

func (w *Warnings) add(lw *vecerr.LossyConversionWarning) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, lw)
}

// CollectWarnings records every lossy warning of the call into w.
func CollectWarnings(w *Warnings) CallOption {
	return func(cc *callContext) { cc.warnings = w }
}

func newCallContext(opts []CallOption) *callContext {
	cc := &callContext{}
	for _, opt := range opts {
		opt(cc)
	}
	return cc
}

// lossy applies the policy to a lossy path. It returns a non-nil error only
// under LossyError.
func (c *Converter) lossy(p *Path, cc *callContext) error {
	ok, dropped := p.Lossy()
	if !ok {
		return nil
	}
	w := &vecerr.LossyConversionWarning{From: p.From.String(), To: p.To.String(), Dropped: dropped}
	switch c.policy {
	case vecerr.LossyIgnore:
		return nil
	case vecerr.LossyError:
		return w
	default:
		c.obs.ObserveLossy(w.From, w.To)
		if cc.warnings != nil {
			cc.warnings.add(w)
		}
		c.log.Warn("irreversible dimension change",
			append(logging.Conversion(w.From, w.To), logging.Dropped(dropped))...)
		return nil
	}
}

func (c *Converter) observe(kind vector.Kind, tier Tier, start time.Time) {
	c.obs.ObserveConversion(kind.String(), tier.String(), time.Since(start))
}

// Default returns a converter over the default registry that logs through
// the current global zap logger.
func Default() *Converter { return New(WithLogger(zap.L())) }
