package convert

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/GalacticDynamics/vector/internal/autodiff"
	"github.com/GalacticDynamics/vector/internal/vecerr"
	"github.com/GalacticDynamics/vector/internal/vector"
)

// Env carries per-element context into a rule. All values are in the
// working units of the conversion (see units.go).
type Env struct {
	// FromDelta is the focal length of a prolate source.
	FromDelta float64
	// ToDelta is the focal length of a prolate target.
	ToDelta float64
	// Extra holds components supplied with WithComponent.
	Extra map[string]float64
}

// MapFunc maps the slots of one position chart to those of another. It must
// be written over dual numbers so the same code yields Jacobians.
type MapFunc func(in []autodiff.Number, env *Env) ([]autodiff.Number, error)

// Rule is a closed-form conversion between two position types.
type Rule struct {
	From, To vector.TypeID
	// Lossy marks dimension-reducing rules; Dropped names what is lost.
	Lossy   bool
	Dropped []string
	// Requires lists context components the rule reads from Env.Extra.
	Requires []string
	Map      MapFunc
}

type pair struct{ from, to vector.TypeID }

// Registry maps (source, target) type pairs to rules. It is populated once
// and frozen; lookups on a frozen registry take no locks.
type Registry struct {
	mu     sync.RWMutex
	rules  map[pair]*Rule
	frozen atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: map[pair]*Rule{}}
}

// Register adds a rule. Registering on a frozen registry or registering a
// pair twice is an error.
func (r *Registry) Register(rule *Rule) error {
	if rule == nil || rule.Map == nil {
		return fmt.Errorf("convert: rule without a map")
	}
	if rule.From == "" || rule.To == "" {
		return fmt.Errorf("convert: rule type ids cannot be empty")
	}
	if r.frozen.Load() {
		return fmt.Errorf("convert: registry is frozen, cannot add %s -> %s", rule.From, rule.To)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	k := pair{rule.From, rule.To}
	if _, ok := r.rules[k]; ok {
		return fmt.Errorf("convert: duplicate rule %s -> %s", rule.From, rule.To)
	}
	r.rules[k] = rule
	return nil
}

// MustRegister is Register that panics; it is used while building tables.
func (r *Registry) MustRegister(rules ...*Rule) {
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() { r.frozen.Store(true) }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// Lookup returns the direct rule for a pair.
func (r *Registry) Lookup(from, to vector.TypeID) (*Rule, bool) {
	if !r.frozen.Load() {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	rule, ok := r.rules[pair{from, to}]
	return rule, ok
}

// Clone returns an unfrozen copy that can take extra boundary rules.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for k, v := range r.rules {
		out.rules[k] = v
	}
	return out
}

// Rules lists the registered rules sorted by source then target.
func (r *Registry) Rules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Rule, 0, len(r.rules))
	for _, v := range r.rules {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Tier names how a conversion was resolved.
type Tier int

const (
	TierIdentity Tier = iota
	TierDirect
	TierPivot
)

func (t Tier) String() string {
	switch t {
	case TierIdentity:
		return "identity"
	case TierDirect:
		return "direct"
	case TierPivot:
		return "pivot"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Path is a resolved chain of rules between two position types.
type Path struct {
	From, To *vector.Type
	Tier     Tier
	Rules    []*Rule
}

// Lossy reports whether any hop drops components, and which.
func (p *Path) Lossy() (bool, []string) {
	for _, r := range p.Rules {
		if r.Lossy {
			return true, r.Dropped
		}
	}
	return false, nil
}

// Requires lists the context components the path reads.
func (p *Path) Requires() []string {
	var out []string
	for _, r := range p.Rules {
		out = append(out, r.Requires...)
	}
	return out
}

// Hops renders the path as type ids.
func (p *Path) Hops() []vector.TypeID {
	if len(p.Rules) == 0 {
		return []vector.TypeID{p.From.ID()}
	}
	out := []vector.TypeID{p.Rules[0].From}
	for _, r := range p.Rules {
		out = append(out, r.To)
	}
	return out
}

// Func composes the hops into a single map.
func (p *Path) Func(env *Env) autodiff.Func {
	return func(x []autodiff.Number) ([]autodiff.Number, error) {
		var err error
		for _, r := range p.Rules {
			if x, err = r.Map(x, env); err != nil {
				return nil, fmt.Errorf("%s -> %s: %w", r.From, r.To, err)
			}
		}
		return x, nil
	}
}

// Resolve finds a path between two position types: identity, a direct rule,
// or a pivot through the canonical Cartesian types of either end.
func (r *Registry) Resolve(from, to *vector.Type) (*Path, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("convert: nil type")
	}
	if from.Kind() != vector.Position || to.Kind() != vector.Position {
		return nil, &vecerr.UnsupportedConversionError{
			From: from.String(), To: to.String(), Reason: "paths are resolved between position types",
		}
	}
	if from == to {
		return &Path{From: from, To: to, Tier: TierIdentity}, nil
	}
	if rule, ok := r.Lookup(from.ID(), to.ID()); ok {
		return &Path{From: from, To: to, Tier: TierDirect, Rules: []*Rule{rule}}, nil
	}

	ca, cb := from.Cartesian(), to.Cartesian()
	if ca == nil || cb == nil {
		return nil, &vecerr.UnsupportedConversionError{
			From: from.String(), To: to.String(), Reason: "no canonical Cartesian pivot",
		}
	}

	candidates := [][]*vector.Type{
		{from, ca, to},
		{from, cb, to},
		{from, ca, cb, to},
	}
	for _, hops := range candidates {
		if rules, ok := r.chain(dedupe(hops)); ok {
			return &Path{From: from, To: to, Tier: TierPivot, Rules: rules}, nil
		}
	}
	return nil, &vecerr.UnsupportedConversionError{From: from.String(), To: to.String(), Reason: "no rule or pivot path"}
}

func (r *Registry) chain(hops []*vector.Type) ([]*Rule, bool) {
	if len(hops) < 2 {
		return nil, false
	}
	rules := make([]*Rule, 0, len(hops)-1)
	for i := 1; i < len(hops); i++ {
		rule, ok := r.Lookup(hops[i-1].ID(), hops[i].ID())
		if !ok {
			return nil, false
		}
		rules = append(rules, rule)
	}
	return rules, true
}

func dedupe(hops []*vector.Type) []*vector.Type {
	out := hops[:0:0]
	for _, h := range hops {
		if len(out) == 0 || out[len(out)-1] != h {
			out = append(out, h)
		}
	}
	return out
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the frozen registry holding the built-in rules.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		registerBuiltins(r)
		r.Freeze()
		defaultRegistry = r
	})
	return defaultRegistry
}

func registerBuiltins(r *Registry) {
	register3D(r)
	registerLowDim(r)
	registerLossy(r)
	registerND(r)
}
