// Package sum implements the accumulator modules that sit inside a
// Looper's sub-path: Summer, which resets to zero at the start of every
// iteration and accumulates one term per Work() call, and
// BinnedHistogram, a sticky leaf module that bins the final integrand
// contribution for diagnostic output without being consumed by anything
// else in the graph. Grounded on package module's BeginLoop/EndLoop
// lifecycle hooks and on gofem's sticky-output convention for modules
// kept in a plan purely for their side effects.
package sum

import (
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

// SummerDef declares Summer's schema: one input term added on every
// Work() call, reset to zero on every BeginLoop.
func SummerDef() registry.ModuleDef {
	return registry.NewModuleDef("Summer").
		Output("output").
		Input("input").
		Build()
}

type summer struct {
	input *pool.Handle[float64]
	out   *pool.Handle[float64]
	total float64
}

func (m *summer) BeginLoop() error {
	m.total = 0
	return nil
}

func (m *summer) Work() (module.Status, error) {
	m.total += m.input.Get()
	m.out.Set(m.total)
	return module.Ok, nil
}

// SummerFactory instantiates Summer against ctx.
func SummerFactory(ctx registry.FactoryContext) (module.Module, error) {
	tag, err := ctx.Attrs.GetInputTag("input")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "input", Reason: err.Error()}
	}
	input, err := pool.Get[float64](ctx.Pool, tag)
	if err != nil {
		return nil, err
	}
	out, err := pool.Put[float64](ctx.Pool, inputtag.New(ctx.Name, "output"))
	if err != nil {
		return nil, err
	}
	return &summer{input: input, out: out}, nil
}

// BinnedHistogramDef declares BinnedHistogram's schema: a single scalar
// input binned into a fixed-width histogram over [low, high). It is
// sticky, since nothing downstream consumes a histogram's bin counts;
// the Graph Builder must keep it regardless.
func BinnedHistogramDef() registry.ModuleDef {
	return registry.NewModuleDef("BinnedHistogram").
		Input("input").
		Attribute("bins", registry.TypeInt).
		Attribute("low", registry.TypeReal).
		Attribute("high", registry.TypeReal).
		Sticky().
		Build()
}

type binnedHistogram struct {
	input     *pool.Handle[float64]
	low, high float64
	bins      []float64
	underflow float64
	overflow  float64
}

func (m *binnedHistogram) Work() (module.Status, error) {
	x := m.input.Get()
	switch {
	case x < m.low:
		m.underflow++
	case x >= m.high:
		m.overflow++
	default:
		width := (m.high - m.low) / float64(len(m.bins))
		idx := int((x - m.low) / width)
		if idx >= len(m.bins) {
			idx = len(m.bins) - 1
		}
		m.bins[idx]++
	}
	return module.Ok, nil
}

// Bins returns the current bin counts, in ascending bin order, for
// diagnostic inspection after a run completes.
func (m *binnedHistogram) Bins() []float64 {
	out := make([]float64, len(m.bins))
	copy(out, m.bins)
	return out
}

// LeafModule reports that BinnedHistogram exists only for its side effect.
func (m *binnedHistogram) LeafModule() bool { return true }

// BinnedHistogramFactory instantiates BinnedHistogram against ctx.
func BinnedHistogramFactory(ctx registry.FactoryContext) (module.Module, error) {
	tag, err := ctx.Attrs.GetInputTag("input")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "input", Reason: err.Error()}
	}
	input, err := pool.Get[float64](ctx.Pool, tag)
	if err != nil {
		return nil, err
	}
	bins, err := ctx.Attrs.GetInt("bins")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "bins", Reason: err.Error()}
	}
	if bins <= 0 {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "bins", Reason: "must be positive"}
	}
	low, err := ctx.Attrs.GetReal("low")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "low", Reason: err.Error()}
	}
	high, err := ctx.Attrs.GetReal("high")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "high", Reason: err.Error()}
	}
	if high <= low {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "high", Reason: "must be greater than low"}
	}
	return &binnedHistogram{input: input, low: low, high: high, bins: make([]float64, bins)}, nil
}
