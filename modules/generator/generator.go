// Package generator implements the phase-space generators of the
// supplementary module library: UniformGenerator maps one raw
// cuba::ps_points coordinate into a user range, and BreitWignerGenerator
// performs importance-sampling through a Breit-Wigner peak, publishing
// both the sampled value and its Jacobian. Both are grounded on gofem's
// msolid allocator-map pattern for pluggable named models (msolid/dp.go,
// msolid/elasticity.go), generalised from "named continuum model" to
// "named phase-space transform".
package generator

import (
	"math"

	"github.com/cpmech/gosl/fun"

	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/internalmods"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

func outputTag(moduleName, parameter string) inputtag.InputTag {
	return inputtag.New(moduleName, parameter)
}

func psPointsSlot(ctx registry.FactoryContext, slot int) (*pool.IndexedHandle[float64], error) {
	return pool.GetIndexed[float64](ctx.Pool, inputtag.NewIndexed(internalmods.Cuba, internalmods.CubaPSPoints, slot))
}

// UniformGeneratorDef declares UniformGenerator's schema: one phase-space
// dimension mapped onto [min,max].
func UniformGeneratorDef() registry.ModuleDef {
	return registry.NewModuleDef("UniformGenerator").
		Output("output").
		Output("jacobian").
		Attribute("min", registry.TypeReal).
		Attribute("max", registry.TypeReal).
		Build()
}

type uniformGenerator struct {
	min, max float64
	ps       *pool.IndexedHandle[float64]
	out      *pool.Handle[float64]
	jacobian *pool.Handle[float64]
}

func (m *uniformGenerator) Dimensions() int { return 1 }

func (m *uniformGenerator) Work() (module.Status, error) {
	x := m.ps.Get()
	width := m.max - m.min
	m.out.Set(m.min + x*width)
	m.jacobian.Set(width)
	return module.Ok, nil
}

// UniformGeneratorFactory instantiates UniformGenerator against ctx. It
// claims the single ps_points slot at ctx.DimensionOffset (spec §4.5 step
// 6: dimensions are assigned in instantiation order).
func UniformGeneratorFactory(ctx registry.FactoryContext) (module.Module, error) {
	min, err := ctx.Attrs.GetReal("min")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "min", Reason: err.Error()}
	}
	max, err := ctx.Attrs.GetReal("max")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "max", Reason: err.Error()}
	}
	ps, err := psPointsSlot(ctx, ctx.DimensionOffset)
	if err != nil {
		return nil, err
	}
	out, err := pool.Put[float64](ctx.Pool, outputTag(ctx.Name, "output"))
	if err != nil {
		return nil, err
	}
	jac, err := pool.Put[float64](ctx.Pool, outputTag(ctx.Name, "jacobian"))
	if err != nil {
		return nil, err
	}
	return &uniformGenerator{min: min, max: max, ps: ps, out: out, jacobian: jac}, nil
}

// BreitWignerGeneratorDef declares BreitWignerGenerator's schema: one
// phase-space dimension mapped through a Breit-Wigner peak of mean "mass".
// The width is not a schema attribute: it is the gosl/fun.Func given to
// BreitWignerGeneratorFactory, time-independent in practice but evaluated
// through the same Func.F(t,x) interface the teacher uses for every scalar
// field condition.
func BreitWignerGeneratorDef() registry.ModuleDef {
	return registry.NewModuleDef("BreitWignerGenerator").
		Output("output").
		Output("jacobian").
		Attribute("mass", registry.TypeReal).
		Build()
}

type breitWignerGenerator struct {
	mass  float64
	width fun.Func

	ps       *pool.IndexedHandle[float64]
	out      *pool.Handle[float64]
	jacobian *pool.Handle[float64]
}

func (m *breitWignerGenerator) Dimensions() int { return 1 }

func (m *breitWignerGenerator) Work() (module.Status, error) {
	width := m.width.F(0, nil)
	x := m.ps.Get()

	// Standard Breit-Wigner importance sampling: map the uniform unit
	// interval through tan, centred on the resonance, so the integrator
	// samples the peak densely.
	y := math.Tan(math.Pi*(x-0.5)) * (width / 2)
	s := m.mass*m.mass + m.mass*y
	jacobian := math.Pi * m.mass * width / 2 * (1 + y*y*4/(width*width))

	m.out.Set(s)
	m.jacobian.Set(jacobian)
	return module.Ok, nil
}

// BreitWignerGeneratorFactory instantiates BreitWignerGenerator against
// ctx, with width evaluated from the given gosl/fun.Func — a constant
// width is the common case, but any time-independent scalar field works.
func BreitWignerGeneratorFactory(width fun.Func) registry.Factory {
	return func(ctx registry.FactoryContext) (module.Module, error) {
		mass, err := ctx.Attrs.GetReal("mass")
		if err != nil {
			return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "mass", Reason: err.Error()}
		}
		ps, err := psPointsSlot(ctx, ctx.DimensionOffset)
		if err != nil {
			return nil, err
		}
		out, err := pool.Put[float64](ctx.Pool, outputTag(ctx.Name, "output"))
		if err != nil {
			return nil, err
		}
		jac, err := pool.Put[float64](ctx.Pool, outputTag(ctx.Name, "jacobian"))
		if err != nil {
			return nil, err
		}
		return &breitWignerGenerator{mass: mass, width: width, ps: ps, out: out, jacobian: jac}, nil
	}
}
