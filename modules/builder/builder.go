// Package builder implements two generic, non-physics-specific modules
// that assemble and combine four-vectors: BuildParticle and Combiner.
// Neither encodes a matrix element; they exist so a configuration can be
// exercised end to end without a generated-amplitude plugin, grounded on
// the example configurations referenced by the source material
// (no_integration.lua, integrand.lua) which build their phase-space
// particles this way before handing them to a matrix element.
package builder

import (
	"fmt"
	"math"

	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

func tagFor(moduleName, parameter string) inputtag.InputTag {
	return inputtag.New(moduleName, parameter)
}

// coordinate names recognised by BuildParticle's schema. Exactly one
// complete set (cartesian or spherical) must be wired at configuration
// time.
const (
	inPx, inPy, inPz   = "px", "py", "pz"
	inE                = "e"
	inPt, inEta, inPhi = "pt", "eta", "phi"
)

// BuildParticleDef declares BuildParticle's schema: four cartesian inputs
// and three spherical inputs, all optional, plus a required PDG type
// attribute. Configure rejects an ambiguous or incomplete wiring.
func BuildParticleDef() registry.ModuleDef {
	b := registry.NewModuleDef("BuildParticle").
		Output("particle").
		OptionalInput(inPx, nil).
		OptionalInput(inPy, nil).
		OptionalInput(inPz, nil).
		OptionalInput(inE, nil).
		OptionalInput(inPt, nil).
		OptionalInput(inEta, nil).
		OptionalInput(inPhi, nil).
		Attribute("type", registry.TypeInt)
	return b.Build()
}

type buildParticle struct {
	name string
	typ  int64

	px, py, pz, e *pool.Handle[float64]
	pt, eta, phi  *pool.Handle[float64]

	out *pool.Handle[lorentzvector.Particle]

	cartesian bool
}

func (m *buildParticle) Configure() error {
	cartesianComplete := m.px != nil && m.py != nil && m.pz != nil && m.e != nil
	sphericalComplete := m.pt != nil && m.eta != nil && m.phi != nil && m.e != nil
	switch {
	case cartesianComplete && sphericalComplete:
		return &merr.ConfigurationError{Module: m.name, Reason: "both cartesian (px,py,pz,e) and spherical (pt,eta,phi,e) inputs are wired; wire exactly one"}
	case cartesianComplete:
		m.cartesian = true
	case sphericalComplete:
		m.cartesian = false
	default:
		return &merr.ConfigurationError{Module: m.name, Reason: "neither a complete cartesian (px,py,pz,e) nor spherical (pt,eta,phi,e) input set is wired"}
	}
	return nil
}

func (m *buildParticle) Work() (module.Status, error) {
	var p4 lorentzvector.LorentzVector
	if m.cartesian {
		p4 = lorentzvector.New(m.px.Get(), m.py.Get(), m.pz.Get(), m.e.Get())
	} else {
		pt, eta, phi, e := m.pt.Get(), m.eta.Get(), m.phi.Get(), m.e.Get()
		px := pt * math.Cos(phi)
		py := pt * math.Sin(phi)
		pz := pt * math.Sinh(eta)
		p4 = lorentzvector.New(px, py, pz, e)
	}
	m.out.Set(lorentzvector.Particle{Name: m.name, P4: p4, Type: int(m.typ)})
	return module.Ok, nil
}

// BuildParticleFactory instantiates BuildParticle against ctx.
func BuildParticleFactory(ctx registry.FactoryContext) (module.Module, error) {
	typ, err := ctx.Attrs.GetInt("type")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "type", Reason: err.Error()}
	}
	m := &buildParticle{name: ctx.Name, typ: typ}

	getOptional := func(key string) (*pool.Handle[float64], error) {
		if !ctx.Attrs.Has(key) {
			return nil, nil
		}
		tag, err := ctx.Attrs.GetInputTag(key)
		if err != nil {
			return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: key, Reason: err.Error()}
		}
		return pool.Get[float64](ctx.Pool, tag)
	}

	var err2 error
	if m.px, err2 = getOptional(inPx); err2 != nil {
		return nil, err2
	}
	if m.py, err2 = getOptional(inPy); err2 != nil {
		return nil, err2
	}
	if m.pz, err2 = getOptional(inPz); err2 != nil {
		return nil, err2
	}
	if m.e, err2 = getOptional(inE); err2 != nil {
		return nil, err2
	}
	if m.pt, err2 = getOptional(inPt); err2 != nil {
		return nil, err2
	}
	if m.eta, err2 = getOptional(inEta); err2 != nil {
		return nil, err2
	}
	if m.phi, err2 = getOptional(inPhi); err2 != nil {
		return nil, err2
	}

	out, err := pool.Put[lorentzvector.Particle](ctx.Pool, tagFor(ctx.Name, "particle"))
	if err != nil {
		return nil, err
	}
	m.out = out
	return m, nil
}

// CombinerDef declares Combiner's schema: a many-input list of particle
// references summed into one output four-vector.
func CombinerDef() registry.ModuleDef {
	return registry.NewModuleDef("Combiner").
		Output("particle").
		ManyInput("inputs").
		Build()
}

type combiner struct {
	name   string
	inputs []*pool.Handle[lorentzvector.Particle]
	out    *pool.Handle[lorentzvector.Particle]
}

func (m *combiner) Work() (module.Status, error) {
	var sum lorentzvector.LorentzVector
	for _, h := range m.inputs {
		sum = sum.Add(h.Get().P4)
	}
	m.out.Set(lorentzvector.Particle{Name: m.name, P4: sum})
	return module.Ok, nil
}

// CombinerFactory instantiates Combiner against ctx.
func CombinerFactory(ctx registry.FactoryContext) (module.Module, error) {
	tags, err := ctx.Attrs.GetInputTags("inputs")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "inputs", Reason: err.Error()}
	}
	if len(tags) == 0 {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "inputs", Reason: "at least one input is required"}
	}
	handles := make([]*pool.Handle[lorentzvector.Particle], len(tags))
	for i, tag := range tags {
		h, err := pool.Get[lorentzvector.Particle](ctx.Pool, tag)
		if err != nil {
			return nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}
		handles[i] = h
	}
	out, err := pool.Put[lorentzvector.Particle](ctx.Pool, tagFor(ctx.Name, "particle"))
	if err != nil {
		return nil, err
	}
	return &combiner{name: ctx.Name, inputs: handles, out: out}, nil
}
