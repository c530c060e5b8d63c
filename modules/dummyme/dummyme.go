// Package dummyme implements DummyMatrixElement, a deterministic
// placeholder matrix element that lets a configuration be exercised end
// to end without a generated physics amplitude wired in. It is grounded
// on original_source/MatrixElements/dummy/dummy_me.cc, whose compute()
// ignores both initial and final-state momenta and returns a default
// (empty) Result; here that behaviour becomes a fixed, configurable
// scalar output rather than a silently-empty one, since every module in
// this runtime must publish something onto the pool for its consumers.
package dummyme

import (
	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

// defaultDummyValue is the fixed weight contribution DummyMatrixElement
// produces when its "value" attribute is left unset.
const defaultDummyValue = 1.0

// DummyMatrixElementDef declares DummyMatrixElement's schema: it accepts
// (and ignores, same as the original) the full final state, plus an
// optional fixed "value" attribute, and always produces that value.
func DummyMatrixElementDef() registry.ModuleDef {
	return registry.NewModuleDef("DummyMatrixElement").
		Output("value").
		ManyInput("particles").
		OptionalAttribute("value", registry.TypeReal, config.NewReal(defaultDummyValue)).
		Build()
}

type dummyMatrixElement struct {
	particles []*pool.Handle[lorentzvector.Particle]
	value     float64
	out       *pool.Handle[float64]
}

func (m *dummyMatrixElement) Work() (module.Status, error) {
	m.out.Set(m.value)
	return module.Ok, nil
}

// DummyMatrixElementFactory instantiates DummyMatrixElement against ctx.
func DummyMatrixElementFactory(ctx registry.FactoryContext) (module.Module, error) {
	tags, err := ctx.Attrs.GetInputTags("particles")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "particles", Reason: err.Error()}
	}
	handles := make([]*pool.Handle[lorentzvector.Particle], len(tags))
	for i, tag := range tags {
		h, err := pool.Get[lorentzvector.Particle](ctx.Pool, tag)
		if err != nil {
			return nil, err
		}
		handles[i] = h
	}

	value := float64(defaultDummyValue)
	if ctx.Attrs.Has("value") {
		v, err := ctx.Attrs.GetReal("value")
		if err != nil {
			return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "value", Reason: err.Error()}
		}
		value = v
	}

	out, err := pool.Put[float64](ctx.Pool, inputtag.New(ctx.Name, "value"))
	if err != nil {
		return nil, err
	}
	return &dummyMatrixElement{particles: handles, value: value, out: out}, nil
}
