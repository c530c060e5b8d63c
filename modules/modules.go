// Package modules registers the builtin module library — the
// generic, non-physics-specific modules that let a configuration be
// exercised end to end without a generated-amplitude plugin — into a
// Registry, the way gofem's msolid/fem init() functions populate their
// allocator maps at package load time.
package modules

import (
	"github.com/momemta/momemta-go/internalmods"
	"github.com/momemta/momemta-go/modules/builder"
	"github.com/momemta/momemta-go/modules/dummyme"
	"github.com/momemta/momemta-go/modules/generator"
	"github.com/momemta/momemta-go/modules/looper"
	"github.com/momemta/momemta-go/modules/sum"
	"github.com/momemta/momemta-go/registry"
)

// RegisterBuiltins registers the four internal pseudo-modules and every
// generic builtin module against reg. Callers wanting a
// BreitWignerGenerator must additionally register one themselves via
// generator.BreitWignerGeneratorFactory, since its width function is a
// per-deployment choice rather than a fixed default.
func RegisterBuiltins(reg *registry.Registry) error {
	if err := internalmods.Register(reg); err != nil {
		return err
	}

	registrations := []struct {
		def     registry.ModuleDef
		factory registry.Factory
	}{
		{builder.BuildParticleDef(), builder.BuildParticleFactory},
		{builder.CombinerDef(), builder.CombinerFactory},
		{generator.UniformGeneratorDef(), generator.UniformGeneratorFactory},
		{looper.LooperDef(), looper.LooperFactory},
		{looper.PermutatorDef(), looper.PermutatorFactory},
		{dummyme.DummyMatrixElementDef(), dummyme.DummyMatrixElementFactory},
		{sum.SummerDef(), sum.SummerFactory},
		{sum.BinnedHistogramDef(), sum.BinnedHistogramFactory},
	}
	for _, r := range registrations {
		if err := reg.Register(r.def, r.factory); err != nil {
			return err
		}
	}
	return nil
}
