// Package internalmods declares the four internal pseudo-modules of spec
// §6: cuba, input, met and momemta. These are ordinary Pool producers (per
// spec §9's design note) whose values are written directly by the
// Execution Engine harness or the Graph Builder rather than by a work()
// call — so, unlike every other module, they have no Factory and are
// never instantiated from a config.ModuleInstantiation. Graph building
// seeds its producer index with these names before looking at the user's
// declared modules (spec §4.5 step 3).
package internalmods

import "github.com/momemta/momemta-go/registry"

// Canonical names of the internal pseudo-modules.
const (
	Cuba    = "cuba"
	Input   = "input"
	Met     = "met"
	Momemta = "momemta"
)

// Canonical output slot names.
const (
	CubaPSPoints = "ps_points" // vector<double>, one entry per integration dimension
	CubaPSWeight = "ps_weight" // double, the integrator's Jacobian weight (aka "ps_weights" in spec §6's table)

	InputP4   = "p4"   // vector<LorentzVector>, in declared particle order
	InputType = "type" // vector<int>, parallel to p4

	MetP4 = "p4" // LorentzVector, missing transverse momentum
)

// Defs returns the ModuleDef schema for all four internal pseudo-modules.
func Defs() []registry.ModuleDef {
	return []registry.ModuleDef{
		registry.NewModuleDef(Cuba).
			Output(CubaPSPoints).
			Output(CubaPSWeight).
			Internal().
			Build(),
		registry.NewModuleDef(Input).
			Output(InputP4).
			Output(InputType).
			Internal().
			Build(),
		registry.NewModuleDef(Met).
			Output(MetP4).
			Internal().
			Build(),
		registry.NewModuleDef(Momemta).
			ManyInput("integrands").
			Internal().
			Build(),
	}
}

// Register adds all four internal pseudo-modules to r. A second call on the
// same registry fails as a duplicate registration; modules.RegisterBuiltins
// already calls it.
func Register(r *registry.Registry) error {
	for _, def := range Defs() {
		if err := r.Register(def, nil); err != nil {
			return err
		}
	}
	return nil
}
