// Package graph implements the Graph Builder (spec §4.5, C5): it parses a
// config.Document, validates every declared module's attributes against
// its registry.ModuleDef schema, resolves InputTag references and Path
// sub-paths, prunes unreachable non-sticky modules, topologically orders
// the survivors and freezes a Plan the Execution Engine can drive.
//
// This is gofem's fem.Domain/fem.NewDomain role (read inp.Simulation +
// inp.Region, allocate Elems via the element allocator map, wire equation
// numbers) generalised from a fixed element/Dof model to the spec's
// name-addressed, schema-validated module graph.
package graph

import (
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
)

// Entry is one instantiated module placed on a Path.
type Entry struct {
	Name     string
	Type     string
	Instance module.Module
}

// SubPath is an owned, ordered sub-sequence of module instances — the body
// of a Looper (spec §3 "Path").
type SubPath struct {
	Owner   string
	Entries []Entry
}

// Plan is the materialised, frozen execution graph (spec §3): a main Path
// plus a map of sub-paths, all sharing one Pool.
type Plan struct {
	Pool *pool.Pool

	Main     []Entry
	SubPaths map[string]*SubPath // keyed by owner module name

	Dimensions int
	Integrand  []inputtag.InputTag

	// Handles to the internal pseudo-module slots, populated directly by
	// the Execution Engine harness rather than by any module's work().
	CubaPoints *pool.Handle[[]float64]
	CubaWeight *pool.Handle[float64]
	InputP4    *pool.Handle[[]lorentzvector.LorentzVector]
	InputType  *pool.Handle[[]int]
	MetP4      *pool.Handle[lorentzvector.LorentzVector]

	// IntegrandHandles mirrors Integrand: one resolved read handle per
	// declared integrand sink, in the same order, cached once at freeze
	// time so the Execution Engine never has to re-resolve a tag per
	// sample.
	IntegrandHandles []*pool.Handle[float64]
}

// AllEntries returns every surviving instantiated module — the main Path
// followed by each sub-path's entries in declaration order — the full set
// the Execution Engine must drive lifecycle hooks across (configure,
// beginIntegration, endIntegration, finish apply to sub-path modules too,
// not just the main Path).
func (p *Plan) AllEntries() []Entry {
	all := make([]Entry, 0, len(p.Main))
	all = append(all, p.Main...)
	for _, sp := range p.SubPaths {
		all = append(all, sp.Entries...)
	}
	return all
}
