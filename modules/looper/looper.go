// Package looper implements the sub-Path-owning module family of spec
// §4.4/§4.9: Looper itself, which re-executes its Path attribute's
// modules once per iteration until one of them signals AbortLoop, and
// Permutator, a combinatorial generator that walks every permutation of
// a particle list before exhausting. Grounded on the lifecycle-dispatch
// shape of package module and on gofem's allocator-map convention for
// naming pluggable behaviour.
package looper

import (
	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

// defaultMaxIterations bounds a Looper's own iteration count as a safety
// cap; real termination is expected to come from a sub-path member (e.g.
// Permutator) returning AbortLoop once its combinatorics are exhausted.
const defaultMaxIterations = 10000

// LooperDef declares Looper's schema: a single Path-typed attribute
// naming its sub-path's member modules in execution order.
func LooperDef() registry.ModuleDef {
	return registry.NewModuleDef("Looper").
		Attribute("path", registry.TypePath).
		OptionalAttribute("max_iterations", registry.TypeInt, config.NewInt(defaultMaxIterations)).
		Build()
}

type looperModule struct {
	name          string
	path          []module.Module
	maxIterations int
}

func (m *looperModule) Work() (module.Status, error) {
	for iter := 0; iter < m.maxIterations; iter++ {
		for _, inst := range m.path {
			if err := module.CallBeginLoop(inst); err != nil {
				return module.Ok, &merr.RuntimeError{Module: m.name, Err: err}
			}
		}

		iterationStatus := module.Ok
		for _, inst := range m.path {
			status, err := inst.Work()
			if err != nil {
				return module.Ok, &merr.RuntimeError{Module: m.name, Err: err}
			}
			if status != module.Ok {
				iterationStatus = status
				break
			}
		}

		for _, inst := range m.path {
			if err := module.CallEndLoop(inst); err != nil {
				return module.Ok, &merr.RuntimeError{Module: m.name, Err: err}
			}
		}

		if iterationStatus == module.AbortLoop {
			break
		}
	}
	return module.Ok, nil
}

// LooperFactory instantiates Looper against ctx, taking its sub-path
// members from ctx.Paths["path"] (already instantiated by the Graph
// Builder in declared order).
func LooperFactory(ctx registry.FactoryContext) (module.Module, error) {
	path, ok := ctx.Paths["path"]
	if !ok {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "path", Reason: "no sub-path wired"}
	}
	maxIter := int64(defaultMaxIterations)
	if ctx.Attrs.Has("max_iterations") {
		v, err := ctx.Attrs.GetInt("max_iterations")
		if err != nil {
			return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "max_iterations", Reason: err.Error()}
		}
		maxIter = v
	}
	return &looperModule{name: ctx.Name, path: path, maxIterations: int(maxIter)}, nil
}

// PermutatorDef declares Permutator's schema: a many-input particle list
// and a produced permutation of that list, one new ordering per Work()
// call.
func PermutatorDef() registry.ModuleDef {
	return registry.NewModuleDef("Permutator").
		Output("output").
		ManyInput("inputs").
		Build()
}

type permutator struct {
	inputs []*pool.Handle[lorentzvector.Particle]
	out    *pool.Handle[[]lorentzvector.Particle]

	perm    []int
	started bool
}

func (m *permutator) Work() (module.Status, error) {
	if !m.started {
		m.perm = identityPermutation(len(m.inputs))
		m.started = true
	} else if !nextPermutation(m.perm) {
		m.started = false
		return module.AbortLoop, nil
	}

	out := make([]lorentzvector.Particle, len(m.inputs))
	for i, idx := range m.perm {
		out[i] = m.inputs[idx].Get()
	}
	m.out.Set(out)
	return module.Ok, nil
}

// PermutatorFactory instantiates Permutator against ctx.
func PermutatorFactory(ctx registry.FactoryContext) (module.Module, error) {
	tags, err := ctx.Attrs.GetInputTags("inputs")
	if err != nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Parameter: "inputs", Reason: err.Error()}
	}
	handles := make([]*pool.Handle[lorentzvector.Particle], len(tags))
	for i, tag := range tags {
		h, err := pool.Get[lorentzvector.Particle](ctx.Pool, tag)
		if err != nil {
			return nil, err
		}
		handles[i] = h
	}
	out, err := pool.Put[[]lorentzvector.Particle](ctx.Pool, inputtag.New(ctx.Name, "output"))
	if err != nil {
		return nil, err
	}
	return &permutator{inputs: handles, out: out}, nil
}

func identityPermutation(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// nextPermutation advances p to its next lexicographic permutation in
// place (the standard std::next_permutation algorithm) and reports
// whether one existed; a false return means p has cycled back to its
// ascending (first) order.
func nextPermutation(p []int) bool {
	n := len(p)
	if n < 2 {
		return false
	}
	i := n - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		reverse(p, 0, n-1)
		return false
	}
	j := n - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	reverse(p, i+1, n-1)
	return true
}

func reverse(p []int, i, j int) {
	for i < j {
		p[i], p[j] = p[j], p[i]
		i++
		j--
	}
}
