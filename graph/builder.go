package graph

import (
	"fmt"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/internal/xlog"
	"github.com/momemta/momemta-go/internalmods"
	"github.com/momemta/momemta-go/lorentzvector"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
	"github.com/momemta/momemta-go/registry"
)

// Builder drives the seven validation/resolution/ordering steps of spec
// §4.5 against a Registry and a parsed config.Document, producing a
// frozen Plan.
type Builder struct {
	Registry *registry.Registry
	Logger   *xlog.Logger
}

// NewBuilder returns a Builder. A nil logger falls back to xlog.Default.
func NewBuilder(r *registry.Registry, logger *xlog.Logger) *Builder {
	if logger == nil {
		logger = xlog.Default
	}
	return &Builder{Registry: r, Logger: logger}
}

type declared struct {
	inst      config.ModuleInstantiation
	def       registry.ModuleDef
	attrs     config.Table // resolved (defaults filled in)
	dependsOn map[string]bool
	pathAttr  string // name of the attribute holding a Path value, if any
	subPath   config.Path
}

// Build runs the full pipeline and returns a frozen Plan.
func (b *Builder) Build(doc *config.Document) (*Plan, error) {
	declByName := map[string]*declared{}

	// step 1: schema validation
	for _, inst := range doc.Modules {
		reg, ok := b.Registry.Lookup(inst.Type)
		if !ok {
			return nil, &merr.ConfigurationError{Module: inst.Name, Reason: fmt.Sprintf("unknown module type %q", inst.Type)}
		}
		if reg.Def.Internal {
			return nil, &merr.ConfigurationError{Module: inst.Name, Reason: fmt.Sprintf("module type %q is internal and cannot be instantiated", inst.Type)}
		}
		if _, dup := declByName[inst.Name]; dup {
			return nil, &merr.ConfigurationError{Module: inst.Name, Reason: "duplicate module name"}
		}
		attrs := inst.Attrs
		if attrs == nil {
			attrs = config.Table{}
		}
		resolved, err := validateAttrs(inst.Name, reg.Def, attrs, doc.Parameters)
		if err != nil {
			return nil, err
		}
		d := &declared{inst: inst, def: reg.Def, attrs: resolved, dependsOn: map[string]bool{}}

		for _, a := range reg.Def.Attributes {
			if a.Type == registry.TypePath {
				if v, ok := resolved[a.Name]; ok {
					p, err := v.AsPath()
					if err != nil {
						// accept the list-of-strings representation too
						path, perr := attrs.GetPath(a.Name)
						if perr != nil {
							return nil, &merr.ConfigurationError{Module: inst.Name, Parameter: a.Name, Reason: perr.Error()}
						}
						p = path
					}
					d.pathAttr = a.Name
					d.subPath = p
				}
			}
		}

		declByName[inst.Name] = d
	}

	// step 2: reference extraction
	for name, d := range declByName {
		for _, in := range d.def.Inputs {
			tags, present, err := resolveInput(name, in, d.attrs)
			if err != nil {
				return nil, err
			}
			if !present {
				continue
			}
			for _, t := range tags {
				d.dependsOn[t.Module] = true
			}
		}
	}

	// step 3: producer index
	owners := internalOutputOwners()
	for name, d := range declByName {
		for _, out := range d.def.Outputs {
			key := outputKey{module: name, output: out.Name}
			if _, dup := owners[key]; dup {
				return nil, &merr.GraphError{Kind: merr.DuplicateProducer, Module: name, Detail: out.Name}
			}
			owners[key] = name
		}
	}

	// validate every referenced tag resolves to a declared producer
	checkTagProducer := func(consumer string, t inputtag.InputTag) error {
		if t.Module == internalmods.Cuba || t.Module == internalmods.Input || t.Module == internalmods.Met {
			return nil
		}
		target, ok := declByName[t.Module]
		if !ok {
			return &merr.GraphError{Kind: merr.UnknownProducer, Module: consumer, Detail: t.String()}
		}
		found := false
		for _, out := range target.def.Outputs {
			if out.Name == t.Parameter {
				found = true
				break
			}
		}
		if !found {
			return &merr.GraphError{Kind: merr.UnknownProducer, Module: consumer, Detail: t.String()}
		}
		return nil
	}
	for name, d := range declByName {
		for _, in := range d.def.Inputs {
			tags, present, err := resolveInput(name, in, d.attrs)
			if err != nil {
				return nil, err
			}
			if !present {
				continue
			}
			for _, t := range tags {
				if err := checkTagProducer(name, t); err != nil {
					return nil, err
				}
			}
		}
	}
	for i, t := range doc.Integrand {
		if err := checkTagProducer(internalmods.Momemta, t); err != nil {
			return nil, fmt.Errorf("integrand[%d]: %w", i, err)
		}
	}

	// sub-path membership and ownership edges
	memberOwner := map[string]string{}
	subSpecs := map[string]config.Path{}
	for name, d := range declByName {
		if d.pathAttr == "" {
			continue
		}
		for _, member := range d.subPath.Names {
			if _, ok := declByName[member]; !ok {
				return nil, &merr.ConfigurationError{Module: name, Parameter: d.pathAttr,
					Reason: fmt.Sprintf("sub-path member %q is not a declared module", member)}
			}
			if prevOwner, dup := memberOwner[member]; dup && prevOwner != name {
				return nil, &merr.ConfigurationError{Module: name, Parameter: d.pathAttr,
					Reason: fmt.Sprintf("module %q already belongs to sub-path owned by %q", member, prevOwner)}
			}
			memberOwner[member] = name
			d.dependsOn[member] = true
		}
		subSpecs[name] = d.subPath
	}

	// step 4: pruning — reachable from sticky modules and from momemta's
	// integrand sinks, traversing dependency edges backwards.
	reachable := map[string]bool{}
	var seeds []string
	for name, d := range declByName {
		if d.def.Sticky {
			seeds = append(seeds, name)
		}
	}
	for _, t := range doc.Integrand {
		if _, internal := declByName[t.Module]; !internal {
			continue // cuba/input/met — never pruned, never "declared"
		}
		seeds = append(seeds, t.Module)
	}
	var visit func(name string)
	visit = func(name string) {
		if reachable[name] {
			return
		}
		reachable[name] = true
		d, ok := declByName[name]
		if !ok {
			return
		}
		for dep := range d.dependsOn {
			visit(dep)
		}
	}
	for _, s := range seeds {
		visit(s)
	}

	// step 5: ordering. Sub-path members execute inside their owner and
	// are excluded from the main Path's own sequence; an edge into a
	// member is treated, for main-path ordering purposes, as an edge into
	// that member's owner (the member's contribution is only complete
	// once the owner's loop has run to completion).
	resolveForMain := func(p string) (string, bool) {
		seen := map[string]bool{}
		for {
			if seen[p] {
				return "", false
			}
			seen[p] = true
			if owner, isMember := memberOwner[p]; isMember {
				p = owner
				continue
			}
			return p, true
		}
	}

	mainCandidates := map[string]bool{}
	for name := range reachable {
		if _, isMember := memberOwner[name]; isMember {
			continue
		}
		mainCandidates[name] = true
	}

	mainDeps := map[string]map[string]bool{}
	for name := range mainCandidates {
		deps := map[string]bool{}
		for dep := range declByName[name].dependsOn {
			if dep == name {
				continue
			}
			if _, isMember := memberOwner[dep]; isMember {
				resolved, ok := resolveForMain(dep)
				if !ok {
					return nil, &merr.GraphError{Kind: merr.CyclicGraph, Module: name, Detail: "sub-path ownership cycle"}
				}
				dep = resolved
			}
			// dep may name an internal pseudo-module (cuba/input/met):
			// those are seeded directly into the Pool, never placed on
			// the main Path, so they contribute no ordering edge here.
			if _, declared := declByName[dep]; declared && mainCandidates[dep] {
				deps[dep] = true
			}
		}
		mainDeps[name] = deps
	}

	mainOrder, err := topoSort(mainCandidates, mainDeps)
	if err != nil {
		return nil, err
	}

	// validate sub-path internal ordering (spec §4.5 step 5, second half)
	for owner, subSpec := range subSpecs {
		if !reachable[owner] {
			continue
		}
		pos := map[string]int{}
		for i, n := range subSpec.Names {
			pos[n] = i
		}
		for i, n := range subSpec.Names {
			for dep := range declByName[n].dependsOn {
				if j, inSamePath := pos[dep]; inSamePath && j >= i {
					return nil, &merr.GraphError{Kind: merr.CyclicGraph, Module: n,
						Detail: fmt.Sprintf("sub-path of %q references %q which appears at or after position %d", owner, dep, i)}
				}
			}
		}
	}

	// step 6/7: instantiate in dependency order (sub-path members before
	// their owner; a full topological sort over every surviving module,
	// including ownership edges, gives exactly that order), accumulate
	// dimensions, then freeze the Pool.
	allDeps := map[string]map[string]bool{}
	for name, d := range declByName {
		if !reachable[name] {
			continue
		}
		deps := map[string]bool{}
		for dep := range d.dependsOn {
			if _, declared := declByName[dep]; declared {
				deps[dep] = true
			}
		}
		allDeps[name] = deps
	}
	allCandidates := map[string]bool{}
	for name := range reachable {
		allCandidates[name] = true
	}
	instOrder, err := topoSort(allCandidates, allDeps)
	if err != nil {
		return nil, err
	}

	p := pool.New()
	plan := &Plan{Pool: p, SubPaths: map[string]*SubPath{}, Integrand: doc.Integrand}

	if err := b.seedInternalSlots(plan); err != nil {
		return nil, err
	}

	instances := map[string]module.Module{}
	subPathEntries := map[string][]Entry{}
	for _, name := range instOrder {
		d := declByName[name]
		ctx := registry.FactoryContext{Name: name, Attrs: d.attrs, Global: doc.Parameters, Pool: p, DimensionOffset: plan.Dimensions}
		if d.pathAttr != "" {
			members := make([]module.Module, 0, len(d.subPath.Names))
			for _, member := range d.subPath.Names {
				members = append(members, instances[member])
			}
			ctx.Paths = map[string][]module.Module{d.pathAttr: members}
		}
		reg, _ := b.Registry.Lookup(d.inst.Type)
		inst, err := b.instantiate(ctx, reg)
		if err != nil {
			return nil, err
		}
		instances[name] = inst
		plan.Dimensions += module.Dimensions(inst)

		entry := Entry{Name: name, Type: d.inst.Type, Instance: inst}
		if owner, isMember := memberOwner[name]; isMember {
			subPathEntries[owner] = append(subPathEntries[owner], entry)
		}
	}

	for _, name := range mainOrder {
		plan.Main = append(plan.Main, Entry{Name: name, Type: declByName[name].inst.Type, Instance: instances[name]})
	}
	for owner, entries := range subPathEntries {
		plan.SubPaths[owner] = &SubPath{Owner: owner, Entries: entries}
	}

	points := make([]float64, plan.Dimensions)
	pointsHandle, err := pool.Put[[]float64](p, inputtag.New(internalmods.Cuba, internalmods.CubaPSPoints))
	if err != nil {
		return nil, err
	}
	pointsHandle.Set(points)
	plan.CubaPoints = pointsHandle

	p.Freeze()

	plan.IntegrandHandles = make([]*pool.Handle[float64], len(doc.Integrand))
	for i, tag := range doc.Integrand {
		h, err := pool.Get[float64](p, tag)
		if err != nil {
			return nil, fmt.Errorf("integrand[%d]: %w", i, err)
		}
		plan.IntegrandHandles[i] = h
	}

	return plan, nil
}

// seedInternalSlots allocates the cuba/input/met pseudo-module slots ahead
// of any module instantiation, so passively-allocated consumer references
// resolve to the right type from the start.
func (b *Builder) seedInternalSlots(plan *Plan) error {
	weight, err := pool.Put[float64](plan.Pool, inputtag.New(internalmods.Cuba, internalmods.CubaPSWeight))
	if err != nil {
		return err
	}
	plan.CubaWeight = weight

	p4, err := pool.Put[[]lorentzvector.LorentzVector](plan.Pool, inputtag.New(internalmods.Input, internalmods.InputP4))
	if err != nil {
		return err
	}
	plan.InputP4 = p4

	typ, err := pool.Put[[]int](plan.Pool, inputtag.New(internalmods.Input, internalmods.InputType))
	if err != nil {
		return err
	}
	plan.InputType = typ

	met, err := pool.Put[lorentzvector.LorentzVector](plan.Pool, inputtag.New(internalmods.Met, internalmods.MetP4))
	if err != nil {
		return err
	}
	plan.MetP4 = met
	return nil
}

func (b *Builder) instantiate(ctx registry.FactoryContext, reg registry.Registration) (module.Module, error) {
	if reg.Factory == nil {
		return nil, &merr.ConfigurationError{Module: ctx.Name, Reason: "module has no factory"}
	}
	return reg.Factory(ctx)
}
