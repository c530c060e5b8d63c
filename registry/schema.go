// Package registry implements the Module Registry (spec §4.3, C3): a
// process-wide, append-only name → {factory, schema} map, plus the fluent
// schema builder spec §4.3 calls for. Grounded on gofem's allocator-map
// pattern (e.g. msolid's "allocators[name] = func() Model {...}",
// fem/element.go's eallocators/iallocators), generalised from a bare
// map[string]func() to a map carrying a declarative schema alongside the
// factory, since here (unlike gofem's fixed element Dofs/T1vars/T2vars)
// every module has a genuinely different attribute shape that must be
// validated generically by the Graph Builder.
package registry

import (
	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/module"
	"github.com/momemta/momemta-go/pool"
)

// AttrType names the recognised attribute value types (spec §3 AttrDef).
type AttrType int

const (
	TypeBool AttrType = iota
	TypeString
	TypeInt
	TypeReal
	TypeInputTag
	TypeList
	TypeTable
	TypePath
)

// AttrDef declares one module attribute (spec §3).
type AttrDef struct {
	Name     string
	Type     AttrType
	Default  *config.Value
	Global   bool // read from the top-level parameter table instead of the module's own
	Optional bool
}

// ArgDef declares one input or output (spec §3). Only Name is meaningful
// for outputs; the remaining fields apply to inputs.
type ArgDef struct {
	Name             string
	Default          *config.Value // only meaningful for inputs
	Optional         bool          // only meaningful for inputs
	Many             bool          // only meaningful for inputs: a list of references
	NestedAttributes []AttrDef     // attribute path this input is nested under, e.g. branches/leaf=x::y
}

// ModuleDef is a module's schema: its declared inputs, outputs and
// attributes, plus the internal/sticky flags (spec §3).
type ModuleDef struct {
	Name       string
	Inputs     []ArgDef
	Outputs    []ArgDef
	Attributes []AttrDef
	Internal   bool // pseudo-node representing integrator/user-provided values
	Sticky     bool // kept in the plan even with no consumers
}

// FactoryContext is what a module factory needs to build an instance:
// its own validated attribute table, the global parameter table, and the
// shared Pool to produce/resolve against.
type FactoryContext struct {
	Name   string
	Attrs  config.Table
	Global config.Table
	Pool   *pool.Pool

	// Paths holds, for a module declaring a Path-typed attribute (a
	// Looper's "path"), the already-instantiated modules of that
	// sub-path in declared order, keyed by the attribute name. The Graph
	// Builder instantiates sub-path members before their owner, so this
	// is always fully populated by the time a Looper's factory runs.
	Paths map[string][]module.Module

	// DimensionOffset is the sum of Dimensions() over every module
	// instantiated so far (spec §4.5 step 6 merged with step 7): a
	// Dimensioner factory uses this as the base index of its own slice
	// of cuba::ps_points.
	DimensionOffset int
}

// Factory constructs one instance of a module type. Internal pseudo-modules
// (cuba/input/met/momemta) have no factory: their slots are populated by
// the Execution Engine or user harness rather than by work().
type Factory func(ctx FactoryContext) (module.Module, error)

// Builder is the fluent schema builder spec §4.3 describes.
type Builder struct {
	def ModuleDef
}

// NewModuleDef starts building the schema for a module type named name.
func NewModuleDef(name string) *Builder {
	return &Builder{def: ModuleDef{Name: name}}
}

// Output declares a produced output.
func (b *Builder) Output(name string) *Builder {
	b.def.Outputs = append(b.def.Outputs, ArgDef{Name: name})
	return b
}

// Input declares a required, non-indexed, scalar input.
func (b *Builder) Input(name string) *Builder {
	b.def.Inputs = append(b.def.Inputs, ArgDef{Name: name})
	return b
}

// OptionalInput declares an optional scalar input with a default InputTag.
func (b *Builder) OptionalInput(name string, def *config.Value) *Builder {
	b.def.Inputs = append(b.def.Inputs, ArgDef{Name: name, Optional: true, Default: def})
	return b
}

// ManyInput declares an input that points to a list of references.
func (b *Builder) ManyInput(name string) *Builder {
	b.def.Inputs = append(b.def.Inputs, ArgDef{Name: name, Many: true})
	return b
}

// NestedInput declares an input located under a nested attribute path,
// e.g. a "branches/leaf=x::y" style nested reference.
func (b *Builder) NestedInput(name string, nested ...AttrDef) *Builder {
	b.def.Inputs = append(b.def.Inputs, ArgDef{Name: name, NestedAttributes: nested})
	return b
}

// Attribute declares a typed attribute.
func (b *Builder) Attribute(name string, typ AttrType) *Builder {
	b.def.Attributes = append(b.def.Attributes, AttrDef{Name: name, Type: typ})
	return b
}

// OptionalAttribute declares an optional typed attribute with a default.
func (b *Builder) OptionalAttribute(name string, typ AttrType, def config.Value) *Builder {
	b.def.Attributes = append(b.def.Attributes, AttrDef{Name: name, Type: typ, Optional: true, Default: &def})
	return b
}

// GlobalAttribute declares an attribute read from the top-level parameter
// table rather than the module's own attribute table.
func (b *Builder) GlobalAttribute(name string, typ AttrType) *Builder {
	b.def.Attributes = append(b.def.Attributes, AttrDef{Name: name, Type: typ, Global: true})
	return b
}

// Sticky marks the module as kept in the plan even without consumers.
func (b *Builder) Sticky() *Builder {
	b.def.Sticky = true
	return b
}

// Internal marks the module as a pseudo-node with no factory.
func (b *Builder) Internal() *Builder {
	b.def.Internal = true
	return b
}

// Build finalises the schema.
func (b *Builder) Build() ModuleDef {
	return b.def
}
