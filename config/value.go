// Package config implements the typed configuration value tree of spec §6:
// a format-agnostic tree of bool/string/int/real/InputTag/list/table/Path
// nodes, plus two concrete frontends (JSON, YAML) that parse a file into
// that tree. This plays the role gofem's inp.Data/inp.ReadSim plays for a
// JSON .sim file (inp/sim.go), generalised to the tree-shaped,
// script-language-agnostic surface spec §6 requires.
package config

import (
	"fmt"

	"github.com/momemta/momemta-go/inputtag"
)

// Kind discriminates the node kinds of the configuration value tree.
type Kind int

const (
	KindBool Kind = iota
	KindString
	KindInt
	KindReal
	KindInputTag
	KindList
	KindTable
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindInputTag:
		return "InputTag"
	case KindList:
		return "list"
	case KindTable:
		return "table"
	case KindPath:
		return "Path"
	default:
		return "unknown"
	}
}

// Path is the userdata node of spec §6: an ordered list of module names
// forming a Looper's sub-path.
type Path struct {
	Names []string
}

// Value is one node of the configuration tree. Exactly one of the typed
// fields is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Bool  bool
	Str   string
	Int   int64
	Real  float64
	Tag   inputtag.InputTag
	List  []Value
	Table Table
	Path  Path
}

// Table is a nested attribute table (the top-level "parameters" table, a
// module's own attribute table, or a nested_attributes sub-table).
type Table map[string]Value

func boolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func stringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func intValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func realValue(r float64) Value  { return Value{Kind: KindReal, Real: r} }

// NewBool builds a boolean leaf value.
func NewBool(b bool) Value { return boolValue(b) }

// NewString builds a string leaf value. If s parses as "module::param" or
// "module::param/index" it is still stored as a plain string (KindString):
// NewInputTagLiteral is what builds a KindInputTag node, and AsInputTag
// parses such a string on demand, matching spec §6's rule that an InputTag
// node is a *string literal* recognised by the surrounding schema, not a
// distinct lexical token.
func NewString(s string) Value { return stringValue(s) }

// NewInt builds an integer leaf value.
func NewInt(i int64) Value { return intValue(i) }

// NewReal builds a real leaf value.
func NewReal(r float64) Value { return realValue(r) }

// NewInputTagLiteral parses s as an InputTag and wraps it as a KindInputTag
// value, or returns an error if malformed.
func NewInputTagLiteral(s string) (Value, error) {
	tag, err := inputtag.Parse(s)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindInputTag, Tag: tag}, nil
}

// NewList builds a list value.
func NewList(items ...Value) Value { return Value{Kind: KindList, List: items} }

// NewTable builds a table value.
func NewTable(t Table) Value { return Value{Kind: KindTable, Table: t} }

// NewPath builds a Path value from an ordered list of module names.
func NewPath(names ...string) Value { return Value{Kind: KindPath, Path: Path{Names: names}} }

// AsInputTag returns the value's InputTag, parsing it from a string if
// necessary (a bare string node that looks like a tag is accepted the way
// spec §6 describes InputTag's serialisation as "string literal").
func (v Value) AsInputTag() (inputtag.InputTag, error) {
	switch v.Kind {
	case KindInputTag:
		return v.Tag, nil
	case KindString:
		return inputtag.Parse(v.Str)
	default:
		return inputtag.InputTag{}, fmt.Errorf("config: value of kind %s is not an InputTag", v.Kind)
	}
}

// AsPath returns the value's Path, erroring if the value isn't a Path node.
func (v Value) AsPath() (Path, error) {
	if v.Kind != KindPath {
		return Path{}, fmt.Errorf("config: value of kind %s is not a Path", v.Kind)
	}
	return v.Path, nil
}
