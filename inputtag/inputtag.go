// Package inputtag implements InputTag (spec §3, §4.2): an unevaluated
// reference to a module's produced output, optionally indexed into a
// vector-valued output.
//
// Unlike the original mutable, lazily-self-resolving C++ InputTag, this is
// a small immutable, comparable value — idiomatic Go prefers the consumer
// (a Module, in package module) to resolve a tag once against a Pool and
// keep the resulting handle, rather than have the reference type itself
// carry hidden mutable resolution state. Equality, by construction, already
// ignores resolution state: there is none to ignore.
package inputtag

import (
	"fmt"
	"strconv"
	"strings"
)

// InputTag is a reference of the form "module::parameter" or, for an
// indexed read into a vector-valued output, "module::parameter/index".
type InputTag struct {
	Module    string
	Parameter string
	Index     int
	Indexed   bool
}

// New builds a non-indexed tag.
func New(module, parameter string) InputTag {
	return InputTag{Module: module, Parameter: parameter}
}

// NewIndexed builds an indexed tag. index must be non-negative.
func NewIndexed(module, parameter string, index int) InputTag {
	return InputTag{Module: module, Parameter: parameter, Index: index, Indexed: true}
}

// Parse tokenises a serialised tag on "::" with an optional "/index"
// suffix. Whitespace and empty segments are rejected.
func Parse(s string) (InputTag, error) {
	if strings.ContainsAny(s, " \t\n\r") {
		return InputTag{}, fmt.Errorf("inputtag: %q contains whitespace", s)
	}
	parts := strings.SplitN(s, "::", 2)
	if len(parts) != 2 {
		return InputTag{}, fmt.Errorf("inputtag: %q is missing '::' separator", s)
	}
	module := parts[0]
	rest := parts[1]
	if module == "" {
		return InputTag{}, fmt.Errorf("inputtag: %q has an empty module segment", s)
	}

	parameter := rest
	index := 0
	indexed := false
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		parameter = rest[:slash]
		idxStr := rest[slash+1:]
		if idxStr == "" {
			return InputTag{}, fmt.Errorf("inputtag: %q has an empty index segment", s)
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 {
			return InputTag{}, fmt.Errorf("inputtag: %q has a malformed non-negative index", s)
		}
		index = idx
		indexed = true
	}
	if parameter == "" {
		return InputTag{}, fmt.Errorf("inputtag: %q has an empty parameter segment", s)
	}

	return InputTag{Module: module, Parameter: parameter, Index: index, Indexed: indexed}, nil
}

// String serialises the tag back to "module::parameter" or
// "module::parameter/index". Parse and String round-trip on valid input.
func (t InputTag) String() string {
	if t.Indexed {
		return fmt.Sprintf("%s::%s/%d", t.Module, t.Parameter, t.Index)
	}
	return fmt.Sprintf("%s::%s", t.Module, t.Parameter)
}

// Scalar returns the non-indexed tag naming the same producer slot,
// dropping any index. Used by the pool to locate the underlying slot
// before indexing into it.
func (t InputTag) Scalar() InputTag {
	return InputTag{Module: t.Module, Parameter: t.Parameter}
}

// Equal reports whether two tags name the same (module, parameter[, index]).
func (t InputTag) Equal(o InputTag) bool {
	return t == o
}
