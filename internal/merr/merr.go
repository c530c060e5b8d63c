// Package merr declares the error taxonomy of the MEM computation-graph
// runtime (spec §7): distinct, wrappable error families instead of one
// generic error, so callers can errors.As against the family they care
// about. This plays the same role as gofem's split between
// LogErrCond (configuration-time) and PanicOrNot (run-time) — but
// expressed as ordinary Go errors rather than panics/bool returns.
package merr

import "fmt"

// ConfigurationError covers schema mismatches, unknown modules, missing
// attributes, unknown parameters, type mismatches and malformed InputTags.
type ConfigurationError struct {
	Module    string
	Parameter string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("configuration error: module %q, parameter %q: %s", e.Module, e.Parameter, e.Reason)
	}
	return fmt.Sprintf("configuration error: module %q: %s", e.Module, e.Reason)
}

// GraphError covers UnknownProducer, DuplicateProducer, CyclicGraph and
// IndexedTagForScalar.
type GraphError struct {
	Kind   GraphErrorKind
	Module string
	Detail string
}

// GraphErrorKind enumerates the graph-validation failure kinds from spec §7.
type GraphErrorKind int

const (
	UnknownProducer GraphErrorKind = iota
	DuplicateProducer
	CyclicGraph
	IndexedTagForScalar
)

func (k GraphErrorKind) String() string {
	switch k {
	case UnknownProducer:
		return "UnknownProducer"
	case DuplicateProducer:
		return "DuplicateProducer"
	case CyclicGraph:
		return "CyclicGraph"
	case IndexedTagForScalar:
		return "IndexedTagForScalar"
	default:
		return "UnknownGraphError"
	}
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph error: %s: module %q: %s", e.Kind, e.Module, e.Detail)
}

// IntegrationError wraps an integrator callback failure together with its
// native status code.
type IntegrationError struct {
	Code   int
	Reason string
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration error (code %d): %s", e.Code, e.Reason)
}

// PluginError covers shared-library load failures and registration
// collisions during plugin loading.
type PluginError struct {
	Path   string
	Reason string
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin error: %q: %s", e.Path, e.Reason)
}

// RuntimeError wraps a non-recoverable error raised from inside a module's
// work() call.
type RuntimeError struct {
	Module string
	Err    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error in module %q: %v", e.Module, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }
