package config

import (
	"fmt"

	"github.com/momemta/momemta-go/inputtag"
)

// Has reports whether key is present in the table.
func (t Table) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// GetString returns the string value of key.
func (t Table) GetString(key string) (string, error) {
	v, ok := t[key]
	if !ok {
		return "", fmt.Errorf("config: missing key %q", key)
	}
	if v.Kind != KindString {
		return "", fmt.Errorf("config: key %q is a %s, not a string", key, v.Kind)
	}
	return v.Str, nil
}

// GetBool returns the boolean value of key.
func (t Table) GetBool(key string) (bool, error) {
	v, ok := t[key]
	if !ok {
		return false, fmt.Errorf("config: missing key %q", key)
	}
	if v.Kind != KindBool {
		return false, fmt.Errorf("config: key %q is a %s, not a bool", key, v.Kind)
	}
	return v.Bool, nil
}

// GetInt returns the integer value of key.
func (t Table) GetInt(key string) (int64, error) {
	v, ok := t[key]
	if !ok {
		return 0, fmt.Errorf("config: missing key %q", key)
	}
	if v.Kind != KindInt {
		return 0, fmt.Errorf("config: key %q is a %s, not an int", key, v.Kind)
	}
	return v.Int, nil
}

// GetReal returns the real value of key. An int value is accepted and
// widened, matching the way the original's Lua bridge treats numbers as
// one numeric family.
func (t Table) GetReal(key string) (float64, error) {
	v, ok := t[key]
	if !ok {
		return 0, fmt.Errorf("config: missing key %q", key)
	}
	switch v.Kind {
	case KindReal:
		return v.Real, nil
	case KindInt:
		return float64(v.Int), nil
	default:
		return 0, fmt.Errorf("config: key %q is a %s, not a real", key, v.Kind)
	}
}

// GetInputTag returns the InputTag value of key.
func (t Table) GetInputTag(key string) (inputtag.InputTag, error) {
	v, ok := t[key]
	if !ok {
		return inputtag.InputTag{}, fmt.Errorf("config: missing key %q", key)
	}
	return v.AsInputTag()
}

// GetInputTags returns a list of InputTags for a "many" input: key must hold
// a list value whose items are each convertible to an InputTag.
func (t Table) GetInputTags(key string) ([]inputtag.InputTag, error) {
	v, ok := t[key]
	if !ok {
		return nil, fmt.Errorf("config: missing key %q", key)
	}
	if v.Kind != KindList {
		return nil, fmt.Errorf("config: key %q is a %s, not a list", key, v.Kind)
	}
	tags := make([]inputtag.InputTag, 0, len(v.List))
	for i, item := range v.List {
		tag, err := item.AsInputTag()
		if err != nil {
			return nil, fmt.Errorf("config: key %q item %d: %w", key, i, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// GetTable returns a nested table value of key.
func (t Table) GetTable(key string) (Table, error) {
	v, ok := t[key]
	if !ok {
		return nil, fmt.Errorf("config: missing key %q", key)
	}
	if v.Kind != KindTable {
		return nil, fmt.Errorf("config: key %q is a %s, not a table", key, v.Kind)
	}
	return v.Table, nil
}

// GetPath returns the Path value of key, accepting either a native Path
// node or a plain list of strings (the representation produced by the
// JSON/YAML frontends, which have no dedicated Path syntax).
func (t Table) GetPath(key string) (Path, error) {
	v, ok := t[key]
	if !ok {
		return Path{}, fmt.Errorf("config: missing key %q", key)
	}
	switch v.Kind {
	case KindPath:
		return v.Path, nil
	case KindList:
		names := make([]string, 0, len(v.List))
		for i, item := range v.List {
			if item.Kind != KindString {
				return Path{}, fmt.Errorf("config: key %q item %d is a %s, not a string", key, i, item.Kind)
			}
			names = append(names, item.Str)
		}
		return Path{Names: names}, nil
	default:
		return Path{}, fmt.Errorf("config: key %q is a %s, not a Path", key, v.Kind)
	}
}

// ModuleInstantiation is one declared module in the configuration's
// top-level sequence: a (type, name, attribute_table) triple (spec §6).
type ModuleInstantiation struct {
	Type  string
	Name  string
	Attrs Table
}

// Document is the parsed top-level configuration table (spec §6): global
// parameters, the declared module instantiations, and the integrand
// sinks.
type Document struct {
	Parameters Table
	Modules    []ModuleInstantiation
	Integrand  []inputtag.InputTag
}
