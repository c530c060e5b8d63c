package graph

import (
	"fmt"

	"github.com/momemta/momemta-go/config"
	"github.com/momemta/momemta-go/inputtag"
	"github.com/momemta/momemta-go/internal/merr"
	"github.com/momemta/momemta-go/internalmods"
	"github.com/momemta/momemta-go/registry"
)

// validateAttrs implements spec §4.5 step 1 for one declared module: check
// every AttrDef against the module's own attribute table (or the global
// parameter table, for Global attributes), filling in defaults, and
// rejecting unknown keys. Returns the fully resolved attribute table.
func validateAttrs(moduleName string, def registry.ModuleDef, attrs, globals config.Table) (config.Table, error) {
	resolved := config.Table{}
	seen := map[string]bool{}

	for _, a := range def.Attributes {
		seen[a.Name] = true
		source := attrs
		if a.Global {
			source = globals
		}
		v, present := source[a.Name]
		if !present {
			if a.Optional {
				if a.Default != nil {
					resolved[a.Name] = *a.Default
				}
				continue
			}
			if a.Global {
				return nil, &merr.ConfigurationError{Module: moduleName, Parameter: a.Name,
					Reason: "required global attribute not found in parameters table"}
			}
			return nil, &merr.ConfigurationError{Module: moduleName, Parameter: a.Name,
				Reason: "required attribute missing"}
		}
		if err := checkType(v, a.Type); err != nil {
			return nil, &merr.ConfigurationError{Module: moduleName, Parameter: a.Name, Reason: err.Error()}
		}
		resolved[a.Name] = v
	}

	// also surface input names that live directly in the attribute table
	// under their own key (a scalar InputTag input is declared the same
	// way as an attribute: `name = "producer::output"`), so unknown-key
	// rejection below doesn't trip on them, and copy their raw value
	// through to resolved so resolveInput (which reads from this same
	// table) can actually see them.
	for _, in := range def.Inputs {
		if len(in.NestedAttributes) > 0 {
			key := topNestedKey(in)
			seen[key] = true
			if v, present := attrs[key]; present {
				resolved[key] = v
			}
			continue
		}
		seen[in.Name] = true
		if v, present := attrs[in.Name]; present {
			resolved[in.Name] = v
		}
	}

	for k := range attrs {
		if !seen[k] {
			return nil, &merr.ConfigurationError{Module: moduleName, Parameter: k, Reason: "unknown attribute"}
		}
	}

	return resolved, nil
}

func topNestedKey(in registry.ArgDef) string {
	if len(in.NestedAttributes) == 0 {
		return in.Name
	}
	return in.NestedAttributes[0].Name
}

func checkType(v config.Value, t registry.AttrType) error {
	ok := false
	switch t {
	case registry.TypeBool:
		ok = v.Kind == config.KindBool
	case registry.TypeString:
		ok = v.Kind == config.KindString
	case registry.TypeInt:
		ok = v.Kind == config.KindInt
	case registry.TypeReal:
		ok = v.Kind == config.KindReal || v.Kind == config.KindInt
	case registry.TypeInputTag:
		_, err := v.AsInputTag()
		ok = err == nil
	case registry.TypeList:
		ok = v.Kind == config.KindList
	case registry.TypeTable:
		ok = v.Kind == config.KindTable
	case registry.TypePath:
		ok = v.Kind == config.KindPath || v.Kind == config.KindList
	}
	if !ok {
		return fmt.Errorf("value of kind %s does not match declared type", v.Kind)
	}
	return nil
}

// resolveInput implements spec §4.5 step 2 for one ArgDef input: locate its
// InputTag value(s), descending into nested_attributes sub-tables when
// declared.
func resolveInput(moduleName string, in registry.ArgDef, attrs config.Table) ([]inputtag.InputTag, bool, error) {
	table := attrs
	if len(in.NestedAttributes) > 0 {
		for _, nested := range in.NestedAttributes {
			sub, err := table.GetTable(nested.Name)
			if err != nil {
				if in.Optional {
					return nil, false, nil
				}
				return nil, false, &merr.ConfigurationError{Module: moduleName, Parameter: in.Name,
					Reason: fmt.Sprintf("nested attribute %q not found: %v", nested.Name, err)}
			}
			table = sub
		}
	}

	v, present := table[in.Name]
	if !present {
		if in.Optional {
			if in.Default != nil {
				tag, err := in.Default.AsInputTag()
				if err != nil {
					return nil, false, &merr.ConfigurationError{Module: moduleName, Parameter: in.Name, Reason: err.Error()}
				}
				return []inputtag.InputTag{tag}, true, nil
			}
			return nil, false, nil
		}
		return nil, false, &merr.ConfigurationError{Module: moduleName, Parameter: in.Name, Reason: "required input missing"}
	}

	if in.Many {
		var tags []inputtag.InputTag
		if v.Kind != config.KindList {
			return nil, false, &merr.ConfigurationError{Module: moduleName, Parameter: in.Name,
				Reason: "a 'many' input must be a list of InputTags"}
		}
		for i, item := range v.List {
			tag, err := item.AsInputTag()
			if err != nil {
				return nil, false, &merr.ConfigurationError{Module: moduleName, Parameter: in.Name,
					Reason: fmt.Sprintf("item %d: %v", i, err)}
			}
			tags = append(tags, tag)
		}
		return tags, true, nil
	}

	tag, err := v.AsInputTag()
	if err != nil {
		return nil, false, &merr.ConfigurationError{Module: moduleName, Parameter: in.Name, Reason: err.Error()}
	}
	return []inputtag.InputTag{tag}, true, nil
}

// internalOutputOwners seeds the producer index with the four internal
// pseudo-modules (spec §4.5 step 3).
func internalOutputOwners() map[outputKey]string {
	owners := map[outputKey]string{}
	for _, def := range internalmods.Defs() {
		for _, out := range def.Outputs {
			owners[outputKey{module: def.Name, output: out.Name}] = def.Name
		}
	}
	return owners
}

type outputKey struct {
	module string
	output string
}
