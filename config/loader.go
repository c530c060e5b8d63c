package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/momemta/momemta-go/inputtag"
)

// LoadJSON reads and parses a JSON configuration file into a Document.
// The top-level object must contain "parameters" (a table), "modules" (a
// list of {type, name, attributes} objects) and "integrand" (a list of
// InputTag string literals), per spec §6.
func LoadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return documentFromGeneric(raw)
}

// LoadYAML reads and parses a YAML configuration file into a Document,
// with the same top-level shape as LoadJSON.
func LoadYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return documentFromGeneric(normaliseYAML(raw).(map[string]interface{}))
}

// normaliseYAML recursively converts yaml.v3's map[string]interface{} /
// map[interface{}]interface{} mix into plain map[string]interface{}, so a
// single fromGeneric implementation serves both frontends.
func normaliseYAML(x interface{}) interface{} {
	switch v := x.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = normaliseYAML(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[fmt.Sprintf("%v", k)] = normaliseYAML(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = normaliseYAML(val)
		}
		return out
	default:
		return x
	}
}

func documentFromGeneric(raw map[string]interface{}) (*Document, error) {
	doc := &Document{Parameters: Table{}}

	if p, ok := raw["parameters"]; ok {
		v, err := fromGeneric(p)
		if err != nil {
			return nil, fmt.Errorf("config: parameters: %w", err)
		}
		if v.Kind != KindTable {
			return nil, fmt.Errorf("config: parameters must be a table")
		}
		doc.Parameters = v.Table
	}

	if m, ok := raw["modules"]; ok {
		items, ok := m.([]interface{})
		if !ok {
			return nil, fmt.Errorf("config: modules must be a list")
		}
		for i, item := range items {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("config: modules[%d] must be an object", i)
			}
			typ, _ := entry["type"].(string)
			name, _ := entry["name"].(string)
			if typ == "" || name == "" {
				return nil, fmt.Errorf("config: modules[%d] requires non-empty type and name", i)
			}
			attrsRaw, _ := entry["attributes"].(map[string]interface{})
			attrsVal, err := fromGeneric(attrsRaw)
			if err != nil {
				return nil, fmt.Errorf("config: modules[%d] attributes: %w", i, err)
			}
			doc.Modules = append(doc.Modules, ModuleInstantiation{Type: typ, Name: name, Attrs: attrsVal.Table})
		}
	}

	if ig, ok := raw["integrand"]; ok {
		items, ok := ig.([]interface{})
		if !ok {
			return nil, fmt.Errorf("config: integrand must be a list")
		}
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("config: integrand[%d] must be a string InputTag", i)
			}
			tag, err := inputtag.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("config: integrand[%d]: %w", i, err)
			}
			doc.Integrand = append(doc.Integrand, tag)
		}
	}

	return doc, nil
}

func fromGeneric(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Value{Kind: KindTable, Table: Table{}}, nil
	case bool:
		return NewBool(v), nil
	case string:
		return NewString(v), nil
	case json.Number:
		s := v.String()
		if strings.ContainsAny(s, ".eE") {
			f, err := v.Float64()
			if err != nil {
				return Value{}, err
			}
			return NewReal(f), nil
		}
		i, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return Value{}, err
			}
			return NewReal(f), nil
		}
		return NewInt(i), nil
	case int:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case float64:
		if v == float64(int64(v)) {
			return NewInt(int64(v)), nil
		}
		return NewReal(v), nil
	case []interface{}:
		items := make([]Value, 0, len(v))
		for i, item := range v {
			val, err := fromGeneric(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, val)
		}
		return NewList(items...), nil
	case map[string]interface{}:
		t := Table{}
		for k, item := range v {
			val, err := fromGeneric(item)
			if err != nil {
				return Value{}, fmt.Errorf("%q: %w", k, err)
			}
			t[k] = val
		}
		return NewTable(t), nil
	default:
		return Value{}, fmt.Errorf("config: unsupported value of type %T", x)
	}
}
