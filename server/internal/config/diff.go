package config

import (
	"fmt"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

// Diff returns the dotted YAML keys whose values differ between a and b,
// sorted. Environment overrides are part of both sides, so only file edits
// show up.
func Diff(a, b *Config) ([]string, error) {
	fa, err := flatten(a)
	if err != nil {
		return nil, err
	}
	fb, err := flatten(b)
	if err != nil {
		return nil, err
	}

	var changed []string
	for k, va := range fa {
		if vb, ok := fb[k]; !ok || !reflect.DeepEqual(va, vb) {
			changed = append(changed, k)
		}
	}
	for k := range fb {
		if _, ok := fa[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

// flatten renders cfg through its YAML tags and indexes every leaf by its
// dotted path, e.g. "limits.sequence_max". Sequences are leaves.
func flatten(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	out := make(map[string]any)
	walk("", tree, out)
	return out, nil
}

func walk(prefix string, node map[string]any, out map[string]any) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			walk(key, child, out)
			continue
		}
		out[key] = v
	}
}
