// Package memory provides an in-memory winlayouts.Registry, used by tests
// and anywhere a real Windows registry is unavailable. Unlike the real
// registry it treats paths case-sensitively.
package memory

import (
	"sort"
	"strings"

	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

type Registry struct {
	keys map[string]map[string]string
}

func NewRegistry() *Registry {
	return &Registry{keys: make(map[string]map[string]string)}
}

// SetKey registers a key and its values, replacing any previous content.
func (r *Registry) SetKey(hive winlayouts.Hive, path string, values map[string]string) {
	copied := make(map[string]string, len(values))
	for name, value := range values {
		copied[name] = value
	}
	r.keys[join(hive, path)] = copied
}

// SetValue sets one value, creating the key if needed.
func (r *Registry) SetValue(hive winlayouts.Hive, path, name, value string) {
	full := join(hive, path)
	if r.keys[full] == nil {
		r.keys[full] = make(map[string]string)
	}
	r.keys[full][name] = value
}

func (r *Registry) OpenKey(hive winlayouts.Hive, path string) (winlayouts.Key, error) {
	full := join(hive, path)
	values, ok := r.keys[full]
	if !ok {
		return nil, winlayouts.ErrKeyNotFound
	}
	return &key{registry: r, path: full, values: values}, nil
}

func join(hive winlayouts.Hive, path string) string {
	return hive.String() + `\` + path
}

type key struct {
	registry *Registry
	path     string
	values   map[string]string
}

func (k *key) StringValue(name string) (string, error) {
	value, ok := k.values[name]
	if !ok {
		return "", winlayouts.ErrValueNotFound
	}
	return value, nil
}

func (k *key) SubKeyNames() ([]string, error) {
	prefix := k.path + `\`
	var names []string
	for path := range k.registry.keys {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, `\`) {
			continue
		}
		names = append(names, rest)
	}
	sort.Strings(names)
	return names, nil
}

func (k *key) ValueNames() ([]string, error) {
	names := make([]string, 0, len(k.values))
	for name := range k.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (k *key) Close() error {
	return nil
}
