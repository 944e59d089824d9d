package glossary

import (
	"strings"
	"sync"
)

// Definition is one user-defined variable.
type Definition struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Definitions maps variable names to their meaning. Keys are unique and
// entries keep the order in which keys were first defined.
type Definitions struct {
	mu     sync.Mutex
	keys   []string
	values map[string]string
}

func NewDefinitions() *Definitions {
	return &Definitions{values: make(map[string]string)}
}

// ParseDefinition splits "key: value" on the first colon. Both parts must
// be non-empty after trimming.
func ParseDefinition(input string) (key, value string, ok bool) {
	key, value, found := strings.Cut(input, ":")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

// Define parses input and stores it. Malformed input is ignored.
func (d *Definitions) Define(input string) bool {
	key, value, ok := ParseDefinition(input)
	if !ok {
		return false
	}
	d.Set(key, value)
	return true
}

// Set stores value under key. Redefining a key keeps its position.
func (d *Definitions) Set(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

func (d *Definitions) Get(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.values[key]
	return v, ok
}

// Remove deletes key and reports whether it existed.
func (d *Definitions) Remove(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

// Entries returns the definitions in display order.
func (d *Definitions) Entries() []Definition {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Definition, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, Definition{Key: k, Value: d.values[k]})
	}
	return out
}

func (d *Definitions) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keys)
}
