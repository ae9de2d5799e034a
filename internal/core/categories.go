package core

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"unicode"
)

// Category is a user-defined spending bucket with a display icon and label.
type Category struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// Registry maps stable category keys to their display data. Keys are derived
// from labels at creation time and never change afterwards; label and icon
// can be edited in place. It is an explicit value threaded through the
// engines rather than process-wide state.
type Registry struct {
	keys  []string
	items map[string]Category
}

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmptyLabel       = errors.New("empty category label")
)

// DefaultRegistry returns the eight stock categories every fresh install has.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	defaults := []struct {
		key  string
		icon string
		lbl  string
	}{
		{"food", "🛒", "Alimentación"},
		{"housing", "🏠", "Vivienda"},
		{"transport", "🚗", "Transporte"},
		{"utilities", "⚡", "Servicios"},
		{"health", "🏥", "Salud"},
		{"education", "📚", "Educación"},
		{"entertainment", "🎬", "Entretenimiento"},
		{"other", "📌", "Otros"},
	}
	for _, d := range defaults {
		r.keys = append(r.keys, d.key)
		r.items[d.key] = Category{Icon: d.icon, Label: d.lbl}
	}
	return r
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Category)}
}

// KeyFromLabel derives a stable lowercase ASCII key from a display label.
func KeyFromLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// Keys returns category keys in registry order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Registry) Len() int { return len(r.keys) }

func (r *Registry) Get(key string) (Category, bool) {
	c, ok := r.items[key]
	return c, ok
}

func (r *Registry) Has(key string) bool {
	_, ok := r.items[key]
	return ok
}

// Add registers a new category, deriving its key from the label.
func (r *Registry) Add(label, icon string) (string, error) {
	key := KeyFromLabel(label)
	if key == "" {
		return "", ErrEmptyLabel
	}
	if _, ok := r.items[key]; ok {
		return "", ErrCategoryExists
	}
	r.keys = append(r.keys, key)
	r.items[key] = Category{Icon: icon, Label: strings.TrimSpace(label)}
	return key, nil
}

// Update edits label and icon in place. The key stays stable.
func (r *Registry) Update(key, label, icon string) error {
	if _, ok := r.items[key]; !ok {
		return ErrCategoryNotFound
	}
	if strings.TrimSpace(label) == "" {
		return ErrEmptyLabel
	}
	r.items[key] = Category{Icon: icon, Label: strings.TrimSpace(label)}
	return nil
}

// Remove deletes the mapping. Historical transactions keep referencing the
// removed key; nothing cascades.
func (r *Registry) Remove(key string) error {
	if _, ok := r.items[key]; !ok {
		return ErrCategoryNotFound
	}
	delete(r.items, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Clone returns an independent copy. Stores hand out clones so concurrent
// readers never share a map with a caller that mutates one.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		keys:  make([]string, len(r.keys)),
		items: make(map[string]Category, len(r.items)),
	}
	copy(out.keys, r.keys)
	for k, c := range r.items {
		out.items[k] = c
	}
	return out
}

// Label returns the display label for a key, falling back to the key itself
// for orphaned references.
func (r *Registry) Label(key string) string {
	if c, ok := r.items[key]; ok {
		return c.Label
	}
	return key
}

// MarshalJSON renders the registry as the {key: {icon,label}} object used by
// the settings store and the backup format.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.items)
}

// UnmarshalJSON loads a {key: {icon,label}} object. JSON objects carry no
// order, so keys come back sorted.
func (r *Registry) UnmarshalJSON(b []byte) error {
	items := make(map[string]Category)
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	r.keys = keys
	r.items = items
	return nil
}
