// Package categories holds the persisted category structure: an ordered
// mapping from category name to unit names, the explicit display order, and
// the reconciliation pass that repairs both against the discovered units.
package categories

import (
	"bytes"
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

type entry struct {
	name  string
	units []string
}

// Map is an insertion-ordered mapping from category name to unit names.
// Renames keep the entry in place. The zero value is an empty map.
type Map struct {
	entries []entry
	index   map[string]int
}

// NewMap builds a map from the given pairs, in order
func NewMap(pairs ...Pair) *Map {
	m := &Map{}
	for _, p := range pairs {
		m.Set(p.Name, p.Units)
	}
	return m
}

// Pair is one category and its unit names
type Pair struct {
	Name  string
	Units []string
}

// Len returns the number of categories
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Has reports whether the category exists
func (m *Map) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[name]
	return ok
}

// Get returns the unit names listed under the category
func (m *Map) Get(name string) ([]string, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.entries[i].units, true
}

// Keys returns category names in insertion order
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.name
	}
	return keys
}

// Pairs returns every category in insertion order
func (m *Map) Pairs() []Pair {
	if m == nil {
		return nil
	}
	out := make([]Pair, len(m.entries))
	for i, e := range m.entries {
		out[i] = Pair{Name: e.name, Units: e.units}
	}
	return out
}

// Set replaces the list of an existing category or appends a new one
func (m *Map) Set(name string, units []string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[name]; ok {
		m.entries[i].units = units
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, entry{name: name, units: units})
}

// Append adds unit names to the end of a category's list. It returns false
// when the category does not exist.
func (m *Map) Append(name string, units ...string) bool {
	i, ok := m.index[name]
	if !ok {
		return false
	}
	list := make([]string, 0, len(m.entries[i].units)+len(units))
	list = append(list, m.entries[i].units...)
	m.entries[i].units = append(list, units...)
	return true
}

// Rename replaces the key in place. It returns false when oldName is missing
// or newName is already taken.
func (m *Map) Rename(oldName, newName string) bool {
	i, ok := m.index[oldName]
	if !ok {
		return false
	}
	if _, taken := m.index[newName]; taken {
		return false
	}
	m.entries[i].name = newName
	delete(m.index, oldName)
	m.index[newName] = i
	return true
}

// Delete removes a category and returns its list
func (m *Map) Delete(name string) ([]string, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	removed := m.entries[i].units
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, name)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].name] = j
	}
	return removed, true
}

// RemoveUnit drops every occurrence of a unit name from every list
func (m *Map) RemoveUnit(unit string) {
	if m == nil {
		return
	}
	for i, e := range m.entries {
		kept := make([]string, 0, len(e.units))
		for _, n := range e.units {
			if n != unit {
				kept = append(kept, n)
			}
		}
		m.entries[i].units = kept
	}
}

// Find returns the first category, in insertion order, listing the unit
func (m *Map) Find(unit string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, e := range m.entries {
		for _, n := range e.units {
			if n == unit {
				return e.name, true
			}
		}
	}
	return "", false
}

// Clone returns a deep copy
func (m *Map) Clone() *Map {
	out := &Map{}
	if m == nil {
		return out
	}
	for _, e := range m.entries {
		units := make([]string, len(e.units))
		copy(units, e.units)
		out.Set(e.name, units)
	}
	return out
}

// MarshalJSON writes the map as a JSON object with keys in insertion order
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode category name %q", e.name)
		}
		units := e.units
		if units == nil {
			units = []string{}
		}
		value, err := json.Marshal(units)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode category %q", e.name)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the key order of the document.
// A null document or a null list decodes as empty; non-string list items
// are skipped.
func (m *Map) UnmarshalJSON(data []byte) error {
	*m = Map{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	return jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		// keys arrive unescaped, list items do not
		name := string(key)

		units := []string{}
		switch dataType {
		case jsonparser.Array:
			var itemErr error
			_, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
				if itemErr != nil || itemType != jsonparser.String {
					return
				}
				s, err := jsonparser.ParseString(item)
				if err != nil {
					itemErr = err
					return
				}
				units = append(units, s)
			})
			if err != nil {
				return errors.Wrapf(err, "invalid unit list for category %q", name)
			}
			if itemErr != nil {
				return errors.Wrapf(itemErr, "invalid unit name in category %q", name)
			}
		case jsonparser.Null:
		default:
			return errors.Errorf("category %q must be a list of names, got %s", name, dataType)
		}

		m.Set(name, units)
		return nil
	})
}
