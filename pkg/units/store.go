package units

// Store holds the discovered units of a single kind in discovery order.
// It is not safe for concurrent use; the manager serialises access.
type Store struct {
	kind  Kind
	roots Roots
	units []Unit
	index map[string]int
}

// NewStore creates an empty store for the given kind and roots
func NewStore(kind Kind, roots Roots) *Store {
	return &Store{
		kind:  kind,
		roots: roots,
		index: make(map[string]int),
	}
}

// Kind returns the kind of units held by the store
func (s *Store) Kind() Kind { return s.kind }

// Roots returns the enabled/disabled roots of the store
func (s *Store) Roots() Roots { return s.roots }

// Replace swaps the whole content of the store. Reloads never patch units
// in place. When a name appears twice the first occurrence wins.
func (s *Store) Replace(loaded []Unit) {
	s.units = make([]Unit, 0, len(loaded))
	s.index = make(map[string]int, len(loaded))
	for _, u := range loaded {
		if _, dup := s.index[u.Name]; dup {
			continue
		}
		if u.Kind == "" {
			u.Kind = s.kind
		}
		s.index[u.Name] = len(s.units)
		s.units = append(s.units, u)
	}
}

// Len returns the number of units
func (s *Store) Len() int { return len(s.units) }

// Has reports whether a unit with the given name exists
func (s *Store) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Lookup returns the unit with the given name
func (s *Store) Lookup(name string) (Unit, bool) {
	i, ok := s.index[name]
	if !ok {
		return Unit{}, false
	}
	return s.units[i], true
}

// All returns a copy of every unit in discovery order
func (s *Store) All() []Unit {
	out := make([]Unit, len(s.units))
	copy(out, s.units)
	return out
}

// Names returns unit names in discovery order
func (s *Store) Names() []string {
	names := make([]string, len(s.units))
	for i, u := range s.units {
		names[i] = u.Name
	}
	return names
}

// SetEnabled moves the named units to the requested state and returns the
// names that exist in the store. Unknown names are ignored.
func (s *Store) SetEnabled(names []string, enabled bool) []string {
	applied := make([]string, 0, len(names))
	for _, name := range names {
		i, ok := s.index[name]
		if !ok {
			continue
		}
		s.units[i] = s.units[i].WithEnabled(enabled, s.roots)
		applied = append(applied, name)
	}
	return applied
}

// Delete removes a unit from the store
func (s *Store) Delete(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}
	s.units = append(s.units[:i], s.units[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.units); j++ {
		s.index[s.units[j].Name] = j
	}
	return true
}

// Pick returns the units whose names are listed, in store order.
// Listed names without a matching unit contribute nothing.
func (s *Store) Pick(names []string) []Unit {
	listed := make(map[string]struct{}, len(names))
	for _, n := range names {
		listed[n] = struct{}{}
	}
	out := make([]Unit, 0, len(names))
	for _, u := range s.units {
		if _, ok := listed[u.Name]; ok {
			out = append(out, u)
		}
	}
	return out
}

// CountExisting returns how many listed names match a unit, and how many of
// those are enabled. A name listed twice is counted twice.
func (s *Store) CountExisting(names []string) (total, enabled int) {
	for _, n := range names {
		i, ok := s.index[n]
		if !ok {
			continue
		}
		total++
		if s.units[i].Enabled {
			enabled++
		}
	}
	return total, enabled
}

// Totals returns the number of units and the number of enabled units
func (s *Store) Totals() (total, enabled int) {
	for _, u := range s.units {
		if u.Enabled {
			enabled++
		}
	}
	return len(s.units), enabled
}

// Filter returns the units matching the query, see Unit.Matches
func Filter(list []Unit, query string) []Unit {
	out := make([]Unit, 0, len(list))
	for _, u := range list {
		if u.Matches(query) {
			out = append(out, u)
		}
	}
	return out
}
