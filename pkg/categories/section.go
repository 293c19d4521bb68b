package categories

// Fallback names the category that receives orphaned units on reconcile and
// the units of a removed category: the first category in display order.
func Fallback(order []string) (string, bool) {
	if len(order) == 0 {
		return "", false
	}
	return order[0], true
}

// Section is the category structure of one unit kind
type Section struct {
	Categories *Map
	Order      []string
}

// Clone returns a deep copy of the section
func (s Section) Clone() Section {
	var order []string
	if s.Order != nil {
		order = make([]string, len(s.Order))
		copy(order, s.Order)
	}
	return Section{Categories: s.Categories.Clone(), Order: order}
}

// Names returns the display order, falling back to key order when no
// explicit order is set.
func (s Section) Names() []string {
	if len(s.Order) > 0 {
		out := make([]string, len(s.Order))
		copy(out, s.Order)
		return out
	}
	return s.Categories.Keys()
}

// Reconcile normalizes the section against the names of the discovered
// units:
//   - the order is completed with keys it is missing, and entries without a
//     matching key (or repeated) are dropped;
//   - lists are kept verbatim, including names listed in several categories;
//   - units not listed anywhere are appended, in discovery order, to the
//     Fallback category, or dropped when no category exists.
//
// The result shares nothing with s and reconciling it again is a no-op.
func (s Section) Reconcile(unitNames []string) Section {
	out := Section{Categories: s.Categories.Clone()}

	order := s.Order
	if len(order) == 0 {
		order = out.Categories.Keys()
	}
	seen := make(map[string]struct{}, len(order))
	fixed := make([]string, 0, out.Categories.Len())
	for _, name := range order {
		if _, dup := seen[name]; dup || !out.Categories.Has(name) {
			continue
		}
		seen[name] = struct{}{}
		fixed = append(fixed, name)
	}
	for _, name := range out.Categories.Keys() {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			fixed = append(fixed, name)
		}
	}
	out.Order = fixed

	listed := make(map[string]struct{})
	for _, p := range out.Categories.Pairs() {
		for _, n := range p.Units {
			listed[n] = struct{}{}
		}
	}
	var orphans []string
	for _, n := range unitNames {
		if _, ok := listed[n]; ok {
			continue
		}
		listed[n] = struct{}{}
		orphans = append(orphans, n)
	}

	if target, ok := Fallback(out.Order); ok && len(orphans) > 0 {
		out.Categories.Append(target, orphans...)
	}
	return out
}

// Add creates an empty category at the end of the order. Empty or existing
// names are ignored.
func (s *Section) Add(name string) bool {
	if name == "" || s.Categories.Has(name) {
		return false
	}
	if s.Categories == nil {
		s.Categories = &Map{}
	}
	s.Categories.Set(name, []string{})
	s.Order = append(s.Order, name)
	return true
}

// Rename renames a category in place, keeping its list and its position in
// the order.
func (s *Section) Rename(oldName, newName string) bool {
	if newName == "" || oldName == newName || s.Categories == nil {
		return false
	}
	if !s.Categories.Rename(oldName, newName) {
		return false
	}
	for i, name := range s.Order {
		if name == oldName {
			s.Order[i] = newName
		}
	}
	return true
}

// Remove deletes a category and hands its units to the Fallback category of
// the remaining order. The last remaining category is never removed.
func (s *Section) Remove(name string) bool {
	if s.Categories.Len() <= 1 || !s.Categories.Has(name) {
		return false
	}

	moved, _ := s.Categories.Delete(name)
	order := make([]string, 0, len(s.Order))
	for _, n := range s.Order {
		if n != name {
			order = append(order, n)
		}
	}
	s.Order = order

	if target, ok := Fallback(s.Order); ok && len(moved) > 0 {
		s.Categories.Append(target, moved...)
	}
	return true
}

// Reorder replaces the order wholesale. The caller guarantees it is a
// permutation of the existing categories.
func (s *Section) Reorder(order []string) {
	s.Order = append([]string(nil), order...)
}

// Move removes the unit from every category and appends it to target. When
// target does not exist the unit ends up in no category.
func (s *Section) Move(unit, target string) {
	if s.Categories == nil {
		return
	}
	s.Categories.RemoveUnit(unit)
	s.Categories.Append(target, unit)
}

// Forget removes the unit from every category
func (s *Section) Forget(unit string) {
	s.Categories.RemoveUnit(unit)
}

// CategoryOf returns the first category in display order listing the unit
func (s Section) CategoryOf(unit string) (string, bool) {
	for _, name := range s.Names() {
		list, _ := s.Categories.Get(name)
		for _, n := range list {
			if n == unit {
				return name, true
			}
		}
	}
	return s.Categories.Find(unit)
}
