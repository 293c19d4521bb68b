package manager

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/skillmgr/pkg/categories"
	"github.com/jingkaihe/skillmgr/pkg/logger"
	"github.com/jingkaihe/skillmgr/pkg/telemetry"
	"github.com/jingkaihe/skillmgr/pkg/units"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Catalog exposes the units of one kind together with their categories.
// It shares the manager's lock.
type Catalog struct {
	m     *Manager
	kind  units.Kind
	store *units.Store

	selectedCategory string
	selectedUnit     string
}

func newCatalog(m *Manager, kind units.Kind, roots units.Roots) *Catalog {
	return &Catalog{
		m:     m,
		kind:  kind,
		store: units.NewStore(kind, roots),
	}
}

// Kind returns the kind of units in the catalog
func (c *Catalog) Kind() units.Kind { return c.kind }

func (c *Catalog) section() *categories.Section {
	return c.m.section(c.kind)
}

// afterReload re-derives the selection from the reloaded state
func (c *Catalog) afterReload() {
	order := c.section().Names()
	if !contains(order, c.selectedCategory) {
		c.selectedCategory, _ = categories.Fallback(order)
	}
	if c.selectedUnit != "" && !c.store.Has(c.selectedUnit) {
		c.selectedUnit = ""
	}
}

// Categories returns category names in display order
func (c *Catalog) Categories() []string {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.section().Names()
}

// Units returns every unit in discovery order
func (c *Catalog) Units() []units.Unit {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.store.All()
}

// Lookup returns the named unit
func (c *Catalog) Lookup(name string) (units.Unit, bool) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.store.Lookup(name)
}

// Totals returns the number of units and how many of them are enabled
func (c *Catalog) Totals() (total, enabled int) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.store.Totals()
}

// CategoryOf returns the first category in display order listing the unit
func (c *Catalog) CategoryOf(name string) (string, bool) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.section().CategoryOf(name)
}

// SelectedCategory returns the active category
func (c *Catalog) SelectedCategory() string {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	return c.selectedCategory
}

// SelectCategory makes a category active
func (c *Catalog) SelectCategory(name string) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	c.selectedCategory = name
}

// SelectUnit marks a unit as selected; an empty name clears the selection
func (c *Catalog) SelectUnit(name string) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	c.selectedUnit = name
}

// SelectedUnit returns the current value of the selected unit. Selection is
// by name, so it always reflects the latest toggle.
func (c *Catalog) SelectedUnit() (units.Unit, bool) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.selectedUnit == "" {
		return units.Unit{}, false
	}
	return c.store.Lookup(c.selectedUnit)
}

// InCategory returns the existing units listed under a category
func (c *Catalog) InCategory(category string) []units.Unit {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	names, _ := c.section().Categories.Get(category)
	return c.store.Pick(names)
}

// Selected returns the units of the selected category
func (c *Catalog) Selected() []units.Unit {
	return c.InCategory(c.SelectedCategory())
}

// Visible returns the units of the selected category matching the query
func (c *Catalog) Visible(query string) []units.Unit {
	return units.Filter(c.Selected(), query)
}

// Counts returns, per category, how many listed names match an existing unit
func (c *Catalog) Counts() map[string]int {
	counts, _ := c.counts()
	return counts
}

// EnabledCounts returns, per category, how many listed names match an
// existing enabled unit
func (c *Catalog) EnabledCounts() map[string]int {
	_, enabled := c.counts()
	return enabled
}

func (c *Catalog) counts() (map[string]int, map[string]int) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	pairs := c.section().Categories.Pairs()
	counts := make(map[string]int, len(pairs))
	enabled := make(map[string]int, len(pairs))
	for _, p := range pairs {
		counts[p.Name], enabled[p.Name] = c.store.CountExisting(p.Units)
	}
	return counts, enabled
}

// Toggle flips the enabled state of a unit. Unknown names are ignored.
func (c *Catalog) Toggle(ctx context.Context, name string) error {
	c.m.mu.Lock()
	u, ok := c.store.Lookup(name)
	if !ok {
		c.m.mu.Unlock()
		return nil
	}
	next := !u.Enabled
	c.store.SetEnabled([]string{name}, next)
	generation := c.m.generation
	c.m.mu.Unlock()

	return c.relocate(ctx, generation, name, next)
}

// SetEnabled moves a unit to the requested state. The in-memory unit is
// updated before the relocation is requested and is kept even when the
// relocation fails; the next reload restores the on-disk truth.
func (c *Catalog) SetEnabled(ctx context.Context, name string, enabled bool) error {
	c.m.mu.Lock()
	applied := c.store.SetEnabled([]string{name}, enabled)
	generation := c.m.generation
	c.m.mu.Unlock()

	if len(applied) == 0 {
		return nil
	}
	return c.relocate(ctx, generation, name, enabled)
}

// SetEnabledForCategory moves every existing unit listed under the category
// to the requested state. Relocations run concurrently and a failure does not
// stop the others; the returned *multierror.Error holds one
// *RelocationError per failed unit.
func (c *Catalog) SetEnabledForCategory(ctx context.Context, category string, enabled bool) error {
	c.m.mu.Lock()
	names, _ := c.section().Categories.Get(category)
	applied := c.store.SetEnabled(dedupe(names), enabled)
	generation := c.m.generation
	c.m.mu.Unlock()

	logger.G(ctx).WithField("kind", c.kind).
		WithField("category", category).
		WithField("enabled", enabled).
		WithField("units", len(applied)).
		Debug("updating category")

	failures := make([]error, len(applied))
	var g errgroup.Group
	if c.m.concurrency > 0 {
		g.SetLimit(c.m.concurrency)
	}
	for i, name := range applied {
		i, name := i, name
		g.Go(func() error {
			failures[i] = c.relocate(ctx, generation, name, enabled)
			return nil
		})
	}
	_ = g.Wait()

	var result *multierror.Error
	for _, err := range failures {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// EnableAllInCategory enables every unit of the selected category
func (c *Catalog) EnableAllInCategory(ctx context.Context) error {
	return c.SetEnabledForCategory(ctx, c.SelectedCategory(), true)
}

// DisableAllInCategory disables every unit of the selected category
func (c *Catalog) DisableAllInCategory(ctx context.Context) error {
	return c.SetEnabledForCategory(ctx, c.SelectedCategory(), false)
}

// relocate asks the backend to move a unit whose in-memory state has already
// been updated. When a reload replaced the store meanwhile, a successful move
// is applied again to the fresh store.
func (c *Catalog) relocate(ctx context.Context, generation uint64, name string, enabled bool) error {
	err := telemetry.WithSpan(ctx, "unit.relocate", func(ctx context.Context) error {
		return c.m.backend.Relocate(ctx, c.kind, name, enabled)
	},
		attribute.String("unit.kind", string(c.kind)),
		attribute.String("unit.name", name),
		attribute.Bool("unit.enabled", enabled),
	)

	c.m.mu.Lock()
	stale := c.m.generation != generation
	if stale && err == nil {
		c.store.SetEnabled([]string{name}, enabled)
	}
	c.m.mu.Unlock()

	if err == nil {
		return nil
	}

	logger.G(ctx).WithError(err).
		WithField("kind", c.kind).
		WithField("unit", name).
		WithField("enabled", enabled).
		WithField("stale", stale).
		Error("failed to relocate unit")
	return &RelocationError{Kind: c.kind, Name: name, Enable: enabled, Err: err}
}

// MoveToCategory removes the unit from every category and appends it to
// target. A missing target leaves the unit without a category.
func (c *Catalog) MoveToCategory(ctx context.Context, name, target string) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	c.section().Move(name, target)
	c.m.persistLocked(ctx)
}

// DeleteUnit forgets a unit and removes it from every category. The files
// themselves are left to the caller.
func (c *Catalog) DeleteUnit(ctx context.Context, name string) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	c.store.Delete(name)
	c.section().Forget(name)
	if c.selectedUnit == name {
		c.selectedUnit = ""
	}
	c.m.persistLocked(ctx)
}

// AddCategory appends an empty category. Empty or existing names are
// ignored and reported as false.
func (c *Catalog) AddCategory(ctx context.Context, name string) bool {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if !c.section().Add(name) {
		return false
	}
	c.m.persistLocked(ctx)
	return true
}

// RenameCategory renames a category in place. The selection follows the
// rename.
func (c *Catalog) RenameCategory(ctx context.Context, oldName, newName string) bool {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if !c.section().Rename(oldName, newName) {
		return false
	}
	if c.selectedCategory == oldName {
		c.selectedCategory = newName
	}
	c.m.persistLocked(ctx)
	return true
}

// RemoveCategory deletes a category and moves its units to the first
// remaining category. The last category cannot be removed.
func (c *Catalog) RemoveCategory(ctx context.Context, name string) bool {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	s := c.section()
	if !s.Remove(name) {
		return false
	}
	if c.selectedCategory == name {
		c.selectedCategory, _ = categories.Fallback(s.Names())
	}
	c.m.persistLocked(ctx)
	return true
}

// ReorderCategories replaces the display order. The caller must pass a
// permutation of the existing categories.
func (c *Catalog) ReorderCategories(ctx context.Context, order []string) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	c.section().Reorder(order)
	c.m.persistLocked(ctx)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
