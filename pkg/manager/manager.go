// Package manager keeps the discovered units and their category
// configuration consistent, and exposes the operations that change them.
//
// Every operation updates the in-memory state first. Side effects run
// afterwards: relocations are awaited and their failures returned without
// rolling back, and config saves happen in the background.
package manager

import (
	"context"
	"sync"
	"time"

	"github.com/jingkaihe/skillmgr/pkg/categories"
	"github.com/jingkaihe/skillmgr/pkg/logger"
	"github.com/jingkaihe/skillmgr/pkg/telemetry"
	"github.com/jingkaihe/skillmgr/pkg/units"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Backend discovers units, persists the category configuration and moves
// units between their enabled and disabled roots.
type Backend interface {
	LoadSkills(ctx context.Context) ([]units.Unit, error)
	LoadSlashCommands(ctx context.Context) ([]units.Unit, error)
	LoadConfig(ctx context.Context) (*categories.Config, error)
	SaveConfig(ctx context.Context, config *categories.Config) error
	Relocate(ctx context.Context, kind units.Kind, name string, enable bool) error
	Roots(kind units.Kind) units.Roots
}

// Manager owns the unit stores and the category configuration
type Manager struct {
	backend     Backend
	concurrency int
	saver       *saver

	mu         sync.Mutex
	config     *categories.Config
	skills     *Catalog
	commands   *Catalog
	generation uint64
	loadErr    error
}

// Option configures a Manager
type Option func(*Manager)

// WithConcurrency limits the number of relocations running at once during
// bulk operations. Zero or less means unlimited.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		m.concurrency = n
	}
}

// WithSaveRetry sets how many times a failed config save is attempted and
// the initial delay between attempts.
func WithSaveRetry(attempts uint, delay time.Duration) Option {
	return func(m *Manager) {
		m.saver.attempts = attempts
		m.saver.delay = delay
	}
}

// New creates a manager. Call Reload before using it.
func New(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		config:  categories.NewConfig(),
		saver: &saver{
			save:     backend.SaveConfig,
			attempts: 3,
			delay:    100 * time.Millisecond,
		},
	}
	m.skills = newCatalog(m, units.KindSkill, backend.Roots(units.KindSkill))
	m.commands = newCatalog(m, units.KindSlashCommand, backend.Roots(units.KindSlashCommand))

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Skills returns the skill catalog
func (m *Manager) Skills() *Catalog { return m.skills }

// Commands returns the slash command catalog
func (m *Manager) Commands() *Catalog { return m.commands }

// Catalog returns the catalog for a unit kind
func (m *Manager) Catalog(kind units.Kind) *Catalog {
	if kind == units.KindSlashCommand {
		return m.commands
	}
	return m.skills
}

// Reload discovers units and loads the config, then reconciles them and
// replaces the in-memory state wholesale. On failure the previous state is
// kept and the error is also reported by Err.
func (m *Manager) Reload(ctx context.Context) error {
	var (
		skills   []units.Unit
		commands []units.Unit
		config   *categories.Config
	)

	ctx, span := telemetry.Tracer("").Start(ctx, "workspace.reload")
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skills, err = m.backend.LoadSkills(gctx)
		return errors.Wrap(err, "failed to load skills")
	})
	g.Go(func() error {
		var err error
		config, err = m.backend.LoadConfig(gctx)
		return errors.Wrap(err, "failed to load config")
	})
	err := g.Wait()
	if err == nil && config == nil {
		config = categories.DefaultConfig()
	}
	if err == nil && config.SlashCommandsEnabled() {
		commands, err = m.backend.LoadSlashCommands(ctx)
		err = errors.Wrap(err, "failed to load slash commands")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.loadErr = &LoadError{Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.G(ctx).WithError(err).Error("reload failed")
		return m.loadErr
	}

	m.skills.store.Replace(skills)
	m.commands.store.Replace(commands)
	m.config = config.Reconcile(m.skills.store.Names(), m.commands.store.Names())
	m.generation++
	m.loadErr = nil

	m.skills.afterReload()
	m.commands.afterReload()

	span.SetAttributes(
		attribute.Int("skills", m.skills.store.Len()),
		attribute.Int("commands", m.commands.store.Len()),
		attribute.Int64("generation", int64(m.generation)),
	)
	logger.G(ctx).WithField("skills", m.skills.store.Len()).
		WithField("commands", m.commands.store.Len()).
		WithField("generation", m.generation).
		Debug("workspace reloaded")
	return nil
}

// Err returns the error of the last failed reload, or nil once a reload
// succeeds.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

// Generation returns the number of successful reloads
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Config returns a copy of the current configuration
func (m *Manager) Config() *categories.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config.Clone()
}

// SlashCommandsEnabled reports whether slash commands are loaded
func (m *Manager) SlashCommandsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config.SlashCommandsEnabled()
}

// SetSlashCommandsEnabled changes whether slash commands are loaded. The
// change is persisted and takes effect on the next reload.
func (m *Manager) SetSlashCommandsEnabled(ctx context.Context, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.LoadSlashCommands = &enabled
	m.persistLocked(ctx)
}

// Flush waits for pending config saves
func (m *Manager) Flush() {
	m.saver.wait()
}

// section returns the live section of a kind; m.mu must be held
func (m *Manager) section(kind units.Kind) *categories.Section {
	if kind == units.KindSlashCommand {
		return &m.config.Commands
	}
	return &m.config.Skills
}

// persistLocked enqueues a snapshot of the config; m.mu must be held
func (m *Manager) persistLocked(ctx context.Context) {
	m.saver.enqueue(ctx, m.config.Clone())
}
