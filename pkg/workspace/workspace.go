// Package workspace reads and writes the skills, slash commands and
// category configuration of a project's .claude directory. Enabled units
// live under skills/ and commands/, disabled ones under the sibling
// disabled-skills/ and disabled-commands/ directories.
package workspace

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jingkaihe/skillmgr/pkg/categories"
	"github.com/jingkaihe/skillmgr/pkg/logger"
	"github.com/jingkaihe/skillmgr/pkg/units"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

const (
	baseDirName             = ".claude"
	configFileName          = "skill-manager-config.json"
	skillFileName           = "SKILL.md"
	commandExt              = ".md"
	skillsDirName           = "skills"
	disabledSkillsDirName   = "disabled-skills"
	commandsDirName         = "commands"
	disabledCommandsDirName = "disabled-commands"
)

// Workspace implements manager.Backend on top of a .claude directory
type Workspace struct {
	baseDir string
}

// Option configures a Workspace
type Option func(*Workspace) error

// WithProjectDir uses <dir>/.claude as the base directory
func WithProjectDir(dir string) Option {
	return func(w *Workspace) error {
		if dir == "" {
			return errors.New("project directory cannot be empty")
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve project directory %s", dir)
		}
		w.baseDir = filepath.Join(abs, baseDirName)
		return nil
	}
}

// WithBaseDir uses dir itself as the base directory
func WithBaseDir(dir string) Option {
	return func(w *Workspace) error {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve base directory %s", dir)
		}
		w.baseDir = abs
		return nil
	}
}

// New creates a workspace. Without options the current directory is the
// project directory.
func New(opts ...Option) (*Workspace, error) {
	w := &Workspace{}
	if len(opts) == 0 {
		opts = []Option{WithProjectDir(".")}
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// BaseDir returns the .claude directory
func (w *Workspace) BaseDir() string { return w.baseDir }

// ConfigPath returns the location of the category configuration
func (w *Workspace) ConfigPath() string {
	return filepath.Join(w.baseDir, configFileName)
}

// Roots returns the enabled and disabled directories of a unit kind
func (w *Workspace) Roots(kind units.Kind) units.Roots {
	if kind == units.KindSlashCommand {
		return units.Roots{
			Enabled:  filepath.Join(w.baseDir, commandsDirName),
			Disabled: filepath.Join(w.baseDir, disabledCommandsDirName),
		}
	}
	return units.Roots{
		Enabled:  filepath.Join(w.baseDir, skillsDirName),
		Disabled: filepath.Join(w.baseDir, disabledSkillsDirName),
	}
}

// WatchPaths returns the directories whose changes should trigger a reload
func (w *Workspace) WatchPaths() []string {
	skills := w.Roots(units.KindSkill)
	commands := w.Roots(units.KindSlashCommand)
	return []string{w.baseDir, skills.Enabled, skills.Disabled, commands.Enabled, commands.Disabled}
}

// LoadSkills discovers skills from both roots, sorted by name. A skill is a
// directory holding a SKILL.md file; the directory name is the skill name.
func (w *Workspace) LoadSkills(ctx context.Context) ([]units.Unit, error) {
	roots := w.Roots(units.KindSkill)
	var skills []units.Unit
	skills = append(skills, w.loadSkillsFromDir(ctx, roots.Enabled, true)...)
	skills = append(skills, w.loadSkillsFromDir(ctx, roots.Disabled, false)...)
	sort.SliceStable(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

func (w *Workspace) loadSkillsFromDir(ctx context.Context, dir string, enabled bool) []units.Unit {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.G(ctx).WithError(err).WithField("dir", dir).Warn("failed to read skills directory")
		}
		return nil
	}

	var skills []units.Unit
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skillPath := filepath.Join(entryPath, skillFileName)
		content, err := os.ReadFile(skillPath)
		if err != nil {
			continue
		}

		files, err := listFiles(entryPath, skillFileName)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("skill", entry.Name()).Debug("failed to list skill files")
		}

		skills = append(skills, units.Unit{
			Kind:        units.KindSkill,
			Name:        entry.Name(),
			Description: describe(content),
			Content:     string(content),
			Path:        skillPath,
			Enabled:     enabled,
			Files:       files,
		})
	}
	return skills
}

// LoadSlashCommands discovers slash commands from both roots, sorted by
// name. A slash command is a markdown file; its name is the file name
// without the extension.
func (w *Workspace) LoadSlashCommands(ctx context.Context) ([]units.Unit, error) {
	roots := w.Roots(units.KindSlashCommand)
	var commands []units.Unit
	commands = append(commands, w.loadCommandsFromDir(ctx, roots.Enabled, true)...)
	commands = append(commands, w.loadCommandsFromDir(ctx, roots.Disabled, false)...)
	sort.SliceStable(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	return commands, nil
}

func (w *Workspace) loadCommandsFromDir(ctx context.Context, dir string, enabled bool) []units.Unit {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.G(ctx).WithError(err).WithField("dir", dir).Warn("failed to read commands directory")
		}
		return nil
	}

	var commands []units.Unit
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), commandExt) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		commands = append(commands, units.Unit{
			Kind:        units.KindSlashCommand,
			Name:        strings.TrimSuffix(entry.Name(), commandExt),
			Description: describe(content),
			Content:     string(content),
			Path:        path,
			Enabled:     enabled,
		})
	}
	return commands
}

// LoadConfig reads the category configuration. A missing file is replaced by
// the default configuration, which is written back to disk. Sections without
// any category are seeded with categories.DefaultCategory.
func (w *Workspace) LoadConfig(ctx context.Context) (*categories.Config, error) {
	path := w.ConfigPath()

	data, err := lockedfile.Read(path)
	if os.IsNotExist(err) {
		config := categories.DefaultConfig()
		if err := w.SaveConfig(ctx, config); err != nil {
			logger.G(ctx).WithError(err).WithField("path", path).Warn("failed to write default config")
		}
		return config, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return categories.DefaultConfig(), nil
	}

	config, err := categories.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	config.Seed()
	return config, nil
}

// SaveConfig writes the category configuration under a file lock
func (w *Workspace) SaveConfig(_ context.Context, config *categories.Config) error {
	data, err := config.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create base directory")
	}
	if err := lockedfile.Write(w.ConfigPath(), bytes.NewReader(data), 0o644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}

// Relocate moves a unit to the root matching the requested state. Moving a
// unit that is not in the source root is a no-op.
func (w *Workspace) Relocate(ctx context.Context, kind units.Kind, name string, enable bool) error {
	if err := validateName(name); err != nil {
		return err
	}

	roots := w.Roots(kind)
	for _, dir := range []string{roots.Enabled, roots.Disabled} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	entry := name
	if kind == units.KindSlashCommand {
		entry = name + commandExt
	}
	src := filepath.Join(roots.RootFor(!enable), entry)
	dst := filepath.Join(roots.RootFor(enable), entry)

	if _, err := os.Lstat(src); os.IsNotExist(err) {
		logger.G(ctx).WithField("kind", kind).WithField("unit", name).Debug("nothing to relocate")
		return nil
	}
	if _, err := os.Lstat(dst); err == nil {
		return errors.Errorf("%s already exists", dst)
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.Wrapf(err, "failed to move %s", name)
	}

	logger.G(ctx).WithField("kind", kind).WithField("unit", name).WithField("enabled", enable).Info("unit relocated")
	return nil
}

// ReadFile returns the content of a file
func (w *Workspace) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to read file")
	}
	return string(data), nil
}

// WriteFile replaces the content of a file
func (w *Workspace) WriteFile(path, content string) error {
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.Wrap(err, "failed to write file")
	}
	return nil
}

// ListDirectory lists a directory, directories first then by name
func (w *Workspace) ListDirectory(path string) ([]units.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat directory")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", path)
	}
	return listFiles(path, "")
}

func listFiles(dir, skip string) ([]units.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", dir)
	}

	files := make([]units.File, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == skip {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		isDir := entry.IsDir()
		if info, err := os.Stat(path); err == nil {
			isDir = info.IsDir()
		}
		files = append(files, units.File{Name: entry.Name(), Path: path, IsDirectory: isDir})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].IsDirectory != files[j].IsDirectory {
			return files[i].IsDirectory
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Errorf("invalid unit name %q", name)
	}
	return nil
}
