package categories

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// DefaultCategory is seeded into a section that has no category at all so
// that reconciliation always has somewhere to put orphans.
const DefaultCategory = "Uncategorized"

// Config is the persisted category configuration for skills and slash
// commands.
type Config struct {
	Skills            Section
	Commands          Section
	LoadSlashCommands *bool
}

// File is the on-disk shape of Config. Older files only carry categories.
type File struct {
	Categories           *Map     `json:"categories" jsonschema:"description=Skill categories in insertion order mapping category name to skill names"`
	CategoryOrder        []string `json:"categoryOrder,omitempty" jsonschema:"description=Display order of skill categories"`
	LoadSlashCommands    *bool    `json:"loadSlashCommands,omitempty" jsonschema:"description=Whether slash commands are discovered (default true)"`
	CommandCategories    *Map     `json:"commandCategories,omitempty" jsonschema:"description=Slash command categories mapping category name to command names"`
	CommandCategoryOrder []string `json:"commandCategoryOrder,omitempty" jsonschema:"description=Display order of slash command categories"`
}

// NewConfig returns an empty configuration
func NewConfig() *Config {
	return &Config{
		Skills:   Section{Categories: &Map{}},
		Commands: Section{Categories: &Map{}},
	}
}

// DefaultConfig returns the configuration written when none exists yet
func DefaultConfig() *Config {
	c := NewConfig()
	c.Seed()
	return c
}

// Seed adds DefaultCategory to every section without categories. It
// reports whether anything changed.
func (c *Config) Seed() bool {
	changed := false
	for _, s := range []*Section{&c.Skills, &c.Commands} {
		if s.Categories.Len() == 0 {
			s.Add(DefaultCategory)
			changed = true
		}
	}
	return changed
}

// SlashCommandsEnabled reports whether slash commands should be loaded.
// Configurations without the flag load them.
func (c *Config) SlashCommandsEnabled() bool {
	return c.LoadSlashCommands == nil || *c.LoadSlashCommands
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	out := &Config{
		Skills:   c.Skills.Clone(),
		Commands: c.Commands.Clone(),
	}
	if c.LoadSlashCommands != nil {
		v := *c.LoadSlashCommands
		out.LoadSlashCommands = &v
	}
	return out
}

// ToFile converts the configuration to its on-disk shape
func (c *Config) ToFile() File {
	f := File{
		Categories:           c.Skills.Categories,
		CategoryOrder:        c.Skills.Order,
		LoadSlashCommands:    c.LoadSlashCommands,
		CommandCategories:    c.Commands.Categories,
		CommandCategoryOrder: c.Commands.Order,
	}
	if f.Categories == nil {
		f.Categories = &Map{}
	}
	return f
}

// FromFile converts the on-disk shape to a configuration
func FromFile(f File) *Config {
	c := NewConfig()
	if f.Categories != nil {
		c.Skills.Categories = f.Categories
	}
	c.Skills.Order = f.CategoryOrder
	if f.CommandCategories != nil {
		c.Commands.Categories = f.CommandCategories
	}
	c.Commands.Order = f.CommandCategoryOrder
	c.LoadSlashCommands = f.LoadSlashCommands
	return c
}

// MarshalJSON encodes the configuration in its on-disk shape
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToFile())
}

// UnmarshalJSON decodes the on-disk shape. Missing fields are tolerated.
func (c *Config) UnmarshalJSON(data []byte) error {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(err, "failed to decode category configuration")
	}
	*c = *FromFile(f)
	return nil
}

// Encode renders the configuration as indented JSON
func (c *Config) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(c.ToFile(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode category configuration")
	}
	return data, nil
}

// Decode parses a configuration document
func Decode(data []byte) (*Config, error) {
	c := NewConfig()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Reconcile normalizes both sections against the discovered unit names
func (c *Config) Reconcile(skills, commands []string) *Config {
	out := c.Clone()
	out.Skills = c.Skills.Reconcile(skills)
	out.Commands = c.Commands.Reconcile(commands)
	return out
}
