// Package units models the skills and slash commands managed by skillmgr.
// A unit lives under one of two sibling roots depending on whether it is
// enabled; the enabled flag and the path are always rewritten together.
package units

import (
	"path/filepath"
	"strings"
)

// Kind distinguishes skills from slash commands. Names are unique per kind.
type Kind string

// Unit kinds
const (
	KindSkill        Kind = "skill"
	KindSlashCommand Kind = "command"
)

func (k Kind) String() string { return string(k) }

// File is an auxiliary file shipped next to a skill's SKILL.md
type File struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	IsDirectory bool   `json:"is_directory" yaml:"is_directory"`
}

// Unit is a discovered skill or slash command
type Unit struct {
	Kind        Kind   `json:"kind" yaml:"kind"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Content     string `json:"content" yaml:"content"`
	Path        string `json:"path" yaml:"path"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Files       []File `json:"files,omitempty" yaml:"files,omitempty"`
}

// Roots are the two sibling directories a unit kind is stored under.
type Roots struct {
	Enabled  string
	Disabled string
}

// Rewrite moves path from one root to the other so that it matches the
// requested state. Paths outside the source root are returned unchanged.
func (r Roots) Rewrite(path string, enabled bool) string {
	from, to := r.Enabled, r.Disabled
	if enabled {
		from, to = r.Disabled, r.Enabled
	}
	if from == "" || to == "" {
		return path
	}

	from = filepath.Clean(from)
	if path == from {
		return filepath.Clean(to)
	}
	prefix := from + string(filepath.Separator)
	if !strings.HasPrefix(path, prefix) {
		return path
	}
	return filepath.Clean(to) + string(filepath.Separator) + strings.TrimPrefix(path, prefix)
}

// RootFor returns the root a unit in the given state lives under
func (r Roots) RootFor(enabled bool) string {
	if enabled {
		return r.Enabled
	}
	return r.Disabled
}

// WithEnabled returns a copy of u in the requested state, with its path and
// every auxiliary file path moved to the matching root.
func (u Unit) WithEnabled(enabled bool, roots Roots) Unit {
	next := u
	next.Enabled = enabled
	next.Path = roots.Rewrite(u.Path, enabled)

	if u.Files != nil {
		next.Files = make([]File, len(u.Files))
		for i, f := range u.Files {
			f.Path = roots.Rewrite(f.Path, enabled)
			next.Files[i] = f
		}
	}
	return next
}

// Matches reports whether the query is a case-insensitive substring of the
// unit's name or description. An empty or blank query matches everything.
func (u Unit) Matches(query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Description), q)
}
