package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoots = Roots{
	Enabled:  "/proj/.claude/skills",
	Disabled: "/proj/.claude/disabled-skills",
}

func testSkill(name string, enabled bool) Unit {
	root := testRoots.RootFor(enabled)
	return Unit{
		Kind:        KindSkill,
		Name:        name,
		Description: "Description of " + name,
		Path:        root + "/" + name + "/SKILL.md",
		Enabled:     enabled,
		Files: []File{
			{Name: "scripts", Path: root + "/" + name + "/scripts", IsDirectory: true},
			{Name: "README.md", Path: root + "/" + name + "/README.md"},
		},
	}
}

func TestRootsRewrite(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		enabled bool
		want    string
	}{
		{"disable", "/proj/.claude/skills/pdf/SKILL.md", false, "/proj/.claude/disabled-skills/pdf/SKILL.md"},
		{"enable", "/proj/.claude/disabled-skills/pdf/SKILL.md", true, "/proj/.claude/skills/pdf/SKILL.md"},
		{"already enabled", "/proj/.claude/skills/pdf/SKILL.md", true, "/proj/.claude/skills/pdf/SKILL.md"},
		{"outside roots", "/elsewhere/skills/pdf/SKILL.md", false, "/elsewhere/skills/pdf/SKILL.md"},
		{"root itself", "/proj/.claude/skills", false, "/proj/.claude/disabled-skills"},
		{"sibling prefix", "/proj/.claude/skills-extra/pdf", false, "/proj/.claude/skills-extra/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testRoots.Rewrite(tt.path, tt.enabled))
		})
	}
}

func TestRootsRewriteOnlyTouchesRootPrefix(t *testing.T) {
	roots := Roots{Enabled: "/home/u/skills/p/.claude/skills", Disabled: "/home/u/skills/p/.claude/disabled-skills"}
	got := roots.Rewrite("/home/u/skills/p/.claude/skills/x/SKILL.md", false)
	assert.Equal(t, "/home/u/skills/p/.claude/disabled-skills/x/SKILL.md", got)
}

func TestRootsRewriteWithoutRoots(t *testing.T) {
	assert.Equal(t, "/a/b", Roots{}.Rewrite("/a/b", true))
}

func TestWithEnabledRoundTrip(t *testing.T) {
	original := testSkill("pdf", true)

	disabled := original.WithEnabled(false, testRoots)
	assert.False(t, disabled.Enabled)
	assert.Equal(t, "/proj/.claude/disabled-skills/pdf/SKILL.md", disabled.Path)
	for _, f := range disabled.Files {
		assert.Contains(t, f.Path, "/disabled-skills/pdf/")
	}
	// The original value must not be mutated through the shared slice.
	assert.Equal(t, "/proj/.claude/skills/pdf/scripts", original.Files[0].Path)

	restored := disabled.WithEnabled(true, testRoots)
	assert.Equal(t, original, restored)
}

func TestMatches(t *testing.T) {
	u := Unit{Name: "PDF-Tools", Description: "Extract text from documents"}

	assert.True(t, u.Matches(""))
	assert.True(t, u.Matches("   "))
	assert.True(t, u.Matches("pdf"))
	assert.True(t, u.Matches("EXTRACT"))
	assert.False(t, u.Matches("excel"))
}

func TestStore(t *testing.T) {
	s := NewStore(KindSkill, testRoots)
	s.Replace([]Unit{testSkill("a", true), testSkill("b", false), testSkill("a", false), testSkill("c", true)})

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())

	a, ok := s.Lookup("a")
	require.True(t, ok)
	assert.True(t, a.Enabled, "first occurrence wins")

	t.Run("set enabled ignores unknown names", func(t *testing.T) {
		applied := s.SetEnabled([]string{"b", "ghost"}, true)
		assert.Equal(t, []string{"b"}, applied)
		b, _ := s.Lookup("b")
		assert.True(t, b.Enabled)
		assert.Equal(t, "/proj/.claude/skills/b/SKILL.md", b.Path)
	})

	t.Run("counts exclude dangling names", func(t *testing.T) {
		s.SetEnabled([]string{"c"}, false)
		total, enabled := s.CountExisting([]string{"a", "c", "ghost"})
		assert.Equal(t, 2, total)
		assert.Equal(t, 1, enabled)
	})

	t.Run("pick keeps store order", func(t *testing.T) {
		picked := s.Pick([]string{"c", "ghost", "a"})
		require.Len(t, picked, 2)
		assert.Equal(t, "a", picked[0].Name)
		assert.Equal(t, "c", picked[1].Name)
	})

	t.Run("delete reindexes", func(t *testing.T) {
		assert.True(t, s.Delete("a"))
		assert.False(t, s.Delete("a"))
		c, ok := s.Lookup("c")
		require.True(t, ok)
		assert.Equal(t, "c", c.Name)
		assert.Equal(t, []string{"b", "c"}, s.Names())
	})
}

func TestFilter(t *testing.T) {
	list := []Unit{
		{Name: "git-commit", Description: "Write commit messages"},
		{Name: "pdf", Description: "Work with PDF files"},
	}

	assert.Len(t, Filter(list, ""), 2)
	got := Filter(list, "COMMIT")
	require.Len(t, got, 1)
	assert.Equal(t, "git-commit", got[0].Name)
	assert.Empty(t, Filter(list, "nothing"))
}
