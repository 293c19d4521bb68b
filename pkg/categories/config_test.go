package categories

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapJSONKeepsDocumentOrder(t *testing.T) {
	doc := `{"zeta":["a","b"],"alpha":[],"mid":null,"esc\"aped":["x\ty"]}`

	var m Map
	require.NoError(t, json.Unmarshal([]byte(doc), &m))

	assert.Equal(t, []string{"zeta", "alpha", "mid", "esc\"aped"}, m.Keys())
	list, _ := m.Get("esc\"aped")
	assert.Equal(t, []string{"x\ty"}, list)
	list, _ = m.Get("mid")
	assert.Empty(t, list)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":["a","b"],"alpha":[],"mid":[],"esc\"aped":["x\ty"]}`, string(out))
	assert.Equal(t, `{"zeta":["a","b"],"alpha":[],"mid":[],"esc\"aped":["x\ty"]}`, string(out))
}

func TestConfigRoundTripEscapedNames(t *testing.T) {
	tests := []struct {
		name     string
		category string
		unit     string
	}{
		{name: "backslash", category: `Dev\Ops`, unit: `back\slash`},
		{name: "backslash before letter", category: `tab\t`, unit: `new\nline`},
		{name: "quote", category: `say "hi"`, unit: `"quoted"`},
		{name: "unicode escape text", category: `\u00e9`, unit: `\u0041`},
		{name: "non-ascii", category: "Résumé ✓", unit: "日本語"},
		{name: "control characters", category: "tab\tand\nnewline", unit: "bell\a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewConfig()
			config.Skills.Add(DefaultCategory)
			config.Skills.Add(tt.category)
			config.Skills.Categories.Append(tt.category, tt.unit)
			config.Commands.Add(tt.category)

			data, err := config.Encode()
			require.NoError(t, err)

			loaded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, []string{DefaultCategory, tt.category}, loaded.Skills.Categories.Keys())
			assert.Equal(t, []string{DefaultCategory, tt.category}, loaded.Skills.Names())
			list, ok := loaded.Skills.Categories.Get(tt.category)
			require.True(t, ok)
			assert.Equal(t, []string{tt.unit}, list)
			assert.Equal(t, []string{tt.category}, loaded.Commands.Categories.Keys())

			reconciled := loaded.Reconcile([]string{tt.unit}, nil)
			assert.Equal(t, []string{DefaultCategory, tt.category}, reconciled.Skills.Names())
			list, _ = reconciled.Skills.Categories.Get(tt.category)
			assert.Equal(t, []string{tt.unit}, list)
		})
	}
}

func TestMapJSONRejectsNonListValues(t *testing.T) {
	var m Map
	err := json.Unmarshal([]byte(`{"a":"not-a-list"}`), &m)
	assert.Error(t, err)
}

func TestMapRenameAndDeleteKeepIndex(t *testing.T) {
	m := NewMap(Pair{"a", []string{"1"}}, Pair{"b", nil}, Pair{"c", []string{"3"}})

	require.True(t, m.Rename("b", "bee"))
	assert.Equal(t, []string{"a", "bee", "c"}, m.Keys())

	removed, ok := m.Delete("a")
	require.True(t, ok)
	assert.Equal(t, []string{"1"}, removed)

	list, ok := m.Get("c")
	require.True(t, ok)
	assert.Equal(t, []string{"3"}, list)
	assert.True(t, m.Append("bee", "2"))
	assert.False(t, m.Append("a", "1"))
	list, _ = m.Get("bee")
	assert.Equal(t, []string{"2"}, list)
}

func TestMapCloneIsDeep(t *testing.T) {
	m := NewMap(Pair{"a", []string{"1"}})
	c := m.Clone()
	c.Append("a", "2")
	c.Set("b", nil)

	list, _ := m.Get("a")
	assert.Equal(t, []string{"1"}, list)
	assert.False(t, m.Has("b"))
}

func TestDecodeLegacyShape(t *testing.T) {
	c, err := Decode([]byte(`{"categories":{"Uncategorized":["pdf"],"Dev":[]}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Uncategorized", "Dev"}, c.Skills.Categories.Keys())
	assert.Nil(t, c.Skills.Order)
	assert.Equal(t, []string{"Uncategorized", "Dev"}, c.Skills.Names())
	assert.True(t, c.SlashCommandsEnabled())
	assert.Equal(t, 0, c.Commands.Categories.Len())
}

func TestDecodeFullShape(t *testing.T) {
	doc := `{
  "categories": {"A": ["s1"], "B": []},
  "categoryOrder": ["B", "A"],
  "loadSlashCommands": false,
  "commandCategories": {"Git": ["commit"]},
  "commandCategoryOrder": ["Git"]
}`
	c, err := Decode([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A"}, c.Skills.Order)
	assert.False(t, c.SlashCommandsEnabled())
	list, ok := c.Commands.Categories.Get("Git")
	require.True(t, ok)
	assert.Equal(t, []string{"commit"}, list)

	encoded, err := c.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(encoded))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte(`{"categories": [1, 2]}`))
	assert.Error(t, err)
}

func TestDefaultConfigSeedsEverySection(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, []string{DefaultCategory}, c.Skills.Order)
	assert.Equal(t, []string{DefaultCategory}, c.Commands.Order)
	assert.False(t, c.Seed(), "seeding twice changes nothing")
}

func TestConfigCloneIsDeep(t *testing.T) {
	off := false
	c := DefaultConfig()
	c.LoadSlashCommands = &off

	clone := c.Clone()
	clone.Skills.Add("More")
	*clone.LoadSlashCommands = true

	assert.Equal(t, []string{DefaultCategory}, c.Skills.Order)
	assert.False(t, c.Skills.Categories.Has("More"))
	assert.False(t, c.SlashCommandsEnabled())
}
