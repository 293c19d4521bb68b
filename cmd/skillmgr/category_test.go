package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPermutation(t *testing.T) {
	existing := []string{"Docs", "Code", "Ops"}

	assert.NoError(t, checkPermutation(existing, []string{"Ops", "Docs", "Code"}))
	assert.Error(t, checkPermutation(existing, []string{"Ops", "Docs"}))
	assert.Error(t, checkPermutation(existing, []string{"Ops", "Docs", "Docs"}))
	assert.Error(t, checkPermutation(existing, []string{"Ops", "Docs", "Misc"}))
	assert.Equal(t, []string{"Docs", "Code", "Ops"}, existing)
}

func TestWithin(t *testing.T) {
	base := filepath.Join(t.TempDir(), "pdf")

	path, err := within(base, "scripts")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "scripts"), path)

	path, err = within(base, "scripts/../refs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "refs"), path)

	_, err = within(base, "../other")
	assert.Error(t, err)
	_, err = within(base, "..")
	assert.Error(t, err)
}

func TestConfigSchema(t *testing.T) {
	data, err := configSchema()
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "skill-manager-config", schema["title"])
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []interface{}{"categories"}, schema["required"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"categories", "categoryOrder", "loadSlashCommands", "commandCategories", "commandCategoryOrder"} {
		assert.Contains(t, props, key)
	}

	categories, ok := props["categories"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "object", categories["type"])
	items, ok := categories["additionalProperties"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "array", items["type"])

	order, ok := props["categoryOrder"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "array", order["type"])
}
