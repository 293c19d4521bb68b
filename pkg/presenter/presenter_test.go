package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	presenter := New()
	assert.NotNil(t, presenter)
	assert.Equal(t, os.Stdout, presenter.output)
	assert.Equal(t, os.Stderr, presenter.errorOutput)
	assert.False(t, presenter.quiet)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name     string
		noColor  string
		envColor string
		expected ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"SKILLMGR_COLOR always", "", "always", ColorAlways},
		{"SKILLMGR_COLOR force", "", "force", ColorAlways},
		{"SKILLMGR_COLOR never", "", "never", ColorNever},
		{"SKILLMGR_COLOR off", "", "off", ColorNever},
		{"SKILLMGR_COLOR auto", "", "auto", ColorAuto},
		{"default", "", "", ColorAuto},
		{"invalid", "", "rainbow", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLMGR_COLOR", tt.envColor)
			assert.Equal(t, tt.expected, detectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	var errorOutput bytes.Buffer
	presenter := NewWithOptions(nil, &errorOutput, ColorNever)

	err := errors.New("permission denied")
	presenter.Error(err, "failed to disable skill 'pdf'")
	assert.Contains(t, errorOutput.String(), "[ERROR] failed to disable skill 'pdf': permission denied")

	errorOutput.Reset()
	presenter.Error(err, "")
	assert.Equal(t, "[ERROR] permission denied\n", errorOutput.String())

	errorOutput.Reset()
	presenter.Error(nil, "context")
	assert.Empty(t, errorOutput.String())
}

func TestMessages(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Success("Enabled skill pdf")
	presenter.Warning("Category Docs already exists")
	presenter.Info("pdf moved to Docs")

	result := output.String()
	assert.Contains(t, result, "✓ Enabled skill pdf")
	assert.Contains(t, result, "⚠ Category Docs already exists")
	assert.Contains(t, result, "pdf moved to Docs\n")
}

func TestQuietModeSuppressesOutput(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)
	presenter.SetQuiet(true)
	assert.True(t, presenter.IsQuiet())

	presenter.Success("s")
	presenter.Warning("w")
	presenter.Info("i")
	presenter.Section("Docs")
	presenter.Totals("Docs", 1, 2)
	presenter.Separator()

	assert.Empty(t, output.String())

	presenter.SetQuiet(false)
	assert.False(t, presenter.IsQuiet())
}

func TestSection(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.Section("Documents")

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Documents", lines[0])
	assert.Equal(t, strings.Repeat("-", len("Documents")), lines[1])
}

func TestStatusAndTotals(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	assert.Equal(t, "enabled", presenter.Status(true))
	assert.Equal(t, "disabled", presenter.Status(false))

	presenter.Totals("Documents", 2, 3)
	assert.Equal(t, "[Documents] 2/3 enabled\n", output.String())
}

func TestPromptAndConfirm(t *testing.T) {
	var output bytes.Buffer
	presenter := NewWithOptions(&output, nil, ColorNever)

	presenter.SetInput(strings.NewReader("  Docs  \n"))
	assert.Equal(t, "Docs", presenter.Prompt("Category"))
	assert.Contains(t, output.String(), "Category: ")

	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}
	for _, tt := range tests {
		presenter.SetInput(strings.NewReader(tt.input))
		assert.Equal(t, tt.want, presenter.Confirm("Remove category Docs?"), "input %q", tt.input)
	}
	assert.Contains(t, output.String(), "Remove category Docs? [y/N]: ")
}

func TestColorModeConfiguration(t *testing.T) {
	oldNoColor := color.NoColor
	defer func() { color.NoColor = oldNoColor }()

	presenter := NewWithOptions(&bytes.Buffer{}, &bytes.Buffer{}, ColorNever)
	assert.Equal(t, ColorNever, presenter.colorMode)
	assert.True(t, color.NoColor)

	presenter = NewWithOptions(&bytes.Buffer{}, &bytes.Buffer{}, ColorAlways)
	assert.Equal(t, ColorAlways, presenter.colorMode)
	assert.False(t, color.NoColor)
}

func TestGlobalFunctions(t *testing.T) {
	originalPresenter := defaultPresenter
	defer func() { defaultPresenter = originalPresenter }()

	var output, errorOutput bytes.Buffer
	defaultPresenter = NewWithOptions(&output, &errorOutput, ColorNever)
	assert.Same(t, defaultPresenter, Default())

	Error(errors.New("boom"), "reload failed")
	assert.Contains(t, errorOutput.String(), "[ERROR] reload failed: boom")

	Success("saved")
	Warning("careful")
	Info("info")
	Section("Skills")
	Totals("Skills", 0, 1)
	Separator()
	result := output.String()
	assert.Contains(t, result, "✓ saved")
	assert.Contains(t, result, "⚠ careful")
	assert.Contains(t, result, "Skills\n------")
	assert.Contains(t, result, "[Skills] 0/1 enabled")
	assert.Equal(t, "disabled", Status(false))

	SetQuiet(true)
	assert.True(t, IsQuiet())
	output.Reset()
	Info("should not appear")
	assert.Empty(t, output.String())
	SetQuiet(false)
}
