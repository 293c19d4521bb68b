package workspace

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jingkaihe/skillmgr/pkg/telemetry"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings holds the tool settings read from config.yaml and the
// environment
type Settings struct {
	Project   string           `mapstructure:"project" yaml:"project,omitempty" json:"project,omitempty"`
	LogLevel  string           `mapstructure:"log_level" yaml:"log_level,omitempty" json:"log_level,omitempty"`
	LogFormat string           `mapstructure:"log_format" yaml:"log_format,omitempty" json:"log_format,omitempty"`
	Watch     WatchSettings    `mapstructure:"watch" yaml:"watch" json:"watch"`
	Save      SaveSettings     `mapstructure:"save" yaml:"save" json:"save"`
	Tracing   telemetry.Config `mapstructure:"tracing" yaml:"tracing" json:"tracing"`
}

// WatchSettings configures the reload loop of the watch command
type WatchSettings struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval" json:"interval"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// SaveSettings configures configuration persistence
type SaveSettings struct {
	Attempts uint `mapstructure:"attempts" yaml:"attempts" json:"attempts"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		Project:   ".",
		LogLevel:  "warn",
		LogFormat: "fmt",
		Watch: WatchSettings{
			Interval: 30 * time.Second,
			Debounce: 500 * time.Millisecond,
		},
		Save: SaveSettings{Attempts: 3},
		Tracing: telemetry.Config{
			Sampler: "ratio",
			Ratio:   1,
		},
	}
}

// SettingsFromMap decodes raw settings (as returned by viper.AllSettings)
// on top of the defaults. Durations accept strings such as "30s".
func SettingsFromMap(raw map[string]interface{}) (Settings, error) {
	settings := DefaultSettings()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &settings,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return settings, errors.Wrap(err, "failed to create settings decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return settings, errors.Wrap(err, "failed to decode settings")
	}
	if settings.Project == "" {
		settings.Project = "."
	}
	return settings, nil
}

// SaveProject records the project directory in the YAML settings file at
// path, keeping every other key in place.
func SaveProject(path, project string) error {
	doc := map[string]interface{}{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, "failed to parse %s", path)
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
	case !os.IsNotExist(err):
		return errors.Wrapf(err, "failed to read %s", path)
	}

	abs, err := filepath.Abs(project)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve project directory %s", project)
	}
	doc["project"] = abs

	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to encode settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create settings directory")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
