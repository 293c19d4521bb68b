package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/jingkaihe/skillmgr/pkg/logger"
	"github.com/jingkaihe/skillmgr/pkg/manager"
	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/jingkaihe/skillmgr/pkg/watcher"
	"github.com/jingkaihe/skillmgr/pkg/workspace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// WatchConfig holds the flags of the watch command
type WatchConfig struct {
	Interval time.Duration
	Debounce time.Duration
	Quiet    bool
}

func NewWatchConfig(settings workspace.Settings) *WatchConfig {
	return &WatchConfig{
		Interval: settings.Watch.Interval,
		Debounce: settings.Watch.Debounce,
	}
}

// Validate checks the watch configuration
func (c *WatchConfig) Validate() error {
	if c.Interval < 0 {
		return errors.Errorf("interval cannot be negative: %s", c.Interval)
	}
	if c.Debounce < 0 {
		return errors.Errorf("debounce cannot be negative: %s", c.Debounce)
	}
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the workspace whenever it changes on disk",
	Long: `Watch the .claude directory and reload skills, slash commands and categories
when files change, and additionally every --interval. Category totals are
printed after each reload.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getWatchConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid watch configuration")
			return
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a := openApp(ctx)
		if config.Quiet {
			presenter.SetQuiet(true)
		}
		printTotals(a.manager)

		w := watcher.New(a.manager.Reload,
			watcher.WithPaths(a.workspace.WatchPaths()...),
			watcher.WithDebounce(config.Debounce),
			watcher.WithInterval(config.Interval),
			watcher.WithReloadHook(func(event watcher.Event, err error) {
				if err != nil {
					presenter.Error(err, "Reload failed")
					return
				}
				if event.Path != "" {
					presenter.Info(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))
				}
				printTotals(a.manager)
			}),
		)

		presenter.Info("Watching for changes... Press Ctrl+C to stop")
		if err := w.Run(ctx); err != nil {
			logger.G(ctx).WithError(err).Error("watcher stopped")
			presenter.Error(err, "Watcher stopped")
		}
		a.manager.Flush()
	},
}

func init() {
	defaults := NewWatchConfig(workspace.DefaultSettings())
	watchCmd.Flags().Duration("interval", defaults.Interval, "Reload every interval in addition to file changes (0 disables)")
	watchCmd.Flags().Duration("debounce", defaults.Debounce, "Wait for changes to settle before reloading")
	watchCmd.Flags().BoolP("quiet", "q", defaults.Quiet, "Only report errors")
	rootCmd.AddCommand(watchCmd)
}

// getWatchConfigFromFlags starts from the settings file and environment;
// flags win only when given explicitly.
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	settings, err := loadSettings()
	if err != nil {
		settings = workspace.DefaultSettings()
	}
	config := NewWatchConfig(settings)
	if interval, err := cmd.Flags().GetDuration("interval"); err == nil && cmd.Flags().Changed("interval") {
		config.Interval = interval
	}
	if debounce, err := cmd.Flags().GetDuration("debounce"); err == nil && cmd.Flags().Changed("debounce") {
		config.Debounce = debounce
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		config.Quiet = quiet
	}
	return config
}

func printTotals(m *manager.Manager) {
	total, enabled := m.Skills().Totals()
	presenter.Totals("skills", enabled, total)
	if m.SlashCommandsEnabled() {
		total, enabled = m.Commands().Totals()
		presenter.Totals("commands", enabled, total)
	}
}
