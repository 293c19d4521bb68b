package main

import (
	"context"
	"os"
	"time"

	"github.com/jingkaihe/skillmgr/pkg/manager"
	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/jingkaihe/skillmgr/pkg/units"
	"github.com/jingkaihe/skillmgr/pkg/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const saveRetryDelay = 100 * time.Millisecond

func loadSettings() (workspace.Settings, error) {
	return workspace.SettingsFromMap(viper.AllSettings())
}

type app struct {
	workspace *workspace.Workspace
	manager   *manager.Manager
}

// openApp loads the workspace of the configured project. Failures are
// reported and terminate the process.
func openApp(ctx context.Context) *app {
	settings, err := loadSettings()
	if err != nil {
		presenter.Error(err, "Failed to load settings")
		os.Exit(1)
	}

	ws, err := workspace.New(workspace.WithProjectDir(settings.Project))
	if err != nil {
		presenter.Error(err, "Failed to open project")
		os.Exit(1)
	}

	m := manager.New(ws, manager.WithSaveRetry(settings.Save.Attempts, saveRetryDelay))
	if err := m.Reload(ctx); err != nil {
		presenter.Error(err, "Failed to load "+ws.BaseDir())
		shutdownTracing(ctx)
		os.Exit(1)
	}
	return &app{workspace: ws, manager: m}
}

// exit waits for pending saves and spans, then exits with code
func (a *app) exit(code int) {
	a.manager.Flush()
	shutdownTracing(context.Background())
	os.Exit(code)
}

// fail reports err and exits once pending saves are written
func (a *app) fail(err error, context string) {
	presenter.Error(err, context)
	a.exit(1)
}

func addKindFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("commands", false, "Operate on slash commands instead of skills")
}

func kindFromFlags(cmd *cobra.Command) units.Kind {
	if commands, err := cmd.Flags().GetBool("commands"); err == nil && commands {
		return units.KindSlashCommand
	}
	return units.KindSkill
}

func kindLabel(kind units.Kind) string {
	if kind == units.KindSlashCommand {
		return "slash command"
	}
	return "skill"
}
