package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/jingkaihe/skillmgr/pkg/workspace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Show or set the project directory",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var projectGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the project directory and its .claude base directory",
	Run: func(_ *cobra.Command, _ []string) {
		settings, err := loadSettings()
		if err != nil {
			presenter.Error(err, "Failed to load settings")
			os.Exit(1)
		}
		ws, err := workspace.New(workspace.WithProjectDir(settings.Project))
		if err != nil {
			presenter.Error(err, "Failed to resolve project")
			os.Exit(1)
		}
		fmt.Println(filepath.Dir(ws.BaseDir()))
		presenter.Info(fmt.Sprintf("Base directory: %s", ws.BaseDir()))
	},
}

var projectSetCmd = &cobra.Command{
	Use:   "set <dir>",
	Short: "Remember the project directory in the settings file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		info, err := os.Stat(args[0])
		if err != nil || !info.IsDir() {
			presenter.Error(errors.Errorf("%s is not a directory", args[0]), "Invalid project")
			os.Exit(1)
		}

		path, err := settingsFile()
		if err != nil {
			presenter.Error(err, "Failed to locate settings file")
			os.Exit(1)
		}
		if err := workspace.SaveProject(path, args[0]); err != nil {
			presenter.Error(err, "Failed to save settings")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Project set to %s in %s", args[0], path))
	},
}

func init() {
	projectCmd.AddCommand(projectGetCmd)
	projectCmd.AddCommand(projectSetCmd)
	rootCmd.AddCommand(projectCmd)
}

// settingsFile returns the loaded config file, or ~/.skillmgr/config.yaml
func settingsFile() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(home, ".skillmgr", "config.yaml"), nil
}
