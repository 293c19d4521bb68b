package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jingkaihe/skillmgr/pkg/logger"
	"github.com/jingkaihe/skillmgr/pkg/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	viper.SetEnvPrefix("SKILLMGR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	defaults := workspace.DefaultSettings()
	viper.SetDefault("project", defaults.Project)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("log_format", defaults.LogFormat)
	viper.SetDefault("watch.interval", defaults.Watch.Interval)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("save.attempts", defaults.Save.Attempts)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.sampler", defaults.Tracing.Sampler)
	viper.SetDefault("tracing.ratio", defaults.Tracing.Ratio)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillmgr")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillmgr",
	Short: "Organize and toggle Claude skills and slash commands",
	Long: `skillmgr manages the skills and slash commands of a project's .claude directory.

Units are enabled or disabled by moving them between skills/ and disabled-skills/
(or commands/ and disabled-commands/), and grouped into user-defined categories
stored in .claude/skill-manager-config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if err := logger.Configure(settings.LogLevel, settings.LogFormat); err != nil {
			return err
		}
		return initTracing(cmd.Context(), settings.Tracing)
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		shutdownTracing(cmd.Context())
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func main() {
	bindGlobalFlags(rootCmd.PersistentFlags())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bindGlobalFlags registers the global flags and binds them to viper keys
func bindGlobalFlags(flags *pflag.FlagSet) {
	flags.StringP("project", "p", "", "Project directory containing .claude (overrides config)")
	flags.String("log-level", "", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "", "Log format (fmt or json)")
	flags.Bool("tracing-enabled", false, "Enable OpenTelemetry tracing")

	viper.BindPFlag("project", flags.Lookup("project"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("tracing.enabled", flags.Lookup("tracing-enabled"))
}
