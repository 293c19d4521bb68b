package main

import (
	"fmt"

	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <name>...",
	Short: "Enable skills or slash commands",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setEnabledCmd(cmd, args, true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <name>...",
	Short: "Disable skills or slash commands",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setEnabledCmd(cmd, args, false)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <name>...",
	Short: "Flip the enabled state of skills or slash commands",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		kind := kindFromFlags(cmd)
		catalog := a.manager.Catalog(kind)

		failed := false
		for _, name := range args {
			if _, ok := catalog.Lookup(name); !ok {
				presenter.Warning(fmt.Sprintf("%s '%s' not found", kindLabel(kind), name))
				continue
			}
			if err := catalog.Toggle(cmd.Context(), name); err != nil {
				presenter.Error(err, "")
				failed = true
				continue
			}
			u, _ := catalog.Lookup(name)
			presenter.Success(fmt.Sprintf("%s '%s' is now %s", kindLabel(kind), name, presenter.Status(u.Enabled)))
		}
		if failed {
			a.exit(1)
		}
		a.exit(0)
	},
}

func init() {
	for _, c := range []*cobra.Command{enableCmd, disableCmd, toggleCmd} {
		addKindFlag(c)
		rootCmd.AddCommand(c)
	}
}

func setEnabledCmd(cmd *cobra.Command, args []string, enabled bool) {
	a := openApp(cmd.Context())
	kind := kindFromFlags(cmd)
	catalog := a.manager.Catalog(kind)

	state := "disabled"
	if enabled {
		state = "enabled"
	}

	failed := false
	for _, name := range args {
		u, ok := catalog.Lookup(name)
		switch {
		case !ok:
			presenter.Warning(fmt.Sprintf("%s '%s' not found", kindLabel(kind), name))
			continue
		case u.Enabled == enabled:
			presenter.Info(fmt.Sprintf("%s '%s' is already %s", kindLabel(kind), name, state))
			continue
		}
		if err := catalog.SetEnabled(cmd.Context(), name, enabled); err != nil {
			presenter.Error(err, "")
			failed = true
			continue
		}
		presenter.Success(fmt.Sprintf("%s '%s' %s", kindLabel(kind), name, state))
	}
	if failed {
		a.exit(1)
	}
	a.exit(0)
}
