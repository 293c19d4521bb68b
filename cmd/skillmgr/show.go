package main

import (
	"fmt"
	"strings"

	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a skill or slash command",
	Long:  `Show the state, category, files and content of a skill (or slash command with --commands).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		kind := kindFromFlags(cmd)
		catalog := a.manager.Catalog(kind)

		catalog.SelectUnit(args[0])
		u, ok := catalog.SelectedUnit()
		if !ok {
			a.fail(errors.Errorf("%s '%s' not found", kindLabel(kind), args[0]), "Unknown unit")
		}
		category, _ := catalog.CategoryOf(u.Name)

		presenter.Section(u.Name)
		presenter.Info(fmt.Sprintf("Status:      %s", presenter.Status(u.Enabled)))
		presenter.Info(fmt.Sprintf("Category:    %s", category))
		presenter.Info(fmt.Sprintf("Description: %s", u.Description))
		presenter.Info(fmt.Sprintf("Path:        %s", u.Path))
		if len(u.Files) > 0 {
			names := make([]string, 0, len(u.Files))
			for _, f := range u.Files {
				if f.IsDirectory {
					names = append(names, f.Name+"/")
				} else {
					names = append(names, f.Name)
				}
			}
			presenter.Info(fmt.Sprintf("Files:       %s", strings.Join(names, ", ")))
		}
		presenter.Separator()

		content, err := a.workspace.ReadFile(u.Path)
		if err != nil {
			content = u.Content
		}
		fmt.Println(content)
	},
}

func init() {
	addKindFlag(showCmd)
	rootCmd.AddCommand(showCmd)
}
