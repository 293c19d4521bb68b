package main

import (
	"fmt"
	"sort"

	"github.com/jingkaihe/skillmgr/pkg/manager"
	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
	Long:  `Add, rename, remove and reorder categories, assign units to them and toggle whole categories.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <category>",
	Short: "Add an empty category at the end of the order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		if !a.manager.Catalog(kindFromFlags(cmd)).AddCategory(cmd.Context(), args[0]) {
			presenter.Warning(fmt.Sprintf("Category '%s' already exists or is invalid", args[0]))
			a.exit(0)
		}
		presenter.Success(fmt.Sprintf("Added category '%s'", args[0]))
		a.exit(0)
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a category, keeping its position",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		if !a.manager.Catalog(kindFromFlags(cmd)).RenameCategory(cmd.Context(), args[0], args[1]) {
			presenter.Warning(fmt.Sprintf("Category '%s' was not renamed", args[0]))
			a.exit(0)
		}
		presenter.Success(fmt.Sprintf("Renamed category '%s' to '%s'", args[0], args[1]))
		a.exit(0)
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:   "remove <category>",
	Short: "Remove a category, moving its units to the first remaining category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		catalog := a.manager.Catalog(kindFromFlags(cmd))
		name := args[0]

		if !hasCategory(catalog, name) {
			a.fail(errors.Errorf("category %q not found", name), "Unknown category")
		}
		if len(catalog.Categories()) <= 1 {
			presenter.Warning("The last category cannot be removed")
			a.exit(0)
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !presenter.Confirm(fmt.Sprintf("Remove category '%s'?", name)) {
				presenter.Info("Aborted")
				a.exit(0)
			}
		}

		catalog.RemoveCategory(cmd.Context(), name)
		presenter.Success(fmt.Sprintf("Removed category '%s'", name))
		a.exit(0)
	},
}

var categoryReorderCmd = &cobra.Command{
	Use:   "reorder <category>...",
	Short: "Set the display order of all categories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		catalog := a.manager.Catalog(kindFromFlags(cmd))
		if err := checkPermutation(catalog.Categories(), args); err != nil {
			a.fail(err, "Invalid order")
		}
		catalog.ReorderCategories(cmd.Context(), args)
		presenter.Success("Categories reordered")
		a.exit(0)
	},
}

var categoryMoveCmd = &cobra.Command{
	Use:   "move <unit> <category>",
	Short: "Move a unit to a category",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		kind := kindFromFlags(cmd)
		catalog := a.manager.Catalog(kind)
		if _, ok := catalog.Lookup(args[0]); !ok {
			a.fail(errors.Errorf("%s '%s' not found", kindLabel(kind), args[0]), "Unknown unit")
		}
		if !hasCategory(catalog, args[1]) {
			a.fail(errors.Errorf("category %q not found", args[1]), "Unknown category")
		}
		catalog.MoveToCategory(cmd.Context(), args[0], args[1])
		presenter.Success(fmt.Sprintf("Moved '%s' to '%s'", args[0], args[1]))
		a.exit(0)
	},
}

var categoryEnableAllCmd = &cobra.Command{
	Use:   "enable-all <category>",
	Short: "Enable every unit of a category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setCategoryEnabledCmd(cmd, args[0], true)
	},
}

var categoryDisableAllCmd = &cobra.Command{
	Use:   "disable-all <category>",
	Short: "Disable every unit of a category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setCategoryEnabledCmd(cmd, args[0], false)
	},
}

func init() {
	categoryRemoveCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	for _, c := range []*cobra.Command{
		categoryAddCmd,
		categoryRenameCmd,
		categoryRemoveCmd,
		categoryReorderCmd,
		categoryMoveCmd,
		categoryEnableAllCmd,
		categoryDisableAllCmd,
	} {
		addKindFlag(c)
		categoryCmd.AddCommand(c)
	}
	rootCmd.AddCommand(categoryCmd)
}

func setCategoryEnabledCmd(cmd *cobra.Command, category string, enabled bool) {
	a := openApp(cmd.Context())
	catalog := a.manager.Catalog(kindFromFlags(cmd))
	if !hasCategory(catalog, category) {
		a.fail(errors.Errorf("category %q not found", category), "Unknown category")
	}

	catalog.SelectCategory(category)
	err := toggleSelected(cmd, catalog, enabled)

	counts := catalog.EnabledCounts()
	total := catalog.Counts()
	presenter.Totals(category, counts[category], total[category])
	if err != nil {
		a.fail(err, "Some units could not be moved")
	}
	a.exit(0)
}

func toggleSelected(cmd *cobra.Command, catalog *manager.Catalog, enabled bool) error {
	if enabled {
		return catalog.EnableAllInCategory(cmd.Context())
	}
	return catalog.DisableAllInCategory(cmd.Context())
}

// checkPermutation reports an error unless order holds each existing
// category exactly once
func checkPermutation(existing, order []string) error {
	if len(existing) != len(order) {
		return errors.Errorf("expected %d categories, got %d", len(existing), len(order))
	}
	a := append([]string(nil), existing...)
	b := append([]string(nil), order...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return errors.Errorf("order must list each category exactly once: %v", existing)
		}
	}
	return nil
}
