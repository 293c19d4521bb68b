package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jingkaihe/skillmgr/pkg/manager"
	"github.com/jingkaihe/skillmgr/pkg/units"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ListConfig holds the flags of the list command
type ListConfig struct {
	Category string
	Query    string
	Match    string
	Output   string
}

func NewListConfig() *ListConfig {
	return &ListConfig{Output: "table"}
}

// unitRecord is the list and show representation of a unit
type unitRecord struct {
	Name        string       `json:"name" yaml:"name"`
	Kind        units.Kind   `json:"kind" yaml:"kind"`
	Category    string       `json:"category,omitempty" yaml:"category,omitempty"`
	Enabled     bool         `json:"enabled" yaml:"enabled"`
	Description string       `json:"description" yaml:"description"`
	Path        string       `json:"path" yaml:"path"`
	Files       []units.File `json:"files,omitempty" yaml:"files,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills or slash commands",
	Long: `List skills (or slash commands with --commands) with their state and category.

Examples:
  skillmgr list
  skillmgr list -c Documents
  skillmgr list -q pdf
  skillmgr list --match 'doc*' -o json
  skillmgr list --commands -o yaml`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)
		a := openApp(cmd.Context())
		catalog := a.manager.Catalog(kindFromFlags(cmd))

		list, err := selectUnits(catalog, config)
		if err != nil {
			a.fail(err, "Invalid filter")
		}
		if err := renderUnits(os.Stdout, config.Output, toRecords(catalog, list)); err != nil {
			a.fail(err, "Failed to render output")
		}
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().StringP("category", "c", defaults.Category, "Only list units in this category")
	listCmd.Flags().StringP("query", "q", defaults.Query, "Case-insensitive substring of the name or description")
	listCmd.Flags().String("match", defaults.Match, "Glob pattern the name must match (e.g. 'doc*')")
	listCmd.Flags().StringP("output", "o", defaults.Output, "Output format (table, json or yaml)")
	addKindFlag(listCmd)
	rootCmd.AddCommand(listCmd)
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if category, err := cmd.Flags().GetString("category"); err == nil {
		config.Category = category
	}
	if query, err := cmd.Flags().GetString("query"); err == nil {
		config.Query = query
	}
	if match, err := cmd.Flags().GetString("match"); err == nil {
		config.Match = match
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	return config
}

func selectUnits(catalog *manager.Catalog, config *ListConfig) ([]units.Unit, error) {
	var list []units.Unit
	if config.Category != "" {
		if !hasCategory(catalog, config.Category) {
			return nil, errors.Errorf("category %q not found", config.Category)
		}
		catalog.SelectCategory(config.Category)
		list = catalog.Visible(config.Query)
	} else {
		list = units.Filter(catalog.Units(), config.Query)
	}

	if config.Match == "" {
		return list, nil
	}
	if !doublestar.ValidatePattern(config.Match) {
		return nil, errors.Errorf("invalid glob pattern %q", config.Match)
	}
	matched := make([]units.Unit, 0, len(list))
	for _, u := range list {
		if ok, _ := doublestar.Match(config.Match, u.Name); ok {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func hasCategory(catalog *manager.Catalog, name string) bool {
	for _, c := range catalog.Categories() {
		if c == name {
			return true
		}
	}
	return false
}

func toRecords(catalog *manager.Catalog, list []units.Unit) []unitRecord {
	records := make([]unitRecord, 0, len(list))
	for _, u := range list {
		category, _ := catalog.CategoryOf(u.Name)
		records = append(records, unitRecord{
			Name:        u.Name,
			Kind:        u.Kind,
			Category:    category,
			Enabled:     u.Enabled,
			Description: u.Description,
			Path:        u.Path,
			Files:       u.Files,
		})
	}
	return records
}

func renderUnits(w io.Writer, format string, records []unitRecord) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode json")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return errors.Wrap(err, "failed to encode yaml")
		}
		return enc.Close()
	case "table", "":
		if len(records) == 0 {
			_, err := fmt.Fprintln(w, "No units found")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSTATUS\tCATEGORY\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t------\t--------\t-----------")
		for _, r := range records {
			status := "disabled"
			if r.Enabled {
				status = "enabled"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, status, r.Category, truncate(r.Description, 60))
		}
		return tw.Flush()
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
