package main

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/jingkaihe/skillmgr/pkg/categories"
	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the category configuration",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the reconciled category configuration",
	Run: func(cmd *cobra.Command, _ []string) {
		a := openApp(cmd.Context())
		data, err := a.manager.Config().Encode()
		if err != nil {
			a.fail(err, "Failed to encode configuration")
		}
		fmt.Println(string(data))
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of skill-manager-config.json",
	Run: func(_ *cobra.Command, _ []string) {
		data, err := configSchema()
		if err != nil {
			presenter.Error(err, "Failed to generate schema")
			return
		}
		fmt.Println(string(data))
	},
}

var configSlashCommandsCmd = &cobra.Command{
	Use:   "slash-commands <true|false>",
	Short: "Turn slash command discovery on or off",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		enabled, err := strconv.ParseBool(args[0])
		if err != nil {
			presenter.Error(errors.Errorf("expected true or false, got %q", args[0]), "Invalid value")
			return
		}
		a := openApp(cmd.Context())
		a.manager.SetSlashCommandsEnabled(cmd.Context(), enabled)
		if enabled {
			presenter.Success("Slash commands will be loaded")
		} else {
			presenter.Success("Slash commands will not be loaded")
		}
		a.exit(0)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configSlashCommandsCmd)
	rootCmd.AddCommand(configCmd)
}

var categoryMapType = reflect.TypeOf(categories.Map{})

func configSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t != categoryMapType {
				return nil
			}
			return &jsonschema.Schema{
				Type: "object",
				AdditionalProperties: &jsonschema.Schema{
					Type:  "array",
					Items: &jsonschema.Schema{Type: "string"},
				},
			}
		},
	}
	schema := reflector.Reflect(&categories.File{})
	schema.Title = "skill-manager-config"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode schema")
	}
	return data, nil
}
