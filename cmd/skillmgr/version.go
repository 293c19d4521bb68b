package main

import (
	"fmt"
	"os"

	"github.com/jingkaihe/skillmgr/pkg/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information of skillmgr in JSON format, or a single line with --short.`,
	Run: func(cmd *cobra.Command, _ []string) {
		info := version.Get()
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Println(info.Short())
			return
		}
		json, err := info.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting version info: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(json)
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version and commit")
	rootCmd.AddCommand(versionCmd)
}
