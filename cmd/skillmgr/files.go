package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jingkaihe/skillmgr/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files <skill> [subdir]",
	Short: "List the files of a skill directory",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		u, ok := a.manager.Skills().Lookup(args[0])
		if !ok {
			a.fail(errors.Errorf("skill '%s' not found", args[0]), "Unknown unit")
		}

		dir := filepath.Dir(u.Path)
		if len(args) == 2 {
			sub, err := within(dir, args[1])
			if err != nil {
				a.fail(err, "Invalid directory")
			}
			dir = sub
		}

		files, err := a.workspace.ListDirectory(dir)
		if err != nil {
			a.fail(err, "Failed to list files")
		}
		for _, f := range files {
			if f.IsDirectory {
				fmt.Println(f.Name + "/")
			} else {
				fmt.Println(f.Name)
			}
		}
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Replace the content of a skill or slash command",
	Long: `Replace the SKILL.md of a skill (or the markdown file of a slash command with
--commands) with the content of a file, or of stdin when --file is "-".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp(cmd.Context())
		kind := kindFromFlags(cmd)
		u, ok := a.manager.Catalog(kind).Lookup(args[0])
		if !ok {
			a.fail(errors.Errorf("%s '%s' not found", kindLabel(kind), args[0]), "Unknown unit")
		}

		source, _ := cmd.Flags().GetString("file")
		content, err := readSource(source)
		if err != nil {
			a.fail(err, "Failed to read new content")
		}
		if err := a.workspace.WriteFile(u.Path, content); err != nil {
			a.fail(err, "Failed to write "+u.Path)
		}
		presenter.Success(fmt.Sprintf("Updated %s", u.Path))
	},
}

func init() {
	editCmd.Flags().StringP("file", "f", "-", "File holding the new content (- for stdin)")
	addKindFlag(editCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(editCmd)
}

func readSource(source string) (string, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" || source == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read content")
	}
	return string(data), nil
}

// within resolves rel against base and rejects paths escaping base
func within(base, rel string) (string, error) {
	path := filepath.Join(base, rel)
	r, err := filepath.Rel(base, path)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%s is outside %s", rel, base)
	}
	return path, nil
}
