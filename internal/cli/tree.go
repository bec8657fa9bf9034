package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"notestore/internal/bootstrap"
	"notestore/internal/service"
)

func NewTreeCmd(store **bootstrap.Store, out *printer) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the whole folder/file tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := (*store).Tree.GetTree(cmd.Context())
			if err != nil {
				return err
			}
			return out.tree(cmd.OutOrStdout(), roots)
		},
	}
}

func NewImportCmd(store **bootstrap.Store, out *printer) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "import <file.yaml|->",
		Short: "Create a nested structure from a YAML or JSON document",
		Long: `Create a nested structure from a YAML or JSON document.

Each entry has a name; entries with children (or folder: true) become
folders, the rest become files with optional content:

  - name: Notes
    children:
      - name: todo.md
        content: "- buy milk"

The import runs in one transaction: if any entry fails, nothing is created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseParent(parent)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			entries, err := service.DecodeEntries(in)
			if err != nil {
				return err
			}

			created, err := (*store).Import.Import(cmd.Context(), parentID, entries)
			if err != nil {
				return err
			}

			if out.isJSON() {
				return out.printJSON(cmd.OutOrStdout(), map[string]int{"created": created})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d nodes\n", created)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent folder id (default: root level)")

	return cmd
}
