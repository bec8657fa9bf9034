package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"notestore/internal/bootstrap"
	"notestore/internal/domain/models"
	"notestore/internal/domain/services"
)

func NewLsCmd(store **bootstrap.Store, out *printer) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [parent]",
		Short: "List the children of a folder (default: root level)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var parentArg string
			if len(args) == 1 {
				parentArg = args[0]
			}
			parentID, err := parseParent(parentArg)
			if err != nil {
				return err
			}

			children, err := (*store).Nodes.ListChildren(cmd.Context(), parentID)
			if err != nil {
				return err
			}
			return out.children(cmd.OutOrStdout(), children)
		},
	}
}

func NewCatCmd(store **bootstrap.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <id>",
		Short: "Print the content of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseNodeID(args[0])
			if err != nil {
				return err
			}

			content, err := (*store).Nodes.Read(cmd.Context(), id)
			if err != nil {
				return err
			}
			if content == nil {
				return fmt.Errorf("node %d is not a file", id)
			}

			_, err = io.WriteString(cmd.OutOrStdout(), *content)
			return err
		},
	}
}

func NewWriteCmd(store **bootstrap.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "write <id> [content|-]",
		Short: "Replace the content of a file",
		Long: `Replace the content of a file.

The content is taken from the second argument, or read from stdin when the
argument is "-" or omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseNodeID(args[0])
			if err != nil {
				return err
			}

			var content string
			if len(args) == 2 && args[1] != "-" {
				content = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(data)
			}

			return (*store).Nodes.Write(cmd.Context(), id, content)
		},
	}
}

func NewTouchCmd(store **bootstrap.Store, out *printer) *cobra.Command {
	var (
		parent  string
		content string
		mime    string
	)

	cmd := &cobra.Command{
		Use:   "touch <name>",
		Short: "Create a file and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseParent(parent)
			if err != nil {
				return err
			}

			req := &services.CreateNodeRequest{
				ParentID: parentID,
				Name:     args[0],
				Mime:     mime,
			}
			if cmd.Flags().Changed("content") {
				req.Content = &content
			}

			id, err := (*store).Nodes.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return out.id(cmd.OutOrStdout(), id)
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent folder id (default: root level)")
	cmd.Flags().StringVarP(&content, "content", "c", "", "initial content")
	cmd.Flags().StringVar(&mime, "mime", "", "content type (default: inferred from name)")

	return cmd
}

func NewMkdirCmd(store **bootstrap.Store, out *printer) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parentID, err := parseParent(parent)
			if err != nil {
				return err
			}

			id, err := (*store).Nodes.CreateFolder(cmd.Context(), &services.CreateNodeRequest{
				ParentID: parentID,
				Name:     args[0],
			})
			if err != nil {
				return err
			}
			return out.id(cmd.OutOrStdout(), id)
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent folder id (default: root level)")

	return cmd
}

func NewRmCmd(store **bootstrap.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete nodes and everything beneath them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]models.NodeID, 0, len(args))
			for _, arg := range args {
				id, err := models.ParseNodeID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			for _, id := range ids {
				if err := (*store).Nodes.Delete(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func NewMvCmd(store **bootstrap.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <parent|root>",
		Short: "Move a node under another folder or to the root level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseNodeID(args[0])
			if err != nil {
				return err
			}
			parentID, err := parseParent(args[1])
			if err != nil {
				return err
			}

			return (*store).Nodes.Move(cmd.Context(), id, parentID)
		},
	}
}

func NewStatCmd(store **bootstrap.Store, out *printer) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <id>",
		Short: "Show a node's metadata and path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseNodeID(args[0])
			if err != nil {
				return err
			}

			node, err := (*store).Nodes.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if out.isJSON() {
				// Keep stat output small; cat prints content
				node.Content = nil
			}
			return out.node(cmd.OutOrStdout(), node)
		},
	}
}

func NewRenameCmd(store **bootstrap.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a node",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := models.ParseNodeID(args[0])
			if err != nil {
				return err
			}

			return (*store).Nodes.Rename(cmd.Context(), id, strings.Join(args[1:], " "))
		},
	}
}
