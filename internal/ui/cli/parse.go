package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mjson5/internal/engine/syntax"
)

func (s *session) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [files...]",
		Short: "Print the syntax tree of templates",
		Long: `Print the S-expression syntax tree of each file, or of stdin when no
file is given. Exits 1 when a tree contains ERROR or MISSING nodes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.newApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				tree, err := app.ParseSource(cmd.Context(), src)
				if err != nil {
					return err
				}
				return s.printTree(cmd, "<stdin>", tree)
			}

			failed := false
			for i, path := range args {
				tree, err := app.Parse(cmd.Context(), path)
				if err != nil {
					return err
				}
				if len(args) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, mutedStyle.Render(path))
				}
				if err := s.printTree(cmd, path, tree); err != nil {
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
}

func (s *session) printTree(cmd *cobra.Command, name string, tree *syntax.Tree) error {
	fmt.Fprintln(cmd.OutOrStdout(), tree.String())
	if !tree.HasError() {
		return nil
	}
	for _, n := range tree.Errors() {
		label := "ERROR"
		if n.IsMissing() {
			label = "MISSING " + n.Kind()
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s:%d:%d: %s\n", failedStyle.Render(markFail), name, n.Start.Row+1, n.Start.Column+1, label)
	}
	return errReported
}
