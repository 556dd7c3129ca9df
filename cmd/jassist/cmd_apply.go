package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newApplyCmd(g *globals) *cobra.Command {
	var sel selection
	var index int
	var write bool

	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Apply one quick assist and print or write the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			req, err := g.newRequest(path, sel)
			if err != nil {
				return err
			}
			props, err := req.processor.Assists(req.context, req.problems)
			if err != nil {
				return err
			}
			if index < 0 || index >= len(props) {
				return fmt.Errorf("no assist %d at %s:%d (%d available)", index, path, sel.offset, len(props))
			}
			p := props[index]
			model, err := p.Apply(req.doc)
			if err != nil {
				return err
			}

			if write {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, []byte(req.doc.Content()), info.Mode().Perm()); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), req.doc.Content())
			}

			errOut := cmd.ErrOrStderr()
			for _, group := range model.Groups() {
				var regions []string
				for _, r := range group.Regions {
					mark := ""
					if r.First {
						mark = "*"
					}
					regions = append(regions, fmt.Sprintf("%d+%d%s", r.Offset, r.Length, mark))
				}
				fmt.Fprintf(errOut, "linked %s: %s", group.ID, strings.Join(regions, " "))
				if len(group.Candidates) > 0 {
					fmt.Fprintf(errOut, " (%s)", strings.Join(group.Candidates, ", "))
				}
				fmt.Fprintln(errOut)
			}
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().IntVarP(&index, "index", "i", 0, "index of the assist as listed by `jassist assists`")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")

	return cmd
}
