package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	indexColor     = color.New(color.FgYellow, color.Bold)
	relevanceColor = color.New(color.FgCyan)
	addedColor     = color.New(color.FgGreen)
	removedColor   = color.New(color.FgRed)
	hunkColor      = color.New(color.FgMagenta)
)

func newAssistsCmd(g *globals) *cobra.Command {
	var sel selection
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "assists <file>",
		Short: "List the quick assists available at a selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := g.newRequest(args[0], sel)
			if err != nil {
				return err
			}
			props, err := req.processor.Assists(req.context, req.problems)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(req.problems) > 0 {
				fmt.Fprintf(out, "%s has %d syntax errors, no assists offered\n", args[0], len(req.problems))
				return nil
			}
			for i, p := range props {
				fmt.Fprintf(out, "%s %s %s\n",
					indexColor.Sprintf("%3d", i),
					relevanceColor.Sprintf("[%2d]", p.Relevance()),
					p.Label())
				if !showDiff {
					continue
				}
				diff, err := p.PreviewDiff(req.doc)
				if err != nil {
					fmt.Fprintf(out, "    %v\n", err)
					continue
				}
				printDiff(out, diff)
			}
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "show the change of every proposal as a unified diff")

	return cmd
}

func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			addedColor.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			removedColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
