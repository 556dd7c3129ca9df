package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jassist/format"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/java/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var expression bool
	var maxErrors int

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .java file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			opts := []parser.Option{parser.WithFile(filepath.Base(filename))}
			if maxErrors > 0 {
				opts = append(opts, parser.WithMaxErrors(maxErrors))
			}
			var tree *ast.Tree
			if expression {
				tree, err = parser.ParseExpression(data, opts...)
			} else {
				tree, err = parser.Parse(data, opts...)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				if err := format.NewASTJSONEncoder(out).Encode(tree, tree.Root); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "tree":
				fmt.Fprint(out, ast.Snapshot(tree))
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")
	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "parse the file as a single expression")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 0, "report at most this many syntax errors (default: 100)")

	return cmd
}
