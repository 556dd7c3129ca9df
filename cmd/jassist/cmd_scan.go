package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/jassist/assist"
	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/java/parser"
)

func newScanCmd(g *globals) *cobra.Command {
	var jobs int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Probe every statement and expression of the Java files under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			cfg, err := g.loadConfig(filepath.Join(root, config.FileName))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			results, err := runScan(ctx, root, assist.NewProcessor(assist.WithConfig(cfg)), jobs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var probed, offered, failed int
			for _, r := range results {
				if r.err != nil {
					failed++
					fmt.Fprintf(out, "%s: %s\n", r.path, removedColor.Sprint(r.err))
					continue
				}
				probed += r.probed
				offered += r.offered
				fmt.Fprintf(out, "%s: %d/%d positions with assists\n", r.path, r.offered, r.probed)
			}
			fmt.Fprintf(out, "\n=== SCAN COMPLETE ===\n")
			fmt.Fprintf(out, "Files: %d\n", len(results))
			fmt.Fprintf(out, "Positions: %d, with assists: %d\n", probed, offered)
			fmt.Fprintf(out, "Errors: %d\n", failed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files probed in parallel (default: GOMAXPROCS)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "stop scanning after this long")

	return cmd
}

type scanResult struct {
	path    string
	probed  int
	offered int
	err     error
}

// javaFiles lists the .java files under root, skipping hidden directories.
func javaFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func runScan(ctx context.Context, root string, p *assist.Processor, jobs int) ([]scanResult, error) {
	files, err := javaFiles(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine owns its slot
	results := make([]scanResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			results[i] = scanFile(gctx, p, path)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func scanFile(ctx context.Context, p *assist.Processor, path string) scanResult {
	r := scanResult{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		r.err = err
		return r
	}
	tree, err := parser.Parse(data, parser.WithFile(filepath.Base(path)))
	if err != nil {
		r.err = err
		return r
	}

	var positions []int
	ast.Inspect(tree, tree.Root, func(id ast.NodeID) bool {
		if k := tree.Kind(id); k.IsStatement() || k.IsExpression() {
			positions = append(positions, tree.Node(id).Start)
		}
		return true
	})
	for _, off := range positions {
		if ctx.Err() != nil {
			r.err = ctx.Err()
			return r
		}
		r.probed++
		if p.HasAssists(assist.NewContext(tree, off, 0)) {
			r.offered++
		}
	}
	return r
}
