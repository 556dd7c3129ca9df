package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jassist/assist"
	"github.com/dhamidi/jassist/config"
	"github.com/dhamidi/jassist/java/ast"
	"github.com/dhamidi/jassist/java/parser"
	"github.com/dhamidi/jassist/text"
)

const version = "0.1.0"

// globals are the flags shared by every command.
type globals struct {
	verbose    int
	configPath string
	noColor    bool
}

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "jassist",
		Short:         "Quick assists for Java sources",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(g.verbose, nil)
			if g.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "log more (repeatable)")
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "configuration file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable coloured output")

	rootCmd.AddCommand(newAssistsCmd(g))
	rootCmd.AddCommand(newApplyCmd(g))
	rootCmd.AddCommand(newScanCmd(g))
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newParseCmd())

	return rootCmd
}

// loadConfig reads the --config file or the one nearest to near.
func (g *globals) loadConfig(near string) (*config.Config, error) {
	if g.configPath != "" {
		return config.Load(g.configPath)
	}
	return config.Find(filepath.Dir(near))
}

// request is an assist request read from the command line.
type request struct {
	doc       *text.Document
	tree      *ast.Tree
	processor *assist.Processor
	context   *assist.Context
	problems  []assist.ProblemLocation
}

type selection struct {
	offset int
	length int
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&s.offset, "offset", "o", 0, "byte offset of the selection")
	cmd.Flags().IntVarP(&s.length, "length", "l", 0, "byte length of the selection (0 for a caret)")
	cmd.MarkFlagRequired("offset")
}

func (g *globals) newRequest(path string, sel selection) (*request, error) {
	cfg, err := g.loadConfig(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read java file: %w", err)
	}
	if sel.offset < 0 || sel.offset+sel.length > len(data) {
		return nil, fmt.Errorf("selection %d+%d outside %s (%d bytes)", sel.offset, sel.length, path, len(data))
	}

	tree, perr := parser.Parse(data, parser.WithFile(filepath.Base(path)))
	var problems []assist.ProblemLocation
	if list, ok := perr.(parser.ErrorList); ok {
		for _, e := range list {
			problems = append(problems, assist.ProblemLocation{Offset: e.Offset, IsError: true, Arguments: []string{e.Message}})
		}
	}

	return &request{
		doc:       text.NewDocument(path, string(data)),
		tree:      tree,
		processor: assist.NewProcessor(assist.WithConfig(cfg)),
		context:   assist.NewContext(tree, sel.offset, sel.length),
		problems:  problems,
	}, nil
}
