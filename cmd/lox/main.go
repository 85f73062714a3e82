package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/mgomes/loxcore/lox"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	// glog refuses to log until the standard flag set has been parsed.
	_ = flag.CommandLine.Parse(nil)
	defer glog.Flush()

	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	root := newRootCommand()
	root.SetArgs(args[1:])
	return root.Execute()
}

func newRootCommand() *cobra.Command {
	var verbosity int
	root := &cobra.Command{
		Use:           "lox",
		Short:         "Run and inspect Lox programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(verbosity)
		},
	}
	root.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "glog verbosity level; logs go to stderr")

	root.AddCommand(
		newRunCommand(),
		newCheckCommand(),
		newResolveCommand(),
		newREPLCommand(),
	)
	return root
}

func configureLogging(verbosity int) error {
	if verbosity <= 0 {
		return nil
	}
	if err := flag.Set("logtostderr", "true"); err != nil {
		return errors.Wrap(err, "configure logging")
	}
	if err := flag.Set("v", strconv.Itoa(verbosity)); err != nil {
		return errors.Wrap(err, "configure logging")
	}
	return nil
}

func newRunCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Compile and execute a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg.Stdout = cmd.OutOrStdout()

			engine := lox.NewEngine(cfg)
			glog.V(1).Infof("lox run: %s (%s)", args[0], engine.ConfigSummary())
			script, err := compileFile(cmd, engine, args[0])
			if err != nil {
				return err
			}
			if err := script.Run(context.Background()); err != nil {
				return errors.Wrap(err, "execution failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file setting step_quota and recursion_limit")
	return cmd
}

func newResolveCommand() *cobra.Command {
	var dumpAST bool
	cmd := &cobra.Command{
		Use:   "resolve <script>",
		Short: "Print the scope depth chosen for every local variable reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := compileFile(cmd, lox.NewEngine(lox.Config{}), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dumpAST {
				dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
				dumper.Fdump(out, script.Program().Statements)
			}
			for _, line := range formatBindings(script.Bindings()) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dumpAST, "ast", false, "dump the parsed syntax tree before the bindings")
	return cmd
}

func loadConfig(path string) (lox.Config, error) {
	if path == "" {
		return lox.Config{}, nil
	}
	return lox.LoadConfig(path)
}

// compileFile reads and compiles a script. Resolution diagnostics are
// rendered with source snippets before the error is returned.
func compileFile(cmd *cobra.Command, engine *lox.Engine, path string) (*lox.Script, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}

	script, err := engine.Compile(path, string(source))
	if err == nil {
		return script, nil
	}
	if compileErr, ok := err.(*lox.CompileError); ok {
		if werr := lox.WriteDiagnostics(cmd.OutOrStderr(), compileErr.Program, compileErr.Diagnostics, 78, false); werr != nil {
			return nil, errors.Wrap(werr, "write diagnostics")
		}
		return nil, errors.Errorf("%s: %d resolution error(s)", path, len(compileErr.Diagnostics))
	}
	return nil, errors.Wrap(err, "compile failed")
}

type bindingLine struct {
	pos   lox.Position
	name  string
	depth int
}

func formatBindings(bindings lox.Bindings) []string {
	entries := make([]bindingLine, 0, len(bindings))
	for expr, depth := range bindings {
		entries = append(entries, bindingLine{pos: expr.Pos(), name: referenceName(expr), depth: depth})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pos.Offset != entries[j].pos.Offset {
			return entries[i].pos.Offset < entries[j].pos.Offset
		}
		return entries[i].name < entries[j].name
	})

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d:%d %s -> %d", e.pos.Line, e.pos.Column, e.name, e.depth)
	}
	return lines
}

func referenceName(expr lox.Expression) string {
	switch e := expr.(type) {
	case *lox.VariableExpr:
		return e.Name.Name
	case *lox.AssignExpr:
		return e.Name.Name
	case *lox.ThisExpr:
		return "this"
	case *lox.SuperExpr:
		return "super"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
