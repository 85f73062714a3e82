package main

import (
	"fmt"
	"sort"

	"github.com/mgomes/loxcore/lox"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type lintWarning struct {
	Function string
	Pos      lox.Position
	Message  string
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <script>",
		Short: "Parse and resolve a script, then report unreachable statements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := compileFile(cmd, lox.NewEngine(lox.Config{}), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			warnings := analyzeProgram(script.Program())
			if len(warnings) == 0 {
				fmt.Fprintln(out, "No issues found")
				return nil
			}
			for _, warning := range warnings {
				fmt.Fprintf(out, "%s:%d:%d: %s (%s)\n", args[0], warning.Pos.Line, warning.Pos.Column, warning.Message, warning.Function)
			}
			return errors.Errorf("analysis found %d issue(s)", len(warnings))
		},
	}
}

func analyzeProgram(program *lox.Program) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements("<script>", program.Statements, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})
	return warnings
}

// lintStatements reports statements that follow one which always returns,
// and reports whether the list as a whole always returns.
func lintStatements(function string, statements []lox.Statement, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt lox.Statement, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *lox.ReturnStmt:
		return true
	case *lox.BlockStmt:
		return lintStatements(function, typed.Statements, warnings)
	case *lox.IfStmt:
		consequent := statementTerminates(function, typed.Consequent, warnings)
		if typed.Alternate == nil {
			return false
		}
		alternate := statementTerminates(function, typed.Alternate, warnings)
		return consequent && alternate
	case *lox.WhileStmt:
		statementTerminates(function, typed.Body, warnings)
		return false
	case *lox.FunctionStmt:
		lintStatements(typed.Name.Name, typed.Body, warnings)
		return false
	case *lox.ClassStmt:
		for _, method := range typed.Methods {
			lintStatements(typed.Name.Name+"."+method.Name.Name, method.Body, warnings)
		}
		return false
	default:
		return false
	}
}
