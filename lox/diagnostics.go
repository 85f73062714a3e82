package lox

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
)

// CompileError rejects a program that failed static resolution.
type CompileError struct {
	Program     *Program
	Diagnostics hcl.Diagnostics
}

func (e *CompileError) Error() string {
	return e.Diagnostics.Error()
}

func errorf(rng hcl.Range, format string, args ...any) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf(format, args...),
		Subject:  &rng,
	}
}

// sourceRange spans width bytes of a single line starting at pos.
func sourceRange(filename string, pos Position, width int) hcl.Range {
	start := hcl.Pos{Line: pos.Line, Column: pos.Column, Byte: pos.Offset}
	end := hcl.Pos{Line: pos.Line, Column: pos.Column + width, Byte: pos.Offset + width}
	return hcl.Range{Filename: filename, Start: start, End: end}
}

func identRange(filename string, id Ident) hcl.Range {
	return sourceRange(filename, id.position, utf8.RuneCountInString(id.Name))
}

// WriteDiagnostics renders diagnostics with source snippets for the given
// program.
func WriteDiagnostics(w io.Writer, program *Program, diags hcl.Diagnostics, width uint, color bool) error {
	files := map[string]*hcl.File{}
	if program != nil {
		files[program.Filename] = &hcl.File{Bytes: []byte(program.Source)}
	}
	return hcl.NewDiagnosticTextWriter(w, files, width, color).WriteDiagnostics(diags)
}
