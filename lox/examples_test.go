package lox

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	expectOutputPattern       = regexp.MustCompile(`// expect: ?(.*)$`)
	expectRuntimeErrorPattern = regexp.MustCompile(`// expect runtime error: (.+)$`)
)

type expectations struct {
	output       []string
	runtimeError string
}

func readExpectations(source string) expectations {
	var exp expectations
	for _, line := range strings.Split(source, "\n") {
		if m := expectOutputPattern.FindStringSubmatch(line); m != nil {
			exp.output = append(exp.output, m[1])
		}
		if m := expectRuntimeErrorPattern.FindStringSubmatch(line); m != nil {
			exp.runtimeError = m[1]
		}
	}
	return exp
}

func TestExamplePrograms(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*", "*.lox"))
	if err != nil {
		t.Fatalf("glob testdata: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no example programs found")
	}

	for _, path := range paths {
		rel, _ := filepath.Rel("testdata", path)
		t.Run(filepath.ToSlash(rel), func(t *testing.T) {
			source, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read %s: %v", path, err)
			}
			exp := readExpectations(string(source))

			var out bytes.Buffer
			engine := NewEngine(Config{Stdout: &out})
			err = engine.Execute(context.Background(), rel, string(source))

			if exp.runtimeError != "" {
				var runtimeErr *RuntimeError
				if !errors.As(err, &runtimeErr) {
					t.Fatalf("expected runtime error %q, got %v", exp.runtimeError, err)
				}
				if !strings.Contains(runtimeErr.Message, exp.runtimeError) {
					t.Fatalf("unexpected runtime error: %s", runtimeErr.Message)
				}
			} else if err != nil {
				t.Fatalf("execute %s: %v", rel, err)
			}

			want := strings.Join(exp.output, "\n")
			got := strings.TrimSuffix(out.String(), "\n")
			if got != want {
				dmp := diffmatchpatch.New()
				diffs := dmp.DiffMain(want, got, false)
				t.Fatalf("output mismatch for %s:\n%s", rel, dmp.DiffPrettyText(diffs))
			}
		})
	}
}
