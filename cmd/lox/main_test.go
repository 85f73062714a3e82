package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if _, err := captureStdout(t, func() error {
		return runCLI([]string{"lox", "help"})
	}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"lox", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandPrintsOutput(t *testing.T) {
	scriptPath := writeScript(t, `class Greeter {
  init(name) { this.name = name; }
  greet() { return "hello " + this.name; }
}
print Greeter("lox").greet();`)

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"lox", "run", scriptPath})
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "hello lox" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCLI([]string{"lox", "run"})
	if err == nil {
		t.Fatalf("expected script path error")
	}
	if !strings.Contains(err.Error(), "accepts 1 arg(s)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandAppliesConfig(t *testing.T) {
	scriptPath := writeScript(t, `while (true) {}`)
	configPath := filepath.Join(t.TempDir(), "lox.yaml")
	if err := os.WriteFile(configPath, []byte("step_quota: 25\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err := runCLI([]string{"lox", "run", "--config", configPath, scriptPath})
	if err == nil {
		t.Fatalf("expected step quota error")
	}
	if !strings.Contains(err.Error(), "execution failed: step quota exceeded (25)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandReportsResolutionErrors(t *testing.T) {
	scriptPath := writeScript(t, `class A < A {}
return 1;`)

	err := runCLI([]string{"lox", "run", scriptPath})
	if err == nil {
		t.Fatalf("expected resolution error")
	}
	if !strings.Contains(err.Error(), "2 resolution error(s)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckCommandNoIssues(t *testing.T) {
	scriptPath := writeScript(t, `fun add(a, b) { return a + b; }
print add(1, 2);`)

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"lox", "check", scriptPath})
	})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected check output: %q", out)
	}
}

func TestCheckCommandReportsUnreachableStatements(t *testing.T) {
	scriptPath := writeScript(t, `class Box {
  open() {
    if (true) return 1; else return 2;
    print "never";
  }
}`)

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"lox", "check", scriptPath})
	})
	if err == nil {
		t.Fatalf("expected check to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 1 issue(s)") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, ":4:5: unreachable statement (Box.open)") {
		t.Fatalf("expected unreachable statement warning, got %q", out)
	}
}

func TestResolveCommandPrintsDepths(t *testing.T) {
	scriptPath := writeScript(t, `{
  var a = 1;
  fun f() { return a; }
}`)

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"lox", "resolve", scriptPath})
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "3:20 a -> 1" {
		t.Fatalf("unexpected resolve output: %q", got)
	}
}

func TestResolveCommandDumpsAST(t *testing.T) {
	scriptPath := writeScript(t, `var answer = 42;`)

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"lox", "resolve", "--ast", scriptPath})
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !strings.Contains(out, "VarStmt") || !strings.Contains(out, "answer") {
		t.Fatalf("expected AST dump, got %q", out)
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
