package lox

import (
	"errors"
	"fmt"
	"strings"
)

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError aborts the current program run. It carries the source
// location and the call stack at the point of failure.
type RuntimeError struct {
	Message   string
	CodeFrame string
	Frames    []StackFrame
	cause     error
}

// maxRenderedFrames bounds how many call frames Error prints; the middle
// of a deeper stack is elided.
const maxRenderedFrames = 16

var (
	errStepQuotaExceeded      = errors.New("step quota exceeded")
	errRecursionLimitExceeded = errors.New("recursion limit exceeded")
)

func (f StackFrame) String() string {
	switch {
	case f.Pos.Line > 0 && f.Pos.Column > 0:
		return fmt.Sprintf("[%d:%d] in %s", f.Pos.Line, f.Pos.Column, f.Function)
	case f.Pos.Line > 0:
		return fmt.Sprintf("[line %d] in %s", f.Pos.Line, f.Function)
	default:
		return "in " + f.Function
	}
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}

	frames := re.Frames
	elided := 0
	if len(frames) > maxRenderedFrames {
		elided = len(frames) - maxRenderedFrames
	}
	half := maxRenderedFrames / 2
	for i, frame := range frames {
		if elided > 0 && i >= half && i < half+elided {
			if i == half {
				fmt.Fprintf(&b, "\n  ... %d frames elided", elided)
			}
			continue
		}
		b.WriteString("\n  ")
		b.WriteString(frame.String())
	}
	return b.String()
}

// Unwrap exposes the host error that caused the failure, if any.
func (re *RuntimeError) Unwrap() error {
	return re.cause
}

func (exec *Execution) step() error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return fmt.Errorf("%w (%d)", errStepQuotaExceeded, exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

func (exec *Execution) errorAt(pos Position, format string, args ...any) error {
	return exec.newRuntimeError(fmt.Sprintf(format, args...), pos, nil)
}

func (exec *Execution) newRuntimeError(message string, pos Position, cause error) error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)

	// The innermost frame points at the failure; every later frame points
	// at the call site inside its caller.
	current := "<script>"
	if n := len(exec.callStack); n > 0 {
		current = exec.callStack[n-1].Function
	}
	frames = append(frames, StackFrame{Function: current, Pos: pos})
	for i := len(exec.callStack) - 1; i >= 0; i-- {
		frames = append(frames, StackFrame(exec.callStack[i]))
	}
	return &RuntimeError{
		Message:   message,
		CodeFrame: formatCodeFrame(exec.source, pos),
		Frames:    frames,
		cause:     cause,
	}
}

func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}
	if errors.Is(err, exec.ctxErr()) {
		return err
	}
	return exec.newRuntimeError(err.Error(), pos, err)
}

func (exec *Execution) ctxErr() error {
	if exec.ctx == nil {
		return nil
	}
	return exec.ctx.Err()
}
