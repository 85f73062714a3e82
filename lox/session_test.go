package lox

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKeepsGlobalsAcrossInputs(t *testing.T) {
	var out bytes.Buffer
	session := NewEngine(Config{Stdout: &out}).NewSession()
	ctx := context.Background()

	val, err := session.Eval(ctx, "var a = 40;")
	require.NoError(t, err)
	assert.True(t, val.IsNil())

	val, err = session.Eval(ctx, "a + 2;")
	require.NoError(t, err)
	assert.Equal(t, 42.0, val.Number())

	_, err = session.Eval(ctx, `print "a is " + "set";`)
	require.NoError(t, err)
	assert.Equal(t, "a is set\n", out.String())
}

func TestSessionClosuresSurviveLaterInputs(t *testing.T) {
	session := NewEngine(Config{}).NewSession()
	ctx := context.Background()

	_, err := session.Eval(ctx, `
fun makeCounter() {
  var count = 0;
  fun inc() { count = count + 1; return count; }
  return inc;
}
var counter = makeCounter();
`)
	require.NoError(t, err)

	for want := 1.0; want <= 3; want++ {
		val, err := session.Eval(ctx, "counter();")
		require.NoError(t, err)
		assert.Equal(t, want, val.Number())
	}
}

func TestSessionErrorsDoNotPoisonState(t *testing.T) {
	session := NewEngine(Config{}).NewSession()
	ctx := context.Background()

	_, err := session.Eval(ctx, "var x = 1;")
	require.NoError(t, err)

	_, err = session.Eval(ctx, "{ var y = y; }")
	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "<repl:2>", compileErr.Program.Filename)

	_, err = session.Eval(ctx, "x.field;")
	var re *RuntimeError
	require.True(t, errors.As(err, &re))

	val, err := session.Eval(ctx, "x;")
	require.NoError(t, err)
	assert.Equal(t, 1.0, val.Number())
}

func TestSessionGlobalsAndReset(t *testing.T) {
	session := NewEngine(Config{}).NewSession()
	ctx := context.Background()

	_, err := session.Eval(ctx, "var b = 2; var a = 1; class K {}")
	require.NoError(t, err)

	names, values := session.Globals()
	assert.Equal(t, []string{"K", "a", "b"}, names)
	assert.Equal(t, KindClass, values["K"].Kind())
	assert.NotContains(t, values, "clock")

	session.Reset()
	names, _ = session.Globals()
	assert.Empty(t, names)

	val, err := session.Eval(ctx, "clock;")
	require.NoError(t, err)
	assert.Equal(t, KindBuiltin, val.Kind())
}
