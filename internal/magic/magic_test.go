package magic

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magicshell/internal/testutils"
)

type recordedOutput struct {
	value   any
	command string
	bindTo  string
}

type recordingSink struct {
	records []recordedOutput
}

func (s *recordingSink) RecordOutput(value any, command string, bindTo string) any {
	s.records = append(s.records, recordedOutput{value: value, command: command, bindTo: bindTo})
	if bindTo != "" {
		return nil
	}
	return value
}

func upperDefinition() Definition {
	return Definition{
		Name: "shout",
		Doc:  testutils.ExampleDoc,
		Params: []Param{
			Arg("a", StringType),
			Opt("b", 1),
			Opt("c", false),
		},
		Fn: func(_ context.Context, args Args) (any, error) {
			out := args.String("a")
			for i := 1; i < args.Int("b"); i++ {
				out += " " + args.String("a")
			}
			if args.Bool("c") {
				out += "!"
			}
			return out, nil
		},
	}
}

func TestWrap(t *testing.T) {
	m, err := Wrap(KindLine, upperDefinition(), "")
	require.NoError(t, err)
	assert.Equal(t, "shout", m.Name())
	assert.Equal(t, KindLine, m.Kind())
	assert.Equal(t, testutils.ExampleDoc, m.Doc())
	assert.Equal(t, "%shout [bind_variable] -- [-h] [--b B] [--c] a", m.Usage())
	assert.False(t, m.IsLegacy())

	def := upperDefinition()
	def.Fn = nil
	_, err = Wrap(KindLine, def, "")
	assert.True(t, errors.Is(err, ErrSpecification))

	def = upperDefinition()
	def.Doc = ""
	_, err = Wrap(KindLine, def, "")
	assert.True(t, errors.Is(err, ErrSpecification))
}

func TestMagic_Call(t *testing.T) {
	sink := &recordingSink{}
	m, err := Wrap(KindLine, upperDefinition(), "", WithSink(sink))
	require.NoError(t, err)
	ctx := context.Background()

	out, err := m.Call(ctx, "-- --b 2 --c hey", nil)
	require.NoError(t, err)
	assert.Equal(t, "hey hey!", out)

	out, err = m.Call(ctx, "greeting -- hello", nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	require.Len(t, sink.records, 2)
	assert.Equal(t, recordedOutput{value: "hey hey!", command: "shout", bindTo: ""}, sink.records[0])
	assert.Equal(t, recordedOutput{value: "hello", command: "shout", bindTo: "greeting"}, sink.records[1])
}

func TestMagic_CallParseErrorSkipsSink(t *testing.T) {
	sink := &recordingSink{}
	called := false
	def := upperDefinition()
	def.Fn = func(context.Context, Args) (any, error) {
		called = true
		return nil, nil
	}
	m, err := Wrap(KindLine, def, "", WithSink(sink))
	require.NoError(t, err)

	_, err = m.Call(context.Background(), "11 -- cat", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParsing))
	assert.False(t, called)
	assert.Empty(t, sink.records)
}

func TestMagic_CallPropagatesFunctionError(t *testing.T) {
	sink := &recordingSink{}
	boom := errors.New("boom")
	def := upperDefinition()
	def.Fn = func(context.Context, Args) (any, error) { return nil, boom }
	m, err := Wrap(KindLine, def, "", WithSink(sink))
	require.NoError(t, err)

	_, err = m.Call(context.Background(), "-- x", nil)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sink.records)
}

func TestMagic_Help(t *testing.T) {
	var buf bytes.Buffer
	sink := &recordingSink{}
	called := false
	def := upperDefinition()
	def.Fn = func(context.Context, Args) (any, error) {
		called = true
		return nil, nil
	}
	m, err := Wrap(KindLine, def, "", WithSink(sink), WithHelpWriter(&buf))
	require.NoError(t, err)

	out, err := m.Call(context.Background(), "-- -h", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.False(t, called)
	assert.Empty(t, sink.records)
	assert.Contains(t, buf.String(), "usage: %shout")
	assert.Equal(t, m.Help()+"\n", buf.String())
}

func TestMagic_WithoutSinkReturnsValue(t *testing.T) {
	m, err := Wrap(KindLine, upperDefinition(), "")
	require.NoError(t, err)

	out, err := m.Call(context.Background(), "bound -- hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestMagic_Execute(t *testing.T) {
	m, err := Wrap(KindLine, upperDefinition(), "")
	require.NoError(t, err)

	inv, out, err := m.Execute(context.Background(), "x -- --b=3 ho", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", inv.BindVariable)
	assert.Equal(t, "ho ho ho", out)
}

func TestMagic_CellCall(t *testing.T) {
	def := Definition{
		Name:   "echo",
		Doc:    testutils.CellDoc,
		Params: []Param{Cell(), Opt("upper", false)},
		Fn: func(_ context.Context, args Args) (any, error) {
			return args.String("cell"), nil
		},
	}
	m, err := Wrap(KindCell, def, "")
	require.NoError(t, err)

	body := "hello\nworld"
	out, err := m.Call(context.Background(), "", &body)
	require.NoError(t, err)
	assert.Equal(t, body, out)
}

func TestMagic_LegacyParsing(t *testing.T) {
	host := testutils.NewRecordingHost(map[string]any{"word": "bound"})
	m, err := Wrap(KindLine, legacyDefinition(), "", WithLegacyParsing(host))
	require.NoError(t, err)
	assert.True(t, m.IsLegacy())
	assert.Contains(t, m.Usage(), "[arguments] data")

	// data is hinted as Frame, so a string binding is rejected.
	_, err = m.Parse("--bindto out {word}", nil)
	assert.ErrorIs(t, err, ErrParsing)

	def := upperDefinition()
	m, err = Wrap(KindLine, def, "", WithLegacyParsing(host))
	require.NoError(t, err)
	out, err := m.Call(context.Background(), "--a {word} --b 2", nil)
	require.NoError(t, err)
	assert.Equal(t, "bound bound", out)
}

func TestMagic_CallArgs(t *testing.T) {
	m, err := Wrap(KindLine, upperDefinition(), "")
	require.NoError(t, err)
	ctx := context.Background()

	out, err := m.CallArgs(ctx, Args{"a": "yo"})
	require.NoError(t, err)
	assert.Equal(t, "yo", out)

	out, err = m.CallArgs(ctx, Args{"a": "yo", "b": "2", "c": "true"})
	require.NoError(t, err)
	assert.Equal(t, "yo yo!", out)

	_, err = m.CallArgs(ctx, Args{})
	assert.ErrorContains(t, err, "missing required argument")

	_, err = m.CallArgs(ctx, Args{"a": "yo", "zzz": 1})
	assert.ErrorContains(t, err, "unexpected argument")

	_, err = m.CallArgs(ctx, Args{"a": "yo", "b": "many"})
	assert.Error(t, err)
}

func TestBindTarget(t *testing.T) {
	assert.Equal(t, "", BindTarget("_"))
	assert.Equal(t, "x", BindTarget("x"))
}
