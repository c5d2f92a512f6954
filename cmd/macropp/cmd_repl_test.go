package main

import (
	"bytes"
	"testing"

	"macropp/cmd/macropp/macro"
	"macropp/cmd/macropp/preprocess"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplSession(t *testing.T) {
	rec := &macro.Recorder{}
	var out bytes.Buffer
	s := &replSession{
		p:   preprocess.New(preprocess.Options{Limits: macro.DefaultLimits(), Reporter: rec}),
		out: &out,
	}

	steps := []struct {
		in   string
		want string
	}{
		{"#define A 1", ""},
		{"x A 'A'", "x 1 'A'\n"},
		{":define B=A", ""},
		{"B", "1\n"},
		{`:define -DC="two words"`, ""},
		{"C", "two words\n"},
		{"#define A 2", ""},
		{"B", "2\n"},
		{":define A=3", ""},
		{"A", "2\n"},
		{":bogus", "macropp: unknown command :bogus (try :help)\n"},
	}
	for _, step := range steps {
		out.Reset()
		require.NoError(t, s.eval(step.in), step.in)
		assert.Equal(t, step.want, out.String(), step.in)
	}
	assert.Equal(t, 1, rec.Warnings(), "argument A ignored after directive A")

	out.Reset()
	require.NoError(t, s.eval(`:define D="open`))
	assert.Contains(t, out.String(), "macropp: ")
	_, ok := s.p.Table.Lookup("D")
	assert.False(t, ok, "unparsable :define registers nothing")

	out.Reset()
	require.NoError(t, s.eval(":defs"))
	assert.Contains(t, out.String(), "IDENTIFIER")

	assert.ErrorIs(t, s.eval(":quit"), errQuit)
}
