package main

import (
	"bytes"
	"context"
	"strings"
	"time"
)

// testEnv returns an Environment backed by buffers and a fixed variable set.
func testEnv(vars map[string]string, stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(stdin),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
	}, stdout, stderr
}

// fakeGenerator answers every prompt with a fixed text.
type fakeGenerator struct {
	answer string
	calls  int
	prompt string
}

func (g *fakeGenerator) Generate(_ context.Context, _, _, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	return g.answer, nil
}
