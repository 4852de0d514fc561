package main

import (
	"bytes"
	"context"
	"io"
	"testing"
)

type fakePrompter struct {
	secrets []string
	lines   []string
}

func (f *fakePrompter) Secret(string) (string, error) {
	if len(f.secrets) == 0 {
		return "", io.EOF
	}
	s := f.secrets[0]
	f.secrets = f.secrets[1:]
	return s, nil
}

func (f *fakePrompter) Line(string) (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	s := f.lines[0]
	f.lines = f.lines[1:]
	return s, nil
}

// fastArgs keep Argon2 cheap enough for unit tests.
var fastArgs = []string{"--time-cost", "1", "--memory-cost", "64", "--parallelism", "1"}

func execute(t *testing.T, p prompter, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	if p == nil {
		p = &fakePrompter{}
	}
	cmd := newRootCmd(streams{out: &out, errOut: &errOut, prompt: p})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
