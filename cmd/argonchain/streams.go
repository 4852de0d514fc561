package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads interactive answers. Secret input is never echoed.
type prompter interface {
	Secret(label string) (string, error)
	Line(label string) (string, error)
}

type streams struct {
	out    io.Writer
	errOut io.Writer
	prompt prompter
	// tty is true when errOut is a terminal; the progress bar only renders then.
	tty bool
}

func stdStreams() streams {
	return streams{
		out:    os.Stdout,
		errOut: os.Stderr,
		prompt: &termPrompter{
			fd:     int(os.Stdin.Fd()),
			in:     bufio.NewReader(os.Stdin),
			errOut: os.Stderr,
		},
		tty: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

type termPrompter struct {
	fd     int
	in     *bufio.Reader
	errOut io.Writer
}

func (p *termPrompter) Secret(label string) (string, error) {
	fmt.Fprint(p.errOut, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.errOut)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(b), nil
}

func (p *termPrompter) Line(label string) (string, error) {
	fmt.Fprint(p.errOut, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
