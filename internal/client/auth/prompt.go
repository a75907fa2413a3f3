package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter shows the consent URL to the user and returns the pasted code.
type Prompter interface {
	Prompt(ctx context.Context, authURL string) (string, error)
}

var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// TerminalPrompter writes to Out and reads the code from In. When In is a
// terminal the code is read without echo.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stdout}
}

func (p *TerminalPrompter) Prompt(ctx context.Context, authURL string) (string, error) {
	fmt.Fprintf(p.Out, "Open this URL in your browser and grant access:\n\n  %s\n\nAuthorization code: ", authURL)

	var code string
	fd := int(p.In.Fd())
	if isTerminal(fd) {
		b, err := readPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", err
		}
		code = string(b)
	} else {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		code = line
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrEmptyCode
	}
	return code, ctx.Err()
}
