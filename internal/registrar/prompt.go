package registrar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aatumaykin/cronreg/internal/crontab"
)

// Headers printed above the entries of a Question.
const (
	HeaderExisting = "Existing entries:"
	HeaderBackup   = "Backup content:"
)

// Question is one confirmation request: the entries it concerns, the
// label shown above them and the y/N question itself.
type Question struct {
	Text    string
	Header  string // HeaderExisting when empty
	Entries []crontab.Entry
}

// Prompter asks whether the table may be changed.
type Prompter interface {
	Confirm(ctx context.Context, q Question) (bool, error)
}

// TerminalPrompter shows the existing entries and reads a y/N answer.
// Only "y" and "yes" (any case) confirm; everything else, including an
// empty line or EOF, declines.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter reading answers from in.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *TerminalPrompter) Confirm(ctx context.Context, q Question) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if len(q.Entries) > 0 {
		header := q.Header
		if header == "" {
			header = HeaderExisting
		}
		fmt.Fprintln(p.out, header)
		for _, e := range q.Entries {
			fmt.Fprintf(p.out, "  %s\n", e)
		}
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", q.Text)

	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		// EOF или обрыв ввода считается отказом
		fmt.Fprintln(p.out)
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}

	return isAffirmative(answer), nil
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// StaticPrompter answers every question the same way without reading input.
// It backs the --yes and --no-input flags.
type StaticPrompter struct {
	Answer bool
}

func (p StaticPrompter) Confirm(context.Context, Question) (bool, error) {
	return p.Answer, nil
}
