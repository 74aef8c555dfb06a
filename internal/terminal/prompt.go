package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"invoicedesk/internal/controller"
)

// Prompt asks yes/no questions on a line-oriented input. Anything other
// than y or yes, including end of input, is a no.
//
// A single goroutine owns the input and hands out one line per receive, so
// a read abandoned when its context ends never consumes a later line.
type Prompt struct {
	in    *bufio.Reader
	out   io.Writer
	start sync.Once
	lines chan inputLine

	// AssumeYes answers every question with yes without reading input.
	AssumeYes bool
}

type inputLine struct {
	text string
	err  error
}

var _ controller.Confirmer = (*Prompt)(nil)

// NewPrompt creates a Prompt reading answers from in and writing questions
// to out. Input is not touched until the first read.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan inputLine),
	}
}

// ReadLine returns the next input line, including its newline when one was
// read. It returns io.EOF once input is exhausted and ctx.Err() when ctx
// ends first; in that case the line stays queued for the next call.
func (p *Prompt) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.start.Do(func() { go p.readLines() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return line.text, line.err
	}
}

func (p *Prompt) readLines() {
	defer close(p.lines)
	for {
		text, err := p.in.ReadString('\n')
		p.lines <- inputLine{text: text, err: err}
		if err != nil {
			return
		}
	}
}

// Confirm prints prompt and waits for an answer or for ctx to end.
func (p *Prompt) Confirm(ctx context.Context, prompt string) bool {
	if p.AssumeYes {
		fmt.Fprintf(p.out, "%s [y/N]: y\n", prompt)
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)

	line, err := p.ReadLine(ctx)
	if err != nil && line == "" {
		if ctx.Err() != nil {
			fmt.Fprintln(p.out)
		}
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
