package distance

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// StdinPrompter asks for the distance on a terminal.
type StdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdinPrompter creates a prompter reading from in and writing to out.
func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{in: bufio.NewReader(in), out: out}
}

// PromptDistance asks for the distance in km. Empty input cancels.
func (p *StdinPrompter) PromptDistance(ctx context.Context, pickup, drop string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fmt.Fprintf(p.out, "Could not calculate the distance from %q to %q.\nEnter distance in km: ", pickup, drop)

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return 0, fmt.Errorf("read distance: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, fmt.Errorf("distance not provided")
	}
	km, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("parse distance %q: %w", line, err)
	}
	if !(km > 0) {
		return 0, fmt.Errorf("distance must be greater than 0, got %v", km)
	}
	return km, nil
}
