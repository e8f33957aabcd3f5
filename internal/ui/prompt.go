package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
	"github.com/desertthunder/discog/internal/tasks"
)

var _ tasks.Chooser = (*PromptChooser)(nil)

// PromptChooser prints numbered candidates and reads the selection as a line of input.
type PromptChooser struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewPromptChooser(in io.Reader, out io.Writer) *PromptChooser {
	return &PromptChooser{reader: bufio.NewReader(in), out: out}
}

// Choose returns the number typed by the user. Anything that is not a number is
// [shared.ErrInvalidChoice]; "q" or end of input cancels.
func (p *PromptChooser) Choose(ctx context.Context, searchName string, candidates []models.ArtistCandidate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fmt.Fprintf(p.out, "%s\n", Styles.Title(fmt.Sprintf("Multiple artists match %q:", searchName)))
	for i, c := range candidates {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, c.Label())
	}
	fmt.Fprintf(p.out, "Please select an artist [1-%d]: ", len(candidates))

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(p.out)
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: end of input", shared.ErrChoiceCancelled)
		}
		return 0, fmt.Errorf("failed to read choice: %w", err)
	}

	answer := strings.TrimSpace(line)
	if strings.EqualFold(answer, "q") {
		return 0, fmt.Errorf("%w: %q", shared.ErrChoiceCancelled, searchName)
	}

	choice, err := strconv.Atoi(answer)
	if err != nil {
		fmt.Fprintln(p.out, Styles.Warn(fmt.Sprintf("%q is not a number", answer)))
		return 0, fmt.Errorf("%w: %q", shared.ErrInvalidChoice, answer)
	}
	if choice < 1 || choice > len(candidates) {
		fmt.Fprintln(p.out, Styles.Warn(fmt.Sprintf("choose between 1 and %d", len(candidates))))
	}
	return choice, nil
}
