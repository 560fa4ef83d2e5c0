package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// StepProgress shows a progress bar advancing through named steps.
type StepProgress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
	total  int
}

// NewStepProgress creates a bar of total steps writing to w.
func NewStepProgress(w io.Writer, total int) *StepProgress {
	p := &StepProgress{writer: w, total: total}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Analyzing transcript...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Step marks the start of step (counting from 1) and names it. Its signature
// matches report.StepFunc.
func (p *StepProgress) Step(step, total int, name string) {
	p.bar.Describe(fmt.Sprintf("[cyan][%d/%d][reset] %s", step, total, name))
	if err := p.bar.Set(step - 1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish fills the bar.
func (p *StepProgress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}

// Current returns the number of completed steps.
func (p *StepProgress) Current() int {
	return int(p.bar.State().CurrentNum)
}
