package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/javameta/internal/runner"
)

// CLIProgressReporter draws a progress bar for a run.
type CLIProgressReporter struct {
	out     io.Writer
	bar     *progressbar.ProgressBar
	total   int
	handled int
}

var _ runner.ProgressReporter = (*CLIProgressReporter)(nil)

// NewCLIProgressReporter creates a reporter drawing to out, normally stderr so
// the descriptor stream on stdout stays clean.
func NewCLIProgressReporter(out io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{out: out}
}

func (c *CLIProgressReporter) OnRunStart(total int) {
	c.total = total
	c.handled = 0

	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Processing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string, descriptors int) {
	if c.bar != nil {
		c.handled++
		c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(result *runner.Result) {
	if c.bar != nil {
		if c.handled < c.total {
			// Run stopped early; leave the bar where it is.
			c.bar.Exit()
			fmt.Fprintln(c.out)
		} else {
			c.bar.Finish()
		}
		c.bar = nil
	}

	fmt.Fprintf(c.out, "✓ Processed %s files (%s descriptors) in %.1fs\n",
		formatNumber(len(result.Records)),
		formatNumber(result.DescriptorCount()),
		result.Duration.Seconds())
	if n := len(result.Failures); n > 0 {
		fmt.Fprintf(c.out, "  Failed:  %s\n", formatNumber(n))
	}
	if n := len(result.Skipped); n > 0 {
		fmt.Fprintf(c.out, "  Skipped: %s\n", formatNumber(n))
	}
}

// formatNumber formats n with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
