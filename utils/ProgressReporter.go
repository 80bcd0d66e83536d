package utils

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

type ProgressReporter interface {
	// SetTotal restarts the bar with a new total.
	SetTotal(total int)
	Increment()
	Finish()
}

type BarProgressReporter struct {
	description string
	writer      io.Writer
	bar         *progressbar.ProgressBar
}

// NewBarProgressReporter renders to stderr so reports written to stdout
// stay clean.
func NewBarProgressReporter(total int, description string) *BarProgressReporter {
	return NewBarProgressReporterTo(os.Stderr, total, description)
}

func NewBarProgressReporterTo(writer io.Writer, total int, description string) *BarProgressReporter {
	p := &BarProgressReporter{description: description, writer: writer}
	p.SetTotal(total)
	return p
}

func (p *BarProgressReporter) SetTotal(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSetDescription(p.description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100e6),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionUseANSICodes(true),
	)
}

func (p *BarProgressReporter) Increment() {
	_ = p.bar.Add(1)
}

func (p *BarProgressReporter) Finish() {
	_ = p.bar.Finish()
}

// NoopProgressReporter discards progress.
type NoopProgressReporter struct{}

func (NoopProgressReporter) SetTotal(int) {}
func (NoopProgressReporter) Increment()   {}
func (NoopProgressReporter) Finish()      {}
