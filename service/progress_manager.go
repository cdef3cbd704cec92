package service

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// progressRefresh bounds how often a bar is redrawn while workers report
const progressRefresh = 65 * time.Millisecond

// TerminalProgress draws one file-count bar per task on a terminal.
// Tasks may be incremented from several workers at once.
type TerminalProgress struct {
	out  io.Writer
	mu   sync.Mutex
	bars []*progressbar.ProgressBar
}

// NewProgressManager returns a TerminalProgress drawing on w, or a silent
// manager when progress is disabled or w is not a terminal
func NewProgressManager(enabled bool, w io.Writer) domain.ProgressManager {
	if enabled && IsTerminal(w) {
		return &TerminalProgress{out: w}
	}
	return SilentProgress{}
}

// IsTerminal reports whether w is an interactive terminal. CI=true and
// TERM=dumb count as non-interactive.
func IsTerminal(w io.Writer) bool {
	if strings.EqualFold(os.Getenv("CI"), "true") || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// StartTask adds a bar counting total files. The bar is cleared when the
// task completes so the report starts on a clean line.
func (p *TerminalProgress) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionThrottle(progressRefresh),
		progressbar.OptionClearOnFinish(),
	)

	p.mu.Lock()
	p.bars = append(p.bars, bar)
	p.mu.Unlock()

	return barTask{bar: bar}
}

// IsInteractive is always true for a terminal
func (p *TerminalProgress) IsInteractive() bool {
	return true
}

// Close finishes bars whose task never completed, such as after a failed run
func (p *TerminalProgress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, bar := range p.bars {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
	p.bars = nil
}

type barTask struct {
	bar *progressbar.ProgressBar
}

func (t barTask) Increment(n int) {
	_ = t.bar.Add(n)
}

func (t barTask) Describe(description string) {
	t.bar.Describe(description)
}

func (t barTask) Complete() {
	_ = t.bar.Finish()
}

// SilentProgress discards all progress. It serves both as manager and task.
type SilentProgress struct{}

// StartTask returns the silent task
func (SilentProgress) StartTask(string, int) domain.TaskProgress { return SilentProgress{} }

// IsInteractive is always false
func (SilentProgress) IsInteractive() bool { return false }

// Close does nothing
func (SilentProgress) Close() {}

// Increment does nothing
func (SilentProgress) Increment(int) {}

// Describe does nothing
func (SilentProgress) Describe(string) {}

// Complete does nothing
func (SilentProgress) Complete() {}
