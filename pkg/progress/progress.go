/*
Package progress renders a single-line console progress bar for the long
corpus and generation phases. Bar implements the poetry.ProgressSink
interface. When stdout is not a terminal, the bar degrades to one line at
the start and one at the end of each phase instead of redrawing.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

const barWidth = 50

// Bar is a console progress bar with percentage, elapsed time and ETA.
// It may be reused across phases; Begin resets it.
type Bar struct {
	out       io.Writer
	tty       bool
	label     string
	total     int
	current   int
	step      int
	startTime time.Time
}

// New returns a Bar writing to stdout.
func New() *Bar {
	return &Bar{
		out: os.Stdout,
		tty: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// Begin resets the bar for a new phase with the given label and total.
func (b *Bar) Begin(label string, total int) {
	b.label = label
	b.total = total
	b.current = 0
	b.startTime = time.Now()
	// Redraw roughly once per percent to keep terminal writes cheap.
	b.step = total / 100
	if b.step < 1 {
		b.step = 1
	}
	if !b.tty {
		_, _ = fmt.Fprintf(b.out, "%s: %d items...\n", label, total)
		return
	}
	b.display()
}

// Increment advances the bar by one.
func (b *Bar) Increment() {
	b.current++
	if !b.tty {
		return
	}
	if b.current%b.step == 0 || b.current == b.total {
		b.display()
	}
}

// Finish forces the bar to completion and ends the line.
func (b *Bar) Finish() {
	b.current = b.total
	if !b.tty {
		_, _ = fmt.Fprintf(b.out, "%s: done in %s\n", b.label, formatDuration(time.Since(b.startTime)))
		return
	}
	b.display()
	_, _ = fmt.Fprintln(b.out)
}

func (b *Bar) display() {
	var percentage float64
	var filled int
	if b.total > 0 {
		percentage = float64(b.current) / float64(b.total) * 100
		filled = barWidth * b.current / b.total
	}

	elapsed := time.Since(b.startTime)
	var eta time.Duration
	if b.current > 0 {
		eta = elapsed * time.Duration(b.total-b.current) / time.Duration(b.current)
	}

	var sb strings.Builder
	sb.WriteString("\r")
	sb.WriteString(b.label)
	sb.WriteString(" [")
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			sb.WriteByte('=')
		case i == filled:
			sb.WriteByte('>')
		default:
			sb.WriteByte(' ')
		}
	}
	sb.WriteString("] ")
	_, _ = fmt.Fprintf(&sb, "%.1f%% (%d/%d) ", percentage, b.current, b.total)
	sb.WriteString(formatDuration(elapsed))
	if b.current < b.total {
		sb.WriteString(" ETA: ")
		sb.WriteString(formatDuration(eta))
	} else {
		sb.WriteString(" Done!")
	}
	_, _ = io.WriteString(b.out, sb.String())
}

// formatDuration renders d as "1h 2m 3s", dropping leading zero units.
func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	minutes := seconds / 60
	hours := minutes / 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes%60, seconds%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
