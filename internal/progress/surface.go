package progress

import (
	"fmt"
	"io"
	"time"

	barview "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

// Surface is where a coordinator publishes values. Only one goroutine
// writes to a surface at a time.
type Surface interface {
	// Publish displays value (0-100).
	Publish(value float64)

	// Done finalizes the display line.
	Done()
}

type discard struct{}

func (discard) Publish(float64) {}
func (discard) Done()           {}

// Discard is a Surface that displays nothing
var Discard Surface = discard{}

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// Bar renders a single-line percentage bar
type Bar struct {
	w     io.Writer
	label string
	bar   barview.Model
}

// NewBar creates a bar surface writing to w
func NewBar(w io.Writer, label string) *Bar {
	return &Bar{
		w:     w,
		label: label,
		bar: barview.New(
			barview.WithDefaultGradient(),
			barview.WithWidth(barWidth),
			barview.WithoutPercentage(),
		),
	}
}

// Publish redraws the line at value
func (b *Bar) Publish(value float64) {
	fmt.Fprintf(b.w, "\r%s: %3.0f%% %s", labelStyle.Render(b.label), value, b.bar.ViewAs(value/100))
}

// Done moves the cursor past the bar
func (b *Bar) Done() {
	fmt.Fprintln(b.w)
}

// Counter counts bytes written through it and renders transfer progress.
// A total <= 0 means the size is unknown and renders a spinner instead of a bar.
type Counter struct {
	w     io.Writer
	label string
	total int64
	count int64

	bar      barview.Model
	frames   []string
	frame    int
	every    time.Duration
	lastDraw time.Time
	now      func() time.Time
}

// NewCounter creates a byte counter writing its display to w
func NewCounter(w io.Writer, label string, total int64) *Counter {
	if w == nil {
		w = io.Discard
	}
	return &Counter{
		w:      w,
		label:  label,
		total:  total,
		bar:    barview.New(barview.WithDefaultGradient(), barview.WithWidth(barWidth), barview.WithoutPercentage()),
		frames: spinner.Dot.Frames,
		every:  100 * time.Millisecond,
		now:    time.Now,
	}
}

// Write advances the counter by len(p). It never fails.
func (c *Counter) Write(p []byte) (int, error) {
	c.count += int64(len(p))
	if now := c.now(); now.Sub(c.lastDraw) >= c.every {
		c.lastDraw = now
		c.draw()
	}
	return len(p), nil
}

// Count returns the number of bytes seen so far
func (c *Counter) Count() int64 {
	return c.count
}

// Total returns the expected size, or 0 when unknown
func (c *Counter) Total() int64 {
	if c.total < 0 {
		return 0
	}
	return c.total
}

// Done draws the final state and ends the line
func (c *Counter) Done() {
	c.draw()
	fmt.Fprintln(c.w)
}

func (c *Counter) draw() {
	if c.total <= 0 {
		c.frame = (c.frame + 1) % len(c.frames)
		fmt.Fprintf(c.w, "\r%s %s %s", labelStyle.Render(c.label), c.frames[c.frame],
			counterStyle.Render(FormatBytes(c.count)))
		return
	}
	ratio := float64(c.count) / float64(c.total)
	if ratio > 1 {
		ratio = 1
	}
	fmt.Fprintf(c.w, "\r%s: %3.0f%% %s %s", labelStyle.Render(c.label), ratio*100, c.bar.ViewAs(ratio),
		counterStyle.Render(FormatBytes(c.count)+"/"+FormatBytes(c.total)))
}

// FormatBytes formats b using binary units (e.g. "1.5 KiB")
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < 4; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTP"[exp])
}
