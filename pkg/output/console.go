package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/sdejongh/codecompass/pkg/models"
)

const consoleWidth = 80

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Console prints the human-facing run narrative: banners, phases, summary
type Console struct {
	out   io.Writer
	quiet bool

	blue   *color.Color
	cyan   *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

// NewConsole creates a console writing to out. Colors are used only when
// requested and out is a terminal. Quiet suppresses everything except errors.
func NewConsole(out io.Writer, useColor, quiet bool) *Console {
	c := &Console{
		out:    out,
		quiet:  quiet,
		blue:   color.New(color.FgBlue),
		cyan:   color.New(color.FgCyan),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}

	enabled := useColor && IsTerminal(out)
	for _, col := range []*color.Color{c.blue, c.cyan, c.green, c.yellow, c.red} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) println(col *color.Color, format string, args ...interface{}) {
	if c.quiet {
		return
	}
	col.Fprintln(c.out, fmt.Sprintf(format, args...))
}

func (c *Console) rule() {
	c.println(c.blue, "%s", strings.Repeat("=", consoleWidth))
}

// Banner announces a run with its roots and scan mode
func (c *Console) Banner(base, target string, mode models.ScanMode) {
	c.rule()
	c.println(c.cyan, "  INITIALIZING CODEBASE COMPASS")
	c.rule()
	c.println(c.yellow, "Base Project:   %s", base)
	c.println(c.yellow, "Target Project: %s", target)
	c.println(c.cyan, "Mode:           %s\n", mode.Label())
}

// Detail prints an indented informational line, e.g. active ignore rules
func (c *Console) Detail(format string, args ...interface{}) {
	c.println(c.yellow, "  "+format, args...)
}

// Phase announces the start of a phase
func (c *Console) Phase(format string, args ...interface{}) {
	c.println(c.cyan, format, args...)
}

// Done announces the end of a phase
func (c *Console) Done(format string, args ...interface{}) {
	c.println(c.green, format+"\n", args...)
}

// Summary prints the per-status counts of a result
func (c *Console) Summary(counts models.Counts, elapsed time.Duration) {
	c.println(c.cyan, "Summary (%d items in %s):", counts.Total(), formatDuration(elapsed))
	colors := map[models.Status]*color.Color{
		models.StatusIdentical: c.green,
		models.StatusModified:  c.yellow,
		models.StatusMissing:   c.red,
	}
	for _, s := range models.AllStatuses {
		c.println(colors[s], "  %-10s %5d (%5.1f%%)", s, counts[s], counts.Percent(s))
	}
	c.println(c.cyan, "")
}

// Finished closes the run, pointing at the saved report when there is one
func (c *Console) Finished(reportPath string) {
	c.rule()
	c.println(c.cyan, "  COMPARISON FINISHED")
	if reportPath != "" {
		c.println(c.green, "  Comparison result saved to:")
		c.println(c.yellow, "  %s", reportPath)
	}
	c.rule()
}

// Error prints an error, even in quiet mode
func (c *Console) Error(err error) {
	c.red.Fprintln(c.out, "Error: "+err.Error())
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatRate renders a bandwidth limit, "unlimited" for zero
func FormatRate(bytesPerSecond int64) string {
	if bytesPerSecond <= 0 {
		return "unlimited"
	}
	return formatBytes(bytesPerSecond) + "/s"
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
