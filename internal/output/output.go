// Package output formats CLI status lines, detecting whether stdout is a
// terminal so piped output stays plain.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Writer prints human-readable status lines to out.
type Writer struct {
	out    io.Writer
	isTerm bool
}

// New creates a Writer. isTerm is detected from out when it's an *os.File.
func New(out io.Writer) *Writer {
	w := &Writer{out: out}
	if f, ok := out.(*os.File); ok {
		w.isTerm = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return w
}

// IsTerminal reports whether out is attached to an interactive terminal.
func (w *Writer) IsTerminal() bool { return w.isTerm }

func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "%s\n", msg)
	}
}

func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

func (w *Writer) Success(msg string) { w.Status("done:", msg) }

func (w *Writer) Warning(msg string) { w.Status("warn:", msg) }

func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
