// Package notice carries transient user-facing messages (the dashboard's
// toasts) from core components to whatever surface displays them.
package notice

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level classifies a notice.
type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier displays a notice to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// Func adapts a function to Notifier.
type Func func(level Level, message string)

func (f Func) Notify(level Level, message string) { f(level, message) }

// Discard drops every notice.
var Discard Notifier = Func(func(Level, string) {})

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// Printer writes styled notices to a terminal stream.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Notify(level Level, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch level {
	case Success:
		fmt.Fprintln(p.out, successStyle.Render("✓ "+message))
	case Error:
		fmt.Fprintln(p.out, errorStyle.Render("✗ "+message))
	default:
		fmt.Fprintln(p.out, infoStyle.Render("• "+message))
	}
}

// Notice is a recorded notice.
type Notice struct {
	Level   Level
	Message string
}

// Recorder keeps every notice in memory, for tests and non-interactive callers.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: message})
}

// Notices returns a copy of what has been recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Count returns how many notices with the given message were recorded.
func (r *Recorder) Count(message string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, nt := range r.notices {
		if nt.Message == message {
			n++
		}
	}
	return n
}
