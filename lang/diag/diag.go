// Package diag implements the diagnostic reporting shared by every pass of
// the pipeline, in the style of go/scanner.ErrorList as adapted by the
// teacher's lang/scanner, lang/parser and lang/resolver packages: passes
// accumulate diagnostics rather than stopping at the first one, then return
// an aggregate error that still implements Unwrap() []error.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a diagnostic per spec.md §6 "Diagnostics".
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Exception
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Exception:
		return "exception"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported line, tagged with severity and, for
// warnings and above, the source file and line that produced it.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Msg      string
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	if d.Severity >= Warning && d.File != "" {
		fmt.Fprintf(&b, "%s:%d: ", d.File, d.Line)
	} else if d.Severity >= Warning && d.Line != 0 {
		fmt.Fprintf(&b, "line %d: ", d.Line)
	}
	b.WriteString(d.Msg)
	return b.String()
}

// List accumulates Diagnostics across a pass. The zero value is ready to
// use.
type List struct {
	items []Diagnostic
}

// Add records a new diagnostic.
func (l *List) Add(d Diagnostic) { l.items = append(l.items, d) }

// Addf is a convenience wrapper that builds the Msg with Sprintf.
func (l *List) Addf(sev Severity, file string, line int, format string, args ...any) {
	l.Add(Diagnostic{Severity: sev, File: file, Line: line, Msg: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any accumulated diagnostic is Error or
// Exception severity — i.e. whether the owning unit must be aborted per
// spec.md §7.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity >= Error {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file then line, matching
// go/scanner.ErrorList.Sort's behavior relied upon by the teacher.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		a, b := l.items[i], l.items[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}

// Items returns the accumulated diagnostics in their current order.
func (l *List) Items() []Diagnostic { return l.items }

// Err returns an aggregate error for the list, or nil if there are no
// Error-or-above diagnostics. The returned error implements
// Unwrap() []error so callers can use errors.Is/As across every
// diagnostic, mirroring go/scanner.ErrorList.
func (l *List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return errList(l.items)
}

type errList []Diagnostic

func (e errList) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "%s (and %d more diagnostics)", e[0].Error(), len(e)-1)
		return b.String()
	}
}

func (e errList) Unwrap() []error {
	errs := make([]error, len(e))
	for i, d := range e {
		errs[i] = d
	}
	return errs
}

// PrintAll writes every diagnostic to w, one per line, in the order they
// were added to l — the format spec.md §6 specifies: "each tagged with severity and,
// for warnings and above, the source file and line".
func PrintAll(w interface{ WriteString(string) (int, error) }, l *List) {
	for _, d := range l.items {
		w.WriteString(d.Error())
		w.WriteString("\n")
	}
}
