package diagnostics

import (
	"fmt"

	"baa/internal/source"
	"baa/internal/wbuffer"
)

// Limits caps how many diagnostics of each severity are kept. Once a cap is
// reached, further diagnostics of that severity are silently dropped.
type Limits struct {
	MaxErrors   int
	MaxWarnings int
	MaxNotes    int // 0 means unlimited
	StopOnFatal bool
}

// DefaultLimits returns the tuned defaults: 100 errors, 1000 warnings,
// unlimited notes, stop on the first fatal diagnostic.
func DefaultLimits() Limits {
	return Limits{
		MaxErrors:   100,
		MaxWarnings: 1000,
		MaxNotes:    0,
		StopOnFatal: true,
	}
}

// Sink collects diagnostics for a preprocessor run, with per-severity
// counters and the recovery state consulted by policy code.
type Sink struct {
	Diagnostics []*Diagnostic
	Limits      Limits
	Recovery    RecoveryState

	counts  [4]int
	dropped int
	halted  bool
}

// NewSink creates a sink with the given limits.
func NewSink(limits Limits) *Sink {
	return &Sink{Limits: limits}
}

// Add records a diagnostic, honouring the severity caps. It returns false if
// the diagnostic was dropped.
func (s *Sink) Add(d *Diagnostic) bool {
	switch d.Severity {
	case SeverityError:
		if s.Limits.MaxErrors > 0 && s.counts[SeverityError] >= s.Limits.MaxErrors {
			s.dropped++
			return false
		}
	case SeverityWarning:
		if s.Limits.MaxWarnings > 0 && s.counts[SeverityWarning] >= s.Limits.MaxWarnings {
			s.dropped++
			return false
		}
	case SeverityNote:
		if s.Limits.MaxNotes > 0 && s.counts[SeverityNote] >= s.Limits.MaxNotes {
			s.dropped++
			return false
		}
	}

	s.counts[d.Severity]++
	s.Diagnostics = append(s.Diagnostics, d)

	if d.Severity == SeverityFatal && s.Limits.StopOnFatal {
		s.halted = true
	}
	if d.Severity == SeverityFatal || d.Severity == SeverityError {
		s.Recovery.recordError(d)
	}
	return true
}

func (s *Sink) add(sev Severity, file string, loc source.Location, code int, cat Category, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Severity: sev,
		Code:     code,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Location: loc,
	}
	s.Add(d)
	return d
}

// AddFatal records a fatal diagnostic. The run should halt afterwards.
func (s *Sink) AddFatal(file string, loc source.Location, code int, cat Category, format string, args ...any) *Diagnostic {
	return s.add(SeverityFatal, file, loc, code, cat, format, args...)
}

func (s *Sink) AddError(file string, loc source.Location, code int, cat Category, format string, args ...any) *Diagnostic {
	return s.add(SeverityError, file, loc, code, cat, format, args...)
}

func (s *Sink) AddWarning(file string, loc source.Location, code int, cat Category, format string, args ...any) *Diagnostic {
	return s.add(SeverityWarning, file, loc, code, cat, format, args...)
}

func (s *Sink) AddNote(file string, loc source.Location, code int, cat Category, format string, args ...any) *Diagnostic {
	return s.add(SeverityNote, file, loc, code, cat, format, args...)
}

// Count returns how many diagnostics of the given severity were kept.
func (s *Sink) Count(sev Severity) int {
	return s.counts[sev]
}

// HasErrors reports whether any error or fatal diagnostic was recorded.
func (s *Sink) HasErrors() bool {
	return s.counts[SeverityFatal] > 0 || s.counts[SeverityError] > 0
}

// Halted reports whether a fatal diagnostic stopped the run.
func (s *Sink) Halted() bool {
	return s.halted
}

// summaryHeadCount is how many messages the summary quotes before eliding.
const summaryHeadCount = 10

// Summary renders the whole sink as a single string: an Arabic header with
// severity counts, the first few messages, and an elision line for the rest.
func (s *Sink) Summary() string {
	buf := wbuffer.New(256)
	buf.AppendString(fmt.Sprintf("تم العثور على %d خطأ فادح، %d خطأ، %d تحذير:",
		s.counts[SeverityFatal], s.counts[SeverityError], s.counts[SeverityWarning]))

	shown := 0
	for _, d := range s.Diagnostics {
		if shown >= summaryHeadCount {
			break
		}
		buf.AppendRune('\n')
		buf.AppendString(d.Format())
		shown++
	}
	if rest := len(s.Diagnostics) - shown; rest > 0 {
		buf.AppendString(fmt.Sprintf("\n... و %d أخرى", rest))
	}
	return buf.String()
}
