package diagnostics

import (
	"strings"
	"testing"

	"baa/internal/source"
)

func loc(line, col int) source.Location {
	return source.Span(
		source.Position{Line: line, Column: col},
		source.Position{Line: line, Column: col},
	)
}

func TestFormat(t *testing.T) {
	d := &Diagnostic{
		Severity: SeverityError,
		Code:     3303,
		Category: CategoryDirective,
		Message:  "توجيه غير معروف",
		File:     "برنامج.ب",
		Location: loc(3, 7),
	}
	got := d.Format()
	want := "برنامج.ب:3:7: خطأ: توجيه غير معروف"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestSeverityLabels(t *testing.T) {
	for _, tc := range []struct {
		sev  Severity
		want string
	}{
		{SeverityFatal, "خطأ فادح"},
		{SeverityError, "خطأ"},
		{SeverityWarning, "تحذير"},
		{SeverityNote, "ملاحظة"},
	} {
		if got := tc.sev.Label(); got != tc.want {
			t.Errorf("Label(%d) = %q, want %q", tc.sev, got, tc.want)
		}
	}
}

func TestErrorCapDropsSilently(t *testing.T) {
	s := NewSink(Limits{MaxErrors: 3, MaxWarnings: 2})
	for i := 0; i < 10; i++ {
		s.AddError("f", loc(i+1, 1), 1, CategoryGeneral, "خطأ %d", i)
	}
	if s.Count(SeverityError) != 3 {
		t.Errorf("kept %d errors, want 3", s.Count(SeverityError))
	}
	for i := 0; i < 5; i++ {
		s.AddWarning("f", loc(i+1, 1), 1, CategoryGeneral, "تحذير %d", i)
	}
	if s.Count(SeverityWarning) != 2 {
		t.Errorf("kept %d warnings, want 2", s.Count(SeverityWarning))
	}
	if len(s.Diagnostics) != 5 {
		t.Errorf("total kept %d, want 5", len(s.Diagnostics))
	}
}

func TestStopOnFatal(t *testing.T) {
	s := NewSink(DefaultLimits())
	if s.Halted() {
		t.Fatal("fresh sink must not be halted")
	}
	s.AddFatal("f", loc(1, 1), 1, CategoryMemory, "نفاد الذاكرة")
	if !s.Halted() {
		t.Error("fatal diagnostic must halt when StopOnFatal is set")
	}
	if !s.HasErrors() {
		t.Error("fatal counts as an error")
	}
}

func TestSummaryCountsAndElision(t *testing.T) {
	s := NewSink(DefaultLimits())
	for i := 0; i < 12; i++ {
		s.AddError("f", loc(i+1, 1), 1, CategoryGeneral, "مشكلة %d", i)
	}
	s.AddWarning("f", loc(1, 1), 1, CategoryGeneral, "تنبيه")

	sum := s.Summary()
	if !strings.Contains(sum, "12 خطأ") {
		t.Errorf("summary missing error count: %q", sum)
	}
	if !strings.Contains(sum, "1 تحذير") {
		t.Errorf("summary missing warning count: %q", sum)
	}
	if !strings.Contains(sum, "... و 3 أخرى") {
		t.Errorf("summary missing elision (12+1-10 = 3 hidden): %q", sum)
	}
}

func TestRecoveryActions(t *testing.T) {
	s := NewSink(DefaultLimits())
	for _, tc := range []struct {
		cat  Category
		want Action
	}{
		{CategoryDirective, ActionSkipDirective},
		{CategoryConditional, ActionSyncConditional},
		{CategoryExpression, ActionContinue},
		{CategoryMacro, ActionContinue},
		{CategoryFile, ActionSkipLine},
		{CategoryEncoding, ActionSkipLine},
		{CategoryMemory, ActionHalt},
		{CategoryGeneral, ActionContinue},
	} {
		if got := s.ActionFor(tc.cat); got != tc.want {
			t.Errorf("ActionFor(%s) = %s, want %s", tc.cat, got, tc.want)
		}
	}
}

func TestCascadeEscalatesToHalt(t *testing.T) {
	s := NewSink(DefaultLimits())
	for i := 0; i < CascadeLimit; i++ {
		s.AddError("f", loc(i+1, 1), 1, CategoryExpression, "خطأ متتال")
	}
	if got := s.ActionFor(CategoryExpression); got != ActionHalt {
		t.Errorf("after %d consecutive errors ActionFor = %s, want halt", CascadeLimit, got)
	}

	s.Recovery.NoteProgress()
	if got := s.ActionFor(CategoryExpression); got != ActionContinue {
		t.Errorf("after progress ActionFor = %s, want continue", got)
	}
}

func TestErrorsThisLine(t *testing.T) {
	s := NewSink(DefaultLimits())
	s.AddError("f", loc(5, 1), 1, CategoryGeneral, "أ")
	s.AddError("f", loc(5, 9), 1, CategoryGeneral, "ب")
	if s.Recovery.ErrorsThisLine != 2 {
		t.Errorf("ErrorsThisLine = %d, want 2", s.Recovery.ErrorsThisLine)
	}
	s.AddError("f", loc(6, 1), 1, CategoryGeneral, "ج")
	if s.Recovery.ErrorsThisLine != 1 {
		t.Errorf("ErrorsThisLine after new line = %d, want 1", s.Recovery.ErrorsThisLine)
	}
}
