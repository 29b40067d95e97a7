package preprocessor

import (
	"path/filepath"
	"strings"
	"testing"

	"baa/internal/diagnostics"
	"baa/internal/testutil"
)

func processString(t *testing.T, text string) (string, *Preprocessor, error) {
	t.Helper()
	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New(nil, sink)
	out, err := pp.ProcessString("اختبار.ب", text)
	return out, pp, err
}

func mustProcess(t *testing.T, text string) (string, *Preprocessor) {
	t.Helper()
	out, pp, err := processString(t, text)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	return out, pp
}

func TestEmptyInput(t *testing.T) {
	out, pp := mustProcess(t, "")
	if out != "" {
		t.Errorf("got %q, want empty", out)
	}
	if len(pp.Sink().Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", pp.Sink().Diagnostics)
	}
}

func TestPlainTextPassesThrough(t *testing.T) {
	src := "سطر أول\nسطر ثانٍ\n"
	out, _ := mustProcess(t, src)
	if out != src {
		t.Errorf("got %q, want input unchanged", out)
	}
}

func TestTrailingNewlineNormalization(t *testing.T) {
	out, _ := mustProcess(t, "نص")
	if out != "نص\n" {
		t.Errorf("got %q", out)
	}
}

// Scenario: object-like macro.
func TestObjectMacro(t *testing.T) {
	out, pp := mustProcess(t, "#تعريف MAX 100\nMAX\n")
	lines := strings.Split(out, "\n")
	if lines[0] != "" {
		t.Errorf("directive line must become blank, got %q", lines[0])
	}
	if lines[1] != "100" {
		t.Errorf("line 2 = %q, want 100", lines[1])
	}
	if m := pp.MacroTable()["MAX"]; m == nil || m.Body != "100" {
		t.Error("macro table must hold MAX=100 after the run")
	}
}

// Scenario: stringify does not pre-expand its argument.
func TestStringifyAndPaste(t *testing.T) {
	src := "#تعريف CONCAT(a,b) a##b\n#تعريف STR(x) #x\nSTR(CONCAT(foo, 42))\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, `"CONCAT(foo, 42)"`) {
		t.Errorf("output %q must contain the stringified raw argument", out)
	}
}

func TestPasteJoinsTokens(t *testing.T) {
	src := "#تعريف CONCAT(a,b) a##b\nCONCAT(foo, 42)\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, "foo42") {
		t.Errorf("output %q must contain foo42", out)
	}
}

// Scenario: variadic macro.
func TestVariadicMacro(t *testing.T) {
	src := "#تعريف LOG(fmt, وسائط_إضافية) printf(fmt, __وسائط_متغيرة__)\nLOG(\"%d %d\", 1, 2)\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, `printf("%d %d", 1, 2)`) {
		t.Errorf("output %q", out)
	}
}

func TestVariadicEmptyTrailing(t *testing.T) {
	src := "#تعريف LOG(fmt, وسائط_إضافية) printf(fmt, __وسائط_متغيرة__)\nLOG(\"مرحبا\")\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, `printf("مرحبا", )`) {
		t.Errorf("output %q", out)
	}
}

func TestFunctionMacroArityMismatch(t *testing.T) {
	src := "#تعريف م(أ,ب) أ+ب\nم(1)\n"
	_, pp, err := processString(t, src)
	if err == nil {
		t.Fatal("expected failure")
	}
	found := false
	for _, d := range pp.Sink().Diagnostics {
		if d.Category == diagnostics.CategoryMacro {
			found = true
		}
	}
	if !found {
		t.Error("arity mismatch must be a macro-category diagnostic")
	}
}

func TestFunctionMacroWithoutParensIsVerbatim(t *testing.T) {
	src := "#تعريف م(أ) أ\nم\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, "م") {
		t.Errorf("output %q must keep the bare name", out)
	}
}

// Scenario: conditional compilation.
func TestConditionalBasic(t *testing.T) {
	src := "#إذا 1+1==2\nA\n#إلا\nB\n#نهاية_إذا\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, "A") {
		t.Error("active branch lost")
	}
	if strings.Contains(out, "B") {
		t.Error("inactive branch leaked")
	}
}

func TestConditionalElifChain(t *testing.T) {
	src := "#إذا 0\nA\n#وإلا_إذا 1\nB\n#وإلا_إذا 1\nC\n#إلا\nD\n#نهاية_إذا\n"
	out, _ := mustProcess(t, src)
	for _, bad := range []string{"A", "C", "D"} {
		if strings.Contains(out, bad) {
			t.Errorf("branch %s leaked: %q", bad, out)
		}
	}
	if !strings.Contains(out, "B") {
		t.Error("first true elif branch lost")
	}
}

func TestIfdefIfndef(t *testing.T) {
	src := "#تعريف موجود 1\n#إذا_عرف موجود\nA\n#نهاية_إذا\n#إذا_لم_يعرف موجود\nB\n#نهاية_إذا\n#إذا_لم_يعرف غائب\nC\n#نهاية_إذا\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, "A") || strings.Contains(out, "B") || !strings.Contains(out, "C") {
		t.Errorf("output %q", out)
	}
}

func TestNestedConditionalsInSkippedRegion(t *testing.T) {
	src := "#إذا 0\n#إذا 1\nA\n#إلا\nB\n#نهاية_إذا\n#نهاية_إذا\nC\n"
	out, pp := mustProcess(t, src)
	if strings.Contains(out, "A") || strings.Contains(out, "B") {
		t.Errorf("nested skipped branches leaked: %q", out)
	}
	if !strings.Contains(out, "C") {
		t.Error("text after the block lost")
	}
	if pp.condStack.Count() != 0 {
		t.Error("conditional stack must be empty")
	}
}

func TestParallelStacksStayEqual(t *testing.T) {
	src := "#إذا 1\n#إذا 0\n#إلا\n#نهاية_إذا\n#نهاية_إذا\n"
	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New(nil, sink)
	if _, err := pp.ProcessString("اختبار.ب", src); err != nil {
		t.Fatal(err)
	}
	if pp.condStack.Count() != pp.takenStack.Count() {
		t.Errorf("stacks drifted: %d vs %d", pp.condStack.Count(), pp.takenStack.Count())
	}
}

func TestMissingEndifDiagnosed(t *testing.T) {
	_, pp, err := processString(t, "#إذا 1\nA\n")
	if err == nil {
		t.Fatal("expected failure")
	}
	found := false
	for _, d := range pp.Sink().Diagnostics {
		if d.Category == diagnostics.CategoryConditional {
			found = true
		}
	}
	if !found {
		t.Error("missing نهاية_إذا must be a conditional diagnostic")
	}
}

func TestStrayElseDiagnosed(t *testing.T) {
	_, _, err := processString(t, "#إلا\n")
	if err == nil {
		t.Fatal("expected failure")
	}
}

func TestLineCountPreserved(t *testing.T) {
	src := "#تعريف س 1\nنص\n#إذا 0\nمخفي\n#نهاية_إذا\nآخر\n"
	out, _ := mustProcess(t, src)
	gotLines := strings.Count(out, "\n")
	wantLines := strings.Count(src, "\n")
	if gotLines != wantLines {
		t.Errorf("line count %d, want %d\noutput: %q", gotLines, wantLines, out)
	}
}

func TestLineDirective(t *testing.T) {
	src := "#سطر 99\n__السطر__\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, "\"100\"") {
		t.Errorf("output %q, want line 100 reported", out)
	}
}

func TestLineDirectiveWithFile(t *testing.T) {
	src := "#سطر 10 \"آخر.ب\"\n__الملف__\n"
	out, _ := mustProcess(t, src)
	if !strings.Contains(out, "آخر.ب") {
		t.Errorf("output %q, want overridden file name", out)
	}
}

func TestDynamicFileMacro(t *testing.T) {
	out, _ := mustProcess(t, "__الملف__\n")
	if !strings.Contains(out, "\"اختبار.ب\"") {
		t.Errorf("output %q", out)
	}
}

func TestErrorDirectiveIsFatal(t *testing.T) {
	_, pp, err := processString(t, "#خطأ \"مشكلة كبيرة\"\nبعدها\n")
	if err == nil {
		t.Fatal("expected failure")
	}
	if pp.Sink().Count(diagnostics.SeverityFatal) != 1 {
		t.Errorf("want 1 fatal, got %d", pp.Sink().Count(diagnostics.SeverityFatal))
	}
	if !strings.Contains(err.Error(), "مشكلة كبيرة") {
		t.Errorf("summary %q must carry the message", err.Error())
	}
}

func TestWarningDirectiveContinues(t *testing.T) {
	out, pp := mustProcess(t, "#تحذير \"انتبه\"\nنص\n")
	if pp.Sink().Count(diagnostics.SeverityWarning) != 1 {
		t.Errorf("want 1 warning, got %d", pp.Sink().Count(diagnostics.SeverityWarning))
	}
	if !strings.Contains(out, "نص") {
		t.Error("processing must continue after a warning")
	}
}

func TestUnknownDirective(t *testing.T) {
	_, pp, err := processString(t, "#مجهول شيء\n")
	if err == nil {
		t.Fatal("expected failure")
	}
	found := false
	for _, d := range pp.Sink().Diagnostics {
		if d.Category == diagnostics.CategoryDirective {
			found = true
		}
	}
	if !found {
		t.Error("unknown directive must carry the directive category")
	}
}

func TestRescanCapSingleDiagnostic(t *testing.T) {
	// A chain long past the cap: م0 → م1 → … Each substitution costs a
	// rescan pass, so a 300-deep chain breaches the 256 default.
	var sb strings.Builder
	const depth = 300
	for i := 0; i < depth; i++ {
		sb.WriteString("#تعريف م")
		sb.WriteString(itoa(i))
		sb.WriteString(" م")
		sb.WriteString(itoa(i + 1))
		sb.WriteString("\n")
	}
	sb.WriteString("م0\n")

	_, pp, err := processString(t, sb.String())
	if err == nil {
		t.Fatal("expected failure")
	}
	count := 0
	for _, d := range pp.Sink().Diagnostics {
		if d.Category == diagnostics.CategoryMacro {
			count++
		}
	}
	if count != 1 {
		t.Errorf("rescan cap must produce exactly one macro diagnostic, got %d", count)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestPragmaOperatorInText(t *testing.T) {
	out, pp := mustProcess(t, "أمر_براغما(\"مرة_واحدة\")\nنص\n")
	if strings.Contains(out, "أمر_براغما") {
		t.Errorf("pragma operator must be consumed, got %q", out)
	}
	if len(pp.pragmaOnce) != 1 {
		t.Errorf("pragma-once set size = %d, want 1", len(pp.pragmaOnce))
	}
}

func TestIncludeQuoted(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSourceFileInDir(t, dir, "رأس.ب", "#تعريف من_الرأس 7\n")
	main := testutil.WriteSourceFileInDir(t, dir, "رئيسي.ب", "#تضمين \"رأس.ب\"\nمن_الرأس\n")

	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New(nil, sink)
	out, err := pp.ProcessFile(main)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if !strings.Contains(out, "7") {
		t.Errorf("output %q must contain the macro from the header", out)
	}
}

func TestIncludeAngleUsesSearchList(t *testing.T) {
	incDir := t.TempDir()
	testutil.WriteSourceFileInDir(t, incDir, "مكتبة.ب", "نص_المكتبة\n")
	srcDir := t.TempDir()
	main := testutil.WriteSourceFileInDir(t, srcDir, "رئيسي.ب", "#تضمين <مكتبة.ب>\n")

	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New([]string{incDir}, sink)
	out, err := pp.ProcessFile(main)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if !strings.Contains(out, "نص_المكتبة") {
		t.Errorf("output %q", out)
	}
}

func TestIncludeNotFound(t *testing.T) {
	dir := t.TempDir()
	main := testutil.WriteSourceFileInDir(t, dir, "رئيسي.ب", "#تضمين \"غائب.ب\"\n")

	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New(nil, sink)
	if _, err := pp.ProcessFile(main); err == nil {
		t.Fatal("expected failure")
	}
}

// Scenario: pragma once emits the file exactly once.
func TestPragmaOnce(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSourceFileInDir(t, dir, "مرة.ب", "#براغما مرة_واحدة\nمحتوى_فريد\n")
	main := testutil.WriteSourceFileInDir(t, dir, "رئيسي.ب",
		"#تضمين \"مرة.ب\"\n#تضمين \"مرة.ب\"\n")

	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New(nil, sink)
	out, err := pp.ProcessFile(main)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if got := strings.Count(out, "محتوى_فريد"); got != 1 {
		t.Errorf("content appeared %d times, want 1\n%q", got, out)
	}
}

// Scenario: circular include yields exactly one diagnostic, at the inner
// #تضمين site.
func TestCircularInclude(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSourceFileInDir(t, dir, "أ.ب", "#تضمين \"ب.ب\"\n")
	testutil.WriteSourceFileInDir(t, dir, "ب.ب", "#تضمين \"أ.ب\"\n")
	main := filepath.Join(dir, "أ.ب")

	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New(nil, sink)
	_, err := pp.ProcessFile(main)
	if err == nil {
		t.Fatal("expected failure")
	}

	count := 0
	var circ *diagnostics.Diagnostic
	for _, d := range sink.Diagnostics {
		if strings.Contains(d.Message, "دائري") {
			count++
			circ = d
		}
	}
	if count != 1 {
		t.Fatalf("got %d circular diagnostics, want 1", count)
	}
	if !strings.HasSuffix(circ.File, "ب.ب") {
		t.Errorf("diagnostic must point inside ب.ب, got %q", circ.File)
	}
	if pp.openFiles.Count() != 0 {
		t.Error("open-files stack must unwind")
	}
}

func TestOpenFilesStackHasNoDuplicates(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSourceFileInDir(t, dir, "داخلي.ب", "داخل\n")
	main := testutil.WriteSourceFileInDir(t, dir, "رئيسي.ب",
		"#تضمين \"داخلي.ب\"\n#تضمين \"داخلي.ب\"\n")

	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New(nil, sink)
	out, err := pp.ProcessFile(main)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	// Including the same file twice sequentially is legal.
	if got := strings.Count(out, "داخل"); got != 2 {
		t.Errorf("content appeared %d times, want 2", got)
	}
}

func TestDiagnosticFormat(t *testing.T) {
	_, pp, err := processString(t, "#مجهول\n")
	if err == nil {
		t.Fatal("expected failure")
	}
	d := pp.Sink().Diagnostics[0]
	formatted := d.Format()
	if !strings.Contains(formatted, "اختبار.ب:1:1:") {
		t.Errorf("diagnostic %q must carry file:line:column", formatted)
	}
	if !strings.Contains(err.Error(), "تم العثور على") {
		t.Errorf("summary header missing: %q", err.Error())
	}
}
