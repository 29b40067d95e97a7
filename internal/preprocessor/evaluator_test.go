package preprocessor

import (
	"testing"

	"baa/internal/diagnostics"
)

func newTestPP() *Preprocessor {
	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := New(nil, sink)
	pp.curFile = "اختبار.ب"
	pp.curLine = 1
	return pp
}

func TestEvalArithmetic(t *testing.T) {
	for _, tc := range []struct {
		expr string
		want int64
	}{
		{"1+1", 2},
		{"2*3+4", 10},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10/3", 3},
		{"10%3", 1},
		{"-5+2", -3},
		{"+7", 7},
		{"1 << 4", 16},
		{"256 >> 4", 16},
		{"0xFF", 255},
		{"0b101", 5},
		{"010", 8},   // leading zero is octal
		{"0", 0},
		{"٣ + ٤", 7}, // Arabic-Indic digits
	} {
		pp := newTestPP()
		got, ok := pp.evalConditionExpression(tc.expr)
		if !ok {
			t.Errorf("%q: evaluation failed", tc.expr)
			continue
		}
		if got != tc.want {
			t.Errorf("%q = %d, want %d", tc.expr, got, tc.want)
		}
	}
}

func TestEvalComparisonsAndLogic(t *testing.T) {
	for _, tc := range []struct {
		expr string
		want int64
	}{
		{"1+1==2", 1},
		{"1 != 1", 0},
		{"3 < 4", 1},
		{"4 <= 4", 1},
		{"5 > 9", 0},
		{"1 && 0", 0},
		{"1 || 0", 1},
		{"!0", 1},
		{"!5", 0},
		{"~0", -1},
		{"5 & 3", 1},
		{"5 | 2", 7},
		{"5 ^ 1", 4},
		{"1 ? 10 : 20", 10},
		{"0 ? 10 : 20", 20},
		{"1 == 1 ? 2 + 3 : 9", 5},
	} {
		pp := newTestPP()
		got, ok := pp.evalConditionExpression(tc.expr)
		if !ok {
			t.Errorf("%q: evaluation failed", tc.expr)
			continue
		}
		if got != tc.want {
			t.Errorf("%q = %d, want %d", tc.expr, got, tc.want)
		}
	}
}

func TestEvalUndefinedIdentifierIsZero(t *testing.T) {
	pp := newTestPP()
	got, ok := pp.evalConditionExpression("غير_معروف + 1")
	if !ok || got != 1 {
		t.Errorf("got (%d, %v), want (1, true)", got, ok)
	}
}

func TestEvalMacroExpansion(t *testing.T) {
	pp := newTestPP()
	pp.defineMacro(&Macro{Name: "حد", Body: "100"})
	got, ok := pp.evalConditionExpression("حد == 100")
	if !ok || got != 1 {
		t.Errorf("got (%d, %v), want (1, true)", got, ok)
	}
}

func TestEvalDefinedOperator(t *testing.T) {
	pp := newTestPP()
	pp.defineMacro(&Macro{Name: "س", Body: "7"})

	for _, tc := range []struct {
		expr string
		want int64
	}{
		{"معرف(س)", 1},
		{"معرف س", 1},
		{"معرف(غائب)", 0},
		{"معرف غائب", 0},
		{"معرف(س) && س == 7", 1},
		{"معرف(__الملف__)", 1}, // dynamic predefined names count as defined
		{"معرف(__السطر__)", 1},
		{"معرف(__التاريخ__)", 1},
	} {
		got, ok := pp.evalConditionExpression(tc.expr)
		if !ok {
			t.Errorf("%q: evaluation failed", tc.expr)
			continue
		}
		if got != tc.want {
			t.Errorf("%q = %d, want %d", tc.expr, got, tc.want)
		}
	}
}

func TestEvalDefinedDoesNotExpandOperand(t *testing.T) {
	pp := newTestPP()
	pp.defineMacro(&Macro{Name: "أ", Body: "ب"})
	// معرف(أ) asks about أ itself, not about its expansion ب.
	got, ok := pp.evalConditionExpression("معرف(أ)")
	if !ok || got != 1 {
		t.Errorf("got (%d, %v), want (1, true)", got, ok)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	for _, expr := range []string{"1/0", "1%0", "5 / (3-3)"} {
		pp := newTestPP()
		_, ok := pp.evalConditionExpression(expr)
		if ok {
			t.Errorf("%q: expected failure", expr)
			continue
		}
		if !pp.sink.HasErrors() {
			t.Errorf("%q: expected a diagnostic", expr)
		}
		found := false
		for _, d := range pp.sink.Diagnostics {
			if d.Category == diagnostics.CategoryExpression {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: diagnostic category must be expression", expr)
		}
	}
}

func TestEvalSyntaxErrors(t *testing.T) {
	for _, expr := range []string{"", "1 +", "(1", "1 ? 2", "@", "1 2"} {
		pp := newTestPP()
		if _, ok := pp.evalConditionExpression(expr); ok {
			t.Errorf("%q: expected failure", expr)
		}
	}
}
