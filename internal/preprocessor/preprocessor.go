package preprocessor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"baa/internal/diagnostics"
	"baa/internal/source"
	"baa/internal/utils/stack"
)

// Default effort caps, configurable through Options.
const (
	defaultMaxRescanPasses     = 256
	defaultMaxConditionalDepth = 64
	defaultMaxSyncLines        = 1000
	defaultMaxSyncChars        = 4096
)

// frame is one entry of the original-source-location stack, recording where
// an include or expansion was entered.
type frame struct {
	File   string
	Line   int
	Column int
}

// Options tunes the preprocessor's effort caps.
type Options struct {
	MaxRescanPasses     int
	MaxConditionalDepth int
	MaxSyncLines        int
	MaxSyncChars        int
}

// DefaultOptions returns the experimentally tuned defaults.
func DefaultOptions() Options {
	return Options{
		MaxRescanPasses:     defaultMaxRescanPasses,
		MaxConditionalDepth: defaultMaxConditionalDepth,
		MaxSyncLines:        defaultMaxSyncLines,
		MaxSyncChars:        defaultMaxSyncChars,
	}
}

// Preprocessor is the process-scoped state for one translation unit. A fresh
// Preprocessor is built per run; nothing is shared between runs.
type Preprocessor struct {
	includePaths []string
	sink         *diagnostics.Sink
	opts         Options

	openFiles  *stack.Stack[string]
	macros     map[string]*Macro
	condStack  *stack.Stack[bool]
	takenStack *stack.Stack[bool]
	expanding  *stack.Stack[*Macro]
	locations  *stack.Stack[frame]
	pragmaOnce map[string]struct{}

	skipping bool

	curFile string
	curLine int
	curCol  int

	rescanPasses  int
	rescanErrored bool
	halted        bool

	// pendingDirectiveSync asks the line loop to resynchronise at the
	// next directive line; pendingLineSync drops the remainder of the
	// line being expanded.
	pendingDirectiveSync bool
	pendingLineSync      bool
}

// New creates a preprocessor over the given include search list, reporting
// into the given sink.
func New(includePaths []string, sink *diagnostics.Sink) *Preprocessor {
	return NewWithOptions(includePaths, sink, DefaultOptions())
}

func NewWithOptions(includePaths []string, sink *diagnostics.Sink, opts Options) *Preprocessor {
	pp := &Preprocessor{
		includePaths: includePaths,
		sink:         sink,
		opts:         opts,
		openFiles:    stack.New[string](),
		macros:       make(map[string]*Macro),
		condStack:    stack.New[bool](),
		takenStack:   stack.New[bool](),
		expanding:    stack.New[*Macro](),
		locations:    stack.New[frame](),
		pragmaOnce:   make(map[string]struct{}),
	}
	pp.installPredefinedMacros()
	return pp
}

// Sink exposes the diagnostic sink for callers that want the raw list.
func (pp *Preprocessor) Sink() *diagnostics.Sink {
	return pp.sink
}

// MacroTable exposes the macro table for inspection in drivers and tests.
func (pp *Preprocessor) MacroTable() map[string]*Macro {
	return pp.macros
}

// installPredefinedMacros seeds the six predefined macros with their per-run
// values. __الملف__ and __السطر__ are dynamic and handled during expansion.
func (pp *Preprocessor) installPredefinedMacros() {
	now := time.Now()
	date := fmt.Sprintf("%q", now.Format("Jan 02 2006"))
	clock := fmt.Sprintf("%q", now.Format("15:04:05"))

	pp.macros["__التاريخ__"] = &Macro{Name: "__التاريخ__", Body: date, Predefined: true}
	pp.macros["__الوقت__"] = &Macro{Name: "__الوقت__", Body: clock, Predefined: true}
	pp.macros["__إصدار_المعيار_باء__"] = &Macro{Name: "__إصدار_المعيار_باء__", Body: "10150L", Predefined: true}
	pp.macros["__الدالة__"] = &Macro{Name: "__الدالة__", Body: "\"__BAA_FUNCTION_PLACEHOLDER__\"", Predefined: true}
}

// ProcessFile preprocesses a file on disk. On success it returns the fully
// processed translation unit; on any error it returns the diagnostic
// summary as the error and no text.
func (pp *Preprocessor) ProcessFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Annotatef(err, "تعذر تحويل المسار %q", path)
	}

	text, err := readSourceFile(abs)
	if err != nil {
		pp.sink.AddFatal(abs, source.Location{}, 3001, diagnostics.CategoryFile,
			"تعذر قراءة الملف %q", path)
		return "", errors.New(pp.sink.Summary())
	}

	out := pp.runUnit(abs, text)
	return pp.finish(out)
}

// ProcessString preprocesses an in-memory source with a synthetic name. An
// empty name is replaced with a unique generated one so diagnostics from two
// anonymous sources never collide.
func (pp *Preprocessor) ProcessString(name, text string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("<متن:%.8s>", uuid.NewString())
	}
	out := pp.runUnit(name, text)
	return pp.finish(out)
}

// runUnit processes the top-level source text of a run.
func (pp *Preprocessor) runUnit(name, text string) string {
	pp.openFiles.Push(name)
	defer pp.openFiles.Pop()

	pp.curFile = name
	pp.curLine = 1
	pp.curCol = 1

	out := pp.processText(text)

	if pp.condStack.Count() > 0 {
		pp.reportError(3102, diagnostics.CategoryConditional,
			"كتلة شرطية غير مغلقة: #نهاية_إذا مفقودة في نهاية الملف")
	}
	return out
}

// finish applies the success-or-summary contract.
func (pp *Preprocessor) finish(out string) (string, error) {
	if pp.sink.HasErrors() {
		return "", errors.New(pp.sink.Summary())
	}
	return out, nil
}

// here returns the preprocessor's current physical location as a span.
func (pp *Preprocessor) here() source.Location {
	return source.Span(
		source.Position{Line: pp.curLine, Column: pp.curCol},
		source.Position{Line: pp.curLine, Column: pp.curCol},
	)
}

func (pp *Preprocessor) reportError(code int, cat diagnostics.Category, format string, args ...any) {
	pp.sink.AddError(pp.curFile, pp.here(), code, cat, format, args...)
	pp.applyRecovery(cat)
}

func (pp *Preprocessor) reportWarning(code int, cat diagnostics.Category, format string, args ...any) {
	pp.sink.AddWarning(pp.curFile, pp.here(), code, cat, format, args...)
}

func (pp *Preprocessor) reportFatal(code int, cat diagnostics.Category, format string, args ...any) {
	pp.sink.AddFatal(pp.curFile, pp.here(), code, cat, format, args...)
	pp.halted = true
}

// applyRecovery dispatches the category's recovery action. Skip-directive
// and sync-conditional scan forward to the next directive line; skip-line
// abandons the remainder of the line being processed.
func (pp *Preprocessor) applyRecovery(cat diagnostics.Category) {
	switch pp.sink.ActionFor(cat) {
	case diagnostics.ActionHalt:
		pp.halted = true
	case diagnostics.ActionSkipDirective:
		pp.pendingDirectiveSync = true
	case diagnostics.ActionSkipLine:
		pp.pendingLineSync = true
	case diagnostics.ActionSyncConditional:
		pp.repairConditionals()
		pp.pendingDirectiveSync = true
	}
}
