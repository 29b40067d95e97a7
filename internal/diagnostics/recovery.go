package diagnostics

// Action is what the producing stage should do after reporting a problem.
type Action int

const (
	ActionContinue Action = iota
	ActionSkipLine
	ActionSkipDirective
	ActionSyncConditional
	ActionHalt
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionSkipLine:
		return "skip-line"
	case ActionSkipDirective:
		return "skip-directive"
	case ActionSyncConditional:
		return "sync-conditional"
	case ActionHalt:
		return "halt"
	}
	return "continue"
}

// CascadeLimit is how many consecutive errors are tolerated before recovery
// escalates to a halt.
const CascadeLimit = 10

// RecoveryState tracks error clustering so policy code can decide between
// continuing, skipping and halting.
type RecoveryState struct {
	ConsecutiveErrors int
	ErrorsThisLine    int
	DirectiveErrors   int
	ExpressionErrors  int
	Context           string

	lastErrorLine int
}

func (r *RecoveryState) recordError(d *Diagnostic) {
	r.ConsecutiveErrors++
	line := 0
	if d.Location.Start != nil {
		line = d.Location.Start.Line
	}
	if line == r.lastErrorLine {
		r.ErrorsThisLine++
	} else {
		r.ErrorsThisLine = 1
		r.lastErrorLine = line
	}
	switch d.Category {
	case CategoryDirective:
		r.DirectiveErrors++
	case CategoryExpression:
		r.ExpressionErrors++
	}
}

// NoteProgress resets the consecutive-error and errors-this-line counters;
// the preprocessor calls it after each expanded text line.
func (r *RecoveryState) NoteProgress() {
	r.ConsecutiveErrors = 0
	r.ErrorsThisLine = 0
}

// SetContext labels where processing currently is, for recovery decisions
// and debugging.
func (r *RecoveryState) SetContext(label string) {
	r.Context = label
}

// ActionFor selects the recovery action for an error of the given category.
// A run of CascadeLimit consecutive errors escalates to a halt regardless of
// category.
func (s *Sink) ActionFor(cat Category) Action {
	if s.halted {
		return ActionHalt
	}
	if s.Recovery.ConsecutiveErrors >= CascadeLimit {
		return ActionHalt
	}
	switch cat {
	case CategoryDirective:
		return ActionSkipDirective
	case CategoryConditional:
		return ActionSyncConditional
	case CategoryExpression:
		return ActionContinue
	case CategoryMacro:
		return ActionContinue
	case CategoryFile, CategoryEncoding:
		return ActionSkipLine
	case CategoryMemory:
		return ActionHalt
	}
	return ActionContinue
}
