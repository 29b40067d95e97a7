package preprocessor

import (
	"strings"

	"baa/internal/charutils"
	"baa/internal/diagnostics"
)

// The conditional machinery keeps two parallel stacks: one boolean per open
// block recording whether the current branch is active, and one recording
// whether any branch at that level has been taken. They are always the same
// length.

// updateSkipping recomputes the skip flag: lines are skipped iff any open
// block is inactive.
func (pp *Preprocessor) updateSkipping() {
	pp.skipping = false
	for _, active := range pp.condStack.Items() {
		if !active {
			pp.skipping = true
			return
		}
	}
}

// parentActive reports whether every block except the top one is active.
func (pp *Preprocessor) parentActive() bool {
	items := pp.condStack.Items()
	for i := 0; i < len(items)-1; i++ {
		if !items[i] {
			return false
		}
	}
	return true
}

// setTop replaces the top of the active stack.
func (pp *Preprocessor) setTop(active bool) {
	pp.condStack.Pop()
	pp.condStack.Push(active)
}

// handleConditional dispatches the six conditional directives. These always
// run, even while skipping, so block nesting stays balanced.
func (pp *Preprocessor) handleConditional(name, rest string) {
	switch name {
	case dirIf:
		if pp.skipping {
			// The whole group is inactive; track nesting without
			// evaluating the condition.
			pp.condStack.Push(false)
			pp.takenStack.Push(true)
			break
		}
		value, ok := pp.evalConditionExpression(rest)
		met := ok && value != 0
		pp.condStack.Push(met)
		pp.takenStack.Push(met)

	case dirIfdef, dirIfndef:
		if pp.skipping {
			pp.condStack.Push(false)
			pp.takenStack.Push(true)
			break
		}
		ident := firstIdentifier(rest)
		if ident == "" {
			pp.reportError(3101, diagnostics.CategoryConditional,
				"تنسيق #%s غير صالح: اسم الماكرو مفقود", name)
			pp.condStack.Push(false)
			pp.takenStack.Push(true)
			break
		}
		met := pp.isDefined(ident)
		if name == dirIfndef {
			met = !met
		}
		pp.condStack.Push(met)
		pp.takenStack.Push(met)

	case dirElif:
		if pp.condStack.IsEmpty() {
			pp.reportError(3103, diagnostics.CategoryConditional,
				"#وإلا_إذا بدون #إذا/#إذا_عرف/#إذا_لم_يعرف مطابق")
			break
		}
		if pp.takenStack.Peek() || !pp.parentActive() {
			pp.setTop(false)
			break
		}
		value, ok := pp.evalConditionExpression(rest)
		if ok && value != 0 {
			pp.setTop(true)
			pp.takenStack.Pop()
			pp.takenStack.Push(true)
		} else {
			pp.setTop(false)
		}

	case dirElse:
		if pp.condStack.IsEmpty() {
			pp.reportError(3104, diagnostics.CategoryConditional,
				"#إلا بدون #إذا/#إذا_عرف/#إذا_لم_يعرف مطابق")
			break
		}
		if pp.takenStack.Peek() || !pp.parentActive() {
			pp.setTop(false)
		} else {
			pp.setTop(true)
			pp.takenStack.Pop()
			pp.takenStack.Push(true)
		}

	case dirEndif:
		if pp.condStack.IsEmpty() {
			pp.reportError(3105, diagnostics.CategoryConditional,
				"#نهاية_إذا بدون #إذا/#إذا_عرف/#إذا_لم_يعرف مطابق")
			break
		}
		pp.condStack.Pop()
		pp.takenStack.Pop()
	}

	pp.updateSkipping()
}

// firstIdentifier extracts the leading identifier of a directive argument.
func firstIdentifier(rest string) string {
	runes := []rune(strings.TrimSpace(rest))
	i := 0
	for i < len(runes) && charutils.IsIdentPart(runes[i]) {
		i++
	}
	return string(runes[:i])
}

// repairConditionals is the sync-conditional recovery action: it caps the
// stack depth, re-synchronises the two parallel stacks if they have drifted
// in length, and recomputes the skip flag.
func (pp *Preprocessor) repairConditionals() {
	if pp.condStack.Count() > pp.opts.MaxConditionalDepth {
		pp.condStack.Truncate(pp.opts.MaxConditionalDepth)
	}
	if pp.takenStack.Count() > pp.condStack.Count() {
		pp.takenStack.Truncate(pp.condStack.Count())
	}
	for pp.takenStack.Count() < pp.condStack.Count() {
		pp.takenStack.Push(true)
	}
	pp.updateSkipping()
}
