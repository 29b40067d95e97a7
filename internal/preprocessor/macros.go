package preprocessor

import (
	"strings"

	"baa/internal/diagnostics"
)

// variadicMarker in a parameter list makes the macro variadic; vaBinder in a
// body binds the trailing arguments.
const (
	variadicMarker = "وسائط_إضافية"
	vaBinder       = "__وسائط_متغيرة__"
)

// Macro is one entry of the macro table. Bodies and names are owned strings;
// Params is empty for object-like macros.
type Macro struct {
	Name           string
	Body           string
	IsFunctionLike bool
	IsVariadic     bool
	Params         []string
	Predefined     bool
}

// dynamicMacroNames are predefined names resolved during expansion rather
// than stored with a fixed body.
var dynamicMacroNames = map[string]struct{}{
	"__الملف__":  {},
	"__السطر__": {},
}

// isDefined answers معرف queries: table entries and the dynamic predefined
// names all count.
func (pp *Preprocessor) isDefined(name string) bool {
	if _, ok := dynamicMacroNames[name]; ok {
		return true
	}
	_, ok := pp.macros[name]
	return ok
}

// normalizeBody collapses whitespace runs to a single space and trims both
// ends, for redefinition comparison.
func normalizeBody(body string) string {
	return strings.Join(strings.Fields(body), " ")
}

// sameSignature compares function-likeness, arity and the variadic flag.
// Parameter names do not participate.
func sameSignature(a, b *Macro) bool {
	return a.IsFunctionLike == b.IsFunctionLike &&
		a.IsVariadic == b.IsVariadic &&
		len(a.Params) == len(b.Params)
}

// defineMacro installs a macro, applying the redefinition policy: identical
// redefinition is a silent no-op, incompatible redefinition of a user macro
// warns and replaces, any redefinition of a predefined macro is an error.
func (pp *Preprocessor) defineMacro(m *Macro) {
	if _, dynamic := dynamicMacroNames[m.Name]; dynamic {
		pp.reportError(3201, diagnostics.CategoryMacro,
			"لا يمكن إعادة تعريف الماكرو المدمج '%s'", m.Name)
		return
	}

	existing, ok := pp.macros[m.Name]
	if !ok {
		pp.macros[m.Name] = m
		return
	}

	if existing.Predefined {
		pp.reportError(3201, diagnostics.CategoryMacro,
			"لا يمكن إعادة تعريف الماكرو المدمج '%s'", m.Name)
		return
	}

	if sameSignature(existing, m) && normalizeBody(existing.Body) == normalizeBody(m.Body) {
		return // identical redefinition, silent
	}

	pp.reportWarning(3202, diagnostics.CategoryMacro,
		"إعادة تعريف الماكرو '%s' بجسم مختلف", m.Name)
	pp.macros[m.Name] = m
}

// undefineMacro removes a macro; absent names are a no-op.
func (pp *Preprocessor) undefineMacro(name string) {
	if existing, ok := pp.macros[name]; ok && existing.Predefined {
		pp.reportError(3203, diagnostics.CategoryMacro,
			"لا يمكن إلغاء تعريف الماكرو المدمج '%s'", name)
		return
	}
	delete(pp.macros, name)
}

// isExpanding reports whether the macro is already on the expansion stack.
// Identity comparison; the table is not mutated during expansion.
func (pp *Preprocessor) isExpanding(m *Macro) bool {
	for _, e := range pp.expanding.Items() {
		if e == m {
			return true
		}
	}
	return false
}
