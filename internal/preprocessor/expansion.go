package preprocessor

import (
	"fmt"
	"strings"

	"baa/internal/charutils"
	"baa/internal/diagnostics"
	"baa/internal/wbuffer"
)

// pragmaOperator is recognized in expanded text and behaves as an inline
// #براغما whose payload is the unescaped literal.
const (
	pragmaOperator    = "أمر_براغما"
	pragmaOperatorAlt = "براغما"
)

// expandLine resets the per-line rescan budget and expands one text line.
func (pp *Preprocessor) expandLine(line string) string {
	pp.rescanPasses = 0
	pp.rescanErrored = false
	return pp.expandText([]rune(line))
}

// copyLiteral copies a string or char literal verbatim, backslash-aware.
// Returns the index past the closing quote (or end of input).
func copyLiteral(src []rune, i int, out *wbuffer.Buffer) int {
	quote := src[i]
	out.AppendRune(src[i])
	i++
	for i < len(src) {
		c := src[i]
		out.AppendRune(c)
		i++
		if c == '\\' && i < len(src) {
			out.AppendRune(src[i])
			i++
			continue
		}
		if c == quote {
			break
		}
	}
	return i
}

// skipLiteral advances past a literal without emitting it.
func skipLiteral(src []rune, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		c := src[i]
		i++
		if c == '\\' && i < len(src) {
			i++
			continue
		}
		if c == quote {
			break
		}
	}
	return i
}

// quoteFilePath renders a path as a string literal with backslashes escaped.
func quoteFilePath(path string) string {
	escaped := strings.ReplaceAll(path, "\\", "\\\\")
	return "\"" + escaped + "\""
}

// stringify wraps text in quotes, escaping embedded backslashes and quotes.
func stringify(text string) string {
	escaped := strings.ReplaceAll(text, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
	return "\"" + escaped + "\""
}

// expandText scans text left to right, substituting macros. String and char
// literal contents never expand.
func (pp *Preprocessor) expandText(src []rune) string {
	out := wbuffer.New(len(src) + 16)

	i := 0
	for i < len(src) {
		c := src[i]

		if pp.pendingLineSync {
			pp.pendingLineSync = false
			i = syncToNextLine(src, i)
			continue
		}

		if c == '"' || c == '\'' {
			i = copyLiteral(src, i, out)
			continue
		}

		if !charutils.IsIdentStart(c) {
			out.AppendRune(c)
			i++
			continue
		}

		start := i
		for i < len(src) && charutils.IsIdentPart(src[i]) {
			i++
		}
		ident := string(src[start:i])

		if ident == pragmaOperator || ident == pragmaOperatorAlt {
			if next, payload, ok := parsePragmaOperand(src, i); ok {
				pp.handlePragma(payload)
				i = next
				continue
			}
			out.AppendString(ident)
			continue
		}

		// Dynamic predefined macros reflect the current original location.
		if ident == "__الملف__" {
			out.AppendString(quoteFilePath(pp.curFile))
			continue
		}
		if ident == "__السطر__" {
			out.AppendString(fmt.Sprintf("\"%d\"", pp.curLine))
			continue
		}

		macro := pp.macros[ident]
		if macro == nil || pp.isExpanding(macro) {
			out.AppendString(ident)
			continue
		}

		if macro.IsFunctionLike {
			j := i
			for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
				j++
			}
			if j >= len(src) || src[j] != '(' {
				// No argument list; not an invocation.
				out.AppendString(ident)
				continue
			}
			args, va, next, ok := pp.parseMacroArguments(src, j, macro)
			i = next
			if !ok {
				continue
			}
			substituted := pp.substituteBody(macro, args, va)
			out.AppendString(pp.rescan(macro, substituted))
			continue
		}

		out.AppendString(pp.rescan(macro, macro.Body))
	}

	return out.String()
}

// rescan re-expands the text produced by a single macro substitution, with
// the macro pushed on the expansion stack to suppress self-reference. The
// pass cap bounds pathological chains; breaching it reports once.
func (pp *Preprocessor) rescan(m *Macro, text string) string {
	pp.rescanPasses++
	if pp.rescanPasses > pp.opts.MaxRescanPasses {
		if !pp.rescanErrored {
			pp.rescanErrored = true
			pp.reportError(3204, diagnostics.CategoryMacro,
				"تم تجاوز الحد الأقصى لإعادة مسح الماكرو (%d) أثناء توسيع '%s'",
				pp.opts.MaxRescanPasses, m.Name)
		}
		return text
	}

	pp.expanding.Push(m)
	result := pp.expandText([]rune(text))
	pp.expanding.Pop()
	return result
}

// parsePragmaOperand parses `("payload")` after the pragma operator name and
// returns the unescaped literal.
func parsePragmaOperand(src []rune, i int) (next int, payload string, ok bool) {
	j := i
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j >= len(src) || src[j] != '(' {
		return i, "", false
	}
	j++
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j >= len(src) || src[j] != '"' {
		return i, "", false
	}
	j++
	var buf strings.Builder
	for j < len(src) && src[j] != '"' {
		if src[j] == '\\' && j+1 < len(src) {
			j++
		}
		buf.WriteRune(src[j])
		j++
	}
	if j >= len(src) {
		return i, "", false
	}
	j++ // closing quote
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j >= len(src) || src[j] != ')' {
		return i, "", false
	}
	return j + 1, buf.String(), true
}

// parseMacroArguments parses the invocation argument list starting at '('.
// Nested parentheses and literals are respected; top-level commas separate
// arguments. Once a variadic macro's named arguments are collected, the
// trailing argument consumes everything up to the matching ')'.
func (pp *Preprocessor) parseMacroArguments(src []rune, i int, macro *Macro) (args []string, va string, next int, ok bool) {
	named := len(macro.Params)
	i++ // (
	depth := 1

	cur := wbuffer.New(16)
	collectingVA := macro.IsVariadic && named == 0

	flush := func() {
		args = append(args, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	for i < len(src) && depth > 0 {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			i = copyLiteral(src, i, cur)
		case c == '(':
			depth++
			cur.AppendRune(c)
			i++
		case c == ')':
			depth--
			if depth > 0 {
				cur.AppendRune(c)
			}
			i++
		case c == ',' && depth == 1 && !collectingVA:
			flush()
			if macro.IsVariadic && len(args) == named {
				collectingVA = true
			}
			i++
		default:
			cur.AppendRune(c)
			i++
		}
	}

	if depth != 0 {
		pp.reportError(3205, diagnostics.CategoryMacro,
			"قوس الإغلاق ')' مفقود في استدعاء الماكرو '%s'", macro.Name)
		return nil, "", i, false
	}

	if collectingVA {
		va = strings.TrimSpace(cur.String())
	} else if strings.TrimSpace(cur.String()) != "" || len(args) > 0 || named > 0 {
		flush()
	}

	if len(args) != named {
		pp.reportError(3206, diagnostics.CategoryMacro,
			"عدد وسيطات غير صحيح للماكرو '%s' (متوقع %d، تم الحصول على %d)",
			macro.Name, named, len(args))
		return nil, "", i, false
	}

	return args, va, i, true
}

// substituteBody performs parameter substitution, stringify and paste over a
// macro body. Arguments are inserted un-expanded; the caller rescans.
func (pp *Preprocessor) substituteBody(macro *Macro, args []string, va string) string {
	byName := make(map[string]string, len(macro.Params))
	for idx, param := range macro.Params {
		byName[param] = args[idx]
	}

	src := []rune(macro.Body)
	out := wbuffer.New(len(src) + 16)

	i := 0
	for i < len(src) {
		c := src[i]

		if c == '"' || c == '\'' {
			i = copyLiteral(src, i, out)
			continue
		}

		if c == '#' && i+1 < len(src) && src[i+1] == '#' {
			// Paste: strip whitespace around ## so the neighbouring
			// tokens concatenate.
			out.TrimTrailing(" \t")
			i += 2
			for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
				i++
			}
			continue
		}

		if c == '#' {
			j := i + 1
			start := j
			for j < len(src) && charutils.IsIdentPart(src[j]) {
				j++
			}
			ident := string(src[start:j])
			if ident == vaBinder && macro.IsVariadic {
				out.AppendString(stringify(va))
				i = j
				continue
			}
			if value, isParam := byName[ident]; isParam {
				out.AppendString(stringify(value))
				i = j
				continue
			}
			out.AppendRune('#')
			i++
			continue
		}

		if charutils.IsIdentStart(c) {
			j := i
			for j < len(src) && charutils.IsIdentPart(src[j]) {
				j++
			}
			ident := string(src[i:j])
			if ident == vaBinder && macro.IsVariadic {
				out.AppendString(va)
			} else if value, isParam := byName[ident]; isParam {
				out.AppendString(value)
			} else {
				out.AppendString(ident)
			}
			i = j
			continue
		}

		out.AppendRune(c)
		i++
	}

	return out.String()
}
