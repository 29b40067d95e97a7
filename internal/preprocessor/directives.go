package preprocessor

import (
	"os"
	"path/filepath"
	"strings"

	"baa/internal/charutils"
	"baa/internal/diagnostics"
	"baa/internal/wbuffer"
)

// Directive names, all Arabic.
const (
	dirInclude = "تضمين"
	dirDefine  = "تعريف"
	dirUndef   = "الغاء_تعريف"
	dirIf      = "إذا"
	dirIfdef   = "إذا_عرف"
	dirIfndef  = "إذا_لم_يعرف"
	dirElif    = "وإلا_إذا"
	dirElse    = "إلا"
	dirEndif   = "نهاية_إذا"
	dirError   = "خطأ"
	dirWarning = "تحذير"
	dirLine    = "سطر"
	dirPragma  = "براغما"
)

// parseDirectiveName splits "name rest" after the leading '#'.
func parseDirectiveName(afterHash string) (name, rest string) {
	runes := []rune(afterHash)
	i := 0
	for i < len(runes) && charutils.IsIdentPart(runes[i]) {
		i++
	}
	name = string(runes[:i])
	rest = strings.TrimLeft(string(runes[i:]), " \t")
	return name, rest
}

func isConditionalDirective(name string) bool {
	switch name {
	case dirIf, dirIfdef, dirIfndef, dirElif, dirElse, dirEndif:
		return true
	}
	return false
}

// handleDirective dispatches one directive line. It returns true when the
// directive emitted its own output (only inclusion does); the caller emits a
// blank line otherwise. Conditional directives always run; everything else
// runs only in active regions.
func (pp *Preprocessor) handleDirective(trimmed string, out *wbuffer.Buffer) bool {
	name, rest := parseDirectiveName(strings.TrimPrefix(trimmed, "#"))

	if isConditionalDirective(name) {
		pp.handleConditional(name, rest)
		return false
	}

	if pp.skipping {
		return false
	}

	switch name {
	case dirInclude:
		return pp.handleInclude(rest, out)
	case dirDefine:
		pp.handleDefine(rest)
	case dirUndef:
		pp.handleUndef(rest)
	case dirError:
		pp.reportFatal(3301, diagnostics.CategoryDirective, "#خطأ: %s", directiveMessage(rest))
	case dirWarning:
		pp.reportWarning(3302, diagnostics.CategoryDirective, "#تحذير: %s", directiveMessage(rest))
	case dirLine:
		pp.handleLine(rest)
	case dirPragma:
		pp.handlePragma(rest)
	default:
		pp.reportError(3303, diagnostics.CategoryDirective, "توجيه غير معروف '#%s'", name)
	}
	return false
}

// directiveMessage strips the optional quotes around a #خطأ/#تحذير payload.
func directiveMessage(rest string) string {
	rest = strings.TrimSpace(rest)
	if len(rest) >= 2 && strings.HasPrefix(rest, "\"") && strings.HasSuffix(rest, "\"") {
		return rest[1 : len(rest)-1]
	}
	return rest
}

// parseIncludeSpec extracts the path from `"path"` or `<path>`.
func parseIncludeSpec(rest string) (path string, angled, ok bool) {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "\"") {
		end := strings.Index(rest[1:], "\"")
		if end < 0 {
			return "", false, false
		}
		return rest[1 : 1+end], false, true
	}
	if strings.HasPrefix(rest, "<") {
		end := strings.Index(rest, ">")
		if end < 0 {
			return "", false, false
		}
		return rest[1:end], true, true
	}
	return "", false, false
}

// resolveInclude finds the file for an include. The quoted form searches the
// directory of the current file first, then the search list; the angle form
// searches only the list.
func (pp *Preprocessor) resolveInclude(path string, angled bool) (string, bool) {
	var candidates []string
	if !angled {
		candidates = append(candidates, filepath.Join(filepath.Dir(pp.curFile), path))
	}
	for _, dir := range pp.includePaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}

	for _, cand := range candidates {
		if info, err := os.Stat(cand); err == nil && !info.IsDir() {
			return cand, true
		}
	}
	return "", false
}

// handleInclude resolves, reads and recursively processes an included file,
// splicing its output in place. Returns true when content was emitted.
func (pp *Preprocessor) handleInclude(rest string, out *wbuffer.Buffer) bool {
	path, angled, ok := parseIncludeSpec(rest)
	if !ok {
		pp.reportError(3304, diagnostics.CategoryDirective,
			"تنسيق #تضمين غير صالح: متوقع \"مسار\" أو <مسار>")
		return false
	}

	resolved, found := pp.resolveInclude(path, angled)
	if !found {
		pp.reportError(3305, diagnostics.CategoryFile,
			"تعذر العثور على الملف المضمن %q", path)
		return false
	}

	abs, err := filepath.Abs(resolved)
	if err != nil {
		pp.reportError(3306, diagnostics.CategoryFile,
			"تعذر تحويل مسار الملف المضمن %q", resolved)
		return false
	}

	if _, once := pp.pragmaOnce[abs]; once {
		return false
	}

	for _, open := range pp.openFiles.Items() {
		if open == abs {
			pp.reportError(3307, diagnostics.CategoryFile,
				"تضمين دائري للملف %q", path)
			return false
		}
	}

	text, err := readSourceFile(abs)
	if err != nil {
		pp.reportError(3308, diagnostics.CategoryFile,
			"فشل في قراءة الملف المضمن %q", path)
		return false
	}

	pp.openFiles.Push(abs)
	pp.locations.Push(frame{File: pp.curFile, Line: pp.curLine, Column: pp.curCol})

	savedFile, savedLine, savedCol := pp.curFile, pp.curLine, pp.curCol
	pp.curFile, pp.curLine, pp.curCol = abs, 1, 1

	content := pp.processText(text)

	pp.curFile, pp.curLine, pp.curCol = savedFile, savedLine, savedCol
	pp.locations.Pop()
	pp.openFiles.Pop()

	out.AppendString(content)
	return content != ""
}

// handleDefine parses `#تعريف NAME body` and `#تعريف NAME(params) body`.
// A '(' immediately after the name (no whitespace) opens a parameter list;
// the variadic marker may only appear last.
func (pp *Preprocessor) handleDefine(rest string) {
	runes := []rune(rest)
	i := 0
	for i < len(runes) && charutils.IsIdentPart(runes[i]) {
		i++
	}
	if i == 0 {
		pp.reportError(3309, diagnostics.CategoryDirective,
			"تنسيق #تعريف غير صالح: اسم الماكرو مفقود")
		return
	}

	m := &Macro{Name: string(runes[:i])}

	if i < len(runes) && runes[i] == '(' {
		m.IsFunctionLike = true
		i++ // (
		i = pp.parseMacroParams(m, runes, i)
		if i < 0 {
			return
		}
	}

	m.Body = strings.TrimSpace(string(runes[i:]))
	pp.defineMacro(m)
}

// parseMacroParams parses the comma-separated parameter list of a
// function-like macro definition. Returns the index just past ')' or -1 on
// error.
func (pp *Preprocessor) parseMacroParams(m *Macro, runes []rune, i int) int {
	skipWS := func() {
		for i < len(runes) && (runes[i] == ' ' || runes[i] == '\t') {
			i++
		}
	}

	skipWS()
	if i < len(runes) && runes[i] == ')' {
		return i + 1
	}

	for {
		skipWS()
		start := i
		for i < len(runes) && charutils.IsIdentPart(runes[i]) {
			i++
		}
		if i == start {
			pp.reportError(3310, diagnostics.CategoryDirective,
				"تنسيق #تعريف غير صالح: متوقع اسم معامل أو ')' أو '%s' بعد '('", variadicMarker)
			return -1
		}
		param := string(runes[start:i])

		if param == variadicMarker {
			m.IsVariadic = true
			skipWS()
			if i >= len(runes) || runes[i] != ')' {
				pp.reportError(3311, diagnostics.CategoryDirective,
					"تنسيق #تعريف غير صالح: '%s' يجب أن تكون المعامل الأخير", variadicMarker)
				return -1
			}
			return i + 1
		}

		m.Params = append(m.Params, param)
		skipWS()
		if i < len(runes) && runes[i] == ',' {
			i++
			continue
		}
		if i < len(runes) && runes[i] == ')' {
			return i + 1
		}
		pp.reportError(3312, diagnostics.CategoryDirective,
			"تنسيق #تعريف غير صالح: متوقع ',' أو ')' في قائمة المعاملات")
		return -1
	}
}

func (pp *Preprocessor) handleUndef(rest string) {
	runes := []rune(strings.TrimSpace(rest))
	i := 0
	for i < len(runes) && charutils.IsIdentPart(runes[i]) {
		i++
	}
	if i == 0 {
		pp.reportError(3313, diagnostics.CategoryDirective,
			"تنسيق #الغاء_تعريف غير صالح: اسم الماكرو مفقود")
		return
	}
	pp.undefineMacro(string(runes[:i]))
}

// handleLine implements `#سطر N` and `#سطر N "file"`. The arguments are
// macro-expanded first. The next physical line reports as N+1.
func (pp *Preprocessor) handleLine(rest string) {
	expanded := strings.TrimSpace(pp.expandLine(rest))
	runes := []rune(expanded)

	i := 0
	value := 0
	sawDigit := false
	for i < len(runes) {
		d := charutils.DigitValue(runes[i])
		if d < 0 {
			break
		}
		value = value*10 + d
		sawDigit = true
		i++
	}
	if !sawDigit {
		pp.reportError(3314, diagnostics.CategoryDirective,
			"تنسيق #سطر غير صالح: متوقع رقم السطر")
		return
	}

	file := ""
	restStr := strings.TrimSpace(string(runes[i:]))
	if restStr != "" {
		if len(restStr) >= 2 && strings.HasPrefix(restStr, "\"") && strings.HasSuffix(restStr, "\"") {
			file = restStr[1 : len(restStr)-1]
		} else {
			pp.reportError(3315, diagnostics.CategoryDirective,
				"تنسيق #سطر غير صالح: متوقع اسم ملف بين علامتي اقتباس")
			return
		}
	}

	// The line loop increments after the directive, so the next physical
	// line lands on value+1.
	pp.curLine = value
	if file != "" {
		pp.curFile = file
	}
}

// handlePragma implements `#براغما`. Only مرة_واحدة is recognized; unknown
// pragma names are silently ignored.
func (pp *Preprocessor) handlePragma(rest string) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}
	if fields[0] == "مرة_واحدة" {
		key := pp.curFile
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		pp.pragmaOnce[key] = struct{}{}
	}
}
