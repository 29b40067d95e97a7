package preprocessor

import (
	"strings"

	"baa/internal/wbuffer"
)

// splitLines breaks the text into physical lines, dropping the line
// terminators. CRLF is tolerated.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// processText runs the per-line loop over one source text. Directive lines
// and skipped conditional regions are replaced by blank lines so that the
// output's line count tracks the input wherever possible; includes splice
// their processed content in place.
func (pp *Preprocessor) processText(text string) string {
	if text == "" {
		return ""
	}

	out := wbuffer.New(len(text) + 16)
	lines := splitLines(text)

	for i := 0; i < len(lines); i++ {
		if pp.halted || pp.sink.Halted() {
			break
		}

		line := lines[i]
		pp.curCol = 1
		trimmed := strings.TrimLeft(line, " \t")

		switch {
		case strings.HasPrefix(trimmed, "#"):
			pp.sink.Recovery.SetContext("directive")
			if emitted := pp.handleDirective(trimmed, out); !emitted {
				out.AppendRune('\n')
			}
			if pp.pendingDirectiveSync {
				pp.pendingDirectiveSync = false
				next, found := syncToNextDirective(lines, i+1, pp.opts.MaxSyncLines)
				if found {
					for skip := i + 1; skip < next; skip++ {
						out.AppendRune('\n')
						pp.curLine++
					}
					i = next - 1
				}
			}

		case pp.skipping:
			out.AppendRune('\n')

		default:
			pp.sink.Recovery.SetContext("text")
			out.AppendString(pp.expandLine(line))
			out.AppendRune('\n')
			pp.sink.Recovery.NoteProgress()
		}

		// A skip-line raised on a directive line has nothing left to
		// drop; the next line starts clean either way.
		pp.pendingLineSync = false
		pp.curLine++
	}

	return out.String()
}
