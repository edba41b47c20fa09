package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// BacktraceItem records one failing call-site: the name of the function
// called and its position in the accumulated source buffer.
type BacktraceItem struct {
	Name string
	Line int
	Col  int
}

// Render formats an Error with its source marker and, when the backtrace is
// non-empty, the call chain that led to it. IterationLimitReached suppresses
// both the marker and the backtrace per spec.
func Render(err *Error, source string, backtrace []BacktraceItem) string {
	if err.Kind == IterationLimitReached {
		return "Error: " + err.Error()
	}

	padding := len(strconv.Itoa(lineCount(source)))

	var sb strings.Builder
	if len(backtrace) > 0 {
		sb.WriteString(renderBacktrace(backtrace, padding))
	}
	sb.WriteString(renderMarker(source, err.Context, err.Pos, padding))
	sb.WriteString("\nError: ")
	sb.WriteString(err.Error())
	return sb.String()
}

func lineCount(s string) int {
	n := strings.Count(s, "\n") + 1
	return n
}

// LineColumn returns the 1-based (line, column) of byte offset pos in text.
// Exported so the evaluator can stamp backtrace items with a call site's
// human-readable position (§4.5 FunctionCall.call).
func LineColumn(pos int, text string) (int, int) { return lineColumn(pos, text) }

// lineColumn returns the 1-based (line, column) of byte offset pos in text.
func lineColumn(pos int, text string) (int, int) {
	line := 1
	col := 1
	for i := 0; i < pos && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// renderMarker reproduces the original interpreter's source-marker layout:
// extend the context to full lines, print a right-aligned line-number
// gutter, then a caret line under the exact failing character.
func renderMarker(text string, ctx Context, pos int, padding int) string {
	padding++

	end := ctx.End
	if end > 0 && end <= len(text) && end-1 < len(text) && text[end-1] == '\n' {
		end--
	}
	start := ctx.Start

	lineToStart, distFromLineStart := lineColumn(start, text)
	start = start - (distFromLineStart - 1)
	pos += distFromLineStart - 1

	count := 0
	limit := len(text)
	if limit > 0 {
		limit--
	}
	for i := end; i < limit; i++ {
		if text[i] == '\n' {
			break
		}
		count++
	}
	end += count

	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	relevant := text[start:end]

	lineToMarkerLine, distFromLastNewline := lineColumn(pos, relevant)
	lineToMarkerLine--

	totalLine := lineToStart + lineToMarkerLine

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("In line %d:\n\n", totalLine))

	currentLine := lineToStart
	newlineCount := 0

	runes := []byte(relevant)
	i := 0

	sb.WriteString(fmt.Sprintf("%*d| ", padding, currentLine))
	currentLine++

	if lineToMarkerLine > 0 {
		for i < len(runes) {
			ch := runes[i]
			sb.WriteByte(ch)
			i++
			if ch == '\n' {
				newlineCount++
				if newlineCount == lineToMarkerLine {
					break
				}
				sb.WriteString(fmt.Sprintf("%*d| ", padding, currentLine))
				currentLine++
			}
		}
	}

	for i < len(runes) {
		ch := runes[i]
		i++
		if ch == '\n' {
			break
		}
		sb.WriteByte(ch)
	}
	sb.WriteByte('\n')

	for n := 1; n < distFromLastNewline+padding+2; n++ {
		sb.WriteByte(' ')
	}
	sb.WriteString("^\n")

	if i < len(runes) {
		sb.WriteString(fmt.Sprintf("%*d| ", padding, currentLine))
		currentLine++
		sb.WriteByte(runes[i])
		i++
	}
	for i < len(runes) {
		ch := runes[i]
		i++
		sb.WriteByte(ch)
		if ch == '\n' {
			sb.WriteString(fmt.Sprintf("%*d| ", padding, currentLine))
			currentLine++
		}
	}

	out := sb.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func renderBacktrace(items []BacktraceItem, padding int) string {
	var sb strings.Builder
	sb.WriteString("Backtrace:\n\n")
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("  %s called at %*d:%d\n", it.Name, padding, it.Line, it.Col))
	}
	sb.WriteString("  root\n\n")
	sb.WriteString(fmt.Sprintf("In function %s:\n", items[0].Name))
	return sb.String()
}
