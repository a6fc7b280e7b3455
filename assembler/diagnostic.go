package assembler

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Render prints err the way the assembler reports failures: the stage and
// message, then the offending source line with '~' under the bad field.
// Errors without a source line print the message only.
func Render(w io.Writer, src string, err error) {
	var e *Error
	if !errors.As(err, &e) {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return
	}

	fmt.Fprintf(w, "%s ERROR: %s\n", e.Stage, e.Msg)
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return
	}

	text := lines[e.Line-1]
	start, end := 0, len(text)
	if e.Segment != WholeLine {
		if s, en, ok := segmentSpan(text, e.Segment); ok {
			start, end = s, en
		}
	}

	num := strconv.Itoa(e.Line)
	fmt.Fprintf(w, "%s\t%s\n", num, text)
	fmt.Fprintf(w, "%s\t%s%s\n",
		strings.Repeat(" ", len(num)),
		blank(text[:start]),
		strings.Repeat("~", utf8.RuneCountInString(text[start:end])))
}

// segmentSpan finds the byte range of the n-th whitespace-separated field.
func segmentSpan(line string, n int) (int, int, bool) {
	field := -1
	start := -1
	for i, r := range line {
		space := r == ' ' || r == '\t'
		switch {
		case !space && start == -1:
			start = i
			field++
		case space && start != -1:
			if field == n {
				return start, i, true
			}
			start = -1
		}
	}
	if start != -1 && field == n {
		return start, len(line), true
	}
	return 0, 0, false
}

// blank keeps tabs so the underline stays aligned with the source.
func blank(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, s)
}
