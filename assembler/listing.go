package assembler

import (
	"fmt"
	"io"
	"strings"
)

// SourceMap maps the offset of every linked node to its source line.
func SourceMap(nodes []LinkedNode) map[int]int {
	m := make(map[int]int, len(nodes))
	for _, n := range nodes {
		m[n.Offset] = n.Line
	}
	return m
}

// Listing writes one row per node: offset, encoded bytes and the source line
// that produced it.
func Listing(w io.Writer, u *Unit, nodes []LinkedNode) error {
	for _, n := range nodes {
		src := "(prologue)"
		if n.Line > 0 {
			src = fmt.Sprintf("%d: %s", n.Line, strings.TrimSpace(u.Source(n.Line)))
		}
		if _, err := fmt.Fprintf(w, "%04X  %-12s ; %s\n", n.Offset, spaced(n.Hex()), src); err != nil {
			return err
		}
	}
	return nil
}

// spaced splits a hex string into space-separated byte pairs.
func spaced(h string) string {
	var b strings.Builder
	for i := 0; i+2 <= len(h); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(h[i : i+2])
	}
	return b.String()
}
