package disassembler

import (
	"fmt"
	"strings"
)

// minStrLen is the shortest printable run shown as a string.
const minStrLen = 2

// isPrintableASCII checks if a byte is a standard printable ASCII character.
func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7E && b != '"' && b != '#'
}

// formatData renders unreachable bytes. NUL-terminated printable runs become
// .ascii, zero runs become .alloc and anything else .byte rows.
func formatData(data []byte, baseAddr int) string {
	var sb strings.Builder
	n := len(data)

	i := 0
	for i < n {
		// Printable run followed by NUL: a string.
		end := i
		for end < n && isPrintableASCII(data[end]) {
			end++
		}
		if end-i >= minStrLen && end < n && data[end] == 0x00 {
			fmt.Fprintf(&sb, "%04X  .ascii \"%s\"\n", baseAddr+i, data[i:end])
			i = end + 1
			continue
		}

		// Zero run: a buffer.
		end = i
		for end < n && data[end] == 0x00 {
			end++
		}
		if end > i {
			fmt.Fprintf(&sb, "%04X  .alloc %d\n", baseAddr+i, end-i)
			i = end
			continue
		}

		// Anything else up to the next zero.
		end = i + 1
		for end < n && data[end] != 0x00 && end-i < bytesPerLine {
			end++
		}
		sb.WriteString(formatHexBytes(data[i:end], baseAddr+i))
		i = end
	}

	return sb.String()
}

const bytesPerLine = 8

// formatHexBytes formats a slice of bytes into .byte rows.
func formatHexBytes(data []byte, baseAddr int) string {
	var sb strings.Builder
	for i := 0; i < len(data); i += bytesPerLine {
		end := min(i+bytesPerLine, len(data))
		parts := make([]string, 0, end-i)
		for _, b := range data[i:end] {
			parts = append(parts, fmt.Sprintf("0x%02X", b))
		}
		fmt.Fprintf(&sb, "%04X  .byte %s\n", baseAddr+i, strings.Join(parts, ", "))
	}
	return sb.String()
}
