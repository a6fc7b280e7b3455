package assembler

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Serialize concatenates opcode and argument hex of every node, in order.
func Serialize(nodes []LinkedNode) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.Hex())
	}
	return b.String()
}

// Image returns the serialized nodes as raw bytes.
func Image(nodes []LinkedNode) ([]byte, error) {
	return hex.DecodeString(Serialize(nodes))
}

// Assemble compiles, links and serializes src into the hex image.
func Assemble(src string) (string, *Report, error) {
	u, err := New().Compile(src)
	if err != nil {
		return "", nil, fmt.Errorf("compile: %w", err)
	}
	nodes, report, err := Link(u)
	if err != nil {
		return "", nil, fmt.Errorf("link: %w", err)
	}
	return Serialize(nodes), report, nil
}
