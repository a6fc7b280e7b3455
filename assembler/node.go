package assembler

import "github.com/Alessandro-Salerno/Hackasm/cpu"

// NodeType defines the type of an assembly node.
type NodeType int

const (
	// NodeInstruction type.
	NodeInstruction NodeType = iota
	// NodeValue type: raw data bytes with no opcode.
	NodeValue
)

// Node is one unit of output emitted by pass 1.
type Node struct {
	Type NodeType
	// Spec is nil for value nodes.
	Spec *cpu.Spec
	// Operand is the unresolved expression, or the hex payload of a value node.
	Operand string
	Offset  int
	// Line is the 1-based source line, 0 for the prologue.
	Line int
}

// Size returns the number of bytes the node occupies in the image.
func (n Node) Size() int {
	if n.Type == NodeValue {
		return len(n.Operand) / 2
	}
	return n.Spec.Size()
}

// Opcode returns the opcode as hex, empty for value nodes.
func (n Node) Opcode() string {
	if n.Type == NodeValue {
		return ""
	}
	return FormatArgument(int(n.Spec.Opcode), 1)
}

// LinkedNode is a node with its operand resolved by pass 2.
type LinkedNode struct {
	Node
	// Argument is the zero-padded hex argument, or the payload of a value node.
	Argument string
}

// Hex returns the encoded node.
func (n LinkedNode) Hex() string {
	return n.Opcode() + n.Argument
}
