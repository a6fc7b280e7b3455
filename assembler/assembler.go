package assembler

import (
	"strings"

	"github.com/Alessandro-Salerno/Hackasm/cpu"
	"github.com/golang/glog"
)

// Section is the part of the image currently being assembled.
type Section int

const (
	// SectionNone is the state before any .section directive.
	SectionNone Section = iota
	// SectionData holds strings and buffers.
	SectionData
	// SectionText holds instructions.
	SectionText
)

// Mandatory labels checked by the linker.
const (
	LabelMain = "_main"
	LabelSwap = "_swap"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = "#"

// Assembler holds the state for pass 1.
type Assembler struct {
	unit    *Unit
	section Section
}

// New creates a new Assembler instance.
func New() *Assembler {
	return &Assembler{}
}

// Compile runs pass 1 over src and returns the unresolved unit. The
// Assembler can be reused; every call starts from a clean state.
func (asm *Assembler) Compile(src string) (*Unit, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	asm.unit = newUnit(lines)
	asm.section = SectionNone
	defer func() { asm.unit = nil }()

	asm.prologue()
	for i, line := range lines {
		fields := tokenize(line)
		if len(fields) == 0 {
			continue
		}
		if err := asm.compileLine(i+1, fields); err != nil {
			return nil, err
		}
	}

	u := asm.unit
	glog.V(1).Infof("compiled %d line(s) into %d node(s), %d byte(s)", len(lines), len(u.nodes), u.size)
	return u, nil
}

// prologue compares X with itself and jumps to _main, so execution always
// starts at the user's entry point.
func (asm *Assembler) prologue() {
	asm.emit(cpu.CMPX, "0", 0)
	asm.emit(cpu.JE, LabelMain, 0)
}

// tokenize strips the trailing comment and splits the rest on whitespace.
func tokenize(line string) []string {
	if i := strings.Index(line, CommentMarker); i != -1 {
		line = line[:i]
	}
	return strings.Fields(line)
}

func (asm *Assembler) compileLine(line int, fields []string) error {
	if strings.HasPrefix(fields[0], ".") {
		return asm.directive(line, fields[0], fields[1:])
	}
	return asm.instruction(line, fields[0], fields[1:])
}

// instruction encodes a mnemonic written in the source.
func (asm *Assembler) instruction(line int, mnemonic string, args []string) error {
	if asm.section != SectionText {
		return newError(KindSection, line, WholeLine, "Unexpected code outside of TEXT section")
	}
	in, ok := cpu.Lookup(mnemonic)
	if !ok {
		return newError(KindUnknownMnemonic, line, 0, "Unrecognized Instruction")
	}
	return asm.operands(line, in, args)
}

// encode appends an instruction generated by a macro, with the same checks
// as one written in the source.
func (asm *Assembler) encode(line int, in cpu.Instruction, args ...string) error {
	if asm.section != SectionText {
		return newError(KindSection, line, WholeLine, "Unexpected code outside of TEXT section")
	}
	return asm.operands(line, in, args)
}

// operands checks the operand count of an instruction and appends it.
func (asm *Assembler) operands(line int, in cpu.Instruction, args []string) error {
	spec := in.Spec()
	switch {
	case spec.HasArg && len(args) == 0:
		return newError(KindSyntax, line, WholeLine, "Expected instruction operand")
	case !spec.HasArg && len(args) != 0:
		return newError(KindSyntax, line, WholeLine, "Unexpected instruction operand(s)")
	case len(args) > 1:
		return newError(KindSyntax, line, 2, "VM Architecture only supports single-operand instructions")
	}

	operand := ""
	if len(args) == 1 {
		operand = args[0]
	}
	asm.emit(in, operand, line)
	return nil
}

// emit appends an instruction node at the current offset without any checks.
func (asm *Assembler) emit(in cpu.Instruction, operand string, line int) {
	spec := in.Spec()
	asm.unit.nodes = append(asm.unit.nodes, Node{
		Type:    NodeInstruction,
		Spec:    spec,
		Operand: operand,
		Offset:  asm.unit.size,
		Line:    line,
	})
	asm.unit.size += spec.Size()
}

// emitValue appends raw data bytes given as hex.
func (asm *Assembler) emitValue(payload string, line int) {
	n := Node{Type: NodeValue, Operand: payload, Offset: asm.unit.size, Line: line}
	asm.unit.nodes = append(asm.unit.nodes, n)
	asm.unit.size += n.Size()
}

// defined reports whether name is taken by a symbol or a label.
func (asm *Assembler) defined(name string) bool {
	return asm.unit.symbols.has(name) || asm.unit.labels.has(name)
}
