package assembler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Alessandro-Salerno/Hackasm/cpu"
	"github.com/golang/glog"
)

// Directive is a pseudo-operation handled by the assembler itself.
type Directive int

const (
	// DirSet defines a symbol.
	DirSet Directive = iota
	// DirLabel binds a label to the current offset.
	DirLabel
	// DirSection switches between DATA and TEXT.
	DirSection
	// DirAlloc reserves zero bytes.
	DirAlloc
	// DirASCII stores a NUL-terminated string.
	DirASCII

	// Macros

	// DirPushStr pushes a stored string byte by byte.
	DirPushStr
	// DirStrRegs stores X and Y to two consecutive cells.
	DirStrRegs
	// DirLdRegs loads X and Y from two consecutive cells.
	DirLdRegs
	// DirLd16 loads a 16-bit immediate into X and Y.
	DirLd16
	// DirPushRegs pushes Y then X.
	DirPushRegs
	// DirPopRegs pops X then Y.
	DirPopRegs
	// DirAdd16 adds to the X/Y pair with carry.
	DirAdd16
	// DirJump jumps unconditionally.
	DirJump
	// DirZero clears X and Y.
	DirZero
	// DirRmRegs drops the two top stack cells, keeping X and Y.
	DirRmRegs
	// DirFetchRegs copies the two top stack cells into X and Y.
	DirFetchRegs
)

var directiveNames = map[string]Directive{
	"SET":       DirSet,
	"LABEL":     DirLabel,
	"SECTION":   DirSection,
	"ALLOC":     DirAlloc,
	"ASCII":     DirASCII,
	"PUSHSTR":   DirPushStr,
	"STRREGS":   DirStrRegs,
	"LDREGS":    DirLdRegs,
	"LD16":      DirLd16,
	"PUSHREGS":  DirPushRegs,
	"POPREGS":   DirPopRegs,
	"ADD16":     DirAdd16,
	"JUMP":      DirJump,
	"ZERO":      DirZero,
	"RMREGS":    DirRmRegs,
	"FETCHREGS": DirFetchRegs,
}

// ParseDirective normalises a directive name: case is ignored and every '.'
// is dropped.
func ParseDirective(name string) (Directive, bool) {
	d, ok := directiveNames[strings.ToUpper(strings.ReplaceAll(name, ".", ""))]
	return d, ok
}

// maxAlloc bounds .alloc to the 16-bit address space.
const maxAlloc = 0x10000

func (asm *Assembler) directive(line int, name string, args []string) error {
	d, ok := ParseDirective(name)
	if !ok {
		return newError(KindUnknownDirective, line, WholeLine, "Unknown macro '%s'", name)
	}

	before := len(asm.unit.nodes)
	if err := asm.run(line, d, args); err != nil {
		return err
	}
	if d.IsMacro() {
		glog.V(2).Infof("line %d: %s expanded to %d instruction(s)", line, name, len(asm.unit.nodes)-before)
	}
	return nil
}

// run executes a directive. Macros call back into it for nested expansion.
func (asm *Assembler) run(line int, d Directive, args []string) error {
	switch d {
	case DirSet:
		return asm.set(line, args)
	case DirLabel:
		return asm.label(line, args)
	case DirSection:
		return asm.switchSection(line, args)
	case DirAlloc:
		return asm.alloc(line, args)
	case DirASCII:
		return asm.ascii(line, args)
	case DirPushStr:
		return asm.pushStr(line, args)
	case DirStrRegs:
		return asm.regPair(line, args, cpu.STRX, cpu.STRY)
	case DirLdRegs:
		return asm.regPair(line, args, cpu.LDRX, cpu.LDRY)
	case DirLd16:
		return asm.ld16(line, args)
	case DirPushRegs:
		return asm.pushRegs(line, args)
	case DirPopRegs:
		return asm.sequence(line, args, cpu.POPX, cpu.POPY)
	case DirAdd16:
		return asm.add16(line, args)
	case DirJump:
		return asm.jump(line, args)
	case DirZero:
		return asm.zero(line, args)
	case DirRmRegs:
		return asm.rmRegs(line, args)
	case DirFetchRegs:
		return asm.fetchRegs(line, args)
	default:
		return fmt.Errorf("unhandled directive %d", d)
	}
}

func (asm *Assembler) set(line int, args []string) error {
	if len(args) != 2 {
		return newError(KindSyntax, line, WholeLine, "Expected 2 arguments for macro SET")
	}
	if asm.defined(args[0]) {
		return newError(KindDuplicateSymbol, line, 1, "Symbol already exists")
	}
	asm.unit.symbols.set(args[0], args[1])
	return nil
}

func (asm *Assembler) label(line int, args []string) error {
	if len(args) != 1 {
		return newError(KindSyntax, line, WholeLine, "Expected 1 argument for macro LABEL")
	}
	if asm.defined(args[0]) {
		return newError(KindDuplicateSymbol, line, 1, "Symbol already exists")
	}
	asm.unit.labels.set(args[0], asm.unit.size)
	return nil
}

func (asm *Assembler) switchSection(line int, args []string) error {
	if len(args) != 1 {
		return newError(KindSyntax, line, WholeLine, "Expected section")
	}

	switch strings.ToUpper(args[0]) {
	case "DATA":
		asm.section = SectionData
		// Tested after the assignment, so leaving TEXT never emits the RET.
		if asm.section == SectionText {
			asm.emit(cpu.RET, "", line)
		}
	case "TEXT":
		asm.section = SectionText
	default:
		return newError(KindSyntax, line, 1, "Unknown section")
	}
	return nil
}

func (asm *Assembler) alloc(line int, args []string) error {
	if asm.section != SectionData {
		return newError(KindSection, line, WholeLine, "Cannot allocate buffer outside of DATA section")
	}
	if len(args) != 1 {
		return newError(KindSyntax, line, WholeLine, "Expected buffer size")
	}

	size := args[0]
	if v, ok := asm.unit.symbols.get(size); ok {
		size = v
	}
	if !reDecimal.MatchString(size) {
		return newError(KindSyntax, line, 1, "Expected buffer size or macro symbol")
	}
	n, err := strconv.Atoi(size)
	if err != nil || n > maxAlloc {
		return newError(KindSyntax, line, 1, "Buffer size %s exceeds %d bytes", size, maxAlloc)
	}

	asm.emitValue(strings.Repeat("00", n), line)
	return nil
}

func (asm *Assembler) ascii(line int, args []string) error {
	if asm.section != SectionData {
		return newError(KindSection, line, WholeLine, "ASCII String outside of DATA section")
	}
	if len(args) == 0 {
		return newError(KindSyntax, line, WholeLine, "Expected ASCII sequence")
	}

	seq := strings.Join(args, " ")
	if seq[0] != '"' {
		return newError(KindSyntax, line, 1, "Expected quotes")
	}
	text := seq[1:]
	if end := strings.IndexByte(text, '"'); end != -1 {
		text = text[:end]
	}
	if utf8.RuneCountInString(text) < utf8.RuneCountInString(seq)-2 {
		return newError(KindSyntax, line, WholeLine, "Invalid syntax")
	}

	var payload strings.Builder
	for _, r := range text {
		if r > 0xFF {
			return newError(KindSyntax, line, 1, "Character %q does not fit in a byte", r)
		}
		fmt.Fprintf(&payload, "%02X", r)
	}
	payload.WriteString("00")

	asm.unit.strings[asm.unit.size] = payload.String()
	asm.emitValue(payload.String(), line)
	return nil
}
