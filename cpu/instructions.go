package cpu

import "strings"

// Instruction identifies one primitive instruction of the VM.
type Instruction int

const (
	// CLD clears the registers.
	CLD Instruction = iota
	// LDX loads an immediate into X.
	LDX
	// LDY loads an immediate into Y.
	LDY
	// STRX stores X to memory.
	STRX
	// STRY stores Y to memory.
	STRY
	// LDRX loads X from memory.
	LDRX
	// LDRY loads Y from memory.
	LDRY
	// OUT signals output.
	OUT
	// IN signals input.
	IN
	// CMPX compares X with an immediate.
	CMPX
	// CMPY compares Y with an immediate.
	CMPY
	// JE jumps if equal.
	JE
	// JRE jumps relative if equal.
	JRE
	// JL jumps if less.
	JL
	// JRL jumps relative if less.
	JRL
	// JLE jumps if less or equal.
	JLE
	// JRLE jumps relative if less or equal.
	JRLE
	// JG jumps if greater.
	JG
	// JRG jumps relative if greater.
	JRG
	// JGE jumps if greater or equal.
	JGE
	// JRGE jumps relative if greater or equal.
	JRGE
	// ADDX adds an immediate to X.
	ADDX
	// ADDXY adds Y to X.
	ADDXY
	// DECX subtracts an immediate from X.
	DECX
	// DECXY subtracts Y from X.
	DECXY
	// RORX rotates X right.
	RORX
	// ROLX rotates X left.
	ROLX
	// XORX xors X.
	XORX
	// PUSHX pushes X.
	PUSHX
	// POPX pops into X.
	POPX
	// PUSHY pushes Y.
	PUSHY
	// POPY pops into Y.
	POPY
	// RMEMX reads memory into X.
	RMEMX
	// WMEMX writes X to memory.
	WMEMX
	// RMEMY reads memory into Y.
	RMEMY
	// WMEMY writes Y to memory.
	WMEMY
	// NOP does nothing.
	NOP
	// RET returns.
	RET

	instructionCount
)

// Opcodes for all instructions.
const (
	// Registers
	OPCLD  = 0x40 // CLD
	OPLDX  = 0x50 // LDX
	OPLDY  = 0x51 // LDY
	OPSTRX = 0x52 // STRX
	OPSTRY = 0x53 // STRY
	OPLDRX = 0x54 // LDRX
	OPLDRY = 0x55 // LDRY

	// I/O
	OPOUT = 0x60 // OUT
	OPIN  = 0x61 // IN

	// Compare and flow
	OPCMPX = 0x70 // CMPX
	OPCMPY = 0x71 // CMPY
	OPJE   = 0x72 // JE
	OPJRE  = 0x73 // JRE
	OPJL   = 0x74 // JL
	OPJRL  = 0x75 // JRL
	OPJLE  = 0x76 // JLE
	OPJRLE = 0x77 // JRLE
	OPJG   = 0x78 // JG
	OPJRG  = 0x79 // JRG
	OPJGE  = 0x80 // JGE
	OPJRGE = 0x81 // JRGE

	// Arithmetic
	OPADDX  = 0xA0 // ADDX
	OPADDXY = 0xA1 // ADDXY
	OPDECX  = 0xA2 // DECX
	OPDECXY = 0xA3 // DECXY
	OPRORX  = 0xA4 // RORX
	OPROLX  = 0xA5 // ROLX
	OPXORX  = 0xA6 // XORX

	// Stack
	OPPUSHX = 0xB0 // PUSHX
	OPPOPX  = 0xB1 // POPX
	OPPUSHY = 0xB2 // PUSHY
	OPPOPY  = 0xB3 // POPY

	// Memory
	OPRMEMX = 0xC0 // RMEMX
	OPWMEMX = 0xC1 // WMEMX
	OPRMEMY = 0xC2 // RMEMY
	OPWMEMY = 0xC3 // WMEMY

	// Misc
	OPNOP = 0x90 // NOP
	OPRET = 0x91 // RET
)

// AddressLimit bounds memory operands and jump targets.
const AddressLimit = 4096

// Spec is the encoding rule for one instruction.
type Spec struct {
	Mnemonic string
	Opcode   byte
	HasArg   bool
	// Width is the argument size in bytes (0, 1 or 2).
	Width int
	// Max is the exclusive upper bound of the argument.
	Max int
}

// Size returns the encoded size in bytes.
func (s *Spec) Size() int {
	return 1 + s.Width
}

func op(mnemonic string, opcode byte, width int) Spec {
	return Spec{Mnemonic: mnemonic, Opcode: opcode, HasArg: width > 0, Width: width, Max: 1 << (8 * width)}
}

func bounded(mnemonic string, opcode byte, width, max int) Spec {
	s := op(mnemonic, opcode, width)
	s.Max = max
	return s
}

var catalog = [instructionCount]Spec{
	CLD:   op("CLD", OPCLD, 0),
	LDX:   op("LDX", OPLDX, 1),
	LDY:   op("LDY", OPLDY, 1),
	STRX:  bounded("STRX", OPSTRX, 2, AddressLimit),
	STRY:  bounded("STRY", OPSTRY, 2, AddressLimit),
	LDRX:  bounded("LDRX", OPLDRX, 2, AddressLimit),
	LDRY:  bounded("LDRY", OPLDRY, 2, AddressLimit),
	OUT:   bounded("OUT", OPOUT, 0, AddressLimit),
	IN:    op("IN", OPIN, 0),
	CMPX:  op("CMPX", OPCMPX, 1),
	CMPY:  op("CMPY", OPCMPY, 1),
	JE:    op("JE", OPJE, 2),
	JRE:   bounded("JRE", OPJRE, 2, AddressLimit),
	JL:    bounded("JL", OPJL, 2, AddressLimit),
	JRL:   bounded("JRL", OPJRL, 2, AddressLimit),
	JLE:   bounded("JLE", OPJLE, 2, AddressLimit),
	JRLE:  bounded("JRLE", OPJRLE, 2, AddressLimit),
	JG:    bounded("JG", OPJG, 2, AddressLimit),
	JRG:   bounded("JRG", OPJRG, 2, AddressLimit),
	JGE:   bounded("JGE", OPJGE, 2, AddressLimit),
	JRGE:  bounded("JRGE", OPJRGE, 2, AddressLimit),
	ADDX:  op("ADDX", OPADDX, 1),
	ADDXY: op("ADDXY", OPADDXY, 0),
	DECX:  op("DECX", OPDECX, 1),
	DECXY: op("DECXY", OPDECXY, 0),
	RORX:  op("RORX", OPRORX, 0),
	ROLX:  op("ROLX", OPROLX, 0),
	XORX:  op("XORX", OPXORX, 0),
	PUSHX: op("PUSHX", OPPUSHX, 0),
	POPX:  op("POPX", OPPOPX, 0),
	PUSHY: op("PUSHY", OPPUSHY, 0),
	POPY:  op("POPY", OPPOPY, 0),
	RMEMX: op("RMEMX", OPRMEMX, 0),
	WMEMX: op("WMEMX", OPWMEMX, 0),
	RMEMY: op("RMEMY", OPRMEMY, 0),
	WMEMY: op("WMEMY", OPWMEMY, 0),
	NOP:   op("NOP", OPNOP, 0),
	RET:   op("RET", OPRET, 0),
}

var (
	byMnemonic = make(map[string]Instruction, instructionCount)
	byOpcode   = make(map[byte]Instruction, instructionCount)
)

func init() {
	for i := range catalog {
		in := Instruction(i)
		byMnemonic[catalog[i].Mnemonic] = in
		byOpcode[catalog[i].Opcode] = in
	}
}

// Lookup finds an instruction by mnemonic, ignoring case.
func Lookup(mnemonic string) (Instruction, bool) {
	in, ok := byMnemonic[strings.ToUpper(mnemonic)]
	return in, ok
}

// Decode finds the instruction encoded by an opcode byte.
func Decode(opcode byte) (Instruction, bool) {
	in, ok := byOpcode[opcode]
	return in, ok
}

// All returns every instruction in catalog order.
func All() []Instruction {
	list := make([]Instruction, instructionCount)
	for i := range list {
		list[i] = Instruction(i)
	}
	return list
}

// Spec returns the catalog entry. The pointer is shared and must not be modified.
func (in Instruction) Spec() *Spec {
	return &catalog[in]
}

// String returns the mnemonic.
func (in Instruction) String() string {
	if in < 0 || in >= instructionCount {
		return "INVALID"
	}
	return catalog[in].Mnemonic
}

// IsJump reports whether the instruction transfers control.
func (in Instruction) IsJump() bool {
	switch in {
	case JE, JRE, JL, JRL, JLE, JRLE, JG, JRG, JGE, JRGE:
		return true
	}
	return false
}

// IsRelative reports whether a jump argument is a distance from the jump itself.
func (in Instruction) IsRelative() bool {
	switch in {
	case JRE, JRL, JRLE, JRG, JRGE:
		return true
	}
	return false
}
