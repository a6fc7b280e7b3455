package assembler

import (
	"strconv"
	"strings"

	"github.com/Alessandro-Salerno/Hackasm/cpu"
)

// step is one primitive instruction of a macro body. An empty arg means none.
type step struct {
	in  cpu.Instruction
	arg string
}

// steps encodes a macro body through the normal instruction checks.
func (asm *Assembler) steps(line int, body ...step) error {
	for _, s := range body {
		var args []string
		if s.arg != "" {
			args = []string{s.arg}
		}
		if err := asm.encode(line, s.in, args...); err != nil {
			return err
		}
	}
	return nil
}

// IsMacro reports whether the directive expands into instructions.
func (d Directive) IsMacro() bool {
	return d >= DirPushStr
}

// pushStr rebuilds a stored string on the stack: a zero sentinel first, then
// every byte of the payload including its NUL.
func (asm *Assembler) pushStr(line int, args []string) error {
	if len(args) != 1 {
		return newError(KindSyntax, line, WholeLine, "Expected address or label")
	}

	addr, ok := asm.unit.labels.get(args[0])
	if !ok {
		v, literal, err := ParseLiteral(args[0])
		if err != nil || !literal {
			return newError(KindSyntax, line, 1, "Invalid syntax")
		}
		addr = v
	}
	payload, ok := asm.unit.strings[addr]
	if !ok {
		return newError(KindSyntax, line, 1, "No string at location 0X%X", addr)
	}

	asm.emit(cpu.LDX, "0", line)
	asm.emit(cpu.PUSHX, "", line)
	for i := 0; i+2 <= len(payload); i += 2 {
		b, err := strconv.ParseUint(payload[i:i+2], 16, 8)
		if err != nil {
			return newError(KindSyntax, line, 1, "Corrupt string payload at 0X%X", addr)
		}
		asm.emit(cpu.LDX, strconv.FormatUint(b, 10), line)
		asm.emit(cpu.PUSHX, "", line)
	}
	return nil
}

// regPair stores or loads X and Y at addr and addr+1.
func (asm *Assembler) regPair(line int, args []string, x, y cpu.Instruction) error {
	if len(args) != 1 {
		return newError(KindSyntax, line, WholeLine, "Expected address or label")
	}
	asm.emit(x, args[0], line)
	asm.emit(y, args[0]+"+1", line)
	return nil
}

func (asm *Assembler) ld16(line int, args []string) error {
	if len(args) != 1 {
		return newError(KindSyntax, line, WholeLine, "Expected value or symbol")
	}
	if strings.Contains(args[0], "+") {
		return newError(KindSyntax, line, 1, "LD16 macro does not support address offsets")
	}
	asm.emit(cpu.LDX, args[0]+"|1", line)
	asm.emit(cpu.LDY, args[0]+"|0", line)
	return nil
}

func (asm *Assembler) pushRegs(line int, args []string) error {
	if len(args) != 0 {
		return newError(KindSyntax, line, WholeLine, "No argument expected")
	}
	asm.emit(cpu.PUSHY, "", line)
	asm.emit(cpu.PUSHX, "", line)
	return nil
}

// sequence expands an argument-less macro into a fixed instruction list.
func (asm *Assembler) sequence(line int, args []string, body ...cpu.Instruction) error {
	if len(args) != 0 {
		return newError(KindSyntax, line, WholeLine, "Expected no arguments")
	}
	for _, in := range body {
		if err := asm.encode(line, in); err != nil {
			return err
		}
	}
	return nil
}

// add16 adds an 8-bit operand to the X (low) / Y (high) pair, carrying into Y.
// The pair is spilled to _swap while the stack holds the working values.
// Relative jump distances count from the jump's own offset.
func (asm *Assembler) add16(line int, args []string) error {
	if len(args) != 1 {
		return newError(KindSyntax, line, WholeLine, "Expected operand")
	}
	x := args[0]

	if err := asm.run(line, DirStrRegs, []string{LabelSwap}); err != nil {
		return err
	}
	err := asm.steps(line,
		step{cpu.POPX, ""},
		step{cpu.CMPX, "0"},
		step{cpu.ADDX, x},
		step{cpu.JRE, "29"},
		step{cpu.CMPX, x},
		step{cpu.JRLE, "6"},
		// no carry: skip to the restore
		step{cpu.JRG, "21"},
		// carry: Y+1 while X waits on the stack
		step{cpu.POPY, ""},
		step{cpu.PUSHX, ""},
		step{cpu.LDX, "0"},
		step{cpu.ADDXY, ""},
		step{cpu.ADDX, "1"},
		step{cpu.CMPX, "0"},
		step{cpu.PUSHX, ""},
		step{cpu.POPY, ""},
		step{cpu.POPX, ""},
		step{cpu.JRG, "5"},
		// Y wrapped
		step{cpu.LDX, "0"},
		step{cpu.PUSHY, ""},
		step{cpu.PUSHX, ""},
	)
	if err != nil {
		return err
	}
	return asm.run(line, DirLdRegs, []string{LabelSwap})
}

// jump makes the next JE unconditional by comparing a zeroed X with 0.
func (asm *Assembler) jump(line int, args []string) error {
	if len(args) != 1 {
		return newError(KindSyntax, line, WholeLine, "Expected address or label")
	}
	return asm.steps(line,
		step{cpu.PUSHX, ""},
		step{cpu.LDX, "0"},
		step{cpu.CMPX, "0"},
		step{cpu.POPX, ""},
		step{cpu.JE, args[0]},
	)
}

func (asm *Assembler) zero(line int, args []string) error {
	if len(args) != 0 {
		return newError(KindSyntax, line, WholeLine, "Expected no arguments")
	}
	return asm.steps(line, step{cpu.LDX, "0"}, step{cpu.LDY, "0"})
}

func (asm *Assembler) rmRegs(line int, args []string) error {
	if len(args) != 0 {
		return newError(KindSyntax, line, WholeLine, "Expected no arguments")
	}
	if err := asm.run(line, DirStrRegs, []string{LabelSwap}); err != nil {
		return err
	}
	if err := asm.run(line, DirPopRegs, nil); err != nil {
		return err
	}
	return asm.run(line, DirLdRegs, []string{LabelSwap})
}

func (asm *Assembler) fetchRegs(line int, args []string) error {
	if len(args) != 0 {
		return newError(KindSyntax, line, WholeLine, "Expected no arguments")
	}
	if err := asm.run(line, DirPopRegs, nil); err != nil {
		return err
	}
	return asm.run(line, DirPushRegs, nil)
}
