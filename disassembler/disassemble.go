package disassembler

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Alessandro-Salerno/Hackasm/cpu"
)

// LabelType defines the context of a label.
type LabelType int

const (
	// JumpTarget is the destination of an absolute or relative jump.
	JumpTarget LabelType = iota
	// EntryPoint is the destination of the prologue jump.
	EntryPoint
)

// prologueJump is the offset of the JE emitted before user code.
const prologueJump = 2

// Instruction represents a single decoded instruction at a specific offset.
type Instruction struct {
	Address  int
	Op       cpu.Instruction
	Argument int
	Size     int
	IsCode   bool // Flag to mark as reachable code
}

// Target returns the jump destination, or -1 if the instruction does not jump.
func (inst *Instruction) Target() int {
	if !inst.Op.IsJump() {
		return -1
	}
	if inst.Op.IsRelative() {
		return inst.Address + inst.Argument
	}
	return inst.Argument
}

// DecodeHex parses an image written by the assembler.
func DecodeHex(s string) ([]byte, error) {
	code, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, fmt.Errorf("invalid hex image: %w", err)
	}
	return code, nil
}

// Decode reads the instruction at pc. ok is false for unknown opcodes and
// truncated arguments.
func Decode(code []byte, pc int) (*Instruction, bool) {
	if pc < 0 || pc >= len(code) {
		return nil, false
	}
	op, ok := cpu.Decode(code[pc])
	if !ok {
		return nil, false
	}
	spec := op.Spec()
	arg, err := cpu.Argument(code[pc+1:], spec.Width)
	if err != nil {
		return nil, false
	}
	return &Instruction{Address: pc, Op: op, Argument: arg, Size: spec.Size()}, true
}

// Disassemble renders an image as a listing. Bytes reachable from offset 0
// are decoded as instructions, everything else is shown as data.
func Disassemble(code []byte) (string, error) {
	if len(code) == 0 {
		return "", nil
	}

	// --- STAGE 1: Linear Sweep ---
	instructions := make(map[int]*Instruction)
	for pc := range code {
		if inst, ok := Decode(code, pc); ok {
			instructions[pc] = inst
		}
	}

	// --- STAGE 2: Control Flow Analysis ---
	labelTargets := make(map[int]LabelType)
	q := newQueue()
	q.push(0)

	for {
		addr, ok := q.pop()
		if !ok {
			break
		}

		inst, exists := instructions[addr]
		if !exists || inst.IsCode {
			continue
		}
		inst.IsCode = true

		if inst.Op != cpu.RET {
			q.push(addr + inst.Size)
		}

		if target := inst.Target(); target >= 0 && target < len(code) {
			q.push(target)
			if addr == prologueJump && inst.Op == cpu.JE {
				labelTargets[target] = EntryPoint
			} else if _, exists := labelTargets[target]; !exists {
				labelTargets[target] = JumpTarget
			}
		}
	}

	// --- STAGE 3: Render Final Output ---
	var out strings.Builder
	pc := 0
	for pc < len(code) {
		if labelType, exists := labelTargets[pc]; exists {
			fmt.Fprintf(&out, "%s:\n", labelName(pc, labelType))
		}

		if inst, isCode := instructions[pc]; !isCode || !inst.IsCode {
			dataEnd := pc + 1
			for dataEnd < len(code) {
				if inst, isCode := instructions[dataEnd]; isCode && inst.IsCode {
					break
				}
				if _, labelled := labelTargets[dataEnd]; labelled {
					break
				}
				dataEnd++
			}
			out.WriteString(formatData(code[pc:dataEnd], pc))
			pc = dataEnd
			continue
		}

		inst := instructions[pc]
		operand := formatOperand(inst, labelTargets)
		raw := formatRaw(code[pc : pc+inst.Size])
		if operand != "" {
			fmt.Fprintf(&out, "%04X  %-9s %-6s %s\n", pc, raw, inst.Op, operand)
		} else {
			fmt.Fprintf(&out, "%04X  %-9s %s\n", pc, raw, inst.Op)
		}

		pc += inst.Size
	}

	return out.String(), nil
}

// addrQueue is a simple worklist queue for offsets to decode.
type addrQueue struct {
	items []int
	seen  map[int]bool
}

func newQueue() *addrQueue {
	return &addrQueue{seen: make(map[int]bool)}
}

func (q *addrQueue) push(addr int) {
	if !q.seen[addr] {
		q.items = append(q.items, addr)
		q.seen[addr] = true
	}
}

func (q *addrQueue) pop() (int, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}
