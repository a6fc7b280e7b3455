package disassembler

import (
	"fmt"
	"strings"
)

// labelName builds the label printed for a jump destination.
func labelName(addr int, labelType LabelType) string {
	if labelType == EntryPoint {
		return "_main"
	}
	return fmt.Sprintf("loc_%04X", addr)
}

// formatOperand renders the argument of an instruction, naming jump targets.
func formatOperand(inst *Instruction, labels map[int]LabelType) string {
	spec := inst.Op.Spec()
	if !spec.HasArg {
		return ""
	}

	if target := inst.Target(); target >= 0 {
		if labelType, ok := labels[target]; ok {
			if inst.Op.IsRelative() {
				return fmt.Sprintf("%d ; %s", inst.Argument, labelName(target, labelType))
			}
			return labelName(target, labelType)
		}
	}
	return fmt.Sprintf("0x%0*X", 2*spec.Width, inst.Argument)
}

// formatRaw renders encoded bytes as space-separated hex pairs.
func formatRaw(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(parts, " ")
}
