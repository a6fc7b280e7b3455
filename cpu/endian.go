package cpu

import (
	"encoding/binary"
	"fmt"
)

// Word converts a 16-bit value to its big-endian byte pair.
func Word(v uint16) [2]byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return b
}

// SelectByte returns byte n of a 16-bit value, where 1 is the high byte and
// 0 the low byte.
func SelectByte(v, n int) (byte, error) {
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("value %d does not fit in 16 bits", v)
	}
	if n != 0 && n != 1 {
		return 0, fmt.Errorf("byte index %d out of range", n)
	}
	b := Word(uint16(v))
	return b[1-n], nil
}

// Argument reads a big-endian argument of the given width.
func Argument(b []byte, width int) (int, error) {
	if len(b) < width {
		return 0, fmt.Errorf("need %d argument byte(s), have %d", width, len(b))
	}
	switch width {
	case 0:
		return 0, nil
	case 1:
		return int(b[0]), nil
	case 2:
		return int(binary.BigEndian.Uint16(b)), nil
	default:
		return 0, fmt.Errorf("unsupported argument width %d", width)
	}
}
