package assembler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Alessandro-Salerno/Hackasm/cpu"
)

// Tables gives the resolver read access to the symbol and label tables.
type Tables interface {
	Symbol(name string) (string, bool)
	Label(name string) (int, bool)
}

var reDecimal = regexp.MustCompile(`^[0-9]+$`)

// ParseLiteral converts a decimal, 0x-prefixed hex or 0b-prefixed binary literal.
// ok is false when s is not written as a literal at all.
func ParseLiteral(s string) (value int, ok bool, err error) {
	base := 10
	digits := s
	switch {
	case strings.HasPrefix(s, "0x"):
		base, digits = 16, s[2:]
	case strings.HasPrefix(s, "0b"):
		base, digits = 2, s[2:]
	case reDecimal.MatchString(s):
	default:
		return 0, false, nil
	}

	v, err := strconv.ParseUint(digits, base, 63)
	if err != nil {
		return 0, true, fmt.Errorf("invalid number format: %s", s)
	}
	return int(v), true, nil
}

// Resolve evaluates an operand expression: '+'-separated terms, each a literal,
// symbol or label with an optional '|N' byte selector. Every term and the sum
// must be below max.
func Resolve(expr string, max int, t Tables) (int, error) {
	sum, last := 0, 0
	for _, term := range strings.Split(expr, "+") {
		v, err := resolveTerm(term, t)
		if err != nil {
			return 0, err
		}
		if v >= max {
			return 0, newError(KindOutOfRange, 0, 1, "Value exceeds maximum of %d", max)
		}
		sum += v
		last = v
	}

	// A zero sum falls back to the last term.
	if sum == 0 {
		sum = last
	}
	if sum >= max {
		return 0, newError(KindOutOfRange, 0, 1, "Value exceeds maximum of %d", max)
	}
	return sum, nil
}

func resolveTerm(term string, t Tables) (int, error) {
	name, selector, selected := strings.Cut(term, "|")
	v, err := termValue(name, t)
	if err != nil || !selected {
		return v, err
	}

	if strings.Contains(selector, "|") {
		return 0, newError(KindSyntax, 0, WholeLine, "Invalid byte-indexing syntax")
	}
	if !reDecimal.MatchString(selector) {
		return 0, newError(KindSyntax, 0, WholeLine, "Byte-index expected after |")
	}
	n, _ := strconv.Atoi(selector)
	b, err := cpu.SelectByte(v, n)
	if err != nil {
		return 0, newError(KindSyntax, 0, 1, "Invalid byte selection '%s': %v", term, err)
	}
	return int(b), nil
}

func termValue(name string, t Tables) (int, error) {
	if v, ok, err := ParseLiteral(name); ok {
		if err != nil {
			return 0, newError(KindSyntax, 0, 1, "%v", err)
		}
		return v, nil
	}

	if text, ok := t.Symbol(name); ok {
		v, ok, err := ParseLiteral(text)
		if err != nil {
			return 0, newError(KindSyntax, 0, 1, "Symbol '%s': %v", name, err)
		}
		if !ok {
			return 0, newError(KindSyntax, 0, 1, "Symbol '%s' does not hold a number", name)
		}
		return v, nil
	}

	if addr, ok := t.Label(name); ok {
		return addr, nil
	}
	return 0, newError(KindUndefinedSymbol, 0, 1, "Undefined symbol")
}

// FormatArgument renders a value as upper-case hex padded to width bytes.
func FormatArgument(value, width int) string {
	return fmt.Sprintf("%0*X", 2*width, value)
}
