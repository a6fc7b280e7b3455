package assembler

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
)

// Report summarises a successful link for the operator.
type Report struct {
	Size    int
	Labels  []Label
	Symbols []Symbol
}

// WriteTo prints the image size and the label and symbol tables.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Linked bytecode size: %d byte(s)\n", r.Size)
	b.WriteString("Linked labels:\n")
	for _, l := range r.Labels {
		fmt.Fprintf(&b, "  - %s: 0x%x\n", l.Name, l.Offset)
	}
	b.WriteString("Linked symbols:\n")
	for _, s := range r.Symbols {
		fmt.Fprintf(&b, "  - %s: %s\n", s.Name, s.Value)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Link runs pass 2: every operand of u is resolved against the finished
// tables and range-checked. Offsets are already final, so nothing is relocated.
func Link(u *Unit) ([]LinkedNode, *Report, error) {
	for _, name := range []string{LabelMain, LabelSwap} {
		if _, ok := u.Label(name); !ok {
			return nil, nil, &Error{
				Stage:   StageLink,
				Kind:    KindMissingLabel,
				Segment: WholeLine,
				Msg:     name + " label not found",
			}
		}
	}

	linked := make([]LinkedNode, 0, len(u.nodes))
	for _, n := range u.nodes {
		switch {
		case n.Type == NodeValue:
			linked = append(linked, LinkedNode{Node: n, Argument: n.Operand})
		case !n.Spec.HasArg:
			linked = append(linked, LinkedNode{Node: n})
		default:
			v, err := Resolve(n.Operand, n.Spec.Max, u)
			if err != nil {
				if e, ok := err.(*Error); ok {
					e.Stage = StageLink
					e.Line = n.Line
				}
				return nil, nil, err
			}
			linked = append(linked, LinkedNode{Node: n, Argument: FormatArgument(v, n.Spec.Width)})
		}
	}

	glog.V(1).Infof("linked %d node(s), %d label(s), %d symbol(s)", len(linked), len(u.labels.order), len(u.symbols.order))
	return linked, &Report{Size: u.size, Labels: u.Labels(), Symbols: u.Symbols()}, nil
}
