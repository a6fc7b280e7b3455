package main

import (
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/Alessandro-Salerno/Hackasm/assembler"
)

// unitDump is what --dump prints.
type unitDump struct {
	Size    int
	Labels  []assembler.Label
	Symbols []assembler.Symbol
	Strings map[int]string
}

// dumpUnit pretty-prints the pass 1 tables, in colour on a terminal.
func dumpUnit(w io.Writer, u *assembler.Unit) {
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(isTerminal(w))
	printer.Println(unitDump{
		Size:    u.Size(),
		Labels:  u.Labels(),
		Symbols: u.Symbols(),
		Strings: u.Strings(),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
