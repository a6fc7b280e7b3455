package assembler_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Alessandro-Salerno/Hackasm/assembler"
)

// program wraps body in a TEXT section starting at _main and appends the
// _swap buffer, so every test image starts with the prologue.
func program(body string) string {
	return ".section text\n.label _main\n" + body + "\n.section data\n.label _swap\n.alloc 2\n"
}

// Assembles source and checks against an expected image (in hex).
func assembleAndMatchHex(t *testing.T, name, src, expectedHex string) {
	t.Helper()

	expectedHex = strings.ToUpper(strings.Join(strings.Fields(expectedHex), ""))
	got, _, err := assembler.Assemble(src)
	if err != nil {
		t.Fatalf("[%s] failed to assemble:\n%s\nerror: %v", name, src, err)
	}
	if got != expectedHex {
		t.Errorf("[%s] image mismatch\nexpected: %s\ngot:      %s", name, expectedHex, got)
	}
}

func TestEndToEnd(t *testing.T) {
	src := `.section text
.label _main
LDX 5
CLD
.section data
.label _swap
.alloc 2
`
	assembleAndMatchHex(t, "EndToEnd", src, "70007200055005400000")
}

// Core instruction encodings
func TestBasicEncodings(t *testing.T) {
	tests := []struct {
		name, body, hex string
	}{
		{"CLD", "CLD", "7000 720005 40 0000"},
		{"LowerCase", "ldx 0x7B", "7000 720005 507B 0000"},
		{"Binary", "LDX 0b1010", "7000 720005 500A 0000"},
		{"Decimal", "LDY 200", "7000 720005 51C8 0000"},
		{"StoreMax", "STRX 4095", "7000 720005 520FFF 0000"},
		{"JumpBack", "JE _main", "7000 720005 720005 0000"},
		{"Stack", "PUSHX\nPOPY", "7000 720005 B0 B3 0000"},
		{"Symbol", ".set K 0x10\nLDX K", "7000 720005 5010 0000"},
		{"Composite", ".set K 3\nLDX K+2", "7000 720005 5005 0000"},
		{"ZeroOperand", "LDX 0", "7000 720005 5000 0000"},
		{"Comments", "# setup\nLDX 1 # one\n\n   \nCLD", "7000 720005 5001 40 0000"},
		{"Tabs", "\tLDX\t1", "7000 720005 5001 0000"},
		{"LabelPlusOffset", "STRX _swap+1", "7000 720005 520009 0000"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, program(tc.body), tc.hex)
	}
}

func TestForwardReference(t *testing.T) {
	src := `.section text
.label _main
JE later
NOP
.label later
RET
.section data
.label _swap
.alloc 2
`
	// JE at 5, NOP at 8, later = 9.
	assembleAndMatchHex(t, "Forward", src, "7000 720005 720009 90 91 0000")
}

func TestByteSelect(t *testing.T) {
	src := `.section data
.alloc 253
.section text
.label far
.label _main
LDX far|1
LDY far|0
.label _swap
`
	got, _, err := assembler.Assemble(src)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !strings.HasPrefix(got, "7000720102") {
		t.Errorf("prologue should jump to 0x0102, got %s", got[:10])
	}
	if !strings.HasSuffix(got, "50015102") {
		t.Errorf("far|1 should be 01 and far|0 should be 02, got %s", got[len(got)-8:])
	}
}

func TestDataDirectives(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"ASCII", ".section data\n.ascii \"Hi\"\n.section text\n.label _main\n.label _swap", "7000 720008 486900"},
		{"ASCIIWithSpaces", ".section data\n.ascii \"a b\"\n.section text\n.label _main\n.label _swap", "7000 720009 61206200"},
		{"EmptyString", ".section data\n.ascii \"\"\n.section text\n.label _main\n.label _swap", "7000 720006 00"},
		{"AllocSymbol", ".set N 3\n.section data\n.alloc N\n.section text\n.label _main\n.label _swap", "7000 720008 000000"},
		{"ASCIIUnclosed", ".section data\n.ascii \"abc\n.section text\n.label _main\n.label _swap", "7000 720009 61626300"},
		{"AllocZero", ".section data\n.alloc 0\n.section text\n.label _main\n.label _swap", "7000 720005"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestSectionSwitchEmitsNoRet(t *testing.T) {
	src := ".section text\n.label _main\nCLD\n.section data\n.label _swap\n"
	assembleAndMatchHex(t, "NoImplicitRet", src, "7000 720005 40")
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    error
		line    int
		segment int
	}{
		{"DuplicateLabel", ".section text\n.label X\n.label X", assembler.ErrDuplicateSymbol, 3, 1},
		{"LabelShadowsSymbol", ".set X 1\n.label X", assembler.ErrDuplicateSymbol, 2, 1},
		{"DuplicateSymbol", ".set X 1\n.set X 2", assembler.ErrDuplicateSymbol, 2, 1},
		{"UnknownMnemonic", ".section text\nFOO", assembler.ErrUnknownMnemonic, 2, 0},
		{"UnknownDirective", ".bogus", assembler.ErrUnknownDirective, 1, assembler.WholeLine},
		{"CodeOutsideText", "LDX 1", assembler.ErrSection, 1, assembler.WholeLine},
		{"CodeInData", ".section data\nCLD", assembler.ErrSection, 2, assembler.WholeLine},
		{"UnknownMnemonicInData", ".section data\nFOO", assembler.ErrSection, 2, assembler.WholeLine},
		{"AllocInText", ".section text\n.alloc 2", assembler.ErrSection, 2, assembler.WholeLine},
		{"ASCIIInText", ".section text\n.ascii \"x\"", assembler.ErrSection, 2, assembler.WholeLine},
		{"MacroOutsideText", ".zero", assembler.ErrSection, 1, assembler.WholeLine},
		{"MissingOperand", ".section text\nLDX", assembler.ErrSyntax, 2, assembler.WholeLine},
		{"UnexpectedOperand", ".section text\nCLD 1", assembler.ErrSyntax, 2, assembler.WholeLine},
		{"TwoOperands", ".section text\nLDX 1 2", assembler.ErrSyntax, 2, 2},
		{"SetArgs", ".set A", assembler.ErrSyntax, 1, assembler.WholeLine},
		{"LabelArgs", ".label", assembler.ErrSyntax, 1, assembler.WholeLine},
		{"SectionArgs", ".section", assembler.ErrSyntax, 1, assembler.WholeLine},
		{"UnknownSection", ".section bss", assembler.ErrSyntax, 1, 1},
		{"AllocNotNumber", ".section data\n.alloc lots", assembler.ErrSyntax, 2, 1},
		{"AllocHex", ".section data\n.alloc 0x10", assembler.ErrSyntax, 2, 1},
		{"ASCIIEmpty", ".section data\n.ascii", assembler.ErrSyntax, 2, assembler.WholeLine},
		{"ASCIINoQuotes", ".section data\n.ascii abc", assembler.ErrSyntax, 2, 1},
		{"ASCIITrailing", ".section data\n.ascii \"abc\" x", assembler.ErrSyntax, 2, assembler.WholeLine},
		{"ASCIIWide", ".section data\n.ascii \"€\"", assembler.ErrSyntax, 2, 1},
	}
	for _, tc := range tests {
		_, err := assembler.New().Compile(tc.src)
		if !errors.Is(err, tc.want) {
			t.Errorf("[%s] expected %v, got %v", tc.name, tc.want, err)
			continue
		}
		var e *assembler.Error
		if !errors.As(err, &e) {
			t.Errorf("[%s] expected *assembler.Error, got %T", tc.name, err)
			continue
		}
		if e.Line != tc.line || e.Segment != tc.segment {
			t.Errorf("[%s] expected line %d segment %d, got line %d segment %d",
				tc.name, tc.line, tc.segment, e.Line, e.Segment)
		}
		if e.Stage != assembler.StageCompile {
			t.Errorf("[%s] expected compile stage, got %v", tc.name, e.Stage)
		}
	}
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
	}{
		{"OutOfRange", program("LDX 256"), assembler.ErrOutOfRange, 3},
		{"SumOutOfRange", program("LDX 255+1"), assembler.ErrOutOfRange, 3},
		{"AddressOutOfRange", program("STRX 4096"), assembler.ErrOutOfRange, 3},
		{"Undefined", program("JE nowhere"), assembler.ErrUndefinedSymbol, 3},
		{"EmptyTerm", program("LDX 1+"), assembler.ErrUndefinedSymbol, 3},
		{"BadHex", program("LDX 0xZZ"), assembler.ErrSyntax, 3},
		{"SymbolNotNumber", ".set S hello\n" + program("LDX S"), assembler.ErrSyntax, 4},
		{"BadSelector", program("LDX 5|x"), assembler.ErrSyntax, 3},
		{"DoubleSelector", program("LDX 5|1|0"), assembler.ErrSyntax, 3},
		{"SelectorRange", program("LDX 5|2"), assembler.ErrSyntax, 3},
		{"MissingMain", ".section data\n.label _swap", assembler.ErrMissingLabel, 0},
		{"MissingSwap", ".section text\n.label _main", assembler.ErrMissingLabel, 0},
	}
	for _, tc := range tests {
		u, err := assembler.New().Compile(tc.src)
		if err != nil {
			t.Fatalf("[%s] compile: %v", tc.name, err)
		}
		nodes, report, err := assembler.Link(u)
		if !errors.Is(err, tc.want) {
			t.Errorf("[%s] expected %v, got %v", tc.name, tc.want, err)
			continue
		}
		if nodes != nil || report != nil {
			t.Errorf("[%s] expected no output on failure", tc.name)
		}
		var e *assembler.Error
		if errors.As(err, &e) && (e.Line != tc.line || e.Stage != assembler.StageLink) {
			t.Errorf("[%s] expected linker error on line %d, got %v on line %d", tc.name, tc.line, e.Stage, e.Line)
		}
	}
}

func TestMissingLabelMessages(t *testing.T) {
	_, _, err := assembler.Assemble(".section text\n.label _swap")
	if err == nil || !strings.Contains(err.Error(), "_main label not found") {
		t.Errorf("expected _main to be reported, got %v", err)
	}
	_, _, err = assembler.Assemble(".section text\n.label _main")
	if err == nil || !strings.Contains(err.Error(), "_swap label not found") {
		t.Errorf("expected _swap to be reported, got %v", err)
	}
}

func TestDeterminism(t *testing.T) {
	src := program(".set K 7\nLDX K\n.add16 K\n.jump _main\n.ld16 _swap")
	first, _, err := assembler.Assemble(src)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _, err := assembler.Assemble(src)
		if err != nil {
			t.Fatalf("assemble: %v", err)
		}
		if again != first {
			t.Fatalf("run %d differs:\n%s\n%s", i, first, again)
		}
	}
}

func TestOffsetMonotonicity(t *testing.T) {
	src := `.section data
.label msg
.ascii "hello"
.section text
.label _main
.pushstr msg
.add16 3
.rmregs
.fetchregs
.zero
LDX 1
.section data
.label _swap
.alloc 2
`
	u, err := assembler.New().Compile(src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	nodes := u.Nodes()
	for i := 0; i+1 < len(nodes); i++ {
		if nodes[i+1].Offset != nodes[i].Offset+nodes[i].Size() {
			t.Fatalf("node %d at %d, size %d, but node %d at %d",
				i, nodes[i].Offset, nodes[i].Size(), i+1, nodes[i+1].Offset)
		}
	}
	last := nodes[len(nodes)-1]
	if u.Size() != last.Offset+last.Size() {
		t.Errorf("unit size %d does not end at last node (%d)", u.Size(), last.Offset+last.Size())
	}
}

func TestCompilerReuse(t *testing.T) {
	asm := assembler.New()
	if _, err := asm.Compile(program(".set K 1")); err != nil {
		t.Fatalf("first compile: %v", err)
	}
	// The same symbol again must not collide with the previous run.
	if _, err := asm.Compile(program(".set K 1")); err != nil {
		t.Fatalf("second compile: %v", err)
	}
}

func TestReport(t *testing.T) {
	u, err := assembler.New().Compile(".set K 0x10\n" + program("LDX K"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	_, report, err := assembler.Link(u)
	if err != nil {
		t.Fatalf("link: %v", err)
	}

	var b strings.Builder
	if _, err := report.WriteTo(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `Linked bytecode size: 9 byte(s)
Linked labels:
  - _main: 0x5
  - _swap: 0x7
Linked symbols:
  - K: 0x10
`
	if b.String() != want {
		t.Errorf("report mismatch\nexpected:\n%s\ngot:\n%s", want, b.String())
	}
}

func TestImage(t *testing.T) {
	u, err := assembler.New().Compile(program("LDX 5\nCLD"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	nodes, _, err := assembler.Link(u)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	img, err := assembler.Image(nodes)
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	want := []byte{0x70, 0x00, 0x72, 0x00, 0x05, 0x50, 0x05, 0x40, 0x00, 0x00}
	if string(img) != string(want) {
		t.Errorf("expected % X, got % X", want, img)
	}
	if len(img) != u.Size() {
		t.Errorf("image is %d bytes, unit says %d", len(img), u.Size())
	}
}

func TestUnitAccessors(t *testing.T) {
	src := ".section data\n.label msg\n.ascii \"Hi\"\n.section text\n.label _main\n.label _swap"
	u, err := assembler.New().Compile(src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if s, ok := u.StringAt(5); !ok || s != "486900" {
		t.Errorf("StringAt(5) = %q, %v", s, ok)
	}
	if _, ok := u.StringAt(6); ok {
		t.Error("StringAt(6) found a string inside another one")
	}
	if lines := u.Lines(); len(lines) != 6 || lines[2] != `.ascii "Hi"` {
		t.Errorf("unexpected lines %q", lines)
	}
	if u.Source(4) != ".section text" || u.Source(0) != "" || u.Source(7) != "" {
		t.Error("Source does not follow 1-based line numbers")
	}
}
