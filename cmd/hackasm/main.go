package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/Alessandro-Salerno/Hackasm/assembler"
)

// Exit codes.
const (
	exitUsage    = 1
	exitAssembly = 3
	exitNoLine   = 4
)

var (
	output  string
	listing bool
	dump    bool
)

var rootCmd = &cobra.Command{
	Use:   "hackasm sourceFile",
	Short: "Assemble VM source into a hexadecimal bytecode image",
	Long: `Hackasm assembles one source file for the stack/register VM into a
single string of upper-case hex digits.

Pass 1 expands macros and builds the symbol, label and string tables; pass 2
resolves every operand and checks it against the instruction's range. The
image is only written when both passes succeed.`,

	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&output, "out", "o", "vm_asm_out.txt", "file name for the output")
	rootCmd.Flags().BoolVar(&listing, "listing", false, "print offset, bytes and source line of every node")
	rootCmd.Flags().BoolVar(&dump, "dump", false, "dump the tables built by pass 1")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func main() {
	flag.Set("logtostderr", "true")
	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode prints errors that were not rendered as diagnostics and picks
// the process status.
func exitCode(err error) int {
	var asmErr *assembler.Error
	if !errors.As(err, &asmErr) {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return exitUsage
	}
	if asmErr.Line == 0 {
		return exitNoLine
	}
	return exitAssembly
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	src := string(data)

	glog.Info("Compiling...")
	unit, err := assembler.New().Compile(src)
	if err != nil {
		assembler.Render(os.Stderr, src, err)
		return err
	}
	if dump {
		dumpUnit(os.Stderr, unit)
	}

	glog.Info("Linking...")
	nodes, report, err := assembler.Link(unit)
	if err != nil {
		assembler.Render(os.Stderr, src, err)
		return err
	}
	if _, err := report.WriteTo(os.Stdout); err != nil {
		return err
	}
	if listing {
		if err := assembler.Listing(os.Stdout, unit, nodes); err != nil {
			return err
		}
	}

	if err := os.WriteFile(output, []byte(assembler.Serialize(nodes)), 0644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	glog.Infof("Wrote %d byte(s) to %s", unit.Size(), output)
	return nil
}
