package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/Alessandro-Salerno/Hackasm/disassembler"
)

var rootCmd = &cobra.Command{
	Use:   "hackdis imageFile [outputFile]",
	Short: "Disassemble a hex bytecode image written by hackasm",
	Long: `Hackdis reads the hex image produced by hackasm and prints a listing.
Bytes reachable from offset 0 are decoded as instructions; everything else is
shown as .ascii, .alloc or .byte data.`,

	Args:          cobra.RangeArgs(1, 2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile := ""
		if len(args) == 2 {
			outputFile = args[1]
		}
		return run(args[0], outputFile)
	},
}

func init() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func main() {
	flag.Set("logtostderr", "true")
	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(inputFile, outputFile string) error {
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	code, err := disassembler.DecodeHex(string(data))
	if err != nil {
		return err
	}
	glog.V(1).Infof("decoding %d byte(s)", len(code))

	text, err := disassembler.Disassemble(code)
	if err != nil {
		return fmt.Errorf("disassembly: %w", err)
	}

	if outputFile == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	glog.Infof("Disassembly written to %s", outputFile)
	return nil
}
