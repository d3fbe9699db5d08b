package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"
	"nand2tetris.dev/toolchain/pkg/asm"
	"nand2tetris.dev/toolchain/pkg/vm"
)

var Description = strings.ReplaceAll(`
The VM Translator translates programs (composed of multiple modules/files) written in
the VM language into Hack assembly code that can be further elaborated by the Assembler.
The VM language is a higher-level (bytecode-like) language tailored for the Hack platform.
`, "\n", " ")

var VmTranslator = cli.New(Description).
	WithArg(cli.NewArg("input", "The bytecode (.vm) file, or a directory of them, to be translated")).
	WithOption(cli.NewOption("output", "The translated assembly output (.asm), defaults alongside the input").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	inputs, bootstrap, defaultOutput, err := resolveInputs(args[0])
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return -1
	}

	outputPath := options["output"]
	if outputPath == "" {
		outputPath = defaultOutput
	}

	output, err := os.Create(outputPath)
	if err != nil {
		fmt.Printf("ERROR: Unable to open output file: %s\n", err)
		return -1
	}
	defer output.Close()

	// Allocates a 'vm.Program' struct to save all the parsed translation units (one per
	// .vm file, keyed by its stem), parsed independently and then lowered together so
	// that cross-module function calls resolve and the bootstrap runs exactly once.
	program := vm.Program{}

	for _, input := range inputs {
		content, err := os.ReadFile(input)
		if err != nil {
			fmt.Printf("ERROR: Unable to open input file: %s\n", err)
			return -1
		}

		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

		parser := vm.NewParser(bytes.NewReader(content))
		program[stem], err = parser.Parse()
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'parsing' pass on '%s': %s\n", input, err)
			return -1
		}
	}

	// Instantiate a lowerer to convert the program from Vm to Asm. 'bootstrap' is only
	// enabled for directory-mode input, a single standalone .vm file never gets one.
	lowerer := vm.NewLowerer(program, bootstrap)
	asmProgram, err := lowerer.Lower()
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'lowering' pass: %s\n", err)
		return -1
	}

	// Now, instantiates a code generator for the Asm (compiled) program
	codegen := asm.NewCodeGenerator(asmProgram)
	compiled, err := codegen.Generate()
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'codegen' pass: %s\n", err)
		return -1
	}

	for _, line := range compiled {
		output.Write([]byte(fmt.Sprintf("%s\n", line)))
	}

	return 0
}

// Decides, from the single positional argument, which .vm files to compile, whether the
// bootstrap preamble should run, and the conventional output path. A directory always
// bootstraps (it's expected to contain a whole program including Sys.init) and its default
// output is "<dir>/<dir>.asm"; a single file never bootstraps and defaults to a sibling .asm.
func resolveInputs(input string) (inputs []string, bootstrap bool, defaultOutput string, err error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, false, "", fmt.Errorf("unable to stat input path: %w", err)
	}

	if !info.IsDir() {
		stem := strings.TrimSuffix(input, filepath.Ext(input))
		return []string{input}, false, stem + ".asm", nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, false, "", fmt.Errorf("unable to read input directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".vm" {
			continue
		}
		inputs = append(inputs, filepath.Join(input, entry.Name()))
	}
	if len(inputs) == 0 {
		return nil, false, "", fmt.Errorf("no .vm files found in directory '%s'", input)
	}

	dirName := filepath.Base(filepath.Clean(input))
	defaultOutput = filepath.Join(input, dirName+".asm")
	return inputs, true, defaultOutput, nil
}

func main() { os.Exit(VmTranslator.Run(os.Args, os.Stdout)) }
