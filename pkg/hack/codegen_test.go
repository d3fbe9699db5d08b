package hack_test

import (
	"fmt"
	"testing"

	"nand2tetris.dev/toolchain/pkg/hack"
)

func TestAInstructions(t *testing.T) {
	// Instantiate a basic simple table with some entries and shared codegen for every test cases
	table := hack.SymbolTable{"Test1": 0, "Test2": 67, "hmny": 9393, "n2t": 754, "JUMP": 90}
	codegen := hack.NewCodeGenerator(nil, table)

	test := func(inst hack.AInstruction, expected string, fail bool) {
		res, err := codegen.GenerateAInst(inst)
		if err != nil {
			if !fail {
				t.Fatalf("unexpected error translating %+v: %v", inst, err)
			}
			return
		}
		if fail {
			t.Fatalf("expected an error translating %+v, got %q", inst, res)
		}
		if len(res) != 16 {
			t.Fatalf("expected a 16 character result, got %q (%d chars)", res, len(res))
		}
		if res != expected {
			t.Fatalf("expected %q, got %q", expected, res)
		}
	}

	t.Run("Raw memory access", func(t *testing.T) {
		// A raw address must be strictly below 2^15, since only 15 bits are
		// available to index the Hack memory from an A instruction.
		test(hack.AInstruction{LocType: hack.Raw, LocName: "38"}, fmt.Sprintf("%016b", 38), false)
		test(hack.AInstruction{LocType: hack.Raw, LocName: "42"}, fmt.Sprintf("%016b", 42), false)
		test(hack.AInstruction{LocType: hack.Raw, LocName: "32767"}, fmt.Sprintf("%016b", 32767), false)
		// Out-of-bound or malformed addresses should not translate.
		test(hack.AInstruction{LocType: hack.Raw, LocName: "32768"}, "", true)
		test(hack.AInstruction{LocType: hack.Raw, LocName: "65538"}, "", true)
		test(hack.AInstruction{LocType: hack.Raw, LocName: "not-a-number"}, "", true)
	})

	t.Run("Hack built-in labels", func(t *testing.T) {
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "SP"}, fmt.Sprintf("%016b", 0), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "LCL"}, fmt.Sprintf("%016b", 1), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "ARG"}, fmt.Sprintf("%016b", 2), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "THIS"}, fmt.Sprintf("%016b", 3), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "THAT"}, fmt.Sprintf("%016b", 4), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "R13"}, fmt.Sprintf("%016b", 13), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "SCREEN"}, fmt.Sprintf("%016b", 16384), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "KBD"}, fmt.Sprintf("%016b", 24576), false)
		test(hack.AInstruction{LocType: hack.BuiltIn, LocName: "NOPE"}, "", true)
	})

	t.Run("User-defined labels", func(t *testing.T) {
		test(hack.AInstruction{LocType: hack.Label, LocName: "Test1"}, fmt.Sprintf("%016b", table["Test1"]), false)
		test(hack.AInstruction{LocType: hack.Label, LocName: "JUMP"}, fmt.Sprintf("%016b", table["JUMP"]), false)
	})

	t.Run("Variables allocate starting at 16", func(t *testing.T) {
		table := hack.SymbolTable{}
		codegen := hack.NewCodeGenerator(nil, table)

		first, err := codegen.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "i"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != fmt.Sprintf("%016b", 16) {
			t.Fatalf("expected first variable at address 16, got %q", first)
		}

		second, err := codegen.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "sum"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if second != fmt.Sprintf("%016b", 17) {
			t.Fatalf("expected second variable at address 17, got %q", second)
		}

		// Referencing 'i' again must resolve to the same address, not allocate a new one.
		again, err := codegen.GenerateAInst(hack.AInstruction{LocType: hack.Label, LocName: "i"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("expected repeated reference to 'i' to resolve to %q, got %q", first, again)
		}
	})
}

func TestCInstructions(t *testing.T) {
	codegen := hack.NewCodeGenerator(nil, nil)

	test := func(inst hack.CInstruction, expected string, fail bool) {
		res, err := codegen.GenerateCInst(inst)
		if err != nil {
			if !fail {
				t.Fatalf("unexpected error translating %+v: %v", inst, err)
			}
			return
		}
		if fail {
			t.Fatalf("expected an error translating %+v, got %q", inst, res)
		}
		if res != expected {
			t.Fatalf("expected %q, got %q", expected, res)
		}
	}

	t.Run("Comps and jumps", func(t *testing.T) {
		test(hack.CInstruction{Comp: "M"}, "1111110000000000", false)
		test(hack.CInstruction{Comp: "A"}, "1110110000000000", false)
		test(hack.CInstruction{Comp: "0", Jump: "JGT"}, "1110101010000001", false)
		test(hack.CInstruction{Comp: "1", Jump: "JEQ"}, "1110111111000010", false)
		test(hack.CInstruction{Comp: "-1", Jump: "JEQ"}, "1110111010000010", false)
		test(hack.CInstruction{Comp: "D", Jump: "JGE"}, "1110001100000011", false)
	})

	t.Run("Comps and dests", func(t *testing.T) {
		test(hack.CInstruction{Comp: "D+A", Dest: "D"}, "1110000010010000", false)
		test(hack.CInstruction{Comp: "D-A", Dest: "M"}, "1110010011001000", false)
		test(hack.CInstruction{Comp: "A-D", Dest: "D"}, "1110000111010000", false)
		test(hack.CInstruction{Comp: "D&A", Dest: "A"}, "1110000000100000", false)
		test(hack.CInstruction{Comp: "D|A", Dest: "MD"}, "1110010101011000", false)
		test(hack.CInstruction{Comp: "-1", Dest: "AMD"}, "1110111010111000", false)
	})

	t.Run("Comps with both dest and jump", func(t *testing.T) {
		// "dest=comp;jump" is perfectly legal, e.g. "MD=D-1;JGT"
		test(hack.CInstruction{Comp: "D-1", Dest: "MD", Jump: "JGT"}, "1110001110011001", false)
	})

	t.Run("Invalid operation codes", func(t *testing.T) {
		test(hack.CInstruction{Comp: ""}, "", true)
		test(hack.CInstruction{Comp: "D%A"}, "", true)
		test(hack.CInstruction{Comp: "D", Dest: "XYZ"}, "", true)
		test(hack.CInstruction{Comp: "D", Jump: "JXX"}, "", true)
	})
}
