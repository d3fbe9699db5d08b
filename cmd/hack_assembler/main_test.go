package main

import (
	"os"
	"path/filepath"
	"testing"
)

// "@2 / D=A / @3 / D=D+A / @0 / M=D" is the literal Add.asm fixture from spec.md §8:
// it must assemble to exactly these 6 lines of machine code, with no symbol table
// involved at all (every address is already a literal constant).
func TestHackAssemblerLiteralAdd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Add.asm")
	output := filepath.Join(dir, "Add.hack")

	source := "@2\nD=A\n@3\nD=D+A\n@0\nM=D\n"
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{input, output}, nil); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}

	compiled, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	expected := "0000000000000010\n" +
		"1110110000010000\n" +
		"0000000000000011\n" +
		"1110000010010000\n" +
		"0000000000000000\n" +
		"1110001100001000\n"
	if string(compiled) != expected {
		t.Errorf("unexpected machine code:\n got: %q\nwant: %q", compiled, expected)
	}
}

// Max.asm exercises labels, variables, and a conditional jump: the output must
// hold one line per A/C instruction of the source (label declarations and comments
// do not survive into the output) and every address must be fully numeric.
func TestHackAssemblerLabelsAndVariables(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Max.asm")
	output := filepath.Join(dir, "Max.hack")

	source := `
// Computes max(R0, R1) and stores it in R2.
@R0
D=M
@R1
D=D-M
@OUTPUT_FIRST
D;JGT
@R1
D=M
@OUTPUT_D
0;JMP
(OUTPUT_FIRST)
@R0
D=M
(OUTPUT_D)
@R2
M=D
(END)
@END
0;JMP
`
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{input, output}, nil); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}

	compiled, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	lines := splitNonEmptyLines(string(compiled))
	if len(lines) != 16 {
		t.Fatalf("expected 16 instructions, got %d", len(lines))
	}
	for _, line := range lines {
		if len(line) != 16 {
			t.Errorf("expected a 16-bit instruction, got %q (len=%d)", line, len(line))
		}
		for _, c := range line {
			if c != '0' && c != '1' {
				t.Errorf("expected a binary instruction, got %q", line)
				break
			}
		}
	}
}

func splitNonEmptyLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			if line := s[start:i]; line != "" {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	return lines
}
