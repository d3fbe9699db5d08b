package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// "push constant 7 / push constant 8 / add" (spec.md §8) is the smallest program that
// exercises the whole pipeline end to end: single-file input, no bootstrap, one
// arithmetic op. A single file never triggers the bootstrap preamble.
func TestVMTranslatorSingleFileNoBootstrap(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "SimpleAdd.vm")

	source := "push constant 7\npush constant 8\nadd\n"
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{input}, nil); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}

	compiled, err := os.ReadFile(filepath.Join(dir, "SimpleAdd.asm"))
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	if strings.Contains(string(compiled), "@Sys.init") {
		t.Errorf("a single-file translation must never emit the bootstrap, got:\n%s", compiled)
	}
	if len(compiled) == 0 {
		t.Fatalf("expected non-empty assembly output")
	}
}

// A directory containing Sys.vm/Main.vm always emits the bootstrap preamble
// (spec.md §4.2/§6): 'SP=256' followed by a call to 'Sys.init'.
func TestVMTranslatorDirectoryBootstraps(t *testing.T) {
	dir := t.TempDir()

	mainSrc := "function Main.main 0\ncall Sys.init 0\npop temp 0\npush constant 0\nreturn\n"
	sysSrc := "function Sys.init 0\ncall Main.main 0\npop temp 0\npush constant 0\nreturn\n"

	if err := os.WriteFile(filepath.Join(dir, "Main.vm"), []byte(mainSrc), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Sys.vm"), []byte(sysSrc), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{dir}, nil); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}

	dirName := filepath.Base(dir)
	compiled, err := os.ReadFile(filepath.Join(dir, dirName+".asm"))
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	lines := strings.Split(string(compiled), "\n")
	if len(lines) < 3 || lines[0] != "@256" || lines[1] != "D=A" {
		t.Fatalf("expected the bootstrap to begin '@256 / D=A / ...', got: %v", lines[:3])
	}
	if !strings.Contains(string(compiled), "@Sys.init\n0;JMP") {
		t.Errorf("expected the bootstrap to call 'Sys.init', got:\n%s", compiled)
	}
}

func TestVMTranslatorExplicitOutputOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "SimpleAdd.vm")
	output := filepath.Join(dir, "custom.asm")

	if err := os.WriteFile(input, []byte("push constant 1\n"), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{input}, map[string]string{"output": output}); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output at the explicit path, got: %v", err)
	}
}
