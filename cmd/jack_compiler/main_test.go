package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// "class Main { function void main() { return; } }" (spec.md §8) is the minimal Jack
// program: it must emit exactly 'function Main.main 0', 'push constant 0', 'return'.
func TestJackCompilerEmptyMainFunction(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Main.jack")

	source := "class Main {\n\tfunction void main() {\n\t\treturn;\n\t}\n}\n"
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{input}, nil); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}

	compiled, err := os.ReadFile(filepath.Join(dir, "Main.vm"))
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	expected := "function Main.main 0\npush constant 0\nreturn\n"
	if string(compiled) != expected {
		t.Errorf("unexpected VM code:\n got: %q\nwant: %q", compiled, expected)
	}
}

// A method's 'do bar(1)' resolves against its own class: the implicit receiver
// (pointer 0) is pushed ahead of the explicit arguments (spec.md §8).
func TestJackCompilerBareMethodCallPushesImplicitReceiver(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Foo.jack")

	source := "class Foo {\n" +
		"\tmethod void bar(int n) {\n" +
		"\t\treturn;\n" +
		"\t}\n" +
		"\tmethod void caller() {\n" +
		"\t\tdo bar(1);\n" +
		"\t\treturn;\n" +
		"\t}\n" +
		"}\n"
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{input}, nil); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}

	compiled, err := os.ReadFile(filepath.Join(dir, "Foo.vm"))
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	want := "push pointer 0\npush constant 1\ncall Foo.bar 2\npop temp 0"
	if !strings.Contains(string(compiled), want) {
		t.Errorf("expected the call site to contain:\n%s\ngot:\n%s", want, compiled)
	}
}

// A class-qualified call to a name that is not a declared variable in scope ('Bar.baz')
// dispatches as a plain function call, with no implicit receiver pushed.
func TestJackCompilerClassQualifiedCallHasNoReceiver(t *testing.T) {
	dir := t.TempDir()
	fooInput := filepath.Join(dir, "Foo.jack")
	barInput := filepath.Join(dir, "Bar.jack")

	fooSrc := "class Foo {\n" +
		"\tfunction void main() {\n" +
		"\t\tdo Bar.baz(1);\n" +
		"\t\treturn;\n" +
		"\t}\n" +
		"}\n"
	barSrc := "class Bar {\n" +
		"\tfunction void baz(int n) {\n" +
		"\t\treturn;\n" +
		"\t}\n" +
		"}\n"

	if err := os.WriteFile(fooInput, []byte(fooSrc), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}
	if err := os.WriteFile(barInput, []byte(barSrc), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{dir}, nil); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}

	compiled, err := os.ReadFile(filepath.Join(dir, "Foo.vm"))
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	want := "push constant 1\ncall Bar.baz 1\npop temp 0"
	if !strings.Contains(string(compiled), want) {
		t.Errorf("expected the call site to contain:\n%s\ngot:\n%s", want, compiled)
	}
}

// An object-qualified call ('obj.baz(1)') where 'obj' is a field pushes the field's
// value (segment 'this', the field's offset) as the implicit receiver.
func TestJackCompilerFieldQualifiedCallPushesFieldAsReceiver(t *testing.T) {
	dir := t.TempDir()
	fooInput := filepath.Join(dir, "Foo.jack")
	barInput := filepath.Join(dir, "Bar.jack")

	fooSrc := "class Foo {\n" +
		"\tfield Bar obj;\n" +
		"\tmethod void caller() {\n" +
		"\t\tdo obj.baz(1);\n" +
		"\t\treturn;\n" +
		"\t}\n" +
		"}\n"
	barSrc := "class Bar {\n" +
		"\tmethod void baz(int n) {\n" +
		"\t\treturn;\n" +
		"\t}\n" +
		"}\n"

	if err := os.WriteFile(fooInput, []byte(fooSrc), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}
	if err := os.WriteFile(barInput, []byte(barSrc), 0o644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	if status := Handler([]string{dir}, nil); status != 0 {
		t.Fatalf("unexpected exit status: expected 0, got %d", status)
	}

	compiled, err := os.ReadFile(filepath.Join(dir, "Foo.vm"))
	if err != nil {
		t.Fatalf("unable to read output file: %v", err)
	}

	want := "push this 0\npush constant 1\ncall Bar.baz 2\npop temp 0"
	if !strings.Contains(string(compiled), want) {
		t.Errorf("expected the call site to contain:\n%s\ngot:\n%s", want, compiled)
	}
}
