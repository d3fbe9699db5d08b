package jack_test

import (
	"testing"

	"nand2tetris.dev/toolchain/pkg/jack"
)

func TestTypeCheckResolvesKnownIdentifiers(t *testing.T) {
	class := mustParse(t, `
		class Point {
			field int x;
			method int getX() {
				return x;
			}
		}
	`)

	checker := jack.NewTypeChecker(jack.Program{"Point": class})
	if ok, err := checker.Check(); !ok || err != nil {
		t.Fatalf("expected the program to type-check, got ok=%v err=%v", ok, err)
	}
}

func TestTypeCheckRejectsUndeclaredIdentifier(t *testing.T) {
	class := mustParse(t, `
		class Main {
			function void main() {
				let y = 1;
				return;
			}
		}
	`)

	checker := jack.NewTypeChecker(jack.Program{"Main": class})
	if _, err := checker.Check(); err == nil {
		t.Fatalf("expected an error assigning to an undeclared variable 'y'")
	}
}

func TestTypeCheckRejectsUnknownSubroutineCall(t *testing.T) {
	class := mustParse(t, `
		class Main {
			function void main() {
				do Other.missing();
				return;
			}
		}
	`)

	checker := jack.NewTypeChecker(jack.Program{"Main": class})
	if _, err := checker.Check(); err == nil {
		t.Fatalf("expected an error calling a subroutine on an unknown class 'Other'")
	}
}

func TestTypeCheckRejectsEmptyProgram(t *testing.T) {
	checker := jack.NewTypeChecker(jack.Program{})
	if _, err := checker.Check(); err == nil {
		t.Fatalf("expected an error type-checking an empty program")
	}
}
