package jack_test

import (
	"strings"
	"testing"

	"nand2tetris.dev/toolchain/pkg/jack"
)

func mustParse(t *testing.T, source string) jack.Class {
	t.Helper()
	parser := jack.NewParser(strings.NewReader(source))
	class, err := parser.Parse()
	if err != nil {
		t.Fatalf("unexpected error parsing %q: %v", source, err)
	}
	return class
}

func TestParseEmptyClass(t *testing.T) {
	class := mustParse(t, `class Main { }`)

	if class.Name != "Main" {
		t.Errorf("expected class name 'Main', got %q", class.Name)
	}
	if class.Fields.Size() != 0 || class.Subroutines.Size() != 0 {
		t.Errorf("expected an empty class, got %d fields and %d subroutines", class.Fields.Size(), class.Subroutines.Size())
	}
}

func TestParseFieldsAndStatics(t *testing.T) {
	class := mustParse(t, `
		class Point {
			field int x, y;
			static boolean initialized;
		}
	`)

	x, ok := class.Fields.Get("x")
	if !ok || x.VarType != jack.Field || x.DataType.Main != jack.Int {
		t.Fatalf("expected field 'x' as a Field/Int, got %+v (found=%v)", x, ok)
	}
	y, ok := class.Fields.Get("y")
	if !ok || y.VarType != jack.Field {
		t.Fatalf("expected field 'y' as a Field, got %+v (found=%v)", y, ok)
	}
	initialized, ok := class.Fields.Get("initialized")
	if !ok || initialized.VarType != jack.Static || initialized.DataType.Main != jack.Bool {
		t.Fatalf("expected field 'initialized' as a Static/Bool, got %+v (found=%v)", initialized, ok)
	}
}

func TestParseConstructorArgumentsAndLocals(t *testing.T) {
	class := mustParse(t, `
		class Point {
			constructor Point new(int ax, int ay) {
				var int sum;
				let sum = ax;
				return this;
			}
		}
	`)

	ctor, ok := class.Subroutines.Get("new")
	if !ok {
		t.Fatalf("expected a 'new' subroutine")
	}
	if ctor.Type != jack.Constructor {
		t.Errorf("expected subroutine type Constructor, got %q", ctor.Type)
	}
	if ctor.Return.Main != jack.Object || ctor.Return.Subtype != "Point" {
		t.Errorf("expected return type Object/Point, got %+v", ctor.Return)
	}
	if ctor.Arguments.Size() != 2 {
		t.Fatalf("expected 2 arguments, got %d", ctor.Arguments.Size())
	}
	if keys := ctor.Arguments.Keys(); keys[0] != "ax" || keys[1] != "ay" {
		t.Errorf("expected arguments in declaration order [ax ay], got %v", keys)
	}
}

func TestParseLetStatementWithArrayIndex(t *testing.T) {
	class := mustParse(t, `
		class Main {
			function void main() {
				let arr[1] = 2;
				return;
			}
		}
	`)

	main, ok := class.Subroutines.Get("main")
	if !ok {
		t.Fatalf("expected a 'main' subroutine")
	}
	if len(main.Statements) != 2 {
		t.Fatalf("expected 2 statements (let, return), got %d", len(main.Statements))
	}

	let, ok := main.Statements[0].(jack.LetStmt)
	if !ok {
		t.Fatalf("expected a LetStmt, got %T", main.Statements[0])
	}
	arrExpr, ok := let.Lhs.(jack.ArrayExpr)
	if !ok {
		t.Fatalf("expected LHS to be an ArrayExpr, got %T", let.Lhs)
	}
	if arrExpr.Var != "arr" {
		t.Errorf("expected array variable 'arr', got %q", arrExpr.Var)
	}
}

func TestParseIfElseAndWhile(t *testing.T) {
	class := mustParse(t, `
		class Main {
			function void main() {
				if (true) {
					let x = 1;
				} else {
					let x = 2;
				}
				while (false) {
					let x = x;
				}
				return;
			}
		}
	`)

	main, _ := class.Subroutines.Get("main")
	if len(main.Statements) != 3 {
		t.Fatalf("expected 3 statements (if, while, return), got %d", len(main.Statements))
	}

	ifStmt, ok := main.Statements[0].(jack.IfStmt)
	if !ok {
		t.Fatalf("expected an IfStmt, got %T", main.Statements[0])
	}
	if len(ifStmt.ThenBlock) != 1 || len(ifStmt.ElseBlock) != 1 {
		t.Errorf("expected one statement in each branch, got then=%d else=%d", len(ifStmt.ThenBlock), len(ifStmt.ElseBlock))
	}

	whileStmt, ok := main.Statements[1].(jack.WhileStmt)
	if !ok {
		t.Fatalf("expected a WhileStmt, got %T", main.Statements[1])
	}
	if len(whileStmt.Block) != 1 {
		t.Errorf("expected one statement in the while block, got %d", len(whileStmt.Block))
	}
}

func TestParseExpressionOperatorChain(t *testing.T) {
	class := mustParse(t, `
		class Main {
			function void main() {
				let x = 1 + 2 * 3;
				return;
			}
		}
	`)

	main, _ := class.Subroutines.Get("main")
	let := main.Statements[0].(jack.LetStmt)

	// Jack has no operator precedence (spec.md §4.3): "1 + 2 * 3" folds strictly
	// left to right, so the outermost node is the '*' applied to "(1 + 2)" and "3".
	outer, ok := let.Rhs.(jack.BinaryExpr)
	if !ok {
		t.Fatalf("expected a BinaryExpr, got %T", let.Rhs)
	}
	if outer.Type != jack.Multiply {
		t.Errorf("expected the outermost operator to be Multiply, got %q", outer.Type)
	}
	inner, ok := outer.Lhs.(jack.BinaryExpr)
	if !ok {
		t.Fatalf("expected the LHS to be a nested BinaryExpr, got %T", outer.Lhs)
	}
	if inner.Type != jack.Plus {
		t.Errorf("expected the inner operator to be Plus, got %q", inner.Type)
	}
}

func TestParseUnaryAndParenthesizedTerms(t *testing.T) {
	class := mustParse(t, `
		class Main {
			function void main() {
				let x = -(1 + 2);
				return;
			}
		}
	`)

	main, _ := class.Subroutines.Get("main")
	let := main.Statements[0].(jack.LetStmt)

	unary, ok := let.Rhs.(jack.UnaryExpr)
	if !ok {
		t.Fatalf("expected a UnaryExpr, got %T", let.Rhs)
	}
	if unary.Type != jack.Negation {
		t.Errorf("expected Negation, got %q", unary.Type)
	}
	if _, ok := unary.Rhs.(jack.BinaryExpr); !ok {
		t.Errorf("expected the parenthesized term to unwrap to a BinaryExpr, got %T", unary.Rhs)
	}
}

func TestParseSubroutineCallQualifiers(t *testing.T) {
	class := mustParse(t, `
		class Main {
			function void main() {
				do helper();
				do obj.method(1, 2);
				do Output.printString("hi");
				return;
			}
		}
	`)

	main, _ := class.Subroutines.Get("main")
	if len(main.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(main.Statements))
	}

	bare := main.Statements[0].(jack.DoStmt).FuncCall
	if bare.IsExtCall || bare.FuncName != "helper" {
		t.Errorf("expected a bare call to 'helper', got %+v", bare)
	}

	qualified := main.Statements[1].(jack.DoStmt).FuncCall
	if !qualified.IsExtCall || qualified.Var != "obj" || qualified.FuncName != "method" || len(qualified.Arguments) != 2 {
		t.Errorf("expected a qualified call to 'obj.method' with 2 arguments, got %+v", qualified)
	}

	classQualified := main.Statements[2].(jack.DoStmt).FuncCall
	if !classQualified.IsExtCall || classQualified.Var != "Output" || classQualified.FuncName != "printString" {
		t.Errorf("expected a qualified call to 'Output.printString', got %+v", classQualified)
	}
	str, ok := classQualified.Arguments[0].(jack.LiteralExpr)
	if !ok || str.Value != "hi" {
		t.Errorf("expected the string argument to unwrap to 'hi', got %+v", classQualified.Arguments[0])
	}
}

func TestParseMethodDeclaration(t *testing.T) {
	class := mustParse(t, `
		class Point {
			field int x;
			method int getX() {
				return x;
			}
		}
	`)

	method, ok := class.Subroutines.Get("getX")
	if !ok || method.Type != jack.Method {
		t.Fatalf("expected a Method subroutine 'getX', got %+v (found=%v)", method, ok)
	}
	if method.Return.Main != jack.Int {
		t.Errorf("expected return type Int, got %+v", method.Return)
	}
}

func TestParseSkipsComments(t *testing.T) {
	class := mustParse(t, `
		// leading comment
		class Main {
			/* a field */
			field int x;
			// a method
			function void main() {
				// a statement comment is not valid Jack inside a body in most dialects,
				// so keep this one between statements instead
				return;
			}
		}
	`)

	if class.Name != "Main" {
		t.Errorf("expected class name 'Main', got %q", class.Name)
	}
	if class.Fields.Size() != 1 {
		t.Errorf("expected 1 field, got %d", class.Fields.Size())
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	parser := jack.NewParser(strings.NewReader(`class { }`))
	if _, err := parser.Parse(); err == nil {
		t.Fatalf("expected an error parsing a class with no name")
	}
}
