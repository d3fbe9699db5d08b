package jack

import (
	"fmt"
	"strings"
)

// TypeChecker walks a jack.Program validating the grammar-adjacent semantic
// rules spec.md calls out (see its Non-goals: this is not a type checker in the
// sense of verifying e.g. 'int + bool' is illegal, only that every identifier
// referenced actually resolves to a declaration and that no scope declares the
// same name twice). It reuses the same ScopeTable/traversal shape as the
// Lowerer, since both are a DFS over the same typed tree.
type TypeChecker struct {
	program Program
	scopes  ScopeTable
}

func NewTypeChecker(program Program) TypeChecker {
	return TypeChecker{program: program}
}

// SemanticError wraps every failure produced by the TypeChecker so callers can
// tell a semantic problem (undeclared identifier, duplicate declaration, call to
// an unknown subroutine) apart from a lower-level parse or I/O failure.
type SemanticError struct {
	Context string
	Err     error
}

func (e *SemanticError) Error() string { return fmt.Sprintf("%s: %s", e.Context, e.Err) }
func (e *SemanticError) Unwrap() error { return e.Err }

func (tc *TypeChecker) Check() (bool, error) {
	if len(tc.program) == 0 {
		return false, &SemanticError{"program", fmt.Errorf("empty or nil")}
	}

	for name, class := range tc.program {
		if err := tc.HandleClass(class); err != nil {
			return false, &SemanticError{fmt.Sprintf("class '%s'", name), err}
		}
	}

	return true, nil
}

// Specialized function to type-check a 'jack.Class' and nested fields.
func (tc *TypeChecker) HandleClass(class Class) error {
	tc.scopes.PushClassScope(class.Name)
	defer tc.scopes.PopClassScope()

	for _, field := range class.Fields.Entries() {
		if err := tc.scopes.RegisterVariable(field); err != nil {
			return fmt.Errorf("field '%s': %w", field.Name, err)
		}
	}

	for _, subroutine := range class.Subroutines.Entries() {
		if err := tc.HandleSubroutine(class, subroutine); err != nil {
			return fmt.Errorf("subroutine '%s': %w", subroutine.Name, err)
		}
	}

	return nil
}

// Specialized function to type-check a 'jack.Subroutine' and nested fields.
func (tc *TypeChecker) HandleSubroutine(class Class, subroutine Subroutine) error {
	tc.scopes.PushSubRoutineScope(subroutine.Name)
	defer tc.scopes.PopSubroutineScope()

	if subroutine.Type == Method {
		if err := tc.scopes.RegisterVariable(Variable{Name: "this", VarType: Parameter, DataType: DataType{Main: Object, Subtype: class.Name}}); err != nil {
			return fmt.Errorf("implicit 'this' argument: %w", err)
		}
	}

	for _, arg := range subroutine.Arguments.Entries() {
		if err := tc.scopes.RegisterVariable(arg); err != nil {
			return fmt.Errorf("argument '%s': %w", arg.Name, err)
		}
	}

	for _, stmt := range subroutine.Statements {
		if err := tc.HandleStatement(stmt); err != nil {
			return fmt.Errorf("statement %T: %w", stmt, err)
		}
	}

	return nil
}

// Generalized function to type-check multiple statements types.
func (tc *TypeChecker) HandleStatement(stmt Statement) error {
	switch tStmt := stmt.(type) {
	case DoStmt:
		return tc.HandleExpression(tStmt.FuncCall)
	case VarStmt:
		for _, v := range tStmt.Vars {
			if err := tc.scopes.RegisterVariable(v); err != nil {
				return err
			}
		}
		return nil
	case LetStmt:
		if err := tc.HandleExpression(tStmt.Lhs); err != nil {
			return err
		}
		return tc.HandleExpression(tStmt.Rhs)
	case IfStmt:
		if err := tc.HandleExpression(tStmt.Condition); err != nil {
			return err
		}
		for _, s := range tStmt.ThenBlock {
			if err := tc.HandleStatement(s); err != nil {
				return err
			}
		}
		for _, s := range tStmt.ElseBlock {
			if err := tc.HandleStatement(s); err != nil {
				return err
			}
		}
		return nil
	case WhileStmt:
		if err := tc.HandleExpression(tStmt.Condition); err != nil {
			return err
		}
		for _, s := range tStmt.Block {
			if err := tc.HandleStatement(s); err != nil {
				return err
			}
		}
		return nil
	case ReturnStmt:
		if tStmt.Expr == nil {
			return nil
		}
		return tc.HandleExpression(tStmt.Expr)
	default:
		return fmt.Errorf("unrecognized statement: %T", stmt)
	}
}

// Generalized function to type-check multiple expression types. Only resolves
// identifiers against the current scope chain and recurses into sub-expressions;
// does not infer or enforce a resulting DataType (see spec.md's Non-goals).
func (tc *TypeChecker) HandleExpression(expr Expression) error {
	switch tExpr := expr.(type) {
	case VarExpr:
		if tExpr.Var == "this" {
			return nil
		}
		_, _, err := tc.scopes.ResolveVariable(tExpr.Var)
		return err
	case LiteralExpr:
		return nil
	case ArrayExpr:
		if _, _, err := tc.scopes.ResolveVariable(tExpr.Var); err != nil {
			return err
		}
		return tc.HandleExpression(tExpr.Index)
	case UnaryExpr:
		return tc.HandleExpression(tExpr.Rhs)
	case BinaryExpr:
		if err := tc.HandleExpression(tExpr.Lhs); err != nil {
			return err
		}
		return tc.HandleExpression(tExpr.Rhs)
	case FuncCallExpr:
		return tc.HandleFuncCallExpr(tExpr)
	default:
		return fmt.Errorf("unrecognized expression: %T", expr)
	}
}

// Resolves a subroutine call against the program, regardless of whether it's a
// bare call, an object-qualified call, or a class-qualified call, mirroring the
// three-way dispatch the Lowerer performs for the same construct.
func (tc *TypeChecker) HandleFuncCallExpr(expr FuncCallExpr) error {
	for _, arg := range expr.Arguments {
		if err := tc.HandleExpression(arg); err != nil {
			return err
		}
	}

	if !expr.IsExtCall { // Bare call, resolved against the enclosing class
		className := strings.Split(tc.scopes.GetScope(), ".")[0]
		if class, exists := tc.program[className]; exists {
			if _, exists := class.Subroutines.Get(expr.FuncName); !exists {
				return fmt.Errorf("subroutine '%s' not found in class '%s'", expr.FuncName, className)
			}
		}
		return nil
	}

	if _, _, err := tc.scopes.ResolveVariable(expr.Var); err == nil {
		return nil // Object-qualified call, e.g. 'do obj.method()'
	}

	class, exists := tc.program[expr.Var]
	if !exists {
		return fmt.Errorf("class '%s' not found", expr.Var)
	}
	if _, exists := class.Subroutines.Get(expr.FuncName); !exists {
		return fmt.Errorf("subroutine '%s' not found in class '%s'", expr.FuncName, expr.Var)
	}
	return nil
}
