package jack

import (
	"fmt"
	"strings"
)

// A scope is a flat, name-keyed set of bindings. Declaration order is kept
// alongside the map since that order IS the eventual segment offset of each
// variable (the n-th declared local lives at 'local n', and so on). Unlike the teacher's original
// 'utils.Stack'-backed scope (which let a later declaration silently shadow an
// earlier one with the same name), redeclaring a name inside the same scope is a
// semantic error in Jack: the language has no block scoping, only class and
// subroutine scoping, so shadowing can only ever hide a bug rather than express one.
type scope struct {
	name    string
	order   []string
	entries map[string]Variable
}

func newScope(name string) scope {
	return scope{name: name, entries: map[string]Variable{}}
}

func (s *scope) declare(v Variable) error {
	if s.entries == nil {
		s.entries = map[string]Variable{}
	}
	if _, exists := s.entries[v.Name]; exists {
		return fmt.Errorf("'%s' is already declared in scope '%s'", v.Name, s.name)
	}
	s.entries[v.Name] = v
	s.order = append(s.order, v.Name)
	return nil
}

func (s scope) resolve(name string) (uint16, Variable, bool) {
	for idx, n := range s.order {
		if n == name {
			return uint16(idx), s.entries[n], true
		}
	}
	return 0, Variable{}, false
}

// ScopeTable tracks the two levels of scoping Jack supports: the class scope
// (static and field variables, live for as long as the class is being processed)
// and the subroutine scope (parameters and locals, live only within one
// subroutine). Static variables, like fields, belong to the class scope: each
// class starts its statics at offset 0, matching the per-file 'static' segment
// of the VM, and they stop resolving once the class scope is popped.
type ScopeTable struct {
	static scope

	field     scope
	local     scope
	parameter scope
}

// Begins processing a new class: resets both the field and the static scope.
func (st *ScopeTable) PushClassScope(class string) {
	st.field = newScope(fmt.Sprintf("%s.Global", class))
	st.static = newScope(fmt.Sprintf("%s.Static", class))
}

func (st *ScopeTable) PopClassScope() { st.field, st.static = scope{}, scope{} }

// Begins processing a new subroutine within the current class.
func (st *ScopeTable) PushSubRoutineScope(method string) {
	name := strings.ReplaceAll(st.GetScope(), "Global", method)
	st.local = newScope(name)
	st.parameter = newScope(name)
}

func (st *ScopeTable) PopSubroutineScope() { st.local, st.parameter = scope{}, scope{} }

// Returns the fully-qualified name of whatever scope is currently innermost,
// e.g. "Main.Global" while processing class fields, "Main.main" while processing
// the body of subroutine 'main', or "Global" before any class has been pushed.
func (st *ScopeTable) GetScope() string {
	if st.local.name != "" {
		return st.local.name
	}
	if st.field.name != "" {
		return st.field.name
	}
	return "Global"
}

// Adds a variable to the scope matching its VarType. Returns an error if a
// variable with the same name is already declared in that scope — Jack has no
// block scoping, so a duplicate name in the same scope is always a user mistake.
func (st *ScopeTable) RegisterVariable(v Variable) error {
	switch v.VarType {
	case Local:
		return st.local.declare(v)
	case Field:
		return st.field.declare(v)
	case Parameter:
		return st.parameter.declare(v)
	case Static:
		return st.static.declare(v)
	default:
		return fmt.Errorf("unrecognized variable type '%s' for '%s'", v.VarType, v.Name)
	}
}

// Looks up a variable by name across every currently active scope, innermost
// first (local, then parameter, then field, then static), and returns both the
// variable and the offset it was declared at within its own scope/segment.
func (st *ScopeTable) ResolveVariable(name string) (uint16, Variable, error) {
	for _, s := range []scope{st.local, st.parameter, st.field, st.static} {
		if offset, v, found := s.resolve(name); found {
			return offset, v, nil
		}
	}
	return 0, Variable{}, fmt.Errorf("variable '%s' undeclared, not found in any scope", name)
}

// Returns the number of local variables declared in the current subroutine
// scope, used to populate 'function <name> <nLocal>'.
func (st *ScopeTable) LocalCount() uint16 { return uint16(len(st.local.order)) }
