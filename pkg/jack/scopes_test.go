package jack_test

import (
	"testing"

	"nand2tetris.dev/toolchain/pkg/jack"
)

func TestClassScope(t *testing.T) {
	test := func(st *jack.ScopeTable, lookup string, expectedVar jack.Variable, expectedOffset uint16, fail bool) {
		offset, variable, err := st.ResolveVariable(lookup)
		if err != nil && !fail {
			t.Fatalf("expected to find %s, got error: %v", lookup, err)
		}
		if err == nil && fail {
			t.Errorf("expected '%s' not to resolve, got %+v", lookup, variable)
		}
		if !fail && variable != expectedVar {
			t.Errorf("expected to find variable '%s' as %+v, got %+v", lookup, expectedVar, variable)
		}
		if !fail && offset != expectedOffset {
			t.Errorf("expected to find offset %d for variable '%s', got '%d'", expectedOffset, lookup, offset)
		}
	}

	t.Run("Fields and statics resolve within a class scope", func(t *testing.T) {
		st := &jack.ScopeTable{}
		st.PushClassScope("TestClass")

		mustRegister(t, st, jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}})
		mustRegister(t, st, jack.Variable{Name: "test_static", VarType: jack.Static, DataType: jack.DataType{Main: jack.String}})
		mustRegister(t, st, jack.Variable{Name: "test_field_2", VarType: jack.Field, DataType: jack.DataType{Main: jack.Char}})
		mustRegister(t, st, jack.Variable{Name: "test_static_2", VarType: jack.Static, DataType: jack.DataType{Main: jack.Bool}})

		test(st, "test_field", jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}}, 0, false)
		test(st, "test_static", jack.Variable{Name: "test_static", VarType: jack.Static, DataType: jack.DataType{Main: jack.String}}, 0, false)
		test(st, "test_field_2", jack.Variable{Name: "test_field_2", VarType: jack.Field, DataType: jack.DataType{Main: jack.Char}}, 1, false)
		test(st, "test_static_2", jack.Variable{Name: "test_static_2", VarType: jack.Static, DataType: jack.DataType{Main: jack.Bool}}, 1, false)

		test(st, "random1", jack.Variable{}, 0, true)
	})

	t.Run("Redeclaring a name in the same scope is a fatal error", func(t *testing.T) {
		st := &jack.ScopeTable{}
		st.PushClassScope("TestClass")

		mustRegister(t, st, jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}})
		if err := st.RegisterVariable(jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Char}}); err == nil {
			t.Fatalf("expected an error redeclaring 'test_field' in the same class scope")
		}
	})

	t.Run("Fields and statics are unavailable after the class scope is popped", func(t *testing.T) {
		st := &jack.ScopeTable{}
		st.PushClassScope("TestClass")

		mustRegister(t, st, jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}})
		mustRegister(t, st, jack.Variable{Name: "test_static", VarType: jack.Static, DataType: jack.DataType{Main: jack.String}})

		test(st, "test_field", jack.Variable{Name: "test_field", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}}, 0, false)

		st.PopClassScope()

		test(st, "test_field", jack.Variable{}, 0, true)
		// Statics belong to the class scope as well, so they are gone once it is popped.
		test(st, "test_static", jack.Variable{}, 0, true)
	})
}

func TestSubroutineScope(t *testing.T) {
	test := func(st *jack.ScopeTable, lookup string, expectedVar jack.Variable, expectedOffset uint16, fail bool) {
		offset, variable, err := st.ResolveVariable(lookup)
		if err != nil && !fail {
			t.Fatalf("expected to find %s, got error: %v", lookup, err)
		}
		if err == nil && fail {
			t.Errorf("expected '%s' not to resolve, got %+v", lookup, variable)
		}
		if !fail && variable != expectedVar {
			t.Errorf("expected to find variable '%s' as %+v, got %+v", lookup, expectedVar, variable)
		}
		if !fail && offset != expectedOffset {
			t.Errorf("expected to find offset %d for variable '%s', got '%d'", expectedOffset, lookup, offset)
		}
	}

	t.Run("Locals and parameters resolve within a subroutine scope", func(t *testing.T) {
		st := &jack.ScopeTable{}
		st.PushClassScope("TestClass")
		st.PushSubRoutineScope("testSubroutine")

		mustRegister(t, st, jack.Variable{Name: "test_local", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}})
		mustRegister(t, st, jack.Variable{Name: "test_parameter", VarType: jack.Parameter, DataType: jack.DataType{Main: jack.String}})
		mustRegister(t, st, jack.Variable{Name: "test_local_2", VarType: jack.Local, DataType: jack.DataType{Main: jack.Char}})

		test(st, "test_local", jack.Variable{Name: "test_local", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}}, 0, false)
		test(st, "test_parameter", jack.Variable{Name: "test_parameter", VarType: jack.Parameter, DataType: jack.DataType{Main: jack.String}}, 0, false)
		test(st, "test_local_2", jack.Variable{Name: "test_local_2", VarType: jack.Local, DataType: jack.DataType{Main: jack.Char}}, 1, false)

		test(st, "random1", jack.Variable{}, 0, true)
	})

	t.Run("Redeclaring a name in the same subroutine scope is a fatal error", func(t *testing.T) {
		st := &jack.ScopeTable{}
		st.PushClassScope("TestClass")
		st.PushSubRoutineScope("testSubroutine")

		mustRegister(t, st, jack.Variable{Name: "x", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}})
		if err := st.RegisterVariable(jack.Variable{Name: "x", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}}); err == nil {
			t.Fatalf("expected an error redeclaring 'x' in the same subroutine scope")
		}
	})

	t.Run("A local may share a name with a field of the enclosing class", func(t *testing.T) {
		st := &jack.ScopeTable{}
		st.PushClassScope("TestClass")
		mustRegister(t, st, jack.Variable{Name: "test1", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}})

		st.PushSubRoutineScope("testSubroutine")
		mustRegister(t, st, jack.Variable{Name: "test1", VarType: jack.Local, DataType: jack.DataType{Main: jack.Bool}})

		// The local in the innermost scope takes precedence over the outer field.
		test(st, "test1", jack.Variable{Name: "test1", VarType: jack.Local, DataType: jack.DataType{Main: jack.Bool}}, 0, false)

		st.PopSubroutineScope()

		// Once the subroutine scope is popped, the field resolves again.
		test(st, "test1", jack.Variable{Name: "test1", VarType: jack.Field, DataType: jack.DataType{Main: jack.Int}}, 0, false)
	})

	t.Run("Locals and parameters are unavailable after the subroutine scope is popped", func(t *testing.T) {
		st := &jack.ScopeTable{}
		st.PushClassScope("TestClass")
		st.PushSubRoutineScope("testSubroutine")

		mustRegister(t, st, jack.Variable{Name: "test_local", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}})

		test(st, "test_local", jack.Variable{Name: "test_local", VarType: jack.Local, DataType: jack.DataType{Main: jack.Int}}, 0, false)

		st.PopSubroutineScope()

		test(st, "test_local", jack.Variable{}, 0, true)
	})
}

func TestScopeTracking(t *testing.T) {
	st := &jack.ScopeTable{}

	st.PushClassScope("TestClass")
	if got := st.GetScope(); got != "TestClass.Global" {
		t.Errorf("expected scope 'TestClass.Global', got %q", got)
	}

	st.PushSubRoutineScope("testSubroutine")
	if got := st.GetScope(); got != "TestClass.testSubroutine" {
		t.Errorf("expected scope 'TestClass.testSubroutine', got %q", got)
	}

	st.PopSubroutineScope()
	if got := st.GetScope(); got != "TestClass.Global" {
		t.Errorf("expected scope 'TestClass.Global', got %q", got)
	}

	st.PopClassScope()
	if got := st.GetScope(); got != "Global" {
		t.Errorf("expected scope 'Global', got %q", got)
	}
}

func mustRegister(t *testing.T, st *jack.ScopeTable, v jack.Variable) {
	t.Helper()
	if err := st.RegisterVariable(v); err != nil {
		t.Fatalf("unexpected error registering '%s': %v", v.Name, err)
	}
}
