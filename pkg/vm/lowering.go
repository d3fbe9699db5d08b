package vm

import (
	"fmt"

	"nand2tetris.dev/toolchain/pkg/asm"
)

// ----------------------------------------------------------------------------
// Segment resolution

// Segments backed by a real register holding the segment's base address. The resolved
// location is always "base register + offset" and gets re-derived on every access since
// the base can move between calls (local/argument) or be repointed (this/that).
var baseSegmentRegister = map[SegmentType]string{
	Local:    "LCL",
	Argument: "ARG",
	This:     "THIS",
	That:     "THAT",
}

// ----------------------------------------------------------------------------
// Vm Lowerer

// The Lowerer takes a 'vm.Program' (one Module per translation unit/file) and produces
// its 'asm.Program' counterpart, ready to be handed to the Hack code generator.
//
// Static variables are namespaced per module ("<Module>.<offset>") so that two classes
// can each declare a "static 0" without colliding, comparison and call-return labels are
// disambiguated with a monotonic counter so that two "eq" (or two "call") sites anywhere
// in the whole program never produce the same label, and flow control labels declared
// inside a function are mangled as "<Function>$<Label>" per the calling convention.
type Lowerer struct {
	program   Program
	bootstrap bool

	curModule   string
	curFunction string
	nUnique     int
}

// Initializes and returns to the caller a brand new 'Lowerer' struct.
// 'bootstrap' controls whether the synthetic 'Sys.init' preamble is emitted; it should be
// true when lowering a whole directory and false when lowering a single, standalone file.
func NewLowerer(p Program, bootstrap bool) Lowerer {
	return Lowerer{program: p, bootstrap: bootstrap}
}

// Triggers the lowering process across every module in the program. Modules are visited
// in a deterministic (sorted) order so that repeated runs over the same input produce
// byte-identical output, per the translator's determinism contract.
func (l *Lowerer) Lower() (asm.Program, error) {
	program := asm.Program{}

	if l.bootstrap {
		program = append(program, l.bootstrapPreamble()...)
	}

	for _, name := range l.sortedModuleNames() {
		l.curModule = name
		l.curFunction = ""

		for _, operation := range l.program[name] {
			lowered, err := l.lowerOperation(operation)
			if err != nil {
				return nil, fmt.Errorf("module '%s': %w", name, err)
			}
			program = append(program, lowered...)
		}
	}

	return program, nil
}

func (l *Lowerer) sortedModuleNames() []string {
	names := make([]string, 0, len(l.program))
	for name := range l.program {
		names = append(names, name)
	}
	// Simple insertion sort, the module count is always small (one per source file).
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

// Emits "SP=256" followed by a synthetic "call Sys.init 0", the standard bootstrap
// sequence expected to run before any user-level Jack code.
func (l *Lowerer) bootstrapPreamble() asm.Program {
	program := asm.Program{
		asm.AInstruction{Location: "256"},
		asm.CInstruction{Comp: "A", Dest: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "D", Dest: "M"},
	}
	program = append(program, l.lowerCall(FuncCallOp{Name: "Sys.init", NArgs: 0})...)
	return program
}

func (l *Lowerer) lowerOperation(operation Operation) (asm.Program, error) {
	switch op := operation.(type) {
	case MemoryOp:
		return l.lowerMemoryOp(op)
	case ArithmeticOp:
		return l.lowerArithmeticOp(op)
	case LabelDecl:
		return asm.Program{asm.LabelDecl{Name: l.mangle(op.Name)}}, nil
	case GotoOp:
		return l.lowerGoto(op)
	case FuncDecl:
		return l.lowerFuncDecl(op)
	case FuncCallOp:
		l.nUnique++
		return l.lowerCall(op), nil
	case ReturnOp:
		return l.lowerReturn(), nil
	default:
		return nil, fmt.Errorf("unrecognized operation '%T'", operation)
	}
}

// Flow control labels are scoped to the enclosing function ("Main.main$WHILE_EXP0") so that
// the same label text used in two different functions never collides once lowered to Hack,
// where labels are a single, file-wide namespace.
func (l *Lowerer) mangle(label string) string {
	if l.curFunction == "" {
		return fmt.Sprintf("%s.%s", l.curModule, label)
	}
	return fmt.Sprintf("%s$%s", l.curFunction, label)
}

func (l *Lowerer) lowerGoto(op GotoOp) (asm.Program, error) {
	target := l.mangle(op.Label)

	switch op.Jump {
	case Unconditional:
		return asm.Program{
			asm.AInstruction{Location: target},
			asm.CInstruction{Comp: "0", Jump: "JMP"},
		}, nil
	case Conditional:
		return append(popToD(), asm.Program{
			asm.AInstruction{Location: target},
			asm.CInstruction{Comp: "D", Jump: "JNE"},
		}...), nil
	default:
		return nil, fmt.Errorf("unrecognized jump type '%s'", op.Jump)
	}
}

// ----------------------------------------------------------------------------
// Stack helpers

// Pushes the value currently held in the D register onto the stack, advancing SP.
func pushD() asm.Program {
	return asm.Program{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "M", Dest: "A"},
		asm.CInstruction{Comp: "D", Dest: "M"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "M+1", Dest: "M"},
	}
}

// Pops the top of the stack into D, decrementing SP first.
func popToD() asm.Program {
	return asm.Program{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "M-1", Dest: "AM"},
		asm.CInstruction{Comp: "M", Dest: "D"},
	}
}

// ----------------------------------------------------------------------------
// Memory Op lowering

func (l *Lowerer) lowerMemoryOp(op MemoryOp) (asm.Program, error) {
	if op.Operation == Push {
		return l.lowerPush(op)
	}
	if op.Operation == Pop {
		return l.lowerPop(op)
	}
	return nil, fmt.Errorf("unrecognized memory operation '%s'", op.Operation)
}

func (l *Lowerer) lowerPush(op MemoryOp) (asm.Program, error) {
	switch op.Segment {
	case Constant:
		return append(asm.Program{
			asm.AInstruction{Location: fmt.Sprint(op.Offset)},
			asm.CInstruction{Comp: "A", Dest: "D"},
		}, pushD()...), nil

	case Local, Argument, This, That:
		return append(asm.Program{
			asm.AInstruction{Location: fmt.Sprint(op.Offset)},
			asm.CInstruction{Comp: "A", Dest: "D"},
			asm.AInstruction{Location: baseSegmentRegister[op.Segment]},
			asm.CInstruction{Comp: "D+M", Dest: "A"},
			asm.CInstruction{Comp: "M", Dest: "D"},
		}, pushD()...), nil

	case Temp:
		if op.Offset > 7 {
			return nil, fmt.Errorf("invalid 'temp' offset, got %d", op.Offset)
		}
		return append(asm.Program{
			asm.AInstruction{Location: fmt.Sprint(5 + op.Offset)},
			asm.CInstruction{Comp: "M", Dest: "D"},
		}, pushD()...), nil

	case Pointer:
		reg, err := pointerRegister(op.Offset)
		if err != nil {
			return nil, err
		}
		return append(asm.Program{
			asm.AInstruction{Location: reg},
			asm.CInstruction{Comp: "M", Dest: "D"},
		}, pushD()...), nil

	case Static:
		return append(asm.Program{
			asm.AInstruction{Location: l.staticLabel(op.Offset)},
			asm.CInstruction{Comp: "M", Dest: "D"},
		}, pushD()...), nil

	default:
		return nil, fmt.Errorf("unrecognized segment '%s'", op.Segment)
	}
}

func (l *Lowerer) lowerPop(op MemoryOp) (asm.Program, error) {
	switch op.Segment {
	case Constant:
		return nil, fmt.Errorf("cannot pop into the read-only 'constant' segment")

	case Local, Argument, This, That:
		return append(asm.Program{
			asm.AInstruction{Location: fmt.Sprint(op.Offset)},
			asm.CInstruction{Comp: "A", Dest: "D"},
			asm.AInstruction{Location: baseSegmentRegister[op.Segment]},
			asm.CInstruction{Comp: "D+M", Dest: "D"},
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Comp: "D", Dest: "M"},
		}, append(popToD(), asm.Program{
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Comp: "M", Dest: "A"},
			asm.CInstruction{Comp: "D", Dest: "M"},
		}...)...), nil

	case Temp:
		if op.Offset > 7 {
			return nil, fmt.Errorf("invalid 'temp' offset, got %d", op.Offset)
		}
		return append(popToD(), asm.Program{
			asm.AInstruction{Location: fmt.Sprint(5 + op.Offset)},
			asm.CInstruction{Comp: "D", Dest: "M"},
		}...), nil

	case Pointer:
		reg, err := pointerRegister(op.Offset)
		if err != nil {
			return nil, err
		}
		return append(popToD(), asm.Program{
			asm.AInstruction{Location: reg},
			asm.CInstruction{Comp: "D", Dest: "M"},
		}...), nil

	case Static:
		return append(popToD(), asm.Program{
			asm.AInstruction{Location: l.staticLabel(op.Offset)},
			asm.CInstruction{Comp: "D", Dest: "M"},
		}...), nil

	default:
		return nil, fmt.Errorf("unrecognized segment '%s'", op.Segment)
	}
}

func pointerRegister(offset uint16) (string, error) {
	switch offset {
	case 0:
		return "THIS", nil
	case 1:
		return "THAT", nil
	default:
		return "", fmt.Errorf("invalid 'pointer' offset, got %d", offset)
	}
}

func (l *Lowerer) staticLabel(offset uint16) string {
	return fmt.Sprintf("%s.%d", l.curModule, offset)
}

// ----------------------------------------------------------------------------
// Arithmetic Op lowering

func (l *Lowerer) lowerArithmeticOp(op ArithmeticOp) (asm.Program, error) {
	switch op.Operation {
	case Neg, Not:
		comp := "-M"
		if op.Operation == Not {
			comp = "!M"
		}
		return asm.Program{
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Comp: "M-1", Dest: "A"},
			asm.CInstruction{Comp: comp, Dest: "M"},
		}, nil

	case Add, Sub, And, Or:
		comp := map[ArithOpType]string{Add: "D+M", Sub: "M-D", And: "D&M", Or: "D|M"}[op.Operation]
		return append(popToD(), asm.Program{
			asm.AInstruction{Location: "SP"},
			asm.CInstruction{Comp: "M-1", Dest: "A"},
			asm.CInstruction{Comp: comp, Dest: "M"},
		}...), nil

	case Eq, Gt, Lt:
		return l.lowerComparison(op.Operation), nil

	default:
		return nil, fmt.Errorf("unrecognized arithmetic operation '%s'", op.Operation)
	}
}

func (l *Lowerer) lowerComparison(op ArithOpType) asm.Program {
	jump := map[ArithOpType]string{Eq: "JEQ", Gt: "JGT", Lt: "JLT"}[op]

	l.nUnique++
	trueLabel := fmt.Sprintf("INTERNAL.%s.TRUE.%d", op, l.nUnique)
	endLabel := fmt.Sprintf("INTERNAL.%s.END.%d", op, l.nUnique)

	program := append(popToD(), asm.Program{
		asm.CInstruction{Comp: "A-1", Dest: "A"},
		asm.CInstruction{Comp: "M-D", Dest: "D"},
		asm.AInstruction{Location: trueLabel},
		asm.CInstruction{Comp: "D", Jump: jump},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "M-1", Dest: "A"},
		asm.CInstruction{Comp: "0", Dest: "M"},
		asm.AInstruction{Location: endLabel},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		asm.LabelDecl{Name: trueLabel},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "M-1", Dest: "A"},
		asm.CInstruction{Comp: "-1", Dest: "M"},
		asm.LabelDecl{Name: endLabel},
	}...)

	return program
}

// ----------------------------------------------------------------------------
// Function calling convention

func (l *Lowerer) lowerFuncDecl(op FuncDecl) (asm.Program, error) {
	l.curFunction = op.Name

	program := asm.Program{asm.LabelDecl{Name: op.Name}}
	for i := uint16(0); i < op.NLocal; i++ {
		program = append(program, l.mustLowerOperation(MemoryOp{Operation: Push, Segment: Constant, Offset: 0})...)
	}
	return program, nil
}

func (l *Lowerer) mustLowerOperation(op Operation) asm.Program {
	lowered, err := l.lowerOperation(op)
	if err != nil {
		panic(err) // unreachable: 'push constant 0' is always well-formed
	}
	return lowered
}

// Pushes return-address, LCL, ARG, THIS and THAT, repositions ARG and LCL for the callee,
// then jumps to it. The return-address label is unique per call-site across the whole
// program so that recursive/re-entrant calls to the same function don't collide.
func (l *Lowerer) lowerCall(op FuncCallOp) asm.Program {
	returnLabel := fmt.Sprintf("INTERNAL.RETURN.%s.%d", op.Name, l.nUnique)

	program := asm.Program{asm.AInstruction{Location: returnLabel}, asm.CInstruction{Comp: "A", Dest: "D"}}
	program = append(program, pushD()...)

	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		program = append(program, asm.AInstruction{Location: reg}, asm.CInstruction{Comp: "M", Dest: "D"})
		program = append(program, pushD()...)
	}

	program = append(program, asm.Program{
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "M", Dest: "D"},
		asm.AInstruction{Location: "5"},
		asm.CInstruction{Comp: "D-A", Dest: "D"},
		asm.AInstruction{Location: fmt.Sprint(op.NArgs)},
		asm.CInstruction{Comp: "D-A", Dest: "D"},
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Comp: "D", Dest: "M"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "M", Dest: "D"},
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Comp: "D", Dest: "M"},
		asm.AInstruction{Location: op.Name},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
		asm.LabelDecl{Name: returnLabel},
	}...)

	return program
}

// Restores the caller's frame from the callee's LCL (saved as FRAME in R13) and jumps
// back to RET (saved in R14), leaving the callee's return value where the caller's first
// argument used to be and repositioning SP right after it.
func (l *Lowerer) lowerReturn() asm.Program {
	frameMinus := func(n int) asm.Program {
		return asm.Program{
			asm.AInstruction{Location: "R13"},
			asm.CInstruction{Comp: "M", Dest: "D"},
			asm.AInstruction{Location: fmt.Sprint(n)},
			asm.CInstruction{Comp: "D-A", Dest: "A"},
			asm.CInstruction{Comp: "M", Dest: "D"},
		}
	}

	program := asm.Program{
		asm.AInstruction{Location: "LCL"},
		asm.CInstruction{Comp: "M", Dest: "D"},
		asm.AInstruction{Location: "R13"}, // R13 = FRAME = LCL
		asm.CInstruction{Comp: "D", Dest: "M"},
	}
	program = append(program, frameMinus(5)...) // D = *(FRAME-5) = RET
	program = append(program,
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Comp: "D", Dest: "M"},
	)
	program = append(program, popToD()...) // D = pop() (the return value)
	program = append(program,
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Comp: "M", Dest: "A"},
		asm.CInstruction{Comp: "D", Dest: "M"}, // *ARG = return value
		asm.AInstruction{Location: "ARG"},
		asm.CInstruction{Comp: "M+1", Dest: "D"},
		asm.AInstruction{Location: "SP"},
		asm.CInstruction{Comp: "D", Dest: "M"}, // SP = ARG+1
	)
	program = append(program, frameMinus(1)...) // D = *(FRAME-1) = THAT
	program = append(program, asm.AInstruction{Location: "THAT"}, asm.CInstruction{Comp: "D", Dest: "M"})
	program = append(program, frameMinus(2)...) // D = *(FRAME-2) = THIS
	program = append(program, asm.AInstruction{Location: "THIS"}, asm.CInstruction{Comp: "D", Dest: "M"})
	program = append(program, frameMinus(3)...) // D = *(FRAME-3) = ARG
	program = append(program, asm.AInstruction{Location: "ARG"}, asm.CInstruction{Comp: "D", Dest: "M"})
	program = append(program, frameMinus(4)...) // D = *(FRAME-4) = LCL
	program = append(program, asm.AInstruction{Location: "LCL"}, asm.CInstruction{Comp: "D", Dest: "M"})
	program = append(program,
		asm.AInstruction{Location: "R14"},
		asm.CInstruction{Comp: "M", Dest: "A"},
		asm.CInstruction{Comp: "0", Jump: "JMP"},
	)

	return program
}
