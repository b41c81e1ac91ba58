// Package action defines the instruction set that the cfg package slices
// into basic blocks: a single Action type tagged by Kind, plus the push
// value union that a PUSH action carries.
//
// Action is a closed, immutable tagged union rather than an interface
// hierarchy: the cfg package only ever needs to switch on Kind, and a
// struct with kind-dependent fields is cheaper to build, copy and compare
// than a family of types satisfying a common interface.
package action

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the opcode family of an Action for the purposes of
// control-flow construction. Opcodes that behave identically from the
// CFG's point of view (arithmetic, calls, register moves, ...) are all
// represented as Other; the builder never needs to tell them apart.
type Kind int

const (
	Stop Kind = iota
	Play
	End
	Return
	Throw
	Jump
	If
	Push
	Other
)

func (k Kind) String() string {
	switch k {
	case Stop:
		return "STOP"
	case Play:
		return "PLAY"
	case End:
		return "END"
	case Return:
		return "RETURN"
	case Throw:
		return "THROW"
	case Jump:
		return "JUMP"
	case If:
		return "IF"
	case Push:
		return "PUSH"
	case Other:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Action is one instruction of the bytecode stream: an offset plus an
// opcode and its kind-dependent payload. Only the fields relevant to the
// action's Kind are meaningful; the rest are zero.
type Action struct {
	// Offset is this action's byte offset in its owning ByteCode.
	Offset uint32

	// Kind is the opcode family.
	Kind Kind

	// Target is the branch target offset. Meaningful for Jump and If.
	Target uint32

	// Comparison names the condition under which an If action branches
	// to Target (e.g. "IS TRUE", "IS FALSE", "!="). Meaningful for If.
	Comparison string

	// Values are the operands pushed onto the stack, in push order.
	// Meaningful for Push.
	Values []PushValue

	// Name is the mnemonic for an Other action (arithmetic, calls,
	// register moves, and any other straight-line opcode the CFG
	// builder does not need to special-case).
	Name string
}

// NewStop builds a STOP action.
func NewStop(offset uint32) Action { return Action{Offset: offset, Kind: Stop} }

// NewPlay builds a PLAY action.
func NewPlay(offset uint32) Action { return Action{Offset: offset, Kind: Play} }

// NewEnd builds an END action.
func NewEnd(offset uint32) Action { return Action{Offset: offset, Kind: End} }

// NewReturn builds a RETURN action.
func NewReturn(offset uint32) Action { return Action{Offset: offset, Kind: Return} }

// NewThrow builds a THROW action.
func NewThrow(offset uint32) Action { return Action{Offset: offset, Kind: Throw} }

// NewJump builds an unconditional JUMP action targeting target.
func NewJump(offset, target uint32) Action {
	return Action{Offset: offset, Kind: Jump, Target: target}
}

// NewIf builds a conditional IF action: control branches to target when
// comparison holds, and falls through to the next offset otherwise.
func NewIf(offset uint32, comparison string, target uint32) Action {
	return Action{Offset: offset, Kind: If, Comparison: comparison, Target: target}
}

// NewPush builds a PUSH action carrying values in push order.
func NewPush(offset uint32, values ...PushValue) Action {
	return Action{Offset: offset, Kind: Push, Values: values}
}

// NewOther builds a straight-line action that needs no special handling
// from the CFG builder beyond falling through to the next offset. name
// is used only for the debug string.
func NewOther(offset uint32, name string) Action {
	return Action{Offset: offset, Kind: Other, Name: name}
}

// FallsThrough reports whether control can reach the offset immediately
// following this action. False for Return, Throw and Jump; true for
// everything else (including If, which also branches to Target).
func (a Action) FallsThrough() bool {
	switch a.Kind {
	case Return, Throw, Jump:
		return false
	default:
		return true
	}
}

// IsTerminator reports whether this action ends a basic block on its own
// (no subsequent action in the same chunk can follow it).
func (a Action) IsTerminator() bool {
	switch a.Kind {
	case Return, Throw, Jump, If:
		return true
	default:
		return false
	}
}

// String renders the action's stable debug form, matching the external
// contract in spec.md section 6 byte for byte. Downstream tests and
// tooling match on this format.
func (a Action) String() string {
	switch a.Kind {
	case Stop, Play, End, Return, Throw:
		return fmt.Sprintf("%d: %s", a.Offset, a.Kind)
	case Jump:
		return fmt.Sprintf("%d: JUMP, Offset To Jump To: %d", a.Offset, a.Target)
	case If:
		return fmt.Sprintf("%d: IF, Comparison: %s, Offset To Jump To If True: %d", a.Offset, a.Comparison, a.Target)
	case Push:
		var b strings.Builder
		fmt.Fprintf(&b, "%d: PUSH", a.Offset)
		for _, v := range a.Values {
			fmt.Fprintf(&b, "\n  %s", v.String())
		}
		b.WriteString("\nEND_PUSH")
		return b.String()
	case Other:
		return fmt.Sprintf("%d: %s", a.Offset, a.Name)
	default:
		return fmt.Sprintf("%d: <unknown>", a.Offset)
	}
}

// PushValueKind identifies the concrete type of a value pushed by a Push
// action.
type PushValueKind int

const (
	BoolValue PushValueKind = iota
	IntValue
	StringValue
	RegisterValue
)

// PushValue is the union of literal types an AP2 PUSH action can carry.
type PushValue struct {
	Kind PushValueKind
	Bool bool
	Int  int64
	Str  string
	Reg  int
}

// Boolean builds a boolean push value.
func Boolean(b bool) PushValue { return PushValue{Kind: BoolValue, Bool: b} }

// Integer builds an integer push value.
func Integer(i int64) PushValue { return PushValue{Kind: IntValue, Int: i} }

// Str builds a string literal push value.
func Str(s string) PushValue { return PushValue{Kind: StringValue, Str: s} }

// Register builds a register-reference push value.
func Register(r int) PushValue { return PushValue{Kind: RegisterValue, Reg: r} }

// String renders the value the way it appears inside a PUSH action's
// debug form: "True"/"False" for booleans, plain decimal for integers,
// single-quoted for strings, and "Register(n)" for registers.
func (v PushValue) String() string {
	switch v.Kind {
	case BoolValue:
		if v.Bool {
			return "True"
		}
		return "False"
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case StringValue:
		return "'" + v.Str + "'"
	case RegisterValue:
		return fmt.Sprintf("Register(%d)", v.Reg)
	default:
		return "<unknown>"
	}
}
