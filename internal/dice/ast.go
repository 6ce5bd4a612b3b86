package dice

import "fmt"

// Expr is a node in a parsed dice expression. The concrete types are
// *Number, *Dice, *BinOp, and *Group; the interface is closed so the
// evaluator can switch exhaustively.
type Expr interface {
	expr()
}

// Number is a literal integer.
type Number struct {
	Value int64
}

// Dice is a dice roll with an ordered list of modifiers, e.g. "4d6kh3".
// The modifier order records how the expression was written; the evaluator
// applies modifiers in a fixed phase order regardless (see Eval).
type Dice struct {
	Count int
	Sides Sides
	Mods  []Modifier
}

// BinOp is an arithmetic combination of two subexpressions.
type BinOp struct {
	Op    Op
	Left  Expr
	Right Expr
}

// Group is a parenthesized subexpression.
type Group struct {
	Inner Expr
}

func (*Number) expr() {}
func (*Dice) expr()   {}
func (*BinOp) expr()  {}
func (*Group) expr()  {}

// Op is a binary arithmetic operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// SidesKind discriminates the die families.
type SidesKind int

const (
	// SidesNumeric is an ordinary die with N faces valued 1..N.
	SidesNumeric SidesKind = iota
	// SidesPercent is the percentile die, d% = d100.
	SidesPercent
	// SidesFudge is the fudge die with faces -1, 0, +1.
	SidesFudge
)

// Sides describes the kind of die being rolled.
//
// Invariant: Kind == SidesNumeric implies N >= 1 (enforced at parse time).
type Sides struct {
	Kind SidesKind
	N    int // face count; meaningful only for SidesNumeric
}

// Numeric returns an N-faced die.
func Numeric(n int) Sides { return Sides{Kind: SidesNumeric, N: n} }

// Percent returns the percentile die.
func Percent() Sides { return Sides{Kind: SidesPercent} }

// Fudge returns the fudge die.
func Fudge() Sides { return Sides{Kind: SidesFudge} }

// Faces returns the number of distinct faces: N, 100, or 3.
func (s Sides) Faces() int {
	switch s.Kind {
	case SidesNumeric:
		return s.N
	case SidesPercent:
		return 100
	case SidesFudge:
		return 3
	}
	panic(fmt.Sprintf("dice: unknown sides kind %d", int(s.Kind)))
}

// String returns the notation spelling: "6", "%", or "F".
func (s Sides) String() string {
	switch s.Kind {
	case SidesNumeric:
		return fmt.Sprintf("%d", s.N)
	case SidesPercent:
		return "%"
	case SidesFudge:
		return "F"
	}
	panic(fmt.Sprintf("dice: unknown sides kind %d", int(s.Kind)))
}

// Modifier adjusts how a dice pool is rolled or scored. The concrete types
// are *KeepHighest, *KeepLowest, *DropHighest, *DropLowest, *Explode,
// *Reroll, and *CountSuccesses.
type Modifier interface {
	modifier()
	// String returns the notation suffix, e.g. "kh3" or "!p>=5".
	String() string
}

// KeepHighest keeps only the N highest-valued dice.
type KeepHighest struct{ N int }

// KeepLowest keeps only the N lowest-valued dice.
type KeepLowest struct{ N int }

// DropHighest discards the N highest-valued dice.
type DropHighest struct{ N int }

// DropLowest discards the N lowest-valued dice.
type DropLowest struct{ N int }

// Explode rolls a die again while its most recent face meets the trigger,
// adding the new face to the die's value. A nil Cond triggers on the die's
// maximum face. Penetrating explosions add face-1 instead of the raw face.
type Explode struct {
	Penetrating bool
	Cond        *Condition
}

// Reroll replaces a die's value while it meets the trigger. A nil Cond
// rerolls ones. Once limits each die to a single reroll attempt.
type Reroll struct {
	Once bool
	Cond *Condition
}

// CountSuccesses scores the pool by counting dice that meet Cond instead of
// summing values.
type CountSuccesses struct{ Cond Condition }

func (*KeepHighest) modifier()    {}
func (*KeepLowest) modifier()     {}
func (*DropHighest) modifier()    {}
func (*DropLowest) modifier()     {}
func (*Explode) modifier()        {}
func (*Reroll) modifier()         {}
func (*CountSuccesses) modifier() {}

func (m *KeepHighest) String() string { return fmt.Sprintf("kh%d", m.N) }
func (m *KeepLowest) String() string  { return fmt.Sprintf("kl%d", m.N) }
func (m *DropHighest) String() string { return fmt.Sprintf("dh%d", m.N) }
func (m *DropLowest) String() string  { return fmt.Sprintf("dl%d", m.N) }

func (m *Explode) String() string {
	s := "!"
	if m.Penetrating {
		s += "p"
	}
	if m.Cond != nil {
		s += m.Cond.String()
	}
	return s
}

func (m *Reroll) String() string {
	s := "r"
	if m.Once {
		s += "o"
	}
	if m.Cond != nil {
		s += m.Cond.String()
	}
	return s
}

func (m *CountSuccesses) String() string { return m.Cond.String() }

// Compare is a comparison operator used in modifier conditions.
type Compare int

const (
	CmpEq Compare = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// Check reports whether value satisfies the comparison against target.
func (c Compare) Check(value, target int64) bool {
	switch c {
	case CmpEq:
		return value == target
	case CmpNe:
		return value != target
	case CmpLt:
		return value < target
	case CmpLe:
		return value <= target
	case CmpGt:
		return value > target
	case CmpGe:
		return value >= target
	}
	panic(fmt.Sprintf("dice: unknown comparison %d", int(c)))
}

func (c Compare) String() string {
	switch c {
	case CmpEq:
		return "="
	case CmpNe:
		return "<>"
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	}
	panic(fmt.Sprintf("dice: unknown comparison %d", int(c)))
}

// Condition is a comparison against a fixed target, e.g. ">=8".
type Condition struct {
	Cmp   Compare
	Value int64
}

// Check reports whether v satisfies the condition.
func (c Condition) Check(v int64) bool {
	return c.Cmp.Check(v, c.Value)
}

func (c Condition) String() string {
	return fmt.Sprintf("%s%d", c.Cmp, c.Value)
}
