// Package dice implements the diceman dice-notation language: a lexer and
// recursive-descent parser for TTRPG expressions like "4d6kh3+5", an
// evaluator driven by a pluggable randomness Source, and a Monte Carlo
// simulator for empirical probability distributions.
package dice

// DieResult is the full audit trail for one physical die during an
// evaluation: every face it produced, its current value, and whether a
// keep/drop modifier discarded it.
//
// Invariant: len(Rolls) >= 1; Rolls[0] is the initial face.
type DieResult struct {
	// Value is the die's current value. For exploded dice this is the
	// accumulated total of all its rolls (penetrating explosions contribute
	// face-1); for rerolled dice it is the latest roll.
	Value int64
	// Rolls records every face this die produced, in order.
	Rolls []int64
	// Dropped is set when a keep/drop modifier discarded the die.
	Dropped bool
}

// RollResult is the outcome of evaluating a dice expression.
type RollResult struct {
	// Total is the final value of the expression.
	Total int64
	// Dice holds per-die audit trails when the expression was a single roll;
	// arithmetic nodes return an empty slice.
	Dice []DieResult
	// Expression is the human-readable trace, e.g. "4d6kh3[6, 5, 4, (1)] = 15".
	Expression string
}

// String returns the formatted trace.
func (r RollResult) String() string {
	return r.Expression
}
