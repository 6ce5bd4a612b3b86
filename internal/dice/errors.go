package dice

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned when the input ends in the middle of a
// production (e.g. "2d6 +").
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// ErrDivisionByZero is returned when the right-hand side of a division
// evaluates to zero at roll time.
var ErrDivisionByZero = errors.New("division by zero")

// ErrNoTrials is returned by the simulation entry points when the requested
// trial count is less than one; the statistics are undefined for n == 0.
var ErrNoTrials = errors.New("simulation requires at least one trial")

// UnexpectedCharError reports a character outside the dice-notation alphabet.
type UnexpectedCharError struct {
	Char rune
	Pos  int // byte offset into the input
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("unexpected character %q at position %d", e.Char, e.Pos)
}

// SyntaxError reports a grammar violation as what the parser expected
// against what it found.
type SyntaxError struct {
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
}

// InvalidSidesError reports a die with fewer than one face. A zero-sided
// die is rejected at parse time, never represented in the AST.
type InvalidSidesError struct {
	Sides int64
}

func (e *InvalidSidesError) Error() string {
	return fmt.Sprintf("invalid dice sides: %d", e.Sides)
}

// RerollLimitError is returned when a single die is rerolled more than
// Limit times, which means the reroll condition can never fail
// (e.g. "1d6r<7").
type RerollLimitError struct {
	Limit int
}

func (e *RerollLimitError) Error() string {
	return fmt.Sprintf("reroll limit exceeded (max %d rerolls)", e.Limit)
}

// ExplodeLimitError is returned when a single die explodes more than Limit
// times, which means the explosion condition can never fail (e.g. "1d6!>0").
type ExplodeLimitError struct {
	Limit int
}

func (e *ExplodeLimitError) Error() string {
	return fmt.Sprintf("explode limit exceeded (max %d explosions)", e.Limit)
}
