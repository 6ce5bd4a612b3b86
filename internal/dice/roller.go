package dice

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxRerolls and MaxExplosions cap the per-die reroll and explosion loops.
// A condition every face satisfies (e.g. "1d6r<7") would otherwise never
// terminate; hitting a cap surfaces as a RerollLimitError or
// ExplodeLimitError carrying the cap value.
const (
	MaxRerolls    = 100
	MaxExplosions = 100
)

// Roll parses input and evaluates it once with an auto-seeded Source.
func Roll(input string) (RollResult, error) {
	return RollWith(input, NewSource())
}

// RollWith parses input and evaluates it with the caller's Source; tests
// use this with a scripted Source for deterministic outcomes.
//
// Precondition: src must be non-nil.
func RollWith(input string, src Source) (RollResult, error) {
	expr, err := Parse(input)
	if err != nil {
		return RollResult{}, err
	}
	return Eval(expr, src)
}

// Eval evaluates a parsed expression against src.
//
// Roll nodes are evaluated in fixed phases independent of the order the
// modifiers were written: fresh dice are rolled, then every Reroll modifier
// applies, then every Explode, then keep/drop in written order, and finally
// success counting (or summation) produces the total. "4d6r!kh3" and
// "4d6!kh3r" therefore roll identically.
//
// Precondition: expr must come from Parse; src must be non-nil.
func Eval(expr Expr, src Source) (RollResult, error) {
	e := &evaluator{src: src}
	return e.eval(expr)
}

type evaluator struct {
	src Source
}

func (e *evaluator) eval(expr Expr) (RollResult, error) {
	switch node := expr.(type) {
	case *Number:
		return RollResult{
			Total:      node.Value,
			Expression: strconv.FormatInt(node.Value, 10),
		}, nil

	case *Dice:
		return e.evalDice(node)

	case *BinOp:
		left, err := e.eval(node.Left)
		if err != nil {
			return RollResult{}, err
		}
		right, err := e.eval(node.Right)
		if err != nil {
			return RollResult{}, err
		}
		var total int64
		switch node.Op {
		case OpAdd:
			total = left.Total + right.Total
		case OpSub:
			total = left.Total - right.Total
		case OpMul:
			total = left.Total * right.Total
		case OpDiv:
			if right.Total == 0 {
				return RollResult{}, ErrDivisionByZero
			}
			total = left.Total / right.Total
		default:
			panic(fmt.Sprintf("dice: unknown operator %d", int(node.Op)))
		}
		return RollResult{
			Total:      total,
			Expression: fmt.Sprintf("%s %s %s = %d", left.Expression, node.Op, right.Expression, total),
		}, nil

	case *Group:
		inner, err := e.eval(node.Inner)
		if err != nil {
			return RollResult{}, err
		}
		return RollResult{
			Total:      inner.Total,
			Dice:       inner.Dice,
			Expression: "(" + inner.Expression + ")",
		}, nil
	}
	panic(fmt.Sprintf("dice: unknown expression node %T", expr))
}

func (e *evaluator) evalDice(d *Dice) (RollResult, error) {
	dice := make([]DieResult, d.Count)
	for i := range dice {
		v := e.rollDie(d.Sides)
		dice[i] = DieResult{Value: v, Rolls: []int64{v}}
	}

	// Phase 1: rerolls, in written order.
	for _, m := range d.Mods {
		if r, ok := m.(*Reroll); ok {
			if err := e.applyReroll(dice, d.Sides, r); err != nil {
				return RollResult{}, err
			}
		}
	}

	// Phase 2: explosions, in written order, over dice by original index.
	for _, m := range d.Mods {
		if x, ok := m.(*Explode); ok {
			if err := e.applyExplode(dice, d.Sides, x); err != nil {
				return RollResult{}, err
			}
		}
	}

	// Phase 3: keep/drop, in written order; each compounds on the dice still
	// active after the previous one.
	for _, m := range d.Mods {
		switch k := m.(type) {
		case *KeepHighest:
			applyKeep(dice, k.N, true)
		case *KeepLowest:
			applyKeep(dice, k.N, false)
		case *DropHighest:
			applyDrop(dice, k.N, true)
		case *DropLowest:
			applyDrop(dice, k.N, false)
		}
	}

	// Phase 4: scoring. With a success condition the total is the number of
	// active dice that satisfy it; if several were written the last wins.
	var success *Condition
	for _, m := range d.Mods {
		if c, ok := m.(*CountSuccesses); ok {
			cond := c.Cond
			success = &cond
		}
	}

	var total int64
	for i := range dice {
		if dice[i].Dropped {
			continue
		}
		if success != nil {
			if success.Check(dice[i].Value) {
				total++
			}
		} else {
			total += dice[i].Value
		}
	}

	return RollResult{
		Total:      total,
		Dice:       dice,
		Expression: formatDice(d, dice, total, success),
	}, nil
}

// rollDie produces one face of the given die kind through the Source.
func (e *evaluator) rollDie(s Sides) int64 {
	switch s.Kind {
	case SidesNumeric:
		return int64(e.src.Roll(s.N))
	case SidesPercent:
		return int64(e.src.Roll(100))
	case SidesFudge:
		return int64(e.src.Roll(3)) - 2
	}
	panic(fmt.Sprintf("dice: unknown sides kind %d", int(s.Kind)))
}

func (e *evaluator) applyReroll(dice []DieResult, sides Sides, mod *Reroll) error {
	cond := Condition{Cmp: CmpEq, Value: 1}
	if mod.Cond != nil {
		cond = *mod.Cond
	}

	for i := range dice {
		die := &dice[i]
		if die.Dropped {
			continue
		}

		rerolls := 0
		for cond.Check(die.Value) {
			if rerolls >= MaxRerolls {
				return &RerollLimitError{Limit: MaxRerolls}
			}
			v := e.rollDie(sides)
			die.Rolls = append(die.Rolls, v)
			die.Value = v
			rerolls++

			if mod.Once {
				break
			}
		}
	}
	return nil
}

func (e *evaluator) applyExplode(dice []DieResult, sides Sides, mod *Explode) error {
	cond := Condition{Cmp: CmpEq, Value: int64(sides.Faces())}
	if mod.Cond != nil {
		cond = *mod.Cond
	}

	for i := range dice {
		die := &dice[i]
		if die.Dropped {
			continue
		}

		// The trigger is checked against the face most recently produced,
		// not the accumulated value.
		current := die.Rolls[len(die.Rolls)-1]
		explosions := 0
		for cond.Check(current) {
			if explosions >= MaxExplosions {
				return &ExplodeLimitError{Limit: MaxExplosions}
			}
			v := e.rollDie(sides)
			die.Rolls = append(die.Rolls, v)
			if mod.Penetrating {
				die.Value += v - 1
			} else {
				die.Value += v
			}
			current = v
			explosions++
		}
	}
	return nil
}

// applyKeep drops all but the n highest (or lowest) active dice. Keeping n
// when n >= the active count is a no-op; ties break by original die order
// via a stable sort.
func applyKeep(dice []DieResult, n int, highest bool) {
	active := activeIndices(dice)
	if n >= len(active) {
		return
	}
	sortByValue(dice, active, !highest)
	// After sorting, the dice to discard sit at the front.
	for _, idx := range active[:len(active)-n] {
		dice[idx].Dropped = true
	}
}

// applyDrop discards the n highest (or lowest) active dice.
func applyDrop(dice []DieResult, n int, highest bool) {
	active := activeIndices(dice)
	if n > len(active) {
		n = len(active)
	}
	sortByValue(dice, active, highest)
	for _, idx := range active[:n] {
		dice[idx].Dropped = true
	}
}

func activeIndices(dice []DieResult) []int {
	idx := make([]int, 0, len(dice))
	for i := range dice {
		if !dice[i].Dropped {
			idx = append(idx, i)
		}
	}
	return idx
}

// sortByValue stable-sorts indices by die value so the victims of a
// keep/drop sit at the front; descending puts the highest first.
func sortByValue(dice []DieResult, idx []int, descending bool) {
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return dice[idx[a]].Value > dice[idx[b]].Value
		}
		return dice[idx[a]].Value < dice[idx[b]].Value
	})
}

// formatDice renders the roll trace:
//
//	"4d6kh3[6, 5, 4, (1)] = 15"
//	"5d10>=8[10*, 7, 8*, 3, 9*] = 3 successes"
//
// Dropped dice are parenthesized; with success counting, qualifying dice are
// starred and the total carries a success/successes suffix.
func formatDice(d *Dice, dice []DieResult, total int64, success *Condition) string {
	var mods strings.Builder
	for _, m := range d.Mods {
		mods.WriteString(m.String())
	}

	parts := make([]string, len(dice))
	for i := range dice {
		switch {
		case dice[i].Dropped:
			parts[i] = fmt.Sprintf("(%d)", dice[i].Value)
		case success != nil && success.Check(dice[i].Value):
			parts[i] = fmt.Sprintf("%d*", dice[i].Value)
		default:
			parts[i] = strconv.FormatInt(dice[i].Value, 10)
		}
	}

	suffix := ""
	if success != nil {
		if total == 1 {
			suffix = " success"
		} else {
			suffix = " successes"
		}
	}

	return fmt.Sprintf("%dd%s%s[%s] = %d%s",
		d.Count, d.Sides, mods.String(), strings.Join(parts, ", "), total, suffix)
}
