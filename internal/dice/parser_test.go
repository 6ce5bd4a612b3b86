package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/diceman/internal/dice"
)

func TestParse_BareNumber(t *testing.T) {
	expr, err := dice.Parse("42")
	require.NoError(t, err)
	assert.Equal(t, &dice.Number{Value: 42}, expr)
}

func TestParse_BasicRoll(t *testing.T) {
	expr, err := dice.Parse("2d6")
	require.NoError(t, err)
	assert.Equal(t, &dice.Dice{Count: 2, Sides: dice.Numeric(6)}, expr)
}

func TestParse_BareDieDefaultsCountToOne(t *testing.T) {
	expr, err := dice.Parse("d20")
	require.NoError(t, err)
	assert.Equal(t, &dice.Dice{Count: 1, Sides: dice.Numeric(20)}, expr)
}

func TestParse_PercentAndFudge(t *testing.T) {
	expr, err := dice.Parse("d%")
	require.NoError(t, err)
	assert.Equal(t, &dice.Dice{Count: 1, Sides: dice.Percent()}, expr)

	expr, err = dice.Parse("4dF")
	require.NoError(t, err)
	assert.Equal(t, &dice.Dice{Count: 4, Sides: dice.Fudge()}, expr)
}

func TestParse_KeepModifiers(t *testing.T) {
	tests := []struct {
		input string
		want  dice.Modifier
	}{
		{"4d6kh3", &dice.KeepHighest{N: 3}},
		{"4d6k3", &dice.KeepHighest{N: 3}},
		{"4d6k", &dice.KeepHighest{N: 1}},
		{"2d20kl1", &dice.KeepLowest{N: 1}},
		{"2d20kl", &dice.KeepLowest{N: 1}},
	}
	for _, tt := range tests {
		expr, err := dice.Parse(tt.input)
		require.NoError(t, err, tt.input)
		roll := expr.(*dice.Dice)
		require.Len(t, roll.Mods, 1, tt.input)
		assert.Equal(t, tt.want, roll.Mods[0], tt.input)
	}
}

func TestParse_DropModifiers(t *testing.T) {
	expr, err := dice.Parse("4d6dl1")
	require.NoError(t, err)
	assert.Equal(t, &dice.Dice{
		Count: 4, Sides: dice.Numeric(6),
		Mods: []dice.Modifier{&dice.DropLowest{N: 1}},
	}, expr)

	expr, err = dice.Parse("2d20dh1")
	require.NoError(t, err)
	assert.Equal(t, &dice.Dice{
		Count: 2, Sides: dice.Numeric(20),
		Mods: []dice.Modifier{&dice.DropHighest{N: 1}},
	}, expr)
}

// A 'd' in modifier position that is not followed by 'h' or 'l' starts a
// new die in the surrounding expression rather than a drop modifier.
func TestParse_DropDisambiguation(t *testing.T) {
	_, err := dice.Parse("2d6d4")
	var synErr *dice.SyntaxError
	require.ErrorAs(t, err, &synErr, "d4 after a roll is a trailing token")
	assert.Equal(t, "end of input", synErr.Expected)
}

func TestParse_ExplodeModifiers(t *testing.T) {
	tests := []struct {
		input string
		want  dice.Modifier
	}{
		{"1d6!", &dice.Explode{}},
		{"1d6!p", &dice.Explode{Penetrating: true}},
		{"1d6!>4", &dice.Explode{Cond: &dice.Condition{Cmp: dice.CmpGt, Value: 4}}},
		{"1d10!p>=8", &dice.Explode{Penetrating: true, Cond: &dice.Condition{Cmp: dice.CmpGe, Value: 8}}},
	}
	for _, tt := range tests {
		expr, err := dice.Parse(tt.input)
		require.NoError(t, err, tt.input)
		roll := expr.(*dice.Dice)
		require.Len(t, roll.Mods, 1, tt.input)
		assert.Equal(t, tt.want, roll.Mods[0], tt.input)
	}
}

func TestParse_RerollModifiers(t *testing.T) {
	tests := []struct {
		input string
		want  dice.Modifier
	}{
		{"1d6r", &dice.Reroll{}},
		{"1d20ro", &dice.Reroll{Once: true}},
		{"2d6r<3", &dice.Reroll{Cond: &dice.Condition{Cmp: dice.CmpLt, Value: 3}}},
		{"2d6ro<=2", &dice.Reroll{Once: true, Cond: &dice.Condition{Cmp: dice.CmpLe, Value: 2}}},
	}
	for _, tt := range tests {
		expr, err := dice.Parse(tt.input)
		require.NoError(t, err, tt.input)
		roll := expr.(*dice.Dice)
		require.Len(t, roll.Mods, 1, tt.input)
		assert.Equal(t, tt.want, roll.Mods[0], tt.input)
	}
}

func TestParse_SuccessCounting(t *testing.T) {
	tests := []struct {
		input string
		want  dice.Condition
	}{
		{"5d10>=8", dice.Condition{Cmp: dice.CmpGe, Value: 8}},
		{"6d6>4", dice.Condition{Cmp: dice.CmpGt, Value: 4}},
		{"8d6=6", dice.Condition{Cmp: dice.CmpEq, Value: 6}},
		{"5d10<=3", dice.Condition{Cmp: dice.CmpLe, Value: 3}},
		{"5d10<>5", dice.Condition{Cmp: dice.CmpNe, Value: 5}},
	}
	for _, tt := range tests {
		expr, err := dice.Parse(tt.input)
		require.NoError(t, err, tt.input)
		roll := expr.(*dice.Dice)
		require.Len(t, roll.Mods, 1, tt.input)
		assert.Equal(t, &dice.CountSuccesses{Cond: tt.want}, roll.Mods[0], tt.input)
	}
}

func TestParse_ModifierOrderIsRecorded(t *testing.T) {
	expr, err := dice.Parse("4d6r!kh3")
	require.NoError(t, err)
	roll := expr.(*dice.Dice)
	require.Len(t, roll.Mods, 3)
	assert.IsType(t, &dice.Reroll{}, roll.Mods[0])
	assert.IsType(t, &dice.Explode{}, roll.Mods[1])
	assert.IsType(t, &dice.KeepHighest{}, roll.Mods[2])
}

func TestParse_ArithmeticPrecedence(t *testing.T) {
	expr, err := dice.Parse("1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, &dice.BinOp{
		Op:   dice.OpAdd,
		Left: &dice.Number{Value: 1},
		Right: &dice.BinOp{
			Op:    dice.OpMul,
			Left:  &dice.Number{Value: 2},
			Right: &dice.Number{Value: 3},
		},
	}, expr)
}

func TestParse_GroupOverridesPrecedence(t *testing.T) {
	expr, err := dice.Parse("(2d6 + 3) * 2")
	require.NoError(t, err)
	binop, ok := expr.(*dice.BinOp)
	require.True(t, ok)
	assert.Equal(t, dice.OpMul, binop.Op)
	assert.IsType(t, &dice.Group{}, binop.Left)
}

func TestParse_UnaryMinus(t *testing.T) {
	expr, err := dice.Parse("-3")
	require.NoError(t, err)
	assert.Equal(t, &dice.BinOp{
		Op:    dice.OpSub,
		Left:  &dice.Number{Value: 0},
		Right: &dice.Number{Value: 3},
	}, expr)
}

func TestParse_ZeroSidesRejected(t *testing.T) {
	_, err := dice.Parse("1d0")
	var sidesErr *dice.InvalidSidesError
	require.ErrorAs(t, err, &sidesErr)
	assert.Equal(t, int64(0), sidesErr.Sides)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"operator only", "+"},
		{"missing sides", "2d"},
		{"unclosed group", "(2d6"},
		{"trailing operator", "2d6 +"},
		{"bare comparator without value", "5d10>="},
		{"drop without direction at end", "4d6dh)"},
		{"trailing tokens", "2d6 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dice.Parse(tt.input)
			assert.Error(t, err, "input %q must not parse", tt.input)
		})
	}
}

func TestParse_EOFMidProduction(t *testing.T) {
	_, err := dice.Parse("2d6 +")
	assert.ErrorIs(t, err, dice.ErrUnexpectedEOF)
}

func TestParse_ExpectedFoundDiagnostic(t *testing.T) {
	_, err := dice.Parse("2d6 + )")
	var synErr *dice.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, "number, dice roll, or '('", synErr.Expected)
	assert.Equal(t, "')'", synErr.Found)
}

func TestParse_WholeInputMustBeConsumed(t *testing.T) {
	_, err := dice.Parse("2d6) + 1")
	var synErr *dice.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, "end of input", synErr.Expected)
}

func TestMustParse_PanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("not dice") })
	assert.NotPanics(t, func() { dice.MustParse("4d6kh3") })
}
