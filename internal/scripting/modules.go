package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/diceman/internal/dice"
)

// registerDiceModule defines the dice global table in L:
//
//	dice.roll(expr)        -> { total, expression, dice = { {value, dropped}, ... } }
//	dice.simulate(expr, n) -> { n, mean, std_dev, min, max, median }
//	dice.parse(expr)       -> true
//
// All three raise a Lua error carrying the Go error message when expr does
// not parse or evaluation fails.
//
// Precondition: L must be from newSandboxedState; src must be non-nil.
func registerDiceModule(L *lua.LState, src dice.Source) {
	mod := L.NewTable()

	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		result, err := dice.RollWith(expr, src)
		if err != nil {
			L.RaiseError("dice.roll(%q): %s", expr, err.Error())
			return 0
		}
		L.Push(rollToTable(L, result))
		return 1
	}))

	L.SetField(mod, "simulate", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		n := L.CheckInt(2)
		result, err := dice.SimulateWith(expr, n, src)
		if err != nil {
			L.RaiseError("dice.simulate(%q, %d): %s", expr, n, err.Error())
			return 0
		}
		L.Push(simToTable(L, result))
		return 1
	}))

	L.SetField(mod, "parse", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		if _, err := dice.Parse(expr); err != nil {
			L.RaiseError("dice.parse(%q): %s", expr, err.Error())
			return 0
		}
		L.Push(lua.LTrue)
		return 1
	}))

	L.SetGlobal("dice", mod)
}

func rollToTable(L *lua.LState, r dice.RollResult) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "total", lua.LNumber(r.Total))
	L.SetField(t, "expression", lua.LString(r.Expression))

	diceArr := L.NewTable()
	for _, d := range r.Dice {
		entry := L.NewTable()
		L.SetField(entry, "value", lua.LNumber(d.Value))
		L.SetField(entry, "dropped", lua.LBool(d.Dropped))
		diceArr.Append(entry)
	}
	L.SetField(t, "dice", diceArr)
	return t
}

func simToTable(L *lua.LState, r *dice.SimResult) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "n", lua.LNumber(r.N))
	L.SetField(t, "mean", lua.LNumber(r.Mean))
	L.SetField(t, "std_dev", lua.LNumber(r.StdDev))
	L.SetField(t, "min", lua.LNumber(r.Min))
	L.SetField(t, "max", lua.LNumber(r.Max))
	L.SetField(t, "median", lua.LNumber(r.Median()))
	return t
}
