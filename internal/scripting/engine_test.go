package scripting_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/diceman/internal/dice"
	"github.com/cory-johannsen/diceman/internal/scripting"
)

// fixedSource always rolls the same face regardless of the die size.
type fixedSource struct {
	face int
}

func (f fixedSource) Roll(sides int) int {
	if f.face > sides {
		return sides
	}
	return f.face
}

// cycleSource replays a fixed sequence of faces, wrapping around.
type cycleSource struct {
	faces []int
	i     int
}

func (c *cycleSource) Roll(sides int) int {
	v := c.faces[c.i%len(c.faces)]
	c.i++
	return v
}

func newTestEngine(t *testing.T, src dice.Source) *scripting.Engine {
	t.Helper()
	return scripting.NewEngine(src, zap.NewNop(), 0)
}

func TestRunString_DiceRoll(t *testing.T) {
	eng := newTestEngine(t, fixedSource{face: 3})
	err := eng.RunString(`
		local r = dice.roll("2d6")
		if r.total ~= 6 then error("total: " .. r.total) end
		if r.expression ~= "2d6[3, 3] = 6" then error("expression: " .. r.expression) end
		if #r.dice ~= 2 then error("dice count: " .. #r.dice) end
		if r.dice[1].value ~= 3 then error("die value: " .. r.dice[1].value) end
		if r.dice[1].dropped then error("unexpected dropped flag") end
	`)
	require.NoError(t, err)
}

func TestRunString_DiceRoll_DroppedFlag(t *testing.T) {
	eng := newTestEngine(t, &cycleSource{faces: []int{5, 2}})
	err := eng.RunString(`
		local r = dice.roll("2d6kh1")
		if r.total ~= 5 then error("total: " .. r.total) end
		if not r.dice[2].dropped then error("low die must be dropped") end
	`)
	require.NoError(t, err)
}

func TestRunString_DiceSimulate(t *testing.T) {
	eng := newTestEngine(t, fixedSource{face: 3})
	err := eng.RunString(`
		local s = dice.simulate("2d6", 50)
		if s.n ~= 50 then error("n: " .. s.n) end
		if s.mean ~= 6 then error("mean: " .. s.mean) end
		if s.std_dev ~= 0 then error("std_dev: " .. s.std_dev) end
		if s.min ~= 6 or s.max ~= 6 then error("range") end
		if s.median ~= 6 then error("median: " .. s.median) end
	`)
	require.NoError(t, err)
}

func TestRunString_DiceParse(t *testing.T) {
	eng := newTestEngine(t, fixedSource{face: 1})
	require.NoError(t, eng.RunString(`
		if dice.parse("4d6kh3!r<=2>=5") ~= true then error("parse must return true") end
	`))
}

func TestRunString_ParseError_Raises(t *testing.T) {
	eng := newTestEngine(t, fixedSource{face: 1})
	err := eng.RunString(`dice.parse("2d6 +")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of input")
}

func TestRunString_RollError_Raises(t *testing.T) {
	eng := newTestEngine(t, fixedSource{face: 1})
	err := eng.RunString(`dice.roll("1d6/0")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestRunString_SandboxStripsDangerousGlobals(t *testing.T) {
	eng := newTestEngine(t, fixedSource{face: 1})
	require.NoError(t, eng.RunString(`
		if dofile ~= nil then error("dofile leaked") end
		if loadfile ~= nil then error("loadfile leaked") end
		if load ~= nil then error("load leaked") end
		if require ~= nil then error("require leaked") end
	`))
}

func TestRunString_InstructionLimit(t *testing.T) {
	eng := scripting.NewEngine(fixedSource{face: 1}, zap.NewNop(), 1000)
	err := eng.RunString(`while true do end`)
	require.Error(t, err)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "macro.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
		local r = dice.roll("1d6")
		if r.total ~= 4 then error("total: " .. r.total) end
	`), 0o600))

	eng := newTestEngine(t, fixedSource{face: 4})
	require.NoError(t, eng.RunFile(path))
}

func TestRunFile_MissingFile(t *testing.T) {
	eng := newTestEngine(t, fixedSource{face: 1})
	err := eng.RunFile(filepath.Join(t.TempDir(), "nope.lua"))
	assert.Error(t, err)
}

func TestRunString_FailureLogsWarn(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	eng := scripting.NewEngine(fixedSource{face: 1}, zap.New(core), 0)

	require.Error(t, eng.RunString(`error("boom")`))

	found := false
	for _, e := range logs.All() {
		if e.Level == zap.WarnLevel && e.Message == "script failed" {
			found = true
		}
	}
	assert.True(t, found, "expected Warn entry for failed script")
}

func TestProperty_RollTotal_MatchesFixedSource(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		face := rapid.IntRange(1, 6).Draw(rt, "face")
		count := rapid.IntRange(1, 8).Draw(rt, "count")
		eng := scripting.NewEngine(fixedSource{face: face}, zap.NewNop(), 0)
		script := fmt.Sprintf(`
			local r = dice.roll("%dd6")
			if r.total ~= %d then error("total: " .. r.total) end
		`, count, count*face)
		if err := eng.RunString(script); err != nil {
			rt.Fatalf("script failed: %v", err)
		}
	})
}
