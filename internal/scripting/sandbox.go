// Package scripting runs user macro scripts in a sandboxed GopherLua VM.
// Scripts talk to the roller through the registered "dice" module; the VM
// has no filesystem or network access and a hard opcode budget.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget applied when no limit is
// configured. Macro scripts are short; anything that runs this long is
// looping.
const DefaultInstructionLimit = 1_000_000

// opcodeBudget is a context.Context that cancels itself after Done() has been
// called limit times. GopherLua's mainLoopWithContext calls Done() once per
// opcode, making this an exact instruction-count limit.
type opcodeBudget struct {
	context.Context
	cancel context.CancelFunc
	left   *atomic.Int64
}

// Done returns the underlying cancellation channel. Each call decrements the
// remaining budget; when it reaches zero the cancel function fires and the
// Lua VM stops on the next opcode boundary.
func (b *opcodeBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// newOpcodeBudget returns a context that cancels after limit calls to Done().
// Precondition: limit > 0.
func newOpcodeBudget(limit int) context.Context {
	base, cancel := context.WithCancel(context.Background())
	left := &atomic.Int64{}
	left.Store(int64(limit))
	return &opcodeBudget{
		Context: base,
		cancel:  cancel,
		left:    left,
	}
}

// newSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - Execution limited to at most instLimit Lua opcodes (deterministic)
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: returns a non-nil LState ready for registerDiceModule.
// The caller owns the LState and must call L.Close() when done.
func newSandboxedState(instLimit int) *lua.LState {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open only safe standard libraries.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Strip dangerous globals left by OpenBase.
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	// opcodeBudget.Done() is called by GopherLua's mainLoopWithContext on
	// every opcode; the context cancels itself once the budget is spent.
	L.SetContext(newOpcodeBudget(limit))

	return L
}
