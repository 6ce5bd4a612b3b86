package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceman/internal/dice"
)

// Engine executes macro scripts. Each run gets a fresh sandboxed VM with the
// dice module registered, so scripts cannot leak state into each other.
//
// Engine is not safe for concurrent use; create one per goroutine.
type Engine struct {
	src       dice.Source
	logger    *zap.Logger
	instLimit int
}

// NewEngine creates an Engine.
//
// Precondition: src and logger must be non-nil. instLimit <= 0 uses
// DefaultInstructionLimit.
func NewEngine(src dice.Source, logger *zap.Logger, instLimit int) *Engine {
	return &Engine{
		src:       src,
		logger:    logger,
		instLimit: instLimit,
	}
}

// RunFile executes the Lua script at path in a fresh sandboxed VM.
//
// Postcondition: returns an error on load failure, Lua runtime error, or
// exhausted instruction budget; nil when the script ran to completion.
func (e *Engine) RunFile(path string) error {
	return e.run(path, func(L *lua.LState) error { return L.DoFile(path) })
}

// RunString executes script source in a fresh sandboxed VM. Intended for
// tests and one-liners; RunFile is the CLI path.
func (e *Engine) RunString(script string) error {
	return e.run("(inline)", func(L *lua.LState) error { return L.DoString(script) })
}

func (e *Engine) run(name string, do func(*lua.LState) error) error {
	L := newSandboxedState(e.instLimit)
	defer L.Close()
	registerDiceModule(L, e.src)

	if err := do(L); err != nil {
		e.logger.Warn("script failed",
			zap.String("script", name),
			zap.Error(err),
		)
		return fmt.Errorf("running script %s: %w", name, err)
	}
	e.logger.Debug("script complete", zap.String("script", name))
	return nil
}
