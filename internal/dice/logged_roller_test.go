package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/diceman/internal/dice"
)

func TestRoller_RollExpr_LogsTraceAndTotal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(script(3, 4), zap.New(core))

	result, err := roller.RollExpr("2d6")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Total)

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "2d6[3, 4] = 7", fields["expression"])
	assert.Equal(t, int64(7), fields["total"])
}

func TestRoller_RollExpr_ParseErrorDoesNotLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(script(1), zap.New(core))

	_, err := roller.RollExpr("2d6 +")
	assert.ErrorIs(t, err, dice.ErrUnexpectedEOF)
	assert.Zero(t, logs.Len())
}

func TestRoller_Simulate_TagsRunID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(9), zap.New(core))

	result, err := roller.Simulate("2d6", 500)
	require.NoError(t, err)
	assert.Equal(t, 500, result.N)

	entries := logs.FilterMessage("simulation complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.NotEmpty(t, fields["run_id"])
	assert.Equal(t, int64(500), fields["trials"])
}

func TestRoller_Simulate_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(9), zap.New(core))

	_, err := roller.Simulate("1d6r<7", 10)
	var limitErr *dice.RerollLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 1, logs.FilterMessage("simulation failed").Len())
}
