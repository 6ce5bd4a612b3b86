package dice

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Roller wraps a Source and logger to provide logged rolling and
// simulation. Individual rolls log at debug level with the trace and total;
// simulation runs log at info level and are tagged with a run ID so the
// per-run statistics can be correlated.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll evaluates a parsed expression and logs the result.
func (r *Roller) Roll(expr Expr) (RollResult, error) {
	result, err := Eval(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}

	values := make([]int64, len(result.Dice))
	dropped := 0
	for i := range result.Dice {
		values[i] = result.Dice[i].Value
		if result.Dice[i].Dropped {
			dropped++
		}
	}
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Int64s("values", values),
		zap.Int("dropped", dropped),
		zap.Int64("total", result.Total),
	)
	return result, nil
}

// RollExpr parses input and rolls it, logging the result.
func (r *Roller) RollExpr(input string) (RollResult, error) {
	expr, err := Parse(input)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(expr)
}

// Simulate parses input once, runs n trials with the Roller's Source, and
// logs the run statistics under a fresh run ID.
func (r *Roller) Simulate(input string, n int) (*SimResult, error) {
	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	result, err := SimulateExpr(expr, n, r.src)
	if err != nil {
		r.logger.Warn("simulation failed",
			zap.String("run_id", runID),
			zap.String("expression", input),
			zap.Int("trials", n),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Info("simulation complete",
		zap.String("run_id", runID),
		zap.String("expression", input),
		zap.Int("trials", result.N),
		zap.Float64("mean", result.Mean),
		zap.Float64("std_dev", result.StdDev),
		zap.Int64("min", result.Min),
		zap.Int64("max", result.Max),
		zap.Int("outcomes", len(result.Distribution)),
	)
	return result, nil
}
