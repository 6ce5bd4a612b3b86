package dice

import (
	"math"
	"sort"
)

// Outcome is one (value, count) pair of a simulated distribution.
type Outcome struct {
	Value int64
	Count int
}

// SimResult is the outcome of a Monte Carlo simulation run. It is built
// once by the simulate functions and read-only afterwards.
//
// Invariant: N == sum of Distribution counts, and Min <= every observed
// value <= Max.
type SimResult struct {
	// Distribution maps each observed total to its occurrence count.
	Distribution map[int64]int
	// Min and Max are the smallest and largest totals observed.
	Min, Max int64
	// Mean and StdDev summarize the distribution; a constant expression has
	// StdDev exactly 0.
	Mean, StdDev float64
	// N is the number of trials run.
	N int
}

// SortedOutcomes returns the distribution as (value, count) pairs ascending
// by value, for rendering and plotting.
func (s *SimResult) SortedOutcomes() []Outcome {
	outcomes := make([]Outcome, 0, len(s.Distribution))
	for value, count := range s.Distribution {
		outcomes = append(outcomes, Outcome{Value: value, Count: count})
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Value < outcomes[j].Value })
	return outcomes
}

// Probabilities returns the empirical probability of each outcome.
func (s *SimResult) Probabilities() map[int64]float64 {
	probs := make(map[int64]float64, len(s.Distribution))
	for value, count := range s.Distribution {
		probs[value] = float64(count) / float64(s.N)
	}
	return probs
}

// Mode returns the most common outcome. Ties resolve to whichever maximum
// is seen first during map iteration; callers must not rely on tie order.
// ok is false only for an empty distribution.
func (s *SimResult) Mode() (value int64, ok bool) {
	best := -1
	for v, count := range s.Distribution {
		if count > best {
			best = count
			value = v
			ok = true
		}
	}
	return value, ok
}

// Median expands the distribution back into a sorted sample list and takes
// its midpoint (the mean of the middle pair for even N). O(n log n), which
// is acceptable since n is the caller-chosen trial count.
func (s *SimResult) Median() float64 {
	values := make([]int64, 0, s.N)
	for value, count := range s.Distribution {
		for i := 0; i < count; i++ {
			values = append(values, value)
		}
	}
	if len(values) == 0 {
		return 0
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	mid := len(values) / 2
	if len(values)%2 == 0 {
		return float64(values[mid-1]+values[mid]) / 2
	}
	return float64(values[mid])
}

// Simulate parses input once and evaluates it n times with an auto-seeded
// Source, accumulating the outcome distribution and summary statistics.
func Simulate(input string, n int) (*SimResult, error) {
	return SimulateWith(input, n, NewSource())
}

// SimulateSeeded is Simulate with a deterministic Source: identical
// arguments produce identical results.
func SimulateSeeded(input string, n int, seed uint64) (*SimResult, error) {
	return SimulateWith(input, n, NewSeededSource(seed))
}

// SimulateWith parses input once and runs n trials against src, which must
// be owned exclusively by this run.
func SimulateWith(input string, n int, src Source) (*SimResult, error) {
	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return SimulateExpr(expr, n, src)
}

// SimulateExpr runs n trials of an already-parsed expression against src.
//
// Precondition: n >= 1; smaller values return ErrNoTrials.
func SimulateExpr(expr Expr, n int, src Source) (*SimResult, error) {
	if n < 1 {
		return nil, ErrNoTrials
	}
	acc := newAccumulator()
	if err := acc.run(expr, n, src); err != nil {
		return nil, err
	}
	return acc.result(), nil
}

// SimulateParallel splits the n trials of a run across workers goroutines,
// each owning an independent auto-seeded Source, and merges the partial
// accumulators. The merge sums counts, sum and sum-of-squares and folds
// min/max, which is exact because the accumulation is associative and
// commutative; the trial-to-outcome assignment is of course not reproducible.
func SimulateParallel(input string, n, workers int) (*SimResult, error) {
	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, ErrNoTrials
	}
	if workers < 2 || n < workers {
		return SimulateExpr(expr, n, NewSource())
	}

	type part struct {
		acc *accumulator
		err error
	}
	parts := make(chan part, workers)

	base, extra := n/workers, n%workers
	for w := 0; w < workers; w++ {
		trials := base
		if w < extra {
			trials++
		}
		go func(trials int) {
			acc := newAccumulator()
			err := acc.run(expr, trials, NewSource())
			parts <- part{acc: acc, err: err}
		}(trials)
	}

	merged := newAccumulator()
	var firstErr error
	for w := 0; w < workers; w++ {
		p := <-parts
		if p.err != nil {
			if firstErr == nil {
				firstErr = p.err
			}
			continue
		}
		merged.merge(p.acc)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return merged.result(), nil
}

// accumulator holds the streaming statistics of a (partial) simulation run:
// distribution counts plus running sum and sum-of-squares, so mean and
// variance come out in a single pass without retaining samples.
type accumulator struct {
	dist  map[int64]int
	sum   int64
	sumSq int64
	min   int64
	max   int64
	n     int
}

func newAccumulator() *accumulator {
	return &accumulator{
		dist: make(map[int64]int),
		min:  math.MaxInt64,
		max:  math.MinInt64,
	}
}

func (a *accumulator) run(expr Expr, n int, src Source) error {
	for i := 0; i < n; i++ {
		res, err := Eval(expr, src)
		if err != nil {
			return err
		}
		a.add(res.Total)
	}
	return nil
}

func (a *accumulator) add(total int64) {
	a.dist[total]++
	a.sum += total
	a.sumSq += total * total
	if total < a.min {
		a.min = total
	}
	if total > a.max {
		a.max = total
	}
	a.n++
}

func (a *accumulator) merge(b *accumulator) {
	for value, count := range b.dist {
		a.dist[value] += count
	}
	a.sum += b.sum
	a.sumSq += b.sumSq
	if b.min < a.min {
		a.min = b.min
	}
	if b.max > a.max {
		a.max = b.max
	}
	a.n += b.n
}

func (a *accumulator) result() *SimResult {
	mean := float64(a.sum) / float64(a.n)
	variance := float64(a.sumSq)/float64(a.n) - mean*mean
	if variance < 0 {
		// Floating-point cancellation can push a constant distribution
		// fractionally below zero.
		variance = 0
	}
	return &SimResult{
		Distribution: a.dist,
		Min:          a.min,
		Max:          a.max,
		Mean:         mean,
		StdDev:       math.Sqrt(variance),
		N:            a.n,
	}
}
