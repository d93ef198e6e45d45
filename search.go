package tune

import "github.com/google/uuid"

const defaultTries = 2

// SearchOption configures a resampling search.
type SearchOption func(*searchConfig)

type searchConfig struct {
	tries   int
	collect func(Trace)
}

func applySearchOptions(opts []SearchOption) searchConfig {
	cfg := searchConfig{tries: defaultTries}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.tries < 0 {
		cfg.tries = 0
	}
	return cfg
}

// WithTries sets how many resampled runs a search performs beyond the
// baseline. The default is 2.
func WithTries(n int) SearchOption {
	return func(cfg *searchConfig) {
		cfg.tries = n
	}
}

// WithTraceCollector registers a callback that receives the search trace
// once the winning run is committed.
func WithTraceCollector(fn func(Trace)) SearchOption {
	return func(cfg *searchConfig) {
		cfg.collect = fn
	}
}

// Minimize runs fn under a goal whose optimizer resamples it and commits the
// run with the smallest measure. The baseline run counts; ties keep the
// earlier run.
func (e *Env) Minimize(measure Measure, fn Computation, args []any, opts ...SearchOption) (any, error) {
	return e.search(measure, fn, args, modeMinimize, opts)
}

// Maximize is Minimize with the comparison inverted: the run with the
// largest measure wins.
func (e *Env) Maximize(measure Measure, fn Computation, args []any, opts ...SearchOption) (any, error) {
	return e.search(measure, fn, args, modeMaximize, opts)
}

// OnMinimize registers a minimizing resample strategy for the enclosing
// goal, for use inside a running computation. The measure is the one the
// goal dispatches with.
func (e *Env) OnMinimize(opts ...SearchOption) {
	e.OnGoal(e.resampleBest(applySearchOptions(opts), modeMinimize))
}

// OnMaximize registers a maximizing resample strategy for the enclosing goal.
func (e *Env) OnMaximize(opts ...SearchOption) {
	e.OnGoal(e.resampleBest(applySearchOptions(opts), modeMaximize))
}

type searchMode string

const (
	modeMinimize searchMode = "minimize"
	modeMaximize searchMode = "maximize"
)

func (m searchMode) better(candidate, best float64) bool {
	if m == modeMaximize {
		return candidate > best
	}
	return candidate < best
}

func (e *Env) search(measure Measure, fn Computation, args []any, mode searchMode, opts []SearchOption) (any, error) {
	if fn == nil {
		return nil, ErrNilComputation
	}
	wrapped := func(env *Env, wargs ...any) (any, error) {
		env.OnGoal(env.resampleBest(applySearchOptions(opts), mode))
		return fn(env, wargs...)
	}
	return e.Goal(measure, wrapped, args...)
}

// resampleBest is the concrete optimizer: score the baseline, re-journal the
// computation tries times, keep the best-scoring effect set, commit it.
func (e *Env) resampleBest(cfg searchConfig, mode searchMode) Strategy {
	return func(measure Measure, fn Computation, args ...any) (any, error) {
		if measure == nil {
			return nil, ErrNilMeasure
		}
		best := e.Baseline()
		bestScore, err := measure(best.Result())
		if err != nil {
			return nil, err
		}
		trace := Trace{
			GoalID: uuid.NewString(),
			Mode:   string(mode),
			Attempts: []Attempt{{
				Index:    0,
				EffectID: best.ID(),
				Score:    bestScore,
			}},
		}
		for i := 0; i < cfg.tries; i++ {
			candidate, err := e.Journal(fn, args...)
			if err != nil {
				return nil, err
			}
			score, err := measure(candidate.Result())
			if err != nil {
				return nil, err
			}
			trace.Attempts = append(trace.Attempts, Attempt{
				Index:    i + 1,
				EffectID: candidate.ID(),
				Score:    score,
			})
			if mode.better(score, bestScore) {
				best, bestScore = candidate, score
			}
		}
		result := e.Commit(best)
		if cfg.collect != nil {
			trace.markChosen(best.ID())
			cfg.collect(trace)
		}
		return result, nil
	}
}
