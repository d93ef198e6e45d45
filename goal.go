package tune

// Measure scores a computation result. Scores must be totally ordered real
// numbers; minimize picks the smallest, maximize the largest.
type Measure func(result any) (float64, error)

// Strategy decides how to produce and commit a final effect set for a goal,
// typically by resampling the computation. The fn it receives may be a
// synthetic next-computation that delegates to the next registered strategy.
type Strategy func(measure Measure, fn Computation, args ...any) (any, error)

// goalFrame is per-Goal state: the baseline effect set exposed to strategies
// registered during the baseline run, and the composed strategy chain.
type goalFrame struct {
	baseline   *EffectSet
	strategy   Strategy
	inStrategy bool
}

// Goal runs fn inside a journal and either commits the baseline effect set
// (when the run registered no optimizer) or hands control to the registered
// strategy chain. Frames save/restore around nested goals; a failure in fn
// propagates to the caller with nothing committed.
func (e *Env) Goal(measure Measure, fn Computation, args ...any) (any, error) {
	if fn == nil {
		return nil, ErrNilComputation
	}
	prev := e.goal
	frame := &goalFrame{}
	e.goal = frame
	defer func() { e.goal = prev }()

	baseline, err := e.Journal(fn, args...)
	if err != nil {
		return nil, err
	}
	frame.baseline = baseline

	if frame.strategy == nil {
		result := e.Commit(baseline)
		e.emitGoalCompleted(baseline, false)
		return result, nil
	}

	// Registrations made while the strategy itself executes are ignored, so
	// strategies can re-run fn without re-triggering themselves.
	frame.inStrategy = true
	defer func() { frame.inStrategy = false }()
	result, err := frame.strategy(measure, fn, args...)
	if err != nil {
		return nil, err
	}
	e.emitGoalCompleted(baseline, true)
	return result, nil
}

// OnGoal registers strategy for the enclosing goal. It is a no-op when no
// goal frame is open or while a strategy chain is already executing. When a
// strategy is already registered the new one composes inside it: the first
// registration stays outermost and receives a next-computation that invokes
// the later one.
func (e *Env) OnGoal(strategy Strategy) {
	frame := e.goal
	if frame == nil || frame.inStrategy || strategy == nil {
		return
	}
	if frame.strategy == nil {
		frame.strategy = strategy
		e.emitStrategyRegistered()
		return
	}
	outer := frame.strategy
	inner := strategy
	frame.strategy = func(measure Measure, fn Computation, args ...any) (any, error) {
		next := func(_ *Env, nargs ...any) (any, error) {
			return inner(measure, fn, nargs...)
		}
		return outer(measure, next, args...)
	}
	e.emitStrategyRegistered()
}

// Baseline exposes the enclosing goal's baseline effect set to strategies.
// It returns nil when no goal frame is open or the baseline run has not
// finished yet.
func (e *Env) Baseline() *EffectSet {
	if e.goal == nil {
		return nil
	}
	return e.goal.baseline
}
