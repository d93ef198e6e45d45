package tune

import (
	"reflect"

	"github.com/goliatone/go-tune/pkg/activity"
)

// Env is the execution context shared by every primitive: the active
// transaction (read-memo/write-buffer pair, or none for direct mode), the
// open goal frame, and the ambient configuration. An Env is single-goroutine
// state; nesting via Journal and Goal is the only concurrency it supports.
type Env struct {
	txn  *txn
	goal *goalFrame

	rand       Rand
	evaluator  Evaluator
	cache      ProgramCache
	functions  *FunctionRegistry
	logger     MeasureLogger
	emitter    *activity.Emitter
	identity   ActivityIdentity
	recipients []string
}

// Option configures an Env at construction.
type Option func(*envConfig)

type envConfig struct {
	rand       Rand
	evaluator  Evaluator
	cache      ProgramCache
	functions  *FunctionRegistry
	logger     MeasureLogger
	hooks      activity.Hooks
	channel    string
	identity   ActivityIdentity
	recipients []string
}

// New constructs an Env. Without options it uses a randomly seeded uniform
// source, the expr measure evaluator, and no hooks.
func New(opts ...Option) *Env {
	cfg := envConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	env := &Env{
		rand:       cfg.rand,
		evaluator:  cfg.evaluator,
		cache:      cfg.cache,
		functions:  cfg.functions,
		logger:     cfg.logger,
		identity:   cfg.identity,
		recipients: cfg.recipients,
	}
	if env.rand == nil {
		env.rand = defaultRand()
	}
	if len(cfg.hooks) > 0 {
		env.emitter = activity.NewEmitter(cfg.hooks, activity.Config{
			Enabled: true,
			Channel: cfg.channel,
		})
	}
	return env
}

// WithRand injects the uniform-deviate source used by capability values.
func WithRand(r Rand) Option {
	return func(cfg *envConfig) {
		cfg.rand = r
	}
}

// WithEvaluator configures the measure evaluator used by MeasureFrom.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *envConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a compiled-program cache for measure evaluators.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *envConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry configures custom functions callable from measure
// expressions. The registry is cloned.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *envConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithMeasureLogger attaches a logger for measure evaluations.
func WithMeasureLogger(logger MeasureLogger) Option {
	return func(cfg *envConfig) {
		if logger == nil {
			cfg.logger = noopMeasureLogger{}
			return
		}
		cfg.logger = logger
	}
}

func (e *Env) measureLogger() MeasureLogger {
	if e.logger != nil {
		return e.logger
	}
	return noopMeasureLogger{}
}

// Uniform returns a uniform random deviate in [a, b).
func (e *Env) Uniform(a, b float64) float64 {
	return a + e.rand.Float64()*(b-a)
}

// txn is one transaction context: reads memoize override-resolved values,
// writes buffer deferred mutations. Both are restored around nested journals
// with strict stack discipline.
type txn struct {
	reads  *effects
	writes *effects
}

func newTxn() *txn {
	return &txn{reads: newEffects(), writes: newEffects()}
}

// effects is a container-addressed map of buffered keyed and whole-value
// entries. Containers are tracked by identity so non-comparable values
// (maps, slices) can still be addressed, and first-touch order is preserved
// for deterministic commits.
type effects struct {
	entries map[any]*containerEffects
	order   []*containerEffects
}

type containerEffects struct {
	container any
	keys      map[string]any
	keyOrder  []string
	whole     any
	hasWhole  bool
}

func newEffects() *effects {
	return &effects{entries: map[any]*containerEffects{}}
}

func (fx *effects) slot(container any, create bool) *containerEffects {
	key := identityKey(container)
	if entry, ok := fx.entries[key]; ok {
		return entry
	}
	if !create {
		return nil
	}
	entry := &containerEffects{container: container, keys: map[string]any{}}
	fx.entries[key] = entry
	fx.order = append(fx.order, entry)
	return entry
}

func (fx *effects) getKey(container any, key string) (any, bool) {
	entry := fx.slot(container, false)
	if entry == nil {
		return nil, false
	}
	value, ok := entry.keys[key]
	return value, ok
}

func (fx *effects) setKey(container any, key string, value any) {
	entry := fx.slot(container, true)
	if _, seen := entry.keys[key]; !seen {
		entry.keyOrder = append(entry.keyOrder, key)
	}
	entry.keys[key] = value
}

func (fx *effects) getWhole(container any) (any, bool) {
	entry := fx.slot(container, false)
	if entry == nil || !entry.hasWhole {
		return nil, false
	}
	return entry.whole, true
}

func (fx *effects) setWhole(container any, value any) {
	entry := fx.slot(container, true)
	entry.whole = value
	entry.hasWhole = true
}

// idKey distinguishes identity-derived keys from caller values that happen
// to be uintptrs.
type idKey uintptr

// identityKey produces a map key for a container. Maps, slices, and funcs
// key by identity; other comparable values key by value, so two distinct but
// equal comparable containers share one effect slot (containers are expected
// to be reference types, see Container). Values that are neither comparable
// nor identity-addressable (a struct or array carrying a slice) get a fresh
// key on every touch: their buffered effects stay transaction-local rather
// than panicking the effect map.
func identityKey(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return v
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func:
		return idKey(rv.Pointer())
	}
	if !rv.Comparable() {
		return new(idKey)
	}
	return v
}
