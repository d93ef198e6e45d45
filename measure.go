package tune

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-tune/internal/coerce"
)

var ErrNoEvaluator = errors.New("tune: evaluator not configured")

// ErrNotNumeric indicates a measure expression produced a value that cannot
// be ordered as a real number.
var ErrNotNumeric = errors.New("tune: measure result is not numeric")

// MeasureContext carries the inputs available to a measure expression.
type MeasureContext struct {
	Result   any
	Args     map[string]any
	Metadata map[string]any
	Now      *time.Time
}

func (ctx MeasureContext) withDefaultNow() MeasureContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx MeasureContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx MeasureContext) withDefaultMaps() MeasureContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx MeasureContext) withDefaults() MeasureContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

// Evaluator executes measure expressions against a context.
type Evaluator interface {
	Evaluate(ctx MeasureContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledMeasure, error)
}

// CompiledMeasure represents a reusable measure expression program.
type CompiledMeasure interface {
	Evaluate(ctx MeasureContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// MeasureFrom compiles an expression into a Measure using the Env's
// configured evaluator. The expression is evaluated with the computation's
// result bound as "result"; when the result is a map its keys are bound
// directly as well. The numeric outcome ranks candidate runs.
func (e *Env) MeasureFrom(expr string) (Measure, error) {
	if expr == "" {
		return nil, fmt.Errorf("tune: measure expression must not be empty")
	}
	evaluator, err := e.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	compiled, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(evaluatorEngineName(evaluator), expr, err)
	}
	engine := evaluatorEngineName(evaluator)
	return func(result any) (float64, error) {
		ctx := MeasureContext{Result: result}.withDefaults()
		start := time.Now()
		value, evalErr := compiled.Evaluate(ctx)
		duration := time.Since(start)
		evalErr = wrapEvaluationError(engine, expr, evalErr)
		e.measureLogger().LogMeasure(MeasureLogEvent{
			Engine:   engine,
			Expr:     expr,
			Duration: duration,
			Err:      evalErr,
		})
		if evalErr != nil {
			return 0, evalErr
		}
		score, ok := coerce.Float(value)
		if !ok {
			return 0, wrapEvaluationError(engine, expr, fmt.Errorf("%w: %T", ErrNotNumeric, value))
		}
		return score, nil
	}, nil
}

func (e *Env) resolveEvaluator() (Evaluator, error) {
	if e.evaluator != nil {
		return e.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if e.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(e.cache))
	}
	if e.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(e.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	e.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*tune.exprEvaluator":
		return "expr"
	case "*tune.celEvaluator":
		return "cel"
	case "*tune.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
