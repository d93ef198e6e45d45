package tune

import "time"

// MeasureLogEvent describes a measure evaluation attempt for logging.
type MeasureLogEvent struct {
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// MeasureLogger records measure evaluation events.
type MeasureLogger interface {
	LogMeasure(MeasureLogEvent)
}

// MeasureLoggerFunc adapts a function to MeasureLogger.
type MeasureLoggerFunc func(MeasureLogEvent)

// LogMeasure implements MeasureLogger.
func (f MeasureLoggerFunc) LogMeasure(event MeasureLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopMeasureLogger struct{}

func (noopMeasureLogger) LogMeasure(MeasureLogEvent) {}
