package appender

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Philipp01105/treelog/core"
)

// ZapConfig holds configuration for ZapAppender.
type ZapConfig struct {
	// Name identifies the appender in configuration and diagnostics.
	Name string
	// Logger is the zap logger that receives events.
	Logger *zap.Logger
	// Threshold drops events below this level before the filters run.
	Threshold core.Level
	// Filters is the appender's filter chain.
	Filters []Filter
}

// ZapAppender forwards events to a go.uber.org/zap logger, so treelog's
// hierarchy and routing can sit in front of an existing zap pipeline.
// The event's own timestamp and logger name travel as zap fields.
type ZapAppender struct {
	name      string
	logger    *zap.Logger
	threshold core.Level
	filters   []Filter
}

// NewZapAppender creates an appender forwarding to cfg.Logger.
func NewZapAppender(cfg ZapConfig) *ZapAppender {
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapAppender{
		name:      cfg.Name,
		logger:    l,
		threshold: cfg.Threshold,
		filters:   cfg.Filters,
	}
}

// Name returns the appender's configured name.
func (a *ZapAppender) Name() string {
	return a.name
}

// toZapLevel maps a level by severity band. LevelFatal maps to zap's
// Error, not Fatal, so forwarding never calls os.Exit from library code.
func toZapLevel(l core.Level) zapcore.Level {
	switch {
	case l.GreaterOrEqual(core.LevelError):
		return zapcore.ErrorLevel
	case l.GreaterOrEqual(core.LevelWarn):
		return zapcore.WarnLevel
	case l.GreaterOrEqual(core.LevelInfo):
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// DoAppend forwards the event to the zap logger.
func (a *ZapAppender) DoAppend(ev *core.Event) error {
	if !ev.Level.GreaterOrEqual(a.threshold) || !RunFilters(a.filters, ev) {
		return nil
	}

	// Check before building fields so disabled levels cost nothing.
	ce := a.logger.Check(toZapLevel(ev.Level), ev.Message)
	if ce == nil {
		return nil
	}

	fields := make([]zap.Field, 0, 4+ev.Properties.Len())
	fields = append(fields,
		zap.String("logger", ev.LoggerName),
		zap.Time("ts", ev.Timestamp),
	)
	if len(ev.ContextStack) > 0 {
		fields = append(fields, zap.String("ndc", strings.Join(ev.ContextStack, " ")))
	}
	if ev.ErrorText != "" {
		fields = append(fields, zap.String("error", ev.ErrorText))
	}
	for _, k := range ev.Properties.Keys() {
		v, _ := ev.Properties.Get(k)
		fields = append(fields, zap.String(k, v))
	}
	ce.Write(fields...)
	return nil
}

// Close flushes the zap logger. Sync errors on terminal outputs are
// expected on some platforms and reported, not returned.
func (a *ZapAppender) Close() error {
	if err := a.logger.Sync(); err != nil {
		core.Diagf("zap appender %q: sync: %v", a.name, err)
	}
	return nil
}
