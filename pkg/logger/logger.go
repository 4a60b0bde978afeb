package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents the severity of a log message
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the lower-case level name accepted by ParseLevel
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	default:
		return "unknown"
	}
}

// Logger is the main logger interface
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithPrefix(prefix string) Logger
}

// options is shared between a logger and the loggers derived from it, so
// SetLevel and SetNoColor also reach WithField/WithPrefix children.
type options struct {
	mu       sync.Mutex
	level    Level
	writer   io.Writer
	noColor  bool
	showTime bool
}

type logger struct {
	opts   *options
	fields map[string]interface{}
	prefix string
}

var defaultLogger = New()

// Config holds logger configuration
type Config struct {
	Level    Level
	Writer   io.Writer
	NoColor  bool
	ShowTime bool
}

// New creates a new logger with default configuration. Output goes to
// stderr so that command results on stdout stay machine readable.
func New() Logger {
	return NewWithConfig(Config{
		Level:    InfoLevel,
		Writer:   os.Stderr,
		NoColor:  false,
		ShowTime: true,
	})
}

// NewWithConfig creates a new logger with custom configuration
func NewWithConfig(cfg Config) Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	return &logger{
		opts: &options{
			level:    cfg.Level,
			writer:   cfg.Writer,
			noColor:  cfg.NoColor,
			showTime: cfg.ShowTime,
		},
		fields: make(map[string]interface{}),
	}
}

// Default returns the process-wide logger used by the package-level helpers
func Default() Logger { return defaultLogger }

// SetLevel sets the global log level
func SetLevel(level Level) {
	if l, ok := defaultLogger.(*logger); ok {
		l.opts.mu.Lock()
		l.opts.level = level
		l.opts.mu.Unlock()
	}
}

// SetNoColor disables color output
func SetNoColor(noColor bool) {
	if l, ok := defaultLogger.(*logger); ok {
		l.opts.mu.Lock()
		l.opts.noColor = noColor
		l.opts.mu.Unlock()
	}
	if noColor {
		color.NoColor = true
	}
}

// SetOutput redirects the global logger; nil restores stderr
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	if l, ok := defaultLogger.(*logger); ok {
		l.opts.mu.Lock()
		l.opts.writer = w
		l.opts.mu.Unlock()
	}
}

// Helper methods for the default logger
func Debug(args ...interface{})                       { defaultLogger.Debug(args...) }
func Debugf(format string, args ...interface{})       { defaultLogger.Debugf(format, args...) }
func Info(args ...interface{})                        { defaultLogger.Info(args...) }
func Infof(format string, args ...interface{})        { defaultLogger.Infof(format, args...) }
func Warn(args ...interface{})                        { defaultLogger.Warn(args...) }
func Warnf(format string, args ...interface{})        { defaultLogger.Warnf(format, args...) }
func Error(args ...interface{})                       { defaultLogger.Error(args...) }
func Errorf(format string, args ...interface{})       { defaultLogger.Errorf(format, args...) }
func Fatal(args ...interface{})                       { defaultLogger.Fatal(args...) }
func Fatalf(format string, args ...interface{})       { defaultLogger.Fatalf(format, args...) }
func WithField(key string, value interface{}) Logger  { return defaultLogger.WithField(key, value) }
func WithFields(fields map[string]interface{}) Logger { return defaultLogger.WithFields(fields) }
func WithPrefix(prefix string) Logger                 { return defaultLogger.WithPrefix(prefix) }

func (l *logger) paint(noColor bool, s string, attrs ...color.Attribute) string {
	if noColor {
		return s
	}
	return color.New(attrs...).Sprint(s)
}

func (l *logger) log(level Level, args ...interface{}) {
	l.opts.mu.Lock()

	if level < l.opts.level {
		l.opts.mu.Unlock()
		return
	}

	noColor := l.opts.noColor
	var parts []string

	if l.opts.showTime {
		parts = append(parts, l.paint(noColor, time.Now().Format("15:04:05"), color.FgHiBlack))
	}

	levelStr, levelAttrs := levelStyle(level)
	parts = append(parts, l.paint(noColor, levelStr, levelAttrs...))

	if l.prefix != "" {
		parts = append(parts, l.paint(noColor, "["+l.prefix+"]", color.FgCyan))
	}

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		parts = append(parts, l.paint(noColor, strings.Join(fieldParts, " "), color.FgHiBlack))
	}

	parts = append(parts, fmt.Sprint(args...))

	_, _ = fmt.Fprintln(l.opts.writer, strings.Join(parts, " "))

	l.opts.mu.Unlock()

	// Exit on fatal (after unlocking mutex)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *logger) logf(level Level, format string, args ...interface{}) {
	l.log(level, fmt.Sprintf(format, args...))
}

func levelStyle(level Level) (string, []color.Attribute) {
	switch level {
	case DebugLevel:
		return "DEBUG", []color.Attribute{color.FgHiBlack}
	case InfoLevel:
		return "INFO ", []color.Attribute{color.FgGreen}
	case WarnLevel:
		return "WARN ", []color.Attribute{color.FgYellow}
	case ErrorLevel:
		return "ERROR", []color.Attribute{color.FgRed}
	case FatalLevel:
		return "FATAL", []color.Attribute{color.FgRed, color.Bold}
	default:
		return "UNKNOWN", []color.Attribute{color.Reset}
	}
}

func (l *logger) Debug(args ...interface{}) { l.log(DebugLevel, args...) }

func (l *logger) Debugf(format string, args ...interface{}) { l.logf(DebugLevel, format, args...) }

func (l *logger) Info(args ...interface{}) { l.log(InfoLevel, args...) }

func (l *logger) Infof(format string, args ...interface{}) { l.logf(InfoLevel, format, args...) }

func (l *logger) Warn(args ...interface{}) { l.log(WarnLevel, args...) }

func (l *logger) Warnf(format string, args ...interface{}) { l.logf(WarnLevel, format, args...) }

func (l *logger) Error(args ...interface{}) { l.log(ErrorLevel, args...) }

func (l *logger) Errorf(format string, args ...interface{}) { l.logf(ErrorLevel, format, args...) }

func (l *logger) Fatal(args ...interface{}) { l.log(FatalLevel, args...) }

func (l *logger) Fatalf(format string, args ...interface{}) { l.logf(FatalLevel, format, args...) }

func (l *logger) derive(prefix string, extra map[string]interface{}) *logger {
	child := &logger{
		opts:   l.opts,
		fields: make(map[string]interface{}, len(l.fields)+len(extra)),
		prefix: prefix,
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for k, v := range extra {
		child.fields[k] = v
	}
	return child
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return l.derive(l.prefix, map[string]interface{}{key: value})
}

func (l *logger) WithFields(fields map[string]interface{}) Logger {
	return l.derive(l.prefix, fields)
}

func (l *logger) WithPrefix(prefix string) Logger {
	return l.derive(prefix, nil)
}

// ParseLevel parses a string log level
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
