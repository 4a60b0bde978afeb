package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Icons and symbols for different log types
const (
	IconSuccess = "✅"
	IconWarning = "⚠️"
	IconNetwork = "🌐"
	IconFire    = "🔥"
	IconRefresh = "🔄"
	IconDot     = "•"
)

// Success logs a success message with a green checkmark
func Success(args ...interface{}) {
	defaultLogger.Info(IconSuccess + " " + fmt.Sprint(args...))
}

// Successf logs a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a progress message with a refresh icon
func Progress(args ...interface{}) {
	defaultLogger.Info(IconRefresh + " " + fmt.Sprint(args...))
}

// Progressf logs a formatted progress message
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

// Network logs a network-related message
func Network(args ...interface{}) {
	defaultLogger.Info(IconNetwork + " " + fmt.Sprint(args...))
}

// Networkf logs a formatted network message
func Networkf(format string, args ...interface{}) {
	Network(fmt.Sprintf(format, args...))
}

// Notice logs a warning that the user is expected to read, e.g. a fallback
func Notice(args ...interface{}) {
	defaultLogger.Warn(IconWarning + "  " + fmt.Sprint(args...))
}

// output returns the writer and color mode of the default logger
func output() (io.Writer, bool) {
	if l, ok := defaultLogger.(*logger); ok {
		l.opts.mu.Lock()
		defer l.opts.mu.Unlock()
		return l.opts.writer, l.opts.noColor
	}
	return os.Stderr, true
}

// LogSection creates a visual section separator
func LogSection(title string) {
	w, noColor := output()
	line := strings.Repeat("=", 50)

	if noColor {
		_, _ = fmt.Fprintf(w, "%s\n%s\n%s\n", line, title, line)
		return
	}
	cyan := color.New(color.FgCyan)
	_, _ = fmt.Fprintf(w, "%s\n%s\n%s\n", cyan.Sprint(line), color.New(color.FgCyan, color.Bold).Sprint(title), cyan.Sprint(line))
}

// LogList logs a list of items with bullets
func LogList(title string, items []string) {
	Info(title)
	w, _ := output()
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "  %s %s\n", IconDot, item)
	}
}

// LogKeyValue logs a key-value pair with nice formatting
func LogKeyValue(key string, value interface{}) {
	w, noColor := output()
	if noColor {
		_, _ = fmt.Fprintf(w, "%s: %v\n", key, value)
		return
	}
	_, _ = fmt.Fprintf(w, "%s %v\n", color.New(color.FgCyan).Sprint(key+":"), value)
}

// LogKeyValues logs multiple key-value pairs in key order
func LogKeyValues(pairs map[string]interface{}) {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		LogKeyValue(k, pairs[k])
	}
}
