package zodkit

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorGray    = "\033[90m"
)

// Emoji for log levels
const (
	emojiInfo  = "📦"
	emojiWarn  = "⚠️"
	emojiError = "❌"
	emojiDone  = "✅"
	emojiWrite = "📝"
	emojiLoad  = "📂"
	emojiSkip  = "🫥"
)

// Logger provides styled logging for the generator.
type Logger struct {
	w       io.Writer
	noColor bool
	verbose bool
}

// NewLogger creates a new Logger writing to stdout.
func NewLogger() *Logger {
	return &Logger{w: os.Stdout}
}

// NewLoggerWithWriter creates a new Logger with a custom writer.
func NewLoggerWithWriter(w io.Writer) *Logger {
	return &Logger{w: w}
}

// SetNoColor disables color output.
func (l *Logger) SetNoColor(noColor bool) *Logger {
	l.noColor = noColor
	return l
}

// SetVerbose enables Skip-level output.
func (l *Logger) SetVerbose(verbose bool) *Logger {
	l.verbose = verbose
	return l
}

// Verbose reports whether Skip-level output is enabled.
func (l *Logger) Verbose() bool { return l.verbose }

// format applies automatic highlighting to args based on type.
func (l *Logger) format(format string, args ...any) string {
	highlighted := make([]any, len(args))
	for i, arg := range args {
		highlighted[i] = l.highlight(arg)
	}
	return fmt.Sprintf(format, highlighted...)
}

// highlight applies color based on argument type.
func (l *Logger) highlight(arg any) any {
	s, ok := arg.(string)
	if !ok {
		switch arg.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			if !l.noColor {
				return fmt.Sprintf("%s%v%s", colorYellow, arg, colorReset)
			}
		}
		return arg
	}
	// Highlight paths and dotted identifiers
	if strings.Contains(s, "/") || (strings.Contains(s, ".") && !strings.Contains(s, " ")) {
		if l.noColor {
			return fmt.Sprintf("'%s'", s)
		}
		return fmt.Sprintf("%s'%s'%s", colorMagenta, s, colorReset)
	}
	// Highlight PascalCase identifiers
	if !l.noColor && !strings.Contains(s, " ") && len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		return fmt.Sprintf("%s%s%s", colorCyan, s, colorReset)
	}
	return s
}

func (l *Logger) color(c string) string {
	if l.noColor {
		return ""
	}
	return c
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	_, _ = fmt.Fprintf(l.w, "%s  %s[INFO]%s %s\n", emojiInfo, l.color(colorBlue), l.color(colorReset), l.format(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	_, _ = fmt.Fprintf(l.w, "%s  %s[WARN]%s %s\n", emojiWarn, l.color(colorYellow), l.color(colorReset), l.format(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	_, _ = fmt.Fprintf(l.w, "%s %s[ERROR]%s %s\n", emojiError, l.color(colorRed), l.color(colorReset), l.format(format, args...))
}

// Done logs a completion message.
func (l *Logger) Done(format string, args ...any) {
	_, _ = fmt.Fprintf(l.w, "%s  %s[DONE]%s %s\n", emojiDone, l.color(colorGreen), l.color(colorReset), l.format(format, args...))
}

// Write logs a file write message.
func (l *Logger) Write(format string, args ...any) {
	_, _ = fmt.Fprintf(l.w, "%s %s[WRITE]%s %s\n", emojiWrite, l.color(colorGreen), l.color(colorReset), l.format(format, args...))
}

// Load logs a loading message.
func (l *Logger) Load(format string, args ...any) {
	_, _ = fmt.Fprintf(l.w, "%s  %s[LOAD]%s %s\n", emojiLoad, l.color(colorBlue), l.color(colorReset), l.format(format, args...))
}

// Skip logs a skipped-rule message, only in verbose mode.
func (l *Logger) Skip(format string, args ...any) {
	if !l.verbose {
		return
	}
	_, _ = fmt.Fprintf(l.w, "%s  %s[SKIP]%s %s\n", emojiSkip, l.color(colorGray), l.color(colorReset), l.format(format, args...))
}

// Item logs an indented item under the previous log entry.
func (l *Logger) Item(format string, args ...any) {
	_, _ = fmt.Fprintf(l.w, "           %s•%s %s\n", l.color(colorGray), l.color(colorReset), l.format(format, args...))
}
