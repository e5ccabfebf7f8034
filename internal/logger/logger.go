package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"StackSnap/internal/console"
	"StackSnap/internal/paths"
	"StackSnap/internal/version"
)

// Custom log levels
const (
	LevelTrace  = slog.Level(-8)
	LevelDebug  = slog.LevelDebug
	LevelInfo   = slog.Level(-2)
	LevelNotice = slog.LevelInfo
	LevelWarn   = slog.LevelWarn
	LevelError  = slog.LevelError
	LevelFatal  = slog.Level(12)
)

// LevelVar allows dynamic changing of the console log level
var LevelVar = new(slog.LevelVar)

// FileLevelVar allows dynamic changing of the log file level
var FileLevelVar = new(slog.LevelVar)

// logFile is the open application log, closed by Cleanup
var logFile *os.File

func init() {
	LevelVar.Set(LevelNotice)
	FileLevelVar.Set(LevelInfo)
}

// SetLevel sets the console level. The file level follows downward so
// debug runs are fully captured in the log file, but never rises above Info.
func SetLevel(level slog.Level) {
	LevelVar.Set(level)
	if level < LevelInfo {
		FileLevelVar.Set(level)
	} else {
		FileLevelVar.Set(LevelInfo)
	}
}

// resolveMsg flattens any supported message type to a string
func resolveMsg(msg any) string {
	switch v := msg.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	case []any:
		var parts []string
		for _, item := range v {
			parts = append(parts, resolveMsg(item))
		}
		return strings.Join(parts, "\n")
	default:
		return fmt.Sprint(v)
	}
}

func log(ctx context.Context, level slog.Level, msg any, args ...any) {
	logAt(ctx, time.Now(), level, msg, args...)
}

// logAt handles message resolution, printf-style formatting, tag parsing
// and multi-line splitting before handing records to the default handler.
func logAt(ctx context.Context, t time.Time, level slog.Level, msg any, args ...any) {
	h := slog.Default().Handler()
	if !h.Enabled(ctx, level) {
		return
	}

	msgStr := resolveMsg(msg)
	if len(args) > 0 && strings.Contains(msgStr, "%") {
		msgStr = fmt.Sprintf(msgStr, args...)
		args = nil
	}
	msgStr = console.Parse(msgStr)

	if !strings.Contains(msgStr, "\n") {
		r := slog.NewRecord(t, level, msgStr+reset(), 0)
		r.Add(args...)
		_ = h.Handle(ctx, r)
		return
	}

	// Reset on every line to prevent color bleed into the next timestamp
	lines := strings.Split(msgStr, "\n")
	for i, line := range lines {
		r := slog.NewRecord(t, level, line+reset(), 0)
		if i == 0 {
			r.Add(args...)
		}
		_ = h.Handle(ctx, r)
	}
}

func reset() string {
	if console.IsTTY() {
		return console.CodeReset
	}
	return ""
}

// NewLogger builds the application logger: a colored console handler on
// stderr fanned out with a plain-text append-mode file handler in the
// state directory.
func NewLogger() *slog.Logger {
	wStderr := os.Stderr

	stat, _ := wStderr.Stat()
	isTTY := (stat.Mode() & os.ModeCharDevice) != 0

	var (
		ansiReset  string
		ansiBlue   string
		ansiGreen  string
		ansiYellow string
		ansiRed    string
		ansiRedBg  string
	)

	if isTTY {
		ansiReset = console.CodeReset
		ansiBlue = console.CodeBlue
		ansiGreen = console.CodeGreen
		ansiYellow = console.CodeYellow
		ansiRed = console.CodeRed
		ansiRedBg = console.CodeRedBg + console.CodeWhite
	}

	levelTag := func(level slog.Level, colored bool) string {
		var color, name string
		switch level {
		case LevelTrace:
			color, name = ansiBlue, "[TRACE ]"
		case LevelDebug:
			color, name = ansiBlue, "[DEBUG ]"
		case LevelInfo:
			color, name = ansiBlue, "[INFO  ]"
		case LevelNotice:
			color, name = ansiGreen, "[NOTICE]"
		case LevelWarn:
			color, name = ansiYellow, "[WARN  ]"
		case LevelError:
			color, name = ansiRed, "[ERROR ]"
		case LevelFatal:
			color, name = ansiRedBg, "[FATAL ]"
		default:
			return "[" + level.String() + "]"
		}
		if !colored {
			return name + "  "
		}
		return color + name + ansiReset + "  "
	}

	replaceAttrConsole := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			a.Value = slog.StringValue(levelTag(a.Value.Any().(slog.Level), true))
		}
		return a
	}

	consoleHandler := tint.NewHandler(wStderr, &tint.Options{
		Level:       LevelVar,
		TimeFormat:  "2006-01-02 15:04:05",
		NoColor:     !isTTY,
		ReplaceAttr: replaceAttrConsole,
	})

	handlers := []slog.Handler{consoleHandler}

	// Append so the log survives across runs; rotation of the log itself
	// is left to the host (logrotate or similar).
	logFilePath := paths.GetLogFilePath()
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err == nil {
		wFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			logFile = wFile

			replaceAttrFile := func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.LevelKey {
					a.Value = slog.StringValue(levelTag(a.Value.Any().(slog.Level), false))
				}
				if a.Key == slog.MessageKey {
					a.Value = slog.StringValue(console.StripANSI(a.Value.String()))
				}
				return a
			}

			fileHandler := tint.NewHandler(wFile, &tint.Options{
				Level:       FileLevelVar,
				TimeFormat:  "2006-01-02 15:04:05",
				NoColor:     true,
				ReplaceAttr: replaceAttrFile,
			})
			handlers = append(handlers, fileHandler)
		}
	}

	return slog.New(&FanoutHandler{handlers: handlers})
}

// Cleanup flushes and closes the application log file.
func Cleanup() {
	if logFile != nil {
		_ = logFile.Sync()
		_ = logFile.Close()
		logFile = nil
	}
}

// FanoutHandler broadcasts records to multiple handlers
type FanoutHandler struct {
	handlers []slog.Handler
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: newHandlers}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &FanoutHandler{handlers: newHandlers}
}

// Global helpers for custom levels that don't satisfy standard slog methods
func Trace(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelTrace, msg, args...)
}

func Debug(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelDebug, msg, args...)
}

func Info(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelInfo, msg, args...)
}

func Notice(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelNotice, msg, args...)
}

func Warn(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelWarn, msg, args...)
}

func Error(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelError, msg, args...)
}

// Display writes a parsed message straight to stdout, bypassing log
// levels and prefixes. Used for report tables and user-facing output.
func Display(ctx context.Context, msg any, args ...any) {
	msgStr := resolveMsg(msg)
	if len(args) > 0 && strings.Contains(msgStr, "%") {
		msgStr = fmt.Sprintf(msgStr, args...)
	}
	fmt.Println(console.Parse(msgStr))
}

func getSystemInfo() []string {
	var info []string

	info = append(info, fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", version.ApplicationName, version.Version))
	info = append(info, "")

	executable, _ := os.Executable()
	info = append(info, fmt.Sprintf("Currently running as: %s (PID %d)", executable, os.Getpid()))
	info = append(info, "")

	info = append(info, fmt.Sprintf("ARCH:             %s", runtime.GOARCH))
	info = append(info, fmt.Sprintf("OS:               %s", runtime.GOOS))

	base := filepath.Base(executable)
	dir := filepath.Dir(executable)
	info = append(info, fmt.Sprintf("SCRIPTPATH:       %s", dir))
	info = append(info, fmt.Sprintf("SCRIPTNAME:       %s", base))
	info = append(info, "")

	currentUser, err := user.Current()
	if err == nil {
		info = append(info, fmt.Sprintf("DETECTED_PUID:    %s", currentUser.Uid))
		info = append(info, fmt.Sprintf("DETECTED_UNAME:   %s", currentUser.Username))
		info = append(info, fmt.Sprintf("DETECTED_GID:     %s", currentUser.Gid))
		info = append(info, fmt.Sprintf("DETECTED_HOMEDIR: %s", currentUser.HomeDir))
	} else {
		info = append(info, fmt.Sprintf("User Info Error: %v", err))
	}

	return info
}

// Fatal logs a message at FatalLevel with system info and a stack trace,
// then panics with FatalError so the main run loop can clean up and exit.
func Fatal(ctx context.Context, msg any, args ...any) {
	fatalWithStackSkip(ctx, 2, msg, args...)
}

// FatalWithStackSkip is Fatal with extra stack frames skipped, for use
// inside recovery helpers.
func FatalWithStackSkip(ctx context.Context, skip int, msg any, args ...any) {
	fatalWithStackSkip(ctx, skip+2, msg, args...)
}

func fatalWithStackSkip(ctx context.Context, skip int, msg any, args ...any) {
	now := time.Now()

	pc := make([]uintptr, 32)
	n := runtime.Callers(skip, pc)
	frames := runtime.CallersFrames(pc[:n])

	var infoLines []string
	for _, i := range getSystemInfo() {
		if i != "" {
			infoLines = append(infoLines, "  "+i)
		} else {
			infoLines = append(infoLines, "")
		}
	}

	var allFrames []runtime.Frame
	for {
		frame, more := frames.Next()
		allFrames = append(allFrames, frame)
		if !more {
			break
		}
	}

	var traceLines []string
	maxIndex := len(allFrames) - 1
	width := len(fmt.Sprintf("%d", maxIndex))

	wd, _ := os.Getwd()

	// Iterate in reverse: main (last) at the top, the failing frame at the bottom
	indent := ""
	for i := len(allFrames) - 1; i >= 0; i-- {
		frame := allFrames[i]

		if wd != "" {
			if rel, err := filepath.Rel(wd, frame.File); err == nil {
				if !strings.HasPrefix(rel, "..") && !strings.HasPrefix(rel, string(filepath.Separator)) {
					frame.File = "./" + filepath.ToSlash(rel)
				}
			}
		}

		suffix := ""
		arrowIndent := indent
		if i < len(allFrames)-1 {
			suffix = "└>"
			if len(indent) >= 2 {
				arrowIndent = indent[:len(indent)-2]
			}
		}

		fmtStr := fmt.Sprintf("{{_TraceFrameNumber_}}%%%dd{{|-|}}: %%s{{_TraceFrameLines_}}%%s{{|-|}}{{_TraceSourceFile_}}%%s{{|-|}}:{{_TraceLineNumber_}}%%d{{|-|}} ({{_TraceFunction_}}%%s{{|-|}})", width)

		line := fmt.Sprintf(
			fmtStr,
			i,
			arrowIndent,
			suffix,
			frame.File,
			frame.Line,
			filepath.Base(frame.Function),
		)

		traceLines = append(traceLines, "  "+line)
		indent += "  "
	}

	output := []any{
		"{{_TraceHeader_}}### BEGIN SYSTEM INFORMATION AND STACK TRACE ###{{|-|}}",
		infoLines,
		"",
		traceLines,
		"{{_TraceFooter_}}### END SYSTEM INFORMATION AND STACK TRACE ###{{|-|}}",
		"",
		msg,
		"",
		fmt.Sprintf("{{_FatalFooter_}}Details have been appended to {{|-|}}'{{_File_}}%s{{|-|}}'{{_FatalFooter_}}.{{|-|}}", paths.GetLogFilePath()),
	}

	logAt(ctx, now, LevelFatal, output, args...)

	panic(FatalError{})
}

// FatalNoTrace logs a message at FatalLevel without a stack trace and exits
func FatalNoTrace(ctx context.Context, msg any, args ...any) {
	logAt(ctx, time.Now(), LevelFatal, msg, args...)
	panic(FatalError{})
}

// FatalError is the sentinel panic value raised by Fatal logger calls.
// The main run loop recovers it, performs cleanup and exits non-zero.
type FatalError struct{}
