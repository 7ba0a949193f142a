// Package logger provides the logging surface used by the dspace client.
//
// The client only depends on [Logger]. [LogBuild] builds a zerolog-backed
// implementation writing JSON lines to a buffer, a file or stdout, and the
// [github.com/divinity/dspace.go/pkg/logger/slog] package adapts a log/slog handler.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// Logger is the structured logger the client writes to.
// args are alternating key/value pairs, as in log/slog.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

type LogBuild struct {
	writer     io.Writer
	path       string
	level      zerolog.Level
	LogChannel chan string
}

type LogData struct {
	writer     io.Writer
	LogFile    *os.File
	Logger     zerolog.Logger
	LogChannel chan string
}

func New() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

func (build *LogBuild) FromChannel(chn chan string) *LogBuild {
	build.LogChannel = chn
	return build
}

// WithLevel sets the minimum level. Unknown names fall back to info.
func (build *LogBuild) WithLevel(level string) *LogBuild {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	build.level = lvl
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	logData.writer = os.Stdout
	if build.writer != nil {
		logData.writer = build.writer
	}
	logData.LogChannel = build.LogChannel
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logData.writer = zerolog.SyncWriter(logData.LogFile)
	}
	logData.Logger = zerolog.New(logData.writer).Level(build.level).With().Timestamp().Logger()
	return
}

// Close releases the log file, if one was opened.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}

func (logData *LogData) Error(msg string, args ...any) {
	logData.emit(logData.Logger.Error(), msg, args)
}

func (logData *LogData) Warn(msg string, args ...any) {
	logData.emit(logData.Logger.Warn(), msg, args)
}

func (logData *LogData) Info(msg string, args ...any) {
	logData.emit(logData.Logger.Info(), msg, args)
}

func (logData *LogData) Debug(msg string, args ...any) {
	logData.emit(logData.Logger.Debug(), msg, args)
}

func (logData *LogData) emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 == len(args) {
			ev = ev.Interface("!BADKEY", args[i])
			break
		}
		switch v := args[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
	if logData.LogChannel != nil {
		select {
		case logData.LogChannel <- msg:
		default:
		}
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &LogData{Logger: zerolog.Nop()}
}
