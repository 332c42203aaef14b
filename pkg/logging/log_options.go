package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type LogFormat string

const (
	LogFormatJson LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogOutput string

const (
	LogOutputStdout LogOutput = "stdout"
	LogOutputStderr LogOutput = "stderr"
)

type LogOptions struct {
	format LogFormat
	level  logrus.Level
	output LogOutput
}

type LogOption func(*LogOptions)

func WithJsonFormat() LogOption {
	return func(lo *LogOptions) { lo.format = LogFormatJson }
}

func WithLogFormat(format LogFormat) LogOption {
	switch format {
	case LogFormatText, LogFormatJson:
	default: // unknown formats fall back to text
		format = LogFormatText
	}
	return func(lo *LogOptions) { lo.format = format }
}

func WithLogLevel(level string) LogOption {
	return func(lo *LogOptions) { lo.level = parseLogLevel(level) }
}

func WithLogOutputAsStdout() LogOption {
	return func(lo *LogOptions) { lo.output = LogOutputStdout }
}

// The CLI prints results on stdout, so logs default to stderr.
func defaultLogOpts() *LogOptions {
	return &LogOptions{
		format: LogFormatText,
		level:  logrus.WarnLevel,
		output: LogOutputStderr,
	}
}

func (lf LogFormat) LogrusFormat() logrus.Formatter {
	if lf == LogFormatJson {
		return &logrus.JSONFormatter{CallerPrettyfier: prettier}
	}
	return &logrus.TextFormatter{
		DisableColors:    true,
		CallerPrettyfier: prettier,
	}
}

func (lo LogOutput) Writer() io.Writer {
	if lo == LogOutputStdout {
		return os.Stdout
	}
	return os.Stderr
}
