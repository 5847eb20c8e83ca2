package stm

import "io"
import "os"
import "fmt"
import "time"
import "strings"

// Logger interface for integrating region logging with application
// logging. Applications can supply a logger object implementing this
// interface; otherwise gostm falls back to defaultLogger{}.
type Logger interface {
	SetLogLevel(string)
	Fatalf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}

type logLevel int

const (
	logLevelIgnore logLevel = iota + 1
	logLevelFatal
	logLevelError
	logLevelWarn
	logLevelInfo
	logLevelDebug
)

var log Logger = &defaultLogger{level: logLevelInfo, output: os.Stdout}

// SetLogger integrates region logging with application logging. If
// logger is nil, a defaultLogger is installed using settings["log.level"]
// and settings["log.file"].
func SetLogger(logger Logger, setts map[string]interface{}) Logger {
	if logger != nil {
		log = logger
		return log
	}

	var err error
	level := logLevelInfo
	if val, ok := setts["log.level"]; ok {
		level = string2logLevel(val.(string))
	}
	logfd := os.Stdout
	if val, ok := setts["log.file"]; ok && val != nil {
		if logfile, ok := val.(string); ok && len(logfile) > 0 {
			logfd, err = os.OpenFile(logfile, os.O_RDWR|os.O_APPEND, 0660)
			if err != nil {
				if logfd, err = os.Create(logfile); err != nil {
					panic(err)
				}
			}
		}
	}
	log = &defaultLogger{level: level, output: logfd}
	return log
}

type defaultLogger struct {
	level  logLevel
	output io.Writer
}

func (l *defaultLogger) SetLogLevel(level string) {
	l.level = string2logLevel(level)
}

func (l *defaultLogger) Fatalf(format string, v ...interface{}) {
	l.printf(logLevelFatal, format, v...)
}

func (l *defaultLogger) Errorf(format string, v ...interface{}) {
	l.printf(logLevelError, format, v...)
}

func (l *defaultLogger) Warnf(format string, v ...interface{}) {
	l.printf(logLevelWarn, format, v...)
}

func (l *defaultLogger) Infof(format string, v ...interface{}) {
	l.printf(logLevelInfo, format, v...)
}

func (l *defaultLogger) Debugf(format string, v ...interface{}) {
	l.printf(logLevelDebug, format, v...)
}

func (l *defaultLogger) printf(level logLevel, format string, v ...interface{}) {
	if level <= l.level {
		ts := time.Now().Format("2006-01-02T15:04:05.999Z-07:00")
		fmt.Fprintf(l.output, ts+" ["+level.String()+"] "+format, v...)
	}
}

func (l logLevel) String() string {
	switch l {
	case logLevelIgnore:
		return "Ignor"
	case logLevelFatal:
		return "Fatal"
	case logLevelError:
		return "Error"
	case logLevelWarn:
		return "Warng"
	case logLevelInfo:
		return "Infom"
	case logLevelDebug:
		return "Debug"
	}
	panic("unexpected log level")
}

func string2logLevel(s string) logLevel {
	switch strings.ToLower(s) {
	case "ignore":
		return logLevelIgnore
	case "fatal":
		return logLevelFatal
	case "error":
		return logLevelError
	case "warn":
		return logLevelWarn
	case "info":
		return logLevelInfo
	case "debug":
		return logLevelDebug
	}
	panic("unexpected log level")
}
