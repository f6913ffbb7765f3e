package logger

import (
	"fmt"
	"log"
	"os"
)

// StdErrLogger - logs to stderr, for tools whose stdout is data
type StdErrLogger struct {
	logLevel LogLevel
	errLog   *log.Logger
}

func (l *StdErrLogger) Printf(level LogLevel, format string, a ...interface{}) {
	if l.errLog == nil {
		l.errLog = log.New(os.Stderr, "", log.LstdFlags)
	}
	l.errLog.Println(logLevelPrefix[level] + ": " + fmt.Sprintf(format, a...))
}
func (l *StdErrLogger) Debugf(format string, a ...interface{}) {
	if l.logLevel <= LogDebug {
		l.Printf(LogDebug, format, a...)
	}
}
func (l *StdErrLogger) Infof(format string, a ...interface{}) {
	if l.logLevel <= LogInfo {
		l.Printf(LogInfo, format, a...)
	}
}
func (l *StdErrLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}

func (l *StdErrLogger) SetLogLevel(level LogLevel) {
	l.logLevel = level
}
