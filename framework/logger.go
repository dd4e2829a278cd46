package framework

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal interface used for per-test debug output.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger accumulates debug messages for a single test, so they can be shown
// only if the console test logger decides they are wanted.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}

// DebugLoggerFor returns a Logger that writes to the debug level of the given ldlog
// loggers. It is used for output that is not associated with any one test, such as the
// setup and teardown steps of a run.
func DebugLoggerFor(loggers ldlog.Loggers) Logger {
	if !loggers.IsDebugEnabled() {
		return NullLogger()
	}
	return ldlogDebugLogger{loggers: loggers}
}

type ldlogDebugLogger struct {
	loggers ldlog.Loggers
}

func (l ldlogDebugLogger) Printf(message string, args ...interface{}) {
	l.loggers.Debugf(message, args...)
}
