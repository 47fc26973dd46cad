package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped, leveled lines to w, e.g.
//
//	14:32:01.45 INFO generating best-of list document=projects.yaml projects=120
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch times one stage of a command.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

func (s stopwatch) elapsed() time.Duration {
	return time.Since(s.start).Round(time.Millisecond)
}

// stop logs msg at info level with keyvals and the elapsed time as "took".
func (s stopwatch) stop(msg string, keyvals ...any) {
	s.logger.Info(msg, append(keyvals, "took", s.elapsed())...)
}
