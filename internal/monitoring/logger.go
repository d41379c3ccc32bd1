package monitoring

import (
	"log"
	"time"

	"github.com/banshee-data/mapcluster/internal/timeutil"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Timed starts timing op against clock and returns a func that logs the
// elapsed time together with a short summary when the operation finishes.
func Timed(clock timeutil.Clock, op string) func(format string, v ...interface{}) {
	start := clock.Now()
	return func(format string, v ...interface{}) {
		elapsed := clock.Since(start).Round(time.Microsecond)
		Logf("[%s] "+format+" (%s)", append([]interface{}{op}, append(v, elapsed)...)...)
	}
}
