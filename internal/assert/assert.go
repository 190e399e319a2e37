// Package assert checks programmer contracts.
//
// A violated contract panics in builds tagged glcanvasdebug. Other builds
// log the violation at Warn level and carry on; what happens next is
// unspecified.
package assert

import (
	"fmt"
	"log/slog"
)

// Enabled reports whether violations panic.
const Enabled = enabled

// That reports cond. When cond is false it panics in debug builds and
// otherwise logs msg and args on log.
func That(log *slog.Logger, cond bool, msg string, args ...any) bool {
	if cond {
		return true
	}
	if enabled {
		panic(fmt.Sprint(append([]any{"glcanvas: contract violation: ", msg, " "}, args...)...))
	}
	log.Warn("contract violation: "+msg, args...)
	return false
}
