// Package host is the narrow boundary through which the engine reaches
// the untrusted side of the process. The engine never touches the
// system clock, a logger, or stdout directly; it delegates through the
// interfaces below so that a deployment can interpose whatever runtime
// mediation it needs.
package host

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Clock reports the current wall-clock second. Resolution is seconds;
// callers needing a finer ordering must sequence on their own.
type Clock interface {
	Now() int64
}

// LogSink receives best-effort diagnostic messages from the engine.
type LogSink interface {
	Log(msg string)
}

// Printer forwards raw text to stdout. Used by internal trace prints.
type Printer interface {
	Print(msg string)
}

// SystemClock reads the process wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// ZerologSink routes engine diagnostics into the process logger.
type ZerologSink struct{}

func (ZerologSink) Log(msg string) {
	log.Info().Str("origin", "engine").Msg(msg)
}

// StdoutPrinter writes trace text straight to stdout, unformatted.
type StdoutPrinter struct{}

func (StdoutPrinter) Print(msg string) {
	fmt.Print(msg)
}
