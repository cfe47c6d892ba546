// Package logging implements the process-wide log sink: initialised once,
// on the first call that observes an enabling environment condition
// (the GET_SCRIPT_DIR / GET_UWSC_NAME environment variables).
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/uwscr/uwscr-core/internal/settings"
)

var (
	once   sync.Once
	sink   *log.Logger
	writer io.Writer = io.Discard
)

// Init sets up the sink according to kind. It is safe to call more than
// once; only the first call takes effect, matching the "initialised once"
// rule — later calls are no-ops so that a thread spawned mid-script
// doesn't re-point the sink out from under the main evaluator.
func Init(kind settings.LogFileKind, dir, title string) {
	once.Do(func() {
		switch kind {
		case settings.LogNone:
			writer = io.Discard
		case settings.LogStdout:
			writer = os.Stdout
		default:
			writer = openLogFile(dir, title)
		}
		sink = log.New(writer, "", log.LstdFlags)
	})
}

func openLogFile(dir, title string) io.Writer {
	if dir == "" {
		dir = "."
	}
	name := title
	if name == "" {
		name = "uwscr"
	}
	path := filepath.Join(dir, name+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return os.Stderr
	}
	return f
}

// InitFromEnv initialises the sink from the environment:
// GET_SCRIPT_DIR (log directory) and GET_UWSC_NAME (log title). It is
// the "first call that observes an enabling environment condition" the
// evaluator's Run method triggers.
func InitFromEnv(kind settings.LogFileKind) {
	dir, title := os.Getenv("GET_SCRIPT_DIR"), os.Getenv("GET_UWSC_NAME")
	if dir == "" && title == "" {
		return
	}
	Init(kind, dir, title)
}

// Writer exposes the sink's underlying writer, e.g. for builtins that want
// to write raw text (LOGPRINT-style builtins).
func Writer() io.Writer { return writer }

// Errorf logs a formatted error-level line, or writes it to stderr when
// the sink was never initialised. Thread panics and thread errors funnel
// through here; errors returned from the evaluator's Run are not logged
// by Run itself.
func Errorf(format string, args ...any) {
	if sink == nil {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
		return
	}
	sink.Printf(format, args...)
}

// Infof logs an info-level line whenever the sink is initialised. It does
// not check the LogFileKind itself: Init routes the writer to io.Discard
// only for LogNone, so restricting info lines to LogFileAndInfo is left
// to the caller checking settings before calling this.
func Infof(format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Printf(format, args...)
}
