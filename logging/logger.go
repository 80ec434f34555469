// Package logging wires up the structured logger shared by the cache
// facade, the eviction engine, and the migrator.
package logging

import (
	"io"

	"github.com/phuslu/log"
)

// CreateDebugLogger returns a console logger at debug level, for demos
// and tests that want to see every eviction/migration decision.
func CreateDebugLogger() *log.Logger {
	return &log.Logger{
		Level:  log.DebugLevel,
		Caller: 0,
		Writer: &log.ConsoleWriter{
			ColorOutput:    false,
			EndWithMessage: true,
		},
	}
}

// Discard returns a logger that drops everything. It is the default
// wired into a CacheDescriptor when the caller supplies no logger,
// so the package has no logging dependency at the call site.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.DebugLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}
