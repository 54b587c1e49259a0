package tmi

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// newLogger binds the "[MiniTwitch:Irc-<username-or-Anonymous>]" component
// spec.md §6 requires onto a zerolog.Logger. Grounded on the pack's
// websocket-client examples, which bind a component field once at
// construction rather than re-deriving a prefix per log call.
func newLogger(username string, anonymous bool, w zerolog.Logger) zerolog.Logger {
	tag := username
	if anonymous {
		tag = "Anonymous"
	}
	return w.With().Str("component", "MiniTwitch:Irc-"+tag).Logger()
}

// defaultWriter returns a human-readable console writer, matching the
// pack's convention of defaulting to console output and letting callers
// swap in a JSON sink (zerolog.New(os.Stdout)) for production.
func defaultWriter() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// logCritical logs at zerolog's Error level tagged as critical, since
// zerolog has no distinct non-fatal "critical" level.
func logCritical(l zerolog.Logger) *zerolog.Event {
	return l.Error().Bool("critical", true)
}

// redactAuth returns s with any oauth: bearer token value replaced, so
// credential-bearing frames never leak into logs when requested. Applied
// to every transport log message before it reaches a log sink; PASS is
// sent with suppressLog=true and is not logged at all.
func redactAuth(s string, hide bool) string {
	if !hide {
		return s
	}
	idx := strings.Index(s, "oauth:")
	if idx == -1 {
		return s
	}
	end := strings.IndexAny(s[idx:], " \r\n")
	if end == -1 {
		return s[:idx] + "oauth:***"
	}
	return s[:idx] + "oauth:***" + s[idx+end:]
}
