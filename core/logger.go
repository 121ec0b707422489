package core

// Logger is any leveled logging service.
// Implementations may inspect args for well-known types (eg. an error to
// report with its stack trace, or a Principal to tag the event with).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
