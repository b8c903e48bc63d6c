package logging

// Field is a single structured log attribute.
type Field struct {
	Key   string
	Value any
}

// Logger is the logging contract shared by every component. Constructors take
// a Logger and scope it with With() so log lines carry their component name.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger that includes the given fields on every line.
	With(fields ...Field) Logger
}
