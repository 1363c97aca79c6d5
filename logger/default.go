package logger

var defLogger = newSlog(InfoLevel, false)

// Debug logs to the package default logger at DebugLevel.
func Debug(msg string, keysAndValues ...any) {
	defLogger.Debug(msg, keysAndValues...)
}

// Info logs to the package default logger at InfoLevel.
func Info(msg string, keysAndValues ...any) {
	defLogger.Info(msg, keysAndValues...)
}

// Warn logs to the package default logger at WarnLevel.
func Warn(msg string, keysAndValues ...any) {
	defLogger.Warn(msg, keysAndValues...)
}

// Error logs to the package default logger at ErrorLevel.
func Error(msg string, keysAndValues ...any) {
	defLogger.Error(msg, keysAndValues...)
}

// SetLevel sets the minimum enabled level of the package default logger.
func SetLevel(level Level) {
	defLogger.SetLevel(level)
}

// GetLogger returns the package default logger.
func GetLogger() Logger {
	return defLogger
}

// With returns a child of the default logger with context attached.
func With(keysAndValues ...any) Logger {
	return defLogger.With(keysAndValues...)
}
