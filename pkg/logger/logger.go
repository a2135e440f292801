package logger

import (
	"log/slog"
	"os"
)

// Init installs the global slog logger with JSON output to stdout.
func Init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func fieldsToAttrs(fields map[string]interface{}) []any {
	attrs := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		attrs = append(attrs, key, value)
	}
	return attrs
}

func Info(event string, fields map[string]interface{}) {
	slog.Info(event, fieldsToAttrs(fields)...)
}

func InfoWithUser(userID, event string, fields map[string]interface{}) {
	attrs := append([]any{"user_id", userID}, fieldsToAttrs(fields)...)
	slog.Info(event, attrs...)
}

func Warn(event string, fields map[string]interface{}) {
	slog.Warn(event, fieldsToAttrs(fields)...)
}

func Error(event string, err error, fields map[string]interface{}) {
	attrs := fieldsToAttrs(fields)
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	slog.Error(event, attrs...)
}
