package app

import (
	"log/slog"
	"os"

	"shipment-tracker/internal/logx"
)

// NewLogger returns the process logger: JSON lines on stdout.
func NewLogger() logx.Logger {
	base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return logx.NewSlogAdapter(base).With(logx.String("service", "shipment-tracker"))
}
