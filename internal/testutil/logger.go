// Package testutil holds helpers shared by package tests.
package testutil

import (
	"log/slog"

	"github.com/dtroode/admissions-server/internal/logger"
)

// MakeNoopLogger returns a logger that discards every record.
func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.DiscardHandler)}
}
