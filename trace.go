package argon2

import (
	"encoding/hex"
	"os"

	"go.uber.org/zap"
)

// debugEnabled controls whether hex tracing is enabled via ARGON2_DEBUG env var.
var debugEnabled = os.Getenv("ARGON2_DEBUG") == "1"

// traceLogger is used where no Hasher logger is in scope.
var traceLogger = newTraceLogger()

func newTraceLogger() *zap.Logger {
	if !debugEnabled {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// traceBytes logs data in hex with a descriptive name.
func traceBytes(log *zap.Logger, name string, data []byte) {
	if !debugEnabled {
		return
	}
	log.Debug("trace",
		zap.String("name", name),
		zap.Int("len", len(data)),
		zap.String("hex", hex.EncodeToString(data)))
}

// compareTrace reports whether expected and actual match, logging a
// mismatch when tracing is enabled.
func compareTrace(log *zap.Logger, stage, expected, actual string) bool {
	match := expected == actual
	if debugEnabled && !match {
		log.Debug("trace mismatch",
			zap.String("stage", stage),
			zap.String("expected", expected),
			zap.String("actual", actual))
	}
	return match
}
