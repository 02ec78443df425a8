// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different
// environments (development vs production). Sync passes attach a run_id
// field via WithRun so every log line of one pass can be correlated with
// its journal row and archived report; the report server attaches a
// per-request ray_id via WithRayID.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log = logger.WithRun(log, runID)
//	log.Info("starting sync pass")
package logger
