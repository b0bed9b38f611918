package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"voicenotes/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func TestGormLoggerAdapterLevels(t *testing.T) {
	originalLogger := log
	defer func() { log = originalLogger }()

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)

	adapter := NewGormLoggerAdapter(logger.Warn)
	adapter.Info(context.Background(), "info should be suppressed")
	adapter.Warn(context.Background(), "warn should appear")
	adapter.Error(context.Background(), "error should appear")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("first entry level = %v, want warn", entries[0].Level)
	}
}

func TestGormLoggerAdapterTrace(t *testing.T) {
	originalLogger := log
	defer func() { log = originalLogger }()

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)

	adapter := NewGormLoggerAdapterWithConfig(logger.Info, &GormLoggerConfig{
		SlowThreshold: time.Second,
	})
	begin := time.Now()
	adapter.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM voice_notes", 3
	}, nil)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["sql"] != "SELECT * FROM voice_notes" {
		t.Errorf("sql field = %v", fields["sql"])
	}
	if fields["rows"] != int64(3) {
		t.Errorf("rows field = %v", fields["rows"])
	}
}

func TestGormLoggerAdapterTraceError(t *testing.T) {
	originalLogger := log
	defer func() { log = originalLogger }()

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)

	adapter := NewGormLoggerAdapter(logger.Error)
	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "UPDATE voice_notes SET status = ?", 0
	}, errors.New("deadlock"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("entry level = %v, want error", entries[0].Level)
	}
}

func TestGormLoggerAdapterIgnoresRecordNotFound(t *testing.T) {
	originalLogger := log
	defer func() { log = originalLogger }()

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)

	adapter := NewGormLoggerAdapterWithConfig(logger.Error, &GormLoggerConfig{
		IgnoreRecordNotFoundError: true,
	})
	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM voice_notes WHERE id = ?", 0
	}, logger.ErrRecordNotFound)

	if logs.Len() != 0 {
		t.Errorf("entries = %d, want 0 for ignored record-not-found", logs.Len())
	}
}

func TestGormLoggerAdapterRequestIDFromContext(t *testing.T) {
	originalLogger := log
	defer func() { log = originalLogger }()

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	adapter := NewGormLoggerAdapterWithConfig(logger.Info, &GormLoggerConfig{})
	adapter.Info(ctx, "query with request id")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ContextMap()["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", entries[0].ContextMap()["request_id"])
	}
}
