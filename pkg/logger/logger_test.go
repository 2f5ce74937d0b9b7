package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogger(t *testing.T, format Format) (Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log := NewWithConfig(Config{
		Name:   "test-service",
		Format: format,
		Level:  slog.LevelDebug,
		Writer: buf,
	})
	return log, buf
}

func TestNew_Success(t *testing.T) {
	log := New("test-package")

	assert.NotNil(t, log)
	assert.IsType(t, &SlogLogger{}, log)
}

func TestNewWithConfig_WritesJSON(t *testing.T) {
	log, buf := captureLogger(t, FormatJSON)

	log.Info("hello", "key", "value")

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "test-service", entry["package"])
}

func TestNewWithConfig_TextFormat(t *testing.T) {
	log, buf := captureLogger(t, FormatText)

	log.Info("plain message")

	assert.Contains(t, buf.String(), "plain message")
	assert.Contains(t, buf.String(), "package=test-service")
}

func TestNewWithContext_ExtractsTraceID(t *testing.T) {
	log, buf := captureLogger(t, FormatJSON)

	ctx := ContextWithTraceID(context.Background(), "trace-123")
	log.TraceFromContext(ctx).Info("traced message")

	assert.Contains(t, buf.String(), "traced message")
	assert.Contains(t, buf.String(), "trace-123")
}

func TestNewWithContext_NoTraceID(t *testing.T) {
	log := NewWithContext(context.Background(), "test-service")

	assert.NotNil(t, log)
	assert.IsType(t, &SlogLogger{}, log)
}

func TestTraceIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestChainMethods(t *testing.T) {
	log, buf := captureLogger(t, FormatJSON)

	log.File("job.controller.go").Function("CreateJob").With("jobID", "42").Info("chained")

	out := buf.String()
	assert.Contains(t, out, "job.controller.go")
	assert.Contains(t, out, "CreateJob")
	assert.Contains(t, out, "jobID")
}

func TestError_ReturnsMessage(t *testing.T) {
	log, _ := captureLogger(t, FormatJSON)

	err := log.Error("something broke")

	assert.Error(t, err)
	assert.Equal(t, "something broke", err.Error())
}

func TestErrorWithType_WrapsSentinel(t *testing.T) {
	log, _ := captureLogger(t, FormatJSON)
	sentinel := errors.New("not found")

	err := log.ErrorWithType(sentinel, "filament missing", "id", "abc")

	assert.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "filament missing")
}

func TestErr_PassesThroughError(t *testing.T) {
	log, buf := captureLogger(t, FormatJSON)
	original := errors.New("db down")

	err := log.Err("query failed", original)

	assert.Equal(t, original, err)
	assert.Contains(t, buf.String(), "db down")
}

func TestTimer_Functionality(t *testing.T) {
	log, buf := captureLogger(t, FormatJSON)

	done := log.Timer("aggregate inventory")
	done()

	assert.Contains(t, buf.String(), "Timer Completed")
	assert.Contains(t, buf.String(), "aggregate inventory")
}
