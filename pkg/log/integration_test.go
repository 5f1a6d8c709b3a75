package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

func TestTestLogger_Levels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", fmt.Errorf("test error"), "error_code", "TEST_ERROR")

	require.NotEmpty(t, buffer.String())
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, testLogger.ContainsMessage(msg), msg)
	}

	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0)) // JSON numbers decode as float64
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "test error"))
	assert.True(t, testLogger.ContainsField("error_code", "TEST_ERROR"))
}

func TestTestLogger_With(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "logistic_regression",
		RunIDKey, "run-001",
	)
	contextLogger.Info("contextual message", OperationKey, OperationFit)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "logistic_regression"))
	assert.True(t, testLogger.ContainsField(RunIDKey, "run-001"))
	assert.True(t, testLogger.ContainsField(OperationKey, OperationFit))
}

func TestTestLogger_Enabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZerologLogger_StructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf, LevelInfo)
	logger := provider.GetLoggerWithName("train").With(RunIDKey, "abc")

	logger.Debug("hidden")
	logger.Info("Dataset loaded", SamplesKey, 150, FeaturesKey, 4)
	logger.Error("Training failed", errors.NewDataError("target", "column missing"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "debug must be filtered at info level")

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "Dataset loaded", info["message"])
	assert.Equal(t, "train", info[ComponentKey])
	assert.Equal(t, "abc", info[RunIDKey])
	assert.Equal(t, 150.0, info[SamplesKey])

	var failure map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failure))
	assert.Contains(t, failure[ErrAttrKey], "column missing")
	detail, ok := failure[ErrorDetailKey].(map[string]interface{})
	require.True(t, ok, "typed errors must be rendered as objects")
	assert.Equal(t, "DataError", detail["type"])
	assert.Equal(t, "target", detail["field"])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestSink_WritesFileAndConsole(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	sink, err := NewSink(SinkConfig{
		Dir:     dir,
		Name:    "train",
		Level:   LevelInfo,
		Console: &console,
		Now:     func() time.Time { return stamp },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "train_20260102_030405.log"), sink.Path())

	sink.Logger().Info("Starting training pipeline", ConfigPathKey, "config/train.yaml")
	errors.Warn(errors.NewConvergenceWarning("LogisticRegression", 10, ""))
	require.NoError(t, sink.Close())

	content, err := os.ReadFile(sink.Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"Starting training pipeline"`)
	assert.Contains(t, string(content), `"ConvergenceWarning"`, "warnings must reach the sink while it is open")
	assert.Contains(t, console.String(), "Starting training pipeline")
}

func TestSetupLogger_AddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, LevelInfo)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	logger.Error("evaluation failed", ErrAttr(errors.NewArtifactNotFoundError("artifacts/model.gob", nil)))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "evaluation failed", entry["message"])
	assert.Contains(t, entry, StacktraceAttrKey)
}

func TestTestLoggerProvider(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelInfo)

	provider.GetLoggerWithName("evaluate").Info("named")
	assert.True(t, provider.logger.ContainsField(ComponentKey, "evaluate"))

	provider.SetLevel(LevelError)
	provider.GetLogger().Info("suppressed")
	assert.False(t, provider.logger.ContainsMessage("suppressed"))
}
