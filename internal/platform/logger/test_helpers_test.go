package logger_test

import (
	"testing"

	"github.com/phrazzld/vitals/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestLogBuffer(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	_, err := buf.Write([]byte("test message"))
	require.NoError(t, err)
	assert.Equal(t, "test message", buf.String())

	buf.Reset()
	assert.Empty(t, buf.String())
}

func TestTestLogBuffer_GetLogEntries(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	_, _ = buf.Write([]byte(`{"level":"INFO","msg":"one"}` + "\n\n" + `{"level":"WARN","msg":"two"}` + "\n"))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[1]["level"])

	buf.Reset()
	_, _ = buf.Write([]byte("not json\n"))
	_, err = buf.GetLogEntries()
	assert.Error(t, err)
}

func TestGetTestLogger(t *testing.T) {
	t.Parallel()

	l, buf := logger.GetTestLogger(t)
	l.Debug("debug message", "component", "probe")

	logger.AssertLogContains(t, buf, "debug message")
	logger.AssertLogField(t, buf, "component", "probe")
}

func TestNewLogCaptureContext(t *testing.T) {
	t.Parallel()

	ctx, buf := logger.NewLogCaptureContext(t)
	logger.FromContext(ctx).Warn("from context")

	logger.AssertLogField(t, buf, "level", "WARN")
	logger.AssertLogContains(t, buf, "from context")
}
