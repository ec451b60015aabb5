package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withLogDir(t *testing.T, category Category) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(logDirEnvVar, dir)
	ResetForTests(category)
	t.Cleanup(func() { ResetForTests(category) })
	return dir
}

func TestNewComponentLogger_WritesFormattedLineToServiceLog(t *testing.T) {
	dir := withLogDir(t, CategoryService)

	logger := NewComponentLogger("optimizer")
	logger.Info("handled request", "request_id", "abc-123")
	require.NoError(t, logger.Close())

	contents, err := os.ReadFile(filepath.Join(dir, "tourflow-service.log"))
	require.NoError(t, err)
	line := string(contents)
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "optimizer")
	assert.Contains(t, line, "handled request")
	assert.Contains(t, line, "request_id=abc-123")
}

func TestNewHTTPLogger_WritesToSeparateFile(t *testing.T) {
	dir := withLogDir(t, CategoryHTTP)

	logger := NewHTTPLogger("router")
	logger.Warn("slow request")
	require.NoError(t, logger.Close())

	contents, err := os.ReadFile(filepath.Join(dir, "tourflow-http.log"))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "[WARN]")
}

func TestResolveLogLevel_FiltersBelowConfiguredLevel(t *testing.T) {
	dir := withLogDir(t, CategoryService)
	t.Setenv(logLevelEnvVar, "WARN")
	ResetForTests(CategoryService)

	logger := NewComponentLogger("optimizer")
	logger.Info("should be dropped")
	logger.Warn("should be kept")
	require.NoError(t, logger.Close())

	contents, err := os.ReadFile(filepath.Join(dir, "tourflow-service.log"))
	require.NoError(t, err)
	body := string(contents)
	assert.NotContains(t, body, "should be dropped")
	assert.Contains(t, body, "should be kept")
}

func TestLevel_StringNames(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "INFO", INFO.String())
	assert.Equal(t, "WARN", WARN.String())
	assert.Equal(t, "ERROR", ERROR.String())
}

func TestOrNop_ReturnsNopForNilLogger(t *testing.T) {
	assert.Equal(t, Nop, OrNop(nil))
}

func TestOrNop_ReturnsSuppliedLoggerWhenNonNil(t *testing.T) {
	dir := withLogDir(t, CategoryService)
	_ = dir
	logger := NewComponentLogger("x")

	assert.Equal(t, logger, OrNop(logger))
}

func TestNop_MethodsAreSafeNoOps(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop.Debug("x")
		Nop.Info("x")
		Nop.Warn("x")
		Nop.Error("x")
		assert.NoError(t, Nop.Close())
	})
}
