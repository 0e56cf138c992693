package logger_test

import (
	"log/slog"
	"testing"

	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearCIEnv blanks every CI detection variable so the handler under test
// behaves the same whether or not the suite itself runs in CI.
func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, envVar := range []string{
		"CI", "GITHUB_ACTIONS", "GITHUB_WORKSPACE",
		"GITLAB_CI", "CI_PROJECT_DIR",
		"JENKINS_URL", "TRAVIS", "CIRCLECI",
	} {
		t.Setenv(envVar, "")
	}
}

func TestCIHandlerMetadata(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_WORKSPACE", "/home/runner/work/task-api")
	t.Setenv("GITHUB_RUN_ID", "42")

	buf := &logger.TestLogBuffer{}
	log := slog.New(logger.NewCIHandler(buf, nil))

	log.Info("cache warmed")

	logger.AssertLogField(t, buf, "msg", "cache warmed")
	logger.AssertLogField(t, buf, "ci_provider", "github-actions")
	logger.AssertLogField(t, buf, "ci_run_id", "42")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "timestamp_nano")
}

func TestCIHandlerOutsideCI(t *testing.T) {
	clearCIEnv(t)

	buf := &logger.TestLogBuffer{}
	log := slog.New(logger.NewCIHandler(buf, nil))

	log.Info("no pipeline here")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "ci_provider")
}

func TestCIHandlerRespectsLevel(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("CI", "true")

	buf := &logger.TestLogBuffer{}
	log := slog.New(logger.NewCIHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Debug("filtered out")
	log.Warn("kept")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
}

func TestCIHandlerKeepsMetadataThroughDerivedLoggers(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("CI", "true")

	buf := &logger.TestLogBuffer{}
	log := slog.New(logger.NewCIHandler(buf, nil)).With(slog.String("component", "task_store"))

	log.Info("task created")

	logger.AssertLogField(t, buf, "component", "task_store")
	logger.AssertLogField(t, buf, "ci_provider", "unknown")
}

func TestCIHandlerAddsSourceInfo(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("CI", "true")

	buf := &logger.TestLogBuffer{}
	log := slog.New(logger.NewCIHandler(buf, &slog.HandlerOptions{AddSource: true}))

	log.Info("locating caller")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "source_file")
	assert.Contains(t, entries[0], "source_func")
}
