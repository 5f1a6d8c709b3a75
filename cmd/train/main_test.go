package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

func writeConfig(t *testing.T, dir, model string) string {
	t.Helper()
	body := fmt.Sprintf(`data:
  kind: iris
split:
  test_size: 0.2
  random_state: 42
model:
  name: %s
  max_iter: 1000
artifacts_dir: %s
logging:
  dir: %s
  level: info
`, model, filepath.Join(dir, "artifacts"), filepath.Join(dir, "logs"))
	path := filepath.Join(dir, "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", writeConfig(t, dir, "logistic_regression")}, &stdout, &stderr)

	require.Equal(t, errors.ExitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "Train OK: {\"accuracy\":")
	assert.FileExists(t, filepath.Join(dir, "artifacts", "model.gob"))

	logs, err := filepath.Glob(filepath.Join(dir, "logs", "train_*.log"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestRun_UnknownModel(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", writeConfig(t, dir, "random_forest")}, &stdout, &stderr)

	assert.Equal(t, errors.ExitConfiguration, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "model.name")
	assert.NoDirExists(t, filepath.Join(dir, "logs"), "no log file for a rejected configuration")
	assert.NoDirExists(t, filepath.Join(dir, "artifacts"))
}

func TestRun_MissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}, &stdout, &stderr)

	assert.Equal(t, errors.ExitConfiguration, code)
	assert.Contains(t, stderr.String(), "train:")
}
