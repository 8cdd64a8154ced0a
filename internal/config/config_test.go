package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, 30, d.MaxIterations)
	assert.Equal(t, 200000, d.MaxNodes)
	assert.Equal(t, Fine, d.Rules)
}

func TestLoad_MergesOnlyProvidedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_iterations: 5\nrules: coarse\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, d.MaxIterations, "provided field overrides the default")
	assert.Equal(t, Coarse, d.Rules)
	assert.Equal(t, 200000, d.MaxNodes, "unset field keeps the default")
	assert.Equal(t, 2048, int(d.MemoryCapMiB))
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_iterations: [this is not an int\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyFlags_OverridesNonZeroFieldsOnly(t *testing.T) {
	d := Default()
	d.ApplyFlags(10, 0, 0, 0, Coarse)

	assert.Equal(t, 10, d.MaxIterations)
	assert.Equal(t, 200000, d.MaxNodes, "zero flag value leaves the config's value untouched")
	assert.Equal(t, Coarse, d.Rules)
}
