package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-desk/config"
)

func TestResolvePrefersEarlierSource(t *testing.T) {
	t.Setenv("REVIEW_DESK_TEST_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

	got, err := config.Resolve("REVIEW_DESK_TEST_KEY", config.EnvSource{}, config.FileSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)
}

func TestResolveFallsBackToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.txt")
	require.NoError(t, os.WriteFile(path, []byte("  secret-value \n"), 0o600))

	got, err := config.Resolve("REVIEW_DESK_UNSET_KEY", config.EnvSource{}, config.FileSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "secret-value", got)
}

func TestResolveExhaustionNamesAllSources(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.txt")

	_, err := config.Resolve("REVIEW_DESK_UNSET_KEY", config.EnvSource{}, config.FileSource{Path: missing})
	require.Error(t, err)

	var cm *config.ConfigurationMissing
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, "REVIEW_DESK_UNSET_KEY", cm.Key)
	assert.Contains(t, err.Error(), "env")
	assert.Contains(t, err.Error(), missing)
}
