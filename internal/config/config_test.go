package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExistsIn(t *testing.T) {
	t.Run("empty search paths mark a first run", func(t *testing.T) {
		dir := t.TempDir()
		require.False(t, existsIn([]string{dir}))
	})

	t.Run("a config file in any search path counts", func(t *testing.T) {
		empty := t.TempDir()
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("backend:\n  url: http://localhost:8080\n"), 0644))

		require.True(t, existsIn([]string{empty, dir}))
	})
}
