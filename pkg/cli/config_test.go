package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "none"))
	xdg.Reload()

	assert.Equal(t, "", configFile("", dbRefsConfig))
	assert.Equal(t, "mine.yaml", configFile("mine.yaml", dbRefsConfig))

	path := filepath.Join(dir, dbRefsConfig)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("tcs: \"tc1:\"\n"), 0o644))
	assert.Equal(t, path, configFile("", dbRefsConfig))

	out, err := execute(t, "dbrefs", "--csv", "../dbrefs/testdata/ag_top.db")
	require.NoError(t, err)
	assert.Contains(t, out, "tc1:drives:azDemand,VAL\n")
}
