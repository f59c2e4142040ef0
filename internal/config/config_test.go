package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"CONFIG", "DATABASE_PATH", "PROFILES_DIR", "PROFILES_DEFAULT", "BROWSER_ENGINE", "BROWSER_HEADLESS"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		os.Unsetenv(EnvPrefix + "_" + key)
	}
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	c, err := Load(Options{EnvFile: filepath.Join(home, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local", "share", "focusnav", "capabilities.db"), c.Database.Path)
	assert.Equal(t, "chromium", c.Browser.Engine)
	assert.True(t, c.Browser.Headless)
	assert.Empty(t, c.Profiles.Dir)
	assert.Empty(t, c.Profiles.Default)
}

func TestLoad_DefaultConfigLocation(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "focusnav")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
profiles:
  default: firefox52
browser:
  engine: webkit
  headless: false
`), 0o644))

	c, err := Load(Options{EnvFile: filepath.Join(home, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "firefox52", c.Profiles.Default)
	assert.Equal(t, "webkit", c.Browser.Engine)
	assert.False(t, c.Browser.Headless)
}

func TestLoad_ExplicitFileAndEnvOverride(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "focusnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: /tmp/from-file.db\n"), 0o644))
	t.Setenv("FOCUSNAV_CONFIG", path)
	t.Setenv("FOCUSNAV_PROFILES_DIR", "/etc/focusnav/profiles")

	c, err := Load(Options{EnvFile: filepath.Join(home, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-file.db", c.Database.Path)
	assert.Equal(t, "/etc/focusnav/profiles", c.Profiles.Dir)

	t.Setenv("FOCUSNAV_DATABASE_PATH", "/tmp/from-env.db")
	c, err = Load(Options{EnvFile: filepath.Join(home, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", c.Database.Path)
}

func TestLoad_EnvFile(t *testing.T) {
	home := isolate(t)
	envFile := filepath.Join(home, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FOCUSNAV_PROFILES_DEFAULT=ie11\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FOCUSNAV_PROFILES_DEFAULT") })

	c, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "ie11", c.Profiles.Default)
}

func TestLoad_Errors(t *testing.T) {
	home := isolate(t)
	missingEnv := filepath.Join(home, "missing.env")

	_, err := Load(Options{ConfigFile: filepath.Join(home, "nope.yaml"), EnvFile: missingEnv})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	bad := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("browser:\n  engine: netscape\n"), 0o644))
	_, err = Load(Options{ConfigFile: bad, EnvFile: missingEnv})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser.engine")
}
