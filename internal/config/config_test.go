package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory so no .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.GetServerURL())
	assert.Equal(t, DefaultDevListen, cfg.DevServer.Listen)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadYAMLAndTOML(t *testing.T) {
	dir := isolate(t)

	yamlFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(`
version: 1.2.0
server_url: pivo.example.com:8080
timeout: 15s
log_level: debug
dev_server:
  listen: 127.0.0.1:7000
  allowed_origins: [http://console.pivo.test]
`), 0o600))
	cfg, err := Load(yamlFile)
	require.NoError(t, err)
	assert.Equal(t, "http://pivo.example.com:8080/api", cfg.ServerURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:7000", cfg.DevServer.Listen)
	assert.Equal(t, []string{"http://console.pivo.test"}, cfg.DevServer.AllowedOrigins)

	tomlFile := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(tomlFile, []byte(`
version = "1.0.0"
server_url = "https://api.pivo.example.com/v2/api/"
timeout = "2m"

[dev_server]
admin_email = "root@pivo.test"
`), 0o600))
	cfg, err = Load(tomlFile)
	require.NoError(t, err)
	assert.Equal(t, "https://api.pivo.example.com/v2/api", cfg.ServerURL)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, "root@pivo.test", cfg.DevServer.AdminEmail)
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server_url: http://file.example/api\n"), 0o600))

	t.Setenv("PIVO_SERVER_URL", "http://env.example:9000")
	t.Setenv("PIVO_TIMEOUT", "3s")
	t.Setenv("PIVO_DEV_LISTEN", "0.0.0.0:8081")
	t.Setenv("PIVO_DEV_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example:9000/api", cfg.ServerURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "0.0.0.0:8081", cfg.DevServer.Listen)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.DevServer.AllowedOrigins)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PIVO_LOG_LEVEL=error\nPIVO_TIMEOUT=9s\n"), 0o600))
	t.Setenv("PIVO_LOG_LEVEL", "info")
	t.Setenv("PIVO_TIMEOUT", "")
	os.Unsetenv("PIVO_TIMEOUT")

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 9*time.Second, cfg.Timeout)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"not a url", func(c *Config) { c.ServerURL = "::" }, "ServerURL"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "Timeout"},
		{"bad listen", func(c *Config) { c.DevServer.Listen = "nowhere" }, "Listen"},
		{"bad admin email", func(c *Config) { c.DevServer.AdminEmail = "root" }, "AdminEmail"},
		{"future format", func(c *Config) { c.Version = "2.0.0" }, "not supported"},
		{"garbage version", func(c *Config) { c.Version = "one" }, "Version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	dir := isolate(t)
	for _, name := range []string{"out/config.yaml", "out/config.toml"} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(dir, name)
			cfg := Default()
			cfg.ServerURL = "https://pivo.example.com/api"
			cfg.Timeout = 30 * time.Second
			require.NoError(t, cfg.WriteConfig(file))

			info, err := os.Stat(file)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			got, err := Load(file)
			require.NoError(t, err)
			assert.Equal(t, cfg.ServerURL, got.ServerURL)
			assert.Equal(t, cfg.Timeout, got.Timeout)
			assert.Equal(t, ConfigFormatVersion, got.Version)
		})
	}
	assert.Error(t, Default().WriteConfig(""))
}

func TestMorphServer(t *testing.T) {
	tests := map[string]string{
		"":                               "",
		"localhost:5000":                 "http://localhost:5000/api",
		"http://localhost:5000/":         "http://localhost:5000/api",
		"https://pivo.example.com/api//": "https://pivo.example.com/api",
		"https://pivo.example.com/v1":    "https://pivo.example.com/v1",
		" pivo.example.com ":             "http://pivo.example.com/api",
	}
	for in, want := range tests {
		assert.Equal(t, want, MorphServer(in), "input %q", in)
	}
}
