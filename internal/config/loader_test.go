package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/taskbridge/internal/registry"
)

const minimalProjects = `
projects:
  - name: Payments Platform
    key: payments
    api_key: sk-test
    project_id: p1
`

// writeConfig drops a config file at ~/.config/taskbridge/config.yaml under a
// throwaway HOME and returns its path.
func writeConfig(t *testing.T, content string, perm os.FileMode) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "taskbridge")
	require.NoError(t, os.MkdirAll(dir, 0700))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	path := writeConfig(t, minimalProjects, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 9190, cfg.Server.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "https://aitistra.com/api", cfg.SimpleTask.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.SimpleTask.RequestTimeout.Duration())
	assert.Equal(t, float64(10), cfg.SimpleTask.RequestsPerSecond)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
	require.Len(t, cfg.Projects, 1)
	assert.Equal(t, "payments", cfg.Projects[0].Key)
}

func TestLoadWithFile_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 8099
simpletask:
  base_url: https://staging.example.com/api
  request_timeout: 45s
logging:
  level: debug
  format: console
`+minimalProjects, 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8099, cfg.Server.HTTPPort)
	assert.Equal(t, "https://staging.example.com/api", cfg.SimpleTask.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.SimpleTask.RequestTimeout.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
simpletask:
  base_url: https://from-file.example.com
`+minimalProjects, 0600)
	t.Setenv("SIMPLETASK_BASE_URL", "https://from-env.example.com")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.com", cfg.SimpleTask.BaseURL)
}

func TestLoadWithFile_InsecurePermissionsRejected(t *testing.T) {
	path := writeConfig(t, minimalProjects, 0644)

	_, err := LoadWithFile(path)
	assert.ErrorContains(t, err, "insecure config file permissions")
}

func TestLoadWithFile_PathOutsideAllowedDirs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	outside := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(outside, []byte(minimalProjects), 0600))

	_, err := LoadWithFile(outside)
	assert.ErrorContains(t, err, "config file must be in")
}

func TestLoadWithFile_ProjectsFileAppended(t *testing.T) {
	projectsPath := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(projectsPath, []byte(
		`[{"name": "Mobile App", "projectName": "mobile", "apiKey": "sk-2", "projectId": "p2"}]`), 0600))

	path := writeConfig(t, minimalProjects+"\nprojects_file: "+projectsPath+"\n", 0600)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 2)
	assert.Equal(t, "mobile", cfg.Projects[1].Key)
}

func TestLoadWithFile_NoProjects(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n", 0600)

	_, err := LoadWithFile(path)
	assert.ErrorIs(t, err, registry.ErrNoProjects)
}

func TestLoadWithFile_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// No config file exists, projects cannot come from anywhere.
	_, err := LoadWithFile("")
	assert.ErrorIs(t, err, registry.ErrNoProjects)
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{HTTPPort: 9190},
			SimpleTask: SimpleTaskConfig{BaseURL: "https://api.example.com"},
			Logging:    LoggingConfig{Level: "info", Format: "json"},
			Projects: []registry.Definition{
				{Name: "P", Key: "p", APIKey: "k", ProjectID: "id"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port out of range", func(c *Config) { c.Server.HTTPPort = 70000 }, "http_port out of range"},
		{"missing base url", func(c *Config) { c.SimpleTask.BaseURL = "" }, "base_url is required"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "text" }, "logging.format"},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Protocol = "grpc"
		}, "telemetry.endpoint"},
		{"telemetry bad protocol", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = "localhost:4317"
			c.Telemetry.Protocol = "udp"
		}, "telemetry.protocol"},
		{"invalid project entry", func(c *Config) { c.Projects[0].APIKey = "" }, "missing api key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
