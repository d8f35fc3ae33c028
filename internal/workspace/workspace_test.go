package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDetect_YAMLDescriptor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".taskbridge.yaml"),
		[]byte("project: payments\n"), 0644))

	name, err := NewProber(dir, zap.NewNop()).Detect()
	require.NoError(t, err)
	assert.Equal(t, "payments", name)
}

func TestDetect_TOMLDescriptor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".taskbridge.toml"),
		[]byte("project = \"mobile\"\n"), 0644))

	name, err := NewProber(dir, zap.NewNop()).Detect()
	require.NoError(t, err)
	assert.Equal(t, "mobile", name)
}

func TestDetect_YAMLBeforeTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".taskbridge.yaml"),
		[]byte("project: from-yaml\n"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".taskbridge.toml"),
		[]byte("project = \"from-toml\"\n"), 0644))

	name, err := NewProber(dir, zap.NewNop()).Detect()
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", name)
}

func TestDetect_ParentDirectory(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "service")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(parent, ".taskbridge.yaml"),
		[]byte("project: monorepo\n"), 0644))

	name, err := NewProber(dir, zap.NewNop()).Detect()
	require.NoError(t, err)
	assert.Equal(t, "monorepo", name)
}

func TestDetect_MalformedDescriptorSkipped(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "service")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".taskbridge.toml"),
		[]byte("project = not quoted"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(parent, ".taskbridge.yaml"),
		[]byte("project: fallback\n"), 0644))

	name, err := NewProber(dir, zap.NewNop()).Detect()
	require.NoError(t, err)
	assert.Equal(t, "fallback", name)
}

func TestDetect_NothingFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := NewProber(t.TempDir(), zap.NewNop()).Detect()
	assert.ErrorIs(t, err, ErrNotDetected)
}

func TestRepoNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"git@github.com:acme/widget.git", "widget"},
		{"https://github.com/acme/widget.git", "widget"},
		{"https://github.com/acme/widget", "widget"},
		{"https://github.com/acme/widget/", "widget"},
		{"ssh://git@host/team/payments.git", "payments"},
		{"widget", "widget"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, repoNameFromURL(tt.url))
		})
	}
}
