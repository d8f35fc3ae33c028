// Package workspace probes the local environment for a project hint used by
// auto-detection: a workspace descriptor file first, the git origin remote as
// a fallback.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-git/go-git/v5"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// ErrNotDetected indicates no descriptor and no usable git remote was found.
var ErrNotDetected = errors.New("no workspace project detected")

// maxDescriptorSize caps descriptor files; a workspace hint is a few lines.
const maxDescriptorSize = 64 * 1024

// Detector yields a free-form project identifier for the local workspace.
type Detector interface {
	Detect() (string, error)
}

// Prober is the default Detector. It checks a small fixed set of descriptor
// locations, then falls back to the git origin remote's repository name.
type Prober struct {
	dir    string
	logger *zap.Logger
}

// NewProber creates a prober rooted at dir (the working directory when empty).
func NewProber(dir string, logger *zap.Logger) *Prober {
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{dir: dir, logger: logger}
}

// Detect returns the declared or derived project identifier, or ErrNotDetected.
func (p *Prober) Detect() (string, error) {
	for _, path := range p.candidates() {
		name, err := readDescriptor(path)
		if err != nil {
			p.logger.Warn("skipping unreadable workspace descriptor",
				zap.String("path", path), zap.Error(err))
			continue
		}
		if name != "" {
			p.logger.Debug("workspace descriptor found",
				zap.String("path", path), zap.String("project", name))
			return name, nil
		}
	}

	if name := gitRepoName(p.dir); name != "" {
		p.logger.Debug("workspace derived from git remote", zap.String("project", name))
		return name, nil
	}

	return "", ErrNotDetected
}

// candidates returns descriptor paths in probe order: the workspace directory
// and its parent, then the user config directory.
func (p *Prober) candidates() []string {
	names := []string{".taskbridge.yaml", ".taskbridge.toml"}
	dirs := []string{p.dir}
	if parent := filepath.Dir(p.dir); parent != p.dir {
		dirs = append(dirs, parent)
	}

	var out []string
	for _, d := range dirs {
		for _, n := range names {
			out = append(out, filepath.Join(d, n))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".config", "taskbridge", "workspace.yaml"))
	}
	return out
}

// descriptor is the workspace descriptor shape. Only the project field is
// read; unknown keys are ignored.
type descriptor struct {
	Project string `koanf:"project" toml:"project"`
}

// readDescriptor parses path if it exists and returns the declared project
// name. A missing file returns ("", nil).
func readDescriptor(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if info.Size() > maxDescriptorSize {
		return "", fmt.Errorf("descriptor too large: %d bytes", info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var d descriptor
	switch filepath.Ext(path) {
	case ".toml":
		if err := toml.Unmarshal(data, &d); err != nil {
			return "", fmt.Errorf("parse toml: %w", err)
		}
	default:
		k := koanf.New(".")
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return "", fmt.Errorf("parse yaml: %w", err)
		}
		if err := k.Unmarshal("", &d); err != nil {
			return "", fmt.Errorf("unmarshal descriptor: %w", err)
		}
	}
	return strings.TrimSpace(d.Project), nil
}

// gitRepoName derives a project hint from the origin remote of the git
// repository containing dir. Returns "" when dir is not in a repository or
// the remote is unusable.
func gitRepoName(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return repoNameFromURL(urls[0])
}

// repoNameFromURL extracts the repository name from an SSH or HTTPS remote
// URL, e.g. git@host:org/widget.git -> widget.
func repoNameFromURL(u string) string {
	u = strings.TrimSuffix(u, ".git")
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndexAny(u, "/:"); i >= 0 {
		u = u[i+1:]
	}
	return u
}
