package session

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/registry"
	"github.com/fyrsmithlabs/taskbridge/internal/workspace"
)

// autoDetectTTL is the freshness window for a cached auto-detection result
// before the workspace is re-probed.
const autoDetectTTL = 5 * time.Minute

// ResolutionError reports an unresolved or ambiguous tenant choice. It always
// enumerates valid choices so the caller can self-correct. Misrouting a call
// to the wrong tenant is the most dangerous failure mode in this adapter, so
// ambiguity is never resolved by guessing.
type ResolutionError struct {
	// Identifier is the caller-supplied identifier, empty when none was given.
	Identifier string
	// Ambiguous is set when the identifier matched more than one project.
	Ambiguous bool
	// Choices lists valid project display names.
	Choices []string
}

func (e *ResolutionError) Error() string {
	choices := strings.Join(e.Choices, ", ")
	switch {
	case e.Identifier != "" && e.Ambiguous:
		return fmt.Sprintf("project identifier %q is ambiguous; matching projects: %s", e.Identifier, choices)
	case e.Identifier != "":
		return fmt.Sprintf("no configured project matches %q; configured projects: %s", e.Identifier, choices)
	default:
		return fmt.Sprintf("multiple projects are configured and none is selected; switch to one of: %s", choices)
	}
}

// Resolver decides which configured tenant a tool call uses.
//
// Precedence: explicit identifier, then session selection, then workspace
// auto-detection, then the single-tenant implicit default. With multiple
// tenants and nothing resolved, resolution fails loudly.
type Resolver struct {
	registry *registry.Registry
	session  *Session
	detector workspace.Detector
	logger   *zap.Logger
	now      func() time.Time
}

// NewResolver creates a resolver. detector may be nil to disable
// auto-detection.
func NewResolver(reg *registry.Registry, sess *Session, detector workspace.Detector, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		registry: reg,
		session:  sess,
		detector: detector,
		logger:   logger,
		now:      time.Now,
	}
}

// Session returns the resolver's session.
func (r *Resolver) Session() *Session { return r.session }

// Resolve picks the tenant for a call. explicit, when non-empty, is looked up
// verbatim and wins over everything else.
func (r *Resolver) Resolve(explicit string) (registry.Definition, error) {
	if explicit != "" {
		return r.lookup(explicit)
	}

	key, auto, at := r.session.Snapshot()
	if key != "" && (!auto || r.now().Sub(at) < autoDetectTTL) {
		def, err := r.lookup(key)
		if err != nil {
			return registry.Definition{}, err
		}
		if auto {
			r.logger.Info("using auto-detected project",
				zap.String("project", def.Key), zap.Time("detected_at", at))
		}
		return def, nil
	}

	if def, ok := r.autoDetect(); ok {
		return def, nil
	}

	if r.registry.Len() == 1 {
		def := r.registry.Default()
		r.logger.Info("defaulting to sole configured project", zap.String("project", def.Key))
		return def, nil
	}

	return registry.Definition{}, &ResolutionError{Choices: r.registry.Names()}
}

// autoDetect probes the workspace and caches a successful unique match.
func (r *Resolver) autoDetect() (registry.Definition, bool) {
	if r.detector == nil {
		return registry.Definition{}, false
	}
	name, err := r.detector.Detect()
	if err != nil || name == "" {
		return registry.Definition{}, false
	}

	matches := r.registry.FindByIdentifier(name)
	if len(matches) != 1 {
		r.logger.Debug("workspace hint did not match exactly one project",
			zap.String("hint", name), zap.Int("matches", len(matches)))
		return registry.Definition{}, false
	}

	def := matches[0]
	r.session.SetAutoDetected(def.Key, r.now())
	r.logger.Info("auto-detected project from workspace",
		zap.String("project", def.Key), zap.String("hint", name))
	return def, true
}

// ResolutionSource reports where the tenant for a call came from, for display
// purposes. It mirrors the precedence of Resolve without re-probing the
// workspace; callers invoke it after a successful Resolve, so a fresh
// auto-detection is visible through the session snapshot.
func (r *Resolver) ResolutionSource(explicit string) string {
	if explicit != "" {
		return "explicit"
	}
	key, auto, at := r.session.Snapshot()
	if key != "" && (!auto || r.now().Sub(at) < autoDetectTTL) {
		if auto {
			return "auto-detected"
		}
		return "session"
	}
	if r.registry.Len() == 1 {
		return "default"
	}
	return "unknown"
}

// SwitchProject selects a project for the session by identifier. On failure
// the session is untouched and the error enumerates valid choices.
func (r *Resolver) SwitchProject(identifier string) (registry.Definition, error) {
	def, err := r.lookup(identifier)
	if err != nil {
		return registry.Definition{}, err
	}
	r.session.Select(def.Key)
	r.logger.Info("switched project", zap.String("project", def.Key))
	return def, nil
}

// lookup resolves an identifier to exactly one project or fails with the
// valid choices.
func (r *Resolver) lookup(identifier string) (registry.Definition, error) {
	matches := r.registry.FindByIdentifier(identifier)
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return registry.Definition{}, &ResolutionError{Identifier: identifier, Choices: r.registry.Names()}
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return registry.Definition{}, &ResolutionError{Identifier: identifier, Ambiguous: true, Choices: names}
	}
}
