package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Suffixes of rollback counterparts: a script fixture "products.php" is
// undone by a sibling "products_rollback.php", a callable fixture "seedCart"
// by a method "seedCartRollback".
const (
	rollbackFileSuffix   = "_rollback"
	rollbackMethodSuffix = "Rollback"
)

// Invoker executes fixture side effects
type Invoker interface {
	ExecuteScript(path string) error
	InvokeMethod(class, method string) error
}

// ModuleResolver resolves a PHP module name to its directory
type ModuleResolver interface {
	Resolve(module string) (string, bool)
}

// Reinitializer resets ambient application state at the start of a test
type Reinitializer interface {
	Reinitialize() error
}

// CacheInvalidator drops a named cache at the end of a test
type CacheInvalidator interface {
	Invalidate(name string) error
}

// Options holds the manager's collaborators. Reinit and Cache may be nil;
// Invoker and Modules must be set for apply and module-path resolution to
// work (a resolve-only manager for dry runs can leave Invoker nil).
type Options struct {
	Invoker   Invoker
	Modules   ModuleResolver
	Reinit    Reinitializer
	Cache     CacheInvalidator
	CacheName string
}

// Manager applies declared fixtures before a test runs and reverts them
// afterward. It keeps an ordered log of applied fixtures so reverts happen in
// reverse apply order and duplicate declarations apply once.
//
// A Manager serves one test at a time; each worker owns its own instance.
type Manager struct {
	baseDir string
	opts    Options

	applied []Reference
	current TestMeta
}

// NewManager creates a Manager resolving relative fixture ids against
// baseDir. The directory must exist.
func NewManager(baseDir string, opts Options) (*Manager, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("fixture base directory %q: %v", baseDir, err)}
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("fixture base directory does not exist: %s", abs)}
	}
	return &Manager{baseDir: abs, opts: opts}, nil
}

// OnTestStart resets ambient state and applies the test's declared fixtures.
// Method-scope fixtures win; class-scope fixtures are used only when the
// method declares none. A failed apply aborts immediately.
func (m *Manager) OnTestStart(meta TestMeta) error {
	if m.opts.Reinit != nil {
		if err := m.opts.Reinit.Reinitialize(); err != nil {
			return fmt.Errorf("reinitialize application state: %w", err)
		}
	}

	m.current = meta

	ids := meta.MethodFixtures
	if len(ids) == 0 {
		ids = meta.ClassFixtures
	}

	refs := make([]Reference, 0, len(ids))
	for _, id := range ids {
		ref, err := m.resolveReference(id, meta)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	for _, ref := range refs {
		if m.isApplied(ref) {
			continue
		}
		if err := m.applyOne(ref); err != nil {
			return err
		}
	}

	return nil
}

// OnTestEnd reverts all applied fixtures and clears the log. The metadata
// cache is invalidated exactly once, even when revert failed, so stale
// metadata cannot leak into the next test.
func (m *Manager) OnTestEnd() (err error) {
	defer func() {
		if m.opts.Cache == nil {
			return
		}
		if cerr := m.opts.Cache.Invalidate(m.opts.CacheName); cerr != nil && err == nil {
			err = fmt.Errorf("invalidate %s cache: %w", m.opts.CacheName, cerr)
		}
	}()

	return m.revertAll()
}

// Applied returns the fixtures applied so far, in apply order
func (m *Manager) Applied() []Reference {
	out := make([]Reference, len(m.applied))
	copy(out, m.applied)
	return out
}

// resolveReference turns a declared identifier into a Reference. An id naming
// a zero-argument method on the test class becomes a callable; anything else
// stays a path, resolved later at apply time. Backslashes are rejected before
// any file I/O to keep declarations portable.
func (m *Manager) resolveReference(id string, meta TestMeta) (Reference, error) {
	if strings.Contains(id, `\`) {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("fixture %q contains a forbidden directory separator, use forward slashes", id)}
	}
	if meta.ZeroArgMethods[id] {
		return CallableReference{Class: meta.Class, Method: id}, nil
	}
	return PathReference{ID: id}, nil
}

// applyOne executes one fixture and records it in the applied log. Failures
// are wrapped with the fixture's identity and propagate to the caller.
func (m *Manager) applyOne(ref Reference) error {
	var err error
	switch r := ref.(type) {
	case CallableReference:
		err = m.opts.Invoker.InvokeMethod(r.Class, r.Method)
	case PathReference:
		var path string
		path, err = m.ResolvePath(r.ID)
		if err == nil {
			err = m.opts.Invoker.ExecuteScript(path)
		}
	default:
		err = fmt.Errorf("unknown fixture reference %T", ref)
	}

	if err != nil {
		return &ExecutionError{Fixture: ref.Describe(), Err: err}
	}

	m.applied = append(m.applied, ref)
	return nil
}

// ResolvePath resolves a fixture identifier to a path, trying in order: the
// id as-is, the id under the base directory, and Module::relative/path via
// the module resolver.
func (m *Manager) ResolvePath(id string) (string, error) {
	if fileExists(id) {
		return id, nil
	}

	if p := filepath.Join(m.baseDir, id); fileExists(p) {
		return p, nil
	}

	parts := strings.SplitN(id, "::", 2)
	if len(parts) < 2 {
		return "", &NotFoundError{ID: id, Reason: "no such file and not a Module::path identifier"}
	}
	if m.opts.Modules == nil {
		return "", &NotFoundError{ID: id, Reason: "no module resolver configured"}
	}
	modulePath, ok := m.opts.Modules.Resolve(parts[0])
	if !ok {
		return "", &NotFoundError{ID: id, Reason: fmt.Sprintf("unknown module %q", parts[0])}
	}
	return filepath.Join(modulePath, parts[1]), nil
}

// RollbackArtifact returns the rollback counterpart for a reference, if one
// exists: the "_rollback" sibling file for a script, the "Rollback"-suffixed
// method for a callable. Rollbacks are opportunistic.
func (m *Manager) RollbackArtifact(ref Reference) (Reference, bool) {
	switch r := ref.(type) {
	case CallableReference:
		rollback := r.Method + rollbackMethodSuffix
		if m.current.ZeroArgMethods[rollback] {
			return CallableReference{Class: r.Class, Method: rollback}, true
		}
	case PathReference:
		path, err := m.ResolvePath(r.ID)
		if err != nil {
			return nil, false
		}
		ext := filepath.Ext(path)
		sibling := strings.TrimSuffix(path, ext) + rollbackFileSuffix + ext
		if fileExists(sibling) {
			return PathReference{ID: sibling}, true
		}
	}
	return nil, false
}

// revertAll applies rollback artifacts for logged fixtures in reverse apply
// order, then clears the log. Rollbacks run through applyOne, so they append
// to the log themselves; the unconditional clear at the end makes that
// harmless and must stay last.
func (m *Manager) revertAll() error {
	defer func() {
		m.applied = nil
	}()

	entries := m.applied
	for i := len(entries) - 1; i >= 0; i-- {
		rollback, ok := m.RollbackArtifact(entries[i])
		if !ok {
			continue
		}
		if err := m.applyOne(rollback); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) isApplied(ref Reference) bool {
	for _, applied := range m.applied {
		if applied == ref {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
