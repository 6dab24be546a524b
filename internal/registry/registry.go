// internal/registry/registry.go
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/UniBinary/TextVault/internal/apperr"
	"github.com/UniBinary/TextVault/internal/archive"
	"github.com/UniBinary/TextVault/internal/fsutil"
)

const (
	vaultsFile  = "vaults.json"
	currentFile = "current.txt"
	defaultName = "default"
)

// Vault is one named vault directory.
type Vault struct {
	Name string
	Path string
}

// Registry tracks the named vaults under one base directory, along with
// which of them is current. The mapping lives in vaults.json; the current
// selection is a separate two line pointer file so that switching vaults
// never rewrites the mapping.
type Registry struct {
	baseDir string
	vaults  map[string]string
	logger  *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes pointer repair warnings to the given logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New opens the registry rooted at baseDir. On first use it seeds a
// "default" vault inside the base directory but selects nothing.
func New(baseDir string, opts ...Option) (*Registry, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, apperr.IOFailure("resolving base directory", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, apperr.IOFailure("creating base directory", err)
	}

	r := &Registry{
		baseDir: abs,
		vaults:  map[string]string{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Add registers name at path, creating the directory when missing.
func (r *Registry) Add(name, path string) error {
	if name == "" {
		return apperr.InvalidSpec("vault name must not be empty")
	}
	if _, ok := r.vaults[name]; ok {
		return apperr.AlreadyExists("vault %q already exists", name)
	}
	abs, err := normalizePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return apperr.IOFailure("creating vault directory", err)
	}
	// Registered paths are stored symlink-free.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	r.vaults[name] = abs
	return r.save()
}

// Remove unregisters name, leaving its directory on disk. A removed vault
// that was current leaves nothing selected.
func (r *Registry) Remove(name string) error {
	if _, ok := r.vaults[name]; !ok {
		return apperr.NotFound("vault %q does not exist", name)
	}
	if err := r.clearCurrentIf(name); err != nil {
		return err
	}
	delete(r.vaults, name)
	return r.save()
}

// Delete unregisters name and removes its directory tree from disk.
func (r *Registry) Delete(name string) error {
	path, ok := r.vaults[name]
	if !ok {
		return apperr.NotFound("vault %q does not exist", name)
	}
	if err := r.Remove(name); err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return apperr.IOFailure("removing vault directory", err)
	}
	return nil
}

// Switch makes name the current vault.
func (r *Registry) Switch(name string) error {
	path, ok := r.vaults[name]
	if !ok {
		return apperr.NotFound("vault %q does not exist", name)
	}
	if !fsutil.Exists(path) {
		return apperr.PathMissing("vault %q points at %s, which is gone", name, path)
	}
	return r.writeCurrent(name, path)
}

// List returns the vault name to path mapping.
func (r *Registry) List() map[string]string {
	out := make(map[string]string, len(r.vaults))
	for name, path := range r.vaults {
		out[name] = path
	}
	return out
}

// Current returns the selected vault, or nil when nothing is selected. A
// pointer naming a vault that has since been unregistered counts as nothing
// selected and is cleared on the way out; the mapping owns the path, so a
// stale path line is rewritten rather than believed.
func (r *Registry) Current() (*Vault, error) {
	data, err := os.ReadFile(r.currentPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.IOFailure("reading current vault pointer", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines[0] == "" {
		return nil, nil
	}
	name := lines[0]

	path, ok := r.vaults[name]
	if !ok {
		r.logger.Warn("current vault is no longer registered, clearing the pointer",
			zap.String("vault", name))
		if err := r.clearCurrent(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if len(lines) < 2 || lines[1] != path {
		if err := r.writeCurrent(name, path); err != nil {
			return nil, err
		}
	}
	return &Vault{Name: name, Path: path}, nil
}

// Dump writes the named vault's directory tree to a zip archive at target.
func (r *Registry) Dump(name, target string) error {
	path, ok := r.vaults[name]
	if !ok {
		return apperr.NotFound("vault %q does not exist", name)
	}
	if !fsutil.Exists(path) {
		return apperr.PathMissing("vault %q points at %s, which is gone", name, path)
	}
	abs, err := normalizePath(target)
	if err != nil {
		return err
	}
	return archive.Dump(path, abs)
}

// Import extracts archivePath to targetPath and registers the result as a
// new vault named after the target's base name. When that name is taken the
// registered name gets a _1, _2, ... suffix instead of failing. It returns
// the name the vault was registered under.
func (r *Registry) Import(archivePath, targetPath string) (string, error) {
	src, err := normalizePath(archivePath)
	if err != nil {
		return "", err
	}
	target, err := normalizePath(targetPath)
	if err != nil {
		return "", err
	}

	extracted, err := archive.Import(src, target)
	if err != nil {
		return "", err
	}

	name := r.freeName(filepath.Base(extracted))
	r.vaults[name] = extracted
	if err := r.save(); err != nil {
		return "", err
	}
	return name, nil
}

func (r *Registry) freeName(base string) string {
	if _, ok := r.vaults[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, ok := r.vaults[candidate]; !ok {
			return candidate
		}
	}
}

func (r *Registry) vaultsPath() string {
	return filepath.Join(r.baseDir, vaultsFile)
}

func (r *Registry) currentPath() string {
	return filepath.Join(r.baseDir, currentFile)
}

func (r *Registry) load() error {
	err := fsutil.LoadJSON(r.vaultsPath(), &r.vaults)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First use: seed a default vault. Unlike a file index, the mapping
		// cannot be rebuilt from disk, so it is only ever created here.
		r.vaults = map[string]string{defaultName: filepath.Join(r.baseDir, defaultName)}
		if err := os.MkdirAll(r.vaults[defaultName], 0o755); err != nil {
			return apperr.IOFailure("creating default vault", err)
		}
		return r.save()
	case err != nil:
		return apperr.IOFailure("reading vault registry", err)
	case r.vaults == nil:
		r.vaults = map[string]string{}
	}
	return nil
}

func (r *Registry) save() error {
	if err := fsutil.SaveJSON(r.vaultsPath(), r.vaults); err != nil {
		return apperr.IOFailure("persisting vault registry", err)
	}
	return nil
}

func (r *Registry) writeCurrent(name, path string) error {
	content := []byte(name + "\n" + path + "\n")
	if err := fsutil.WriteAtomic(r.currentPath(), content, 0o644); err != nil {
		return apperr.IOFailure("persisting current vault pointer", err)
	}
	return nil
}

func (r *Registry) clearCurrent() error {
	if err := os.Remove(r.currentPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.IOFailure("clearing current vault pointer", err)
	}
	return nil
}

func (r *Registry) clearCurrentIf(name string) error {
	current, err := r.Current()
	if err != nil {
		return err
	}
	if current != nil && current.Name == name {
		return r.clearCurrent()
	}
	return nil
}

func normalizePath(path string) (string, error) {
	expanded, err := fsutil.ExpandHome(path)
	if err != nil {
		return "", apperr.IOFailure("expanding path", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", apperr.IOFailure("resolving path", err)
	}
	return abs, nil
}
