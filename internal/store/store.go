// internal/store/store.go
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/UniBinary/TextVault/internal/apperr"
	"github.com/UniBinary/TextVault/internal/backup"
	"github.com/UniBinary/TextVault/internal/diff"
	"github.com/UniBinary/TextVault/internal/fsutil"
)

const (
	indexFile        = "index.json"
	defaultCacheSize = 128
)

// Editor opens a file for interactive modification.
type Editor interface {
	Edit(path string) error
}

// Entry is one file's listing row.
type Entry struct {
	Name    string
	Backups int
	Size    int64
	ModTime time.Time
}

// FileStore manages the files and backups of one vault directory. Each file
// lives in its own subdirectory as a same-named content object next to its
// timestamped backup objects; index.json at the vault root caches the backup
// count per file.
type FileStore struct {
	dir       string
	index     map[string]int
	cache     *lru.Cache[string, []byte] // backup content cache, keyed by path
	cacheSize int
	clock     func() time.Time
	logger    *zap.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithClock substitutes the timestamp source used for new backups.
func WithClock(clock func() time.Time) Option {
	return func(s *FileStore) { s.clock = clock }
}

// WithLogger routes index repair warnings to the given logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *FileStore) { s.logger = logger }
}

// WithCacheSize bounds the backup content cache.
func WithCacheSize(n int) Option {
	return func(s *FileStore) { s.cacheSize = n }
}

// New opens dir as a vault, creating the directory and its index when
// missing. The directory tree is the source of truth: a cached index that
// disagrees with it is repaired here, not trusted.
func New(dir string, opts ...Option) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperr.IOFailure("resolving vault directory", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, apperr.IOFailure("creating vault directory", err)
	}

	s := &FileStore{
		dir:       abs,
		index:     map[string]int{},
		cacheSize: defaultCacheSize,
		clock:     time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	cache, err := lru.New[string, []byte](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	s.cache = cache

	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	if err := s.reconcile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the vault directory the store operates on.
func (s *FileStore) Dir() string {
	return s.dir
}

// Create adds a new empty file to the vault.
func (s *FileStore) Create(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	dir := s.fileDir(name)
	if fsutil.Exists(dir) {
		return apperr.AlreadyExists("file %q already exists", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IOFailure("creating file directory", err)
	}
	if err := os.WriteFile(s.mainPath(name), nil, 0o644); err != nil {
		return apperr.IOFailure("creating content object", err)
	}
	s.index[name] = 0
	return s.saveIndex()
}

// Read returns the current content of a file.
func (s *FileStore) Read(name string) ([]byte, error) {
	if err := s.requireFile(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.mainPath(name))
	if err != nil {
		return nil, apperr.IOFailure("reading content object", err)
	}
	return data, nil
}

// ReadBackup returns the content of the backup selected by rawSpec. Backups
// are immutable, so reads go through the content cache.
func (s *FileStore) ReadBackup(name, rawSpec string) ([]byte, error) {
	b, err := s.resolveBackup(name, rawSpec)
	if err != nil {
		return nil, err
	}
	return s.readBackupContent(b)
}

// Update opens the content object in the editor, snapshotting it first when
// makeBackup is set. What the editor does to the content is its business;
// the store only confirms the object still exists afterwards.
func (s *FileStore) Update(name string, makeBackup bool, ed Editor) error {
	if err := s.requireFile(name); err != nil {
		return err
	}
	if makeBackup {
		if _, err := s.Backup(name); err != nil {
			return err
		}
	}
	if err := ed.Edit(s.mainPath(name)); err != nil {
		return apperr.IOFailure("running editor", err)
	}
	if !fsutil.Exists(s.mainPath(name)) {
		return apperr.IOFailure("content object missing after edit", nil)
	}
	return nil
}

// Delete removes a file together with all of its backups.
func (s *FileStore) Delete(name string) error {
	if err := s.requireFile(name); err != nil {
		return err
	}
	if backups, err := s.listBackups(name); err == nil {
		for _, b := range backups {
			s.cache.Remove(b.Path)
		}
	}
	if err := os.RemoveAll(s.fileDir(name)); err != nil {
		return apperr.IOFailure("removing file directory", err)
	}
	delete(s.index, name)
	return s.saveIndex()
}

// DeleteBackups removes backups according to selector: "all" clears every
// backup, a positive decimal N removes the N oldest. An N beyond the backup
// count clamps to removing them all; an N with no backups at all is NotFound,
// while "all" with none succeeds as a no-op that still resets the count.
// It returns how many were removed.
func (s *FileStore) DeleteBackups(name, selector string) (int, error) {
	if err := s.requireFile(name); err != nil {
		return 0, err
	}

	all := selector == "all"
	n := 0
	if !all {
		v, err := strconv.Atoi(strings.TrimSpace(selector))
		if err != nil || v <= 0 {
			return 0, apperr.InvalidSpec("backup selector %q, want \"all\" or a positive count", selector)
		}
		n = v
	}

	backups, err := s.listBackups(name)
	if err != nil {
		return 0, err
	}
	// Only the counted form requires backups to exist.
	if !all && len(backups) == 0 {
		return 0, apperr.NotFound("file %q has no backups", name)
	}
	backup.Sort(backups)
	if all || n > len(backups) {
		n = len(backups)
	}

	removed := 0
	for _, b := range backups[:n] {
		if err := os.Remove(b.Path); err != nil {
			s.index[name] = len(backups) - removed
			_ = s.saveIndex()
			return removed, apperr.IOFailure("removing backup object", err)
		}
		s.cache.Remove(b.Path)
		removed++
	}
	s.index[name] = len(backups) - removed
	if err := s.saveIndex(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Rename moves a file to a new name, rewriting the name prefix of every
// backup while keeping the embedded stamps untouched.
func (s *FileStore) Rename(oldName, newName string) error {
	if err := s.requireFile(oldName); err != nil {
		return err
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if fsutil.Exists(s.fileDir(newName)) {
		return apperr.AlreadyExists("file %q already exists", newName)
	}

	backups, err := s.listBackups(oldName)
	if err != nil {
		return err
	}
	for _, b := range backups {
		s.cache.Remove(b.Path)
	}

	if err := os.Rename(s.fileDir(oldName), s.fileDir(newName)); err != nil {
		return apperr.IOFailure("renaming file directory", err)
	}
	newDir := s.fileDir(newName)
	if err := os.Rename(filepath.Join(newDir, oldName), filepath.Join(newDir, newName)); err != nil {
		return apperr.IOFailure("renaming content object", err)
	}
	for _, b := range backups {
		from := filepath.Join(newDir, b.Name)
		to := filepath.Join(newDir, b.Rename(newName))
		if err := os.Rename(from, to); err != nil {
			return apperr.IOFailure("renaming backup object", err)
		}
	}

	s.index[newName] = len(backups)
	delete(s.index, oldName)
	return s.saveIndex()
}

// Backup snapshots the current content and returns the backup object name.
// Backups are write-once: a second snapshot within the same clock second is
// refused rather than silently overwritten.
func (s *FileStore) Backup(name string) (string, error) {
	if err := s.requireFile(name); err != nil {
		return "", err
	}
	objName := backup.FileName(name, s.clock())
	path := filepath.Join(s.fileDir(name), objName)
	if fsutil.Exists(path) {
		return "", apperr.AlreadyExists("backup %q already exists", objName)
	}
	if err := fsutil.CopyFile(s.mainPath(name), path); err != nil {
		return "", apperr.IOFailure("writing backup object", err)
	}
	s.index[name]++
	if err := s.saveIndex(); err != nil {
		return "", err
	}
	return objName, nil
}

// Recover copies the selected backup's content over the content object and
// returns the backup used. The backup stays in place and the index does not
// change.
func (s *FileStore) Recover(name, rawSpec string) (string, error) {
	b, err := s.resolveBackup(name, rawSpec)
	if err != nil {
		return "", err
	}
	if err := fsutil.CopyFile(b.Path, s.mainPath(name)); err != nil {
		return "", apperr.IOFailure("restoring content object", err)
	}
	return b.Name, nil
}

// Diff reports the line changes from the selected backup to the current
// content, along with the name of the backup used as the old side.
func (s *FileStore) Diff(name, rawSpec string) (*diff.Result, string, error) {
	b, err := s.resolveBackup(name, rawSpec)
	if err != nil {
		return nil, "", err
	}
	old, err := s.readBackupContent(b)
	if err != nil {
		return nil, "", err
	}
	current, err := os.ReadFile(s.mainPath(name))
	if err != nil {
		return nil, "", apperr.IOFailure("reading content object", err)
	}
	return diff.Lines(old, current), b.Name, nil
}

// List returns the file name to backup count mapping.
func (s *FileStore) List() map[string]int {
	out := make(map[string]int, len(s.index))
	for name, count := range s.index {
		out[name] = count
	}
	return out
}

// Entries assembles the listing rows, sorted by file name. Files whose
// content object cannot be inspected list with zero size.
func (s *FileStore) Entries() []Entry {
	entries := make([]Entry, 0, len(s.index))
	for name, count := range s.index {
		e := Entry{Name: name, Backups: count}
		if info, err := os.Stat(s.mainPath(name)); err == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func (s *FileStore) fileDir(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) mainPath(name string) string {
	return filepath.Join(s.dir, name, name)
}

// validateName rejects names that could escape the per-file layout.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return apperr.InvalidSpec("invalid file name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return apperr.InvalidSpec("file name %q must not contain path separators", name)
	}
	return nil
}

func (s *FileStore) requireFile(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if !fsutil.Exists(s.fileDir(name)) {
		return apperr.NotFound("file %q does not exist", name)
	}
	return nil
}

func (s *FileStore) resolveBackup(name, rawSpec string) (backup.Backup, error) {
	if err := s.requireFile(name); err != nil {
		return backup.Backup{}, err
	}
	backups, err := s.listBackups(name)
	if err != nil {
		return backup.Backup{}, err
	}
	// An empty set fails before the spec is even looked at.
	if len(backups) == 0 {
		return backup.Backup{}, apperr.NotFound("file %q has no backups", name)
	}
	spec, err := backup.ParseSpec(rawSpec)
	if err != nil {
		return backup.Backup{}, err
	}
	return backup.Resolve(backups, spec)
}

func (s *FileStore) readBackupContent(b backup.Backup) ([]byte, error) {
	if content, ok := s.cache.Get(b.Path); ok {
		return content, nil
	}
	content, err := os.ReadFile(b.Path)
	if err != nil {
		return nil, apperr.IOFailure("reading backup object", err)
	}
	s.cache.Add(b.Path, content)
	return content, nil
}

// listBackups returns the on-disk backups of name, in directory order.
// Objects whose names do not parse as backups of name are not backups.
func (s *FileStore) listBackups(name string) ([]backup.Backup, error) {
	entries, err := os.ReadDir(s.fileDir(name))
	if err != nil {
		return nil, apperr.IOFailure("scanning file directory", err)
	}
	var backups []backup.Backup
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stamp, ok := backup.ParseFileName(name, e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, apperr.IOFailure("reading backup metadata", err)
		}
		backups = append(backups, backup.Backup{
			Name:    e.Name(),
			Path:    filepath.Join(s.fileDir(name), e.Name()),
			Stamp:   stamp,
			ModTime: info.ModTime(),
		})
	}
	return backups, nil
}

func (s *FileStore) loadIndex() error {
	err := fsutil.LoadJSON(filepath.Join(s.dir, indexFile), &s.index)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.index = map[string]int{}
	case err != nil:
		// A corrupt index is no reason to fail: the scan rebuilds it.
		s.logger.Warn("unreadable file index, rebuilding from disk",
			zap.String("vault", s.dir), zap.Error(err))
		s.index = map[string]int{}
	case s.index == nil:
		s.index = map[string]int{}
	}
	return nil
}

// reconcile makes the cached index agree with the directory tree. Drift is
// repaired and logged, never treated as an error.
func (s *FileStore) reconcile() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return apperr.IOFailure("scanning vault directory", err)
	}

	scanned := make(map[string]int)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		backups, err := s.listBackups(e.Name())
		if err != nil {
			return err
		}
		scanned[e.Name()] = len(backups)
	}

	changed := false
	for name, count := range scanned {
		if have, ok := s.index[name]; !ok || have != count {
			s.logger.Warn("index entry repaired from disk",
				zap.String("file", name),
				zap.Int("indexed", s.index[name]),
				zap.Int("on_disk", count))
			changed = true
		}
	}
	for name := range s.index {
		if _, ok := scanned[name]; !ok {
			s.logger.Warn("index entry dropped, file directory is gone",
				zap.String("file", name))
			changed = true
		}
	}

	s.index = scanned
	if changed || !fsutil.Exists(filepath.Join(s.dir, indexFile)) {
		return s.saveIndex()
	}
	return nil
}

func (s *FileStore) saveIndex() error {
	if err := fsutil.SaveJSON(filepath.Join(s.dir, indexFile), s.index); err != nil {
		return apperr.IOFailure("persisting file index", err)
	}
	return nil
}
