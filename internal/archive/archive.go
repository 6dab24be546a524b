// internal/archive/archive.go
package archive

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/UniBinary/TextVault/internal/apperr"
	"github.com/UniBinary/TextVault/internal/fsutil"
)

// Dump writes every regular file under dir into a zip archive at target.
// Entry names are relative to dir, so the archive can be imported anywhere.
func Dump(dir, target string) error {
	out, err := os.Create(target)
	if err != nil {
		return apperr.IOFailure("creating archive", err)
	}

	w := zip.NewWriter(out)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		entry, err := w.CreateHeader(&zip.FileHeader{
			Name:     filepath.ToSlash(rel),
			Method:   zip.Deflate,
			Modified: info.ModTime(),
		})
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(entry, src)
		return err
	})
	if walkErr != nil {
		_ = w.Close()
		_ = out.Close()
		_ = os.Remove(target)
		return apperr.IOFailure("dumping vault", walkErr)
	}
	if err := w.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return apperr.IOFailure("finalizing archive", err)
	}
	if err := out.Close(); err != nil {
		return apperr.IOFailure("closing archive", err)
	}
	return nil
}

// Import extracts an archive into targetPath, which must not exist yet.
// It returns the absolute path of the extracted directory.
func Import(archivePath, targetPath string) (string, error) {
	if !fsutil.Exists(archivePath) {
		return "", apperr.NotFound("archive %q does not exist", archivePath)
	}
	target, err := filepath.Abs(targetPath)
	if err != nil {
		return "", apperr.IOFailure("resolving target path", err)
	}
	if fsutil.Exists(target) {
		return "", apperr.PathConflict("target path %q already exists", target)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", apperr.IOFailure("opening archive", err)
	}
	defer r.Close()

	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", apperr.IOFailure("creating target directory", err)
	}

	for _, f := range r.File {
		dest, err := entryPath(target, f.Name)
		if err != nil {
			return "", err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return "", apperr.IOFailure("creating directory entry", err)
			}
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return "", err
		}
	}
	return target, nil
}

// entryPath joins an archive entry name onto target, rejecting entries that
// would land outside it.
func entryPath(target, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) {
		return "", apperr.PathConflict("archive entry %q escapes the target directory", name)
	}
	return filepath.Join(target, cleaned), nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return apperr.IOFailure("creating entry directory", err)
	}
	rc, err := f.Open()
	if err != nil {
		return apperr.IOFailure("opening archive entry", err)
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return apperr.IOFailure("creating extracted file", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return apperr.IOFailure("extracting entry", err)
	}
	if err := out.Close(); err != nil {
		return apperr.IOFailure("closing extracted file", err)
	}
	return nil
}
