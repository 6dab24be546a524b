// internal/backup/backup.go
package backup

import (
	"sort"
	"time"
)

const (
	stampLayout = "20060102-150405"
	suffix      = ".bak"
)

// Backup is one immutable snapshot of a file, described by its on-disk name.
type Backup struct {
	Name    string    // object name, <base>_<stamp>.bak
	Path    string    // absolute path of the object
	Stamp   time.Time // creation time embedded in Name
	ModTime time.Time // filesystem mtime, used as a tie-breaker only
}

// FileName returns the backup object name for base at the given time.
func FileName(base string, at time.Time) string {
	return base + "_" + at.Format(stampLayout) + suffix
}

// ParseFileName extracts the creation time embedded in a backup object name.
// Names that are not backups of base report ok == false.
func ParseFileName(base, name string) (time.Time, bool) {
	prefix := base + "_"
	if len(name) <= len(prefix)+len(suffix) {
		return time.Time{}, false
	}
	if name[:len(prefix)] != prefix || name[len(name)-len(suffix):] != suffix {
		return time.Time{}, false
	}
	stamp := name[len(prefix) : len(name)-len(suffix)]
	at, err := time.Parse(stampLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// Rename returns the object name the backup would have if its file were
// renamed to newBase. The embedded stamp is preserved.
func (b Backup) Rename(newBase string) string {
	return FileName(newBase, b.Stamp)
}

// Sort orders backups oldest first: by embedded stamp, then filesystem
// mtime, then name. The order is total, so resolution is deterministic.
func Sort(backups []Backup) {
	sort.Slice(backups, func(i, j int) bool {
		bi, bj := backups[i], backups[j]
		if !bi.Stamp.Equal(bj.Stamp) {
			return bi.Stamp.Before(bj.Stamp)
		}
		if !bi.ModTime.Equal(bj.ModTime) {
			return bi.ModTime.Before(bj.ModTime)
		}
		return bi.Name < bj.Name
	})
}
