// internal/backup/spec.go
package backup

import (
	"strconv"
	"strings"
	"time"

	"github.com/UniBinary/TextVault/internal/apperr"
)

const (
	exactLayout = "2006_01_02-15:04:05"
	dateLayout  = "2006_01_02"
)

// Kind tags the closed set of backup spec variants.
type Kind int

const (
	Latest   Kind = iota // the most recent backup
	Ordinal              // the n-th newest backup, 1-indexed
	Exact                // the backup with an exact creation timestamp
	DateOnly             // the first backup on a calendar day
)

// Spec selects one backup out of a file's backup set.
type Spec struct {
	Kind    Kind
	Ordinal int       // set when Kind == Ordinal
	Stamp   time.Time // set when Kind == Exact or DateOnly
}

// ParseSpec turns a user-supplied selector into a Spec. The accepted forms
// are "latest", a decimal ordinal, an exact timestamp YYYY_MM_DD-hh:mm:ss,
// and a calendar day YYYY_MM_DD. Anything else fails, never guesses.
func ParseSpec(raw string) (Spec, error) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return Spec{}, apperr.InvalidSpec("empty backup spec")
	case s == "latest":
		return Spec{Kind: Latest}, nil
	case isDigits(s):
		n, err := strconv.Atoi(s)
		if err != nil {
			return Spec{}, apperr.InvalidSpec("backup ordinal %q is too large", s)
		}
		return Spec{Kind: Ordinal, Ordinal: n}, nil
	case strings.ContainsRune(s, ':'):
		at, err := time.Parse(exactLayout, s)
		if err != nil {
			return Spec{}, apperr.InvalidSpec("bad backup timestamp %q, want YYYY_MM_DD-hh:mm:ss", s)
		}
		return Spec{Kind: Exact, Stamp: at}, nil
	default:
		at, err := time.Parse(dateLayout, s)
		if err != nil {
			return Spec{}, apperr.InvalidSpec("bad backup spec %q", s)
		}
		return Spec{Kind: DateOnly, Stamp: at}, nil
	}
}

// Resolve picks one backup from the set according to spec. The input order
// does not matter. An empty set is NotFound regardless of the spec.
func Resolve(backups []Backup, spec Spec) (Backup, error) {
	if len(backups) == 0 {
		return Backup{}, apperr.NotFound("no backups exist")
	}

	ordered := make([]Backup, len(backups))
	copy(ordered, backups)
	Sort(ordered)

	switch spec.Kind {
	case Latest:
		return ordered[len(ordered)-1], nil

	case Ordinal:
		if spec.Ordinal <= 0 || spec.Ordinal > len(ordered) {
			return Backup{}, apperr.OutOfRange("backup %d of %d requested", spec.Ordinal, len(ordered))
		}
		return ordered[len(ordered)-spec.Ordinal], nil

	case Exact:
		for _, b := range ordered {
			if b.Stamp.Equal(spec.Stamp) {
				return b, nil
			}
		}
		return Backup{}, apperr.NotFound("no backup taken at %s", spec.Stamp.Format(exactLayout))

	case DateOnly:
		y, m, d := spec.Stamp.Date()
		for _, b := range ordered {
			by, bm, bd := b.Stamp.Date()
			if by == y && bm == m && bd == d {
				return b, nil
			}
		}
		return Backup{}, apperr.NotFound("no backup taken on %s", spec.Stamp.Format(dateLayout))
	}

	return Backup{}, apperr.InvalidSpec("unrecognized backup spec")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
