// Package naming generates collision free file names.
package naming

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
)

// MaxIndex bounds the suffix search. Reaching it means the directories are
// being filled faster than we can check them.
const MaxIndex = 1 << 20

// Split separates name into stem and extension. A hidden name with no
// other dot (".env") is all stem. A trailing dot is part of the stem.
func Split(name string) (stem, ext string) {
	if strings.HasPrefix(name, ".") && !strings.Contains(name[1:], ".") {
		return name, ""
	}
	ext = filepath.Ext(name)
	if ext == "." || ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// Compose builds the candidate for index i: the plain name for 0,
// stem_i + ext otherwise.
func Compose(stem, ext string, i int) string {
	if i == 0 {
		return stem + ext
	}
	return stem + "_" + strconv.Itoa(i) + ext
}

// Unique returns the first candidate derived from name that is absent from
// every directory in dirs. It does not create anything.
func Unique(fsys filesystem.FS, name string, dirs ...string) (string, error) {
	return UniqueAvoiding(fsys, name, nil, dirs...)
}

// UniqueAvoiding is Unique that also skips the candidates in avoid, names
// promised elsewhere but not created yet.
func UniqueAvoiding(fsys filesystem.FS, name string, avoid map[string]bool, dirs ...string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty file name")
	}
	if strings.ContainsRune(name, filepath.Separator) {
		return "", errors.Newf(errors.ErrInvalidInput, "%q is not a bare file name", name)
	}

	stem, ext := Split(name)
	for i := 0; i < MaxIndex; i++ {
		candidate := Compose(stem, ext, i)
		if !avoid[candidate] && !takenAnywhere(fsys, candidate, dirs) {
			return candidate, nil
		}
	}
	return "", errors.Newf(errors.ErrAlreadyExists, "no free name for %q", name)
}

// Variants returns name followed by its numbered copies that exist in dir,
// stopping at the first missing index.
func Variants(fsys filesystem.FS, dir, name string) []string {
	stem, ext := Split(name)
	var found []string
	for i := 0; i < MaxIndex; i++ {
		candidate := Compose(stem, ext, i)
		if !filesystem.Exists(fsys, filepath.Join(dir, candidate)) {
			break
		}
		found = append(found, candidate)
	}
	return found
}

func takenAnywhere(fsys filesystem.FS, candidate string, dirs []string) bool {
	for _, dir := range dirs {
		if filesystem.Exists(fsys, filepath.Join(dir, candidate)) {
			return true
		}
	}
	return false
}
