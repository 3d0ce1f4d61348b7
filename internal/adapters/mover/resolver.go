// Package mover relocates classified files into their destination folders
// without ever overwriting an existing file.
package mover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/brianly1003/autosort/internal/domain"
	"github.com/brianly1003/autosort/internal/pathutil"
)

// maxAttempts bounds the name_N search in Resolve.
const maxAttempts = 10000

// Reservation is a destination path claimed by an empty placeholder file.
// The placeholder is created exclusively, so no other writer can hold the
// same path. Release removes it if the move does not happen.
type Reservation struct {
	path string
	info fs.FileInfo
	done bool
}

// Path returns the reserved destination path.
func (r *Reservation) Path() string {
	return r.path
}

// Release removes the placeholder. It is a no-op after a successful move.
func (r *Reservation) Release() error {
	if r.done {
		return nil
	}
	r.done = true
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// stillOurs reports whether the placeholder is the empty file we created.
func (r *Reservation) stillOurs() bool {
	info, err := os.Lstat(r.path)
	if err != nil {
		return false
	}
	return os.SameFile(r.info, info) && info.Size() == 0
}

// Resolve creates targetFolder if needed and reserves the first free name
// in the sequence fileName, stem_1.ext, stem_2.ext, ...
func Resolve(targetFolder, fileName string) (*Reservation, error) {
	if err := os.MkdirAll(targetFolder, 0o755); err != nil {
		return nil, domain.NewDestinationCreateError(targetFolder, err)
	}

	stem, ext := pathutil.SplitExt(fileName)
	for i := 0; i < maxAttempts; i++ {
		name := fileName
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		candidate := filepath.Join(targetFolder, name)

		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, domain.NewDestinationCreateError(candidate, err)
		}

		info, statErr := f.Stat()
		closeErr := f.Close()
		if err := errors.Join(statErr, closeErr); err != nil {
			_ = os.Remove(candidate)
			return nil, domain.NewDestinationCreateError(candidate, err)
		}
		return &Reservation{path: candidate, info: info}, nil
	}

	return nil, domain.NewRaceError(filepath.Join(targetFolder, fileName),
		fmt.Errorf("no free name after %d attempts", maxAttempts))
}
