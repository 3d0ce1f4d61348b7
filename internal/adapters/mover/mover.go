package mover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"syscall"

	"github.com/brianly1003/autosort/internal/domain"
)

// Move renames sourcePath onto the reserved destination and returns the
// final path. Across filesystems it copies the content, syncs it, checks the
// byte count, carries over mode and modification time, then removes the
// source. On any failure the reservation is released so no destination file
// is left behind.
//
// The placeholder is checked right before the rename. A writer that swaps
// its own file in between that check and the rename loses that file: no
// portable rename refuses to replace an existing target. The window is a
// single syscall wide. After the rename the destination is checked to be the
// source file; anything else is reported as a RaceError.
func Move(ctx context.Context, sourcePath string, res *Reservation) (finalPath string, err error) {
	defer func() {
		if err != nil {
			_ = res.Release()
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", domain.NewMoveError("cancelled", sourcePath, err)
	}

	src, err := os.Lstat(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.NewMoveError("stat", sourcePath, domain.ErrSourceVanished)
		}
		return "", domain.NewMoveError("stat", sourcePath, err)
	}
	if !src.Mode().IsRegular() {
		return "", domain.NewMoveError("stat", sourcePath, fmt.Errorf("not a regular file: %s", src.Mode()))
	}

	if !res.stillOurs() {
		// Someone else owns the path now; leave their file alone.
		res.done = true
		return "", domain.NewRaceError(res.path, errors.New("placeholder was replaced"))
	}

	err = os.Rename(sourcePath, res.path)
	if err == nil {
		res.done = true
		if landed, statErr := os.Lstat(res.path); statErr != nil || !os.SameFile(src, landed) {
			return "", domain.NewRaceError(res.path, errors.New("destination changed during rename"))
		}
		return res.path, nil
	}
	if !isCrossDevice(err) {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.NewMoveError("rename", sourcePath, domain.ErrSourceVanished)
		}
		return "", domain.NewMoveError("rename", sourcePath, err)
	}

	if err := copyInto(sourcePath, res.path, src); err != nil {
		return "", err
	}
	if err := os.Remove(sourcePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", domain.NewMoveError("remove", sourcePath, err)
	}
	res.done = true
	return res.path, nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

// copyInto copies sourcePath into the existing placeholder at dest and
// gives it the source's permission bits and modification time.
func copyInto(sourcePath, dest string, src fs.FileInfo) error {
	in, err := os.Open(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewMoveError("open", sourcePath, domain.ErrSourceVanished)
		}
		return domain.NewMoveError("open", sourcePath, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return domain.NewMoveError("open", dest, err)
	}

	n, err := io.Copy(out, in)
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return domain.NewMoveError("copy", sourcePath, err)
	}
	if n != src.Size() {
		return domain.NewMoveError("copy", sourcePath,
			fmt.Errorf("copied %d bytes, source has %d", n, src.Size()))
	}

	if err := os.Chmod(dest, src.Mode().Perm()); err != nil {
		return domain.NewMoveError("chmod", dest, err)
	}
	if err := os.Chtimes(dest, src.ModTime(), src.ModTime()); err != nil {
		return domain.NewMoveError("chtimes", dest, err)
	}
	return nil
}
