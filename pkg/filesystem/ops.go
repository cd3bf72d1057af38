package filesystem

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/ydmenu/pkg/errors"
)

// Every operation here refuses to replace an existing destination.
// A destination that appears between the check and the write surfaces
// as an error, never as an overwrite.

// Exists reports whether anything (file, directory or dangling link) is at path
func Exists(fsys FS, path string) bool {
	_, err := fsys.Lstat(path)
	return err == nil
}

// IsNotDir reports whether err is the kernel's "not a directory" error
func IsNotDir(err error) bool {
	return stderrors.Is(err, syscall.ENOTDIR)
}

// IsCrossDevice reports whether err is the kernel's cross-device link error
func IsCrossDevice(err error) bool {
	return stderrors.Is(err, syscall.EXDEV)
}

// WriteNew creates path with data, failing if path already exists
func WriteNew(fsys FS, path string, data []byte, perm fs.FileMode) error {
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return wrapCreate(err, path)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = fsys.Remove(path)
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot close %s", path)
	}
	return nil
}

// CopyFile copies a regular file to dst, preserving mode and modification time
func CopyFile(fsys FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "cannot stat %s", src)
	}
	if info.IsDir() {
		return errors.Wrapf(&fs.PathError{Op: "copy", Path: src, Err: syscall.EISDIR},
			errors.ErrFileCopy, "cannot copy directory %s as a file", src)
	}

	in, err := fsys.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return wrapCreate(err, dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = fsys.Remove(dst)
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot copy %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		_ = fsys.Remove(dst)
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot finish copy to %s", dst)
	}

	_ = fsys.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

// CopyTree copies the directory src to dst recursively. Symbolic links are
// followed, so linked directories are copied as directories. When src is not
// a directory the returned error satisfies IsNotDir and nothing was written.
// On any other failure the partial dst is removed.
func CopyTree(fsys FS, src, dst string) error {
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", src)
	}
	info, err := fsys.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "cannot stat %s", src)
	}
	if Exists(fsys, dst) {
		return errors.Newf(errors.ErrAlreadyExists, "%s already exists", dst).WithDetail("path", dst)
	}

	if err := copyTree(fsys, src, dst, info, entries, nil); err != nil {
		_ = fsys.RemoveAll(dst)
		return err
	}
	return nil
}

// copyTree copies one directory level. ancestors holds the source
// directories above src, to stop link cycles.
func copyTree(fsys FS, src, dst string, info fs.FileInfo, entries []fs.DirEntry, ancestors []fs.FileInfo) error {
	for _, ancestor := range ancestors {
		if os.SameFile(ancestor, info) {
			return errors.Newf(errors.ErrFileCopy, "directory link cycle at %s", src).WithDetail("path", src)
		}
	}
	ancestors = append(ancestors, info)

	if err := fsys.MkdirAll(dst, info.Mode().Perm()|0700); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create directory %s", dst)
	}

	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := fsys.Stat(from)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileNotFound, "cannot follow link %s", from)
			}
			isDir = target.IsDir()
		}
		if !isDir {
			if err := CopyFile(fsys, from, to); err != nil {
				return err
			}
			continue
		}

		sub, err := fsys.ReadDir(from)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", from)
		}
		subInfo, err := fsys.Stat(from)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileNotFound, "cannot stat %s", from)
		}
		if err := copyTree(fsys, from, to, subInfo, sub, ancestors); err != nil {
			return err
		}
	}

	_ = fsys.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

// MoveFile moves a file to dst. It hard links then unlinks so an existing
// dst is never replaced, and falls back to copy and remove across devices.
func MoveFile(fsys FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "cannot stat %s", src)
	}
	if info.IsDir() {
		return errors.Wrapf(&fs.PathError{Op: "move", Path: src, Err: syscall.EISDIR},
			errors.ErrFileMove, "cannot move directory %s as a file", src)
	}

	err = fsys.Link(src, dst)
	switch {
	case err == nil:
		if err := fsys.Remove(src); err != nil {
			return errors.Wrapf(err, errors.ErrFileMove, "moved %s but cannot remove it", src)
		}
		return nil
	case stderrors.Is(err, fs.ErrExist):
		return errors.Newf(errors.ErrAlreadyExists, "%s already exists", dst).WithDetail("path", dst)
	}

	// Cross-device, or a filesystem without hard links
	if err := CopyFile(fsys, src, dst); err != nil {
		return err
	}
	if err := fsys.Remove(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileMove, "copied %s but cannot remove it", src)
	}
	return nil
}

// MoveTree moves the directory src to dst. When src is not a directory the
// returned error satisfies IsNotDir and nothing was changed.
func MoveTree(fsys FS, src, dst string) error {
	if _, err := fsys.ReadDir(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", src)
	}
	if Exists(fsys, dst) {
		return errors.Newf(errors.ErrAlreadyExists, "%s already exists", dst).WithDetail("path", dst)
	}

	err := fsys.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !IsCrossDevice(err) {
		return errors.Wrapf(err, errors.ErrFileMove, "cannot move %s to %s", src, dst)
	}

	if err := CopyTree(fsys, src, dst); err != nil {
		return err
	}
	if err := fsys.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileMove, "copied %s but cannot remove it", src)
	}
	return nil
}

// Move moves a file or directory to dst without replacing anything
func Move(fsys FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "cannot stat %s", src)
	}
	if info.IsDir() {
		return MoveTree(fsys, src, dst)
	}
	return MoveFile(fsys, src, dst)
}

func wrapCreate(err error, path string) error {
	if stderrors.Is(err, fs.ErrExist) {
		return errors.Wrapf(err, errors.ErrAlreadyExists, "%s already exists", path).WithDetail("path", path)
	}
	return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", path)
}
