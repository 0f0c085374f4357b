package flog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const (
	dirPerm  fs.FileMode = 0o777 // log directories are shared between writers, umask still applies
	filePerm fs.FileMode = 0o666
)

// Rotation skips, neither is reported
var (
	errArchiveExists = errors.New("archive already exists")
	errLostRace      = errors.New("file already archived by another writer")
)

// removeFile is replaced in tests to interleave a concurrent rotation
var removeFile = os.Remove

// ensureDirectory creates the log directory and its parents. It succeeds if
// the directory already exists, so several loggers may share it.
func ensureDirectory(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// fileSize returns the size of path and whether it exists.
func fileSize(path string) (int64, bool, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return fi.Size(), true, nil
}

// appendRecord opens path for appending, writes data and closes the file.
// The file is closed on every path, including a failed write.
func appendRecord(path string, data []byte) (err error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return &WriteError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &WriteError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if _, err := file.Write(data); err != nil {
		return &WriteError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// renameNoClobber moves oldPath to newPath unless newPath exists.
// A hard link makes the existence check and the move atomic; filesystems
// without hard links fall back to a stat followed by rename.
//
// If oldPath vanishes between link and unlink, another writer archived the
// same file first; the extra link is left in place and errLostRace returned.
func renameNoClobber(oldPath, newPath string) error {
	err := os.Link(oldPath, newPath)
	if err == nil {
		if err := removeFile(oldPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return errLostRace
			}
			return err
		}
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return errArchiveExists
	}
	if errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if _, err := os.Lstat(newPath); err == nil {
		return errArchiveExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(oldPath, newPath)
}
