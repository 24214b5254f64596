package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"imgpack/internal/paths"
)

// Moves the file at src into stagingDir, creating the directory as needed,
// and returns the final path.
//
// A plain rename is attempted first; when the staging directory lives on a
// different filesystem the rename fails and the file is streamed over
// instead.
func Deposit(src, stagingDir string) (string, error) {
	if err := os.MkdirAll(stagingDir, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", ErrArchive, stagingDir, err)
	}

	dest := filepath.Join(stagingDir, filepath.Base(src))
	if err := os.Rename(src, dest); err == nil {
		return dest, nil
	}

	if err := copyFile(dest, src); err != nil {
		return "", err
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("%w: removing %s: %w", ErrArchive, src, err)
	}
	return dest, nil
}

func copyFile(dstName, srcName string) error {
	src, err := os.Open(srcName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dstName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("%w: copying %s: %w", ErrArchive, srcName, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	return nil
}

// Deletes the listed files, ignoring ones that are already gone.
//
// Used on both success and failure paths to clear intermediate artifacts, so
// a missing file is the normal case rather than a problem worth reporting.
func RemoveTemp(files ...string) {
	for _, f := range files {
		err := os.Remove(f)
		switch {
		case err == nil:
			log.Infof("removed temporary file %s", f)
		case !os.IsNotExist(err):
			log.Warnf("could not remove %s: %v", f, err)
		}
	}
}
