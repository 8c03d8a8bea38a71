// Package utils holds the filesystem helpers shared by the model and the commands.
package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// BackupSuffix is inserted before the file extension to name the backup copy.
const BackupSuffix = ".backup"

// BackupFileName derives the backup path by inserting BackupSuffix
// immediately before the extension, e.g. report.xlsx -> report.backup.xlsx.
func BackupFileName(fileName string) string {
	ext := filepath.Ext(fileName)
	return strings.TrimSuffix(fileName, ext) + BackupSuffix + ext
}

// CopyFile copies the content of src to dst, overwriting dst, and carries
// over the permission bits and modification time of src.
func CopyFile(src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, zerr.With(zerr.New("not a regular file"), "file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, zerr.With(zerr.Wrap(err, "failed to copy file"), "destination", dst)
	}
	if err := out.Close(); err != nil {
		return n, err
	}
	// O_CREATE applies the mode only to new files
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return n, err
	}
	return n, os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// FileExists reports whether the path exists and is not a directory.
func FileExists(fileName string) bool {
	info, err := os.Stat(fileName)
	return err == nil && !info.IsDir()
}
