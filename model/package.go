package model

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// copyPackage writes the zip package src to w. Entries named in parts get
// the new content, every other entry is copied raw, compressed bytes
// included. Parts missing from src are appended in name order.
func copyPackage(w io.Writer, src string, parts map[string][]byte) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	zw := zip.NewWriter(w)
	written := make(map[string]bool, len(parts))
	for _, f := range r.File {
		content, ok := parts[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return err
			}
			continue
		}
		written[f.Name] = true
		if err := writeEntry(zw, f.FileHeader, content); err != nil {
			return err
		}
	}

	var added []string
	for name := range parts {
		if !written[name] {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		fh := zip.FileHeader{Name: name, Method: zip.Deflate, Modified: time.Now()}
		if err := writeEntry(zw, fh, parts[name]); err != nil {
			return err
		}
	}

	if r.Comment != "" {
		if err := zw.SetComment(r.Comment); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeEntry(zw *zip.Writer, fh zip.FileHeader, content []byte) error {
	header := &zip.FileHeader{
		Name:     fh.Name,
		Comment:  fh.Comment,
		Method:   fh.Method,
		Modified: fh.Modified,
	}
	if header.Method != zip.Store {
		header.Method = zip.Deflate
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}

// replacePackage rewrites fileName through a temp file in the same
// directory, so a failed write leaves the original in place.
func replacePackage(fileName string, parts map[string][]byte) (err error) {
	info, err := os.Stat(fileName)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(fileName), "."+filepath.Base(fileName)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = copyPackage(tmp, fileName, parts); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fileName)
}
