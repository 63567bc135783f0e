package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/multierr"

	"foflow/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates initialized empty report.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	if f, err := os.Create(conf.Destination); err == nil {
		r.file = f
	} else if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err == nil {
		r.file = f
	} else {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return r, nil
}

type entry struct {
	original string
	actual   string
	stamp    time.Time
	data     []byte
}

// Report accumulates files and data for the debug archive. A nil report
// ignores everything, so callers do not check whether debugging is on.
// Not safe for concurrent use.
type Report struct {
	entries map[string]entry
	// temporary copies made by StoreCopy, removed on Close
	temps []string
	file  *os.File
}

// Close writes the archive and removes temporary copies.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.finalize()
	err = multierr.Append(err, r.file.Close())
	for _, dir := range r.temps {
		err = multierr.Append(err, os.RemoveAll(dir))
	}
	r.temps = nil
	return err
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers a file or directory to be archived under name when the
// report is closed.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, exists := r.entries[name]; exists && old.original != path {
		panic(fmt.Sprintf("Attempt to overwrite file in the report for [%s]: was %s, now %s", name, old.original, path))
	}
	e := entry{original: path, actual: path}
	if p, err := filepath.Abs(path); err == nil {
		e.actual = p
	}
	r.entries[name] = e
}

// StoreData archives data under name. Repeated names get a timestamp suffix.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	e := entry{data: data, stamp: time.Now()}
	r.entries[r.unique(name, e.stamp)] = e
}

// StoreCopy copies the file as it is now, so later changes do not reach the
// report.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	src, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("unable to copy %s into report: not a regular file", path)
	}

	dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
	if err != nil {
		return err
	}
	r.temps = append(r.temps, dir)

	where, err := copyFile(dir, src, info.ModTime())
	if err != nil {
		return err
	}
	e := entry{original: path, actual: where, stamp: time.Now()}
	r.entries[r.unique(name, e.stamp)] = e
	return nil
}

func (r *Report) unique(name string, stamp time.Time) string {
	if _, exists := r.entries[name]; exists {
		return fmt.Sprintf("%s-%d", name, stamp.UnixNano())
	}
	return name
}

func copyFile(dir, src string, modTime time.Time) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if err := os.Chtimes(dst, modTime, modTime); err != nil {
		return "", err
	}
	return dst, nil
}

// finalize writes MANIFEST and every stored entry. Files that no longer
// exist are skipped.
func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	names := make([]string, 0, len(r.entries))
	for k := range r.entries {
		names = append(names, k)
	}
	slices.Sort(names)

	now := time.Now()
	manifest := new(bytes.Buffer)
	for _, name := range names {
		e := r.entries[name]
		if e.stamp.IsZero() {
			e.stamp = now
		}
		fmt.Fprintf(manifest, "%s\t%s\t%s : %s\n", e.stamp.UTC().Format(time.UnixDate), name, e.original, e.actual)
	}
	if err := saveFile(arc, "MANIFEST", now, manifest); err != nil {
		return multierr.Append(err, arc.Close())
	}

	for _, name := range names {
		e := r.entries[name]
		var err error
		if len(e.data) > 0 {
			err = saveFile(arc, name, e.stamp, bytes.NewReader(e.data))
		} else {
			err = saveStored(arc, name, e.actual)
		}
		if err != nil {
			return multierr.Append(err, arc.Close())
		}
	}
	return arc.Close()
}

func saveStored(arc *zip.Writer, name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	switch {
	case info.Mode().IsRegular():
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return saveFile(arc, name, info.ModTime(), f)
	case info.IsDir():
		return filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil || !fi.Mode().IsRegular() {
				return err
			}
			rel, err := filepath.Rel(path, p)
			if err != nil {
				return err
			}
			return saveStored(arc, filepath.ToSlash(filepath.Join(name, rel)), p)
		})
	}
	return nil
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
