// Package upload stores cover images on a filesystem and serves them back.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// URLPrefix is the path under which stored files are served.
const URLPrefix = "/uploads"

// LocalStore writes uploads into one directory of an afero filesystem.
// Stored names are prefixed with the upload time in milliseconds.
type LocalStore struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewLocalStore creates dir on fs if needed.
func NewLocalStore(fs afero.Fs, dir string) (*LocalStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStore{fs: fs, dir: dir, now: time.Now}, nil
}

// Store copies src to <unix-millis>-<filename> and returns its public path.
func (s *LocalStore) Store(ctx context.Context, filename string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizeFilename(filename))
	full := filepath.Join(s.dir, name)

	f, err := s.fs.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		_ = s.fs.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(full)
		return "", err
	}

	return path.Join(URLPrefix, name), nil
}

// FileSystem exposes the upload directory for http.FileServer. Only regular
// files can be opened, so directories are never listed.
func (s *LocalStore) FileSystem() http.FileSystem {
	return filesOnly{afero.NewHttpFs(s.fs).Dir(s.dir)}
}

type filesOnly struct {
	http.FileSystem
}

func (fsys filesOnly) Open(name string) (http.File, error) {
	f, err := fsys.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == 0:
			return -1
		case r == ' ':
			return '_'
		default:
			return r
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
