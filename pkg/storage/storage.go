// Package storage keeps contents of uploaded files.
package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	xe "github.com/opensilex/phis/pkg/errors"
)

// path is not under the root of the storage.
var ErrOutsideRoot = errors.New("path is outside of the storage root")

type FileStorage interface {
	// Write stores content at path, creating parent directories.
	// When the content can not be read up, the partial file is removed.
	Write(ctx context.Context, path string, content io.Reader) (int64, error)

	Read(path string) (io.ReadCloser, error)

	// Remove deletes the file. Removing missing file is not an error.
	Remove(path string) error

	CreateDirectories(path string) error

	// BasePath is the root directory.
	BasePath() string
}

type local struct {
	root string
}

// NewLocal is a FileStorage on a local directory.
func NewLocal(root string) (FileStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if err := os.MkdirAll(abs, os.FileMode(0o755)); err != nil {
		return nil, xe.Wrap(err)
	}
	return &local{root: abs}, nil
}

func (l *local) BasePath() string {
	return l.root
}

// resolve makes p absolute. Relative paths are relative to the root.
func (l *local) resolve(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(l.root, p)
	}
	p = filepath.Clean(p)
	if p != l.root && !strings.HasPrefix(p, l.root+string(filepath.Separator)) {
		return "", xe.WrapWithNote(p, ErrOutsideRoot)
	}
	return p, nil
}

// ctxReader stops reading when ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr ctxReader) Read(b []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(b)
}

func (l *local) Write(ctx context.Context, path string, content io.Reader) (int64, error) {
	p, err := l.resolve(path)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), os.FileMode(0o755)); err != nil {
		return 0, xe.Wrap(err)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, os.FileMode(0o644))
	if err != nil {
		return 0, xe.Wrap(err)
	}
	n, err := io.Copy(f, ctxReader{ctx: ctx, r: content})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(p)
		return n, xe.Wrap(err)
	}
	return n, nil
}

func (l *local) Read(path string) (io.ReadCloser, error) {
	p, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return f, nil
}

func (l *local) Remove(path string) error {
	p, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return xe.Wrap(err)
	}
	return nil
}

func (l *local) CreateDirectories(path string) error {
	p, err := l.resolve(path)
	if err != nil {
		return err
	}
	return xe.Wrap(os.MkdirAll(p, os.FileMode(0o755)))
}
