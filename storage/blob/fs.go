package fsblob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core"
)

// Storage is a filesystem-backed core.FileStorage. Objects live under the
// media root and are publicly readable from the configured base URL (the
// media root is expected to be served by the web server or a CDN).
// The content type is implicit in the object's extension here; a cloud
// implementation would persist it as object metadata.
type Storage struct {
	root    string
	baseURL string
}

var _ core.FileStorage = (*Storage)(nil) // interface compliance check

func NewStorage(conf *core.Config) *Storage {
	return &Storage{
		root:    conf.Media.Root,
		baseURL: conf.Media.PublicBaseURL,
	}
}

// fullPath rejects paths escaping the media root.
func (s *Storage) fullPath(objPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(objPath))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) || filepath.IsAbs(clean) {
		return "", errors.Errorf("invalid object path %q", objPath)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *Storage) Save(ctx context.Context, objPath, contentType string, content io.Reader) (core.StoredFile, error) {
	full, err := s.fullPath(objPath)
	if err != nil {
		return core.StoredFile{}, err
	}
	if err = os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return core.StoredFile{}, errors.Wrap(err, "creating object dir")
	}

	f, err := os.Create(full)
	if err != nil {
		return core.StoredFile{}, errors.Wrap(err, "creating object")
	}
	if _, err = io.Copy(f, content); err != nil {
		_ = f.Close()
		return core.StoredFile{}, errors.Wrap(err, "writing object")
	}
	if err = f.Close(); err != nil {
		return core.StoredFile{}, errors.Wrap(err, "closing object")
	}

	return core.StoredFile{
		Path:      objPath,
		PublicURL: s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(objPath), "/"),
	}, nil
}

func (s *Storage) Exists(ctx context.Context, objPath string) (bool, error) {
	full, err := s.fullPath(objPath)
	if err != nil {
		return false, err
	}
	fi, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "checking object")
	}
	return !fi.IsDir(), nil
}

func (s *Storage) Open(ctx context.Context, objPath string) (io.ReadCloser, error) {
	full, err := s.fullPath(objPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	return f, errors.Wrap(err, "opening object")
}
