package template

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core"
)

// UnknownTemplateError means the id is not in the catalog: a caller error.
type UnknownTemplateError struct {
	ID string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q", e.ID)
}

// ArtifactMissingError means the id is known but no format candidate has a
// backing artifact: an operational/config error, not a user error.
type ArtifactMissingError struct {
	ID       string
	BaseName string
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("no artifact found for template %q (base %q)", e.ID, e.BaseName)
}

// NotFound reports whether err is either resolver not-found subtype.
func NotFound(err error) bool {
	switch errors.Cause(err).(type) {
	case *UnknownTemplateError, *ArtifactMissingError:
		return true
	}
	return false
}

// Resolved is a successfully resolved template artifact.
type Resolved struct {
	Descriptor  Descriptor
	Filename    string // actual artifact filename, with the matched extension
	ContentType string

	path string
}

// Resolver maps logical template ids to physical artifacts by probing the
// ordered format candidates against the file store.
type Resolver struct {
	storage core.FileStorage
	prefix  string
	catalog []Descriptor
	byID    map[string]Descriptor
}

func NewResolver(storage core.FileStorage, prefix string, catalog []Descriptor) *Resolver {
	byID := make(map[string]Descriptor, len(catalog))
	for _, desc := range catalog {
		byID[desc.ID] = desc
	}
	return &Resolver{storage: storage, prefix: prefix, catalog: catalog, byID: byID}
}

// Catalog returns the catalog entries in declaration order.
func (r *Resolver) Catalog() []Descriptor {
	out := make([]Descriptor, len(r.catalog))
	copy(out, r.catalog)
	return out
}

// Resolve returns the first format candidate whose backing artifact exists.
// Side-effect-free and safely repeatable.
func (r *Resolver) Resolve(ctx context.Context, id string) (Resolved, error) {
	desc, ok := r.byID[id]
	if !ok {
		return Resolved{}, &UnknownTemplateError{ID: id}
	}

	for _, format := range Formats {
		name := desc.BaseName + format.Ext
		objPath := path.Join(r.prefix, name)
		exists, err := r.storage.Exists(ctx, objPath)
		if err != nil {
			return Resolved{}, errors.Wrapf(err, "probing template artifact %s", objPath)
		}
		if exists {
			return Resolved{
				Descriptor:  desc,
				Filename:    name,
				ContentType: format.ContentType,
				path:        objPath,
			}, nil
		}
	}
	return Resolved{}, &ArtifactMissingError{ID: id, BaseName: desc.BaseName}
}

// Open returns the resolved artifact's byte stream.
func (r *Resolver) Open(ctx context.Context, res Resolved) (io.ReadCloser, error) {
	rc, err := r.storage.Open(ctx, res.path)
	return rc, errors.Wrapf(err, "opening template artifact %s", res.path)
}
