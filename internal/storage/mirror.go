package storage

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Mirror receives a copy of every file a pipeline run produces.
type Mirror interface {
	Mirror(ctx context.Context, name string, data []byte) error
}

// DirMirror copies files into a local directory, creating it on first use.
type DirMirror struct {
	Dir string
}

func (m DirMirror) Mirror(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.Dir, name), data, 0o644)
}

// BucketMirror uploads files under Prefix.
type BucketMirror struct {
	Bucket *Bucket
	Prefix string
}

func (m BucketMirror) Mirror(ctx context.Context, name string, data []byte) error {
	return m.Bucket.Put(ctx, path.Join(m.Prefix, name), contentType(name), data)
}

// Mirrors fans a file out to every mirror and joins their errors.
type Mirrors []Mirror

func (ms Mirrors) Mirror(ctx context.Context, name string, data []byte) error {
	var errs []error
	for _, m := range ms {
		if err := m.Mirror(ctx, name, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func contentType(name string) string {
	if strings.HasSuffix(name, ".json") {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
