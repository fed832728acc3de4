// Package archive packages named outputs into a single zip container.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
)

// ErrDuplicateEntry is returned by Add when the entry name is already
// present in the archive.
var ErrDuplicateEntry = errors.New("duplicate entry name")

// Builder collects named blobs and finalizes them into one zip archive.
// The zero value is not usable, call New.
type Builder struct {
	buf  *bytes.Buffer
	zw   *zip.Writer
	seen map[string]struct{}
	n    int
}

// New returns an empty archive builder.
func New() *Builder {
	buf := &bytes.Buffer{}
	return &Builder{buf: buf, zw: zip.NewWriter(buf), seen: map[string]struct{}{}}
}

// Add appends one named entry. Entry names must be unique within the
// archive.
func (b *Builder) Add(name string, data []byte) error {
	if _, ok := b.seen[name]; ok {
		return fmt.Errorf("add %s to archive: %w", name, ErrDuplicateEntry)
	}
	b.seen[name] = struct{}{}
	w, err := b.zw.Create(name)
	if err != nil {
		return fmt.Errorf("add %s to archive: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("add %s to archive: %w", name, err)
	}
	b.n++
	return nil
}

// Len reports how many entries have been added.
func (b *Builder) Len() int { return b.n }

// Finalize closes the archive and returns its bytes. The builder is
// spent afterwards.
func (b *Builder) Finalize() ([]byte, error) {
	if err := b.zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return b.buf.Bytes(), nil
}
