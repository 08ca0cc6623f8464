// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// Package container writes a set of named, row-aligned arrays to one compressed file.
//
// Two formats are supported, chosen by the file extension:
//
//   - ".h5" / ".hdf5": HDF5, one chunked gzip compressed dataset per field. Strings are
//     stored as fixed-length byte strings.
//   - ".arrow": Arrow IPC file with a single zstd compressed record batch, one column
//     per field. Fields of rank > 1 are stored as fixed size lists, with the full shape
//     in the column metadata under the key "shape".
//
// Fields are validated before anything is written, and the file is written under a
// temporary name and renamed at the end, so a failed write never leaves a partial
// container under the final name.
package container

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultCompressionLevel is the gzip level used for HDF5 datasets.
const DefaultCompressionLevel = 4

// Writer writes containers.
type Writer struct {
	// CompressionLevel is the gzip level (1-9) for HDF5 datasets.
	CompressionLevel int
}

// NewWriter returns a Writer with the given gzip compression level.
func NewWriter(compressionLevel int) *Writer {
	return &Writer{CompressionLevel: compressionLevel}
}

// Write the fields to a container in path, creating or overwriting it.
func Write(path string, fields ...Field) error {
	return NewWriter(DefaultCompressionLevel).Write(path, fields...)
}

// Write the fields to a container in path, creating or overwriting it.
func (w *Writer) Write(path string, fields ...Field) error {
	if err := Validate(fields); err != nil {
		return errors.WithMessagef(err, "refusing to write container %q", path)
	}
	var writeFn func(string, []Field) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".h5", ".hdf5":
		level := w.CompressionLevel
		if level <= 0 {
			level = DefaultCompressionLevel
		}
		writeFn = func(p string, f []Field) error { return writeHDF5(p, level, f) }
	case ".arrow":
		writeFn = writeArrow
	default:
		return errors.Errorf("unknown container format for %q: extension %q not supported", path, ext)
	}

	tmpPath := filepath.Join(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err := writeFn(tmpPath, fields); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WithMessagef(err, "failed writing container %q", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to move %q to %q", tmpPath, path)
	}
	klog.V(1).Infof("Wrote %d fields to %q", len(fields), path)
	return nil
}
