// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package downloader

import (
	"archive/tar"
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Extract the archive at archivePath into destDir, choosing the format by suffix:
// ".zip", ".tar", ".tar.gz"/".tgz" or ".tar.bz2"/".tbz2".
func Extract(archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create extraction directory %q", destDir)
	}
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return Unzip(archivePath, destDir)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"),
		strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"),
		strings.HasSuffix(lower, ".tar"):
		return Untar(archivePath, destDir)
	}
	return errors.Errorf("don't know how to extract %q: unknown archive suffix", archivePath)
}

// Untar extracts tarFile into destDir, decompressing according to the suffix: .gz/.tgz for
// gzip, .bz2/.tbz2 for bzip2.
func Untar(tarFile, destDir string) error {
	f, err := os.Open(tarFile)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", tarFile)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	lower := strings.ToLower(tarFile)
	switch {
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "failed to un-gzip %q", tarFile)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	case strings.HasSuffix(lower, ".bz2"), strings.HasSuffix(lower, ".tbz2"):
		r = bzip2.NewReader(f)
	}

	tr := tar.NewReader(r)
	var count int
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "failed reading tar %q", tarFile)
		}
		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return errors.WithMessagef(err, "in %q", tarFile)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err = os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, "failed to create directory %q", target)
			}
		case tar.TypeReg:
			if err = writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
			count++
		default:
			klog.V(2).Infof("Skipping %q in %q: unsupported tar entry type %q", hdr.Name, tarFile, hdr.Typeflag)
		}
	}
	klog.V(1).Infof("Extracted %d files from %q", count, tarFile)
	return nil
}

// Unzip extracts zipFile into destDir.
func Unzip(zipFile, destDir string) error {
	zr, err := zip.OpenReader(zipFile)
	if err != nil {
		return errors.Wrapf(err, "failed to open zip %q", zipFile)
	}
	defer func() { _ = zr.Close() }()

	var count int
	for _, entry := range zr.File {
		target, err := safeJoin(destDir, entry.Name)
		if err != nil {
			return errors.WithMessagef(err, "in %q", zipFile)
		}
		if entry.FileInfo().IsDir() {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrapf(err, "failed to create directory %q", target)
			}
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return errors.Wrapf(err, "failed to open %q in %q", entry.Name, zipFile)
		}
		err = writeFile(target, rc, entry.Mode().Perm())
		_ = rc.Close()
		if err != nil {
			return err
		}
		count++
	}
	klog.V(1).Infof("Extracted %d files from %q", count, zipFile)
	return nil
}

// safeJoin joins name to destDir, failing if the result escapes destDir.
func safeJoin(destDir, name string) (string, error) {
	base := filepath.Clean(destDir)
	target := filepath.Join(base, name)
	if target != base && !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", errors.Errorf("archive entry %q points outside of %q", name, destDir)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %q", target)
	}
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", target)
	}
	if _, err = io.Copy(out, r); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "failed to write %q", target)
	}
	return errors.Wrapf(out.Close(), "failed closing %q", target)
}
