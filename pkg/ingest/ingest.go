// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// Package ingest walks a folder of images, decodes the selected ones and assembles
// the index-aligned arrays (images, labels, names) of one dataset split.
//
// Files are processed in lexicographic order of their path relative to the folder,
// so the row order of the resulting Collection is reproducible.
package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/ml-data-kit/mldatakit/pkg/images"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultProgressEvery is the number of images between progress log lines.
const DefaultProgressEvery = 5000

// Options configure LoadSplit.
type Options struct {
	// Split name, used in log messages.
	Split string

	// Filter selects the files to load. If nil, ExtensionFilter(ImageExtensions...) is used.
	Filter Filter

	// Label resolves the label of each image. Required.
	Label LabelFunc

	// WithCategoryIDs stores the category id of each image in the collection.
	WithCategoryIDs bool

	// CategoryNames, if not nil, maps category ids to display names stored in the
	// collection. A category missing from it is an error.
	CategoryNames map[string]string

	// ResizeWidth and ResizeHeight, if both > 0, resize every image to that size.
	ResizeWidth, ResizeHeight int

	// ResizeWhileLoading resizes each image right after decoding it, instead of in a
	// second pass over the whole split. The result is the same, only peak memory differs.
	ResizeWhileLoading bool

	// ProgressEvery logs a progress line every that many images. Defaults to DefaultProgressEvery.
	ProgressEvery int
}

func (o *Options) resize() bool { return o.ResizeWidth > 0 && o.ResizeHeight > 0 }

// ListFiles returns the paths, relative to folder, of all regular files under folder
// whose base name passes the filter, sorted lexicographically.
// Symbolic links to regular files are listed; links to directories are not followed.
func ListFiles(folder string, filter Filter) ([]string, error) {
	var files []string
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isRegularFile(path, d) {
			klog.V(2).Infof("Skipping %q: not a regular file", path)
			return nil
		}
		if !filter(d.Name()) {
			klog.V(2).Infof("Skipping %q", path)
			return nil
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan images in directory %q", folder)
	}
	slices.Sort(files)
	return files, nil
}

// isRegularFile reports whether the entry is a regular file or a symbolic link to one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		klog.V(2).Infof("Can't resolve symbolic link %q: %v", path, err)
		return false
	}
	return info.Mode().IsRegular()
}

// LoadSplit loads all images under folder selected by the options' filter, and
// returns the assembled collection.
//
// Any error (decoding, label resolution) aborts the load.
func LoadSplit(folder string, opts Options) (*Collection, error) {
	if opts.Label == nil {
		return nil, errors.Errorf("ingest.LoadSplit(%q): Options.Label is required", folder)
	}
	filter := opts.Filter
	if filter == nil {
		filter = ExtensionFilter(ImageExtensions...)
	}
	progressEvery := opts.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = DefaultProgressEvery
	}

	klog.Infof("Loading %s images from %q ...", opts.Split, folder)
	start := time.Now()
	files, err := ListFiles(folder, filter)
	if err != nil {
		return nil, err
	}
	collection := NewCollection(opts.WithCategoryIDs, opts.CategoryNames != nil)
	for _, rel := range files {
		record, err := loadRecord(filepath.Join(folder, rel), &opts)
		if err != nil {
			return nil, errors.WithMessagef(err, "loading %s split", opts.Split)
		}
		collection.Append(record)
		if collection.Len()%progressEvery == 0 {
			klog.V(1).Infof("%s: %d images processed", opts.Split, collection.Len())
		}
	}
	if opts.resize() && !opts.ResizeWhileLoading {
		images.ResizeAll(collection.Images, opts.ResizeWidth, opts.ResizeHeight)
	}
	if err = collection.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "loading %s split from %q", opts.Split, folder)
	}
	klog.Infof("Loaded %d %s images in %s", collection.Len(), opts.Split, time.Since(start).Round(time.Millisecond))
	return collection, nil
}

func loadRecord(path string, opts *Options) (Record, error) {
	name := filepath.Base(path)
	label, categoryID, err := opts.Label(name)
	if err != nil {
		return Record{}, err
	}
	record := Record{Name: name, Label: label, CategoryID: categoryID}
	if opts.CategoryNames != nil {
		categoryName, found := opts.CategoryNames[categoryID]
		if !found {
			return Record{}, errors.Wrapf(ErrUnknownCategory, "no name for category %q of image %q", categoryID, name)
		}
		record.CategoryName = categoryName
	}
	record.Image, err = images.Load(path)
	if err != nil {
		return Record{}, err
	}
	if opts.resize() && opts.ResizeWhileLoading {
		record.Image = images.Resize(record.Image, opts.ResizeWidth, opts.ResizeHeight)
	}
	return record, nil
}
