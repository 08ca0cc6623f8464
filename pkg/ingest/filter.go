// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ml-data-kit/mldatakit/pkg/support/sets"
)

// Filter selects which files of the walked directory are images to load.
// It is given the base name of the file.
type Filter func(fileName string) bool

var indexDelimiters = regexp.MustCompile(`[._]+`)

// ImageIndex parses the image index from a file name: the second token when the
// name is split on runs of '.' and '_' ("image_00012.jpg" -> 12).
func ImageIndex(fileName string) (int, bool) {
	parts := indexDelimiters.Split(fileName, -1)
	if len(parts) < 2 {
		return 0, false
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return index, true
}

// IndexFilter admits files whose ImageIndex is in the set.
func IndexFilter(indices sets.Set[int]) Filter {
	return func(fileName string) bool {
		index, ok := ImageIndex(fileName)
		return ok && indices.Has(index)
	}
}

// ExtensionFilter admits files with one of the given extensions (without the dot),
// case-insensitive.
func ExtensionFilter(extensions ...string) Filter {
	admitted := sets.Make[string](len(extensions))
	for _, ext := range extensions {
		admitted.Insert(strings.ToLower(strings.TrimPrefix(ext, ".")))
	}
	return func(fileName string) bool {
		ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
		return ext != "" && admitted.Has(strings.ToLower(ext))
	}
}

// ImageExtensions are the extensions admitted by default for image folders.
var ImageExtensions = []string{"jpeg", "jpg", "png"}
