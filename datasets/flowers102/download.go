// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package flowers102

import (
	"os"
	"path/filepath"

	"github.com/daniellowtw/matlab"
	"github.com/ml-data-kit/mldatakit/pkg/downloader"
	"github.com/ml-data-kit/mldatakit/pkg/support/sets"
	"github.com/ml-data-kit/mldatakit/pkg/support/xslices"
	"github.com/pkg/errors"
)

// DefaultBaseURL where the dataset files are downloaded from.
const DefaultBaseURL = "https://www.robots.ox.ac.uk/~vgg/data/flowers/102/"

// Files of the dataset, relative to the base URL and to the data directory.
const (
	ImagesArchive = "102flowers.tgz"
	ImagesDir     = "jpg"
	SetIDFile     = "setid.mat"
	LabelsFile    = "imagelabels.mat"
)

// Checksums (SHA256) of the side files. The images archive changes checksum on every download.
var Checksums = map[string]string{
	LabelsFile: "4903e94206bac23bf772aadf06451916df56b58fc483a62db32a97b82656651d",
	SetIDFile:  "46b8678f91fd95d3c8f4feab80d271a6c834a1dd896fe29fd3e6ad9ce5c8dccd",
}

// SplitVar names a split and its variable in setid.mat.
type SplitVar struct{ Name, Var string }

// Split names, which are also the output file names, and the variable in setid.mat holding
// the image indices of each.
var Splits = []SplitVar{
	{"train", "trnid"},
	{"val", "valid"},
	{"test", "tstid"},
}

// Download the images archive (and extracts it) and the two side files into dataDir, unless
// they are already there.
func Download(fetcher *downloader.Fetcher, baseURL, dataDir string) error {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create data directory %q", dataDir)
	}
	err := fetcher.EnsureDatasetPresent(filepath.Join(dataDir, ImagesDir), baseURL+ImagesArchive,
		filepath.Join(dataDir, ImagesArchive), dataDir)
	if err != nil {
		return errors.WithMessage(err, "Oxford Flowers 102 images")
	}
	for _, file := range []string{SetIDFile, LabelsFile} {
		url := baseURL + file
		if err = fetcher.DownloadIfMissing(url, filepath.Join(dataDir, file), Checksums[file]); err != nil {
			return errors.WithMessagef(err, "failed to download %q from %q", file, url)
		}
	}
	return nil
}

// openMatlab parses the MATLAB file and returns the numeric contents of the given variables.
func openMatlab(filePath string, varNames ...string) (map[string][]int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open MATLAB file %q", filePath)
	}
	defer func() { _ = f.Close() }()

	matlabFile, err := matlab.NewFileFromReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse MATLAB file %q", filePath)
	}
	vars := make(map[string][]int, len(varNames))
	for _, name := range varNames {
		v, found := matlabFile.GetVar(name)
		if !found {
			return nil, errors.Errorf("variable %q not found in MATLAB file %q", name, filePath)
		}
		vars[name], err = toInts(v.Value())
		if err != nil {
			return nil, errors.WithMessagef(err, "variable %q in MATLAB file %q", name, filePath)
		}
	}
	return vars, nil
}

// toInts converts the numeric values of a MATLAB variable to int.
func toInts(values []any) ([]int, error) {
	ints := make([]int, len(values))
	for ii, value := range values {
		switch v := value.(type) {
		case uint8:
			ints[ii] = int(v)
		case uint16:
			ints[ii] = int(v)
		case uint32:
			ints[ii] = int(v)
		case uint64:
			ints[ii] = int(v)
		case int8:
			ints[ii] = int(v)
		case int16:
			ints[ii] = int(v)
		case int32:
			ints[ii] = int(v)
		case int64:
			ints[ii] = int(v)
		case int:
			ints[ii] = v
		case float32:
			ints[ii] = int(v)
		case float64:
			ints[ii] = int(v)
		default:
			return nil, errors.Errorf("value #%d has non-numeric type %T", ii, value)
		}
	}
	return ints, nil
}

// LoadSplits reads setid.mat and returns the set of 1-based image indices of each split,
// keyed by split name. It fails if an image is listed in more than one split.
func LoadSplits(setIDPath string) (map[string]sets.Set[int], error) {
	varNames := xslices.Map(Splits, func(split SplitVar) string { return split.Var })
	vars, err := openMatlab(setIDPath, varNames...)
	if err != nil {
		return nil, err
	}
	splits := make(map[string]sets.Set[int], len(Splits))
	for _, split := range Splits {
		splits[split.Name] = sets.MakeWith(vars[split.Var]...)
	}
	if err = checkDisjoint(splits); err != nil {
		return nil, errors.WithMessagef(err, "in MATLAB file %q", setIDPath)
	}
	return splits, nil
}

// checkDisjoint fails if any two splits share an image index.
func checkDisjoint(splits map[string]sets.Set[int]) error {
	for ii, a := range Splits {
		for _, b := range Splits[ii+1:] {
			if splits[a.Name].Intersects(splits[b.Name]) {
				return errors.Errorf("splits %q and %q share images", a.Name, b.Name)
			}
		}
	}
	return nil
}

// LoadLabels reads imagelabels.mat: the category id (1-based) of image i is labels[i-1].
func LoadLabels(labelsPath string) ([]int, error) {
	vars, err := openMatlab(labelsPath, "labels")
	if err != nil {
		return nil, err
	}
	return vars["labels"], nil
}
