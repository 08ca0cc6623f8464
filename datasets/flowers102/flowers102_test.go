// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package flowers102

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/ml-data-kit/mldatakit/pkg/container"
	"github.com/ml-data-kit/mldatakit/pkg/ingest"
	"github.com/ml-data-kit/mldatakit/pkg/support/sets"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createImages writes numImages small images named like the dataset ones in dataDir/jpg.
// Even-numbered images are greyscale.
func createImages(t *testing.T, dataDir string, numImages int) {
	dir := filepath.Join(dataDir, ImagesDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for idx := 1; idx <= numImages; idx++ {
		var img image.Image
		if idx%2 == 0 {
			g := image.NewGray(image.Rect(0, 0, 12, 9))
			for ii := range g.Pix {
				g.Pix[ii] = uint8(ii * idx)
			}
			img = g
		} else {
			rgba := image.NewNRGBA(image.Rect(0, 0, 9, 12))
			for y := range 12 {
				for x := range 9 {
					rgba.SetNRGBA(x, y, color.NRGBA{R: uint8(10 * x), G: uint8(10 * y), B: uint8(idx), A: 255})
				}
			}
			img = rgba
		}
		f := must.M1(os.Create(filepath.Join(dir, fmt.Sprintf("image_%05d.jpg", idx))))
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
}

func sampleMetadata() *Metadata {
	return &Metadata{
		Splits: map[string]sets.Set[int]{
			"train": sets.MakeWith(1, 2, 3),
			"val":   sets.MakeWith(4),
			"test":  sets.MakeWith(5, 6),
		},
		LabelLookup: []int{3, 1, 3, 2, 1, 2},
	}
}

func TestToInts(t *testing.T) {
	ints, err := toInts([]any{uint8(3), uint16(8000), int32(-1), float64(7)})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 8000, -1, 7}, ints)

	_, err = toInts([]any{uint8(1), "two"})
	require.Error(t, err)
}

func TestLoadMetadataMissingFiles(t *testing.T) {
	_, err := LoadMetadata(t.TempDir())
	require.Error(t, err)
}

func TestVocabularyAndLabeler(t *testing.T) {
	md := sampleMetadata()
	vocabulary := md.Vocabulary()
	assert.Equal(t, []string{"1", "2", "3"}, vocabulary.IDs())

	labeler := md.Labeler(vocabulary)
	label, id, err := labeler("image_00001.jpg")
	require.NoError(t, err)
	assert.Equal(t, 2, label)
	assert.Equal(t, "3", id)

	_, _, err = labeler("image_00007.jpg")
	assert.True(t, errors.Is(err, ingest.ErrMissingMembership))
	_, _, err = labeler("image_00000.jpg")
	assert.True(t, errors.Is(err, ingest.ErrMissingMembership))
	_, _, err = labeler("README.txt")
	require.Error(t, err)

	// With all categories present, label is the category id minus one.
	full := &Metadata{LabelLookup: make([]int, NumLabels)}
	for ii := range full.LabelLookup {
		full.LabelLookup[ii] = NumLabels - ii
	}
	vocabulary = full.Vocabulary()
	require.Equal(t, NumLabels, vocabulary.Len())
	label, _, err = full.Labeler(vocabulary)("image_00001.jpg")
	require.NoError(t, err)
	assert.Equal(t, NumLabels-1, label)

	names := CategoryNames()
	assert.Len(t, names, NumLabels)
	assert.Equal(t, "pink primrose", names["1"])
	assert.Equal(t, Names[NumLabels-1], names[strconv.Itoa(NumLabels)])
}

func TestConvert(t *testing.T) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	createImages(t, dataDir, 6)
	summaries, err := Convert(sampleMetadata(), Options{
		DataDir:        dataDir,
		OutputDir:      outDir,
		Extension:      ".arrow",
		WithLabelNames: true,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	for ii, split := range Splits {
		assert.Equal(t, split.Name, summaries[ii].Split)
		assert.Equal(t, []int{ImageSize, ImageSize, 3}, summaries[ii].ImageShape)
		assert.Equal(t, 3, summaries[ii].Categories)
		assert.Greater(t, summaries[ii].Bytes, int64(0))
	}
	assert.Equal(t, []int{3, 1, 2}, []int{summaries[0].Rows, summaries[1].Rows, summaries[2].Rows})

	fields, err := container.ReadArrow(filepath.Join(outDir, "train.arrow"))
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, ingest.FieldImages, fields[0].Name)
	assert.Equal(t, []int{3, ImageSize, ImageSize, 3}, fields[0].Shape)
	assert.Equal(t, []int32{2, 0, 2}, fields[1].Data)
	assert.Equal(t, []string{"image_00001.jpg", "image_00002.jpg", "image_00003.jpg"}, fields[2].Data)
	assert.Equal(t, ingest.FieldCategoryNames, fields[3].Name)
	assert.Equal(t, []string{"canterbury bells", "pink primrose", "canterbury bells"}, fields[3].Data)

	// Greyscale image #2 has 3 identical channels after resizing.
	pixels := fields[0].Data.([]uint8)
	imageSize := ImageSize * ImageSize * 3
	grey := pixels[imageSize : 2*imageSize]
	for ii := 0; ii < len(grey); ii += 3 {
		require.Equal(t, grey[ii], grey[ii+1])
		require.Equal(t, grey[ii], grey[ii+2])
	}
}

func TestConvertSelectedSplits(t *testing.T) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	createImages(t, dataDir, 6)
	summaries, err := Convert(sampleMetadata(), Options{
		DataDir:            dataDir,
		OutputDir:          outDir,
		Extension:          ".arrow",
		Splits:             []string{"test"},
		ResizeWhileLoading: true,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	fields, err := container.ReadArrow(summaries[0].Path)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, []int32{0, 1}, fields[1].Data)
	_, err = os.Stat(filepath.Join(outDir, "train.arrow"))
	assert.True(t, os.IsNotExist(err))

	_, err = Convert(sampleMetadata(), Options{DataDir: dataDir, OutputDir: outDir, Splits: []string{"holdout"}})
	require.Error(t, err)
}

func TestConvertMissingImages(t *testing.T) {
	dataDir := t.TempDir()
	createImages(t, dataDir, 4)
	_, err := Convert(sampleMetadata(), Options{DataDir: dataDir, OutputDir: t.TempDir(), Extension: ".arrow", Splits: []string{"test"}})
	require.Error(t, err)
}

// testdata holds small MATLAB v5 files laid out like the dataset ones: setid.mat has uint16
// row vectors trnid = [1 2 3 4 1000], valid = [5 6 7], tstid = [8 9 10 11 12], and
// imagelabels.mat has the uint8 row vector labels = [77 77 1 5 102 1 5 77 102 1 5 77].
func TestLoadMetadata(t *testing.T) {
	md, err := LoadMetadata("testdata")
	require.NoError(t, err)
	require.Len(t, md.Splits, 3)
	assert.Equal(t, sets.MakeWith(1, 2, 3, 4, 1000), md.Splits["train"])
	assert.Equal(t, sets.MakeWith(5, 6, 7), md.Splits["val"])
	assert.Equal(t, sets.MakeWith(8, 9, 10, 11, 12), md.Splits["test"])

	assert.Equal(t, []int{77, 77, 1, 5, 102, 1, 5, 77, 102, 1, 5, 77}, md.LabelLookup)
	assert.Equal(t, []string{"1", "5", "77", "102"}, md.Vocabulary().IDs())
	labeler := md.Labeler(md.Vocabulary())
	label, id, err := labeler("image_00005.jpg")
	require.NoError(t, err)
	assert.Equal(t, "102", id)
	assert.Equal(t, 3, label)
	label, id, err = labeler("image_00012.jpg")
	require.NoError(t, err)
	assert.Equal(t, "77", id)
	assert.Equal(t, 2, label)
}

func TestLoadMetadataMissingVariable(t *testing.T) {
	// imagelabels.mat has no split variables.
	_, err := LoadSplits(filepath.Join("testdata", LabelsFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trnid")
}

func TestCheckDisjoint(t *testing.T) {
	splits := sampleMetadata().Splits
	require.NoError(t, checkDisjoint(splits))
	splits["test"].Insert(4)
	err := checkDisjoint(splits)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"val" and "test"`)
}
