// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package container

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/hdf5"
)

// sampleFields has 2 rows of 2x2x3 images.
func sampleFields() []Field {
	pixels := make([]uint8, 2*2*2*3)
	for ii := range pixels {
		pixels[ii] = uint8(ii)
	}
	return []Field{
		NumericField("x", []int{2, 2, 2, 3}, pixels),
		NumericField("y", []int{2}, []int32{0, 1}),
		StringField("image_names", []string{"img1.jpg", "image_00002.jpg"}),
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(sampleFields()))

	testCases := []struct {
		name   string
		modify func([]Field) []Field
	}{
		{"no fields", func([]Field) []Field { return nil }},
		{"mismatched rows", func(f []Field) []Field {
			f[1] = NumericField("y", []int{3}, []int32{0, 1, 2})
			return f
		}},
		{"data shorter than shape", func(f []Field) []Field {
			f[0].Shape = []int{2, 2, 2, 4}
			return f
		}},
		{"duplicate name", func(f []Field) []Field {
			f[2].Name = "y"
			return f
		}},
		{"empty name", func(f []Field) []Field {
			f[1].Name = ""
			return f
		}},
		{"no shape", func(f []Field) []Field {
			f[1].Shape = nil
			return f
		}},
		{"wrong dtype", func(f []Field) []Field {
			f[1].DType = dtypes.Int64
			return f
		}},
		{"unsupported data", func(f []Field) []Field {
			f[1].Data = []bool{true, false}
			return f
		}},
		{"string rank 2", func(f []Field) []Field {
			f[2].Shape = []int{2, 1}
			return f
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.modify(sampleFields()))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInconsistentFields), "error %v should wrap ErrInconsistentFields", err)
		})
	}
}

func TestFieldHelpers(t *testing.T) {
	fields := sampleFields()
	assert.Equal(t, dtypes.Uint8, fields[0].DType)
	assert.Equal(t, dtypes.Int32, fields[1].DType)
	assert.True(t, fields[2].IsString())
	assert.Equal(t, 2, fields[0].Rows())
	assert.Equal(t, 12, fields[0].RowSize())
	assert.Equal(t, 24, fields[0].Size())
	assert.Equal(t, "image_names: string[2]", fields[2].String())
}

func TestChunkDims(t *testing.T) {
	// Images of 256x256x3 bytes: 5 rows per 1MiB chunk.
	assert.Equal(t, []uint{5, 256, 256, 3}, chunkDims([]uint{1020, 256, 256, 3}, 1))
	// Small datasets use a single chunk.
	assert.Equal(t, []uint{10}, chunkDims([]uint{10}, 4))
}

func TestWriteRejectsInconsistentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.h5")
	fields := sampleFields()
	fields[2] = StringField("image_names", []string{"only_one.jpg"})
	err := Write(path, fields...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInconsistentFields))
	assert.NoFileExists(t, path)
}

func TestWriteUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	require.Error(t, Write(path, sampleFields()...))
	assert.NoFileExists(t, path)
}

func TestWriteArrow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.arrow")
	require.NoError(t, Write(path, sampleFields()...))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files should be left behind")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	require.Equal(t, 1, r.NumRecords())
	rec, err := r.Record(0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.NumRows())

	schema := rec.Schema()
	assert.Equal(t, "x", schema.Field(0).Name)
	shape, ok := schema.Field(0).Metadata.GetValue(ShapeMetadataKey)
	require.True(t, ok)
	assert.Equal(t, "2,2,2,3", shape)
	assert.Equal(t, arrow.FIXED_SIZE_LIST, schema.Field(0).Type.ID())

	images := rec.Column(0).(*array.FixedSizeList)
	pixels := images.ListValues().(*array.Uint8)
	assert.Equal(t, 24, pixels.Len())
	assert.Equal(t, uint8(13), pixels.Value(13))

	assert.Equal(t, []int32{0, 1}, rec.Column(1).(*array.Int32).Int32Values())
	names := rec.Column(2).(*array.String)
	assert.Equal(t, "img1.jpg", names.Value(0))
	assert.Equal(t, "image_00002.jpg", names.Value(1))
}

func TestWriteHDF5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "val.h5")
	require.NoError(t, NewWriter(9).Write(path, sampleFields()...))

	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	readDims := func(ds *hdf5.Dataset) []uint {
		space := ds.Space()
		defer func() { _ = space.Close() }()
		dims, _, err := space.SimpleExtentDims()
		require.NoError(t, err)
		return dims
	}

	x, err := f.OpenDataset("x")
	require.NoError(t, err)
	defer func() { _ = x.Close() }()
	assert.Equal(t, []uint{2, 2, 2, 3}, readDims(x))
	pixels := make([]uint8, 24)
	require.NoError(t, x.Read(&pixels))
	assert.Equal(t, sampleFields()[0].Data, pixels)

	y, err := f.OpenDataset("y")
	require.NoError(t, err)
	defer func() { _ = y.Close() }()
	labels := make([]int32, 2)
	require.NoError(t, y.Read(&labels))
	assert.Equal(t, []int32{0, 1}, labels)

	names, err := f.OpenDataset("image_names")
	require.NoError(t, err)
	defer func() { _ = names.Close() }()
	assert.Equal(t, []uint{2}, readDims(names))
	width := len("image_00002.jpg")
	packed := make([]byte, 2*width)
	require.NoError(t, names.Read(&packed))
	assert.Equal(t, "img1.jpg", strings.TrimRight(string(packed[:width]), "\x00"))
	assert.Equal(t, "image_00002.jpg", string(packed[width:]))
}

func TestWriteHDF5Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.h5")
	require.NoError(t, Write(path,
		NumericField("x", []int{0, 0, 0, 3}, []uint8{}),
		NumericField("y", []int{0}, []int32{}),
		StringField("image_names", []string{}),
	))
	assert.FileExists(t, path)
}

func TestReadArrow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.arrow")
	fields := sampleFields()
	require.NoError(t, Write(path, fields...))
	read, err := ReadArrow(path)
	require.NoError(t, err)
	assert.Equal(t, fields, read)

	_, err = ReadArrow(filepath.Join(t.TempDir(), "missing.arrow"))
	require.Error(t, err)
}
