// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package container

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

// targetChunkBytes is the approximate size of the HDF5 chunks.
const targetChunkBytes = 1 << 20

// h5TypeForDType returns the HDF5 native type for dtype, or nil if not supported.
func h5TypeForDType(dtype dtypes.DType) *hdf5.Datatype {
	switch dtype {
	case dtypes.Uint8:
		return hdf5.T_NATIVE_UINT8
	case dtypes.Int32:
		return hdf5.T_NATIVE_INT32
	case dtypes.Int64:
		return hdf5.T_NATIVE_INT64
	case dtypes.Float32:
		return hdf5.T_NATIVE_FLOAT
	case dtypes.Float64:
		return hdf5.T_NATIVE_DOUBLE
	}
	return nil
}

func writeHDF5(path string, level int, fields []Field) error {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return errors.Wrapf(err, "failed to create HDF5 file %q", path)
	}
	for _, field := range fields {
		if err = writeHDF5Dataset(f, field, level); err != nil {
			_ = f.Close()
			return errors.WithMessagef(err, "in HDF5 file %q", path)
		}
	}
	return errors.Wrapf(f.Close(), "failed closing HDF5 file %q", path)
}

// chunkDims returns chunk dimensions of roughly targetChunkBytes, split along the rows.
func chunkDims(dims []uint, elementSize int) []uint {
	rowBytes := elementSize
	for _, dim := range dims[1:] {
		rowBytes *= int(dim)
	}
	rowsPerChunk := uint(max(1, targetChunkBytes/max(1, rowBytes)))
	chunk := make([]uint, len(dims))
	copy(chunk, dims)
	chunk[0] = min(dims[0], rowsPerChunk)
	return chunk
}

func writeHDF5Dataset(f *hdf5.File, field Field, level int) (err error) {
	dims := make([]uint, len(field.Shape))
	isEmpty := false
	for ii, dim := range field.Shape {
		dims[ii] = uint(dim)
		isEmpty = isEmpty || dim == 0
	}

	var dtype *hdf5.Datatype
	var buf any
	var elementSize int
	if strs, ok := field.Data.([]string); ok {
		width := 1
		for _, s := range strs {
			width = max(width, len(s))
		}
		if dtype, err = hdf5.T_C_S1.Copy(); err != nil {
			return errors.Wrapf(err, "failed to create string type for %q", field.Name)
		}
		defer func() { _ = dtype.Close() }()
		if err = dtype.SetSize(width); err != nil {
			return errors.Wrapf(err, "failed to set string size %d for %q", width, field.Name)
		}
		packed := make([]byte, len(strs)*width)
		for ii, s := range strs {
			copy(packed[ii*width:], s)
		}
		buf, elementSize = &packed, width
	} else {
		dtype = h5TypeForDType(field.DType)
		if dtype == nil {
			return errors.Errorf("field %q: dtype %s not supported by HDF5 writer", field.Name, field.DType)
		}
		elementSize = int(field.DType.Memory())
		switch data := field.Data.(type) {
		case []uint8:
			buf = &data
		case []int32:
			buf = &data
		case []int64:
			buf = &data
		case []float32:
			buf = &data
		case []float64:
			buf = &data
		}
	}

	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to create dataspace %v for %q", dims, field.Name)
	}
	defer func() { _ = space.Close() }()

	dcpl, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return errors.Wrapf(err, "failed to create property list for %q", field.Name)
	}
	defer func() { _ = dcpl.Close() }()
	if !isEmpty {
		// Empty datasets can't be chunked, they are left contiguous and uncompressed.
		if err = dcpl.SetChunk(chunkDims(dims, elementSize)); err != nil {
			return errors.Wrapf(err, "failed to set chunking for %q", field.Name)
		}
		if err = dcpl.SetDeflate(level); err != nil {
			return errors.Wrapf(err, "failed to set gzip compression for %q", field.Name)
		}
	}

	ds, err := f.CreateDatasetWith(field.Name, dtype, space, dcpl)
	if err != nil {
		return errors.Wrapf(err, "failed to create dataset %q", field.Name)
	}
	defer func() {
		if closeErr := ds.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "failed closing dataset %q", field.Name)
		}
	}()
	if isEmpty {
		return nil
	}
	if err = ds.Write(buf); err != nil {
		return errors.Wrapf(err, "failed writing dataset %q", field.Name)
	}
	return nil
}
