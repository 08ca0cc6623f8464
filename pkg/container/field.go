// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package container

import (
	"fmt"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// ErrInconsistentFields is returned (wrapped) when the fields given to Write don't
// describe the same rows.
var ErrInconsistentFields = errors.New("inconsistent container fields")

// Number is the set of element types supported for numeric fields.
type Number interface {
	uint8 | int32 | int64 | float32 | float64
}

// Field is one named array of a container. The first dimension of Shape is the row
// (example) dimension, shared by all fields of a container.
type Field struct {
	Name string

	// DType of the elements, dtypes.InvalidDType for string fields.
	DType dtypes.DType

	// Shape of the array, with at least a rank of 1.
	Shape []int

	// Data holds the values flat in row-major order: a []T for numeric fields, []string for strings.
	Data any
}

// NumericField creates a field with the given shape from the flat data.
func NumericField[T Number](name string, shape []int, data []T) Field {
	return Field{Name: name, DType: dtypes.FromGenericsType[T](), Shape: shape, Data: data}
}

// StringField creates a rank-1 field of strings.
func StringField(name string, data []string) Field {
	return Field{Name: name, DType: dtypes.InvalidDType, Shape: []int{len(data)}, Data: data}
}

// IsString returns whether the field holds strings.
func (f Field) IsString() bool {
	_, ok := f.Data.([]string)
	return ok
}

// Rows returns the size of the first dimension.
func (f Field) Rows() int {
	if len(f.Shape) == 0 {
		return 0
	}
	return f.Shape[0]
}

// Size returns the number of elements described by the shape.
func (f Field) Size() int {
	size := 1
	for _, dim := range f.Shape {
		size *= dim
	}
	return size
}

// RowSize returns the number of elements per row.
func (f Field) RowSize() int {
	rowSize := 1
	for _, dim := range f.Shape[1:] {
		rowSize *= dim
	}
	return rowSize
}

func (f Field) dataLen() (int, error) {
	switch data := f.Data.(type) {
	case []string:
		return len(data), nil
	case []uint8:
		return len(data), nil
	case []int32:
		return len(data), nil
	case []int64:
		return len(data), nil
	case []float32:
		return len(data), nil
	case []float64:
		return len(data), nil
	}
	return 0, errors.Errorf("field %q has unsupported data type %T", f.Name, f.Data)
}

// String implements fmt.Stringer.
func (f Field) String() string {
	if f.IsString() {
		return fmt.Sprintf("%s: string%v", f.Name, f.Shape)
	}
	return fmt.Sprintf("%s: %s%v", f.Name, f.DType, f.Shape)
}

// Validate checks that fields are mutually consistent: unique non-empty names,
// shapes of rank >= 1 sharing the same number of rows, and data matching the shapes.
// Errors wrap ErrInconsistentFields.
func Validate(fields []Field) error {
	if len(fields) == 0 {
		return errors.Wrap(ErrInconsistentFields, "no fields given")
	}
	names := make(map[string]bool, len(fields))
	rows := -1
	for _, field := range fields {
		if field.Name == "" {
			return errors.Wrap(ErrInconsistentFields, "field with empty name")
		}
		if names[field.Name] {
			return errors.Wrapf(ErrInconsistentFields, "field %q given more than once", field.Name)
		}
		names[field.Name] = true
		if len(field.Shape) == 0 {
			return errors.Wrapf(ErrInconsistentFields, "field %q has no shape", field.Name)
		}
		for _, dim := range field.Shape {
			if dim < 0 {
				return errors.Wrapf(ErrInconsistentFields, "field %q has negative dimension in shape %v", field.Name, field.Shape)
			}
		}
		n, err := field.dataLen()
		if err != nil {
			return errors.Wrap(ErrInconsistentFields, err.Error())
		}
		if n != field.Size() {
			return errors.Wrapf(ErrInconsistentFields, "field %q has shape %v (%d elements) but %d values",
				field.Name, field.Shape, field.Size(), n)
		}
		if field.IsString() {
			if len(field.Shape) != 1 {
				return errors.Wrapf(ErrInconsistentFields, "string field %q must have rank 1, got shape %v", field.Name, field.Shape)
			}
		} else if expected := dtypeOf(field.Data); field.DType != expected {
			return errors.Wrapf(ErrInconsistentFields, "field %q declared as %s but holds %s values", field.Name, field.DType, expected)
		}
		if rows == -1 {
			rows = field.Rows()
		} else if field.Rows() != rows {
			return errors.Wrapf(ErrInconsistentFields, "field %q has %d rows, but field %q has %d rows",
				field.Name, field.Rows(), fields[0].Name, rows)
		}
	}
	return nil
}

func dtypeOf(data any) dtypes.DType {
	switch data.(type) {
	case []uint8:
		return dtypes.FromGenericsType[uint8]()
	case []int32:
		return dtypes.FromGenericsType[int32]()
	case []int64:
		return dtypes.FromGenericsType[int64]()
	case []float32:
		return dtypes.FromGenericsType[float32]()
	case []float64:
		return dtypes.FromGenericsType[float64]()
	}
	return dtypes.InvalidDType
}
