// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package container

import (
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"
)

// ShapeMetadataKey is the Arrow column metadata key holding the field shape, as
// comma-separated dimensions.
const ShapeMetadataKey = "shape"

func arrowElementType(field Field) (arrow.DataType, error) {
	switch field.Data.(type) {
	case []string:
		return arrow.BinaryTypes.String, nil
	case []uint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case []int32:
		return arrow.PrimitiveTypes.Int32, nil
	case []int64:
		return arrow.PrimitiveTypes.Int64, nil
	case []float32:
		return arrow.PrimitiveTypes.Float32, nil
	case []float64:
		return arrow.PrimitiveTypes.Float64, nil
	}
	return nil, errors.Errorf("field %q has unsupported data type %T", field.Name, field.Data)
}

// appendValues appends data[from:to] to the builder, which must match the data type.
func appendValues(b array.Builder, data any, from, to int) {
	switch data := data.(type) {
	case []string:
		b.(*array.StringBuilder).AppendValues(data[from:to], nil)
	case []uint8:
		b.(*array.Uint8Builder).AppendValues(data[from:to], nil)
	case []int32:
		b.(*array.Int32Builder).AppendValues(data[from:to], nil)
	case []int64:
		b.(*array.Int64Builder).AppendValues(data[from:to], nil)
	case []float32:
		b.(*array.Float32Builder).AppendValues(data[from:to], nil)
	case []float64:
		b.(*array.Float64Builder).AppendValues(data[from:to], nil)
	}
}

func shapeMetadata(shape []int) arrow.Metadata {
	parts := make([]string, len(shape))
	for ii, dim := range shape {
		parts[ii] = strconv.Itoa(dim)
	}
	return arrow.NewMetadata([]string{ShapeMetadataKey}, []string{strings.Join(parts, ",")})
}

// buildArrowColumn returns the schema field and the column for field.
func buildArrowColumn(mem memory.Allocator, field Field) (arrow.Field, arrow.Array, error) {
	elemType, err := arrowElementType(field)
	if err != nil {
		return arrow.Field{}, nil, err
	}
	if len(field.Shape) == 1 {
		b := array.NewBuilder(mem, elemType)
		defer b.Release()
		appendValues(b, field.Data, 0, field.Rows())
		return arrow.Field{Name: field.Name, Type: elemType, Metadata: shapeMetadata(field.Shape)}, b.NewArray(), nil
	}

	rowSize := field.RowSize()
	listType := arrow.FixedSizeListOf(int32(rowSize), elemType)
	b := array.NewFixedSizeListBuilder(mem, int32(rowSize), elemType)
	defer b.Release()
	values := b.ValueBuilder()
	for row := range field.Rows() {
		b.Append(true)
		appendValues(values, field.Data, row*rowSize, (row+1)*rowSize)
	}
	return arrow.Field{Name: field.Name, Type: listType, Metadata: shapeMetadata(field.Shape)}, b.NewArray(), nil
}

func writeArrow(path string, fields []Field) error {
	mem := memory.NewGoAllocator()
	schemaFields := make([]arrow.Field, 0, len(fields))
	columns := make([]arrow.Array, 0, len(fields))
	defer func() {
		for _, col := range columns {
			col.Release()
		}
	}()
	for _, field := range fields {
		schemaField, col, err := buildArrowColumn(mem, field)
		if err != nil {
			return err
		}
		schemaFields = append(schemaFields, schemaField)
		columns = append(columns, col)
	}
	schema := arrow.NewSchema(schemaFields, nil)
	rec := array.NewRecord(schema, columns, int64(fields[0].Rows()))
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create Arrow file %q", path)
	}
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(mem), ipc.WithZstd())
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to create Arrow writer for %q", path)
	}
	if err = w.Write(rec); err != nil {
		_ = w.Close()
		_ = f.Close()
		return errors.Wrapf(err, "failed writing record to %q", path)
	}
	if err = w.Close(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed finishing Arrow file %q", path)
	}
	return errors.Wrapf(f.Close(), "failed closing %q", path)
}

// parseShapeMetadata is the reverse of shapeMetadata.
func parseShapeMetadata(md arrow.Metadata) ([]int, error) {
	value, found := md.GetValue(ShapeMetadataKey)
	if !found {
		return nil, errors.Errorf("missing %q metadata", ShapeMetadataKey)
	}
	parts := strings.Split(value, ",")
	shape := make([]int, len(parts))
	for ii, part := range parts {
		dim, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %q metadata %q", ShapeMetadataKey, value)
		}
		shape[ii] = dim
	}
	return shape, nil
}

// columnValues returns a copy of the flat values of a primitive or string column.
func columnValues(col arrow.Array) (any, error) {
	switch col := col.(type) {
	case *array.String:
		values := make([]string, col.Len())
		for ii := range values {
			values[ii] = col.Value(ii)
		}
		return values, nil
	case *array.Uint8:
		return slices.Clone(col.Uint8Values()), nil
	case *array.Int32:
		return slices.Clone(col.Int32Values()), nil
	case *array.Int64:
		return slices.Clone(col.Int64Values()), nil
	case *array.Float32:
		return slices.Clone(col.Float32Values()), nil
	case *array.Float64:
		return slices.Clone(col.Float64Values()), nil
	case *array.FixedSizeList:
		return columnValues(col.ListValues())
	}
	return nil, errors.Errorf("unsupported Arrow column type %s", col.DataType())
}

// ReadArrow reads back the fields of an Arrow IPC file written by Write.
func ReadArrow(path string) ([]Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open Arrow file %q", path)
	}
	defer func() { _ = f.Close() }()
	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read Arrow file %q", path)
	}
	defer func() { _ = r.Close() }()
	if r.NumRecords() != 1 {
		return nil, errors.Errorf("Arrow file %q has %d record batches, expected 1", path, r.NumRecords())
	}
	rec, err := r.Record(0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read record from %q", path)
	}
	schema := rec.Schema()
	fields := make([]Field, 0, schema.NumFields())
	for ii, schemaField := range schema.Fields() {
		shape, err := parseShapeMetadata(schemaField.Metadata)
		if err != nil {
			return nil, errors.WithMessagef(err, "field %q of %q", schemaField.Name, path)
		}
		data, err := columnValues(rec.Column(ii))
		if err != nil {
			return nil, errors.WithMessagef(err, "field %q of %q", schemaField.Name, path)
		}
		fields = append(fields, Field{Name: schemaField.Name, DType: dtypeOf(data), Shape: shape, Data: data})
	}
	if err = Validate(fields); err != nil {
		return nil, errors.WithMessagef(err, "reading %q", path)
	}
	return fields, nil
}
