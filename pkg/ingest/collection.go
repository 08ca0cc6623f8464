// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"slices"

	"github.com/ml-data-kit/mldatakit/pkg/container"
	"github.com/ml-data-kit/mldatakit/pkg/images"
	"github.com/pkg/errors"
)

// Names of the container fields.
const (
	FieldImages        = "x"
	FieldLabels        = "y"
	FieldImageNames    = "image_names"
	FieldCategoryIDs   = "wnids"
	FieldCategoryNames = "label_names"
)

// Record is one loaded image.
type Record struct {
	Name         string
	Image        *images.Tensor
	Label        int
	CategoryID   string
	CategoryName string
}

// Collection holds the index-aligned arrays of one split: row i of every
// slice describes the same image.
//
// CategoryIDs and CategoryNames are only filled if the collection was created
// with them enabled.
type Collection struct {
	Images        []*images.Tensor
	Labels        []int32
	Names         []string
	CategoryIDs   []string
	CategoryNames []string

	withIDs, withNames bool
}

// NewCollection creates an empty collection, optionally holding category ids and names.
func NewCollection(withCategoryIDs, withCategoryNames bool) *Collection {
	return &Collection{withIDs: withCategoryIDs, withNames: withCategoryNames}
}

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.Images) }

// Append adds a record to every array.
func (c *Collection) Append(r Record) {
	c.Images = append(c.Images, r.Image)
	c.Labels = append(c.Labels, int32(r.Label))
	c.Names = append(c.Names, r.Name)
	if c.withIDs {
		c.CategoryIDs = append(c.CategoryIDs, r.CategoryID)
	}
	if c.withNames {
		c.CategoryNames = append(c.CategoryNames, r.CategoryName)
	}
}

// Validate checks that all arrays have the same length, and that all images share the same shape.
func (c *Collection) Validate() error {
	n := len(c.Images)
	if len(c.Labels) != n || len(c.Names) != n {
		return errors.Errorf("collection is not aligned: %d images, %d labels, %d names", n, len(c.Labels), len(c.Names))
	}
	if c.withIDs && len(c.CategoryIDs) != n {
		return errors.Errorf("collection is not aligned: %d images, %d category ids", n, len(c.CategoryIDs))
	}
	if c.withNames && len(c.CategoryNames) != n {
		return errors.Errorf("collection is not aligned: %d images, %d category names", n, len(c.CategoryNames))
	}
	for ii, img := range c.Images {
		if !slices.Equal(img.Shape(), c.Images[0].Shape()) {
			return errors.Errorf("image #%d (%q) has shape %v, but image #0 (%q) has shape %v -- all images must have the same shape",
				ii, c.Names[ii], img.Shape(), c.Names[0], c.Images[0].Shape())
		}
	}
	return nil
}

// Fields returns the container fields in their fixed order: x, y, image_names and,
// if enabled, wnids and label_names.
func (c *Collection) Fields() ([]container.Field, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := c.Len()
	var height, width int
	if n > 0 {
		height, width = c.Images[0].Height, c.Images[0].Width
	}
	pixels := make([]uint8, 0, n*height*width*images.Channels)
	for _, img := range c.Images {
		pixels = append(pixels, img.Data...)
	}
	fields := []container.Field{
		container.NumericField(FieldImages, []int{n, height, width, images.Channels}, pixels),
		container.NumericField(FieldLabels, []int{n}, c.Labels),
		container.StringField(FieldImageNames, c.Names),
	}
	if c.withIDs {
		fields = append(fields, container.StringField(FieldCategoryIDs, c.CategoryIDs))
	}
	if c.withNames {
		fields = append(fields, container.StringField(FieldCategoryNames, c.CategoryNames))
	}
	return fields, nil
}
