// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"slices"

	"github.com/ml-data-kit/mldatakit/pkg/support/xslices"
	"github.com/pkg/errors"
)

var (
	// ErrMissingMembership is returned (wrapped) when an image has no entry in the membership mapping.
	ErrMissingMembership = errors.New("image not found in membership mapping")

	// ErrUnknownCategory is returned (wrapped) when a category id is not part of the vocabulary.
	ErrUnknownCategory = errors.New("category not found in vocabulary")
)

// Membership maps an image file name to its category id.
type Membership map[string]string

// Category returns the category id of the image, or an error wrapping ErrMissingMembership.
func (m Membership) Category(imageName string) (string, error) {
	id, found := m[imageName]
	if !found {
		return "", errors.Wrapf(ErrMissingMembership, "image %q", imageName)
	}
	return id, nil
}

// Vocabulary is the ordered list of category ids: the label of a category is its position.
// It is immutable once created.
type Vocabulary struct {
	ids   []string
	index map[string]int
}

// NewVocabulary creates a Vocabulary with the ids in the given order, dropping repeated ones.
func NewVocabulary(ids ...string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int, len(ids))}
	for _, id := range ids {
		if _, found := v.index[id]; found {
			continue
		}
		v.index[id] = len(v.ids)
		v.ids = append(v.ids, id)
	}
	return v
}

// VocabularyFromMemberships builds the Vocabulary of the union of the category ids of
// all memberships, sorted.
func VocabularyFromMemberships(memberships ...Membership) *Vocabulary {
	var ids []string
	for _, m := range memberships {
		for _, id := range m {
			ids = append(ids, id)
		}
	}
	return NewVocabulary(xslices.SortedUnique(ids)...)
}

// Len returns the number of categories.
func (v *Vocabulary) Len() int { return len(v.ids) }

// IDs returns a copy of the ordered category ids.
func (v *Vocabulary) IDs() []string { return slices.Clone(v.ids) }

// At returns the category id for label.
func (v *Vocabulary) At(label int) string { return v.ids[label] }

// Index returns the label of the category id, or an error wrapping ErrUnknownCategory.
func (v *Vocabulary) Index(id string) (int, error) {
	label, found := v.index[id]
	if !found {
		return -1, errors.Wrapf(ErrUnknownCategory, "category %q", id)
	}
	return label, nil
}

// LabelFunc resolves the label of an image from its file name. It also returns the category id.
type LabelFunc func(imageName string) (label int, categoryID string, err error)

// MembershipLabeler resolves labels with vocabulary.Index(membership[imageName]).
func MembershipLabeler(membership Membership, vocabulary *Vocabulary) LabelFunc {
	return func(imageName string) (int, string, error) {
		id, err := membership.Category(imageName)
		if err != nil {
			return -1, "", err
		}
		label, err := vocabulary.Index(id)
		if err != nil {
			return -1, id, errors.WithMessagef(err, "image %q", imageName)
		}
		return label, id, nil
	}
}
