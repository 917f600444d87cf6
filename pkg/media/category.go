// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"fmt"
	"strings"
)

// Category is the store's coarse classification of an asset. The store only
// accepts delete and info calls that name the asset's true category.
type Category string

const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
	CategoryRaw   Category = "raw"
	// CategoryAuto lets the store decide at upload time. It is never
	// returned for a stored asset.
	CategoryAuto Category = "auto"
)

// probeOrder is the fixed order used when probing categories after a
// not-found response.
var probeOrder = []Category{CategoryImage, CategoryVideo, CategoryRaw}

// ResolvedCategories returns the categories an asset can live under, in
// probe order.
func ResolvedCategories() []Category {
	out := make([]Category, len(probeOrder))
	copy(out, probeOrder)
	return out
}

// Resolved reports whether c names a concrete storage category.
func (c Category) Resolved() bool {
	switch c {
	case CategoryImage, CategoryVideo, CategoryRaw:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a category name. The empty string parses to the empty
// category, meaning "no hint".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case "", CategoryImage, CategoryVideo, CategoryRaw, CategoryAuto:
		return c, nil
	}
	return "", fmt.Errorf("unknown resource category %q", s)
}
