// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"net/url"
	"strings"
)

// DefaultDeliveryBase is the public host serving stored assets.
const DefaultDeliveryBase = "https://res.cloudinary.com"

// DefaultPipeline is the optimization chain applied to every upload and
// delivery URL unless the caller overrides it.
func DefaultPipeline() []Directive {
	return Directives(map[string]any{
		"quality":      "auto:good",
		"fetch_format": "auto",
	})
}

// Delivery builds retrieval URLs. It performs no I/O and is safe for
// concurrent use.
type Delivery struct {
	base  string
	cloud string
}

// NewDelivery returns a URL builder for the given delivery base and account.
func NewDelivery(base, cloud string) *Delivery {
	if base == "" {
		base = DefaultDeliveryBase
	}
	return &Delivery{base: strings.TrimRight(base, "/"), cloud: cloud}
}

// URL returns the delivery URL of id with the given pipeline applied
// verbatim.
func (d *Delivery) URL(id string, c Category, seq []Directive) string {
	if !c.Resolved() {
		c = ResolveForIdentifier(id)
	}
	path, format := EncodeTransformation(seq)

	var b strings.Builder
	b.WriteString(d.base)
	if d.cloud != "" {
		b.WriteString("/")
		b.WriteString(url.PathEscape(d.cloud))
	}
	b.WriteString("/")
	b.WriteString(string(c))
	b.WriteString("/upload/")
	if path != "" {
		b.WriteString(path)
		b.WriteString("/")
	}
	b.WriteString(EscapeID(id))
	if format != "" {
		b.WriteString(".")
		b.WriteString(format)
	}
	return b.String()
}

// OptimizedURL composes the default pipeline with overrides and returns the
// delivery URL of id. Raw assets are delivered untransformed.
func (d *Delivery) OptimizedURL(id string, overrides ...Directive) string {
	c := ResolveForIdentifier(id)
	if c == CategoryRaw {
		return d.URL(id, c, nil)
	}
	return d.URL(id, c, Compose(DefaultPipeline(), overrides))
}

// ThumbnailURL returns a square, face-aware crop of id. A non-positive size
// yields the optimized URL without a resize step.
func (d *Delivery) ThumbnailURL(id string, size int) string {
	if size <= 0 {
		return d.OptimizedURL(id)
	}
	thumb := NewDirective(map[string]any{
		"width":   size,
		"height":  size,
		"crop":    "fill",
		"gravity": "auto",
	})
	return d.OptimizedURL(id, thumb)
}

// EscapeID path-escapes each segment of a folder-qualified identifier.
func EscapeID(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
