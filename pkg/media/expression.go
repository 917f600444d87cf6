// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Filter is the subset of the search expression language that backends
// without a native search index can evaluate locally: terms of the form
// field:value or field=value joined by AND. Supported fields are folder,
// resource_type, tags, format and public_id; a trailing * on a value makes
// it a prefix match.
type Filter struct {
	terms []term
}

type term struct {
	field  string
	value  string
	prefix bool
}

var andSplitter = regexp.MustCompile(`(?i)\s+AND\s+`)

// ParseFilter parses expr. An empty expression matches everything.
func ParseFilter(expr string) (*Filter, error) {
	f := &Filter{}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return f, nil
	}
	for _, raw := range andSplitter.Split(expr, -1) {
		raw = strings.TrimSpace(raw)
		idx := strings.IndexAny(raw, ":=")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid search term %q", raw)
		}
		t := term{
			field: strings.ToLower(strings.TrimSpace(raw[:idx])),
			value: strings.Trim(strings.TrimSpace(raw[idx+1:]), `"'`),
		}
		switch t.field {
		case "folder", "resource_type", "tags", "format", "public_id":
		default:
			return nil, fmt.Errorf("unsupported search field %q", t.field)
		}
		if strings.HasSuffix(t.value, "*") {
			t.prefix = true
			t.value = strings.TrimSuffix(t.value, "*")
		}
		f.terms = append(f.terms, t)
	}
	return f, nil
}

// FolderPrefix returns the narrowest key prefix implied by the filter, for
// backends that can list by prefix.
func (f *Filter) FolderPrefix() string {
	for _, t := range f.terms {
		if t.field == "folder" {
			if t.prefix {
				return t.value
			}
			return strings.TrimSuffix(t.value, "/") + "/"
		}
		if t.field == "public_id" && t.prefix {
			return t.value
		}
	}
	return ""
}

// Category returns the category the filter is pinned to, if any.
func (f *Filter) Category() (Category, bool) {
	for _, t := range f.terms {
		if t.field == "resource_type" && !t.prefix {
			c := Category(strings.ToLower(t.value))
			if c.Resolved() {
				return c, true
			}
		}
	}
	return "", false
}

// Match reports whether info satisfies every term.
func (f *Filter) Match(info *ResourceInfo) bool {
	for _, t := range f.terms {
		if !t.match(info) {
			return false
		}
	}
	return true
}

func (t term) match(info *ResourceInfo) bool {
	switch t.field {
	case "folder":
		folder := ""
		if i := strings.LastIndex(info.PublicID, "/"); i >= 0 {
			folder = info.PublicID[:i]
		}
		return t.matchString(folder)
	case "resource_type":
		return t.matchString(string(info.Category))
	case "format":
		return t.matchString(info.Format)
	case "public_id":
		return t.matchString(info.PublicID)
	case "tags":
		return slices.ContainsFunc(info.Tags, t.matchString)
	}
	return false
}

func (t term) matchString(s string) bool {
	if t.prefix {
		return strings.HasPrefix(s, t.value)
	}
	return s == t.value
}

// NeedsMetadata reports whether matching needs more than the identifier and
// category, so listing-based stores know when to fetch object metadata.
func (f *Filter) NeedsMetadata() bool {
	for _, t := range f.terms {
		if t.field == "tags" || t.field == "format" {
			return true
		}
	}
	return false
}
