// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind groups transformation keys that must not appear twice in one
// pipeline. The store applies repeated directives of a kind in an
// unspecified order.
type Kind uint8

const (
	KindResize Kind = 1 << iota
	KindFormat
	KindEffect
)

// keyKinds maps a directive key to the kind it belongs to. Keys missing here
// belong to no kind and never cause a merge.
var keyKinds = map[string]Kind{
	"width":        KindResize,
	"height":       KindResize,
	"crop":         KindResize,
	"quality":      KindFormat,
	"format":       KindFormat,
	"fetch_format": KindFormat,
	"effect":       KindEffect,
}

func (k Kind) String() string {
	var names []string
	if k&KindResize != 0 {
		names = append(names, "resize")
	}
	if k&KindFormat != 0 {
		names = append(names, "format")
	}
	if k&KindEffect != 0 {
		names = append(names, "effect")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Has reports whether k contains every kind in other.
func (k Kind) Has(other Kind) bool {
	return k&other == other
}

// Directive is one step of a transformation pipeline: a set of fields
// tagged with the kinds those fields belong to.
type Directive struct {
	Kinds  Kind
	Fields map[string]any
}

// NewDirective builds a directive from loose fields, deriving its kinds.
// The fields map is copied.
func NewDirective(fields map[string]any) Directive {
	d := Directive{Fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		d.Fields[k] = v
		d.Kinds |= keyKinds[k]
	}
	return d
}

// Directives normalizes any number of loose field maps into a sequence.
// Empty maps are dropped.
func Directives(fields ...map[string]any) []Directive {
	out := make([]Directive, 0, len(fields))
	for _, f := range fields {
		if len(f) == 0 {
			continue
		}
		out = append(out, NewDirective(f))
	}
	return out
}

// Clone returns a deep-enough copy: the field map is new (never nil),
// values are shared.
func (d Directive) Clone() Directive {
	fields := maps.Clone(d.Fields)
	if fields == nil {
		fields = make(map[string]any)
	}
	return Directive{Kinds: d.Kinds, Fields: fields}
}

// Overlaps reports whether d and other share at least one kind.
func (d Directive) Overlaps(other Directive) bool {
	return d.Kinds&other.Kinds != 0
}

// Compose merges caller overrides into a default pipeline.
//
// Each override is merged onto the first existing entry sharing a kind with
// it (override fields win); an override sharing no kind is appended. A
// directive spanning two kinds lands on whichever matching entry comes
// first, and the other kind is not reconciled against later entries.
// Neither input is modified.
func Compose(defaults, overrides []Directive) []Directive {
	result := make([]Directive, 0, len(defaults)+len(overrides))
	for _, d := range defaults {
		result = append(result, d.Clone())
	}

	for _, o := range overrides {
		if len(o.Fields) == 0 {
			continue
		}
		merged := false
		for i := range result {
			if !result[i].Overlaps(o) {
				continue
			}
			for k, v := range o.Fields {
				result[i].Fields[k] = v
			}
			result[i].Kinds |= o.Kinds
			merged = true
			break
		}
		if !merged {
			result = append(result, o.Clone())
		}
	}
	return result
}

// paramAbbreviations maps directive keys to their delivery URL form.
var paramAbbreviations = map[string]string{
	"angle":        "a",
	"aspect_ratio": "ar",
	"background":   "b",
	"border":       "bo",
	"color":        "co",
	"crop":         "c",
	"dpr":          "dpr",
	"effect":       "e",
	"fetch_format": "f",
	"flags":        "fl",
	"gravity":      "g",
	"height":       "h",
	"opacity":      "o",
	"quality":      "q",
	"radius":       "r",
	"width":        "w",
	"x":            "x",
	"y":            "y",
	"zoom":         "z",
}

// EncodeTransformation renders a pipeline in the store's path syntax, e.g.
// "q_auto:good,f_auto/c_fill,w_640". Components are sorted for stable
// output. The format key is not a path parameter; the last one seen is
// returned separately so callers can use it as the file extension. Keys
// the store does not understand are skipped.
func EncodeTransformation(seq []Directive) (path string, format string) {
	steps := make([]string, 0, len(seq))
	for _, d := range seq {
		params := make([]string, 0, len(d.Fields))
		for k, v := range d.Fields {
			if k == "format" {
				format = formatValue(v)
				continue
			}
			abbr, ok := paramAbbreviations[k]
			if !ok {
				continue
			}
			params = append(params, abbr+"_"+formatValue(v))
		}
		if len(params) == 0 {
			continue
		}
		slices.Sort(params)
		steps = append(steps, strings.Join(params, ","))
	}
	return strings.Join(steps, "/"), format
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
