// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import "strings"

var (
	imageFormats = map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {}, "webp": {}, "gif": {}, "svg": {},
	}
	videoFormats = map[string]struct{}{
		"mp4": {}, "mov": {}, "avi": {}, "mkv": {}, "webm": {},
	}
)

// ResolveForUpload picks the category an upload is sent under.
//
// Precedence: an explicit hint (including auto) wins, then the declared
// format is classified against fixed tables (unknown formats are raw), and
// with neither the store is asked to decide (auto).
func ResolveForUpload(hint Category, declaredFormat string) Category {
	if hint != "" {
		return hint
	}
	format := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(declaredFormat), "."))
	if format == "" {
		return CategoryAuto
	}
	if _, ok := imageFormats[format]; ok {
		return CategoryImage
	}
	if _, ok := videoFormats[format]; ok {
		return CategoryVideo
	}
	return CategoryRaw
}

// ResolveForIdentifier guesses the category of a stored asset from folder
// markers in its identifier. The guess is never authoritative.
func ResolveForIdentifier(id string) Category {
	segments := strings.Split(strings.ToLower(id), "/")
	// The last segment is the asset name, not a folder.
	for _, segment := range segments[:len(segments)-1] {
		switch segment {
		case "documents", "pdf":
			return CategoryRaw
		case "videos", "video":
			return CategoryVideo
		}
	}
	return CategoryImage
}
