// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"slices"
	"strconv"
	"strings"
)

// PageResults sorts matched in place and cuts the page req asks for. It
// backs stores that evaluate searches locally; their cursor is the offset
// of the next page.
func PageResults(matched []ResourceInfo, req *SearchRequest) (*SearchResult, error) {
	offset := 0
	if req.NextCursor != "" {
		n, err := strconv.Atoi(req.NextCursor)
		if err != nil || n < 0 {
			return nil, ValidationError("search", "invalid cursor")
		}
		offset = n
	}

	SortResources(matched, req.SortBy, req.Direction)

	res := &SearchResult{TotalCount: len(matched)}
	if offset >= len(matched) {
		return res, nil
	}
	end := len(matched)
	if req.MaxResults > 0 && offset+req.MaxResults < end {
		end = offset + req.MaxResults
		res.NextCursor = strconv.Itoa(end)
	}
	res.Resources = matched[offset:end]
	return res, nil
}

// SortResources orders rs by created_at, bytes or public_id. Ties and
// unknown fields fall back to public_id.
func SortResources(rs []ResourceInfo, field string, dir SortDirection) {
	slices.SortFunc(rs, func(a, b ResourceInfo) int {
		var cmp int
		switch field {
		case "created_at":
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		case "bytes":
			cmp = int(a.Bytes - b.Bytes)
		}
		if cmp == 0 {
			cmp = strings.Compare(a.PublicID, b.PublicID)
		}
		if dir == SortDesc {
			return -cmp
		}
		return cmp
	})
}
