// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3store

import (
	"context"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Search lists candidate keys under the narrowest prefix the expression
// allows and evaluates it with media.Filter. Every candidate's metadata is
// fetched only when the expression matches on it; otherwise requested
// fields are fetched for the returned page alone.
func (s *Store) Search(ctx context.Context, req *media.SearchRequest) (*media.SearchResult, error) {
	filter, err := media.ParseFilter(req.Expression)
	if err != nil {
		return nil, media.ValidationError("search", err.Error())
	}

	categories := media.ResolvedCategories()
	if c, ok := filter.Category(); ok {
		categories = []media.Category{c}
	}

	var candidates []media.ResourceInfo
	for _, c := range categories {
		p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
			Prefix: aws.String(objectKey(c, filter.FolderPrefix())),
		})
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return nil, remoteError(ctx, "search", err)
			}
			for _, obj := range page.Contents {
				id := strings.TrimPrefix(aws.ToString(obj.Key), string(c)+"/")
				info := media.ResourceInfo{AssetDescriptor: media.AssetDescriptor{
					PublicID:  id,
					SecureURL: s.secureURL(c, id),
					Category:  c,
					Bytes:     aws.ToInt64(obj.Size),
					ETag:      strings.Trim(aws.ToString(obj.ETag), `"`),
				}}
				if obj.LastModified != nil {
					info.CreatedAt = *obj.LastModified
				}
				candidates = append(candidates, info)
			}
		}
	}

	if filter.NeedsMetadata() {
		candidates, err = s.hydrate(ctx, candidates)
		if err != nil {
			return nil, err
		}
	}

	matched := candidates[:0]
	for i := range candidates {
		if filter.Match(&candidates[i]) {
			matched = append(matched, candidates[i])
		}
	}
	res, err := media.PageResults(matched, req)
	if err != nil {
		return nil, err
	}

	// Requested fields live in object metadata; fetch them for the page only.
	if !filter.NeedsMetadata() && len(req.WithFields) > 0 && len(res.Resources) > 0 {
		res.Resources, err = s.hydrate(ctx, res.Resources)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// hydrate replaces listing entries with their full metadata, keeping the
// input order. Objects that vanished since the listing are dropped.
func (s *Store) hydrate(ctx context.Context, rs []media.ResourceInfo) ([]media.ResourceInfo, error) {
	positions := make(map[media.Category][]int)
	for i, r := range rs {
		positions[r.Category] = append(positions[r.Category], i)
	}
	full := make([]*media.ResourceInfo, len(rs))
	for c, idx := range positions {
		ids := make([]string, len(idx))
		for j, i := range idx {
			ids[j] = rs[i].PublicID
		}
		found, err := s.headMany(ctx, "search", ids, c)
		if err != nil {
			return nil, err
		}
		for j, info := range found {
			full[idx[j]] = info
		}
	}
	out := make([]media.ResourceInfo, 0, len(rs))
	for _, info := range full {
		if info != nil {
			out = append(out, *info)
		}
	}
	return out, nil
}
